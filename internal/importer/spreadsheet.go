package importer

import (
	"encoding/csv"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Row is one spreadsheet row keyed by column header. Missing cells are
// simply absent from the map.
type Row map[string]string

// Decode parses uploaded file bytes into an ordered sequence of row maps.
// The format is chosen by file extension: .csv is read directly, anything
// else is treated as a workbook and the first sheet is used. An unreadable
// file yields a ParseError.
func Decode(filename string, r io.Reader) ([]Row, error) {
	if strings.HasSuffix(strings.ToLower(filename), ".csv") {
		return decodeCSV(r)
	}
	return decodeWorkbook(r)
}

func decodeCSV(r io.Reader) ([]Row, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, &ParseError{Reason: "failed to read csv header", Err: err}
	}
	for i := range header {
		header[i] = strings.TrimSpace(strings.TrimPrefix(header[i], "\uFEFF"))
	}

	var rows []Row
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &ParseError{Reason: "failed to read csv row", Err: err}
		}
		row := make(Row, len(header))
		for i, value := range record {
			if i < len(header) && header[i] != "" {
				row[header[i]] = strings.TrimSpace(value)
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func decodeWorkbook(r io.Reader) ([]Row, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, &ParseError{Reason: "failed to open workbook", Err: err}
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, &ParseError{Reason: "workbook has no sheets"}
	}

	// Raw cell values keep numeric serial dates numeric instead of
	// rendering them through the cell's date format.
	cells, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, &ParseError{Reason: "failed to read sheet", Err: err}
	}
	if len(cells) == 0 {
		return nil, nil
	}

	header := cells[0]
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	rows := make([]Row, 0, len(cells)-1)
	for _, record := range cells[1:] {
		row := make(Row, len(header))
		for i, value := range record {
			if i < len(header) && header[i] != "" {
				row[header[i]] = strings.TrimSpace(value)
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}
