package domain

var Tables = []interface{}{
	// System
	&Operator{},
	&OprLog{},
	// Inventory
	&Product{},
}
