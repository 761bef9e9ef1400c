package adminapi

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/vxsahu/crm-system/internal/app"
	"github.com/vxsahu/crm-system/internal/importer"
	"github.com/vxsahu/crm-system/internal/webserver"
)

// InitRouter registers every admin API route.
func InitRouter() {
	registerAuthRoutes()
	registerProductRoutes()
	registerBulkRoutes()
	registerImportRoutes()
	registerExportRoutes()
	registerDashboardRoutes()
}

// GetApp returns the application context attached to the request.
func GetApp(c echo.Context) *app.Application {
	return c.Get("app").(*app.Application)
}

// GetDB returns the request database handle.
func GetDB(c echo.Context) *gorm.DB {
	return GetApp(c).DB()
}

// ErrorResponse is the uniform error envelope.
type ErrorResponse struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

type ListResponse struct {
	Data    interface{} `json:"data"`
	Total   int64       `json:"total"`
	Page    int         `json:"page"`
	PerPage int         `json:"perPage"`
}

func ok(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, data)
}

func created(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusCreated, data)
}

func fail(c echo.Context, status int, code, message string, details interface{}) error {
	return c.JSON(status, ErrorResponse{Code: code, Message: message, Details: details})
}

func paged(c echo.Context, rows interface{}, total int64, page, perPage int) error {
	return c.JSON(http.StatusOK, ListResponse{Data: rows, Total: total, Page: page, PerPage: perPage})
}

// parsePagination reads optional page/perPage query params; perPage 0 means
// the caller wants the whole collection.
func parsePagination(c echo.Context) (int, int) {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	if page < 1 {
		page = 1
	}
	perPage, _ := strconv.Atoi(c.QueryParam("perPage"))
	if perPage < 0 || perPage > 500 {
		perPage = 0
	}
	return page, perPage
}

// failImportError maps the importer error taxonomy onto HTTP responses,
// keeping the structured conflict detail available to the caller.
func failImportError(c echo.Context, err error) error {
	switch e := err.(type) {
	case *importer.ValidationError:
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", e.Error(), nil)
	case *importer.DuplicateInBatchError:
		return fail(c, http.StatusBadRequest, "DUPLICATE_IN_FILE", e.Error(), e.Conflicts)
	case *importer.DuplicateInDatabaseError:
		return fail(c, http.StatusConflict, "DUPLICATE_IN_DATABASE", e.Error(), map[string]interface{}{
			"tags":    e.Tags,
			"serials": e.Serials,
		})
	case *importer.ParseError:
		return fail(c, http.StatusBadRequest, "PARSE_ERROR", e.Error(), nil)
	case *importer.PersistenceError:
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", e.Error(), e.Failures)
	default:
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Import failed", err.Error())
	}
}

// isDuplicateErr reports whether a storage error is a uniqueness violation.
func isDuplicateErr(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") || strings.Contains(msg, "unique")
}

// currentClaims parses the auth cookie (or bearer header) and returns the
// token claims, or nil when no valid identity is present.
func currentClaims(c echo.Context) jwt.MapClaims {
	var raw string
	if cookie, err := c.Cookie(webserver.TokenCookieName); err == nil {
		raw = cookie.Value
	} else if h := c.Request().Header.Get(echo.HeaderAuthorization); strings.HasPrefix(h, "Bearer ") {
		raw = strings.TrimPrefix(h, "Bearer ")
	}
	if raw == "" {
		return nil
	}

	secret := []byte(GetApp(c).Config().Web.Secret)
	token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return secret, nil
	})
	if err != nil || !token.Valid {
		return nil
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil
	}
	return claims
}

// operatorName returns the acting operator's email for the operation log.
func operatorName(c echo.Context) string {
	if claims := currentClaims(c); claims != nil {
		if email, ok := claims["email"].(string); ok {
			return email
		}
	}
	return "unknown"
}
