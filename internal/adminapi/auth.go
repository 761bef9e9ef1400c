package adminapi

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/vxsahu/crm-system/internal/domain"
	"github.com/vxsahu/crm-system/internal/oplog"
	"github.com/vxsahu/crm-system/internal/webserver"
	"github.com/vxsahu/crm-system/pkg/common"
)

type registerPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type loginPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// registerAuthRoutes registers the cookie-session auth endpoints
func registerAuthRoutes() {
	webserver.PubPOST("/auth/register", registerOperator)
	webserver.PubPOST("/auth/login", loginOperator)
	webserver.PubPOST("/auth/logout", logoutOperator)
	webserver.PubGET("/auth/me", currentOperator)
}

func issueToken(c echo.Context, opr *domain.Operator) error {
	cfg := GetApp(c).Config().Web
	maxAge := cfg.JwtMaxAge
	if maxAge <= 0 {
		maxAge = 7 * 24 * 3600
	}

	claims := jwt.MapClaims{
		"uid":   strconv.FormatInt(opr.ID, 10),
		"email": opr.Email,
		"level": opr.Level,
		"exp":   time.Now().Add(time.Duration(maxAge) * time.Second).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(cfg.Secret))
	if err != nil {
		return err
	}

	c.SetCookie(&http.Cookie{
		Name:     webserver.TokenCookieName,
		Value:    signed,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

func registerOperator(c echo.Context) error {
	var payload registerPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse request", err.Error())
	}

	payload.Email = strings.ToLower(strings.TrimSpace(payload.Email))
	payload.Name = strings.TrimSpace(payload.Name)
	if payload.Email == "" || payload.Password == "" || payload.Name == "" {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Name, email, and password are required", nil)
	}
	if len(payload.Password) < 6 {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Password must be at least 6 characters long", nil)
	}

	db := GetDB(c)
	var existing domain.Operator
	if err := db.Where("email = ?", payload.Email).First(&existing).Error; err == nil {
		return fail(c, http.StatusConflict, "DUPLICATE_EMAIL", "Operator with this email already exists", nil)
	}

	hashed, err := common.HashPassword(payload.Password)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create operator", err.Error())
	}

	opr := domain.Operator{
		ID:        common.UUIDint64(),
		Email:     payload.Email,
		Password:  hashed,
		Name:      payload.Name,
		Level:     "user",
		Status:    common.ENABLED,
		LastLogin: time.Now(),
	}
	if err := db.Create(&opr).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to create operator", err.Error())
	}

	if err := issueToken(c, &opr); err != nil {
		return fail(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to issue token", err.Error())
	}
	return created(c, opr)
}

func loginOperator(c echo.Context) error {
	var payload loginPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse request", err.Error())
	}
	payload.Email = strings.ToLower(strings.TrimSpace(payload.Email))

	db := GetDB(c)
	var opr domain.Operator
	err := db.Where("email = ?", payload.Email).First(&opr).Error
	if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && !common.CheckPassword(opr.Password, payload.Password)) {
		return fail(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid email or password", nil)
	}
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Login failed", err.Error())
	}
	if opr.Status != common.ENABLED {
		return fail(c, http.StatusUnauthorized, "DISABLED", "Account is disabled", nil)
	}

	db.Model(&domain.Operator{}).Where("id = ?", opr.ID).Update("last_login", time.Now())

	if err := issueToken(c, &opr); err != nil {
		return fail(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to issue token", err.Error())
	}

	GetApp(c).OpLog().Publish(oplog.Entry{
		OprName: opr.Email,
		OprIp:   c.RealIP(),
		Action:  "login",
		Desc:    "operator logged in",
	})
	return ok(c, opr)
}

func logoutOperator(c echo.Context) error {
	c.SetCookie(&http.Cookie{
		Name:     webserver.TokenCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return ok(c, map[string]interface{}{"success": true})
}

func currentOperator(c echo.Context) error {
	claims := currentClaims(c)
	if claims == nil {
		return fail(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required", nil)
	}

	uid, _ := claims["uid"].(string)
	id, err := strconv.ParseInt(uid, 10, 64)
	if err != nil {
		return fail(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required", nil)
	}

	var opr domain.Operator
	if err := GetDB(c).Where("id = ?", id).First(&opr).Error; err != nil {
		return fail(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required", nil)
	}
	return ok(c, opr)
}
