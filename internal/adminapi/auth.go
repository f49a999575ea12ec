package adminapi

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/d085/storefront/internal/domain"
	"github.com/d085/storefront/internal/webserver"
)

const sessionTTL = 24 * time.Hour

type loginPayload struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type sessionClaims struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	jwt.RegisteredClaims
}

// registerAuthRoutes registers the session endpoints. Login and the
// session read are public; everything under /admin/api requires the JWT.
func registerAuthRoutes() {
	webserver.PubPOST("/login", login)
	webserver.PubGET("/session", currentSession)
	webserver.PubPOST("/logout", logout)
}

func login(c echo.Context) error {
	var payload loginPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse credentials", err.Error())
	}
	email := strings.TrimSpace(strings.ToLower(payload.Email))
	if email == "" || payload.Password == "" {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Email and password are required", nil)
	}

	var account domain.Account
	err := GetDB(c).Where("email = ?", email).First(&account).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid email or password", nil)
	}
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query account", err.Error())
	}

	if bcrypt.CompareHashAndPassword([]byte(account.Password), []byte(payload.Password)) != nil {
		return fail(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid email or password", nil)
	}

	now := time.Now()
	claims := sessionClaims{
		Email: account.Email,
		Name:  account.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   account.Email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(sessionTTL)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).
		SignedString([]byte(webserver.AppConfig().Web.Secret))
	if err != nil {
		return fail(c, http.StatusInternalServerError, "TOKEN_ERROR", "Failed to sign session token", err.Error())
	}

	GetDB(c).Model(&domain.Account{}).Where("id = ?", account.ID).Update("last_login", now)

	c.SetCookie(&http.Cookie{
		Name:     webserver.TokenCookieName,
		Value:    token,
		Path:     "/",
		Expires:  now.Add(sessionTTL),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	zap.L().Info("admin login", zap.String("email", account.Email))
	return ok(c, map[string]interface{}{"token": token, "name": account.Name, "email": account.Email})
}

// currentSession reports the logged-in session, or null when there is
// none. An absent or invalid session is a normal state here, never an
// error: the response is an empty payload, not a failure.
func currentSession(c echo.Context) error {
	cookie, err := c.Cookie(webserver.TokenCookieName)
	if err != nil || cookie.Value == "" {
		return ok(c, nil)
	}

	claims := new(sessionClaims)
	token, err := jwt.ParseWithClaims(cookie.Value, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(webserver.AppConfig().Web.Secret), nil
	})
	if err != nil || !token.Valid {
		return ok(c, nil)
	}

	return ok(c, map[string]interface{}{"email": claims.Email, "name": claims.Name})
}

func logout(c echo.Context) error {
	c.SetCookie(&http.Cookie{
		Name:     webserver.TokenCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	return ok(c, map[string]interface{}{"logged_out": true})
}
