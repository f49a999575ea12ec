package adminapi

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/d085/storefront/internal/otp"
	"github.com/d085/storefront/internal/webserver"
)

type forgotPasswordPayload struct {
	Email string `json:"email" validate:"required,email"`
}

type resetPasswordPayload struct {
	Code        string `json:"code" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=8"`
}

type changeEmailPayload struct {
	Code     string `json:"code" validate:"required"`
	NewEmail string `json:"new_email" validate:"required,email"`
}

// registerAccountRoutes wires the one-time-code flows. Password reset is
// reachable without a session, which is its entire point; the email
// change endpoints require a live admin session.
func registerAccountRoutes() {
	webserver.PubPOST("/auth/password/forgot", forgotPassword)
	webserver.PubPOST("/auth/password/reset", resetPassword)
	webserver.ApiPOST("/account/email/request", requestEmailChange)
	webserver.ApiPOST("/account/email/confirm", confirmEmailChange)
}

// failOtp maps the service's sentinel errors onto the API taxonomy.
func failOtp(c echo.Context, err error) error {
	switch {
	case errors.Is(err, otp.ErrUserNotFound):
		return fail(c, http.StatusNotFound, "USER_NOT_FOUND", "No account matches this email", nil)
	case errors.Is(err, otp.ErrCodeNotFound):
		return fail(c, http.StatusNotFound, "CODE_NOT_FOUND", "No active code for this action", nil)
	case errors.Is(err, otp.ErrCodeExpired):
		return fail(c, http.StatusGone, "CODE_EXPIRED", "This code has expired, request a new one", nil)
	case errors.Is(err, otp.ErrCodeMismatch):
		return fail(c, http.StatusBadRequest, "CODE_MISMATCH", "Invalid code", nil)
	default:
		return fail(c, http.StatusInternalServerError, "OTP_ERROR", "Failed to process the code", err.Error())
	}
}

func forgotPassword(c echo.Context) error {
	var payload forgotPasswordPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse request", err.Error())
	}
	email := strings.TrimSpace(strings.ToLower(payload.Email))
	if email == "" {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Email is required", nil)
	}

	if err := otpService.RequestPasswordReset(c.Request().Context(), email); err != nil {
		return failOtp(c, err)
	}
	return ok(c, map[string]interface{}{"sent": true})
}

func resetPassword(c echo.Context) error {
	var payload resetPasswordPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse request", err.Error())
	}
	if payload.Code == "" {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Code is required", nil)
	}
	if len(payload.NewPassword) < 8 {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Password must have at least 8 characters", nil)
	}

	if err := otpService.VerifyAndSetPassword(c.Request().Context(), payload.Code, payload.NewPassword); err != nil {
		return failOtp(c, err)
	}
	return ok(c, map[string]interface{}{"updated": true})
}

func requestEmailChange(c echo.Context) error {
	if err := otpService.RequestEmailChange(c.Request().Context()); err != nil {
		return failOtp(c, err)
	}
	return ok(c, map[string]interface{}{"sent": true})
}

func confirmEmailChange(c echo.Context) error {
	var payload changeEmailPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse request", err.Error())
	}
	email := strings.TrimSpace(strings.ToLower(payload.NewEmail))
	if payload.Code == "" || email == "" {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Code and new email are required", nil)
	}

	if err := otpService.VerifyAndSetEmail(c.Request().Context(), payload.Code, email); err != nil {
		return failOtp(c, err)
	}
	return ok(c, map[string]interface{}{"updated": true})
}
