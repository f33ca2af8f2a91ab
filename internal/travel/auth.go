package travel

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/kruglovaa/go-travel-client/internal/client"
	"github.com/kruglovaa/go-travel-client/internal/models"
)

// AuthClient — фасад эндпойнтов /auth/*.
type AuthClient struct {
	api *client.Client
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerRequest struct {
	FullName   string `json:"fullName"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	RePassword string `json:"rePassword"`
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

type verifyOTPRequest struct {
	OTPID string `json:"otpId"`
	Code  string `json:"code"`
}

type resetPasswordRequest struct {
	OTPID         string `json:"otpId"`
	NewPassword   string `json:"newPassword"`
	ReNewPassword string `json:"reNewPassword"`
}

type changePasswordRequest struct {
	UserID  string `json:"userId"`
	OldPass string `json:"oldPass"`
	NewPass string `json:"newPass"`
}

// Login выполняет вход по email+пароль.
func (a *AuthClient) Login(ctx context.Context, email, password string) (*models.LoginResult, error) {
	const op = "travel.auth.Login"

	normEmail, err := validateEmail(email)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidEmail)
	}

	if password == "" {
		return nil, fmt.Errorf("%s: %w", op, ErrEmptyPassword)
	}

	var out models.LoginResult
	if err := a.api.DoJSON(ctx, http.MethodPost, "/auth/login", loginRequest{
		Email:    normEmail,
		Password: password,
	}, &out); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &out, nil
}

// Register регистрирует нового пользователя.
func (a *AuthClient) Register(ctx context.Context, fullName, email, password, rePassword string) (*models.LoginResult, error) {
	const op = "travel.auth.Register"

	fullName = strings.TrimSpace(fullName)
	if fullName == "" {
		return nil, fmt.Errorf("%s: %w", op, ErrEmptyField)
	}

	normEmail, err := validateEmail(email)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidEmail)
	}

	if err := validatePassword(password); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if password != rePassword {
		return nil, fmt.Errorf("%s: %w", op, ErrPasswordMismatch)
	}

	var out models.LoginResult
	if err := a.api.DoJSON(ctx, http.MethodPost, "/auth/register", registerRequest{
		FullName:   fullName,
		Email:      normEmail,
		Password:   password,
		RePassword: rePassword,
	}, &out); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &out, nil
}

// Me резолвит профиль по текущему credential (из TokenSource клиента).
func (a *AuthClient) Me(ctx context.Context) (*models.User, error) {
	const op = "travel.auth.Me"

	var out models.User
	if err := a.api.DoJSON(ctx, http.MethodGet, "/auth/me", nil, &out); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &out, nil
}

// MeWithToken резолвит профиль по явно переданному credential
// (восстановление сессии, вход по сохранённому токену другого аккаунта).
func (a *AuthClient) MeWithToken(ctx context.Context, token string) (*models.User, error) {
	const op = "travel.auth.MeWithToken"

	if token == "" {
		return nil, fmt.Errorf("%s: %w", op, ErrEmptyField)
	}

	var out models.User
	if err := a.api.DoJSON(ctx, http.MethodGet, "/auth/me", nil, &out,
		client.WithHeader("Authorization", "Bearer "+token),
	); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &out, nil
}

// Logout инвалидирует сессию на сервере.
// Локальную чистку credential выполняет менеджер сессии.
func (a *AuthClient) Logout(ctx context.Context) error {
	const op = "travel.auth.Logout"

	if _, err := a.api.Do(ctx, http.MethodPost, "/auth/logout", nil); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// ForgotPassword запускает восстановление пароля, возвращает OTP-сессию.
func (a *AuthClient) ForgotPassword(ctx context.Context, email string) (*models.OTPSession, error) {
	const op = "travel.auth.ForgotPassword"

	normEmail, err := validateEmail(email)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidEmail)
	}

	var out models.OTPSession
	if err := a.api.DoJSON(ctx, http.MethodPost, "/auth/forgot-password", forgotPasswordRequest{
		Email: normEmail,
	}, &out); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &out, nil
}

// VerifyOTP проверяет одноразовый код в рамках OTP-сессии.
func (a *AuthClient) VerifyOTP(ctx context.Context, otpID, code string) (bool, error) {
	const op = "travel.auth.VerifyOTP"

	if otpID == "" || strings.TrimSpace(code) == "" {
		return false, fmt.Errorf("%s: %w", op, ErrEmptyField)
	}

	var out struct {
		Status bool `json:"status"`
	}
	if err := a.api.DoJSON(ctx, http.MethodPost, "/auth/verify-otp", verifyOTPRequest{
		OTPID: otpID,
		Code:  strings.TrimSpace(code),
	}, &out); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	return out.Status, nil
}

// ResetPassword задаёт новый пароль по подтверждённой OTP-сессии.
func (a *AuthClient) ResetPassword(ctx context.Context, otpID, newPassword, reNewPassword string) error {
	const op = "travel.auth.ResetPassword"

	if otpID == "" {
		return fmt.Errorf("%s: %w", op, ErrEmptyField)
	}

	if err := validatePassword(newPassword); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if newPassword != reNewPassword {
		return fmt.Errorf("%s: %w", op, ErrPasswordMismatch)
	}

	if _, err := a.api.Do(ctx, http.MethodPost, "/auth/reset-password", resetPasswordRequest{
		OTPID:         otpID,
		NewPassword:   newPassword,
		ReNewPassword: reNewPassword,
	}); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// ChangePassword меняет пароль аутентифицированного пользователя.
func (a *AuthClient) ChangePassword(ctx context.Context, userID, oldPass, newPass string) error {
	const op = "travel.auth.ChangePassword"

	if userID == "" || oldPass == "" {
		return fmt.Errorf("%s: %w", op, ErrEmptyField)
	}

	if err := validatePassword(newPass); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if _, err := a.api.Do(ctx, http.MethodPost, "/auth/change-password", changePasswordRequest{
		UserID:  userID,
		OldPass: oldPass,
		NewPass: newPass,
	}); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
