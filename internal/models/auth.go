package models

// LoginResult — ответ /auth/login: credential + резолвнутый профиль.
type LoginResult struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// OTPSession — идентификатор OTP-сессии из /auth/forgot-password.
type OTPSession struct {
	OTPID string `json:"otpId"`
}
