package handler

const (
	errInternalServer     = "Internal server error"
	errInvalidCredentials = "Invalid email or password"
	errEmailTaken         = "Email already registered"
	errUserNotFound       = "User not found"
	errOTPMismatch        = "Verification code is incorrect"
	errOTPExpired         = "Verification code has expired"
	errOTPNotFound        = "No pending verification code"
)
