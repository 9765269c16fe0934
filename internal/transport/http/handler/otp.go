package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mohdfarhan7/michelanglo/internal/domain"
)

type otpUsecaser interface {
	SendOTP(ctx context.Context, email string) error
	VerifyOTP(ctx context.Context, email, code string) error
}

type OTPHandler struct {
	otpUsecase otpUsecaser
	logger     *slog.Logger
}

func NewOTPHandler(otpUsecase otpUsecaser, logger *slog.Logger) *OTPHandler {
	return &OTPHandler{
		otpUsecase: otpUsecase,
		logger:     logger.With("component", "otp_handler"),
	}
}

type sendOTPRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// POST /send-otp
// Returns 404 when no account has the given email.
func (h *OTPHandler) Send(c *gin.Context) {
	var req sendOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.otpUsecase.SendOTP(c.Request.Context(), req.Email); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": errUserNotFound})
			return
		}
		h.logger.Error("send otp", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Verification code sent"})
}

type verifyOTPRequest struct {
	Email string `json:"email" binding:"required,email"`
	Code  string `json:"code"  binding:"required,len=6,numeric"`
}

// POST /verify-otp
// 401 on mismatch, 410 when the code's window has elapsed, 404 when there
// is no account or no pending code.
func (h *OTPHandler) Verify(c *gin.Context) {
	var req verifyOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := h.otpUsecase.VerifyOTP(c.Request.Context(), req.Email, req.Code)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": errUserNotFound})
		case errors.Is(err, domain.ErrOTPNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": errOTPNotFound})
		case errors.Is(err, domain.ErrOTPMismatch):
			c.JSON(http.StatusUnauthorized, gin.H{"error": errOTPMismatch})
		case errors.Is(err, domain.ErrOTPExpired):
			c.JSON(http.StatusGone, gin.H{"error": errOTPExpired})
		default:
			h.logger.Error("verify otp", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"verified": true})
}
