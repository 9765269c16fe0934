package httptransport

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	sloggin "github.com/samber/slog-gin"

	"github.com/mohdfarhan7/michelanglo/internal/auth"
	"github.com/mohdfarhan7/michelanglo/internal/transport/http/handler"
	"github.com/mohdfarhan7/michelanglo/internal/transport/http/middleware"
)

func NewRouter(
	logger *slog.Logger,
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	otpHandler *handler.OTPHandler,
	tokens *auth.TokenIssuer,
	corsOrigins []string,
) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Security())
	r.Use(middleware.CORS(corsOrigins))
	r.Use(sloggin.New(logger))
	r.Use(middleware.Metrics())

	// Public routes
	r.POST("/register", authHandler.Register)
	r.POST("/login", authHandler.Login)
	r.POST("/send-otp", otpHandler.Send)
	r.POST("/verify-otp", otpHandler.Verify)

	// Protected routes
	r.GET("/user", middleware.Auth(tokens), userHandler.Get)

	return r
}
