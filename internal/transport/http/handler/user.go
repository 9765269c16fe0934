package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mohdfarhan7/michelanglo/internal/domain"
)

type profileUsecaser interface {
	Profile(ctx context.Context, userID string) (*domain.User, error)
}

type UserHandler struct {
	profileUsecase profileUsecaser
	logger         *slog.Logger
}

func NewUserHandler(profileUsecase profileUsecaser, logger *slog.Logger) *UserHandler {
	return &UserHandler{
		profileUsecase: profileUsecase,
		logger:         logger.With("component", "user_handler"),
	}
}

// userPayload is the profile shape shared by /login and /user responses.
// The password hash is deliberately absent.
type userPayload struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	Mobile        *string   `json:"mobile,omitempty"`
	EmailVerified bool      `json:"email_verified"`
	CreatedAt     time.Time `json:"created_at"`
}

func newUserPayload(u *domain.User) userPayload {
	return userPayload{
		ID:            u.ID,
		Name:          u.Name,
		Email:         u.Email,
		Mobile:        u.Mobile,
		EmailVerified: u.EmailVerified,
		CreatedAt:     u.CreatedAt,
	}
}

// GET /user
// Runs behind the Auth middleware; "userID" is the verified token subject.
func (h *UserHandler) Get(c *gin.Context) {
	userID := c.GetString("userID")

	user, err := h.profileUsecase.Profile(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": errUserNotFound})
			return
		}
		h.logger.Error("get profile", "user_id", userID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		return
	}

	c.JSON(http.StatusOK, newUserPayload(user))
}
