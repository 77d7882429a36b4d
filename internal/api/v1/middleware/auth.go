package middleware

import (
	"context"
	"errors"
	"strings"

	fiber "github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/celestiaorg/verse/internal/auth"
	"github.com/celestiaorg/verse/internal/db/models"
	log "github.com/celestiaorg/verse/internal/logger"
	"github.com/celestiaorg/verse/internal/services"
	"github.com/celestiaorg/verse/internal/types"
)

// Authentication error messages
const (
	ErrMsgMissingToken = "Missing bearer token"
	ErrMsgInvalidToken = "Invalid or expired token"
	ErrMsgUnknownUser  = "User not found for token"
)

type userKey struct{}

// UserResolver loads the user a verified token refers to
type UserResolver interface {
	GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// RequireUser verifies the bearer token of each request and stores the user it refers
// to in the request context. Requests without a valid token get a 401.
func RequireUser(secret []byte, users UserResolver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, ok := bearerToken(c.Get(fiber.HeaderAuthorization))
		if !ok {
			return unauthorized(c, ErrMsgMissingToken)
		}

		claims, err := auth.ParseToken(token, secret)
		if err != nil {
			log.Debugf("rejected token: %v", err)
			return unauthorized(c, ErrMsgInvalidToken)
		}

		userID, err := claims.UserID()
		if err != nil {
			return unauthorized(c, ErrMsgInvalidToken)
		}

		user, err := users.GetUserByID(c.Context(), userID)
		if err != nil {
			if errors.Is(err, services.ErrNotFound) {
				return unauthorized(c, ErrMsgUnknownUser)
			}
			return err
		}

		c.Locals(userKey{}, user)
		return c.Next()
	}
}

// CurrentUser returns the user stored by RequireUser, or nil on public routes
func CurrentUser(c *fiber.Ctx) *models.User {
	user, _ := c.Locals(userKey{}).(*models.User)
	return user
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func unauthorized(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(types.ErrorResponse{Message: msg})
}
