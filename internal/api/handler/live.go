package handler

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/saturnino-fabrica-de-software/chamada/internal/domain"
)

// TokenIssuer mints short-lived tokens for the live feed
type TokenIssuer interface {
	GenerateToken(section string) (string, error)
	ExpiresIn() time.Duration
}

// LiveHandler issues live feed tokens. The websocket upgrade itself cannot
// carry the API key header, so authenticated clients trade the key for a
// token here and connect with it.
type LiveHandler struct {
	tokens TokenIssuer
}

// NewLiveHandler creates a new LiveHandler instance
func NewLiveHandler(tokens TokenIssuer) *LiveHandler {
	return &LiveHandler{tokens: tokens}
}

// LiveTokenResponse response for a live feed token request
type LiveTokenResponse struct {
	Token     string `json:"token"`
	ExpiresIn int64  `json:"expires_in"`
}

// Token GET /v1/live/token - mint a feed token scoped to a section
func (h *LiveHandler) Token(c *fiber.Ctx) error {
	section := strings.TrimSpace(c.Query("section"))
	if section == "" {
		return domain.ErrValidationFailed.WithError(errors.New("section is required"))
	}

	token, err := h.tokens.GenerateToken(section)
	if err != nil {
		return domain.ErrInternal.WithError(err)
	}

	return c.JSON(LiveTokenResponse{
		Token:     token,
		ExpiresIn: int64(h.tokens.ExpiresIn().Seconds()),
	})
}
