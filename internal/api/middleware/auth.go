package middleware

import (
	"crypto/sha256"
	"crypto/subtle"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/saturnino-fabrica-de-software/scenefinder/internal/domain"
)

// WebhookAuth checks the bearer token sent by the chat platform. An empty
// token disables the check.
func WebhookAuth(token string) fiber.Handler {
	if token == "" {
		return func(c *fiber.Ctx) error {
			return c.Next()
		}
	}

	expected := hashToken(token)

	return func(c *fiber.Ctx) error {
		presented := extractBearerToken(c)
		if presented == "" {
			return domain.ErrUnauthorized
		}

		// Hashes have equal length, so the compare time does not depend on
		// the presented token.
		got := hashToken(presented)
		if subtle.ConstantTimeCompare(got[:], expected[:]) != 1 {
			return domain.ErrUnauthorized
		}

		return c.Next()
	}
}

// extractBearerToken extracts token from Authorization header
func extractBearerToken(c *fiber.Ctx) string {
	auth := c.Get("Authorization")
	if auth == "" {
		return ""
	}

	// Expected format: "Bearer <token>"
	parts := strings.SplitN(auth, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}

	return strings.TrimSpace(parts[1])
}

func hashToken(token string) [sha256.Size]byte {
	return sha256.Sum256([]byte(token))
}
