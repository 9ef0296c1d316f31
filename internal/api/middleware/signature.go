package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/saturnino-fabrica-de-software/scenefinder/internal/domain"
	"github.com/saturnino-fabrica-de-software/scenefinder/internal/webhook"
)

// WebhookSignature rejects bodies whose HMAC does not match secret. An empty
// secret disables the check.
func WebhookSignature(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if secret == "" {
			return c.Next()
		}

		if !webhook.Verify(secret, c.Body(), c.Get(webhook.SignatureHeader)) {
			return domain.ErrUnauthorized.WithMessage("Invalid webhook signature")
		}

		return c.Next()
	}
}
