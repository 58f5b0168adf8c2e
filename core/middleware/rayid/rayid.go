package rayid

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// HeaderName is the response header carrying the request's ray ID.
const HeaderName = "X-Ray-Id"

// New creates a middleware that assigns a unique ray ID to every request.
// The ID is stored in c.Locals("ray_id") and echoed in the response header,
// so clients and logs can correlate a single request end to end.
// An incoming X-Ray-Id header is honored to preserve upstream correlation.
func New() fiber.Handler {
	return func(c *fiber.Ctx) error {
		rid := c.Get(HeaderName)
		if rid == "" {
			rid = uuid.NewString()
		}

		c.Locals("ray_id", rid)
		c.Set(HeaderName, rid)

		return c.Next()
	}
}
