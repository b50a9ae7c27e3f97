// middleware/device.go
package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// DeviceContextMiddleware tags every request with an anonymous device id.
// Clients send X-Device-ID; first-time clients get one assigned in the
// response and are expected to echo it back. This is identification for
// logging and future per-device profiles, not authentication.
func DeviceContextMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		deviceID := c.Get("X-Device-ID")
		if deviceID == "" {
			deviceID = uuid.NewString()
			c.Set("X-Device-ID", deviceID)
		}
		c.Locals("device_id", deviceID)
		return c.Next()
	}
}
