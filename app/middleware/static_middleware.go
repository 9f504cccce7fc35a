package middleware

import (
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// PlugStatic lets only PDF files through under staticPrefix and marks them
// for inline display.
func PlugStatic(staticPrefix string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		path := c.Path()

		if strings.HasPrefix(path, staticPrefix+"/") {
			if !strings.EqualFold(filepath.Ext(path), ".pdf") {
				return fiber.ErrNotFound
			}
			c.Set(fiber.HeaderContentDisposition, "inline")
		}

		return c.Next()
	}
}
