package api

import (
	"github.com/gofiber/fiber/v2"
)

type CheckHandler struct {
	storeName string
}

func NewCheckHandler(storeName string) *CheckHandler {
	return &CheckHandler{storeName: storeName}
}

func (h CheckHandler) HandleHealthy(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"result": "ok", "store": h.storeName})
}
