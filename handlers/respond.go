package handlers

import (
	"errors"
	"log"

	"solidity-quest-system/models"

	"github.com/gofiber/fiber/v2"
)

// respondErr maps the service-layer sentinel errors onto HTTP statuses so
// every route reports the same way.
func respondErr(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, models.ErrValidation):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, models.ErrNotInitialized):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "player profile not initialized"})
	case errors.Is(err, models.ErrNoActiveSession):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "no active session"})
	case errors.Is(err, models.ErrLevelLocked):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": err.Error()})
	}
	log.Printf("❌ Internal error: %v", err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal error"})
}
