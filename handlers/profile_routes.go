// handlers/profile_routes.go
package handlers

import (
	"solidity-quest-system/middleware"
	"solidity-quest-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupProfileRoutes(app *fiber.App, profileService *services.ProfileService, achievementService *services.AchievementService) {
	// 🔐 Secured routes — require user context (userID, roles)
	// The gateway forwards paths like /api/v1/quest/s/user/profile -> /s/user/profile
	securedGroup := app.Group("/s", middleware.UserContextMiddleware())

	securedGroup.Post("/user/profile", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		var req struct {
			Name string `json:"name"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
		}

		prof, created, err := profileService.Initialize(userID, req.Name)
		if err != nil {
			return respondErr(c, err)
		}
		status := fiber.StatusOK
		if created {
			status = fiber.StatusCreated
		}
		return c.Status(status).JSON(prof)
	})

	securedGroup.Get("/user/profile", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		prof, err := profileService.Get(userID)
		if err != nil {
			return respondErr(c, err)
		}
		return c.JSON(prof)
	})

	securedGroup.Put("/user/profile/skin", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		var req struct {
			Skin string `json:"skin"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
		}

		prof, err := profileService.ChangeSkin(userID, req.Skin)
		if err != nil {
			return respondErr(c, err)
		}
		return c.JSON(prof)
	})

	securedGroup.Post("/user/profile/preferences/:pref/toggle", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		pref := c.Params("pref")

		enabled, err := profileService.TogglePreference(userID, pref)
		if err != nil {
			return respondErr(c, err)
		}
		return c.JSON(fiber.Map{"preference": pref, "enabled": enabled})
	})

	securedGroup.Get("/user/achievements", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		views, err := achievementService.ListForUser(userID)
		if err != nil {
			return respondErr(c, err)
		}
		return c.JSON(views)
	})

	securedGroup.Post("/user/achievements/:code/unlock", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		code := c.Params("code")

		result, err := achievementService.Unlock(userID, code)
		if err != nil {
			return respondErr(c, err)
		}
		return c.JSON(result)
	})
}
