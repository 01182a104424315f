// handlers/level_routes.go
package handlers

import (
	"strconv"

	"solidity-quest-system/middleware"
	"solidity-quest-system/models"
	"solidity-quest-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupLevelRoutes(app *fiber.App,
	progressionService *services.ProgressionService,
	sessionService *services.SessionService,
	leaderboardService *services.LeaderboardService,
) {
	// Public catalog — gateway auth only, no user context needed
	app.Get("/levels", func(c *fiber.Ctx) error {
		return c.JSON(models.LevelCatalog)
	})

	app.Get("/levels/:slug", func(c *fiber.Ctx) error {
		lvl := models.LevelBySlug(c.Params("slug"))
		if lvl == nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Level not found"})
		}
		return c.JSON(lvl)
	})

	securedGroup := app.Group("/s", middleware.UserContextMiddleware())

	securedGroup.Get("/user/progress", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		rec, err := progressionService.EnsureProgressRecord(userID)
		if err != nil {
			return respondErr(c, err)
		}

		// Per-level unlock map so the level select screen needs one call
		unlocked := make(map[int]bool, models.TotalLevels())
		for _, lvl := range models.LevelCatalog {
			unlocked[lvl.ID] = rec.CanAccess(lvl.ID)
		}

		return c.JSON(fiber.Map{
			"highest_completed": rec.HighestCompleted,
			"next_level":        models.NextLevel(rec.HighestCompleted),
			"unlocked":          unlocked,
		})
	})

	// --- Sessions ---

	securedGroup.Post("/levels/:id/session", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		levelID, err := strconv.Atoi(c.Params("id"))
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid level ID"})
		}

		session, err := sessionService.Start(userID, levelID)
		if err != nil {
			return respondErr(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(session)
	})

	securedGroup.Get("/user/session", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		session, err := sessionService.Active(userID)
		if err != nil {
			return respondErr(c, err)
		}
		return c.JSON(session)
	})

	securedGroup.Post("/user/session/attempt", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		session, err := sessionService.RecordAttempt(userID)
		if err != nil {
			return respondErr(c, err)
		}
		return c.JSON(session)
	})

	securedGroup.Post("/user/session/hint", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		session, err := sessionService.RecordHint(userID)
		if err != nil {
			return respondErr(c, err)
		}
		return c.JSON(session)
	})

	securedGroup.Post("/user/session/end", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		var req struct {
			Success     bool   `json:"success"`
			CodeQuality string `json:"code_quality"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
		}

		summary, err := sessionService.End(userID, req.Success, req.CodeQuality)
		if err != nil {
			return respondErr(c, err)
		}
		return c.JSON(summary)
	})

	securedGroup.Post("/user/session/abandon", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		if err := sessionService.Abandon(userID); err != nil {
			return respondErr(c, err)
		}
		return c.JSON(fiber.Map{"message": "session abandoned"})
	})

	// --- Completion ---

	securedGroup.Post("/levels/:id/complete", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		levelID, err := strconv.Atoi(c.Params("id"))
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid level ID"})
		}

		var req struct {
			Stars       int    `json:"stars"`
			CodeQuality string `json:"code_quality"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
		}

		result, err := progressionService.CompleteLevel(userID, levelID, req.Stars, req.CodeQuality)
		if err != nil {
			return respondErr(c, err)
		}
		return c.JSON(result)
	})

	// --- Leaderboard ---

	securedGroup.Get("/leaderboard", func(c *fiber.Ctx) error {
		limit, _ := strconv.Atoi(c.Query("limit", "10"))

		entries, err := leaderboardService.Top(limit)
		if err != nil {
			return respondErr(c, err)
		}
		return c.JSON(entries)
	})

	securedGroup.Get("/leaderboard/me", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		rank, err := leaderboardService.RankFor(userID)
		if err != nil {
			return respondErr(c, err)
		}
		return c.JSON(fiber.Map{"rank": rank})
	})
}
