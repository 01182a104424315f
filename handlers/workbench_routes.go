// handlers/workbench_routes.go
package handlers

import (
	"solidity-quest-system/middleware"
	"solidity-quest-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupWorkbenchRoutes(app *fiber.App, workbenchService *services.WorkbenchService) {
	securedGroup := app.Group("/s", middleware.UserContextMiddleware())

	securedGroup.Post("/workbench/compile", workbenchService.CompileContract)
	securedGroup.Get("/workbench/artifacts", workbenchService.ListArtifacts)
	securedGroup.Post("/workbench/deployments", workbenchService.RecordDeployment)
	securedGroup.Get("/workbench/deployments", workbenchService.ListDeployments)
}
