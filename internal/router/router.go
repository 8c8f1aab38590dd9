package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberLogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/ErenKizilay/parroton/internal/handler"
	"github.com/ErenKizilay/parroton/internal/middleware"
	"github.com/ErenKizilay/parroton/internal/svc"
)

// Setup registers middleware and routes.
func Setup(app *fiber.App) {
	app.Use(recover.New())
	app.Use(fiberLogger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,X-Customer-Id",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "ok",
			"app":    svc.Ctx.Config.App.Name,
		})
	})

	testCaseHandler := handler.NewTestCaseHandler()
	actionHandler := handler.NewActionHandler()
	assertionHandler := handler.NewAssertionHandler()
	runHandler := handler.NewRunHandler()
	authHandler := handler.NewAuthProviderHandler()
	autoCompleteHandler := handler.NewAutoCompleteHandler()

	api := app.Group("/api", middleware.CustomerScope())

	testCases := api.Group("/test-cases")
	testCases.Post("/", testCaseHandler.Upload)
	testCases.Get("/", testCaseHandler.List)
	testCases.Get("/:id", testCaseHandler.Get)
	testCases.Patch("/:id", testCaseHandler.Update)
	testCases.Delete("/:id", testCaseHandler.Delete)

	testCases.Get("/:id/actions", actionHandler.List)
	testCases.Get("/:id/actions/:actionId/parameters", actionHandler.ListParameters)
	testCases.Patch("/:id/actions/:actionId/parameters/:paramId/expression", actionHandler.UpdateParameterExpression)

	testCases.Get("/:id/assertions", assertionHandler.List)
	testCases.Put("/:id/assertions", assertionHandler.Put)
	testCases.Post("/:id/assertions/batch-get", assertionHandler.BatchGet)
	testCases.Get("/:id/assertions/:assertionId", assertionHandler.Get)
	testCases.Delete("/:id/assertions/:assertionId", assertionHandler.Delete)
	testCases.Patch("/:id/assertions/:assertionId/comparison-type", assertionHandler.UpdateComparison)
	testCases.Patch("/:id/assertions/:assertionId/negate", assertionHandler.UpdateNegation)
	testCases.Patch("/:id/assertions/:assertionId/:location/expression", assertionHandler.UpdateExpression)

	testCases.Post("/:id/run", runHandler.Start)
	testCases.Get("/:id/runs", runHandler.List)
	testCases.Get("/:id/runs/:runId", runHandler.Get)
	testCases.Get("/:id/runs/:runId/action-executions", runHandler.ListExecutions)

	authProviders := api.Group("/auth-providers")
	authProviders.Get("/", authHandler.List)
	authProviders.Post("/", authHandler.Create)
	authProviders.Post("/search-by-urls", authHandler.SearchByURLs)
	authProviders.Get("/:id", authHandler.Get)
	authProviders.Delete("/:id", authHandler.Delete)
	authProviders.Patch("/:id/headers", authHandler.SetHeader)
	authProviders.Patch("/:id/headers/disabled", authHandler.SetHeaderEnablement)

	api.Post("/expressions/auto-complete", autoCompleteHandler.Suggest)
	api.Post("/filter-paths", testCaseHandler.FilterPaths)
}
