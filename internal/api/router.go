package api

import (
	"ion-assistant/internal/api/handlers"
	"ion-assistant/pkg/auth"
	"ion-assistant/pkg/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"
)

func SetupRouter(
	authHandler *handlers.AuthHandler,
	chatHandler *handlers.ChatHandler,
	docHandler *handlers.DocumentHandler,
	txHandler *handlers.TransactionHandler,
	orgHandler *handlers.OrganizerHandler,
	jwtManager *auth.JWTManager,
	appLogger *zap.Logger,
) *fiber.App {
	app := fiber.New(fiber.Config{
		BodyLimit: 20 * 1024 * 1024,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
	}))
	app.Use(logger.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// Auth routes (public)
	authGroup := app.Group("/auth")
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)
	authGroup.Post("/refresh", authHandler.RefreshToken)

	// Protected routes
	protected := app.Group("/api/v1", middleware.AuthMiddleware(jwtManager, appLogger))

	protected.Get("/profile", authHandler.Profile)
	protected.Put("/profile", authHandler.UpdateProfile)

	protected.Post("/chat", chatHandler.Chat)
	protected.Post("/chat/stream", chatHandler.ChatStream)

	protected.Post("/documents/analyze", docHandler.Analyze)
	protected.Post("/transcriptions", docHandler.Transcribe)

	transactions := protected.Group("/transactions")
	transactions.Post("", txHandler.Create)
	transactions.Get("", txHandler.List)
	transactions.Get("/summary", txHandler.Summary)
	transactions.Get("/export", txHandler.Export)
	transactions.Post("/import", txHandler.Import)
	transactions.Delete("/:id", txHandler.Delete)

	tasks := protected.Group("/tasks")
	tasks.Post("", orgHandler.CreateTask)
	tasks.Get("", orgHandler.ListTasks)
	tasks.Patch("/:id/status", orgHandler.UpdateTaskStatus)
	tasks.Delete("/:id", orgHandler.DeleteTask)

	reminders := protected.Group("/reminders")
	reminders.Post("", orgHandler.CreateReminder)
	reminders.Get("", orgHandler.ListReminders)
	reminders.Delete("/:id", orgHandler.DeleteReminder)

	shopping := protected.Group("/shopping")
	shopping.Post("/items", orgHandler.CreateShoppingItem)
	shopping.Get("/items", orgHandler.ListShoppingItems)
	shopping.Patch("/items/:id/status", orgHandler.UpdateShoppingItem)
	shopping.Delete("/items/:id", orgHandler.DeleteShoppingItem)
	shopping.Get("/lists", orgHandler.ListShoppingLists)
	shopping.Post("/lists", orgHandler.CreateShoppingList)

	savings := protected.Group("/savings")
	savings.Post("", orgHandler.CreateSavingsBox)
	savings.Get("", orgHandler.ListSavingsBoxes)
	savings.Post("/:id/deposits", orgHandler.Deposit)

	return app
}
