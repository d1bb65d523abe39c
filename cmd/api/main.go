package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"grocery-tracker-ws/internal/extract"
	"grocery-tracker-ws/internal/handler"
	"grocery-tracker-ws/internal/middleware"
	"grocery-tracker-ws/internal/model"
	"grocery-tracker-ws/internal/repository"
	"grocery-tracker-ws/internal/service"
	"grocery-tracker-ws/internal/ws"
	"grocery-tracker-ws/pkg/database"
	pkgjwt "grocery-tracker-ws/pkg/jwt"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
)

func main() {
	// 1. Load Env
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	// 2. Setup Database
	db := database.ConnectDB()
	db.AutoMigrate(&model.User{}, &model.GroceryItem{}, &model.Order{}, &model.ShoppingEvent{}, &model.GiftItem{})

	// 3. Setup WebSocket Hub
	wsHub := ws.NewHub()
	go wsHub.Run()

	// 4. Dependency Injection (Wiring Layers)
	itemRepo := repository.NewItemRepo(db)
	eventRepo := repository.NewEventRepo(db)
	giftRepo := repository.NewGiftRepo(db)
	userRepo := repository.NewUserRepo(db)

	extractor := extract.NewClient()

	invService := service.NewInventoryService(itemRepo, db, wsHub)
	recService := service.NewReconcileService(itemRepo, db, wsHub, extractor)
	reportService := service.NewReportService(itemRepo)
	eventService := service.NewEventService(eventRepo, giftRepo, wsHub)
	authService := service.NewAuthService(userRepo)

	itemHandler := handler.NewItemHandler(invService)
	recHandler := handler.NewReconcileHandler(recService)
	reportHandler := handler.NewReportHandler(reportService)
	eventHandler := handler.NewEventHandler(eventService)
	authHandler := handler.NewAuthHandler(authService)

	// 5. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName: "Grocery Tracker v1.0",
	})

	// Middleware
	app.Use(logger.New())  // Logging request
	app.Use(recover.New()) // Panic recovery
	app.Use(cors.New())    // CORS

	// 6. Routes
	api := app.Group("/api/v1")

	// ============ PUBLIC ROUTES ============
	auth := api.Group("/auth")
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Post("/change-password", authHandler.ChangePassword)
	auth.Post("/validate-token", authHandler.ValidateToken)

	// ============ PROTECTED ROUTES ============
	protected := api.Group("", middleware.RequireAuth(userRepo))

	// Grocery inventory
	protected.Get("/items", itemHandler.GetItems)
	protected.Post("/items", itemHandler.CreateItem)
	protected.Get("/items/:id", itemHandler.GetItem)
	protected.Put("/items/:id", itemHandler.UpdateItem)
	protected.Delete("/items/:id", itemHandler.DeleteItem)
	protected.Patch("/items/:id/status", itemHandler.ChangeStatus)
	protected.Patch("/items/:id/quantity", itemHandler.ChangeQuantity)

	// Purchase ledger bulk operations
	protected.Delete("/purchases", itemHandler.DeletePurchases)
	protected.Put("/purchases/group", itemHandler.RelabelPurchases)

	// Extraction + reconciliation
	protected.Post("/extract", recHandler.Extract)
	protected.Post("/reconcile", recHandler.Confirm)

	// Reports
	protected.Get("/reports/spend-by-category", reportHandler.SpendByCategory)
	protected.Get("/reports/spend-by-group", reportHandler.SpendByGroup)
	protected.Get("/reports/purchase-dates", reportHandler.PurchaseDates)

	// Events & gifts
	protected.Get("/events", eventHandler.GetEvents)
	protected.Get("/events/upcoming", eventHandler.GetUpcoming)
	protected.Post("/events", eventHandler.SaveEvent)
	protected.Put("/events/:id", eventHandler.SaveEvent)
	protected.Delete("/events/:id", eventHandler.DeleteEvent)
	protected.Get("/gifts", eventHandler.GetGifts)
	protected.Get("/gifts/calendar", eventHandler.GetCalendar)
	protected.Post("/gifts", eventHandler.SaveGift)
	protected.Put("/gifts/:id", eventHandler.SaveGift)
	protected.Delete("/gifts/:id", eventHandler.DeleteGift)

	// WebSocket Route (token passed as query param, browsers cannot set
	// headers on websocket upgrades)
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			claims, err := pkgjwt.ValidateToken(c.Query("token"))
			if err != nil {
				return c.SendStatus(fiber.StatusUnauthorized)
			}
			c.Locals("ws_user_id", claims.UserID.String())
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	})
	app.Get("/ws", websocket.New(func(c *websocket.Conn) {
		client := &ws.Client{
			UserID: c.Locals("ws_user_id").(string),
			Conn:   c,
		}
		wsHub.Register <- client
		defer func() { wsHub.Unregister <- client }()

		for {
			// Keep alive loop
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	}))

	// 7. Graceful Shutdown
	go func() {
		port := os.Getenv("PORT")
		if port == "" {
			port = "3000"
		}
		if err := app.Listen(":" + port); err != nil {
			log.Panic(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}
