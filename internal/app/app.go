package app

import (
	"context"
	"fmt"
	"log/slog"

	"carelink-backend/internal/config"
	"carelink-backend/internal/db"
	"carelink-backend/internal/handlers"
	"carelink-backend/internal/models"
	"carelink-backend/internal/oauth"
	"carelink-backend/internal/realtime"
	"carelink-backend/internal/services"
	"carelink-backend/internal/storage"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// Services is everything the HTTP and websocket routes call into.
type Services struct {
	Users         *services.UserService
	Chat          *services.ChatService
	Conversations *services.ConversationService
	Help          *services.HelpService
	Hub           *realtime.Hub
	Presence      *handlers.Presence
}

// NewServices wires the services on top of store and registers the social login providers.
func NewServices(cfg *config.Config, store services.Store, hub *realtime.Hub) Services {
	users := services.NewUserService(store, services.TokenConfig{
		Secret:     cfg.JWTSecret,
		AccessTTL:  cfg.AccessTTL,
		RefreshTTL: cfg.RefreshTTL,
	})
	users.RegisterProvider(models.ProviderKakao, oauth.NewKakao(cfg.KakaoAPIURL, nil))

	chat := services.NewChatService(store)
	return Services{
		Users:         users,
		Chat:          chat,
		Conversations: services.NewConversationService(store, chat),
		Help:          services.NewHelpService(store),
		Hub:           hub,
		Presence:      handlers.NewPresence(),
	}
}

// NewServer builds the fiber app with every route.
func NewServer(cfg *config.Config, svc Services) *fiber.App {
	app := fiber.New(fiber.Config{AppName: "carelink-backend"})

	// Middleware
	app.Use(logger.New())
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{AllowOrigins: cfg.AllowedOrigins}))

	// Routes
	api := app.Group("/api")

	// Public Routes
	api.Get("/categories", handlers.CategoriesHandler)
	api.Post("/auth/kakao", handlers.SocialLoginHandler(svc.Users, models.ProviderKakao))
	api.Post("/auth/refresh", handlers.RefreshHandler(svc.Users))

	// Protected Routes
	protected := api.Group("/")
	protected.Use(handlers.AuthMiddleware(svc.Users))

	protected.Post("/auth/logout", handlers.LogoutHandler(svc.Users))
	protected.Get("/profile", handlers.GetProfileHandler(svc.Users))
	protected.Put("/profile/role", handlers.UpdateRoleHandler(svc.Users))

	// Chat Routes
	protected.Post("/rooms/direct", handlers.CreateDirectRoomHandler(svc.Chat))
	protected.Get("/rooms/:id", handlers.GetRoomHandler(svc.Chat))
	protected.Get("/rooms/:id/messages", handlers.ListMessagesHandler(svc.Chat))
	protected.Post("/rooms/:id/messages", handlers.SendMessageHandler(svc.Chat))
	protected.Get("/conversations", handlers.ListConversationsHandler(svc.Conversations, svc.Presence))

	// Help requests and helper profiles
	protected.Post("/requests", handlers.CreateRequestHandler(svc.Help))
	protected.Get("/requests", handlers.ListRequestsHandler(svc.Help))
	protected.Get("/requests/latest", handlers.LatestRequestHandler(svc.Help))
	protected.Get("/requests/:id", handlers.GetRequestHandler(svc.Help))
	protected.Put("/requests/:id", handlers.UpdateRequestHandler(svc.Help))
	protected.Delete("/requests/:id", handlers.DeleteRequestHandler(svc.Help))

	protected.Post("/helpers", handlers.CreateHelperHandler(svc.Help))
	protected.Get("/helpers", handlers.ListHelpersHandler(svc.Help))
	protected.Get("/helpers/map", handlers.HelpersMapHandler(svc.Help))
	protected.Get("/helpers/latest", handlers.LatestHelperHandler(svc.Help))
	protected.Get("/helpers/:id", handlers.GetHelperHandler(svc.Help))
	protected.Put("/helpers/:id", handlers.UpdateHelperHandler(svc.Help))
	protected.Delete("/helpers/:id", handlers.DeleteHelperHandler(svc.Help))

	// Health Check
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// WebSocket Route
	// Note: Middleware order matters. WSUpgradeMiddleware checks if it's a WS request,
	// AuthMiddleware checks the token.
	app.Use("/ws", handlers.WSUpgradeMiddleware)
	app.Use("/ws", handlers.AuthMiddleware(svc.Users))
	app.Get("/ws", handlers.WebSocketHandler(handlers.ChatDeps{
		Chat:          svc.Chat,
		Conversations: svc.Conversations,
		Hub:           svc.Hub,
		Presence:      svc.Presence,
	}))

	return app
}

// openStore connects the configured backend and starts its change feed into hub.
func openStore(ctx context.Context, cfg *config.Config, hub *realtime.Hub) (services.Store, func(), error) {
	switch cfg.DatabaseDriver {
	case config.DriverSQLite:
		s, err := storage.New(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		if err := s.OnMessage(hub); err != nil {
			_ = s.Close()
			return nil, nil, fmt.Errorf("register message feed: %w", err)
		}
		return s, func() { _ = s.Close() }, nil

	default:
		pool, err := db.Connect(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
		if err != nil {
			return nil, nil, err
		}
		if err := db.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("migrate: %w", err)
		}
		s := db.NewStore(pool)
		go s.Listen(ctx, hub)
		return s, pool.Close, nil
	}
}

// Run serves until ctx is cancelled, then shuts the server down gracefully.
func Run(ctx context.Context, cfg *config.Config) error {
	hub := realtime.NewHub()

	store, closeStore, err := openStore(ctx, cfg, hub)
	if err != nil {
		return fmt.Errorf("failed to open %s store: %w", cfg.DatabaseDriver, err)
	}
	defer closeStore()

	server := NewServer(cfg, NewServices(cfg, store, hub))

	errc := make(chan error, 1)
	go func() {
		slog.Info("app: Listening", "port", cfg.Port, "driver", cfg.DatabaseDriver)
		errc <- server.Listen(":" + cfg.Port)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	slog.Info("app: Gracefully shutting down...")
	if err := server.Shutdown(); err != nil {
		return err
	}
	slog.Info("app: Server shutdown complete")
	return nil
}
