package app

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/websocket/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"fairdice/internal/config"
	"fairdice/internal/event"
	"fairdice/internal/game"
	"fairdice/internal/store"
	"fairdice/internal/ws"
)

type Server struct {
	app *fiber.App
	cfg *config.Config
}

// NewServer wires the match service, the event consumers and the HTTP
// surface together.
func NewServer(cfg *config.Config, st *store.Store) *Server {
	bus := event.NewBus()
	hub := ws.NewHub()
	service := game.NewService(bus)

	game.RegisterConsumers(bus, st, hub)

	app := fiber.New()

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
	app.Get("/ws", websocket.New(hub.Handler))

	api := app.Group("/api")
	game.RegisterRoutes(api, service, st)

	return &Server{app: app, cfg: cfg}
}

func (s *Server) Start() error {
	return s.app.Listen(":" + s.cfg.Port)
}

func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

// App exposes the fiber app for handler tests.
func (s *Server) App() *fiber.App {
	return s.app
}
