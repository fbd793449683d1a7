// README: API gateway; registers HTTP routes and delegates to module services.
package http

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"ridehail/internal/docstore"
	"ridehail/internal/http/handlers"
	"ridehail/internal/http/middleware"
	"ridehail/internal/modules/booth"
	"ridehail/internal/modules/driver"
	"ridehail/internal/modules/matching"
	"ridehail/internal/modules/pricing"
	"ridehail/internal/modules/ride"
	"ridehail/internal/ws"
)

type ServerDeps struct {
	Docs     docstore.Store
	Pricing  *pricing.Service
	Drivers  *driver.Service
	Rides    *ride.Service
	Matching *matching.Service
	Booths   *booth.Service
	Hub      *ws.Hub
	Log      *slog.Logger
}

type Server struct {
	deps ServerDeps
}

func NewServer(deps ServerDeps) *Server {
	if deps.Log == nil {
		deps.Log = slog.Default()
	}
	return &Server{deps: deps}
}

func (s *Server) Routes() *gin.Engine {
	r := gin.New()
	r.Use(middleware.Recovery(s.deps.Log), middleware.Logging(s.deps.Log), middleware.CORS())

	r.GET("/", handlers.Root)

	systemHandler := handlers.NewSystemHandler(s.deps.Docs)
	r.GET("/health", systemHandler.Health)
	r.GET("/test", systemHandler.Diagnostic)

	api := r.Group("/api")

	fareHandler := handlers.NewFareHandler(s.deps.Pricing)
	api.POST("/fare", fareHandler.Compute)

	driverHandler := handlers.NewDriverHandler(s.deps.Drivers, s.deps.Booths)
	api.GET("/drivers", driverHandler.List)
	api.POST("/seed", driverHandler.Seed)

	rideHandler := handlers.NewRideHandler(s.deps.Rides, s.deps.Matching, s.deps.Hub)
	api.POST("/ride/request", rideHandler.Request)
	api.GET("/ride/:id", rideHandler.Get)
	api.POST("/ride/match/:id", rideHandler.Match)
	api.GET("/ride/simulate/:id", rideHandler.Simulate)
	api.POST("/ride/simulate/:id", rideHandler.Simulate)
	api.POST("/ride/tick/:id", rideHandler.Tick)
	api.GET("/ride/watch/:id", rideHandler.Watch)
	api.POST("/schedule", rideHandler.Schedule)

	boothHandler := handlers.NewBoothHandler(s.deps.Booths)
	api.GET("/booths", boothHandler.List)
	api.POST("/booths/queue", boothHandler.Queue)

	return r
}
