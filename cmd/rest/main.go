package main

import (
	"context"
	"log"

	"wolfpack-be/internal/bootstrap"
	"wolfpack-be/internal/config"
	"wolfpack-be/internal/server"
	"wolfpack-be/internal/tracer"
	"wolfpack-be/pkg/database"
)

func main() {
	// 0. Initialize Tracer (no-op unless OTEL_ENABLED=true)
	shutdownTracer := tracer.InitTracer()
	defer shutdownTracer(context.Background())

	// 1. Load Configuration
	cfg := config.Load()

	// 2. Initialize Database
	gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Panicf("Unable to connect to GORM DB: %v", err)
	}

	// 3. Bootstrap Dependencies (Container)
	// The container starts the sync manager, NATS bridge, websocket hub and
	// notification worker as part of wiring.
	container := bootstrap.NewContainer(gormDB, cfg)

	// 4. Initialize Server
	srv := server.New(cfg, container)

	// 5. Run Server
	log.Fatal(srv.Run())
}
