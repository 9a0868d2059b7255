package main

import (
	"context"
	"log"

	"career-compass-be/internal/bootstrap"
	"career-compass-be/internal/config"
	"career-compass-be/internal/server"
	"career-compass-be/internal/tracer"
	"career-compass-be/pkg/database"
)

func main() {
	// 0. Tracing (no-op unless OTEL_ENABLED=true)
	shutdownTracer := tracer.InitTracer()
	defer shutdownTracer(context.Background())

	// 1. Configuration
	cfg := config.Load()

	// 2. Database
	gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Panicf("Unable to connect to GORM DB: %v", err)
	}

	// 3. Dependency container
	container := bootstrap.NewContainer(gormDB, cfg)

	// 4. Background services
	go func() {
		log.Println("Background: starting title consumer...")
		if err := container.TitleConsumerService.Consume(context.Background()); err != nil {
			log.Printf("Background title consumer error: %v", err)
		}
	}()
	container.CooldownWatcher.Start(context.Background())
	defer container.CooldownWatcher.Stop()
	if container.EventSubscriber != nil {
		defer container.EventSubscriber.Close()
	}

	// 5. HTTP server
	srv := server.New(cfg, container)
	log.Fatal(srv.Run())
}
