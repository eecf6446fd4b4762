package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/487058267/agent-cross-discipline/internal/bootstrap"
	"github.com/487058267/agent-cross-discipline/internal/config"
	"github.com/487058267/agent-cross-discipline/internal/server"
	"github.com/487058267/agent-cross-discipline/internal/tracer"
)

func main() {
	// 1. Load Configuration
	cfg := config.Load()

	// Tracer settings can come from .env, so it starts after Load
	shutdownTracer := tracer.InitTracer(cfg.Tracing, cfg.App.Environment)
	defer shutdownTracer(context.Background())

	// 2. Bootstrap Dependencies (Container)
	container, err := bootstrap.NewContainer(cfg)
	if err != nil {
		log.Panicf("Unable to bootstrap: %v", err)
	}
	defer container.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Start Background Services
	if container.ConsumerService != nil {
		log.Println("Background: Starting Artifact Consumer...")
		if err := container.ConsumerService.Consume(ctx); err != nil {
			log.Printf("Background Consumer Error: %v", err)
		}
	}
	if container.EventAuditService != nil {
		log.Println("Background: Starting Event Audit...")
		if err := container.EventAuditService.Start(ctx); err != nil {
			log.Printf("Background Event Audit Error: %v", err)
		}
	}

	// 4. Initialize Server
	srv := server.New(cfg, container)

	go func() {
		<-ctx.Done()
		log.Println("Shutting down...")
		if err := srv.Shutdown(); err != nil {
			log.Printf("Shutdown Error: %v", err)
		}
	}()

	// 5. Run Server
	if err := srv.Run(); err != nil {
		log.Printf("Server Error: %v", err)
	}
}
