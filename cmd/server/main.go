package main

import (
	"context"
	"log"

	"github.com/dmitrijs2005/budgetkeeper/internal/server"
	"github.com/dmitrijs2005/budgetkeeper/internal/server/config"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	// startup covers the store ping and migrations; Run owns its own
	// signal handling
	ctx := context.Background()
	app, err := server.NewApp(ctx, cfg)
	if err != nil {
		log.Fatalf("startup: %v", err)
	}

	app.Run(ctx)
}
