package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/dimonss/BirthdayBackend/internal/app"
)

func main() {
	// Load .env if present; in production the environment comes from the host.
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	a, err := app.New()
	if err != nil {
		fmt.Fprintf(os.Stderr, "startup failed: %v\n", err)
		os.Exit(1)
	}
	defer a.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := a.Run(ctx); err != nil && ctx.Err() == nil {
		a.Log.Fatal("service stopped", "error", err)
	}
}
