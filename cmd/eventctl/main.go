package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	_ "time/tzdata"

	"github.com/sharath018/event-scheduler-backend/config"
	"github.com/sharath018/event-scheduler-backend/internal/apiclient"
	"github.com/sharath018/event-scheduler-backend/internal/console"
)

func main() {
	cfg := config.Load()

	baseURL := flag.String("api", cfg.APIBaseURL, "event scheduler API base URL")
	perPage := flag.Int("per-page", 5, "rows per page (5, 10, 20 or 50)")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := apiclient.New(*baseURL, &http.Client{})
	con := console.New(client, os.Stdout, console.Options{PerPage: *perPage})

	log.Printf("🔌 Connecting to %s", *baseURL)
	if err := con.Start(ctx); err != nil {
		log.Fatalf("❌ %v", err)
	}
	if err := con.Run(ctx, os.Stdin); err != nil {
		log.Fatalf("❌ %v", err)
	}
}
