package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	"github.com/staffdesk/staffdesk/internal/buildinfo"
	"github.com/staffdesk/staffdesk/internal/config"
	"github.com/staffdesk/staffdesk/internal/console"
	"github.com/staffdesk/staffdesk/internal/logging"
)

func main() {

	buildinfo.Print(os.Stdout)

	ctx := context.Background()
	cfg := config.Load()

	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	})))

	app, err := console.NewApp(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
		return
	}

	app.Run(ctx)

}
