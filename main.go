package main

import (
	"embed"
	"log/slog"

	"github.com/wailsapp/wails/v3/pkg/application"

	"go.azadstudio.dev/pulsefeed/internal/app"
)

//go:embed all:frontend/dist
var assets embed.FS

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	slog.Info("starting app", "version", version, "commit", commit, "date", date)
	svc := app.New(version)

	wailsApp := application.New(application.Options{
		Name:        "PulseFeed",
		Description: "Channel feed with on-demand AI enrichment",
		Services: []application.Service{
			application.NewService(svc),
		},
		Assets: application.AssetOptions{
			Handler: application.BundledAssetFileServer(assets),
		},
	})

	mainWindow := wailsApp.Window.NewWithOptions(application.WebviewWindowOptions{
		Title:  "PulseFeed",
		Width:  420,
		Height: 860,
		URL:    "/",
	})

	if err := svc.Init(wailsApp, mainWindow); err != nil {
		slog.Error("init service", "error", err)
	}

	defer svc.Shutdown()

	if err := wailsApp.Run(); err != nil {
		slog.Error("run app", "error", err)
	}
}
