//go:build js && wasm

package main

import (
	"log/slog"
	"os"

	"github.com/adampresley/anleague/cmd/matchpage/internal/jsdom"
	"github.com/adampresley/anleague/pkg/matchpage"
)

var (
	Version string = "development"
)

func main() {
	level := slog.LevelInfo
	if Version == "development" {
		level = slog.LevelDebug
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	doc := jsdom.NewDocument()

	doc.OnReady(func() {
		if _, err := matchpage.Initialize(doc, matchpage.PageConfig{
			Logger:    logger,
			Scheduler: jsdom.NewScheduler(),
		}); err != nil {
			slog.Error("error initializing match page", "error", err)
		}
	})

	select {}
}
