package main

import (
	"flag"
	"log"
	"os"

	"github.com/JaimeStill/relay/internal/config"
)

func main() {
	watch := flag.Bool("watcher", false, "Run continuously, scanning the intake section on an interval")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("config load failed:", err)
	}

	app, err := NewApp(cfg)
	if err != nil {
		log.Fatal("startup failed:", err)
	}

	if *watch {
		if err := app.Watch(); err != nil {
			app.infra.Logger.Error("watcher failed", "error", err)
			os.Exit(1)
		}
		return
	}

	os.Exit(app.RunOnce())
}
