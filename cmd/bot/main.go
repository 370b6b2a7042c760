// cmd/bot/main.go
package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"kebab-bot/internal/cleanup"
	"kebab-bot/internal/config"
	"kebab-bot/internal/dispatch"
	"kebab-bot/internal/mode"
	"kebab-bot/internal/platform"
	"kebab-bot/internal/skills"
	"kebab-bot/internal/storage"
	"kebab-bot/pkg/jobmgr"
)

func main() {
	log.Println("[INFO] Starting kebab bot...")

	cfg, err := config.New()
	if err != nil {
		log.Fatal(err)
	}

	store, err := storage.New(cfg.StoragePath)
	if err != nil {
		log.Fatal(err)
	}
	defer store.Close()

	jobs := jobmgr.New(func(status string) {
		if cfg.Debug {
			log.Printf("[INFO] job %s", status)
		}
	})

	tg, err := platform.NewTelegram(cfg.Token)
	if err != nil {
		log.Fatal(err)
	}

	deps := &skills.Deps{
		Cfg:     cfg,
		M:       tg,
		Store:   store,
		Modes:   mode.NewRegistry(store),
		Jobs:    jobs,
		Cleanup: cleanup.New(jobs, tg),
	}

	table := dispatch.NewTable()
	if err := skills.AttachAll(deps, table); err != nil {
		log.Fatal(err)
	}

	go tg.Listen(table.Dispatch)
	log.Println("[INFO] Bot is running. Press Ctrl+C to stop.")

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	s := <-sig
	log.Printf("[INFO] Received signal %s, shutting down...", s)

	tg.Stop()
	jobs.Shutdown()
	log.Println("[INFO] Bot stopped. Bye!")
}
