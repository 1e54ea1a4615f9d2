package main

import (
	"log"
	"os"

	"apt-sync-service/internal"
)

func main() {
	application, err := internal.NewApp()
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	switch application.RunMode() {
	case "serve":
		if err := application.RunServe(); err != nil {
			log.Fatalf("Application run failed: %v", err)
		}
	default:
		report, err := application.RunOnce()
		if err != nil {
			log.Fatalf("Sync run aborted: %v", err)
		}
		// Код выхода отражает наличие отказавших регионов
		if report.HasFailures() {
			os.Exit(1)
		}
	}
}
