package main

import (
	"log"
	"os"

	"scan-crop/config"
	"scan-crop/internal/api"
	"scan-crop/internal/container"
	"scan-crop/internal/domain/port"
	"scan-crop/internal/infrastructure/imaging"
	"scan-crop/internal/infrastructure/vision"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Выбираем бэкенд детекции
	var detector port.FrameDetector
	switch cfg.Backend {
	case "gocv":
		detector = vision.NewGoCVDetector(cfg.Detection)
	case "pure":
		detector = vision.NewPipeline(cfg.Detection)
	default:
		log.Fatalf("Unknown SCANCROP_BACKEND %q (want pure or gocv)", cfg.Backend)
	}

	// Собираем сервисы приложения
	appContainer := container.New(imaging.NewFileLoader(), imaging.NewFileWriter(), detector)

	cliApp := api.New(appContainer)
	os.Exit(cliApp.Run(os.Args[1:]))
}
