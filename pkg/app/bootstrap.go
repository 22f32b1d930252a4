package app

import (
	"log"

	"github.com/munyanyaguo/Hisi-Studio/config"
	"github.com/munyanyaguo/Hisi-Studio/pkg/logger"
)

func BootstrapApp() *config.Config {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	if err := logger.InitLogger(&cfg.Logger); err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}

	logger.Info("Application bootstrapped successfully")

	return cfg
}
