package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/m04kA/SMC-BarberShop/internal/config"
	"github.com/m04kA/SMC-BarberShop/internal/integrations/notifier"
	"github.com/m04kA/SMC-BarberShop/pkg/logger"
)

// Потребитель очереди уведомлений: рендерит SMS/email и передаёт их Sender
func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load("config.toml")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	if !cfg.Notifications.Enabled {
		log.Info("Notifications are disabled, notifier has nothing to consume")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	renderer := notifier.Renderer{
		BusinessName: cfg.Business.Name,
		OwnerEmail:   cfg.Business.OwnerEmail,
	}
	consumer := notifier.NewConsumer(
		cfg.Notifications.AMQPURL,
		cfg.Notifications.Queue,
		renderer,
		notifier.NewLogSender(log),
		log,
	)

	log.Info("Starting notifier on queue %s", cfg.Notifications.Queue)
	if err := consumer.Run(ctx); err != nil && ctx.Err() == nil {
		log.Error("Notifier stopped: %v", err)
		return
	}

	log.Info("Notifier stopped gracefully")
}
