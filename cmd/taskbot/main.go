package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tasktracker/internal/bot"
	"tasktracker/internal/config"
	"tasktracker/internal/repository"
	"tasktracker/internal/service"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	db, err := repository.NewDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	sqlDB, err := db.DB()
	if err == nil {
		defer sqlDB.Close()
	}

	userRepo := repository.NewUserRepository(db)
	taskRepo := repository.NewTaskRepository(db)

	engine := service.NewEngine(taskRepo)
	reminders := service.NewReminderService(taskRepo, cfg.DueSoonWindow)

	telegramBot, err := bot.New(cfg.TelegramToken, userRepo, engine, reminders, &cfg)
	if err != nil {
		log.Fatalf("bot: %v", err)
	}

	scheduler := service.NewScheduler(time.Local)
	if cfg.ReminderInterval > 0 {
		if _, err := scheduler.ScheduleInterval(cfg.ReminderInterval, func() {
			jobCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if err := telegramBot.SendReminderSweeps(jobCtx); err != nil && !errors.Is(err, context.Canceled) {
				log.Printf("reminder sweep: %v", err)
			}
		}); err != nil {
			log.Fatalf("schedule reminders: %v", err)
		}
	}
	if cfg.DailySummaryTime != "" {
		if _, err := scheduler.ScheduleDaily(cfg.DailySummaryTime, func() {
			jobCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if err := telegramBot.SendReminderSweeps(jobCtx); err != nil && !errors.Is(err, context.Canceled) {
				log.Printf("daily summary: %v", err)
			}
		}); err != nil {
			log.Fatalf("schedule daily summary: %v", err)
		}
	}
	scheduler.Start()
	defer scheduler.Stop()

	log.Println("Task tracker bot started.")
	if err := telegramBot.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("bot stopped with error: %v", err)
	}
	log.Println("Shutdown complete.")
}
