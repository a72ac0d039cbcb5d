package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/marlonpp/casabot/internal/bot"
	"github.com/marlonpp/casabot/internal/config"
	"github.com/marlonpp/casabot/internal/db"
	"github.com/marlonpp/casabot/internal/logger"
	"github.com/marlonpp/casabot/internal/sched"
	"github.com/marlonpp/casabot/internal/web"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	slogger := logger.Setup(cfg.LogLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sqlDB, err := db.Open(cfg.DBPath)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer sqlDB.Close()
	store := db.NewStore(sqlDB)

	botAPI, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		log.Fatalf("bot init: %v", err)
	}
	botAPI.Debug = false

	h := bot.NewHandler(botAPI, cfg, store, slogger)

	// Graceful shutdown: stop scheduling and stop consuming updates.
	go func() {
		ch := make(chan os.Signal, 1)
		signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
		<-ch
		cancel()
	}()

	scheduler := sched.New(store, h, cfg, slogger)
	go scheduler.Run(ctx)

	if cfg.WebEnabled {
		addr := fmt.Sprintf(":%d", cfg.WebPort)
		handler := web.NewServer(store, cfg.GroupName).Handler()
		go func() {
			slogger.Info("status page listening", "addr", addr)
			if err := http.ListenAndServe(addr, handler); err != nil {
				slogger.Error("web server", "err", err)
			}
		}()
	}

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := botAPI.GetUpdatesChan(u)

	slogger.Info("casabot started", "username", botAPI.Self.UserName)

	for {
		select {
		case <-ctx.Done():
			slogger.Info("shutdown")
			return
		case upd := <-updates:
			h.HandleUpdate(ctx, upd)
		}
	}
}
