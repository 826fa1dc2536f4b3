package main

import (
	"context"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"

	"github.com/agendia-app/agendia/internal/config"
	dbpkg "github.com/agendia-app/agendia/internal/db"
	"github.com/agendia-app/agendia/internal/dedupe"
	infraCalendar "github.com/agendia-app/agendia/internal/infra/calendar"
	"github.com/agendia-app/agendia/internal/interpreter/gemini"
	"github.com/agendia-app/agendia/internal/routes"
	"github.com/agendia-app/agendia/internal/storage"
	"github.com/agendia-app/agendia/internal/telegram"
)

func main() {

	_ = godotenv.Load()

	cfg := config.Load()
	db := dbpkg.NewDB(cfg)

	ctx := context.Background()

	interpreter, err := gemini.New(gemini.Config{
		APIKey: cfg.GeminiAPIKey,
		Model:  cfg.GeminiModel,
	})
	if err != nil {
		log.Fatalf("failed to init interpreter: %v", err)
	}

	calendarSvc, err := infraCalendar.NewGoogleService(ctx, infraCalendar.GoogleConfig{
		ClientID:     cfg.GoogleClientID,
		ClientSecret: cfg.GoogleClientSecret,
		RefreshToken: cfg.GoogleRefreshToken,
		CalendarID:   cfg.GoogleCalendarID,
	})
	if err != nil {
		log.Fatalf("failed to init calendar service: %v", err)
	}

	if cfg.TelegramBotToken == "" {
		log.Fatal("TELEGRAM_BOT_TOKEN is required")
	}
	bot := telegram.NewClient(cfg.TelegramBotToken)

	var dedupeStore dedupe.Store
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Printf("redis unavailable, webhook dedupe disabled: %v", err)
		} else {
			dedupeStore = dedupe.NewRedisStore(rdb)
		}
	}

	var voiceArchive *storage.VoiceArchive
	if cfg.S3Bucket != "" {
		voiceArchive = storage.NewVoiceArchive(storage.S3Config{
			Bucket:          cfg.S3Bucket,
			Region:          cfg.S3Region,
			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretAccessKey,
		})
	}

	r := gin.Default()

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	routes.RegisterRoutes(r, db, cfg, routes.Deps{
		Interpreter:  interpreter,
		Calendar:     calendarSvc,
		Bot:          bot,
		Dedupe:       dedupeStore,
		VoiceArchive: voiceArchive,
	})

	log.Printf("Server running on %s", cfg.Addr())
	if err := r.Run(cfg.Addr()); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}
