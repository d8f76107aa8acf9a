package main

import (
	"encoding/json"
	"log"
	"os"

	"agency-ops-be/internal/entity"
	"agency-ops-be/internal/model"
	"agency-ops-be/pkg/database"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"gorm.io/gorm"
)

// Seeds one provider_configs row per known provider from env credentials.
// Existing rows are left untouched so re-running is safe.
func main() {
	// 1. Load Environment Variables
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	// 2. Connect to Database
	db, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	color.Cyan("Starting Provider Configuration Seeder...")

	seedProviderConfigs(db)

	color.Green("Success: Provider configuration seeding completed.")
}

func seedProviderConfigs(db *gorm.DB) {
	defaultPolicy := &entity.ModelPolicy{
		Default: []string{
			"anthropic/claude-3.5-sonnet",
			"openai/gpt-4o-mini",
			"openrouter/auto",
		},
		Tasks: map[string][]string{
			"copywriting": {"anthropic/claude-3.5-sonnet"},
			"analysis":    {"openai/gpt-4o"},
		},
	}

	providers := []struct {
		providerId string
		envKey     string
		policy     *entity.ModelPolicy
	}{
		{providerId: "openrouter", envKey: "OPENROUTER_API_KEY", policy: defaultPolicy},
		{providerId: "openai", envKey: "OPENAI_API_KEY"},
		{providerId: "anthropic", envKey: "ANTHROPIC_API_KEY"},
		{providerId: "gemini", envKey: "GOOGLE_GEMINI_API_KEY"},
	}

	for _, p := range providers {
		apiKey := os.Getenv(p.envKey)
		if apiKey == "" {
			color.Yellow("Skip: %s (%s not set)", p.providerId, p.envKey)
			continue
		}

		var count int64
		db.Model(&model.ProviderConfig{}).Where("provider_id = ?", p.providerId).Count(&count)
		if count > 0 {
			color.Yellow("Skip: %s (already configured)", p.providerId)
			continue
		}

		row := model.ProviderConfig{
			Id:         uuid.New(),
			ProviderId: p.providerId,
			ApiKey:     apiKey,
			IsActive:   true,
		}
		if p.policy != nil {
			policyJson, err := json.Marshal(p.policy)
			if err != nil {
				log.Fatalf("Error: Failed to marshal model policy: %v", err)
			}
			row.ModelPolicy = policyJson
		}

		if err := db.Create(&row).Error; err != nil {
			log.Fatalf("Error: Failed to seed %s: %v", p.providerId, err)
		}
		color.Green("Seeded: %s", p.providerId)
	}
}
