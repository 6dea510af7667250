package main

import (
	"os"

	"ai-coach-be/internal/config"
	"ai-coach-be/internal/model"
	"ai-coach-be/pkg/database"

	"github.com/fatih/color"
)

func main() {
	cfg := config.Load()
	if cfg.Database.Connection == "" {
		color.Red("Error: DB_CONNECTION_STRING is not set")
		os.Exit(1)
	}

	db, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		color.Red("Error: Failed to connect to database: %v", err)
		os.Exit(1)
	}

	color.Cyan("Starting GORM migration...")

	color.Yellow("Step 1: Extensions")
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS pgcrypto;`).Error; err != nil {
		color.Red("Warn: Failed to create pgcrypto: %v. Continuing...", err)
	}

	models := []interface{}{
		&model.AthleteProfile{},
		&model.TrainingPlan{},
		&model.Activity{},
		&model.MemoryDossier{},
		&model.MemoryDigest{},
		&model.MemoryConversation{},
		&model.DecisionLog{},
	}
	color.Yellow("Step 2: AutoMigrate for %d tables", len(models))
	if err := db.AutoMigrate(models...); err != nil {
		color.Red("Error: AutoMigrate failed: %v", err)
		os.Exit(1)
	}

	color.Yellow("Step 3: Indexes")
	postMigrationSQL := []string{
		// At most one active plan per athlete.
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_training_plans_one_active ON training_plans (user_id) WHERE is_active;`,
		`CREATE INDEX IF NOT EXISTS idx_decision_log_user_created ON decision_log (user_id, created_at DESC);`,
	}
	for _, sql := range postMigrationSQL {
		if err := db.Exec(sql).Error; err != nil {
			color.Red("Warn: Failed to execute post-migration SQL: %v", err)
		}
	}

	color.Green("Success: database migration completed.")
}
