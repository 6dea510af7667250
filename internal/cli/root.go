// Package cli implements coachctl, the operator CLI for athlete data.
package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"ai-coach-be/internal/config"
	"ai-coach-be/internal/pkg/logger"
	"ai-coach-be/internal/repository/unitofwork"
	"ai-coach-be/internal/service"
	"ai-coach-be/pkg/database"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var athleteFlag string

// services is swapped out in tests.
var services = openServices

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:           "coachctl",
	Short:         "Operate on athlete plans, activities and coach memory",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&athleteFlag, "athlete", "a", "", "Athlete id (uuid)")
}

// Services bundles what the commands call.
type Services struct {
	Activity  service.IActivityService
	Memory    service.IMemoryService
	Readiness service.IReadinessService
}

func openServices() (*Services, error) {
	cfg := config.Load()
	db, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	uowFactory := unitofwork.NewRepositoryFactory(db)
	log := logger.NewZapLogger(cfg.App.LogFilePath, cfg.IsProduction())
	return &Services{
		Activity:  service.NewActivityService(uowFactory, cfg.Coach.DefaultFtpWatts, log),
		Memory:    service.NewMemoryService(uowFactory, nil, nil, cfg.Coach.DefaultFtpWatts, log),
		Readiness: service.NewReadinessService(uowFactory),
	}, nil
}

func athleteID() (uuid.UUID, error) {
	if athleteFlag == "" {
		return uuid.Nil, fmt.Errorf("--athlete is required")
	}
	id, err := uuid.Parse(athleteFlag)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid athlete id %q: %w", athleteFlag, err)
	}
	return id, nil
}

func printJSON(w io.Writer, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}

// Execute runs the CLI and reports the error in red.
func Execute() int {
	if err := RootCmd.Execute(); err != nil {
		color.New(color.FgRed).Fprintf(RootCmd.ErrOrStderr(), "error: %v\n", err)
		return 1
	}
	return 0
}
