package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"courtpulse/internal/config"
	"courtpulse/internal/database"
	"courtpulse/internal/models"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

type CourtsConfig struct {
	Courts []models.Court `yaml:"courts"`
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	var (
		courtsPath = flag.String("courts", "configs/courts.yaml", "path to courts.yaml")
		dbPath     = flag.String("db", "./data/courtpulse.db", "path to sqlite db")
	)
	flag.Parse()

	data, err := os.ReadFile(*courtsPath)
	if err != nil {
		return fmt.Errorf("read courts: %w", err)
	}
	var cfg CourtsConfig
	if err = yaml.Unmarshal(data, &cfg); err != nil {
		return fmt.Errorf("parse courts: %w", err)
	}
	if len(cfg.Courts) == 0 {
		return fmt.Errorf("no courts in yaml")
	}
	if err = config.ValidateCourts(cfg.Courts); err != nil {
		return fmt.Errorf("validate courts: %w", err)
	}

	db, err := database.NewDB(*dbPath, &logger)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	existing, err := db.FetchCourts(ctx, 0)
	if err != nil {
		return fmt.Errorf("fetch courts: %w", err)
	}
	byField := make(map[string]models.Court, len(existing))
	for _, c := range existing {
		byField[c.Field] = c
	}

	created := 0
	updated := 0
	for _, court := range cfg.Courts {
		if court.Field == "" {
			continue
		}
		if current, ok := byField[court.Field]; ok {
			court.ID = current.ID
			if err = db.UpdateCourt(ctx, &court); err != nil {
				return fmt.Errorf("update %s: %w", court.Field, err)
			}
			updated++
			continue
		}
		if err = db.CreateCourt(ctx, &court); err != nil {
			return fmt.Errorf("create %s: %w", court.Field, err)
		}
		created++
	}

	fmt.Printf("done: created=%d updated=%d\n", created, updated)
	return nil
}
