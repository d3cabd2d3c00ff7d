package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/fantasycard/battle-server-go/internal/config"
	"github.com/fantasycard/battle-server-go/internal/game/card"
	"github.com/fantasycard/battle-server-go/internal/repository"
	"go.uber.org/zap"
)

var (
	configPath  = flag.String("config", "config/config.yaml", "path to configuration file")
	catalogPath = flag.String("file", "config/cards.yaml", "YAML card catalog to import")
	databaseURL = flag.String("database-url", "", "PostgreSQL URL (overrides config and DATABASE_URL)")
	replace     = flag.Bool("replace", false, "remove stored cards before importing")
	timeout     = flag.Duration("timeout", time.Minute, "overall import timeout")
)

func main() {
	flag.Parse()

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "catalog import failed: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	switch {
	case *databaseURL != "":
		cfg.Database.URL = *databaseURL
	case os.Getenv("DATABASE_URL") != "":
		cfg.Database.URL = os.Getenv("DATABASE_URL")
	}
	if cfg.Database.URL == "" {
		return fmt.Errorf("no database url: set database.url, DATABASE_URL or -database-url")
	}

	logger, err := zap.NewDevelopment()
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Sync()

	catalog, err := card.LoadFile(*catalogPath)
	if err != nil {
		return err
	}
	fmt.Printf("Loaded %d cards from %s\n", catalog.Len(), *catalogPath)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	db, err := repository.NewDB(ctx, cfg.Database, logger)
	if err != nil {
		return err
	}
	defer db.Close()

	repo := repository.NewCardRepository(db)
	if err := repo.EnsureSchema(ctx); err != nil {
		return err
	}

	existing, err := repo.Count(ctx)
	if err != nil {
		return err
	}
	if existing > 0 && !*replace {
		fmt.Printf("Database already holds %d cards; matching ids are updated in place\n", existing)
	}

	start := time.Now()
	saved, err := repo.SaveCatalog(ctx, catalog, *replace)
	if err != nil {
		return err
	}

	total, err := repo.Count(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("Imported %d cards in %s (%d stored)\n", saved, time.Since(start).Round(time.Millisecond), total)
	return nil
}
