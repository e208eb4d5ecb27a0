package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/viper"
	"github.com/yukikurage/workstream-api/internal/balancer"
	"github.com/yukikurage/workstream-api/internal/config"
	"github.com/yukikurage/workstream-api/internal/database"
	"github.com/yukikurage/workstream-api/internal/directory"
	"github.com/yukikurage/workstream-api/internal/repository"
	"github.com/yukikurage/workstream-api/internal/services"
	"gorm.io/gorm"
)

// app is what every command runs against.
type app struct {
	workstream *services.WorkstreamService
	dir        *directory.Directory
}

// openDB connects and migrates; tests replace it.
var openDB = func(cfg *config.Config) (*gorm.DB, error) {
	if err := database.Connect(cfg); err != nil {
		return nil, err
	}
	if err := database.Migrate(); err != nil {
		return nil, err
	}
	return database.GetDB(), nil
}

// loadDirectory resolves the identity directory; tests replace it.
var loadDirectory = func(cfg *config.Config) (*directory.Directory, error) {
	if cfg.DirectoryFile == "" {
		return directory.Default()
	}
	return directory.Load(cfg.DirectoryFile)
}

func withApp(fn func(a app) error) error {
	cfg := config.Load()
	if v := viper.GetString("db-driver"); v != "" {
		cfg.DBDriver = v
	}
	if v := viper.GetString("db-name"); v != "" {
		cfg.DBName = v
	}

	db, err := openDB(cfg)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	dir, err := loadDirectory(cfg)
	if err != nil {
		return fmt.Errorf("failed to load directory: %w", err)
	}

	ws, err := services.NewWorkstreamService(repository.NewWorkstreamRepository(db), dir, balancer.Options{
		Ceiling:   cfg.BalancerLoadCeiling,
		Increment: cfg.BalancerLoadIncrement,
	})
	if err != nil {
		return err
	}
	return fn(app{workstream: ws, dir: dir})
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
