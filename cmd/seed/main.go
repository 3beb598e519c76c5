package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/meur/moviedeck/internal/collection"
	"github.com/meur/moviedeck/internal/config"
	"github.com/meur/moviedeck/internal/logging"
	"github.com/meur/moviedeck/internal/models"
	"github.com/meur/moviedeck/internal/storage"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var configPath string
	var dbPath string
	var seedFile string

	cmd := &cobra.Command{
		Use:           "moviedeck-seed",
		Short:         "Load movies into the database",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, _, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if dbPath = strings.TrimSpace(dbPath); dbPath != "" {
				expanded, err := config.ExpandPath(dbPath)
				if err != nil {
					return err
				}
				cfg.Server.DBPath = expanded
			}

			logger, err := logging.NewFromConfig(cfg)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			movies := collection.FallbackSet()
			if seedFile != "" {
				movies, err = readSeedFile(seedFile)
				if err != nil {
					return err
				}
			}

			count, err := seed(cfg.Server.DBPath, movies)
			if err != nil {
				return err
			}
			logger.Info("seeding complete", zap.Int("movies", count), zap.String("db", cfg.Server.DBPath))
			fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d movies into %s\n", count, cfg.Server.DBPath)
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Configuration file path")
	cmd.Flags().StringVar(&dbPath, "db", "", "SQLite database path (overrides config and DB_PATH)")
	cmd.Flags().StringVarP(&seedFile, "file", "f", "", "JSON array of movies (defaults to the sample set)")
	return cmd
}

func seed(dbPath string, movies []models.Movie) (int, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return 0, fmt.Errorf("ensure database directory: %w", err)
	}
	store, err := storage.New(dbPath)
	if err != nil {
		return 0, fmt.Errorf("open database: %w", err)
	}
	defer store.Close()

	if err := store.BulkCreateMovies(movies); err != nil {
		return 0, err
	}
	return len(movies), nil
}

func readSeedFile(path string) ([]models.Movie, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open seed file: %w", err)
	}
	defer f.Close()
	return decodeSeed(f)
}

func decodeSeed(r io.Reader) ([]models.Movie, error) {
	var movies []models.Movie
	if err := json.NewDecoder(r).Decode(&movies); err != nil {
		return nil, fmt.Errorf("decode seed file: %w", err)
	}
	for i, m := range movies {
		if strings.TrimSpace(m.Title) == "" {
			return nil, fmt.Errorf("seed entry %d: %w", i, models.ErrTitleRequired)
		}
	}
	return movies, nil
}
