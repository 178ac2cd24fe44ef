// Package commands implements the widetable subcommands.
package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/widetable-labs/widetable/internal/config"
	"github.com/widetable-labs/widetable/internal/loader"
	"github.com/widetable-labs/widetable/pkg/dataset"
)

// configKey is used to store the loaded config in the command context.
type configKey struct{}

// loggerKey is used to store the logger in the command context.
type loggerKey struct{}

// WithConfig stores the config in the context.
func WithConfig(ctx context.Context, cfg *config.Config) context.Context {
	return context.WithValue(ctx, configKey{}, cfg)
}

// WithLogger stores the logger in the context.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

// GetConfig retrieves the config from the command context.
func GetConfig(ctx context.Context) *config.Config {
	if c, ok := ctx.Value(configKey{}).(*config.Config); ok {
		return c
	}
	return &config.Config{
		SchemaDir:   config.DefaultSchemaDir,
		Environment: config.DefaultEnv,
	}
}

// GetLogger retrieves the logger from the command context.
func GetLogger(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
		return l
	}
	return slog.New(slog.DiscardHandler)
}

// loadSchema loads the entity graph and data sets from the configured
// schema directory.
func loadSchema(ctx context.Context) (*loader.Result, error) {
	cfg := GetConfig(ctx)
	result, err := loader.Load(cfg.SchemaDir)
	if err != nil {
		return nil, err
	}
	GetLogger(ctx).Debug("schema loaded",
		"dir", cfg.SchemaDir,
		"entities", len(result.Entities),
		"data_sets", len(result.DataSets))
	return result, nil
}

// selectDataSets resolves the positional data set names, or all data
// sets when all is set.
func selectDataSets(result *loader.Result, names []string, all bool) ([]*dataset.DataSet, error) {
	if all {
		return result.DataSets, nil
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("no data sets specified (use --all for all of them)")
	}
	selected := make([]*dataset.DataSet, 0, len(names))
	for _, name := range names {
		ds, ok := result.DataSet(name)
		if !ok {
			return nil, fmt.Errorf("unknown data set %q", name)
		}
		selected = append(selected, ds)
	}
	return selected, nil
}
