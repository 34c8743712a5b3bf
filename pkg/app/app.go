// Package app wires configuration into the concrete pipeline components
// used by the CLI commands.
package app

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/LouisB739/thehook/pkg/config"
	"github.com/LouisB739/thehook/pkg/dotdir"
	"github.com/LouisB739/thehook/pkg/embeddings"
	embeddingutils "github.com/LouisB739/thehook/pkg/embeddings/utils"
	"github.com/LouisB739/thehook/pkg/index"
	"github.com/LouisB739/thehook/pkg/knowledge"
	"github.com/LouisB739/thehook/pkg/vector"
	vectorutils "github.com/LouisB739/thehook/pkg/vector/utils"
)

// sqliteDBName is the index database file under .thehook/vector/.
const sqliteDBName = "index.db"

// Components holds the wired pipeline for one project.
type Components struct {
	// Target is the resolved .thehook/ directory.
	Target string

	Driver   vector.Driver
	Embedder embeddings.Embedder
	Index    *index.Index
	Store    *knowledge.Store
}

// Build resolves the .thehook/ directory for projectDir and constructs the
// index and knowledge store from configuration.
func Build(projectDir string, cfg *config.Config, logger *slog.Logger) (*Components, error) {
	manager := dotdir.NewManager()
	target, err := manager.Target(projectDir)
	if err != nil {
		return nil, fmt.Errorf("resolving thehook directory: %w", err)
	}

	vectorTarget := cfg.VectorStore.Target
	if vectorTarget == "" && cfg.VectorStore.Provider == "sqlite" {
		vectorDir := dotdir.VectorDir(target)
		if err := os.MkdirAll(vectorDir, 0o755); err != nil {
			return nil, fmt.Errorf("creating vector directory: %w", err)
		}
		vectorTarget = filepath.Join(vectorDir, sqliteDBName)
	}

	driver, err := vectorutils.NewVectorDriver(&vectorutils.NewVectorDriverOpts{
		ProviderType: cfg.VectorStore.Provider,
		Target:       vectorTarget,
		Dimensions:   cfg.Embedding.Dimensions,
		Logger:       logger,
	})
	if err != nil {
		return nil, fmt.Errorf("creating vector driver: %w", err)
	}

	embedder, err := embeddingutils.NewEmbedder(&embeddingutils.NewEmbedderOpts{
		ProviderType: cfg.Embedding.Provider,
		TargetURL:    cfg.Embedding.Target,
		Model:        cfg.Embedding.Model,
	})
	if err != nil {
		driver.Close()
		return nil, fmt.Errorf("creating embedder: %w", err)
	}

	idx := index.New(driver, embedder, logger)
	store := knowledge.NewStore(
		dotdir.SessionsDir(target),
		dotdir.KnowledgeDir(target),
		idx,
		logger,
	)

	return &Components{
		Target:   target,
		Driver:   driver,
		Embedder: embedder,
		Index:    idx,
		Store:    store,
	}, nil
}

// BuildStoreOnly constructs a knowledge store without an index, for paths
// that must write durably even when the vector stack is unavailable.
func BuildStoreOnly(projectDir string, logger *slog.Logger) (*knowledge.Store, error) {
	manager := dotdir.NewManager()
	target, err := manager.Target(projectDir)
	if err != nil {
		return nil, fmt.Errorf("resolving thehook directory: %w", err)
	}

	return knowledge.NewStore(
		dotdir.SessionsDir(target),
		dotdir.KnowledgeDir(target),
		nil,
		logger,
	), nil
}

// Close releases the vector driver and embedder.
func (c *Components) Close() error {
	return c.Index.Close()
}
