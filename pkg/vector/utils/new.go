package vectorutils

import (
	"fmt"
	"log/slog"

	"github.com/LouisB739/thehook/pkg/vector"
	"github.com/LouisB739/thehook/pkg/vector/chroma"
	"github.com/LouisB739/thehook/pkg/vector/sqlitevec"
)

type NewVectorDriverOpts struct {
	ProviderType string

	// Target is provider-specific: a database file path for sqlite, a
	// server URL for chroma.
	Target string

	// Dimensions is only used by providers that need a fixed vector
	// size up front (sqlite).
	Dimensions uint

	Logger *slog.Logger
}

func NewVectorDriver(o *NewVectorDriverOpts) (vector.Driver, error) {
	switch o.ProviderType {
	case "sqlite":
		return sqlitevec.NewDriver(sqlitevec.Config{
			DBPath:     o.Target,
			Dimensions: o.Dimensions,
		}, o.Logger)
	case "chroma":
		return chroma.NewChromaDriver(chroma.Config{
			URL: o.Target,
		}, o.Logger)
	default:
		return nil, fmt.Errorf("unsupported vector store provider: %s", o.ProviderType)
	}
}
