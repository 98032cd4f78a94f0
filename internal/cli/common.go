package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/rshade/footprint/internal/config"
	"github.com/rshade/footprint/internal/footprint"
	"github.com/rshade/footprint/internal/refdata"
)

// loadReference opens the configured reference dataset, or the embedded
// one when no path is set.
func loadReference(cfg *config.Config) (*refdata.Store, error) {
	if cfg.Reference.Path == "" {
		return refdata.LoadDefault()
	}
	store, err := refdata.Load(cfg.Reference.Path)
	if err != nil {
		return nil, fmt.Errorf("loading reference data: %w", err)
	}
	return store, nil
}

// loadEngine builds a calculation engine over the configured reference data.
func loadEngine(cfg *config.Config, opts ...footprint.Option) (*footprint.Engine, error) {
	store, err := loadReference(cfg)
	if err != nil {
		return nil, err
	}
	return footprint.NewEngine(store, opts...)
}

// resolveFormat picks the output format: the explicit flag, a table on a
// terminal, and the configured default otherwise.
func resolveFormat(flag string, out io.Writer, cfg *config.Config) (string, error) {
	format := flag
	if format == "" {
		format = cfg.Output.DefaultFormat
		if f, ok := out.(*os.File); ok && isTerminal(f) {
			format = config.FormatTable
		}
	}

	switch format {
	case config.FormatTable, config.FormatJSON:
		return format, nil
	default:
		return "", fmt.Errorf("unsupported output format: %s", format)
	}
}
