package cli

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/formwork-dev/formwork"
	"github.com/formwork-dev/formwork/pkg/adapters/yamldef"
)

// NewEngine initializes an engine from a definition file with standard CLI
// conventions: the file name labels the engine's log output.
func NewEngine(path string, logger *slog.Logger, opts ...formwork.Option) (*formwork.Engine, error) {
	def, err := yamldef.LoadFile(path)
	if err != nil {
		return nil, err
	}

	engineOpts := []formwork.Option{
		formwork.WithLogger(logger),
		formwork.WithName(filepath.Base(path)),
	}
	engineOpts = append(engineOpts, opts...)

	engine, err := formwork.New(yamldef.Index(def), engineOpts...)
	if err != nil {
		return nil, fmt.Errorf("error initializing engine: %w", err)
	}
	return engine, nil
}
