package cli

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/formwork-dev/formwork/internal/logging"
)

// NewLogger configures the application logger from the --log-level flag.
// It writes to Stderr so Stdout stays clean for report and JSON output.
func NewLogger(level string) *slog.Logger {
	return logging.New(logging.ParseLevel(level))
}

// LoadData reads a data document (JSON, or YAML for .yaml/.yml files)
// into the generic map the engine evaluates. An empty path yields an
// empty document.
func LoadData(path string) (map[string]any, error) {
	if path == "" {
		return map[string]any{}, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read data file: %w", err)
	}

	data := make(map[string]any)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(raw, &data); err != nil {
			return nil, fmt.Errorf("failed to parse data file: %w", err)
		}
	default:
		if err := json.Unmarshal(raw, &data); err != nil {
			return nil, fmt.Errorf("failed to parse data file: %w", err)
		}
	}
	return data, nil
}
