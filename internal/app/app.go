package app

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/vk/nvimbundle/internal/hclpayload"
	"github.com/vk/nvimbundle/internal/jsonpayload"
	"github.com/vk/nvimbundle/internal/payload"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW   io.Writer
	logger *slog.Logger
	config *Config
	loader payload.Loader
}

// NewApp is the constructor for the main application. Reports go to outW and
// logs to logW, each App getting its own isolated logger.
func NewApp(outW, logW io.Writer, cfg *Config) (*App, error) {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, logW)
	logger.Debug("Logger configured successfully.")

	loader, err := loaderFor(cfg.Format, cfg.InputPath)
	if err != nil {
		return nil, err
	}
	logger.Debug("Payload loader selected.", "format", cfg.Format, "loader", fmt.Sprintf("%T", loader))

	return &App{
		outW:   outW,
		logger: logger,
		config: cfg,
		loader: loader,
	}, nil
}

// loaderFor picks the loader for format. "auto" chooses HCL for .hcl files
// and directories, and the JSON loader (which also reads YAML) otherwise.
func loaderFor(format, path string) (payload.Loader, error) {
	switch format {
	case "json":
		return jsonpayload.NewLoader(jsonpayload.FormatJSON), nil
	case "yaml":
		return jsonpayload.NewLoader(jsonpayload.FormatYAML), nil
	case "hcl":
		return hclpayload.NewLoader(), nil
	case "", "auto":
	default:
		return nil, fmt.Errorf("unknown payload format %q", format)
	}

	if strings.EqualFold(filepath.Ext(path), ".hcl") {
		return hclpayload.NewLoader(), nil
	}
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return hclpayload.NewLoader(), nil
	}
	return jsonpayload.NewLoader(jsonpayload.FormatAuto), nil
}
