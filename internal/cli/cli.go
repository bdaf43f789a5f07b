package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/vk/nvimbundle/internal/app"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

func usageError(format string, args ...any) *ExitError {
	return &ExitError{Code: 2, Message: fmt.Sprintf(format, args...)}
}

// Parse processes command-line arguments. It returns a populated app.Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("nvimbundle", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
nvimbundle - Compiles a Neovim plugin payload into a lazy-loading bundle.

Usage:
  nvimbundle [options] PAYLOAD OUTPUT_DIR

Arguments:
  PAYLOAD
    A .json, .yaml or .hcl payload file, or a directory of .hcl files.
  OUTPUT_DIR
    Directory to create. It must not exist or be empty.

Options:
`)
		flagSet.PrintDefaults()
	}

	inputFlag := flagSet.String("input", "", "Path to the payload file or directory.")
	iFlag := flagSet.String("i", "", "Path to the payload file or directory (shorthand).")
	outputFlag := flagSet.String("output", "", "Directory the bundle is written to.")
	oFlag := flagSet.String("o", "", "Directory the bundle is written to (shorthand).")
	formatFlag := flagSet.String("format", "auto", "Payload format. Options: 'auto', 'json', 'yaml' or 'hcl'.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	workersFlag := flagSet.Int("workers", 8, "Number of concurrent file writers.")
	verifyFlag := flagSet.Bool("verify-lua", true, "Parse every emitted Lua file before writing the bundle.")
	strictFlag := flagSet.Bool("strict-cycles", false, "Fail on dependency cycles instead of warning.")
	dryRunFlag := flagSet.Bool("dry-run", false, "Print a component summary instead of writing files.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	positional := flagSet.Args()
	inputPath := firstNonEmpty(*inputFlag, *iFlag)
	if inputPath == "" && len(positional) > 0 {
		inputPath, positional = positional[0], positional[1:]
	}
	outputPath := firstNonEmpty(*outputFlag, *oFlag)
	if outputPath == "" && len(positional) > 0 {
		outputPath, positional = positional[0], positional[1:]
	}
	if len(positional) > 0 {
		return nil, false, usageError("unexpected arguments: %s", strings.Join(positional, " "))
	}
	slog.Debug("Paths determined.", "input", inputPath, "output", outputPath)

	if inputPath == "" {
		slog.Debug("No payload provided, printing usage and exiting.")
		flagSet.Usage()
		return nil, true, nil
	}
	if outputPath == "" && !*dryRunFlag {
		return nil, false, usageError("missing OUTPUT_DIR: pass it as the second argument or use -output")
	}

	format := strings.ToLower(*formatFlag)
	switch format {
	case "auto", "json", "yaml", "hcl":
	default:
		return nil, false, usageError("invalid format: must be 'auto', 'json', 'yaml' or 'hcl'")
	}

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, usageError("invalid log-format: must be 'text' or 'json'")
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
	default:
		return nil, false, usageError("invalid log-level: must be 'debug', 'info', 'warn', or 'error'")
	}

	if *workersFlag < 1 {
		return nil, false, usageError("invalid workers: must be at least 1")
	}
	slog.Debug("CLI parameter validation complete.")

	config, err := app.NewConfig(app.Config{
		InputPath:    inputPath,
		OutputPath:   outputPath,
		Format:       format,
		LogFormat:    logFormat,
		LogLevel:     logLevel,
		Workers:      *workersFlag,
		VerifyLua:    *verifyFlag,
		StrictCycles: *strictFlag,
		DryRun:       *dryRunFlag,
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
