// Package cli turns command-line arguments into an app.Config.
package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"

	"github.com/vk/extreg/internal/app"
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

// Parse processes command-line arguments. It returns a populated Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("extreg", flag.ContinueOnError)
	flagSet.SetOutput(output)

	// Custom usage/help text function
	flagSet.Usage = func() {
		fmt.Fprint(output, `
extreg - Evaluates a module extension file and prints the repository
specifications it declares.

Usage:
  extreg [options] [EXTENSION_PATH]

Arguments:
  EXTENSION_PATH
    Path to a single .hcl extension file with repo declarations.

Options:
`)
		flagSet.PrintDefaults()
	}

	extensionFlag := flagSet.String("extension", "", "Path to the extension file.")
	eFlag := flagSet.String("e", "", "Path to the extension file (shorthand).")
	ruleKindsFlag := flagSet.String("rule-kinds", "rulekinds", "Path to the directory containing rule kind manifests.")
	namePrefixFlag := flagSet.String("name-prefix", "", "Prefix applied to every declared repository name.")
	vendorFlag := flagSet.String("vendor-file", "", "Optional vendor configuration file with ignore/pin lists.")
	logFormatFlag := flagSet.String("log-format", "json", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	path := ""
	if *extensionFlag != "" {
		path = *extensionFlag
	} else if *eFlag != "" {
		path = *eFlag
	} else if flagSet.NArg() > 0 {
		path = flagSet.Arg(0)
	}
	slog.Debug("Extension path determined.", "path", path)

	if path == "" {
		slog.Debug("No extension path provided, printing usage and exiting.")
		flagSet.Usage()
		return nil, true, nil
	}

	// Log settings are validated and normalized by app.NewConfig.
	config, err := app.NewConfig(app.Config{
		ExtensionPath: path,
		RuleKindsPath: *ruleKindsFlag,
		VendorPath:    *vendorFlag,
		NamePrefix:    *namePrefixFlag,
		LogFormat:     *logFormatFlag,
		LogLevel:      *logLevelFlag,
	})

	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}
