// Package app wires the pieces of one extension evaluation together: it
// configures logging, loads the rule kind manifests, runs the extension
// file against a fresh repository registry and prints the extracted
// specifications.
package app

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/vk/extreg/internal/ctxlog"
	"github.com/vk/extreg/internal/evalctx"
	"github.com/vk/extreg/internal/extension"
	"github.com/vk/extreg/internal/registry"
	"github.com/vk/extreg/internal/rulekind"
	"github.com/vk/extreg/internal/vendoring"
)

// basePackage is the namespace extension-generated repository rules are
// created in.
const basePackage = "//external"

// semanticsVersion pins the evaluation semantics this release implements.
const semanticsVersion = "1"

// App is a single configured run of the tool.
type App struct {
	out    io.Writer
	logOut io.Writer
	cfg    *Config
	logger *slog.Logger
}

// NewApp creates an App. Results go to out; logs go to logOut.
func NewApp(out, logOut io.Writer, cfg *Config) *App {
	return &App{
		out:    out,
		logOut: logOut,
		cfg:    cfg,
		logger: newLogger(cfg, logOut),
	}
}

// Run evaluates the configured extension file and writes the declared
// repository specifications as JSON, keyed by their unprefixed names.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	logger := ctxlog.FromContext(ctx)

	kinds, err := rulekind.LoadDir(ctx, a.cfg.RuleKindsPath)
	if err != nil {
		return err
	}
	if len(kinds) == 0 {
		return fmt.Errorf("no rule kinds found in %s", a.cfg.RuleKindsPath)
	}
	logger.Debug("Rule kinds loaded.", "count", len(kinds))

	if a.cfg.VendorPath != "" {
		classifier := vendoring.NewClassifier()
		vctx := vendoring.WithClassifier(ctx, classifier)
		if err := vendoring.EvaluateFile(vctx, a.cfg.VendorPath); err != nil {
			return err
		}
		logger.Info("Vendor configuration applied.",
			"ignored", classifier.IgnoredRepos(), "pinned", classifier.PinnedRepos())
	}

	reg := registry.New(registry.Config{
		NamePrefix:       a.cfg.NamePrefix,
		BasePackage:      basePackage,
		SemanticsVersion: semanticsVersion,
		Materializer:     rulekind.NewSchemaMaterializer(),
	})
	ctx = evalctx.WithRegistry(ctx, reg)

	evaluator := extension.NewEvaluator(kinds)
	if err := evaluator.EvaluateFile(ctx, a.cfg.ExtensionPath); err != nil {
		return err
	}

	specs := reg.ExtractAll()
	logger.Info("Extension evaluated.", "extension", a.cfg.ExtensionPath, "repos", len(specs))

	encoded, err := json.MarshalIndent(specs, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding repository specifications: %w", err)
	}
	if _, err := fmt.Fprintf(a.out, "%s\n", encoded); err != nil {
		return err
	}
	return nil
}
