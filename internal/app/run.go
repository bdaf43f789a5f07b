package app

import (
	"context"
	"fmt"

	"github.com/vk/nvimbundle/internal/bundle"
	"github.com/vk/nvimbundle/internal/ctxlog"
	"github.com/vk/nvimbundle/internal/emit"
	"github.com/vk/nvimbundle/internal/report"
)

// Run loads the payload, compiles it and writes the bundle, or prints its
// summary on a dry run.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	b, err := a.Compile(ctx)
	if err != nil {
		return err
	}

	if a.config.DryRun {
		a.logger.Info("Dry run, printing summary instead of writing.", "components", len(b.Components))
		report.Summary(a.outW, b)
		return nil
	}

	emitter := emit.New(a.config.Workers, a.config.VerifyLua)
	if err := emitter.Emit(ctx, b, a.config.OutputPath); err != nil {
		return fmt.Errorf("failed to emit bundle: %w", err)
	}
	a.logger.Info("Bundle written.", "output", a.config.OutputPath, "components", len(b.Components))

	a.logger.Debug("App.Run method finished.")
	return nil
}

// Compile loads the configured payload and builds the bundle without
// writing anything.
func (a *App) Compile(ctx context.Context) (*bundle.Bundle, error) {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Info("Compiling bundle.", "input", a.config.InputPath)

	p, err := a.loader.Load(ctx, a.config.InputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load payload: %w", err)
	}
	a.logger.Debug("Payload loaded.",
		"eager", len(p.EagerPlugins), "lazy", len(p.LazyPlugins), "groups", len(p.LazyGroups), "after", len(p.After))

	b, err := bundle.Build(ctx, p, bundle.Options{StrictCycles: a.config.StrictCycles})
	if err != nil {
		return nil, fmt.Errorf("failed to compile bundle: %w", err)
	}
	return b, nil
}
