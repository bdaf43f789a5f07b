package emit

import (
	"context"
	"fmt"

	"github.com/vk/nvimbundle/internal/bundle"
	"github.com/vk/nvimbundle/internal/ctxlog"
)

// Emitter runs Render, Verify and Write in sequence.
type Emitter struct {
	Workers   int
	VerifyLua bool
}

// New creates an Emitter.
func New(workers int, verifyLua bool) *Emitter {
	return &Emitter{Workers: workers, VerifyLua: verifyLua}
}

// Emit writes b under root.
func (e *Emitter) Emit(ctx context.Context, b *bundle.Bundle, root string) error {
	logger := ctxlog.FromContext(ctx)

	artifacts, err := Render(b)
	if err != nil {
		return fmt.Errorf("failed to render bundle: %w", err)
	}
	logger.Debug("Bundle rendered.", "artifacts", len(artifacts))

	if e.VerifyLua {
		if err := Verify(artifacts); err != nil {
			return fmt.Errorf("emitted Lua does not parse: %w", err)
		}
		logger.Debug("Lua artifacts verified.")
	}

	return Write(ctx, root, artifacts, e.Workers)
}
