package emit

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/vk/nvimbundle/internal/ctxlog"
	"golang.org/x/sync/errgroup"
)

// Write materializes artifacts under root. Files are written concurrently
// into a staging directory next to root, which is renamed to root once
// everything succeeded. root must be absent or an empty directory; on error
// it is left untouched.
func Write(ctx context.Context, root string, artifacts []Artifact, workers int) (err error) {
	logger := ctxlog.FromContext(ctx)
	if workers < 1 {
		workers = 1
	}

	if err := checkTarget(root); err != nil {
		return err
	}

	parent := filepath.Dir(root)
	if err := os.MkdirAll(parent, 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", parent, err)
	}
	staging, err := os.MkdirTemp(parent, ".nvimbundle-*")
	if err != nil {
		return fmt.Errorf("failed to create staging directory: %w", err)
	}
	defer func() {
		if err != nil {
			_ = os.RemoveAll(staging)
		}
	}()
	logger.Debug("Writing artifacts to staging directory.", "staging", staging, "count", len(artifacts), "workers", workers)

	dirs := make([]string, 0)
	for _, a := range artifacts {
		dirs = append(dirs, filepath.Dir(filepath.FromSlash(a.Path)))
	}
	slices.Sort(dirs)
	for _, dir := range slices.Compact(dirs) {
		if err := os.MkdirAll(filepath.Join(staging, dir), 0o755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for _, a := range artifacts {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			target := filepath.Join(staging, filepath.FromSlash(a.Path))
			if err := os.WriteFile(target, []byte(a.Content), 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", a.Path, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	if err := os.Chmod(staging, 0o755); err != nil {
		return fmt.Errorf("failed to set permissions on staging directory: %w", err)
	}
	if err := os.Remove(root); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to replace %s: %w", root, err)
	}
	if err := os.Rename(staging, root); err != nil {
		return fmt.Errorf("failed to move bundle into place: %w", err)
	}
	logger.Debug("Artifacts written.", "root", root)
	return nil
}

// checkTarget accepts a missing path or an empty directory.
func checkTarget(root string) error {
	info, err := os.Stat(root)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to inspect output %s: %w", root, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("output %s exists and is not a directory", root)
	}
	entries, err := os.ReadDir(root)
	if err != nil {
		return fmt.Errorf("failed to read output %s: %w", root, err)
	}
	if len(entries) > 0 {
		return fmt.Errorf("output directory %s is not empty", root)
	}
	return nil
}
