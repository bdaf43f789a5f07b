package testutil

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vk/nvimbundle/internal/app"
)

// HarnessResult holds the outcomes of an integration test run.
type HarnessResult struct {
	LogOutput string
	// Output is what the run printed to stdout, e.g. a dry-run summary.
	Output string
	Err    error
	// Root is the bundle directory; it only exists if the run succeeded.
	Root string
	// Tree maps every emitted file, slash-separated and relative to Root, to
	// its content.
	Tree map[string]string
}

// RunIntegrationTest provides a standardized harness for running integration tests
// using a default background context.
func RunIntegrationTest(t *testing.T, files map[string]string, input string, configure ...func(*app.Config)) *HarnessResult {
	t.Helper()
	return RunIntegrationTestWithContext(context.Background(), t, files, input, configure...)
}

// RunIntegrationTestWithContext writes files into a temporary directory,
// compiles input (a path relative to that directory) and collects the
// emitted tree.
func RunIntegrationTestWithContext(ctx context.Context, t *testing.T, files map[string]string, input string, configure ...func(*app.Config)) *HarnessResult {
	t.Helper()

	// 1. Create a temporary root directory for the test.
	tmpDir := t.TempDir()

	// 2. Write all payload files. Relative names may contain directories.
	for name, content := range files {
		filePath := filepath.Join(tmpDir, "payload", filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(filePath), 0o755))
		require.NoError(t, os.WriteFile(filePath, []byte(content), 0o644))
	}

	// 3. Configure the app, letting the test override anything.
	root := filepath.Join(tmpDir, "bundle")
	cfg := &app.Config{
		InputPath:  filepath.Join(tmpDir, "payload", filepath.FromSlash(input)),
		OutputPath: root,
		Format:     "auto",
		LogLevel:   "debug",
		LogFormat:  "text",
		Workers:    4,
		VerifyLua:  true,
	}
	for _, fn := range configure {
		fn(cfg)
	}

	logBuffer := &SafeBuffer{}
	outBuffer := &SafeBuffer{}
	result := &HarnessResult{Root: root}

	testApp, err := app.NewApp(outBuffer, logBuffer, cfg)
	if err == nil {
		err = testApp.Run(ctx)
	}
	result.Err = err
	result.LogOutput = logBuffer.String()
	result.Output = outBuffer.String()

	if os.Getenv("NVIMBUNDLE_TEST_LOGS") == "true" {
		t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), result.LogOutput)
	}

	if err == nil && !cfg.DryRun {
		result.Tree = readTree(t, root)
	}
	return result
}

func readTree(t *testing.T, root string) map[string]string {
	t.Helper()
	tree := make(map[string]string)
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", rel, err)
		}
		tree[filepath.ToSlash(rel)] = string(data)
		return nil
	})
	require.NoError(t, err)
	return tree
}
