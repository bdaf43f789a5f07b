package app

import (
	"bytes"
	"os"
	"sync"
	"testing"
)

// SafeBuffer is a thread-safe buffer for capturing log output in tests.
type SafeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

// SetupAppTest creates an App with debug logging captured in a buffer. Set
// NVIMBUNDLE_TEST_LOGS=true to print the captured logs after each test.
func SetupAppTest(t *testing.T, cfg *Config) (*App, *bytes.Buffer, *SafeBuffer) {
	t.Helper()

	out := &bytes.Buffer{}
	logBuffer := &SafeBuffer{}
	cfg.LogLevel = "debug"
	testApp, err := NewApp(out, logBuffer, cfg)
	if err != nil {
		t.Fatalf("failed to create app: %v", err)
	}

	t.Cleanup(func() {
		if os.Getenv("NVIMBUNDLE_TEST_LOGS") == "true" {
			t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logBuffer.String())
		}
	})

	return testApp, out, logBuffer
}
