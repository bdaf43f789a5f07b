package testutil

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	lua "github.com/yuin/gopher-lua"
)

// AssertArtifact checks that the run emitted path with exactly want.
func AssertArtifact(t *testing.T, result *HarnessResult, path, want string) {
	t.Helper()

	got, ok := result.Tree[path]
	require.True(t, ok, "expected artifact %q was not emitted", path)
	require.Equal(t, want, got, "unexpected content in %q", path)
}

// AssertNoArtifact checks that the run did not emit path.
func AssertNoArtifact(t *testing.T, result *HarnessResult, path string) {
	t.Helper()

	_, ok := result.Tree[path]
	require.False(t, ok, "artifact %q should not have been emitted", path)
}

// AssertArtifactList evaluates a `return {...}` artifact and compares the
// strings it returns.
func AssertArtifactList(t *testing.T, result *HarnessResult, path string, want ...string) {
	t.Helper()

	chunk, ok := result.Tree[path]
	require.True(t, ok, "expected artifact %q was not emitted", path)

	L := lua.NewState()
	defer L.Close()
	require.NoError(t, L.DoString(chunk), "artifact %q does not run", path)
	tbl, ok := L.Get(-1).(*lua.LTable)
	require.True(t, ok, "artifact %q does not return a table", path)

	got := make([]string, 0, tbl.Len())
	for i := 1; i <= tbl.Len(); i++ {
		got = append(got, tbl.RawGetInt(i).String())
	}
	if want == nil {
		want = []string{}
	}
	require.Equal(t, want, got, "unexpected list in %q", path)
}

// AssertLogged checks the log output for a message.
func AssertLogged(t *testing.T, result *HarnessResult, msg string) {
	t.Helper()

	require.True(t, strings.Contains(result.LogOutput, msg),
		"expected %q in the log output", msg)
}
