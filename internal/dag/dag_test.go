package dag

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	g := New()
	require.NotNil(t, g)
	assert.NotNil(t, g.nodes)
	assert.Empty(t, g.nodes)
}

func TestAddNode(t *testing.T) {
	g := New()

	g.AddNode("telescope")
	assert.Len(t, g.nodes, 1)
	n, ok := g.nodes["telescope"]
	require.True(t, ok)
	assert.Equal(t, "telescope", n.id)
	assert.NotNil(t, n.dependents)

	g.AddNode("telescope") // Test idempotency
	assert.Len(t, g.nodes, 1)

	g.AddNode("plenary")
	assert.Len(t, g.nodes, 2)
}

func TestAddEdge(t *testing.T) {
	t.Run("success case", func(t *testing.T) {
		g := New()
		g.AddNode("plenary")
		g.AddNode("telescope")

		err := g.AddEdge("plenary", "telescope") // telescope depends on plenary
		require.NoError(t, err)

		assert.Equal(t, []string{"telescope"}, sortedIDs(g.nodes["plenary"].dependents))
		assert.Empty(t, g.nodes["telescope"].dependents)
	})

	t.Run("error cases", func(t *testing.T) {
		g := New()
		g.AddNode("a")

		err := g.AddEdge("dne", "a")
		assert.ErrorContains(t, err, "source node not found")

		err = g.AddEdge("a", "dne")
		assert.ErrorContains(t, err, "destination node not found")
	})
}

func TestDetectCycles(t *testing.T) {
	t.Run("empty graph has no cycles", func(t *testing.T) {
		g := New()
		assert.NoError(t, g.DetectCycles())
	})

	t.Run("graph with nodes but no edges has no cycles", func(t *testing.T) {
		g := New()
		g.AddNode("a")
		g.AddNode("b")
		g.AddNode("c")
		assert.NoError(t, g.DetectCycles())
	})

	t.Run("valid dag has no cycles", func(t *testing.T) {
		g := New()
		for _, id := range []string{"a", "b", "c", "d"} {
			g.AddNode(id)
		}
		require.NoError(t, g.AddEdge("a", "b"))
		require.NoError(t, g.AddEdge("b", "c"))
		require.NoError(t, g.AddEdge("a", "c")) // Transitive edge
		require.NoError(t, g.AddEdge("c", "d"))
		assert.NoError(t, g.DetectCycles())
	})

	testCases := []struct {
		name  string
		nodes []string
		edges [][2]string
		want  []string
	}{
		{
			name:  "self dependency",
			nodes: []string{"a"},
			edges: [][2]string{{"a", "a"}},
			want:  []string{"a", "a"},
		},
		{
			name:  "simple direct cycle",
			nodes: []string{"a", "b"},
			edges: [][2]string{{"a", "b"}, {"b", "a"}},
			want:  []string{"a", "b", "a"},
		},
		{
			name:  "longer cycle",
			nodes: []string{"a", "b", "c", "d"},
			edges: [][2]string{{"a", "b"}, {"b", "c"}, {"c", "d"}, {"d", "a"}},
			want:  []string{"a", "b", "c", "d", "a"},
		},
		{
			name:  "cycle in a disjoint component",
			nodes: []string{"a", "b", "x", "y", "z"},
			edges: [][2]string{{"a", "b"}, {"x", "y"}, {"y", "z"}, {"z", "y"}},
			want:  []string{"y", "z", "y"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			g := New()
			for _, id := range tc.nodes {
				g.AddNode(id)
			}
			for _, e := range tc.edges {
				require.NoError(t, g.AddEdge(e[0], e[1]))
			}

			err := g.DetectCycles()

			var cycle *CycleError
			require.True(t, errors.As(err, &cycle), "expected a CycleError, got %v", err)
			assert.Equal(t, tc.want, cycle.Path)
			assert.ErrorContains(t, err, "dependency cycle")
		})
	}
}
