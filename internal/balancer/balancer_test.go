package balancer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/workstream-api/internal/models"
)

func pool(loads ...int) []Candidate {
	names := []string{"Aniket Baral", "Magesh", "Tanishka Singh", "Rishi Raj"}
	out := make([]Candidate, len(loads))
	for i, l := range loads {
		out[i] = Candidate{
			Person: models.Person{ID: string(rune('A' + i)), Name: names[i]},
			Load:   l,
		}
	}
	return out
}

func requests(n int) []Request {
	out := make([]Request, n)
	for i := range out {
		out[i] = Request{Title: "task", ProjectName: "Atlas"}
	}
	return out
}

func assignees(decisions []Decision) []string {
	out := make([]string, len(decisions))
	for i, d := range decisions {
		if d.Assignee != nil {
			out[i] = d.Assignee.ID
		}
	}
	return out
}

func TestAssign_LeastLoadedFirst(t *testing.T) {
	b := New(pool(30, 0, 15), DefaultOptions())

	decisions := b.Assign(requests(4))

	require.Len(t, decisions, 4)
	// B and C tie at 15 after the first pick; B is earlier in the pool.
	assert.Equal(t, []string{"B", "B", "C", "A"}, assignees(decisions))
	assert.Equal(t, map[string]int{"A": 45, "B": 30, "C": 30}, b.Loads())
}

func TestAssign_TiesBrokenByPoolOrder(t *testing.T) {
	b := New(pool(0, 0, 0), DefaultOptions())

	decisions := b.Assign(requests(3))

	assert.Equal(t, []string{"A", "B", "C"}, assignees(decisions))
	for _, d := range decisions {
		assert.Equal(t, DefaultIncrement, d.LoadAfter)
	}
}

func TestAssign_Deterministic(t *testing.T) {
	first := New(pool(10, 40, 10, 0), DefaultOptions()).Assign(requests(10))
	second := New(pool(10, 40, 10, 0), DefaultOptions()).Assign(requests(10))
	assert.Equal(t, first, second)
}

func TestAssign_Saturation(t *testing.T) {
	b := New(pool(100, 120), DefaultOptions())

	decisions := b.Assign(requests(3))

	require.Len(t, decisions, 3)
	for i, d := range decisions {
		assert.False(t, d.Assigned())
		assert.Equal(t, i, d.Index)
	}
	assert.Equal(t, map[string]int{"A": 100, "B": 120}, b.Loads())
}

func TestAssign_FillsUpThenStops(t *testing.T) {
	b := New(pool(70), Options{Ceiling: 100, Increment: 15})

	decisions := b.Assign(requests(4))

	// 70 -> 85 -> 100, then the ceiling is reached.
	assert.Equal(t, []string{"A", "A", "", ""}, assignees(decisions))
	assert.Equal(t, 100, b.Loads()["A"])
}

func TestAssign_EdgeCases(t *testing.T) {
	t.Run("empty task list", func(t *testing.T) {
		assert.Empty(t, New(pool(0), DefaultOptions()).Assign(nil))
	})

	t.Run("empty pool", func(t *testing.T) {
		decisions := New(nil, DefaultOptions()).Assign(requests(2))
		require.Len(t, decisions, 2)
		assert.False(t, decisions[0].Assigned())
		assert.False(t, decisions[1].Assigned())
	})
}

func TestNew_CopiesPool(t *testing.T) {
	p := pool(0, 0)
	b := New(p, DefaultOptions())
	b.Assign(requests(1))
	assert.Equal(t, 0, p[0].Load)
}

func TestOptions(t *testing.T) {
	assert.Equal(t, Options{Ceiling: 100, Increment: 15}, Options{}.withDefaults())
	assert.Equal(t, 45, DefaultOptions().LoadForActiveTasks(3))
	assert.Equal(t, 20, Options{Increment: 10}.LoadForActiveTasks(2))
}
