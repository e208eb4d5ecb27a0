// Package balancer assigns incoming tasks to the least-loaded person in a pool.
//
// The heuristic is greedy and online: tasks are placed one at a time in input order,
// each on the member with the lowest current load still under the ceiling. Given the
// same pool order and task list it always produces the same decisions.
package balancer

import (
	"sort"
	"time"

	"github.com/yukikurage/workstream-api/internal/models"
)

const (
	DefaultCeiling   = 100
	DefaultIncrement = 15
)

// Options are the balancing policy constants.
type Options struct {
	Ceiling   int
	Increment int
}

// DefaultOptions returns the documented defaults.
func DefaultOptions() Options {
	return Options{Ceiling: DefaultCeiling, Increment: DefaultIncrement}
}

func (o Options) withDefaults() Options {
	if o.Ceiling <= 0 {
		o.Ceiling = DefaultCeiling
	}
	if o.Increment <= 0 {
		o.Increment = DefaultIncrement
	}
	return o
}

// Candidate is a pool member with its starting load.
type Candidate struct {
	Person models.Person
	Load   int
}

// Request describes one task waiting for an assignee.
type Request struct {
	Title       string
	Description string
	ProjectName string
	Priority    string
	DueDate     *time.Time
}

// Decision is the outcome for one request. Assignee is nil when nobody had capacity.
type Decision struct {
	Index     int
	Request   Request
	Assignee  *models.Person
	LoadAfter int
}

// Assigned reports whether the request found an assignee.
func (d Decision) Assigned() bool {
	return d.Assignee != nil
}

type member struct {
	person models.Person
	load   int
	order  int
}

// Balancer holds the pool and its running loads. It is not safe for concurrent use.
type Balancer struct {
	opts Options
	pool []member
}

// New creates a balancer over a copy of the pool. Pool order is the tie-breaker
// between members with equal load.
func New(pool []Candidate, opts Options) *Balancer {
	b := &Balancer{
		opts: opts.withDefaults(),
		pool: make([]member, len(pool)),
	}
	for i, c := range pool {
		b.pool[i] = member{person: c.Person, load: c.Load, order: i}
	}
	b.sort()
	return b
}

// LoadForActiveTasks converts an active-task count into load units.
func (o Options) LoadForActiveTasks(count int) int {
	return count * o.withDefaults().Increment
}

// Assign places every request in order and returns one decision per request.
func (b *Balancer) Assign(requests []Request) []Decision {
	decisions := make([]Decision, 0, len(requests))
	for i, req := range requests {
		d := Decision{Index: i, Request: req}

		if m := b.pick(); m != nil {
			m.load += b.opts.Increment
			person := m.person
			d.Assignee = &person
			d.LoadAfter = m.load
			b.sort()
		}
		decisions = append(decisions, d)
	}
	return decisions
}

// Loads returns the current load per person id.
func (b *Balancer) Loads() map[string]int {
	out := make(map[string]int, len(b.pool))
	for _, m := range b.pool {
		out[m.person.ID] = m.load
	}
	return out
}

// pick returns the first member under the ceiling. The pool is sorted, so this is the
// least-loaded eligible member.
func (b *Balancer) pick() *member {
	for i := range b.pool {
		if b.pool[i].load < b.opts.Ceiling {
			return &b.pool[i]
		}
	}
	return nil
}

func (b *Balancer) sort() {
	sort.SliceStable(b.pool, func(i, j int) bool {
		if b.pool[i].load != b.pool[j].load {
			return b.pool[i].load < b.pool[j].load
		}
		return b.pool[i].order < b.pool[j].order
	})
}
