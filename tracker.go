package partwire

import (
	"fmt"
	"strings"

	"github.com/partwire/partwire/set"
)

// Tracker records the chain of contracts currently being produced, so a
// factory that transitively requests its own contract is reported as a cycle
// instead of recursing forever.
type Tracker struct {
	visited set.Set[Contract]
	stack   []Contract
}

func NewTracker() *Tracker {
	return &Tracker{
		visited: set.New[Contract](),
		stack:   make([]Contract, 0),
	}
}

func (tracker *Tracker) Push(c Contract) error {
	if tracker.visited.Contains(c) {
		cycle := []Contract{c}
		for i := len(tracker.stack) - 1; i >= 0; i-- {
			cycle = append(cycle, tracker.stack[i])
			if tracker.stack[i] == c {
				break
			}
		}

		return fmt.Errorf("cycle found:\n%s", formatCycle(cycle))
	}
	tracker.visited.Add(c)
	tracker.stack = append(tracker.stack, c)

	return nil
}

func (tracker *Tracker) Pop() Contract {
	if len(tracker.stack) == 0 {
		panic("tracker: pop from empty stack")
	}
	c := tracker.stack[len(tracker.stack)-1]
	tracker.stack = tracker.stack[:len(tracker.stack)-1]
	tracker.visited.Remove(c)

	return c
}

func formatCycle(cycle []Contract) string {
	var b strings.Builder
	for i := len(cycle) - 1; i >= 0; i-- {
		depth := len(cycle) - 1 - i
		b.WriteString(strings.Repeat("\t", depth))
		if depth > 0 {
			b.WriteString(" -> ")
		}
		b.WriteString(cycle[i].String())
		b.WriteString("\n")
	}
	return b.String()
}
