package colony

import (
	"fmt"

	"github.com/google/uuid"

	"colonies/internal/strategy"
)

// Arena owns every colony of a simulation. Colonies are never removed; a
// tournament evicting a colony only drops it from its own alive set.
//
// Arena is not safe for concurrent mutation. Spawn everything before
// running tournaments.
type Arena struct {
	colonies []*Colony
}

func NewArena() *Arena {
	return &Arena{}
}

// Add creates a colony driven by s.
func (a *Arena) Add(label string, s strategy.Strategy) (*Colony, error) {
	if s == nil {
		return nil, ErrNilStrategy
	}
	c := &Colony{
		ID:       uuid.New(),
		Label:    label,
		arena:    a,
		index:    len(a.colonies),
		strategy: s,
		opponent: noOpponent,
	}
	a.colonies = append(a.colonies, c)
	return c, nil
}

// Spawn creates one colony per registered strategy name, labelled with the
// name and its position.
func (a *Arena) Spawn(names ...string) ([]*Colony, error) {
	spawned := make([]*Colony, 0, len(names))
	for i, name := range names {
		s, err := strategy.Resolve(name)
		if err != nil {
			return nil, fmt.Errorf("spawn colony %d: %w", i, err)
		}
		c, err := a.Add(fmt.Sprintf("%s-%d", name, i), s)
		if err != nil {
			return nil, fmt.Errorf("spawn colony %d: %w", i, err)
		}
		spawned = append(spawned, c)
	}
	return spawned, nil
}

func (a *Arena) Get(index int) (*Colony, bool) {
	if index < 0 || index >= len(a.colonies) {
		return nil, false
	}
	return a.colonies[index], true
}

func (a *Arena) Len() int {
	return len(a.colonies)
}

// Colonies returns the colonies in creation order.
func (a *Arena) Colonies() []*Colony {
	out := make([]*Colony, len(a.colonies))
	copy(out, a.colonies)
	return out
}

// Lookup finds a colony by identity.
func (a *Arena) Lookup(id uuid.UUID) (*Colony, bool) {
	for _, c := range a.colonies {
		if c.ID == id {
			return c, true
		}
	}
	return nil, false
}
