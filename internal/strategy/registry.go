package strategy

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

var (
	ErrStrategyExists  = errors.New("strategy already registered")
	ErrUnknownStrategy = errors.New("unknown strategy")
)

// Factory builds a fresh strategy instance for one colony.
type Factory func() Strategy

var strategyRegistry = struct {
	mu sync.RWMutex
	m  map[string]Factory
}{
	m: builtinFactories(),
}

func builtinFactories() map[string]Factory {
	return map[string]Factory{
		KindRandom.String():          func() Strategy { return Random{} },
		KindAlwaysCooperate.String(): func() Strategy { return AlwaysCooperate{} },
		KindAlwaysDefect.String():    func() Strategy { return AlwaysDefect{} },
		KindStatistical.String():     func() Strategy { return Statistical{} },
		KindAlternator.String():      func() Strategy { return Alternator{} },
		KindMirrorOpponent.String():  func() Strategy { return MirrorOpponent{} },
		KindIntrospective.String():   func() Strategy { return Introspective{} },
	}
}

// Register adds a named strategy factory. Built-in names are taken.
func Register(name string, factory Factory) error {
	if name == "" {
		return errors.New("strategy name is required")
	}
	if factory == nil {
		return errors.New("strategy factory is required")
	}

	strategyRegistry.mu.Lock()
	defer strategyRegistry.mu.Unlock()

	if _, exists := strategyRegistry.m[name]; exists {
		return fmt.Errorf("%w: %s", ErrStrategyExists, name)
	}
	strategyRegistry.m[name] = factory
	return nil
}

// Resolve instantiates the strategy registered under name.
func Resolve(name string) (Strategy, error) {
	strategyRegistry.mu.RLock()
	factory, ok := strategyRegistry.m[name]
	strategyRegistry.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownStrategy, name)
	}
	s := factory()
	if s == nil {
		return nil, fmt.Errorf("%w: factory for %s returned nil", ErrUnknownStrategy, name)
	}
	return s, nil
}

func List() []string {
	strategyRegistry.mu.RLock()
	defer strategyRegistry.mu.RUnlock()

	names := make([]string, 0, len(strategyRegistry.m))
	for name := range strategyRegistry.m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func resetRegistryForTests() {
	strategyRegistry.mu.Lock()
	defer strategyRegistry.mu.Unlock()
	strategyRegistry.m = builtinFactories()
}
