package fibonacci

import (
	"fmt"
	"sort"
	"sync"
)

// CalculatorFactory creates and caches Calculator instances by name.
//
// It is not mockable with mockgen because Register takes the unexported
// coreCalculator type; tests use DefaultFactory directly.
type CalculatorFactory interface {
	// Create returns a fresh, uncached Calculator.
	Create(name string) (Calculator, error)
	// Get returns the cached Calculator for name, creating it on first use.
	Get(name string) (Calculator, error)
	// List returns the registered names, sorted.
	List() []string
	// Register adds or replaces a calculator type.
	Register(name string, creator func() coreCalculator) error
	// GetAll returns every registered calculator.
	GetAll() map[string]Calculator
}

// DefaultFactory is the thread-safe CalculatorFactory implementation.
type DefaultFactory struct {
	mu          sync.RWMutex
	creators    map[string]func() coreCalculator
	calculators map[string]Calculator
}

// NewDefaultFactory returns a factory with "linear", "matrix" and "hybrid"
// registered.
func NewDefaultFactory() *DefaultFactory {
	f := &DefaultFactory{
		creators:    make(map[string]func() coreCalculator),
		calculators: make(map[string]Calculator),
	}

	_ = f.Register(AlgorithmLinear.String(), func() coreCalculator { return &LinearCalculator{} })
	_ = f.Register(AlgorithmMatrix.String(), func() coreCalculator { return &MatrixCalculator{} })
	_ = f.Register(AlgorithmHybrid.String(), func() coreCalculator { return &HybridCalculator{} })

	return f
}

// Register adds a calculator type. An existing registration under the same
// name is replaced and its cached instance dropped.
func (f *DefaultFactory) Register(name string, creator func() coreCalculator) error {
	if name == "" {
		return fmt.Errorf("register calculator: empty name: %w", ErrInvalidArgument)
	}
	if creator == nil {
		return fmt.Errorf("register calculator %q: nil creator: %w", name, ErrInvalidArgument)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	f.creators[name] = creator
	delete(f.calculators, name)
	return nil
}

// Create returns a new Calculator without caching it.
func (f *DefaultFactory) Create(name string) (Calculator, error) {
	f.mu.RLock()
	creator, ok := f.creators[name]
	f.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("calculator %q: %w", name, ErrUnknownAlgorithm)
	}
	return NewCalculator(creator()), nil
}

// Get returns the cached Calculator for name.
func (f *DefaultFactory) Get(name string) (Calculator, error) {
	f.mu.RLock()
	if calc, exists := f.calculators[name]; exists {
		f.mu.RUnlock()
		return calc, nil
	}
	f.mu.RUnlock()

	f.mu.Lock()
	defer f.mu.Unlock()

	// Double-check after acquiring write lock
	if calc, exists := f.calculators[name]; exists {
		return calc, nil
	}

	creator, ok := f.creators[name]
	if !ok {
		return nil, fmt.Errorf("calculator %q: %w", name, ErrUnknownAlgorithm)
	}

	calc := NewCalculator(creator())
	f.calculators[name] = calc
	return calc, nil
}

// List returns the registered names in alphabetical order.
func (f *DefaultFactory) List() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()

	names := make([]string, 0, len(f.creators))
	for name := range f.creators {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GetAll instantiates any missing calculator and returns a copy of the cache.
func (f *DefaultFactory) GetAll() map[string]Calculator {
	f.mu.Lock()
	defer f.mu.Unlock()

	for name, creator := range f.creators {
		if _, exists := f.calculators[name]; !exists {
			f.calculators[name] = NewCalculator(creator())
		}
	}

	result := make(map[string]Calculator, len(f.calculators))
	for name, calc := range f.calculators {
		result[name] = calc
	}
	return result
}

// MustGet is like Get but panics when name is not registered.
func (f *DefaultFactory) MustGet(name string) Calculator {
	calc, err := f.Get(name)
	if err != nil {
		panic(fmt.Sprintf("fibonacci: required calculator not found: %s", name))
	}
	return calc
}

// Has reports whether name is registered.
func (f *DefaultFactory) Has(name string) bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	_, exists := f.creators[name]
	return exists
}

var globalFactory = NewDefaultFactory()

// GlobalFactory returns the process-wide factory.
func GlobalFactory() *DefaultFactory {
	return globalFactory
}

// RegisterCalculator registers a calculator in the global factory.
func RegisterCalculator(name string, creator func() coreCalculator) error {
	return globalFactory.Register(name, creator)
}
