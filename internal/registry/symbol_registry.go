package registry

import (
	"sort"
	"sync"

	"github.com/toyz/jenny/internal/errors"
	"github.com/toyz/jenny/internal/models"
)

// SymbolEntry records which function first claimed an exported symbol
type SymbolEntry struct {
	Symbol   string
	Function string
	Location models.SourceLocation
}

// SymbolRegistry tracks exported symbols across one generation run. Without
// signature suffixes two functions can mangle to the same name; the second
// registration is rejected.
type SymbolRegistry struct {
	symbols map[string]SymbolEntry
	mu      sync.RWMutex
}

// NewSymbolRegistry creates an empty symbol registry
func NewSymbolRegistry() *SymbolRegistry {
	return &SymbolRegistry{
		symbols: make(map[string]SymbolEntry),
	}
}

// Register claims the binding's symbol or fails with a naming collision
func (r *SymbolRegistry) Register(binding *models.GeneratedBinding) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, exists := r.symbols[binding.Symbol]; exists {
		return errors.NewNamingCollisionError(
			binding.Symbol,
			binding.Function,
			existing.Location,
			existing.Function,
		).WithLocation(binding.Location)
	}

	r.symbols[binding.Symbol] = SymbolEntry{
		Symbol:   binding.Symbol,
		Function: binding.Function,
		Location: binding.Location,
	}
	return nil
}

// Symbols returns all registered symbols in sorted order
func (r *SymbolRegistry) Symbols() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	symbols := make([]string, 0, len(r.symbols))
	for symbol := range r.symbols {
		symbols = append(symbols, symbol)
	}
	sort.Strings(symbols)
	return symbols
}

// Len returns the number of registered symbols
func (r *SymbolRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.symbols)
}

