package commands

import (
	"fmt"
	"sort"
	"sync"
)

// Registry holds registered commands.
type Registry struct {
	mu      sync.RWMutex
	cmds    map[string]Command
	aliases map[string]string // alias -> primary name
}

// NewRegistry creates a new command registry.
func NewRegistry() *Registry {
	return &Registry{
		cmds:    make(map[string]Command),
		aliases: make(map[string]string),
	}
}

// Register adds a command under its name and aliases.
// A name or alias may not shadow any existing name or alias.
func (r *Registry) Register(c Command) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, n := range append([]string{c.Name()}, c.Aliases()...) {
		if r.taken(n) {
			return fmt.Errorf("command name already registered: %s", n)
		}
	}

	r.cmds[c.Name()] = c
	for _, a := range c.Aliases() {
		r.aliases[a] = c.Name()
	}
	return nil
}

func (r *Registry) taken(n string) bool {
	_, isCmd := r.cmds[n]
	_, isAlias := r.aliases[n]
	return isCmd || isAlias
}

// Find looks up a command by name or alias.
func (r *Registry) Find(name string) (Command, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if primary, ok := r.aliases[name]; ok {
		name = primary
	}
	cmd, ok := r.cmds[name]
	return cmd, ok
}

// All returns all commands sorted by name.
func (r *Registry) All() []Command {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]Command, 0, len(r.cmds))
	for _, cmd := range r.cmds {
		result = append(result, cmd)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Name() < result[j].Name()
	})
	return result
}

// DefaultRegistry holds every command compiled into the binary.
var DefaultRegistry = NewRegistry()

// Register adds a command to the default registry and panics on conflict.
func Register(c Command) {
	if err := DefaultRegistry.Register(c); err != nil {
		panic(err)
	}
}
