package cmd

import (
	"context"
	"fmt"
	"io"
	"slices"
	"sync"
)

// Manager holds the registered commands.
type Manager struct {
	mu       sync.RWMutex
	commands map[string]Command
}

func NewManager() *Manager {
	return &Manager{
		commands: make(map[string]Command),
	}
}

func (m *Manager) Register(command Command) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	name := command.Name()
	if _, exists := m.commands[name]; exists {
		return fmt.Errorf("aio: command '%s' already registered", name)
	}
	m.commands[name] = command
	return nil
}

func (m *Manager) Get(name string) (Command, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	command, ok := m.commands[name]
	return command, ok
}

// Commands returns all registered commands ordered by name.
func (m *Manager) Commands() []Command {
	m.mu.RLock()
	defer m.mu.RUnlock()

	commands := make([]Command, 0, len(m.commands))
	for _, command := range m.commands {
		commands = append(commands, command)
	}
	slices.SortFunc(commands, func(a, b Command) int {
		if a.Name() < b.Name() {
			return -1
		}
		if a.Name() > b.Name() {
			return 1
		}
		return 0
	})
	return commands
}

// Execute parses raw for the named command and runs it.
func (m *Manager) Execute(ctx context.Context, rt Runtime, name string, raw []string, writer io.Writer) (int, error) {
	command, ok := m.Get(name)
	if !ok {
		return 127, fmt.Errorf("aio: unknown command '%s'", name)
	}

	args, err := NewParser(command.GetFlags()).Parse(raw)
	if err != nil {
		return 2, fmt.Errorf("%s: %w", name, err)
	}

	return command.Execute(ctx, rt, args, writer)
}
