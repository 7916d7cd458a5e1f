package git

import (
	"context"
)

// MockCommandExecutor is a simple mock of the CommandExecutor interface
// that doesn't actually execute anything but just records calls.
type MockCommandExecutor struct {
	Output   string
	Err      error
	Commands [][]string
	OutputFn func(args []string) (string, error)
}

// NewMockCommandExecutor creates a new mock executor
func NewMockCommandExecutor() *MockCommandExecutor {
	return &MockCommandExecutor{
		Commands: make([][]string, 0),
	}
}

// ExecuteWithContext implements the CommandExecutor interface
func (m *MockCommandExecutor) ExecuteWithContext(ctx context.Context, name string, args ...string) error {
	_, err := m.ExecuteWithContextAndOutput(ctx, name, args...)
	return err
}

// ExecuteWithContextAndOutput implements the CommandExecutor interface
func (m *MockCommandExecutor) ExecuteWithContextAndOutput(_ context.Context, name string, args ...string) (string, error) {
	call := append([]string{name}, args...)
	m.Commands = append(m.Commands, call)

	if m.OutputFn != nil {
		return m.OutputFn(args)
	}
	return m.Output, m.Err
}

// LastCommand returns the most recent call, or nil.
func (m *MockCommandExecutor) LastCommand() []string {
	if len(m.Commands) == 0 {
		return nil
	}
	return m.Commands[len(m.Commands)-1]
}
