package testutil

import (
	"context"

	"github.com/arthur-debert/gsmake/pkg/execution"
	"github.com/stretchr/testify/mock"
)

// MockRunner is a testify mock of execution.Runner
type MockRunner struct {
	mock.Mock
}

var _ execution.Runner = (*MockRunner)(nil)

// Run records the call and returns the configured result
func (m *MockRunner) Run(ctx context.Context, cmd execution.Command) (execution.Result, error) {
	args := m.Called(ctx, cmd)
	if fn, ok := args.Get(0).(func(execution.Command) execution.Result); ok {
		return fn(cmd), args.Error(1)
	}
	res, _ := args.Get(0).(execution.Result)
	return res, args.Error(1)
}

// LookPath records the call and returns the configured path
func (m *MockRunner) LookPath(name string) (string, error) {
	args := m.Called(name)
	if fn, ok := args.Get(0).(func(string) string); ok {
		return fn(name), args.Error(1)
	}
	return args.String(0), args.Error(1)
}

// OnLookPathAll makes every executable resolve to /usr/bin/<name>
func (m *MockRunner) OnLookPathAll() *mock.Call {
	return m.On("LookPath", mock.AnythingOfType("string")).
		Return(func(name string) string { return "/usr/bin/" + name }, nil)
}

// CommandNamed matches a Command by executable name
func CommandNamed(name string) interface{} {
	return mock.MatchedBy(func(c execution.Command) bool { return c.Name == name })
}
