package search

import "context"

// MockProvider returns canned results, for tests and offline runs.
type MockProvider struct {
	Results map[string][]Result
	Err     error
	Queries []string
}

// GetName returns the provider identifier.
func (m *MockProvider) GetName() string {
	return "mock"
}

// Search records the query and returns the configured results for it.
func (m *MockProvider) Search(_ context.Context, query string, _ Config) ([]Result, error) {
	m.Queries = append(m.Queries, query)
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Results[query], nil
}
