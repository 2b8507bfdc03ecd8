package llm

import "context"

// MockClient permite tests sin llamar a un servicio de vision real.
type MockClient struct {
	Labels []LabelScore
	Err    error
	Calls  int
}

func (m *MockClient) Classify(ctx context.Context, image []byte) ([]LabelScore, error) {
	m.Calls++
	return m.Labels, m.Err
}
