package render

import (
	"context"

	"toonify/internal/domain"
)

// MockClient permite tests sin llamar al proveedor de imagenes real.
type MockClient struct {
	URL   string
	Model string
	Err   error
	Calls int
}

func (m *MockClient) Generate(ctx context.Context, photo []byte, prompt string, style domain.CartoonStyle) (Result, error) {
	m.Calls++
	if m.Err != nil {
		return Result{}, m.Err
	}
	model := m.Model
	if model == "" {
		model = "mock-image-model"
	}
	return Result{ImageURL: m.URL, Model: model}, nil
}
