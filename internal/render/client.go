package render

import (
	"context"
	"errors"
	"fmt"

	openai "github.com/sashabaranov/go-openai"

	"toonify/internal/domain"
)

// ErrGenerate indica un fallo del proveedor de imagenes. No hay imagen
// sustituta: el caller debe propagar el fallo.
var ErrGenerate = errors.New("image generation failed")

// Result es la referencia al artefacto generado.
type Result struct {
	ImageURL string // URL remota o data URI base64
	Model    string
}

// Client genera la imagen caricaturizada a partir de la foto y el prompt.
type Client interface {
	Generate(ctx context.Context, photo []byte, prompt string, style domain.CartoonStyle) (Result, error)
}

// Precios fijos por imagen (USD) segun modelo; desconocido cuesta 0.
var modelCosts = map[string]float64{
	openai.CreateImageModelDallE2: 0.02,
	openai.CreateImageModelDallE3: 0.04,
	"gpt-image-1":                 0.04,
}

// CostFor devuelve el costo estimado por imagen del modelo.
func CostFor(model string) float64 {
	return modelCosts[model]
}

// OpenAIClient implementa Client con la API de imagenes OpenAI-compatible.
type OpenAIClient struct {
	client *openai.Client
	model  string
}

// NewOpenAIClient construye el cliente; apiKey es precondicion del caller.
func NewOpenAIClient(baseURL, apiKey, model string) *OpenAIClient {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if model == "" {
		model = openai.CreateImageModelDallE3
	}
	return &OpenAIClient{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}
}

// Generate pide una unica imagen. La foto original no viaja al proveedor:
// el parecido viene de los atributos derivados que ya estan en el prompt.
func (c *OpenAIClient) Generate(ctx context.Context, photo []byte, prompt string, style domain.CartoonStyle) (Result, error) {
	req := openai.ImageRequest{
		Model:          c.model,
		Prompt:         fmt.Sprintf("%s Estilo de render: %s.", prompt, style),
		N:              1,
		Size:           openai.CreateImageSize1024x1024,
		ResponseFormat: openai.CreateImageResponseFormatURL,
	}

	resp, err := c.client.CreateImage(ctx, req)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrGenerate, err)
	}
	if len(resp.Data) == 0 || resp.Data[0].URL == "" {
		return Result{}, fmt.Errorf("%w: empty image response", ErrGenerate)
	}

	return Result{ImageURL: resp.Data[0].URL, Model: c.model}, nil
}
