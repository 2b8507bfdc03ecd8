package llm

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Errores del transporte de vision: el caller decide la politica de fallback.
var (
	ErrTransport       = errors.New("vision transport failure")
	ErrInvalidResponse = errors.New("vision invalid response")
)

// LabelScore es una etiqueta de clasificacion con su confianza.
type LabelScore struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
}

// VisionClient clasifica una foto en etiquetas `{label, confidence}`.
type VisionClient interface {
	Classify(ctx context.Context, image []byte) ([]LabelScore, error)
}

type logger interface {
	Printf(format string, v ...interface{})
}

// HTTPClient implementa VisionClient contra una API OpenAI-compatible con
// soporte de vision. No reintenta ni cae a heuristica local: falla explicito.
type HTTPClient struct {
	baseURL string
	apiKey  string
	model   string
	client  *http.Client
	logger  logger
}

// NewHTTPClient construye el cliente HTTP apuntando a chat/completions.
func NewHTTPClient(baseURL, apiKey, model string, log any) *HTTPClient {
	l, _ := log.(logger)
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		model:   model,
		client:  &http.Client{Timeout: 60 * time.Second},
		logger:  l,
	}
}

const classifyInstruction = `Analiza la foto de una persona y devuelve SOLO un JSON:
{"labels": [{"label": "person", "confidence": 0.98}, ...]}

Usa este vocabulario cuando aplique: person, face, smile, laugh, serious, frown,
surprised, calm, young, adult, elderly, glasses, beard, long_hair, short_hair,
curly_hair, bald, formal_wear, casual_wear, sport_wear, artistic, colorful,
round_face, square_face, long_face, heart_face, oval_face.
confidence es un numero en [0,1]. Sin texto adicional.`

func (c *HTTPClient) Classify(ctx context.Context, image []byte) ([]LabelScore, error) {
	encoded := base64.StdEncoding.EncodeToString(image)
	reqBody := visionRequest{
		Model: c.model,
		Messages: []visionMessage{
			{
				Role: "user",
				Content: []visionContent{
					{Type: "text", Text: classifyInstruction},
					{Type: "image_url", ImageURL: &imageURL{URL: "data:image/jpeg;base64," + encoded}},
				},
			},
		},
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", ErrTransport, err)
	}

	if resp.StatusCode >= 400 {
		if c.logger != nil {
			c.logger.Printf("vision error status %d: %s", resp.StatusCode, string(respBody))
		}
		return nil, fmt.Errorf("%w: status=%d", ErrTransport, resp.StatusCode)
	}

	var cr chatResponse
	if err := json.Unmarshal(respBody, &cr); err != nil {
		return nil, fmt.Errorf("%w: unmarshal: %v", ErrInvalidResponse, err)
	}
	if cr.Error != nil {
		return nil, fmt.Errorf("%w: api error: %s", ErrTransport, cr.Error.Message)
	}
	if len(cr.Choices) == 0 || cr.Choices[0].Message.Content == "" {
		return nil, fmt.Errorf("%w: empty response", ErrInvalidResponse)
	}

	return parseLabels(cr.Choices[0].Message.Content)
}

// parseLabels tolera JSON envuelto en fences o con texto alrededor.
func parseLabels(raw string) ([]LabelScore, error) {
	cleaned := cleanJSONResponse(raw)
	jsonObj := extractFirstJSONObject(cleaned)
	if jsonObj == "" {
		jsonObj = extractFirstJSONObject(raw)
	}
	if jsonObj == "" {
		return nil, fmt.Errorf("%w: no JSON object found", ErrInvalidResponse)
	}

	var parsed struct {
		Labels []LabelScore `json:"labels"`
	}
	if err := json.Unmarshal([]byte(jsonObj), &parsed); err != nil {
		return nil, fmt.Errorf("%w: parse labels: %v", ErrInvalidResponse, err)
	}
	if len(parsed.Labels) == 0 {
		return nil, fmt.Errorf("%w: empty label list", ErrInvalidResponse)
	}
	return parsed.Labels, nil
}

type visionRequest struct {
	Model    string          `json:"model"`
	Messages []visionMessage `json:"messages"`
}

type visionMessage struct {
	Role    string          `json:"role"`
	Content []visionContent `json:"content"`
}

type visionContent struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *imageURL `json:"image_url,omitempty"`
}

type imageURL struct {
	URL string `json:"url"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}
