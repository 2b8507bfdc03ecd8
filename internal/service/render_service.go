package service

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"toonify/internal/domain"
	"toonify/internal/render"
)

// RenderRateLimiter limita cuantos renders admite una sesion por ventana.
// Los renders cuestan dinero; el limite es proteccion, no logica de flujo.
type RenderRateLimiter interface {
	Allow(key string) bool
}

// RenderService orquesta la generacion remota de la caricatura. En fallo
// devuelve un RenderError tipado y ninguna imagen sustituta: el caller debe
// mostrar el fallo y ofrecer retry.
type RenderService struct {
	client  render.Client
	apiKey  string
	limiter RenderRateLimiter
	prompts CartoonPromptBuilder
	logger  *zap.Logger
}

func NewRenderService(client render.Client, apiKey string, limiter RenderRateLimiter, logger *zap.Logger) *RenderService {
	return &RenderService{
		client:  client,
		apiKey:  apiKey,
		limiter: limiter,
		logger:  logger,
	}
}

// Render valida precondiciones, llama al proveedor y arma el artefacto con
// costo y tiempo de procesamiento.
func (s *RenderService) Render(
	ctx context.Context,
	sessionID string,
	photo []byte,
	attrs domain.CharacterAttributes,
	personality domain.PersonalityProfile,
	style domain.CartoonStyle,
) (domain.RenderArtifact, error) {
	if len(photo) == 0 {
		return domain.RenderArtifact{}, &ValidationError{Field: "photo", Message: "photo is required"}
	}
	if strings.TrimSpace(attrs.Name) == "" {
		return domain.RenderArtifact{}, &ValidationError{Field: "name", Message: "name is required"}
	}
	if strings.TrimSpace(s.apiKey) == "" {
		return domain.RenderArtifact{}, &RenderError{Reason: RenderUnauthenticated}
	}
	if s.limiter != nil && !s.limiter.Allow(sessionID) {
		return domain.RenderArtifact{}, &RenderError{Reason: RenderRateLimited}
	}

	prompt := s.prompts.BuildRenderPrompt(attrs, personality, style)

	start := time.Now()
	result, err := s.client.Generate(ctx, photo, prompt, style)
	elapsed := time.Since(start)
	if err != nil {
		s.logger.Warn("render failed",
			zap.String("session_id", sessionID),
			zap.Duration("elapsed", elapsed),
			zap.Error(err),
		)
		return domain.RenderArtifact{}, &RenderError{Reason: RenderGeneration, Err: err}
	}

	artifact := domain.RenderArtifact{
		ImageURL:         result.ImageURL,
		Cost:             render.CostFor(result.Model),
		ModelUsed:        result.Model,
		ProcessingTimeMs: elapsed.Milliseconds(),
	}
	s.logger.Info("render completed",
		zap.String("session_id", sessionID),
		zap.String("model", artifact.ModelUsed),
		zap.Float64("cost", artifact.Cost),
		zap.Int64("processing_ms", artifact.ProcessingTimeMs),
	)
	return artifact, nil
}
