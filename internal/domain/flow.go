package domain

import "time"

// FlowState es el estado actual de una sesion de creacion de personaje.
type FlowState string

const (
	StateIntake         FlowState = "intake"
	StateIdentify       FlowState = "identify"
	StateEstimating     FlowState = "estimating"
	StateReviewAge      FlowState = "review_age"
	StateReviewMeasures FlowState = "review_measures"
	StateConfirm        FlowState = "confirm"
	StateRendering      FlowState = "rendering"
	StateComplete       FlowState = "complete"
	StateFailed         FlowState = "failed"
)

// Terminal indica si el estado no admite mas transiciones automaticas.
func (s FlowState) Terminal() bool {
	return s == StateComplete
}

// FlowSession es el agregado mutable de un flujo. Lo posee en exclusiva el
// controlador de flujo: nunca se persiste a mitad de camino; solo una sesion
// en Complete (con Artifact) es elegible para la galeria.
type FlowSession struct {
	ID          string              `json:"id"`
	State       FlowState           `json:"state"`
	Attributes  CharacterAttributes `json:"attributes"`
	Personality *PersonalityProfile `json:"personality,omitempty"`
	Style       CartoonStyle        `json:"style"`
	Artifact    *RenderArtifact     `json:"artifact,omitempty"`
	LastError   string              `json:"last_error,omitempty"`
	Photo       []byte              `json:"-"`
	PhotoName   string              `json:"-"`
	CreatedAt   time.Time           `json:"created_at"`
}
