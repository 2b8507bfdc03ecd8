package domain

import (
	"time"

	pgvector "github.com/pgvector/pgvector-go"
)

// Limites de los atributos editables por el usuario.
const (
	AgeMin    = 18
	AgeMax    = 80
	HeightMin = 120
	HeightMax = 220
	WeightMin = 40
	WeightMax = 150
)

// Valores por defecto cuando la estimacion falla (fallback sancionado).
const (
	DefaultAge    = 25
	DefaultHeight = 170
	DefaultWeight = 70
)

// ClampAge acota la edad al rango editable.
func ClampAge(age int) int {
	return clampInt(age, AgeMin, AgeMax)
}

// ClampHeight acota la estatura en cm.
func ClampHeight(height int) int {
	return clampInt(height, HeightMin, HeightMax)
}

// ClampWeight acota el peso en kg.
func ClampWeight(weight int) int {
	return clampInt(weight, WeightMin, WeightMax)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// CharacterAttributes son los atributos visibles y ajustables por el usuario.
// OriginalRaw/OriginalRich son el snapshot inmutable del que partieron los
// sliders: se fijan una sola vez por foto y no vuelven a mutar.
type CharacterAttributes struct {
	Name         string        `json:"name"`
	Age          int           `json:"age"`
	Height       int           `json:"height"`
	Weight       int           `json:"weight"`
	OriginalRaw  RawEstimate   `json:"original_raw"`
	OriginalRich *RichEstimate `json:"original_rich,omitempty"`
}

// PersonalityProfile es derivado, no editable. Scores acotados a [0,100].
type PersonalityProfile struct {
	Energy          int         `json:"energy"`
	Friendliness    int         `json:"friendliness"`
	Creativity      int         `json:"creativity"`
	Confidence      int         `json:"confidence"`
	DominantStyle   StyleName   `json:"dominant_style"`
	DominantEmotion EmotionName `json:"dominant_emotion"`
	Accessories     []string    `json:"accessories"`
	SpecialFeatures []string    `json:"special_features"`
}

// Vector devuelve los cuatro scores como embedding para busqueda por similitud.
func (p PersonalityProfile) Vector() pgvector.Vector {
	return pgvector.NewVector([]float32{
		float32(p.Energy),
		float32(p.Friendliness),
		float32(p.Creativity),
		float32(p.Confidence),
	})
}

// CartoonStyle es el token de estilo que acepta el endpoint de render.
type CartoonStyle string

const (
	CartoonAnime      CartoonStyle = "anime"
	CartoonComic      CartoonStyle = "comic"
	CartoonPixar      CartoonStyle = "3d"
	CartoonWatercolor CartoonStyle = "watercolor"
	CartoonSketch     CartoonStyle = "sketch"
)

// RenderArtifact es el resultado exitoso de un render remoto.
type RenderArtifact struct {
	ImageURL         string  `json:"image_url"` // data URI o URL remota
	Cost             float64 `json:"cost"`      // USD, >= 0
	ModelUsed        string  `json:"model_used"`
	ProcessingTimeMs int64   `json:"processing_time_ms"`
}

// GalleryRecord es un personaje terminado, elegible para persistencia.
// Solo sesiones con RenderArtifact llegan aqui.
type GalleryRecord struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Age         int                `json:"age"`
	Height      int                `json:"height"`
	Weight      int                `json:"weight"`
	SourcePhoto string             `json:"source_photo,omitempty"` // base64, opcional
	ImageURL    string             `json:"image_url"`
	Cost        float64            `json:"cost"`
	ModelUsed   string             `json:"model_used"`
	Style       CartoonStyle       `json:"style"`
	Personality PersonalityProfile `json:"personality"`
	Embedding   pgvector.Vector    `json:"-"`
	CreatedAt   time.Time          `json:"created_at"`
}
