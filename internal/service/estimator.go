package service

import (
	"context"
	"errors"
	"math/rand"
	"strings"
	"sync"

	"go.uber.org/zap"

	"toonify/internal/domain"
	"toonify/internal/llm"
)

// EstimatorService convierte la foto en un RichEstimate via el clasificador
// remoto. Falla explicito (EstimatorError); el fallback a defaults es
// decision del controlador de flujo, nunca de este servicio.
type EstimatorService struct {
	client llm.VisionClient
	apiKey string
	logger *zap.Logger

	// rand.Rand no es seguro para uso concurrente.
	mu  sync.Mutex
	rng *rand.Rand
}

// NewEstimatorService construye el estimador. La semilla del generador es
// inyectable para que los tests fijen los campos sinteticos.
func NewEstimatorService(client llm.VisionClient, apiKey string, seed int64, logger *zap.Logger) *EstimatorService {
	return &EstimatorService{
		client: client,
		apiKey: apiKey,
		logger: logger,
		rng:    rand.New(rand.NewSource(seed)),
	}
}

// Estimate clasifica la foto y mapea las etiquetas al RichEstimate.
// Precondicion dura: sin credencial no se intenta ninguna llamada de red.
func (s *EstimatorService) Estimate(ctx context.Context, photo []byte) (domain.RichEstimate, error) {
	if strings.TrimSpace(s.apiKey) == "" {
		return domain.RichEstimate{}, &EstimatorError{Reason: ReasonUnauthenticated}
	}

	labels, err := s.client.Classify(ctx, photo)
	if err != nil {
		switch {
		case errors.Is(err, llm.ErrInvalidResponse):
			return domain.RichEstimate{}, &EstimatorError{Reason: ReasonInvalidResponse, Err: err}
		default:
			return domain.RichEstimate{}, &EstimatorError{Reason: ReasonTransportFailure, Err: err}
		}
	}

	est := s.mapLabels(labels)
	s.logger.Debug("remote estimate mapped",
		zap.Int("labels", len(labels)),
		zap.Bool("face_detected", est.FaceDetected),
		zap.Float64("confidence", est.Confidence),
	)
	return est, nil
}

// mapLabels aplica la tabla fija etiqueta → estimacion. Todo lo que las
// etiquetas no pueden aportar (landmarks, colores) se genera acotado y se
// registra en SyntheticFields: sintetico, nunca medido.
func (s *EstimatorService) mapLabels(labels []llm.LabelScore) domain.RichEstimate {
	est := domain.RichEstimate{
		RawEstimate: domain.RawEstimate{Age: 30, Gender: domain.GenderUnknown},
	}

	var ageLabel string
	var ageConf float64

	for _, l := range labels {
		conf := clamp01(l.Confidence)
		switch l.Label {
		case "person", "face":
			est.FaceDetected = true
			if conf > est.Confidence {
				est.Confidence = conf
			}
		case "smile":
			est.Emotions.Happy += 60 * conf
		case "laugh":
			est.Emotions.Happy += 80 * conf
			est.Emotions.Surprised += 20 * conf
		case "serious":
			est.Emotions.Neutral += 50 * conf
			est.Emotions.Sad += 20 * conf
		case "frown":
			est.Emotions.Angry += 50 * conf
			est.Emotions.Sad += 30 * conf
		case "surprised":
			est.Emotions.Surprised += 70 * conf
		case "calm":
			est.Emotions.Neutral += 60 * conf
		case "young", "adult", "elderly":
			if conf > ageConf {
				ageLabel, ageConf = l.Label, conf
			}
		case "beard":
			est.Gender = domain.GenderMale
		case "long_hair":
			est.HairStyle = domain.HairLong
		case "short_hair":
			est.HairStyle = domain.HairShort
		case "curly_hair":
			est.HairStyle = domain.HairCurly
		case "bald":
			est.HairStyle = domain.HairBald
		case "formal_wear":
			est.Style.Formal += 80 * conf
		case "casual_wear":
			est.Style.Casual += 70 * conf
		case "sport_wear":
			est.Style.Sporty += 80 * conf
		case "artistic", "colorful":
			est.Style.Artistic += 70 * conf
		case "oval_face":
			est.FaceShape = domain.FaceShapeOval
		case "round_face":
			est.FaceShape = domain.FaceShapeRound
		case "square_face":
			est.FaceShape = domain.FaceShapeSquare
		case "heart_face":
			est.FaceShape = domain.FaceShapeHeart
		case "long_face":
			est.FaceShape = domain.FaceShapeLong
		}
	}

	switch ageLabel {
	case "young":
		est.Age = 22
	case "adult":
		est.Age = 35
	case "elderly":
		est.Age = 68
	}

	clampEmotions(&est.Emotions)
	clampStyle(&est.Style)

	// Linea base de estilo para que siempre haya un dominante significativo.
	if est.Style.Casual == 0 && est.Style.Formal == 0 && est.Style.Artistic == 0 && est.Style.Sporty == 0 {
		est.Style.Casual = 40
		est.SyntheticFields = append(est.SyntheticFields, "style")
	}

	s.fillSynthetic(&est)
	return est
}

// fillSynthetic completa los huecos del esquema con valores aleatorios pero
// acotados. El generador es inyectado: tests con semilla fija reproducen.
func (s *EstimatorService) fillSynthetic(est *domain.RichEstimate) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if est.FaceShape == "" {
		shapes := []domain.FaceShape{
			domain.FaceShapeOval, domain.FaceShapeRound, domain.FaceShapeSquare,
			domain.FaceShapeHeart, domain.FaceShapeLong,
		}
		est.FaceShape = shapes[s.rng.Intn(len(shapes))]
		est.SyntheticFields = append(est.SyntheticFields, "face_shape")
	}
	if est.HairStyle == "" {
		styles := []domain.HairStyle{
			domain.HairShort, domain.HairLong, domain.HairCurly,
			domain.HairStraight, domain.HairWavy, domain.HairBald,
		}
		est.HairStyle = styles[s.rng.Intn(len(styles))]
		est.SyntheticFields = append(est.SyntheticFields, "hair_style")
	}

	eyePalette := []string{"#5B3A1E", "#2F4F4F", "#3D6B44", "#4169AA", "#6E5B3C"}
	hairPalette := []string{"#1C1C1C", "#3B2F2F", "#6A4E23", "#B5651D", "#C0C0C0", "#E8C07D"}
	est.EyeColor = eyePalette[s.rng.Intn(len(eyePalette))]
	est.HairColor = hairPalette[s.rng.Intn(len(hairPalette))]
	est.SyntheticFields = append(est.SyntheticFields, "eye_color", "hair_color")

	// El modelo upstream devuelve etiquetas, no geometria: los landmarks se
	// sintetizan alrededor de posiciones canonicas del rostro.
	jitter := func(base, span float64) float64 {
		return base + (s.rng.Float64()*2-1)*span
	}
	est.Landmarks = domain.FaceLandmarks{
		LeftEye:    domain.Point2D{X: jitter(0.35, 0.04), Y: jitter(0.40, 0.03)},
		RightEye:   domain.Point2D{X: jitter(0.65, 0.04), Y: jitter(0.40, 0.03)},
		Nose:       domain.Point2D{X: jitter(0.50, 0.03), Y: jitter(0.55, 0.03)},
		MouthLeft:  domain.Point2D{X: jitter(0.40, 0.03), Y: jitter(0.72, 0.03)},
		MouthRight: domain.Point2D{X: jitter(0.60, 0.03), Y: jitter(0.72, 0.03)},
	}
	est.SyntheticFields = append(est.SyntheticFields, "landmarks")
}

func clampEmotions(v *domain.EmotionVector) {
	v.Happy = clamp100(v.Happy)
	v.Sad = clamp100(v.Sad)
	v.Angry = clamp100(v.Angry)
	v.Surprised = clamp100(v.Surprised)
	v.Fearful = clamp100(v.Fearful)
	v.Disgusted = clamp100(v.Disgusted)
	v.Neutral = clamp100(v.Neutral)
}

func clampStyle(v *domain.StyleVector) {
	v.Casual = clamp100(v.Casual)
	v.Formal = clamp100(v.Formal)
	v.Artistic = clamp100(v.Artistic)
	v.Sporty = clamp100(v.Sporty)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func clamp100(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
