package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"toonify/internal/domain"
	"toonify/internal/vision"
)

// AnalysisPolicy selecciona la fuente de estimacion para las fotos.
type AnalysisPolicy string

const (
	PolicyRemote AnalysisPolicy = "remote"
	PolicyLocal  AnalysisPolicy = "local"
)

// RemoteEstimator abstrae la estimacion remota de atributos.
type RemoteEstimator interface {
	Estimate(ctx context.Context, photo []byte) (domain.RichEstimate, error)
}

// RenderRequester abstrae el paso de render de la imagen final.
type RenderRequester interface {
	Render(ctx context.Context, sessionID string, photo []byte, attrs domain.CharacterAttributes, personality domain.PersonalityProfile, style domain.CartoonStyle) (domain.RenderArtifact, error)
}

// GallerySaver persiste personajes terminados. Solo se invoca con sesiones
// en Complete: un render fallido jamas llega a la galeria.
type GallerySaver interface {
	Save(ctx context.Context, rec domain.GalleryRecord) error
}

// FlowConfig es la politica inyectada al controlador en construccion; las
// hojas nunca leen configuracion ambiental.
type FlowConfig struct {
	Policy       AnalysisPolicy
	IntakeDelay  time.Duration
	DefaultStyle domain.CartoonStyle
}

// FlowService es la maquina de estados que secuencia el flujo completo:
// foto → estimacion → ajuste del usuario → confirmacion → render. Posee en
// exclusiva cada FlowSession y serializa todas sus transiciones.
type FlowService struct {
	mu       sync.Mutex
	sessions map[string]*flowSession

	estimator RemoteEstimator
	renderer  RenderRequester
	gallery   GallerySaver
	cfg       FlowConfig
	logger    *zap.Logger
}

// flowSession envuelve el agregado con lo que necesita la serializacion:
// un mutex propio, un latch de operacion en curso y un epoch que invalida
// resultados que llegan tarde (guardia anti-respuesta-rancia).
type flowSession struct {
	mu          sync.Mutex
	epoch       uint64
	busy        bool
	data        domain.FlowSession
	personality domain.PersonalityProfile
	snapshotSet bool
}

func NewFlowService(estimator RemoteEstimator, renderer RenderRequester, gallery GallerySaver, cfg FlowConfig, logger *zap.Logger) *FlowService {
	if cfg.Policy == "" {
		cfg.Policy = PolicyLocal
	}
	if cfg.DefaultStyle == "" {
		cfg.DefaultStyle = domain.CartoonAnime
	}
	return &FlowService{
		sessions:  make(map[string]*flowSession),
		estimator: estimator,
		renderer:  renderer,
		gallery:   gallery,
		cfg:       cfg,
		logger:    logger,
	}
}

// Start crea una sesion nueva en Intake. La transicion a Identify es
// puramente presentacional: un retraso fijo, no cancelable por el usuario.
func (f *FlowService) Start(name string) domain.FlowSession {
	s := &flowSession{
		data: domain.FlowSession{
			ID:        uuid.NewString(),
			State:     domain.StateIntake,
			Style:     f.cfg.DefaultStyle,
			CreatedAt: time.Now().UTC(),
		},
	}
	s.data.Attributes.Name = strings.TrimSpace(name)

	f.mu.Lock()
	f.sessions[s.data.ID] = s
	f.mu.Unlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	if f.cfg.IntakeDelay <= 0 {
		s.data.State = domain.StateIdentify
		return s.snapshot()
	}

	epoch := s.epoch
	time.AfterFunc(f.cfg.IntakeDelay, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.epoch == epoch && s.data.State == domain.StateIntake {
			s.data.State = domain.StateIdentify
		}
	})
	return s.snapshot()
}

// Get devuelve una copia del estado actual de la sesion.
func (f *FlowService) Get(id string) (domain.FlowSession, error) {
	s, err := f.lookup(id)
	if err != nil {
		return domain.FlowSession{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot(), nil
}

// Personality devuelve el perfil derivado de la sesion.
func (f *FlowService) Personality(id string) (domain.PersonalityProfile, error) {
	s, err := f.lookup(id)
	if err != nil {
		return domain.PersonalityProfile{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.personality, nil
}

// SubmitPhoto recibe la foto y ejecuta la estimacion segun politica. El
// fallo de estimacion es el unico fallback sancionado: siembra defaults
// fijos y el flujo continua hacia ajuste manual.
func (f *FlowService) SubmitPhoto(ctx context.Context, id string, photo []byte, filename string) (domain.FlowSession, error) {
	s, err := f.lookup(id)
	if err != nil {
		return domain.FlowSession{}, err
	}

	s.mu.Lock()
	if s.busy {
		s.mu.Unlock()
		return domain.FlowSession{}, ErrFlowBusy
	}
	if s.data.State != domain.StateIdentify {
		state := string(s.data.State)
		s.mu.Unlock()
		return domain.FlowSession{}, &InvalidTransitionError{From: state, Event: "submit_photo"}
	}
	if len(photo) == 0 {
		s.mu.Unlock()
		return domain.FlowSession{}, &ValidationError{Field: "photo", Message: "photo is required"}
	}
	s.busy = true
	s.data.State = domain.StateEstimating
	s.data.Photo = photo
	s.data.PhotoName = filename
	epoch := s.epoch
	s.mu.Unlock()

	raw, rich := f.estimate(ctx, id, photo, filename)
	der := Derive(raw, rich)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.epoch != epoch {
		// El usuario abandono mientras la estimacion estaba en vuelo.
		return domain.FlowSession{}, ErrSessionNotFound
	}
	s.busy = false
	s.data.State = domain.StateReviewAge
	s.data.Attributes.Age = der.Age
	s.data.Attributes.Height = der.Height
	s.data.Attributes.Weight = der.Weight
	if !s.snapshotSet {
		// Snapshot inmutable: se fija una sola vez por foto.
		s.data.Attributes.OriginalRaw = raw
		s.data.Attributes.OriginalRich = rich
		s.snapshotSet = true
	}
	s.personality = der.Personality
	return s.snapshot(), nil
}

// estimate resuelve la estimacion segun la politica configurada. Nunca
// devuelve error: la degradacion a defaults ocurre aqui.
func (f *FlowService) estimate(ctx context.Context, id string, photo []byte, filename string) (domain.RawEstimate, *domain.RichEstimate) {
	if f.cfg.Policy == PolicyRemote && f.estimator != nil {
		rich, err := f.estimator.Estimate(ctx, photo)
		if err == nil {
			return rich.RawEstimate, &rich
		}
		var estErr *EstimatorError
		reason := "unknown"
		if errors.As(err, &estErr) {
			reason = string(estErr.Reason)
		}
		// Casi invisible para el usuario: seguimos con defaults.
		f.logger.Info("estimation failed, seeding defaults",
			zap.String("session_id", id),
			zap.String("reason", reason),
		)
		return defaultRawEstimate(), nil
	}

	return f.analyzeLocal(photo, filename), nil
}

// analyzeLocal decodifica y analiza los pixeles. La imagen decodificada es
// un recurso acotado a esta funcion: no se retiene en la sesion por ningun
// camino de salida. Sin pixeles usables cae a la heuristica por filename.
func (f *FlowService) analyzeLocal(photo []byte, filename string) domain.RawEstimate {
	img, format, err := vision.Decode(photo)
	if err != nil {
		resErr := &ResourceError{Err: err}
		f.logger.Warn("photo decode failed, using filename heuristic",
			zap.String("filename", filename),
			zap.Error(resErr),
		)
		return vision.AnalyzeFromFilename(filename)
	}
	f.logger.Debug("photo decoded", zap.String("format", format))
	return vision.Analyze(img)
}

func defaultRawEstimate() domain.RawEstimate {
	return domain.RawEstimate{
		Age:    domain.DefaultAge,
		Gender: domain.GenderUnknown,
	}
}

// ConfirmAge confirma la edad revisada por el usuario.
func (f *FlowService) ConfirmAge(id string, age int) (domain.FlowSession, error) {
	return f.confirm(id, domain.StateReviewAge, "confirm_age", func(s *flowSession) error {
		if age < domain.AgeMin || age > domain.AgeMax {
			return &ValidationError{Field: "age", Message: "age out of range"}
		}
		s.data.Attributes.Age = age
		s.data.State = domain.StateReviewMeasures
		return nil
	})
}

// ConfirmMeasures confirma estatura y peso dentro de sus limites.
func (f *FlowService) ConfirmMeasures(id string, height, weight int) (domain.FlowSession, error) {
	return f.confirm(id, domain.StateReviewMeasures, "confirm_measures", func(s *flowSession) error {
		if height < domain.HeightMin || height > domain.HeightMax {
			return &ValidationError{Field: "height", Message: "height out of range"}
		}
		if weight < domain.WeightMin || weight > domain.WeightMax {
			return &ValidationError{Field: "weight", Message: "weight out of range"}
		}
		s.data.Attributes.Height = height
		s.data.Attributes.Weight = weight
		s.data.State = domain.StateConfirm
		return nil
	})
}

// Rename ajusta el nombre mientras el flujo no haya llegado a render.
func (f *FlowService) Rename(id, name string) (domain.FlowSession, error) {
	s, err := f.lookup(id)
	if err != nil {
		return domain.FlowSession{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	switch s.data.State {
	case domain.StateRendering, domain.StateComplete, domain.StateFailed:
		return domain.FlowSession{}, &InvalidTransitionError{From: string(s.data.State), Event: "rename"}
	}
	s.data.Attributes.Name = strings.TrimSpace(name)
	return s.snapshot(), nil
}

// RequestRender dispara el render. Guardado: solo puede dispararse una vez
// por sesion; reentrar mientras ya esta renderizando es un no-op, nunca un
// request duplicado.
func (f *FlowService) RequestRender(ctx context.Context, id string, style domain.CartoonStyle) (domain.FlowSession, error) {
	s, err := f.lookup(id)
	if err != nil {
		return domain.FlowSession{}, err
	}

	s.mu.Lock()
	if s.data.State == domain.StateRendering {
		snap := s.snapshot()
		s.mu.Unlock()
		return snap, nil
	}
	if s.busy {
		s.mu.Unlock()
		return domain.FlowSession{}, ErrFlowBusy
	}
	if s.data.State != domain.StateConfirm {
		state := string(s.data.State)
		s.mu.Unlock()
		return domain.FlowSession{}, &InvalidTransitionError{From: state, Event: "request_render"}
	}
	if style != "" {
		s.data.Style = style
	}
	s.busy = true
	s.data.State = domain.StateRendering
	s.data.LastError = ""
	epoch := s.epoch
	photo := s.data.Photo
	attrs := s.data.Attributes
	personality := s.personality
	chosenStyle := s.data.Style
	s.mu.Unlock()

	artifact, renderErr := f.renderer.Render(ctx, id, photo, attrs, personality, chosenStyle)

	s.mu.Lock()
	if s.epoch != epoch {
		// Respuesta rancia: la sesion fue reiniciada o abandonada.
		s.mu.Unlock()
		return domain.FlowSession{}, ErrSessionNotFound
	}
	s.busy = false
	if renderErr != nil {
		s.data.State = domain.StateFailed
		s.data.LastError = renderErr.Error()
		snap := s.snapshot()
		s.mu.Unlock()
		return snap, renderErr
	}
	s.data.State = domain.StateComplete
	s.data.Artifact = &artifact
	snap := s.snapshot()
	rec := domain.GalleryRecord{
		ID:          s.data.ID,
		Name:        s.data.Attributes.Name,
		Age:         s.data.Attributes.Age,
		Height:      s.data.Attributes.Height,
		Weight:      s.data.Attributes.Weight,
		ImageURL:    artifact.ImageURL,
		Cost:        artifact.Cost,
		ModelUsed:   artifact.ModelUsed,
		Style:       s.data.Style,
		Personality: s.personality,
		Embedding:   s.personality.Vector(),
		CreatedAt:   time.Now().UTC(),
	}
	s.mu.Unlock()

	if f.gallery != nil {
		if err := f.gallery.Save(ctx, rec); err != nil {
			// El personaje ya esta completo; la galeria no bloquea el flujo.
			f.logger.Warn("gallery save failed", zap.String("session_id", id), zap.Error(err))
		}
	}
	return snap, nil
}

// AckFailure reconoce el fallo de render y vuelve a Confirm para reintentar.
// Nunca hay recuperacion automatica silenciosa.
func (f *FlowService) AckFailure(id string) (domain.FlowSession, error) {
	return f.confirm(id, domain.StateFailed, "ack_failure", func(s *flowSession) error {
		s.data.State = domain.StateConfirm
		s.data.LastError = ""
		return nil
	})
}

// Abandon destruye la sesion. El epoch se incrementa primero para que
// cualquier llamada remota que siga en vuelo descarte su resultado.
func (f *FlowService) Abandon(id string) error {
	f.mu.Lock()
	s, ok := f.sessions[id]
	if ok {
		delete(f.sessions, id)
	}
	f.mu.Unlock()
	if !ok {
		return ErrSessionNotFound
	}
	s.mu.Lock()
	s.epoch++
	s.data.Photo = nil
	s.mu.Unlock()
	return nil
}

// confirm aplica una mutacion serializada que exige un estado de partida.
func (f *FlowService) confirm(id string, from domain.FlowState, event string, apply func(*flowSession) error) (domain.FlowSession, error) {
	s, err := f.lookup(id)
	if err != nil {
		return domain.FlowSession{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.busy {
		return domain.FlowSession{}, ErrFlowBusy
	}
	if s.data.State != from {
		return domain.FlowSession{}, &InvalidTransitionError{From: string(s.data.State), Event: event}
	}
	if err := apply(s); err != nil {
		return domain.FlowSession{}, err
	}
	return s.snapshot(), nil
}

func (f *FlowService) lookup(id string) (*flowSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// snapshot copia el agregado para exponerlo fuera del lock. El puntero a
// OriginalRich se comparte: es inmutable una vez fijado.
func (s *flowSession) snapshot() domain.FlowSession {
	snap := s.data
	snap.Photo = nil
	if s.data.Artifact != nil {
		artifact := *s.data.Artifact
		snap.Artifact = &artifact
	}
	if s.personality.DominantStyle != "" {
		p := s.personality
		snap.Personality = &p
	}
	return snap
}
