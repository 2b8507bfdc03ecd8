package domain

// Gender es el genero estimado a partir de la foto.
type Gender string

const (
	GenderMale    Gender = "male"
	GenderFemale  Gender = "female"
	GenderUnknown Gender = "unknown"
)

// FaceShape clasifica la forma del rostro (5 valores).
type FaceShape string

const (
	FaceShapeOval   FaceShape = "oval"
	FaceShapeRound  FaceShape = "round"
	FaceShapeSquare FaceShape = "square"
	FaceShapeHeart  FaceShape = "heart"
	FaceShapeLong   FaceShape = "long"
)

// HairStyle clasifica el peinado (6 valores).
type HairStyle string

const (
	HairShort    HairStyle = "short"
	HairLong     HairStyle = "long"
	HairCurly    HairStyle = "curly"
	HairStraight HairStyle = "straight"
	HairWavy     HairStyle = "wavy"
	HairBald     HairStyle = "bald"
)

// EmotionName nombra un componente del vector emocional.
type EmotionName string

const (
	EmotionHappy     EmotionName = "happy"
	EmotionSad       EmotionName = "sad"
	EmotionAngry     EmotionName = "angry"
	EmotionSurprised EmotionName = "surprised"
	EmotionFearful   EmotionName = "fearful"
	EmotionDisgusted EmotionName = "disgusted"
	EmotionNeutral   EmotionName = "neutral"
)

// emotionOrder fija el orden de desempate: el primer maximo gana.
var emotionOrder = []EmotionName{
	EmotionHappy,
	EmotionSad,
	EmotionAngry,
	EmotionSurprised,
	EmotionFearful,
	EmotionDisgusted,
	EmotionNeutral,
}

// EmotionVector tiene 7 componentes en [0,100], asignados de forma independiente.
// No se normaliza: los consumidores dependen de las magnitudes crudas.
type EmotionVector struct {
	Happy     float64 `json:"happy"`
	Sad       float64 `json:"sad"`
	Angry     float64 `json:"angry"`
	Surprised float64 `json:"surprised"`
	Fearful   float64 `json:"fearful"`
	Disgusted float64 `json:"disgusted"`
	Neutral   float64 `json:"neutral"`
}

func (v EmotionVector) value(name EmotionName) float64 {
	switch name {
	case EmotionHappy:
		return v.Happy
	case EmotionSad:
		return v.Sad
	case EmotionAngry:
		return v.Angry
	case EmotionSurprised:
		return v.Surprised
	case EmotionFearful:
		return v.Fearful
	case EmotionDisgusted:
		return v.Disgusted
	case EmotionNeutral:
		return v.Neutral
	}
	return 0
}

// Dominant devuelve la emocion con mayor valor; empates los gana la primera enumerada.
func (v EmotionVector) Dominant() EmotionName {
	best := emotionOrder[0]
	bestVal := v.value(best)
	for _, name := range emotionOrder[1:] {
		if val := v.value(name); val > bestVal {
			best = name
			bestVal = val
		}
	}
	return best
}

// StyleName nombra un componente del vector de estilo.
type StyleName string

const (
	StyleCasual   StyleName = "casual"
	StyleFormal   StyleName = "formal"
	StyleArtistic StyleName = "artistic"
	StyleSporty   StyleName = "sporty"
)

var styleOrder = []StyleName{StyleCasual, StyleFormal, StyleArtistic, StyleSporty}

// StyleVector tiene 4 componentes en [0,100].
type StyleVector struct {
	Casual   float64 `json:"casual"`
	Formal   float64 `json:"formal"`
	Artistic float64 `json:"artistic"`
	Sporty   float64 `json:"sporty"`
}

func (v StyleVector) value(name StyleName) float64 {
	switch name {
	case StyleCasual:
		return v.Casual
	case StyleFormal:
		return v.Formal
	case StyleArtistic:
		return v.Artistic
	case StyleSporty:
		return v.Sporty
	}
	return 0
}

// Dominant devuelve el estilo con mayor valor; empates los gana el primero enumerado.
func (v StyleVector) Dominant() StyleName {
	best := styleOrder[0]
	bestVal := v.value(best)
	for _, name := range styleOrder[1:] {
		if val := v.value(name); val > bestVal {
			best = name
			bestVal = val
		}
	}
	return best
}

// Point2D es una coordenada relativa a la imagen (0..1 en cada eje).
type Point2D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// FaceLandmarks son 5 puntos nombrados del rostro.
type FaceLandmarks struct {
	LeftEye    Point2D `json:"left_eye"`
	RightEye   Point2D `json:"right_eye"`
	Nose       Point2D `json:"nose"`
	MouthLeft  Point2D `json:"mouth_left"`
	MouthRight Point2D `json:"mouth_right"`
}

// RawEstimate es la estimacion minima que produce cualquier analizador.
// Confidence es una senal de calidad, no una probabilidad calibrada.
type RawEstimate struct {
	Age          int     `json:"age"`
	Gender       Gender  `json:"gender"`
	Confidence   float64 `json:"confidence"`
	FaceDetected bool    `json:"face_detected"`
}

// RichEstimate es el superconjunto que solo produce el estimador remoto.
// SyntheticFields lista los campos que no fueron medidos sino generados
// (acotados) para llenar el esquema; nunca se presentan como medidos.
type RichEstimate struct {
	RawEstimate
	FaceShape       FaceShape     `json:"face_shape"`
	EyeColor        string        `json:"eye_color"`
	HairColor       string        `json:"hair_color"`
	HairStyle       HairStyle     `json:"hair_style"`
	Emotions        EmotionVector `json:"emotions"`
	Landmarks       FaceLandmarks `json:"landmarks"`
	Style           StyleVector   `json:"style"`
	SyntheticFields []string      `json:"synthetic_fields,omitempty"`
}
