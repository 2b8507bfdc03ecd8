package service

import (
	"toonify/internal/domain"
)

// Derivation agrupa los atributos iniciales y el perfil derivado.
type Derivation struct {
	Age         int
	Height      int
	Weight      int
	Personality domain.PersonalityProfile
}

// Tablas fijas de lookup: accesorios por estilo dominante y rasgos
// especiales por emocion dominante. Clave desconocida usa la lista default.
var accessoriesByStyle = map[domain.StyleName][]string{
	domain.StyleCasual:   {"cap", "backpack"},
	domain.StyleFormal:   {"tie", "wristwatch"},
	domain.StyleArtistic: {"beret", "scarf"},
	domain.StyleSporty:   {"headband", "wristband"},
}

var featuresByEmotion = map[domain.EmotionName][]string{
	domain.EmotionHappy:     {"dimples", "bright_eyes"},
	domain.EmotionSad:       {"droopy_eyes"},
	domain.EmotionAngry:     {"furrowed_brow"},
	domain.EmotionSurprised: {"raised_eyebrows", "wide_eyes"},
	domain.EmotionFearful:   {"wide_eyes"},
	domain.EmotionDisgusted: {"wrinkled_nose"},
	domain.EmotionNeutral:   {"soft_smile"},
}

var defaultAccessories = []string{"none"}
var defaultFeatures = []string{"plain"}

// Derive combina la estimacion (raw o rich) en el set de atributos acotado
// mas el perfil de personalidad. Pura y determinista: los campos sinteticos
// de un RichEstimate llegan ya fijados y se tratan como input.
func Derive(raw domain.RawEstimate, rich *domain.RichEstimate) Derivation {
	d := Derivation{
		Age:    domain.ClampAge(raw.Age),
		Height: domain.DefaultHeight,
		Weight: domain.DefaultWeight,
	}

	// Con solo la edad, estatura y peso quedan en los puntos medios
	// poblacionales; el genero estimado es la unica senal extra que ajusta.
	switch raw.Gender {
	case domain.GenderMale:
		d.Height = 175
		d.Weight = 78
	case domain.GenderFemale:
		d.Height = 165
		d.Weight = 62
	}
	d.Height = domain.ClampHeight(d.Height)
	d.Weight = domain.ClampWeight(d.Weight)

	if rich == nil {
		d.Personality = neutralPersonality()
		return d
	}

	d.Personality = derivePersonality(rich)
	return d
}

// neutralPersonality es el perfil con estimacion minima: sin vector
// emocional no hay nada que amplificar.
func neutralPersonality() domain.PersonalityProfile {
	return domain.PersonalityProfile{
		Energy:          50,
		Friendliness:    60,
		Creativity:      50,
		Confidence:      55,
		DominantStyle:   domain.StyleCasual,
		DominantEmotion: domain.EmotionNeutral,
		Accessories:     accessoriesByStyle[domain.StyleCasual],
		SpecialFeatures: featuresByEmotion[domain.EmotionNeutral],
	}
}

func derivePersonality(rich *domain.RichEstimate) domain.PersonalityProfile {
	em := rich.Emotions
	dominantEmotion := em.Dominant()
	dominantStyle := rich.Style.Dominant()

	p := domain.PersonalityProfile{
		Energy:          clampScore(em.Happy + em.Surprised + 0.5*em.Fearful),
		Friendliness:    clampScore(em.Happy + (100 - em.Angry) + 0.3*em.Neutral),
		Creativity:      clampScore(rich.Style.Artistic + 0.4*em.Surprised),
		Confidence:      clampScore(em.Neutral + em.Happy + (100 - em.Fearful)),
		DominantStyle:   dominantStyle,
		DominantEmotion: dominantEmotion,
	}

	p.Accessories = lookupOrDefault(accessoriesByStyle, dominantStyle, defaultAccessories)
	p.SpecialFeatures = lookupOrDefault(featuresByEmotion, dominantEmotion, defaultFeatures)
	return p
}

func lookupOrDefault[K comparable](table map[K][]string, key K, fallback []string) []string {
	if v, ok := table[key]; ok {
		return v
	}
	return fallback
}

// clampScore acota a [0,100] e ignora el exceso: las formulas pueden sumar
// muy por encima de 100 con vectores intensos.
func clampScore(v float64) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return int(v)
}
