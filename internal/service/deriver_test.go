package service

import (
	"reflect"
	"testing"

	"toonify/internal/domain"
)

func TestDeriveRawOnlyUsesDefaults(t *testing.T) {
	d := Derive(domain.RawEstimate{Age: 30, Gender: domain.GenderUnknown}, nil)

	if d.Age != 30 {
		t.Fatalf("expected age 30, got %d", d.Age)
	}
	if d.Height != domain.DefaultHeight || d.Weight != domain.DefaultWeight {
		t.Fatalf("expected default measures, got %d/%d", d.Height, d.Weight)
	}
	if d.Personality.DominantEmotion != domain.EmotionNeutral {
		t.Fatalf("expected neutral dominant emotion, got %s", d.Personality.DominantEmotion)
	}
	if d.Personality.DominantStyle != domain.StyleCasual {
		t.Fatalf("expected casual dominant style, got %s", d.Personality.DominantStyle)
	}
}

func TestDeriveGenderAdjustsMeasures(t *testing.T) {
	male := Derive(domain.RawEstimate{Age: 40, Gender: domain.GenderMale}, nil)
	if male.Height != 175 || male.Weight != 78 {
		t.Fatalf("unexpected male measures %d/%d", male.Height, male.Weight)
	}
	female := Derive(domain.RawEstimate{Age: 40, Gender: domain.GenderFemale}, nil)
	if female.Height != 165 || female.Weight != 62 {
		t.Fatalf("unexpected female measures %d/%d", female.Height, female.Weight)
	}
}

func TestDeriveClampsAge(t *testing.T) {
	low := Derive(domain.RawEstimate{Age: 5}, nil)
	if low.Age != domain.AgeMin {
		t.Fatalf("expected age clamped to %d, got %d", domain.AgeMin, low.Age)
	}
	high := Derive(domain.RawEstimate{Age: 99}, nil)
	if high.Age != domain.AgeMax {
		t.Fatalf("expected age clamped to %d, got %d", domain.AgeMax, high.Age)
	}
}

func TestDerivePersonalityFormulas(t *testing.T) {
	rich := &domain.RichEstimate{
		RawEstimate: domain.RawEstimate{Age: 28},
		Emotions: domain.EmotionVector{
			Happy:     80,
			Surprised: 40,
			Neutral:   10,
		},
		Style: domain.StyleVector{Casual: 60, Artistic: 20},
	}

	d := Derive(rich.RawEstimate, rich)
	p := d.Personality

	// energy = happy + surprised + 0.5*fearful = 120 → clamp 100
	if p.Energy != 100 {
		t.Fatalf("expected energy 100, got %d", p.Energy)
	}
	// friendliness = happy + (100-angry) + 0.3*neutral = 183 → clamp 100
	if p.Friendliness != 100 {
		t.Fatalf("expected friendliness 100, got %d", p.Friendliness)
	}
	// creativity = artistic + 0.4*surprised = 36
	if p.Creativity != 36 {
		t.Fatalf("expected creativity 36, got %d", p.Creativity)
	}
	// confidence = neutral + happy + (100-fearful) = 190 → clamp 100
	if p.Confidence != 100 {
		t.Fatalf("expected confidence 100, got %d", p.Confidence)
	}
	if p.DominantEmotion != domain.EmotionHappy {
		t.Fatalf("expected happy dominant, got %s", p.DominantEmotion)
	}
	if p.DominantStyle != domain.StyleCasual {
		t.Fatalf("expected casual dominant, got %s", p.DominantStyle)
	}
}

func TestDeriveDominantTieKeepsFixedOrder(t *testing.T) {
	rich := &domain.RichEstimate{
		Emotions: domain.EmotionVector{Sad: 50, Angry: 50, Neutral: 50},
		Style:    domain.StyleVector{Formal: 30, Sporty: 30},
	}
	p := Derive(rich.RawEstimate, rich).Personality

	// Empate: gana el primero en el orden fijo de evaluacion.
	if p.DominantEmotion != domain.EmotionSad {
		t.Fatalf("expected sad to win the tie, got %s", p.DominantEmotion)
	}
	if p.DominantStyle != domain.StyleFormal {
		t.Fatalf("expected formal to win the tie, got %s", p.DominantStyle)
	}
}

func TestDeriveAccessoriesAndFeatures(t *testing.T) {
	rich := &domain.RichEstimate{
		Emotions: domain.EmotionVector{Surprised: 90},
		Style:    domain.StyleVector{Artistic: 85},
	}
	p := Derive(rich.RawEstimate, rich).Personality

	if !reflect.DeepEqual(p.Accessories, []string{"beret", "scarf"}) {
		t.Fatalf("unexpected accessories %v", p.Accessories)
	}
	if !reflect.DeepEqual(p.SpecialFeatures, []string{"raised_eyebrows", "wide_eyes"}) {
		t.Fatalf("unexpected features %v", p.SpecialFeatures)
	}
}

func TestDeriveIsDeterministic(t *testing.T) {
	rich := &domain.RichEstimate{
		RawEstimate: domain.RawEstimate{Age: 33, Gender: domain.GenderFemale},
		Emotions:    domain.EmotionVector{Happy: 20, Fearful: 60},
		Style:       domain.StyleVector{Sporty: 55},
	}
	a := Derive(rich.RawEstimate, rich)
	b := Derive(rich.RawEstimate, rich)
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("expected identical derivations, got %+v vs %+v", a, b)
	}
}
