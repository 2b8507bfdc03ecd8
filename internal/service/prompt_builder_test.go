package service

import (
	"strings"
	"testing"

	"toonify/internal/domain"
)

func TestBuildRenderPromptIncludesAttributes(t *testing.T) {
	b := CartoonPromptBuilder{}
	attrs := domain.CharacterAttributes{Name: "Marco", Age: 34, Height: 180, Weight: 82}
	personality := domain.PersonalityProfile{
		Energy:          70,
		Friendliness:    90,
		Creativity:      40,
		Confidence:      65,
		DominantEmotion: domain.EmotionHappy,
		DominantStyle:   domain.StyleSporty,
		Accessories:     []string{"headband", "wristband"},
		SpecialFeatures: []string{"dimples"},
	}

	prompt := b.BuildRenderPrompt(attrs, personality, domain.CartoonAnime)

	for _, want := range []string{"Marco", "34", "180", "82", "happy", "sporty", "headband", "dimples", "anime"} {
		if !strings.Contains(prompt, want) {
			t.Fatalf("prompt missing %q:\n%s", want, prompt)
		}
	}
}

func TestBuildRenderPromptIncludesRichDetail(t *testing.T) {
	b := CartoonPromptBuilder{}
	attrs := domain.CharacterAttributes{
		Name: "Iris", Age: 25, Height: 165, Weight: 58,
		OriginalRich: &domain.RichEstimate{
			FaceShape: domain.FaceShapeOval,
			HairStyle: domain.HairCurly,
			HairColor: "#6A4E23",
			EyeColor:  "#3D6B44",
		},
	}

	prompt := b.BuildRenderPrompt(attrs, domain.PersonalityProfile{
		DominantEmotion: domain.EmotionNeutral,
		DominantStyle:   domain.StyleCasual,
	}, domain.CartoonWatercolor)

	for _, want := range []string{"oval", "curly", "#6A4E23", "#3D6B44"} {
		if !strings.Contains(prompt, want) {
			t.Fatalf("prompt missing %q:\n%s", want, prompt)
		}
	}
}

func TestBuildRenderPromptOmitsRichWhenAbsent(t *testing.T) {
	b := CartoonPromptBuilder{}
	attrs := domain.CharacterAttributes{Name: "Ana", Age: 25, Height: 170, Weight: 70}

	prompt := b.BuildRenderPrompt(attrs, domain.PersonalityProfile{
		DominantEmotion: domain.EmotionNeutral,
		DominantStyle:   domain.StyleCasual,
	}, domain.CartoonSketch)

	if strings.Contains(prompt, "Rostro") {
		t.Fatalf("expected no face detail without rich estimate:\n%s", prompt)
	}
}
