package vision

import (
	"image"
	"image/color"
	"testing"

	"toonify/internal/domain"
)

var skinColor = color.RGBA{R: 150, G: 100, B: 60, A: 255}
var nonSkinColor = color.RGBA{R: 0, G: 0, B: 255, A: 255}

// buildImage llena un 10x10 con n pixeles de tono piel y el resto azul.
func buildImage(skinPixels int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 10, 10))
	count := 0
	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			if count < skinPixels {
				img.Set(x, y, skinColor)
			} else {
				img.Set(x, y, nonSkinColor)
			}
			count++
		}
	}
	return img
}

func TestAnalyzeBounds(t *testing.T) {
	for _, skin := range []int{0, 15, 30, 50, 85, 100} {
		est := Analyze(buildImage(skin))
		if est.Age < 18 || est.Age > 65 {
			t.Fatalf("skin=%d: age %d out of [18,65]", skin, est.Age)
		}
		if est.Confidence < 0 || est.Confidence > 0.75 {
			t.Fatalf("skin=%d: confidence %f out of [0,0.75]", skin, est.Confidence)
		}
	}
}

func TestAnalyzeIdempotent(t *testing.T) {
	img := buildImage(40)
	first := Analyze(img)
	second := Analyze(img)
	if first != second {
		t.Fatalf("expected identical results, got %+v vs %+v", first, second)
	}
}

func TestAnalyzeFaceDetectedBoundaries(t *testing.T) {
	// Bordes exclusivos: exactamente 0.15 y 0.85 no cuentan como rostro.
	if est := Analyze(buildImage(15)); est.FaceDetected {
		t.Fatalf("ratio 0.15 should not detect a face")
	}
	if est := Analyze(buildImage(85)); est.FaceDetected {
		t.Fatalf("ratio 0.85 should not detect a face")
	}
	if est := Analyze(buildImage(50)); !est.FaceDetected {
		t.Fatalf("ratio 0.5 should detect a face")
	}
}

func TestAnalyzeConfidenceCapped(t *testing.T) {
	est := Analyze(buildImage(50))
	if est.Confidence != 0.75 {
		t.Fatalf("expected capped confidence 0.75, got %f", est.Confidence)
	}
}

func TestAnalyzeNilImage(t *testing.T) {
	est := Analyze(nil)
	want := domain.RawEstimate{Age: 30, Gender: domain.GenderUnknown, Confidence: 0, FaceDetected: false}
	if est != want {
		t.Fatalf("expected default estimate, got %+v", est)
	}
}

func TestAnalyzeEmptyBounds(t *testing.T) {
	est := Analyze(image.NewRGBA(image.Rect(0, 0, 0, 0)))
	if est.Confidence != 0 || est.FaceDetected {
		t.Fatalf("expected zero-confidence default, got %+v", est)
	}
}

func TestAnalyzeDarkDesaturatedImage(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	gray := color.RGBA{R: 50, G: 50, B: 50, A: 255}
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			img.Set(x, y, gray)
		}
	}
	est := Analyze(img)
	// brillo<100 (+10) y saturacion<0.3 (+5) sobre base 30.
	if est.Age != 45 {
		t.Fatalf("expected age 45, got %d", est.Age)
	}
	if est.Gender != domain.GenderMale {
		t.Fatalf("expected male for low saturation, got %s", est.Gender)
	}
}

func TestAnalyzeBrightSaturatedImage(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	warm := color.RGBA{R: 255, G: 140, B: 80, A: 255}
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			img.Set(x, y, warm)
		}
	}
	est := Analyze(img)
	if est.Gender != domain.GenderFemale {
		t.Fatalf("expected female for bright saturated input, got %s", est.Gender)
	}
}
