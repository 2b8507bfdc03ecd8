package vision

import (
	"image"

	"toonify/internal/domain"
)

// Umbrales de la heuristica de piel y deteccion de rostro.
const (
	skinRatioMin = 0.15
	skinRatioMax = 0.85

	maxHeuristicConfidence = 0.75
)

// Analyze recorre todos los pixeles y deriva una estimacion aproximada de
// edad/genero/confianza. Es pura y determinista: la misma imagen produce
// siempre el mismo resultado. Nunca falla; con imagen nil o vacia devuelve
// la estimacion por defecto con confianza 0.
func Analyze(img image.Image) domain.RawEstimate {
	if img == nil {
		return defaultEstimate()
	}
	bounds := img.Bounds()
	total := bounds.Dx() * bounds.Dy()
	if total <= 0 {
		return defaultEstimate()
	}

	var skinPixels int
	var brightnessSum, saturationSum float64

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r16, g16, b16, _ := img.At(x, y).RGBA()
			r := float64(r16 >> 8)
			g := float64(g16 >> 8)
			b := float64(b16 >> 8)

			if isSkinTone(r, g, b) {
				skinPixels++
			}
			brightnessSum += (r + g + b) / 3

			maxC := max3(r, g, b)
			if maxC > 0 {
				saturationSum += (maxC - min3(r, g, b)) / maxC
			}
		}
	}

	skinRatio := float64(skinPixels) / float64(total)
	brightness := brightnessSum / float64(total)
	saturation := saturationSum / float64(total)

	est := domain.RawEstimate{
		Age:          estimateAge(brightness, saturation),
		Gender:       estimateGender(brightness, saturation),
		FaceDetected: skinRatio > skinRatioMin && skinRatio < skinRatioMax,
	}
	est.Confidence = skinRatio * 2
	if est.Confidence > maxHeuristicConfidence {
		est.Confidence = maxHeuristicConfidence
	}
	return est
}

// isSkinTone aplica la regla fija sobre (R,G,B): ordenamiento R>G>B, rangos
// absolutos y ratios acotados.
func isSkinTone(r, g, b float64) bool {
	if !(r > g && g > b) {
		return false
	}
	if !(r > 95 && r < 255) {
		return false
	}
	if !(g > 40 && g < 255) {
		return false
	}
	if !(b > 20 && b < 255) {
		return false
	}
	rg := r / (g + 1)
	rb := r / (b + 1)
	return rg > 1.0 && rg < 2.5 && rb > 1.2 && rb < 3.0
}

func estimateAge(brightness, saturation float64) int {
	age := 30
	if brightness < 100 {
		age += 10
	}
	if brightness > 180 {
		age -= 5
	}
	if saturation < 0.3 {
		age += 5
	}
	if saturation > 0.6 {
		age -= 5
	}
	if age < 18 {
		age = 18
	}
	if age > 65 {
		age = 65
	}
	return age
}

func estimateGender(brightness, saturation float64) domain.Gender {
	if saturation > 0.5 && brightness > 150 {
		return domain.GenderFemale
	}
	if saturation < 0.4 {
		return domain.GenderMale
	}
	return domain.GenderUnknown
}

func defaultEstimate() domain.RawEstimate {
	return domain.RawEstimate{
		Age:          30,
		Gender:       domain.GenderUnknown,
		Confidence:   0,
		FaceDetected: false,
	}
}

func max3(a, b, c float64) float64 {
	m := a
	if b > m {
		m = b
	}
	if c > m {
		m = c
	}
	return m
}

func min3(a, b, c float64) float64 {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	return m
}
