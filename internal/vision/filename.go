package vision

import (
	"regexp"
	"strconv"
	"strings"

	"toonify/internal/domain"
)

// Confianza fija del fallback por nombre de archivo.
const filenameConfidence = 0.3

var agePattern = regexp.MustCompile(`(\d{1,2})\s*(?:yr|year|yo|age)`)

var femaleKeywords = []string{"woman", "female", "girl", "lady", "mother", "mom", "grandma"}
var maleKeywords = []string{"man", "male", "boy", "guy", "father", "dad", "grandpa"}

// AnalyzeFromFilename deriva una estimacion minima a partir del nombre del
// archivo. Solo se usa cuando no hay pixeles disponibles; la confianza queda
// fija en 0.3 y nunca se reporta rostro detectado.
func AnalyzeFromFilename(name string) domain.RawEstimate {
	lower := strings.ToLower(name)

	est := domain.RawEstimate{
		Age:          30,
		Gender:       domain.GenderUnknown,
		Confidence:   filenameConfidence,
		FaceDetected: false,
	}

	if m := agePattern.FindStringSubmatch(lower); m != nil {
		if age, err := strconv.Atoi(m[1]); err == nil {
			if age < 18 {
				age = 18
			}
			if age > 65 {
				age = 65
			}
			est.Age = age
		}
	}

	// "female" contiene "male": evaluamos primero las palabras femeninas.
	for _, kw := range femaleKeywords {
		if strings.Contains(lower, kw) {
			est.Gender = domain.GenderFemale
			return est
		}
	}
	for _, kw := range maleKeywords {
		if strings.Contains(lower, kw) {
			est.Gender = domain.GenderMale
			return est
		}
	}
	return est
}
