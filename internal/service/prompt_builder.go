package service

import (
	"fmt"
	"strings"

	"toonify/internal/domain"
)

// CartoonPromptBuilder construye el prompt de render a partir de los tipos
// derivados. Sin literales acoplados a la capa de presentacion: el contrato
// es (atributos + perfil + estilo) → string.
type CartoonPromptBuilder struct{}

// BuildRenderPrompt arma el prompt completo que se envia al generador de
// imagenes.
func (CartoonPromptBuilder) BuildRenderPrompt(
	attrs domain.CharacterAttributes,
	personality domain.PersonalityProfile,
	style domain.CartoonStyle,
) string {
	var sb strings.Builder

	sb.WriteString("Retrato caricaturizado de un personaje llamado ")
	sb.WriteString(strings.TrimSpace(attrs.Name))
	sb.WriteString(fmt.Sprintf(", %d anios, %d cm, %d kg.\n", attrs.Age, attrs.Height, attrs.Weight))

	if rich := attrs.OriginalRich; rich != nil {
		sb.WriteString(fmt.Sprintf("Rostro %s, peinado %s color %s, ojos %s.\n",
			rich.FaceShape, rich.HairStyle, rich.HairColor, rich.EyeColor))
	}

	sb.WriteString(fmt.Sprintf("Expresion dominante: %s. Estetica dominante: %s.\n",
		personality.DominantEmotion, personality.DominantStyle))
	sb.WriteString(fmt.Sprintf("Personalidad: energia %d/100, simpatia %d/100, creatividad %d/100, seguridad %d/100.\n",
		personality.Energy, personality.Friendliness, personality.Creativity, personality.Confidence))

	if len(personality.Accessories) > 0 {
		sb.WriteString("Accesorios: ")
		sb.WriteString(strings.Join(personality.Accessories, ", "))
		sb.WriteString(".\n")
	}
	if len(personality.SpecialFeatures) > 0 {
		sb.WriteString("Rasgos distintivos: ")
		sb.WriteString(strings.Join(personality.SpecialFeatures, ", "))
		sb.WriteString(".\n")
	}

	sb.WriteString(fmt.Sprintf("Ilustracion estilo %s, fondo limpio, medio cuerpo, una sola persona.", style))
	return sb.String()
}
