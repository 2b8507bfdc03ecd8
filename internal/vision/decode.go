package vision

import (
	"bytes"
	"errors"
	"fmt"
	"image"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ErrEmptyImage indica que no habia bytes que decodificar.
var ErrEmptyImage = errors.New("empty image data")

// Decode convierte los bytes de una foto en una imagen decodificada.
// Soporta jpeg/png/gif (stdlib) y webp/bmp/tiff (golang.org/x/image).
// La imagen devuelta es un recurso acotado al paso de analisis: el caller
// no debe retenerla mas alla de ese paso.
func Decode(data []byte) (image.Image, string, error) {
	if len(data) == 0 {
		return nil, "", ErrEmptyImage
	}
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("decode image: %w", err)
	}
	return img, format, nil
}
