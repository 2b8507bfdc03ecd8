package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"toonify/internal/domain"
	"toonify/internal/service"
	"toonify/internal/vision"
)

// analyze corre la heuristica de pixeles sobre una foto local e imprime la
// estimacion y la derivacion, sin tocar ningun servicio remoto.
func main() {
	jsonOut := flag.Bool("json", false, "salida en JSON")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "uso: analyze [-json] <foto>")
		os.Exit(2)
	}
	path := flag.Arg(0)

	data, err := os.ReadFile(path)
	if err != nil {
		log.Fatalf("leer foto: %v", err)
	}

	var raw domain.RawEstimate
	img, format, err := vision.Decode(data)
	if err != nil {
		fmt.Fprintf(os.Stderr, "decodificar (%v); usando heuristica por nombre\n", err)
		raw = vision.AnalyzeFromFilename(path)
		format = "filename"
	} else {
		raw = vision.Analyze(img)
	}

	der := service.Derive(raw, nil)

	if *jsonOut {
		fmt.Printf(`{"format":%q,"age":%d,"gender":%q,"confidence":%.2f,"face_detected":%t,"height":%d,"weight":%d}`+"\n",
			format, raw.Age, raw.Gender, raw.Confidence, raw.FaceDetected, der.Height, der.Weight)
		return
	}

	fmt.Printf("Formato: %s\n", format)
	fmt.Printf("Rostro detectado: %t (confianza %.2f)\n", raw.FaceDetected, raw.Confidence)
	fmt.Printf("Edad estimada: %d\n", raw.Age)
	fmt.Printf("Genero estimado: %s\n", raw.Gender)
	fmt.Printf("Atributos iniciales: %d anios, %d cm, %d kg\n", der.Age, der.Height, der.Weight)
}
