package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"toonify/internal/config"
	"toonify/internal/domain"
	"toonify/internal/llm"
	"toonify/internal/render"
	"toonify/internal/service"
)

// cli_flow recorre el flujo completo de creacion de personaje por consola,
// sin servidor HTTP ni base de datos.
func main() {
	ctx := context.Background()
	reader := bufio.NewReader(os.Stdin)

	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	logger := zap.NewExample()
	defer logger.Sync()

	visionClient := llm.NewHTTPClient(cfg.AIBaseURL, cfg.AIAPIKey, cfg.VisionModel, logger)
	estimatorSvc := service.NewEstimatorService(visionClient, cfg.AIAPIKey, cfg.SyntheticSeed, logger)
	renderClient := render.NewOpenAIClient(cfg.AIBaseURL, cfg.AIAPIKey, cfg.RenderModel)
	renderSvc := service.NewRenderService(renderClient, cfg.AIAPIKey, nil, logger)

	policy := service.PolicyLocal
	if cfg.UseRemoteEstimator {
		policy = service.PolicyRemote
	}
	flow := service.NewFlowService(estimatorSvc, renderSvc, nil, service.FlowConfig{
		Policy: policy,
	}, logger)

	fmt.Println("===== Creador de Personajes =====")
	fmt.Print("Nombre del personaje: ")
	name, _ := reader.ReadString('\n')

	session := flow.Start(strings.TrimSpace(name))
	fmt.Printf("Sesion %s iniciada (politica: %s)\n", session.ID, policy)

	fmt.Print("Ruta de la foto: ")
	path, _ := reader.ReadString('\n')
	path = strings.TrimSpace(path)

	photo, err := os.ReadFile(path)
	if err != nil {
		log.Fatalf("leer foto: %v", err)
	}

	session, err = flow.SubmitPhoto(ctx, session.ID, photo, path)
	if err != nil {
		log.Fatalf("analizar foto: %v", err)
	}

	fmt.Println("\n--- Estimacion ---")
	fmt.Printf("Edad: %d | Estatura: %d cm | Peso: %d kg\n",
		session.Attributes.Age, session.Attributes.Height, session.Attributes.Weight)
	if session.Personality != nil {
		p := session.Personality
		fmt.Printf("Personalidad: energia %d, simpatia %d, creatividad %d, seguridad %d\n",
			p.Energy, p.Friendliness, p.Creativity, p.Confidence)
		fmt.Printf("Emocion dominante: %s | Estetica: %s\n", p.DominantEmotion, p.DominantStyle)
	}

	age := askInt(reader, fmt.Sprintf("Confirma la edad [%d]: ", session.Attributes.Age), session.Attributes.Age)
	session, err = flow.ConfirmAge(session.ID, age)
	if err != nil {
		log.Fatalf("confirmar edad: %v", err)
	}

	height := askInt(reader, fmt.Sprintf("Estatura en cm [%d]: ", session.Attributes.Height), session.Attributes.Height)
	weight := askInt(reader, fmt.Sprintf("Peso en kg [%d]: ", session.Attributes.Weight), session.Attributes.Weight)
	session, err = flow.ConfirmMeasures(session.ID, height, weight)
	if err != nil {
		log.Fatalf("confirmar medidas: %v", err)
	}

	fmt.Print("Estilo (anime/comic/3d/watercolor/sketch) [anime]: ")
	styleRaw, _ := reader.ReadString('\n')
	style := domain.CartoonStyle(strings.TrimSpace(styleRaw))

	fmt.Println("Generando caricatura...")
	start := time.Now()
	session, err = flow.RequestRender(ctx, session.ID, style)
	if err != nil {
		fmt.Printf("Render fallido tras %s: %v\n", time.Since(start).Round(time.Second), err)
		fmt.Printf("La sesion quedo en %s; reintenta con /ack.\n", session.State)
		os.Exit(1)
	}

	fmt.Println("\n--- Personaje completo ---")
	fmt.Printf("Imagen: %s\n", session.Artifact.ImageURL)
	fmt.Printf("Modelo: %s | Costo: $%.2f | %d ms\n",
		session.Artifact.ModelUsed, session.Artifact.Cost, session.Artifact.ProcessingTimeMs)
}

func askInt(reader *bufio.Reader, prompt string, fallback int) int {
	fmt.Print(prompt)
	raw, _ := reader.ReadString('\n')
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		fmt.Println("Valor invalido, se mantiene el actual.")
		return fallback
	}
	return v
}
