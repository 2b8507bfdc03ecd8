package http

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"toonify/internal/service"
)

// NewRouter configura el router de Gin con middlewares y rutas.
func NewRouter(
	logger *zap.Logger,
	jwtSvc *service.JWTService,
	flowH *FlowHandler,
	galleryH *GalleryHandler,
) *gin.Engine {
	r := gin.New()

	// Middlewares basicos: logging, recovery y JSON content-type.
	r.Use(zapLoggerMiddleware(logger), gin.Recovery(), jsonContentTypeMiddleware())

	// Crear un flujo es la puerta de entrada: no requiere token.
	r.POST("/flow", flowH.StartFlow)
	r.POST("/auth/refresh", flowH.RefreshTokens)

	flow := r.Group("/flow", JWTAuthMiddleware(jwtSvc), SessionScopeMiddleware())
	flow.GET("/:id", flowH.GetFlow)
	flow.POST("/:id/photo", flowH.SubmitPhoto)
	flow.POST("/:id/age", flowH.ConfirmAge)
	flow.POST("/:id/measures", flowH.ConfirmMeasures)
	flow.POST("/:id/name", flowH.Rename)
	flow.POST("/:id/render", flowH.RequestRender)
	flow.POST("/:id/ack", flowH.AckFailure)
	flow.DELETE("/:id", flowH.AbandonFlow)

	// La galeria exige un token valido, pero no de una sesion concreta:
	// los registros sobreviven a las sesiones que los crearon.
	gallery := r.Group("/gallery", JWTAuthMiddleware(jwtSvc))
	gallery.GET("", galleryH.ListGallery)
	gallery.GET("/:id", galleryH.GetCharacter)
	gallery.GET("/:id/similar", galleryH.SimilarCharacters)
	gallery.DELETE("/:id", galleryH.DeleteCharacter)

	return r
}

// zapLoggerMiddleware crea un middleware simple de logging con zap.
func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}

// jsonContentTypeMiddleware fuerza Content-Type: application/json en responses.
func jsonContentTypeMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Content-Type", "application/json")
		c.Next()
	}
}
