package http

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"toonify/internal/domain"
	"toonify/internal/service"
)

// maxPhotoBytes acota la foto subida a algo razonable para un retrato.
const maxPhotoBytes = 10 << 20

// FlowHandler expone la maquina de estados de creacion de personaje.
type FlowHandler struct {
	flow   *service.FlowService
	jwt    *service.JWTService
	logger *zap.Logger
}

func NewFlowHandler(flow *service.FlowService, jwt *service.JWTService, logger *zap.Logger) *FlowHandler {
	return &FlowHandler{flow: flow, jwt: jwt, logger: logger}
}

// StartFlow maneja POST /flow.
func (h *FlowHandler) StartFlow(c *gin.Context) {
	var req struct {
		Name string `json:"name"`
	}
	// Body opcional: el nombre puede llegar despues via rename.
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			h.logger.Warn("invalid start flow request", zap.Error(err))
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
			return
		}
	}

	session := h.flow.Start(req.Name)
	tokens, err := h.jwt.GeneratePair(session.ID)
	if err != nil {
		h.logger.Error("token generation failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not start flow"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"session": session, "tokens": tokens})
}

// GetFlow maneja GET /flow/:id.
func (h *FlowHandler) GetFlow(c *gin.Context) {
	session, err := h.flow.Get(c.Param("id"))
	if err != nil {
		h.respondFlowError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"session": session})
}

// SubmitPhoto maneja POST /flow/:id/photo (multipart, campo "photo").
func (h *FlowHandler) SubmitPhoto(c *gin.Context) {
	file, err := c.FormFile("photo")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "photo file is required"})
		return
	}
	if file.Size > maxPhotoBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "photo too large"})
		return
	}

	f, err := file.Open()
	if err != nil {
		h.logger.Warn("photo open failed", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not read photo"})
		return
	}
	defer f.Close()
	photo, err := io.ReadAll(io.LimitReader(f, maxPhotoBytes))
	if err != nil {
		h.logger.Warn("photo read failed", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not read photo"})
		return
	}

	session, err := h.flow.SubmitPhoto(c.Request.Context(), c.Param("id"), photo, file.Filename)
	if err != nil {
		h.respondFlowError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"session": session})
}

// ConfirmAge maneja POST /flow/:id/age.
func (h *FlowHandler) ConfirmAge(c *gin.Context) {
	var req struct {
		Age int `json:"age" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	session, err := h.flow.ConfirmAge(c.Param("id"), req.Age)
	if err != nil {
		h.respondFlowError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"session": session})
}

// ConfirmMeasures maneja POST /flow/:id/measures.
func (h *FlowHandler) ConfirmMeasures(c *gin.Context) {
	var req struct {
		Height int `json:"height" binding:"required"`
		Weight int `json:"weight" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	session, err := h.flow.ConfirmMeasures(c.Param("id"), req.Height, req.Weight)
	if err != nil {
		h.respondFlowError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"session": session})
}

// Rename maneja POST /flow/:id/name.
func (h *FlowHandler) Rename(c *gin.Context) {
	var req struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	session, err := h.flow.Rename(c.Param("id"), req.Name)
	if err != nil {
		h.respondFlowError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"session": session})
}

// RequestRender maneja POST /flow/:id/render.
func (h *FlowHandler) RequestRender(c *gin.Context) {
	var req struct {
		Style string `json:"style"`
	}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
			return
		}
	}

	session, err := h.flow.RequestRender(c.Request.Context(), c.Param("id"), domain.CartoonStyle(req.Style))
	if err != nil {
		var rErr *service.RenderError
		if errors.As(err, &rErr) {
			// La sesion quedo en Failed: el cliente ve el estado y el motivo.
			status := http.StatusBadGateway
			if rErr.Reason == service.RenderRateLimited {
				status = http.StatusTooManyRequests
			}
			c.JSON(status, gin.H{"session": session, "error": string(rErr.Reason)})
			return
		}
		h.respondFlowError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"session": session})
}

// AckFailure maneja POST /flow/:id/ack.
func (h *FlowHandler) AckFailure(c *gin.Context) {
	session, err := h.flow.AckFailure(c.Param("id"))
	if err != nil {
		h.respondFlowError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"session": session})
}

// AbandonFlow maneja DELETE /flow/:id.
func (h *FlowHandler) AbandonFlow(c *gin.Context) {
	if err := h.flow.Abandon(c.Param("id")); err != nil {
		h.respondFlowError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "abandoned"})
}

// RefreshTokens maneja POST /auth/refresh.
func (h *FlowHandler) RefreshTokens(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	tokens, err := h.jwt.RefreshPair(req.RefreshToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid refresh token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"tokens": tokens})
}

// respondFlowError mapea los errores tipados del flujo a codigos HTTP.
func (h *FlowHandler) respondFlowError(c *gin.Context, err error) {
	var vErr *service.ValidationError
	var tErr *service.InvalidTransitionError

	switch {
	case errors.Is(err, service.ErrSessionNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
	case errors.Is(err, service.ErrFlowBusy):
		c.JSON(http.StatusConflict, gin.H{"error": "operation already in flight"})
	case errors.As(err, &vErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": vErr.Error(), "field": vErr.Field})
	case errors.As(err, &tErr):
		c.JSON(http.StatusConflict, gin.H{"error": tErr.Error()})
	default:
		h.logger.Error("flow operation failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
