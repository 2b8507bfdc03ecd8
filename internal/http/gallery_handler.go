package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"toonify/internal/repository"
)

// GalleryHandler expone los personajes terminados.
type GalleryHandler struct {
	gallery repository.GalleryRepository
	logger  *zap.Logger
}

func NewGalleryHandler(gallery repository.GalleryRepository, logger *zap.Logger) *GalleryHandler {
	return &GalleryHandler{gallery: gallery, logger: logger}
}

// ListGallery maneja GET /gallery.
func (h *GalleryHandler) ListGallery(c *gin.Context) {
	limit := queryInt(c, "limit", 20)
	offset := queryInt(c, "offset", 0)

	recs, err := h.gallery.List(c.Request.Context(), limit, offset)
	if err != nil {
		h.logger.Error("gallery list failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list gallery"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"characters": recs, "count": len(recs)})
}

// GetCharacter maneja GET /gallery/:id.
func (h *GalleryHandler) GetCharacter(c *gin.Context) {
	rec, err := h.gallery.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "character not found"})
			return
		}
		h.logger.Error("gallery get failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load character"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"character": rec})
}

// DeleteCharacter maneja DELETE /gallery/:id.
func (h *GalleryHandler) DeleteCharacter(c *gin.Context) {
	if err := h.gallery.Delete(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "character not found"})
			return
		}
		h.logger.Error("gallery delete failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not delete character"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

// SimilarCharacters maneja GET /gallery/:id/similar: vecinos por embedding
// de personalidad.
func (h *GalleryHandler) SimilarCharacters(c *gin.Context) {
	id := c.Param("id")
	rec, err := h.gallery.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "character not found"})
			return
		}
		h.logger.Error("gallery get failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load character"})
		return
	}

	k := queryInt(c, "k", 5)
	recs, err := h.gallery.SearchSimilar(c.Request.Context(), rec.Embedding, k+1)
	if err != nil {
		h.logger.Error("gallery similarity search failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not search gallery"})
		return
	}

	// El propio personaje es su vecino mas cercano: se excluye.
	similar := recs[:0]
	for _, r := range recs {
		if r.ID != id {
			similar = append(similar, r)
		}
	}
	if len(similar) > k {
		similar = similar[:k]
	}
	c.JSON(http.StatusOK, gin.H{"characters": similar, "count": len(similar)})
}

func queryInt(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}
