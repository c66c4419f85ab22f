package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/huskygraph/huskygraph-backend/internal/services"
	"github.com/huskygraph/huskygraph-backend/internal/types"
)

type IngestHandler struct {
	ingestService  *services.IngestService
	refreshService *services.RefreshService
}

func NewIngestHandler(ingestService *services.IngestService, refreshService *services.RefreshService) *IngestHandler {
	return &IngestHandler{ingestService: ingestService, refreshService: refreshService}
}

// ProcessCandidate ingests one scraped record posted by a parser worker. The
// :source path segment tags which registry produced it.
func (h *IngestHandler) ProcessCandidate(c *gin.Context) {
	source := c.Param("source")
	var candidate types.CandidateRecord
	if err := c.ShouldBindJSON(&candidate); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	dog, err := h.ingestService.ProcessCandidate(c.Request.Context(), &candidate, source)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dog)
}

func (h *IngestHandler) RefreshAll(c *gin.Context) {
	stats, err := h.refreshService.RefreshAll(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
