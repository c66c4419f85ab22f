package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/huskygraph/huskygraph-backend/internal/services"
)

type PedigreeHandler struct {
	dogService     *services.DogService
	maxGenerations int
}

func NewPedigreeHandler(dogService *services.DogService, maxGenerations int) *PedigreeHandler {
	if maxGenerations <= 0 {
		maxGenerations = 10
	}
	return &PedigreeHandler{dogService: dogService, maxGenerations: maxGenerations}
}

func (h *PedigreeHandler) GetPedigree(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	generations := parseQueryInt(c, "generations", 5)
	tree, err := h.dogService.GetPedigree(c.Request.Context(), id, generations)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tree)
}

func (h *PedigreeHandler) GetPedigreeByUUID(c *gin.Context) {
	uid := c.Param("uuid")
	if uid == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid uuid"})
		return
	}
	generations := parseQueryInt(c, "generations", 5)
	tree, err := h.dogService.GetPedigreeByUUID(c.Request.Context(), uid, generations)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tree)
}

func (h *PedigreeHandler) GetAncestors(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	generations := parseQueryInt(c, "generations", 5)
	report, err := h.dogService.GetAncestors(c.Request.Context(), id, generations)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *PedigreeHandler) CalculateCOI(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	generations := parseQueryInt(c, "max_generations", h.maxGenerations)
	report, err := h.dogService.CalculateCOI(c.Request.Context(), id, generations)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *PedigreeHandler) GetCOI(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	status, err := h.dogService.GetCOI(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, status)
}

func (h *PedigreeHandler) BatchCalculateCOI(c *gin.Context) {
	var req struct {
		DogIDs         []uint `json:"dog_ids"`
		MaxGenerations int    `json:"max_generations"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if req.MaxGenerations == 0 {
		req.MaxGenerations = h.maxGenerations
	}
	report, err := h.dogService.BatchCalculateCOI(c.Request.Context(), req.DogIDs, req.MaxGenerations)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}
