package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/huskygraph/huskygraph-backend/internal/matching"
	"github.com/huskygraph/huskygraph-backend/internal/repos"
	"github.com/huskygraph/huskygraph-backend/internal/services"
)

// respondError maps domain errors onto HTTP statuses: missing rows become
// 404, caller mistakes become 400, everything else is a 500.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, repos.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrInvalidGenerations),
		errors.Is(err, services.ErrNoResolvedFields),
		errors.Is(err, services.ErrBatchTooLarge),
		errors.Is(err, services.ErrEmptyCandidate),
		errors.Is(err, matching.ErrUnknownField):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

func parseID(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return uint(id), true
}

func parseQueryInt(c *gin.Context, name string, fallback int) int {
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
