package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/huskygraph/huskygraph-backend/internal/repos"
	"github.com/huskygraph/huskygraph-backend/internal/services"
	"github.com/huskygraph/huskygraph-backend/internal/types"
)

type DogHandler struct {
	dogService *services.DogService
}

func NewDogHandler(dogService *services.DogService) *DogHandler {
	return &DogHandler{dogService: dogService}
}

func (h *DogHandler) List(c *gin.Context) {
	filter := repos.DogListFilter{
		Page:           parseQueryInt(c, "page", 1),
		PerPage:        parseQueryInt(c, "per_page", 50),
		Search:         c.Query("search"),
		Color:          c.Query("color"),
		LandOfBirth:    c.Query("land_of_birth"),
		LandOfStanding: c.Query("land_of_standing"),
		SortBy:         c.Query("sort_by"),
		SortOrder:      c.Query("sort_order"),
	}
	if raw := c.Query("sex"); raw != "" {
		if sex, err := strconv.Atoi(raw); err == nil {
			filter.Sex = &sex
		}
	}
	if raw := c.Query("has_conflicts"); raw != "" {
		v := raw == "true" || raw == "1"
		filter.HasConflicts = &v
	}
	if raw := c.Query("has_photo"); raw != "" {
		v := raw == "true" || raw == "1"
		filter.HasPhoto = &v
	}
	for query, dest := range map[string]**time.Time{
		"date_of_birth_start": &filter.DateOfBirthStart,
		"date_of_birth_end":   &filter.DateOfBirthEnd,
		"date_of_death_start": &filter.DateOfDeathStart,
		"date_of_death_end":   &filter.DateOfDeathEnd,
	} {
		if raw := c.Query(query); raw != "" {
			if t, err := time.Parse("2006-01-02", raw); err == nil {
				*dest = &t
			}
		}
	}

	list, err := h.dogService.ListDogs(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *DogHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	dog, err := h.dogService.GetDog(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dog)
}

func (h *DogHandler) GetByUUID(c *gin.Context) {
	uid := c.Param("uuid")
	if uid == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid uuid"})
		return
	}
	dog, err := h.dogService.GetDogByUUID(c.Request.Context(), uid)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dog)
}

func (h *DogHandler) UpdateNotes(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req struct {
		Notes                *string `json:"notes"`
		DataCorrectnessNotes *string `json:"data_correctness_notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	dog, err := h.dogService.UpdateNotes(c.Request.Context(), id, req.Notes, req.DataCorrectnessNotes)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dog)
}

func (h *DogHandler) ResolveConflicts(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req struct {
		ResolvedFields map[string]any `json:"resolved_fields"`
		ResolvedBy     *uint          `json:"resolved_by"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	result, err := h.dogService.ResolveConflicts(c.Request.Context(), id, req.ResolvedFields, req.ResolvedBy)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *DogHandler) UndoMerge(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req struct {
		MergeLogID uint `json:"merge_log_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.MergeLogID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid merge_log_id"})
		return
	}
	result, err := h.dogService.UndoMerge(c.Request.Context(), id, req.MergeLogID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *DogHandler) ListMergeLogs(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	logs, err := h.dogService.ListMergeLogs(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"dog_id": id, "merge_logs": logs})
}

// MedicalRecordHandler imports and lists health-screening results.
type MedicalRecordHandler struct {
	ingestService *services.IngestService
	medicalRepo   repos.MedicalRecordRepo
}

func NewMedicalRecordHandler(ingestService *services.IngestService, medicalRepo repos.MedicalRecordRepo) *MedicalRecordHandler {
	return &MedicalRecordHandler{ingestService: ingestService, medicalRepo: medicalRepo}
}

func (h *MedicalRecordHandler) Import(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req struct {
		Records []types.MedicalRecord `json:"records"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	created, err := h.ingestService.ImportMedicalRecords(c.Request.Context(), id, req.Records)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"dog_id": id, "created": created})
}

func (h *MedicalRecordHandler) List(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	records, err := h.medicalRepo.ListByDog(c.Request.Context(), nil, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"dog_id": id, "records": records})
}
