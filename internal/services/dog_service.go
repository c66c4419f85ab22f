package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/huskygraph/huskygraph-backend/internal/logger"
	"github.com/huskygraph/huskygraph-backend/internal/matching"
	"github.com/huskygraph/huskygraph-backend/internal/pedigree"
	"github.com/huskygraph/huskygraph-backend/internal/repos"
	"github.com/huskygraph/huskygraph-backend/internal/types"
)

// PaginationMeta mirrors the list envelope returned to clients.
type PaginationMeta struct {
	Page       int   `json:"page"`
	PerPage    int   `json:"per_page"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasMore    bool  `json:"has_more"`
}

type DogList struct {
	Data []*types.Dog   `json:"data"`
	Meta PaginationMeta `json:"meta"`
}

// COIReport is the result of a fresh coefficient-of-inbreeding run.
type COIReport struct {
	DogID               uint                      `json:"dog_id"`
	DogName             string                    `json:"dog_name"`
	COI                 float64                   `json:"coi"`
	COIPercentage       float64                   `json:"coi_percentage"`
	GenerationsAnalyzed int                       `json:"generations_analyzed"`
	CommonAncestors     []pedigree.CommonAncestor `json:"common_ancestors"`
	CalculationDetails  []pedigree.PathDetail     `json:"calculation_details"`
	PedigreeTruncated   bool                      `json:"pedigree_truncated"`
	UpdatedAt           time.Time                 `json:"updated_at"`
}

// COIStatus reports the stored coefficient without recomputing it.
type COIStatus struct {
	DogID         uint       `json:"dog_id"`
	DogName       string     `json:"dog_name"`
	COI           *float64   `json:"coi"`
	COIPercentage *float64   `json:"coi_percentage"`
	COIUpdatedOn  *time.Time `json:"coi_updated_on"`
	HasCOI        bool       `json:"has_coi"`
}

type BatchCOIItem struct {
	DogID  uint       `json:"dog_id"`
	OK     bool       `json:"ok"`
	Report *COIReport `json:"report,omitempty"`
	Error  string     `json:"error,omitempty"`
}

type BatchCOIReport struct {
	TotalDogs  int            `json:"total_dogs"`
	Successful int            `json:"successful"`
	Failed     int            `json:"failed"`
	Results    []BatchCOIItem `json:"results"`
}

// PedigreeNode is a nested ancestor tree rooted at one dog.
type PedigreeNode struct {
	ID   uint          `json:"id"`
	Name string        `json:"name"`
	Dam  *PedigreeNode `json:"dam"`
	Sire *PedigreeNode `json:"sire"`
}

// AncestorEntry is one row of the flattened ancestor listing. Position is a
// dotted parent chain such as "dam.sire".
type AncestorEntry struct {
	ID             uint       `json:"id"`
	UUID           string     `json:"uuid"`
	RegisteredName string     `json:"registered_name"`
	CallName       string     `json:"call_name"`
	Sex            int        `json:"sex"`
	DateOfBirth    *time.Time `json:"date_of_birth"`
	Generation     int        `json:"generation"`
	Position       string     `json:"position"`
	Source         string     `json:"source"`
}

type AncestorsReport struct {
	DogID          uint            `json:"dog_id"`
	Generations    int             `json:"generations"`
	Ancestors      []AncestorEntry `json:"ancestors"`
	TotalAncestors int             `json:"total_ancestors"`
}

type ResolveResult struct {
	DogID      uint `json:"dog_id"`
	MergeLogID uint `json:"merge_log_id"`
}

type UndoResult struct {
	DogID          uint              `json:"dog_id"`
	RestoredFields map[string]any    `json:"restored_fields"`
	HasConflicts   bool              `json:"has_conflicts"`
	Conflicts      types.ConflictMap `json:"conflicts"`
}

type DogService struct {
	db        *gorm.DB
	dogs      repos.DogRepo
	mergeLogs repos.MergeLogRepo
	cache     Cache
	cacheTTL  time.Duration
	log       *logger.Logger
}

func NewDogService(db *gorm.DB, dogs repos.DogRepo, mergeLogs repos.MergeLogRepo, cache Cache, cacheTTL time.Duration, baseLog *logger.Logger) *DogService {
	return &DogService{
		db:        db,
		dogs:      dogs,
		mergeLogs: mergeLogs,
		cache:     cache,
		cacheTTL:  cacheTTL,
		log:       baseLog.With("service", "dog"),
	}
}

func (s *DogService) GetDog(ctx context.Context, id uint) (*types.Dog, error) {
	return s.dogs.GetByIDWithRelations(ctx, nil, id)
}

func (s *DogService) GetDogByUUID(ctx context.Context, uid string) (*types.Dog, error) {
	return s.dogs.GetByUUID(ctx, nil, uid)
}

func (s *DogService) ListDogs(ctx context.Context, filter repos.DogListFilter) (*DogList, error) {
	key := listCacheKey(filter)
	if s.cache != nil {
		var cached DogList
		hit, err := s.cache.Get(ctx, key, &cached)
		if err != nil {
			s.log.Warn("dog list cache read failed", "error", err)
		} else if hit {
			return &cached, nil
		}
	}

	dogs, total, err := s.dogs.List(ctx, nil, filter)
	if err != nil {
		return nil, err
	}

	perPage := filter.PerPage
	if perPage <= 0 {
		perPage = 50
	}
	page := filter.Page
	if page <= 0 {
		page = 1
	}
	totalPages := int((total + int64(perPage) - 1) / int64(perPage))
	out := &DogList{
		Data: dogs,
		Meta: PaginationMeta{
			Page:       page,
			PerPage:    perPage,
			Total:      total,
			TotalPages: totalPages,
			HasMore:    page < totalPages,
		},
	}
	if s.cache != nil {
		if err := s.cache.Set(ctx, key, out, s.cacheTTL); err != nil {
			s.log.Warn("dog list cache write failed", "error", err)
		}
	}
	return out, nil
}

func listCacheKey(filter repos.DogListFilter) string {
	raw, _ := json.Marshal(filter)
	sum := sha256.Sum256(raw)
	return "dogs:list:" + hex.EncodeToString(sum[:8])
}

// UpdateNotes changes the free-text annotation fields. Nil pointers leave the
// corresponding field untouched.
func (s *DogService) UpdateNotes(ctx context.Context, id uint, notes, dataCorrectnessNotes *string) (*types.Dog, error) {
	dog, err := s.dogs.GetByID(ctx, nil, id)
	if err != nil {
		return nil, err
	}
	if notes != nil {
		dog.Notes = *notes
	}
	if dataCorrectnessNotes != nil {
		dog.DataCorrectnessNotes = *dataCorrectnessNotes
	}
	if err := s.dogs.Save(ctx, nil, dog); err != nil {
		return nil, err
	}
	return dog, nil
}

// dogLoader adapts DogRepo to the pedigree builder, translating a missing row
// into the (nil, nil) the builder expects.
type dogLoader struct {
	dogs repos.DogRepo
}

func (l dogLoader) DogByID(ctx context.Context, id uint) (*types.Dog, error) {
	dog, err := l.dogs.GetByID(ctx, nil, id)
	if err != nil {
		if err == repos.ErrNotFound {
			return nil, nil
		}
		return nil, err
	}
	return dog, nil
}

// CalculateCOI recomputes Wright's coefficient over at most maxGenerations of
// ancestry and persists the result on the dog row.
func (s *DogService) CalculateCOI(ctx context.Context, id uint, maxGenerations int) (*COIReport, error) {
	if maxGenerations < 1 {
		return nil, ErrInvalidGenerations
	}
	dog, err := s.dogs.GetByID(ctx, nil, id)
	if err != nil {
		return nil, err
	}

	tree, truncated, err := pedigree.Build(ctx, dogLoader{dogs: s.dogs}, dog, maxGenerations)
	if err != nil {
		return nil, err
	}
	result := pedigree.CalculateCOI(tree)

	now := time.Now().UTC()
	dog.COI = &result.COI
	dog.COIUpdatedOn = &now
	if err := s.dogs.Save(ctx, nil, dog); err != nil {
		return nil, err
	}
	s.log.Info("coi calculated",
		"dog_id", dog.ID,
		"coi", result.COI,
		"generations", result.GenerationsAnalyzed,
		"truncated", truncated)

	return &COIReport{
		DogID:               dog.ID,
		DogName:             dog.RegisteredName,
		COI:                 result.COI,
		COIPercentage:       result.COI * 100,
		GenerationsAnalyzed: result.GenerationsAnalyzed,
		CommonAncestors:     result.CommonAncestors,
		CalculationDetails:  result.Details,
		PedigreeTruncated:   truncated,
		UpdatedAt:           now,
	}, nil
}

// GetCOI returns the stored coefficient and refreshes its read timestamp.
func (s *DogService) GetCOI(ctx context.Context, id uint) (*COIStatus, error) {
	dog, err := s.dogs.GetByID(ctx, nil, id)
	if err != nil {
		return nil, err
	}
	status := &COIStatus{
		DogID:        dog.ID,
		DogName:      dog.RegisteredName,
		COI:          dog.COI,
		COIUpdatedOn: dog.COIUpdatedOn,
		HasCOI:       dog.COI != nil,
	}
	if dog.COI != nil {
		pct := *dog.COI * 100
		status.COIPercentage = &pct
		now := time.Now().UTC()
		dog.COIUpdatedOn = &now
		status.COIUpdatedOn = &now
		if err := s.dogs.Save(ctx, nil, dog); err != nil {
			return nil, err
		}
	}
	return status, nil
}

// BatchCalculateCOI runs CalculateCOI for each id, collecting per-dog
// failures instead of aborting the batch.
func (s *DogService) BatchCalculateCOI(ctx context.Context, ids []uint, maxGenerations int) (*BatchCOIReport, error) {
	if maxGenerations < 1 {
		return nil, ErrInvalidGenerations
	}
	if len(ids) > 100 {
		return nil, ErrBatchTooLarge
	}
	report := &BatchCOIReport{TotalDogs: len(ids)}
	for _, id := range ids {
		item := BatchCOIItem{DogID: id}
		coi, err := s.CalculateCOI(ctx, id, maxGenerations)
		if err != nil {
			item.Error = err.Error()
			report.Failed++
		} else {
			item.OK = true
			item.Report = coi
			report.Successful++
		}
		report.Results = append(report.Results, item)
	}
	return report, nil
}

// GetPedigree returns the nested ancestor tree up to the requested number of
// generations.
func (s *DogService) GetPedigree(ctx context.Context, id uint, generations int) (*PedigreeNode, error) {
	if generations < 1 {
		return nil, ErrInvalidGenerations
	}
	dog, err := s.dogs.GetByID(ctx, nil, id)
	if err != nil {
		return nil, err
	}
	return s.buildPedigreeNode(ctx, dog, generations)
}

func (s *DogService) GetPedigreeByUUID(ctx context.Context, uid string, generations int) (*PedigreeNode, error) {
	if generations < 1 {
		return nil, ErrInvalidGenerations
	}
	dog, err := s.dogs.GetByUUID(ctx, nil, uid)
	if err != nil {
		return nil, err
	}
	return s.buildPedigreeNode(ctx, dog, generations)
}

func (s *DogService) buildPedigreeNode(ctx context.Context, dog *types.Dog, depth int) (*PedigreeNode, error) {
	if dog == nil || depth == 0 {
		return nil, nil
	}
	node := &PedigreeNode{ID: dog.ID, Name: dog.RegisteredName}
	var err error
	if node.Dam, err = s.parentNode(ctx, dog.DamID, depth-1); err != nil {
		return nil, err
	}
	if node.Sire, err = s.parentNode(ctx, dog.SireID, depth-1); err != nil {
		return nil, err
	}
	return node, nil
}

func (s *DogService) parentNode(ctx context.Context, parentID *uint, depth int) (*PedigreeNode, error) {
	if parentID == nil || depth == 0 {
		return nil, nil
	}
	parent, err := s.dogs.GetByID(ctx, nil, *parentID)
	if err != nil {
		if err == repos.ErrNotFound {
			return nil, nil
		}
		return nil, err
	}
	return s.buildPedigreeNode(ctx, parent, depth)
}

// GetAncestors flattens the pedigree into a position-labelled list, for
// clients that render tables rather than trees.
func (s *DogService) GetAncestors(ctx context.Context, id uint, generations int) (*AncestorsReport, error) {
	if generations < 1 {
		return nil, ErrInvalidGenerations
	}
	dog, err := s.dogs.GetByID(ctx, nil, id)
	if err != nil {
		return nil, err
	}
	report := &AncestorsReport{DogID: dog.ID, Generations: generations}
	if err := s.collectAncestors(ctx, dog, "", 1, generations, report); err != nil {
		return nil, err
	}
	report.TotalAncestors = len(report.Ancestors)
	return report, nil
}

func (s *DogService) collectAncestors(ctx context.Context, dog *types.Dog, position string, generation, maxGenerations int, report *AncestorsReport) error {
	if generation > maxGenerations {
		return nil
	}
	for _, side := range []struct {
		label string
		id    *uint
	}{
		{"dam", dog.DamID},
		{"sire", dog.SireID},
	} {
		if side.id == nil {
			continue
		}
		parent, err := s.dogs.GetByID(ctx, nil, *side.id)
		if err != nil {
			if err == repos.ErrNotFound {
				continue
			}
			return err
		}
		pos := side.label
		if position != "" {
			pos = position + "." + side.label
		}
		report.Ancestors = append(report.Ancestors, AncestorEntry{
			ID:             parent.ID,
			UUID:           parent.UUID,
			RegisteredName: parent.RegisteredName,
			CallName:       parent.CallName,
			Sex:            parent.Sex,
			DateOfBirth:    parent.DateOfBirth,
			Generation:     generation,
			Position:       pos,
			Source:         parent.Source,
		})
		if err := s.collectAncestors(ctx, parent, pos, generation+1, maxGenerations, report); err != nil {
			return err
		}
	}
	return nil
}

// ResolveConflicts applies per-field decisions to a conflicted dog, clears its
// conflict state and writes a merge log so the operation can be undone.
func (s *DogService) ResolveConflicts(ctx context.Context, dogID uint, resolved map[string]any, resolvedBy *uint) (*ResolveResult, error) {
	if len(resolved) == 0 {
		return nil, ErrNoResolvedFields
	}
	var result *ResolveResult
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dog, err := s.dogs.GetByID(ctx, tx, dogID)
		if err != nil {
			return err
		}

		oldValues := make(map[string]any, len(resolved))
		for field := range resolved {
			v, ok := matching.FieldValue(dog, field)
			if !ok {
				return fmt.Errorf("%w: %q", matching.ErrUnknownField, field)
			}
			oldValues[field] = v
		}
		oldConflicts := dog.Conflicts

		for field, value := range resolved {
			if err := matching.SetFieldValue(dog, field, value); err != nil {
				return err
			}
		}
		newValues := make(map[string]any, len(resolved))
		for field := range resolved {
			v, ok := matching.FieldValue(dog, field)
			if !ok {
				return fmt.Errorf("%w: %q", matching.ErrUnknownField, field)
			}
			newValues[field] = v
		}

		dog.HasConflicts = false
		dog.Conflicts = nil
		if err := s.dogs.Save(ctx, tx, dog); err != nil {
			return err
		}

		entry := &types.MergeLog{DogID: dog.ID, ResolvedDate: time.Now().UTC(), ResolvedByUserID: resolvedBy}
		if entry.ResolvedFields, err = asJSON(fieldNames(resolved)); err != nil {
			return err
		}
		if entry.OldValues, err = asJSON(oldValues); err != nil {
			return err
		}
		if entry.NewValues, err = asJSON(newValues); err != nil {
			return err
		}
		if len(oldConflicts) > 0 {
			if entry.Conflicts, err = asJSON(oldConflicts); err != nil {
				return err
			}
		}
		if err := s.mergeLogs.Create(ctx, tx, entry); err != nil {
			return err
		}
		result = &ResolveResult{DogID: dog.ID, MergeLogID: entry.ID}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("conflicts resolved", "dog_id", result.DogID, "merge_log_id", result.MergeLogID)
	return result, nil
}

// UndoMerge restores the field values and conflict state captured by a merge
// log, then consumes the log.
func (s *DogService) UndoMerge(ctx context.Context, dogID, mergeLogID uint) (*UndoResult, error) {
	var result *UndoResult
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		entry, err := s.mergeLogs.GetForDog(ctx, tx, mergeLogID, dogID)
		if err != nil {
			return err
		}
		dog, err := s.dogs.GetByID(ctx, tx, dogID)
		if err != nil {
			return err
		}

		var oldValues map[string]any
		if len(entry.OldValues) > 0 {
			if err := json.Unmarshal(entry.OldValues, &oldValues); err != nil {
				return fmt.Errorf("decode old values: %w", err)
			}
		}
		for field, value := range oldValues {
			if err := matching.SetFieldValue(dog, field, value); err != nil {
				return err
			}
		}

		var conflicts types.ConflictMap
		if len(entry.Conflicts) > 0 {
			if err := json.Unmarshal(entry.Conflicts, &conflicts); err != nil {
				return fmt.Errorf("decode conflicts: %w", err)
			}
		}
		dog.Conflicts = conflicts
		dog.HasConflicts = len(conflicts) > 0
		if err := s.dogs.Save(ctx, tx, dog); err != nil {
			return err
		}
		if err := s.mergeLogs.Delete(ctx, tx, entry); err != nil {
			return err
		}
		result = &UndoResult{
			DogID:          dog.ID,
			RestoredFields: oldValues,
			HasConflicts:   dog.HasConflicts,
			Conflicts:      conflicts,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("merge undone", "dog_id", result.DogID, "merge_log_id", mergeLogID)
	return result, nil
}

func (s *DogService) ListMergeLogs(ctx context.Context, dogID uint) ([]*types.MergeLog, error) {
	if _, err := s.dogs.GetByID(ctx, nil, dogID); err != nil {
		return nil, err
	}
	return s.mergeLogs.ListByDog(ctx, nil, dogID)
}

func fieldNames(resolved map[string]any) []string {
	names := make([]string, 0, len(resolved))
	for field := range resolved {
		names = append(names, field)
	}
	return names
}

func asJSON(v any) (datatypes.JSON, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(raw), nil
}
