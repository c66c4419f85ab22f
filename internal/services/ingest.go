package services

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/huskygraph/huskygraph-backend/internal/logger"
	"github.com/huskygraph/huskygraph-backend/internal/matching"
	"github.com/huskygraph/huskygraph-backend/internal/repos"
	"github.com/huskygraph/huskygraph-backend/internal/types"
)

// IngestService turns scraped candidate records into stored dogs. Parents are
// resolved depth-first before the dog that references them, so foreign keys
// always point at persisted rows.
type IngestService struct {
	dogs     repos.DogRepo
	litters  repos.LitterRepo
	people   repos.PersonRepo
	titles   repos.TitleRepo
	medical  repos.MedicalRecordRepo
	matcher  *matching.Matcher
	maxDepth int
	cache    Cache
	log      *logger.Logger
}

func NewIngestService(
	dogs repos.DogRepo,
	litters repos.LitterRepo,
	people repos.PersonRepo,
	titles repos.TitleRepo,
	medical repos.MedicalRecordRepo,
	matcher *matching.Matcher,
	maxDepth int,
	cache Cache,
	baseLog *logger.Logger,
) *IngestService {
	if maxDepth <= 0 {
		maxDepth = 6
	}
	return &IngestService{
		dogs:     dogs,
		litters:  litters,
		people:   people,
		titles:   titles,
		medical:  medical,
		matcher:  matcher,
		maxDepth: maxDepth,
		cache:    cache,
		log:      baseLog.With("service", "ingest"),
	}
}

// ProcessCandidate ingests one scraped record and its reachable relatives.
// source overrides the candidate's own source tag when non-empty.
func (s *IngestService) ProcessCandidate(ctx context.Context, candidate *types.CandidateRecord, source string) (*types.Dog, error) {
	if candidate == nil || (candidate.RegisteredName == "" && candidate.UUID == "") {
		return nil, ErrEmptyCandidate
	}
	if source == "" {
		source = candidate.Source
	}
	visited := make(map[string]bool)
	dog, err := s.processDog(ctx, candidate, source, visited, s.maxDepth)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if cerr := s.cache.ClearPattern(ctx, "dogs:*"); cerr != nil {
			s.log.Warn("cache invalidation failed", "error", cerr)
		}
	}
	return dog, nil
}

func visitKey(c *types.CandidateRecord) string {
	if c.UUID != "" {
		return c.UUID
	}
	return "name:" + strings.ToLower(strings.TrimSpace(c.RegisteredName))
}

func (s *IngestService) processDog(ctx context.Context, c *types.CandidateRecord, source string, visited map[string]bool, depth int) (*types.Dog, error) {
	if c == nil {
		return nil, nil
	}
	if depth <= 0 {
		s.log.Warn("recursion depth exhausted", "name", c.RegisteredName, "uuid", c.UUID)
		return nil, nil
	}
	visited[visitKey(c)] = true

	match, err := s.matcher.FindExisting(ctx, c)
	if err != nil {
		return nil, err
	}

	// Parents first: the row about to be written references them by id.
	dam, err := s.processRelated(ctx, c.Dam, source, visited, depth-1)
	if err != nil {
		return nil, err
	}
	sire, err := s.processRelated(ctx, c.Sire, source, visited, depth-1)
	if err != nil {
		return nil, err
	}

	var dog *types.Dog
	if match.Dog != nil {
		dog = match.Dog
		changed, conflicts := matching.Merge(dog, c, source)
		if dog.DamID == nil && dam != nil {
			dog.DamID = &dam.ID
			changed = true
		}
		if dog.SireID == nil && sire != nil {
			dog.SireID = &sire.ID
			changed = true
		}
		if changed {
			if err := s.dogs.Save(ctx, nil, dog); err != nil {
				return nil, err
			}
		}
		s.log.Info("candidate merged",
			"dog_id", dog.ID,
			"method", match.Method,
			"confidence", match.Confidence,
			"changed", changed,
			"conflicts", len(conflicts))
	} else {
		dog = newDogFromCandidate(c, source)
		if dam != nil {
			dog.DamID = &dam.ID
		}
		if sire != nil {
			dog.SireID = &sire.ID
		}
		if err := s.dogs.Create(ctx, nil, dog); err != nil {
			return nil, err
		}
		s.log.Info("candidate created", "dog_id", dog.ID, "name", dog.RegisteredName, "source", source)
	}

	if err := s.syncRelations(ctx, dog, c, source); err != nil {
		return nil, err
	}
	return dog, nil
}

// processRelated resolves a nested relative. A relative already visited in
// this ingestion run is only looked up, never reprocessed, which breaks
// cycles in self-referential pedigrees.
func (s *IngestService) processRelated(ctx context.Context, rel *types.CandidateRecord, source string, visited map[string]bool, depth int) (*types.Dog, error) {
	if rel == nil || (rel.RegisteredName == "" && rel.UUID == "") {
		return nil, nil
	}
	if visited[visitKey(rel)] {
		match, err := s.matcher.FindExisting(ctx, rel)
		if err != nil {
			return nil, err
		}
		return match.Dog, nil
	}
	if depth <= 0 {
		match, err := s.matcher.FindExisting(ctx, rel)
		if err != nil {
			return nil, err
		}
		return match.Dog, nil
	}
	return s.processDog(ctx, rel, source, visited, depth)
}

func newDogFromCandidate(c *types.CandidateRecord, source string) *types.Dog {
	dog := &types.Dog{
		UUID:         c.UUID,
		LinkName:     c.LinkName,
		ColorMarking: c.ColorMarking,
		Source:       source,
	}
	if dog.UUID == "" {
		dog.UUID = uuid.NewString()
	}
	// A zero-valued dog has nothing to conflict with; the merge simply fills
	// every reported field.
	matching.Merge(dog, c, source)
	dog.HasConflicts = false
	dog.Conflicts = nil

	if len(c.HealthInfoGeneral) > 0 {
		if raw, err := json.Marshal(c.HealthInfoGeneral); err == nil {
			dog.HealthInfoGeneral = datatypes.JSON(raw)
		}
	}
	if len(c.HealthInfoGenetic) > 0 {
		if raw, err := json.Marshal(c.HealthInfoGenetic); err == nil {
			dog.HealthInfoGenetic = datatypes.JSON(raw)
		}
	}
	return dog
}

func (s *IngestService) syncRelations(ctx context.Context, dog *types.Dog, c *types.CandidateRecord, source string) error {
	if len(c.Breeders) > 0 {
		var breeders []types.Breeder
		for _, p := range c.Breeders {
			if p == nil || p.Name == "" {
				continue
			}
			b, err := s.people.GetOrCreateBreeder(ctx, nil, types.Breeder{UUID: p.UUID, Name: p.Name, IsBreeder: true})
			if err != nil {
				return err
			}
			breeders = append(breeders, *b)
		}
		if len(breeders) > 0 {
			if err := s.dogs.ReplaceBreeders(ctx, nil, dog, breeders); err != nil {
				return err
			}
		}
	}

	if len(c.Owners) > 0 {
		var owners []types.Owner
		for _, p := range c.Owners {
			if p == nil || p.Name == "" {
				continue
			}
			o, err := s.people.GetOrCreateOwner(ctx, nil, types.Owner{UUID: p.UUID, Name: p.Name, IsMainOwner: p.IsMainOwner})
			if err != nil {
				return err
			}
			owners = append(owners, *o)
		}
		if len(owners) > 0 {
			if err := s.dogs.ReplaceOwners(ctx, nil, dog, owners); err != nil {
				return err
			}
		}
	}

	if len(c.Titles) > 0 {
		titles := make([]types.Title, 0, len(c.Titles))
		for _, t := range c.Titles {
			if t == nil || t.ShortName == "" {
				continue
			}
			titles = append(titles, types.Title{
				ShortName:     t.ShortName,
				LongName:      t.LongName,
				IsPrefix:      t.IsPrefix,
				HasWinnerYear: t.HasWinnerYear,
				WinnerYear:    t.WinnerYear,
			})
		}
		if err := s.titles.ReplaceForDog(ctx, nil, dog.ID, titles); err != nil {
			return err
		}
	}

	if len(c.Siblings) > 0 {
		// Siblings are matched, never created: a sibling stub with only a
		// name is too thin to seed a row.
		var siblings []*types.Dog
		for _, sib := range c.Siblings {
			match, err := s.matcher.FindExisting(ctx, sib)
			if err != nil {
				return err
			}
			if match.Dog != nil && match.Dog.ID != dog.ID {
				siblings = append(siblings, match.Dog)
			}
		}
		if len(siblings) > 0 {
			if err := s.dogs.ReplaceSiblings(ctx, nil, dog, siblings); err != nil {
				return err
			}
		}
	}

	for _, cl := range c.Litters {
		if cl == nil {
			continue
		}
		if err := s.syncLitter(ctx, dog, cl); err != nil {
			return err
		}
	}
	return nil
}

// syncLitter records a breeding event. Litter parents are matched against
// stored dogs only; the dog being ingested stands in for whichever side it
// occupies.
func (s *IngestService) syncLitter(ctx context.Context, dog *types.Dog, cl *types.CandidateLitter) error {
	damID := s.litterParentID(ctx, dog, cl.Dam)
	sireID := s.litterParentID(ctx, dog, cl.Sire)
	if damID == nil && sireID == nil {
		return nil
	}

	litter, err := s.litters.FindByParentsAndDate(ctx, nil, damID, sireID, cl.DateOfBirth)
	if err != nil {
		return err
	}
	if litter == nil {
		litter = &types.Litter{
			DateOfBirth:       cl.DateOfBirth,
			LitterMaleCount:   cl.LitterMaleCount,
			LitterFemaleCount: cl.LitterFemaleCount,
			LitterUndefCount:  cl.LitterUndefCount,
			DamID:             damID,
			SireID:            sireID,
		}
		if err := s.litters.Create(ctx, nil, litter); err != nil {
			return err
		}
	}

	for _, pup := range cl.Puppies {
		if pup == nil {
			continue
		}
		match, err := s.matcher.FindExisting(ctx, pup)
		if err != nil {
			return err
		}
		if match.Dog == nil || match.Dog.BirthLitterID != nil {
			continue
		}
		match.Dog.BirthLitterID = &litter.ID
		if err := s.dogs.Save(ctx, nil, match.Dog); err != nil {
			return err
		}
	}
	return nil
}

func (s *IngestService) litterParentID(ctx context.Context, dog *types.Dog, parent *types.CandidateRecord) *uint {
	if parent == nil {
		return nil
	}
	if parent.UUID != "" && parent.UUID == dog.UUID {
		return &dog.ID
	}
	match, err := s.matcher.FindExisting(ctx, parent)
	if err != nil || match.Dog == nil {
		return nil
	}
	return &match.Dog.ID
}

// ImportMedicalRecords attaches screening results to a dog, skipping entries
// whose OFA number is already on file.
func (s *IngestService) ImportMedicalRecords(ctx context.Context, dogID uint, records []types.MedicalRecord) (int, error) {
	if _, err := s.dogs.GetByID(ctx, nil, dogID); err != nil {
		return 0, err
	}
	created := 0
	for i := range records {
		rec := records[i]
		rec.ID = 0
		rec.DogID = dogID
		if rec.OFANumber != "" {
			existing, err := s.medical.FindByOFANumber(ctx, nil, dogID, rec.OFANumber)
			if err != nil {
				return created, err
			}
			if existing != nil {
				continue
			}
		}
		if err := s.medical.Create(ctx, nil, &rec); err != nil {
			return created, err
		}
		created++
	}
	return created, nil
}
