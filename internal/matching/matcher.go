package matching

import (
	"context"
	"strings"
	"time"

	"github.com/huskygraph/huskygraph-backend/internal/logger"
	"github.com/huskygraph/huskygraph-backend/internal/types"
)

// DefaultNameThreshold is the minimum normalized name similarity a fuzzy
// match must reach before bonuses are considered.
const DefaultNameThreshold = 0.8

const parentNameThreshold = 0.7

type MatchMethod string

const (
	MatchNoName       MatchMethod = "no_name"
	MatchExactName    MatchMethod = "exact_name"
	MatchUUID         MatchMethod = "uuid"
	MatchBirthParents MatchMethod = "birth_parents"
	MatchLevenshtein  MatchMethod = "levenshtein"
	MatchNotFound     MatchMethod = "not_found"
)

type MatchResult struct {
	Dog        *types.Dog
	Method     MatchMethod
	Confidence float64
}

// Store is the read surface the matcher needs. Lookup methods return
// (nil, nil) when nothing matches.
type Store interface {
	FindByRegisteredName(ctx context.Context, name string) (*types.Dog, error)
	FindByUUID(ctx context.Context, uuid string) (*types.Dog, error)
	FindByBirthAndParents(ctx context.Context, dateOfBirth time.Time, sireName, damName string) (*types.Dog, error)
	ListNamed(ctx context.Context) ([]*types.Dog, error)
}

// Matcher resolves a candidate record to an already-stored dog, trying strict
// strategies before falling back to fuzzy name matching: exact strategies
// avoid false positives, the Levenshtein pass catches near-duplicate scrapes
// with typos or transliteration differences across sites.
type Matcher struct {
	store     Store
	threshold float64
	log       *logger.Logger
}

func NewMatcher(store Store, threshold float64, baseLog *logger.Logger) *Matcher {
	if threshold <= 0 {
		threshold = DefaultNameThreshold
	}
	matcherLog := baseLog.With("service", "Matcher")
	return &Matcher{store: store, threshold: threshold, log: matcherLog}
}

// FindExisting returns the best stored match for the candidate, the strategy
// that produced it, and a confidence score. A candidate without a registered
// name is an expected scraping outcome and yields (nil, no_name, 0) without
// touching the store.
func (m *Matcher) FindExisting(ctx context.Context, candidate *types.CandidateRecord) (*MatchResult, error) {
	if candidate == nil || candidate.RegisteredName == "" {
		return &MatchResult{Method: MatchNoName, Confidence: 0.0}, nil
	}

	// 1. Exact registered name.
	dog, err := m.store.FindByRegisteredName(ctx, candidate.RegisteredName)
	if err != nil {
		return nil, err
	}
	if dog != nil {
		return &MatchResult{Dog: dog, Method: MatchExactName, Confidence: 1.0}, nil
	}

	// 2. External identifier.
	if candidate.UUID != "" {
		dog, err = m.store.FindByUUID(ctx, candidate.UUID)
		if err != nil {
			return nil, err
		}
		if dog != nil {
			return &MatchResult{Dog: dog, Method: MatchUUID, Confidence: 1.0}, nil
		}
	}

	// 3. Birth date plus parent names.
	if candidate.DateOfBirth != nil && (candidate.SireName != "" || candidate.DamName != "") {
		dog, err = m.store.FindByBirthAndParents(ctx, *candidate.DateOfBirth, candidate.SireName, candidate.DamName)
		if err != nil {
			return nil, err
		}
		if dog != nil {
			return &MatchResult{Dog: dog, Method: MatchBirthParents, Confidence: 1.0}, nil
		}
	}

	// 4. Fuzzy name scan with structural bonuses.
	best, confidence, err := m.fuzzyMatch(ctx, candidate)
	if err != nil {
		return nil, err
	}
	if best != nil {
		m.log.Debug("fuzzy match accepted",
			"candidate_name", candidate.RegisteredName,
			"matched_name", best.RegisteredName,
			"confidence", confidence)
		return &MatchResult{Dog: best, Method: MatchLevenshtein, Confidence: confidence}, nil
	}

	return &MatchResult{Method: MatchNotFound, Confidence: 0.0}, nil
}

func (m *Matcher) fuzzyMatch(ctx context.Context, candidate *types.CandidateRecord) (*types.Dog, float64, error) {
	dogs, err := m.store.ListNamed(ctx)
	if err != nil {
		return nil, 0, err
	}

	candidateName := strings.ToLower(strings.TrimSpace(candidate.RegisteredName))

	var best *types.Dog
	bestScore := 0.0

	for _, dog := range dogs {
		if dog.RegisteredName == "" {
			continue
		}

		score := Similarity(candidateName, strings.ToLower(strings.TrimSpace(dog.RegisteredName)))
		if score <= bestScore || score < m.threshold {
			continue
		}

		// Structural bonuses stack on top of the raw name score; the boosted
		// score is what competes against the running best and what the caller
		// sees, so confidence can exceed 1.0.
		if candidate.DateOfBirth != nil && dog.DateOfBirth != nil && candidate.DateOfBirth.Equal(*dog.DateOfBirth) {
			score += 0.1
		}
		if candidate.SireName != "" && dog.SireName != "" && IsSimilarName(candidate.SireName, dog.SireName, parentNameThreshold) {
			score += 0.05
		}
		if candidate.DamName != "" && dog.DamName != "" && IsSimilarName(candidate.DamName, dog.DamName, parentNameThreshold) {
			score += 0.05
		}

		if score > bestScore {
			bestScore = score
			best = dog
		}
	}

	return best, bestScore, nil
}
