package matching

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/huskygraph/huskygraph-backend/internal/logger"
	"github.com/huskygraph/huskygraph-backend/internal/types"
)

type fakeStore struct {
	byName        map[string]*types.Dog
	byUUID        map[string]*types.Dog
	byBirthParent *types.Dog
	named         []*types.Dog
}

func (f *fakeStore) FindByRegisteredName(ctx context.Context, name string) (*types.Dog, error) {
	return f.byName[name], nil
}

func (f *fakeStore) FindByUUID(ctx context.Context, uuid string) (*types.Dog, error) {
	return f.byUUID[uuid], nil
}

func (f *fakeStore) FindByBirthAndParents(ctx context.Context, dob time.Time, sireName, damName string) (*types.Dog, error) {
	return f.byBirthParent, nil
}

func (f *fakeStore) ListNamed(ctx context.Context) ([]*types.Dog, error) {
	return f.named, nil
}

func testMatcher(t *testing.T, store Store) *Matcher {
	t.Helper()
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("logger.New: %v", err)
	}
	return NewMatcher(store, DefaultNameThreshold, log)
}

func date(y, m, d int) *time.Time {
	t := time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
	return &t
}

func TestFindExistingNoName(t *testing.T) {
	m := testMatcher(t, &fakeStore{})

	result, err := m.FindExisting(context.Background(), &types.CandidateRecord{UUID: "abc"})
	if err != nil {
		t.Fatalf("FindExisting: %v", err)
	}
	if result.Dog != nil || result.Method != MatchNoName || result.Confidence != 0 {
		t.Fatalf("no-name candidate: want=(nil, no_name, 0) got=(%v, %s, %v)", result.Dog, result.Method, result.Confidence)
	}
}

func TestFindExistingExactName(t *testing.T) {
	stored := &types.Dog{ID: 1, RegisteredName: "Nanuk of Siberia"}
	m := testMatcher(t, &fakeStore{byName: map[string]*types.Dog{"Nanuk of Siberia": stored}})

	result, err := m.FindExisting(context.Background(), &types.CandidateRecord{RegisteredName: "Nanuk of Siberia"})
	if err != nil {
		t.Fatalf("FindExisting: %v", err)
	}
	if result.Dog != stored || result.Method != MatchExactName || result.Confidence != 1.0 {
		t.Fatalf("exact match: want=(stored, exact_name, 1.0) got=(%v, %s, %v)", result.Dog, result.Method, result.Confidence)
	}
}

func TestFindExistingUUID(t *testing.T) {
	stored := &types.Dog{ID: 2, RegisteredName: "Different Stored Name", UUID: "ext-42"}
	m := testMatcher(t, &fakeStore{byUUID: map[string]*types.Dog{"ext-42": stored}})

	result, err := m.FindExisting(context.Background(), &types.CandidateRecord{RegisteredName: "Candidate Name", UUID: "ext-42"})
	if err != nil {
		t.Fatalf("FindExisting: %v", err)
	}
	if result.Dog != stored || result.Method != MatchUUID || result.Confidence != 1.0 {
		t.Fatalf("uuid match: want=(stored, uuid, 1.0) got=(%v, %s, %v)", result.Dog, result.Method, result.Confidence)
	}
}

func TestFindExistingBirthAndParents(t *testing.T) {
	stored := &types.Dog{ID: 3, RegisteredName: "Stored Litter Sister"}
	m := testMatcher(t, &fakeStore{byBirthParent: stored})

	result, err := m.FindExisting(context.Background(), &types.CandidateRecord{
		RegisteredName: "Unseen Name",
		DateOfBirth:    date(2018, 3, 14),
		SireName:       "Storm King",
		DamName:        "Aurora",
	})
	if err != nil {
		t.Fatalf("FindExisting: %v", err)
	}
	if result.Dog != stored || result.Method != MatchBirthParents {
		t.Fatalf("birth+parents match: want=(stored, birth_parents) got=(%v, %s)", result.Dog, result.Method)
	}
}

func TestFindExistingLevenshtein(t *testing.T) {
	stored := &types.Dog{ID: 4, RegisteredName: "Lodgepoles Winter Storm"}
	m := testMatcher(t, &fakeStore{named: []*types.Dog{
		{ID: 9, RegisteredName: "Completely Unrelated"},
		stored,
	}})

	result, err := m.FindExisting(context.Background(), &types.CandidateRecord{RegisteredName: "Lodgepole's Winter Storm"})
	if err != nil {
		t.Fatalf("FindExisting: %v", err)
	}
	if result.Dog != stored || result.Method != MatchLevenshtein {
		t.Fatalf("fuzzy match: want=(stored, levenshtein) got=(%v, %s)", result.Dog, result.Method)
	}
	if result.Confidence < DefaultNameThreshold {
		t.Fatalf("fuzzy confidence: want>=%v got=%v", DefaultNameThreshold, result.Confidence)
	}
}

func TestFindExistingFuzzyBonusesCanExceedOne(t *testing.T) {
	stored := &types.Dog{
		ID:             5,
		RegisteredName: "Nanuk of Siberia",
		DateOfBirth:    date(2019, 6, 1),
		SireName:       "Storm King",
		DamName:        "Aurora",
	}
	m := testMatcher(t, &fakeStore{named: []*types.Dog{stored}})

	result, err := m.FindExisting(context.Background(), &types.CandidateRecord{
		RegisteredName: "Nanuk of Siberiaa",
		DateOfBirth:    date(2019, 6, 1),
		SireName:       "Storm King",
		DamName:        "Aurora",
	})
	if err != nil {
		t.Fatalf("FindExisting: %v", err)
	}
	if result.Dog != stored || result.Method != MatchLevenshtein {
		t.Fatalf("boosted fuzzy match: want=(stored, levenshtein) got=(%v, %s)", result.Dog, result.Method)
	}
	// One inserted character over 17 runes plus all three structural
	// bonuses: 16/17 + 0.1 + 0.05 + 0.05.
	want := 16.0/17.0 + 0.2
	if math.Abs(result.Confidence-want) > 1e-9 {
		t.Fatalf("boosted confidence: want=%v got=%v", want, result.Confidence)
	}
	if result.Confidence <= 1.0 {
		t.Fatalf("boosted confidence should exceed 1.0, got=%v", result.Confidence)
	}
}

func TestFindExistingNotFound(t *testing.T) {
	m := testMatcher(t, &fakeStore{named: []*types.Dog{
		{ID: 6, RegisteredName: "Totally Different"},
	}})

	result, err := m.FindExisting(context.Background(), &types.CandidateRecord{RegisteredName: "Nanuk of Siberia"})
	if err != nil {
		t.Fatalf("FindExisting: %v", err)
	}
	if result.Dog != nil || result.Method != MatchNotFound || result.Confidence != 0 {
		t.Fatalf("miss: want=(nil, not_found, 0) got=(%v, %s, %v)", result.Dog, result.Method, result.Confidence)
	}
}

func TestFindExistingPrefersExactOverFuzzy(t *testing.T) {
	exact := &types.Dog{ID: 7, RegisteredName: "Balto"}
	near := &types.Dog{ID: 8, RegisteredName: "Baltoo"}
	m := testMatcher(t, &fakeStore{
		byName: map[string]*types.Dog{"Balto": exact},
		named:  []*types.Dog{near, exact},
	})

	result, err := m.FindExisting(context.Background(), &types.CandidateRecord{RegisteredName: "Balto"})
	if err != nil {
		t.Fatalf("FindExisting: %v", err)
	}
	if result.Dog != exact || result.Method != MatchExactName {
		t.Fatalf("strategy order: want exact_name hit, got=(%v, %s)", result.Dog, result.Method)
	}
}
