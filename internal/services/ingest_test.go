package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/huskygraph/huskygraph-backend/internal/types"
)

func TestProcessCandidateCreatesFamily(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	dob := time.Date(2020, 4, 2, 0, 0, 0, 0, time.UTC)
	candidate := &types.CandidateRecord{
		UUID:           "ext-pup",
		RegisteredName: "Lodgepole's Winter Storm",
		Sex:            types.SexMale,
		DateOfBirth:    &dob,
		Color:          "gray & white",
		SireName:       "Storm King",
		DamName:        "Aurora",
		Sire:           &types.CandidateRecord{UUID: "ext-sire", RegisteredName: "Storm King"},
		Dam:            &types.CandidateRecord{UUID: "ext-dam", RegisteredName: "Aurora"},
		Breeders:       []*types.CandidatePerson{{Name: "Lodgepole Kennel", IsBreeder: true}},
		Owners:         []*types.CandidatePerson{{Name: "J. Musher", IsMainOwner: true}},
		Titles:         []*types.CandidateTitle{{ShortName: "CH", LongName: "Champion"}},
	}

	dog, err := env.ingest.ProcessCandidate(ctx, candidate, "siteA")
	if err != nil {
		t.Fatalf("ProcessCandidate: %v", err)
	}
	if dog.ID == 0 || dog.Source != "siteA" {
		t.Fatalf("created dog: id=%d source=%q", dog.ID, dog.Source)
	}
	if dog.SireID == nil || dog.DamID == nil {
		t.Fatal("parent links not set")
	}

	sire, err := env.dogs.GetByID(ctx, nil, *dog.SireID)
	if err != nil {
		t.Fatalf("sire row: %v", err)
	}
	if sire.RegisteredName != "Storm King" || sire.Source != "siteA" {
		t.Errorf("sire: %+v", sire)
	}

	full, err := env.dogs.GetByIDWithRelations(ctx, nil, dog.ID)
	if err != nil {
		t.Fatalf("GetByIDWithRelations: %v", err)
	}
	if len(full.Breeders) != 1 || full.Breeders[0].Name != "Lodgepole Kennel" {
		t.Errorf("breeders: %+v", full.Breeders)
	}
	if len(full.Owners) != 1 || full.Owners[0].Name != "J. Musher" {
		t.Errorf("owners: %+v", full.Owners)
	}
	if len(full.Titles) != 1 || full.Titles[0].ShortName != "CH" {
		t.Errorf("titles: %+v", full.Titles)
	}
}

func TestProcessCandidateSynthesizesUUID(t *testing.T) {
	env := newTestEnv(t)

	dog, err := env.ingest.ProcessCandidate(context.Background(), &types.CandidateRecord{RegisteredName: "No External Id"}, "siteA")
	if err != nil {
		t.Fatalf("ProcessCandidate: %v", err)
	}
	if dog.UUID == "" {
		t.Fatal("uuid should be synthesized for sources without one")
	}
}

func TestProcessCandidateMergesExisting(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.mustCreate(t, &types.Dog{
		UUID:           "ext-1",
		RegisteredName: "Nanuk",
		Color:          "black & white",
		Source:         "siteA",
	})

	dog, err := env.ingest.ProcessCandidate(ctx, &types.CandidateRecord{
		UUID:           "ext-1",
		RegisteredName: "Nanuk",
		CallName:       "Nuk",
		Color:          "gray & white",
	}, "siteB")
	if err != nil {
		t.Fatalf("ProcessCandidate: %v", err)
	}

	saved, err := env.dogs.GetByID(ctx, nil, dog.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if saved.CallName != "Nuk" {
		t.Errorf("gap not filled: call_name=%q", saved.CallName)
	}
	if saved.Color != "black & white" {
		t.Errorf("populated field overwritten: %q", saved.Color)
	}
	if !saved.HasConflicts {
		t.Fatal("conflict not flagged")
	}
	if saved.Conflicts["color"]["siteB"] != "gray & white" {
		t.Fatalf("conflict map: %v", saved.Conflicts)
	}

	// No duplicate row was created.
	var count int64
	env.db.Model(&types.Dog{}).Count(&count)
	if count != 1 {
		t.Fatalf("dog rows: want=1 got=%d", count)
	}
}

func TestProcessCandidateDepthBound(t *testing.T) {
	env := newTestEnv(t)
	env.ingest.maxDepth = 2

	candidate := &types.CandidateRecord{
		UUID:           "gen-0",
		RegisteredName: "Child",
		Sire: &types.CandidateRecord{
			UUID:           "gen-1",
			RegisteredName: "Father",
			Sire: &types.CandidateRecord{
				UUID:           "gen-2",
				RegisteredName: "Grandfather",
			},
		},
	}
	dog, err := env.ingest.ProcessCandidate(context.Background(), candidate, "siteA")
	if err != nil {
		t.Fatalf("ProcessCandidate: %v", err)
	}
	if dog.SireID == nil {
		t.Fatal("first generation should be ingested")
	}

	var count int64
	env.db.Model(&types.Dog{}).Count(&count)
	if count != 2 {
		t.Fatalf("depth bound: want=2 rows got=%d", count)
	}
}

func TestProcessCandidateCyclicPedigree(t *testing.T) {
	env := newTestEnv(t)

	// A record listed as its own ancestor must not recurse forever.
	candidate := &types.CandidateRecord{
		UUID:           "self",
		RegisteredName: "Ouroboros",
		Sire: &types.CandidateRecord{
			UUID:           "self",
			RegisteredName: "Ouroboros",
		},
	}
	if _, err := env.ingest.ProcessCandidate(context.Background(), candidate, "siteA"); err != nil {
		t.Fatalf("ProcessCandidate: %v", err)
	}

	var count int64
	env.db.Model(&types.Dog{}).Count(&count)
	if count != 1 {
		t.Fatalf("cyclic candidate rows: want=1 got=%d", count)
	}
}

func TestProcessCandidateRejectsEmpty(t *testing.T) {
	env := newTestEnv(t)
	if _, err := env.ingest.ProcessCandidate(context.Background(), nil, "siteA"); !errors.Is(err, ErrEmptyCandidate) {
		t.Fatalf("nil candidate: want ErrEmptyCandidate got %v", err)
	}
	if _, err := env.ingest.ProcessCandidate(context.Background(), &types.CandidateRecord{}, "siteA"); !errors.Is(err, ErrEmptyCandidate) {
		t.Fatalf("blank candidate: want ErrEmptyCandidate got %v", err)
	}
}

func TestProcessCandidateLitter(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	dob := time.Date(2021, 6, 15, 0, 0, 0, 0, time.UTC)
	candidate := &types.CandidateRecord{
		UUID:           "dam-1",
		RegisteredName: "Aurora",
		Sex:            types.SexFemale,
		Litters: []*types.CandidateLitter{{
			DateOfBirth:     &dob,
			LitterMaleCount: 3,
			Dam:             &types.CandidateRecord{UUID: "dam-1", RegisteredName: "Aurora"},
		}},
	}

	dog, err := env.ingest.ProcessCandidate(ctx, candidate, "siteA")
	if err != nil {
		t.Fatalf("ProcessCandidate: %v", err)
	}

	litters, err := env.litters.ListByDam(ctx, nil, dog.ID)
	if err != nil {
		t.Fatalf("ListByDam: %v", err)
	}
	if len(litters) != 1 || litters[0].LitterMaleCount != 3 {
		t.Fatalf("litters: %+v", litters)
	}

	// Re-ingesting the same record must not duplicate the litter.
	if _, err := env.ingest.ProcessCandidate(ctx, candidate, "siteA"); err != nil {
		t.Fatalf("second ProcessCandidate: %v", err)
	}
	litters, _ = env.litters.ListByDam(ctx, nil, dog.ID)
	if len(litters) != 1 {
		t.Fatalf("litter duplicated: %d rows", len(litters))
	}
}

func TestImportMedicalRecordsDedup(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	dog := env.mustCreate(t, &types.Dog{UUID: "dog-1", RegisteredName: "Nanuk"})

	records := []types.MedicalRecord{
		{Registry: "OFA", Conclusion: "Hips Good", OFANumber: "SH-12345"},
		{Registry: "OFA", Conclusion: "Eyes Normal", OFANumber: "SH-67890"},
	}
	created, err := env.ingest.ImportMedicalRecords(ctx, dog.ID, records)
	if err != nil {
		t.Fatalf("ImportMedicalRecords: %v", err)
	}
	if created != 2 {
		t.Fatalf("created: want=2 got=%d", created)
	}

	created, err = env.ingest.ImportMedicalRecords(ctx, dog.ID, records[:1])
	if err != nil {
		t.Fatalf("second import: %v", err)
	}
	if created != 0 {
		t.Fatalf("dedup: want=0 got=%d", created)
	}

	stored, err := env.medical.ListByDog(ctx, nil, dog.ID)
	if err != nil {
		t.Fatalf("ListByDog: %v", err)
	}
	if len(stored) != 2 {
		t.Fatalf("stored records: want=2 got=%d", len(stored))
	}
}
