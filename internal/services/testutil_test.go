package services

import (
	"fmt"
	"strings"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/huskygraph/huskygraph-backend/internal/logger"
	"github.com/huskygraph/huskygraph-backend/internal/matching"
	"github.com/huskygraph/huskygraph-backend/internal/repos"
	"github.com/huskygraph/huskygraph-backend/internal/types"
)

func newTestLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("logger.New: %v", err)
	}
	return log
}

// newTestDB opens a per-test in-memory database and migrates the full schema.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(
		&types.Dog{},
		&types.Litter{},
		&types.Breeder{},
		&types.Owner{},
		&types.Title{},
		&types.MedicalRecord{},
		&types.MergeLog{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

type testEnv struct {
	db      *gorm.DB
	dogs    repos.DogRepo
	logs    repos.MergeLogRepo
	people  repos.PersonRepo
	titles  repos.TitleRepo
	litters repos.LitterRepo
	medical repos.MedicalRecordRepo
	matcher *matching.Matcher
	dogSvc  *DogService
	ingest  *IngestService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	log := newTestLogger(t)
	db := newTestDB(t)

	dogs := repos.NewDogRepo(db, log)
	logs := repos.NewMergeLogRepo(db, log)
	people := repos.NewPersonRepo(db, log)
	titles := repos.NewTitleRepo(db, log)
	litters := repos.NewLitterRepo(db, log)
	medical := repos.NewMedicalRecordRepo(db, log)
	matcher := matching.NewMatcher(dogs, matching.DefaultNameThreshold, log)

	return &testEnv{
		db:      db,
		dogs:    dogs,
		logs:    logs,
		people:  people,
		titles:  titles,
		litters: litters,
		medical: medical,
		matcher: matcher,
		dogSvc:  NewDogService(db, dogs, logs, nil, 0, log),
		ingest:  NewIngestService(dogs, litters, people, titles, medical, matcher, 6, nil, log),
	}
}

func (e *testEnv) mustCreate(t *testing.T, dog *types.Dog) *types.Dog {
	t.Helper()
	if err := e.db.Create(dog).Error; err != nil {
		t.Fatalf("create dog %q: %v", dog.RegisteredName, err)
	}
	return dog
}
