package app

import (
	"strings"
	"time"

	"github.com/huskygraph/huskygraph-backend/internal/logger"
	"github.com/huskygraph/huskygraph-backend/internal/utils"
)

type Config struct {
	ListenAddr        string
	AllowOrigins      []string
	MatchThreshold    float64
	IngestMaxDepth    int
	COIMaxGenerations int
	CacheTTL          time.Duration
	SourcesFile       string
}

func LoadConfig(log *logger.Logger) Config {
	listenAddr := utils.GetEnv("LISTEN_ADDR", ":8000", log)
	matchThreshold := utils.GetEnvAsFloat("MATCH_NAME_THRESHOLD", 0.8, log)
	ingestMaxDepth := utils.GetEnvAsInt("INGEST_MAX_DEPTH", 6, log)
	coiMaxGenerations := utils.GetEnvAsInt("COI_MAX_GENERATIONS", 10, log)
	cacheTTLSeconds := utils.GetEnvAsInt("CACHE_TTL", 600, log)
	sourcesFile := utils.GetEnv("SOURCES_FILE", "configs/sources.yaml", log)

	origins := []string{
		"http://localhost:80",
		"http://localhost:3000",
		"http://localhost:5174",
	}
	if raw := utils.GetEnv("CORS_ORIGINS", "", log); raw != "" {
		origins = origins[:0]
		for _, o := range strings.Split(raw, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
	}

	return Config{
		ListenAddr:        listenAddr,
		AllowOrigins:      origins,
		MatchThreshold:    matchThreshold,
		IngestMaxDepth:    ingestMaxDepth,
		COIMaxGenerations: coiMaxGenerations,
		CacheTTL:          time.Duration(cacheTTLSeconds) * time.Second,
		SourcesFile:       sourcesFile,
	}
}
