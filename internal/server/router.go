package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/huskygraph/huskygraph-backend/internal/handlers"
)

type RouterConfig struct {
	AllowOrigins []string

	DogHandler      *handlers.DogHandler
	PedigreeHandler *handlers.PedigreeHandler
	IngestHandler   *handlers.IngestHandler
	MedicalHandler  *handlers.MedicalRecordHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()
	router.Use(otelgin.Middleware("huskygraph"))

	origins := cfg.AllowOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000", "http://localhost:5173"}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	router.GET("/healthcheck", handlers.HealthCheck)

	api := router.Group("/api")
	{
		// Dogs
		api.GET("/dogs", cfg.DogHandler.List)
		api.GET("/dogs/:id", cfg.DogHandler.Get)
		api.GET("/dogs/uuid/:uuid", cfg.DogHandler.GetByUUID)
		api.PATCH("/dogs/:id/notes", cfg.DogHandler.UpdateNotes)

		// Conflict resolution
		api.POST("/dogs/:id/resolve-conflicts", cfg.DogHandler.ResolveConflicts)
		api.POST("/dogs/:id/undo-merge", cfg.DogHandler.UndoMerge)
		api.GET("/dogs/:id/merge-logs", cfg.DogHandler.ListMergeLogs)

		// Pedigree and inbreeding
		api.GET("/pedigree/:id", cfg.PedigreeHandler.GetPedigree)
		api.GET("/pedigree/uuid/:uuid", cfg.PedigreeHandler.GetPedigreeByUUID)
		api.GET("/pedigree/ancestors/:id", cfg.PedigreeHandler.GetAncestors)
		api.POST("/dogs/:id/calculate-coi", cfg.PedigreeHandler.CalculateCOI)
		api.GET("/dogs/:id/coi", cfg.PedigreeHandler.GetCOI)
		api.POST("/dogs/batch-calculate-coi", cfg.PedigreeHandler.BatchCalculateCOI)

		// Health screenings
		api.POST("/dogs/:id/medical-records", cfg.MedicalHandler.Import)
		api.GET("/dogs/:id/medical-records", cfg.MedicalHandler.List)

		// Ingestion
		api.POST("/ingest/:source", cfg.IngestHandler.ProcessCandidate)
		api.POST("/ingest/refresh", cfg.IngestHandler.RefreshAll)
	}

	return router
}
