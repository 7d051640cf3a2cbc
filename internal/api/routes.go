// routes.go - Route registration helpers
package api

import (
	"github.com/labstack/echo/v4"
)

// Dependencies holds all handler dependencies
type Dependencies struct {
	Store             Store
	DataDir           string
	Version           string
	AllowFileDeletion bool
}

// Handlers holds all handler instances
type Handlers struct {
	Health HealthHandler
	State  StateHandler
	PDF    PDFHandler
}

// NewHandlers creates all handler instances
func NewHandlers(deps *Dependencies) *Handlers {
	return &Handlers{
		Health: NewHealthHandler(deps.Version, deps.DataDir),
		State:  NewStateHandler(deps.Store),
		PDF:    NewPDFHandler(deps.Store),
	}
}

// RegisterRoutes registers all API routes with the Echo instance
func RegisterRoutes(e *echo.Echo, handlers *Handlers, deps *Dependencies) {
	e.HTTPErrorHandler = ErrorHandler

	apiGroup := e.Group("/api")

	// Health check
	apiGroup.GET("/health", handlers.Health.HandleHealth)

	// State document
	apiGroup.GET("/state", handlers.State.HandleGetState)
	apiGroup.POST("/state", handlers.State.HandleSaveState)
	apiGroup.GET("/state/backups", handlers.State.HandleListBackups)
	apiGroup.POST("/state/restore", handlers.State.HandleRestoreBackup)

	// PDF binaries
	apiGroup.POST("/pdfs", handlers.PDF.HandleUploadPDF)
	if deps.AllowFileDeletion {
		apiGroup.POST("/pdfs/delete", handlers.PDF.HandleDeletePDF)
	}

	// Stored binaries are publicly served under /data, mirroring storagePath.
	e.Static("/data", deps.DataDir)
}
