// handlers_health.go - Health and readiness reporting
package api

import (
	"net/http"
	"os"
	"path/filepath"

	"github.com/labstack/echo/v4"

	"github.com/pdf-archive/backend/internal/store"
)

// HealthHandlerImpl implements the HealthHandler interface
type HealthHandlerImpl struct {
	version string
	dataDir string
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(version, dataDir string) HealthHandler {
	return &HealthHandlerImpl{
		version: version,
		dataDir: dataDir,
	}
}

// HandleHealth reports server health plus the storage state: whether the data
// directory is reachable and whether a state document has been written yet.
// A missing document is normal on a fresh install, not an error.
func (h *HealthHandlerImpl) HandleHealth(c echo.Context) error {
	status := "ok"
	if _, err := os.Stat(h.dataDir); err != nil {
		status = "degraded"
	}

	stateDocument := "absent"
	if _, err := os.Stat(filepath.Join(h.dataDir, store.StateFileName)); err == nil {
		stateDocument = "present"
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":        status,
		"version":       h.version,
		"stateDocument": stateDocument,
	})
}
