// interfaces.go - Handler interface definitions for clean separation of concerns
package api

import (
	"io"

	"github.com/labstack/echo/v4"

	"github.com/pdf-archive/backend/internal/models"
)

// StateHandler handles the whole-document state operations
type StateHandler interface {
	HandleGetState(c echo.Context) error
	HandleSaveState(c echo.Context) error
	HandleListBackups(c echo.Context) error
	HandleRestoreBackup(c echo.Context) error
}

// PDFHandler handles PDF binary upload and deletion
type PDFHandler interface {
	HandleUploadPDF(c echo.Context) error
	HandleDeletePDF(c echo.Context) error
}

// HealthHandler handles health check operations
type HealthHandler interface {
	HandleHealth(c echo.Context) error
}

// Store defines the storage operations the handlers depend on.
// This allows mocking in tests.
type Store interface {
	LoadState() ([]byte, error)
	SaveState(raw []byte) error
	ListBackups() ([]string, error)
	RestoreBackup(name string) ([]byte, error)
	SavePDF(id, folder string, r io.Reader) (*models.UploadResult, error)
	DeletePDF(storagePath string) error
}
