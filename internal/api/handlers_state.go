// handlers_state.go - State document operation handlers
package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/pdf-archive/backend/internal/store"
)

// StateHandlerImpl implements the StateHandler interface
type StateHandlerImpl struct {
	store Store
}

// NewStateHandler creates a new state handler instance
func NewStateHandler(s Store) StateHandler {
	return &StateHandlerImpl{store: s}
}

// HandleGetState returns the persisted state document, lazily creating the
// empty default when none exists yet.
func (h *StateHandlerImpl) HandleGetState(c echo.Context) error {
	data, err := h.store.LoadState()
	if err != nil {
		return NewInternalError("failed to read state", err)
	}
	return c.JSONBlob(http.StatusOK, data)
}

// HandleSaveState fully replaces the persisted state document.
func (h *StateHandlerImpl) HandleSaveState(c echo.Context) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return NewBadRequestError("failed to read request body", err)
	}
	if len(body) == 0 {
		return NewValidationError("body")
	}

	if err := h.store.SaveState(body); err != nil {
		return NewBadRequestError("invalid state document", err)
	}

	return c.JSON(http.StatusOK, map[string]bool{"ok": true})
}

// HandleListBackups returns the retained snapshot backups, oldest first.
func (h *StateHandlerImpl) HandleListBackups(c echo.Context) error {
	names, err := h.store.ListBackups()
	if err != nil {
		return NewInternalError("failed to list backups", err)
	}
	if names == nil {
		names = []string{}
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"backups": names})
}

type restoreBackupRequest struct {
	Name string `json:"name"`
}

// HandleRestoreBackup replaces the current document with a retained backup.
func (h *StateHandlerImpl) HandleRestoreBackup(c echo.Context) error {
	var req restoreBackupRequest
	if err := c.Bind(&req); err != nil {
		return NewBadRequestError("invalid JSON body", err)
	}
	if req.Name == "" {
		return NewValidationError("name")
	}

	data, err := h.store.RestoreBackup(req.Name)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return NewNotFoundError("backup", req.Name)
		}
		return NewInternalError("failed to restore backup", err)
	}
	return c.JSONBlob(http.StatusOK, data)
}
