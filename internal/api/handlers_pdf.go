// handlers_pdf.go - PDF binary upload and deletion handlers
package api

import (
	"errors"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/pdf-archive/backend/internal/store"
)

// PDFHandlerImpl implements the PDFHandler interface
type PDFHandlerImpl struct {
	store Store
}

// NewPDFHandler creates a new PDF handler instance
func NewPDFHandler(s Store) PDFHandler {
	return &PDFHandlerImpl{store: s}
}

// HandleUploadPDF accepts a multipart upload {file, id, folder} and stores the
// binary as {id}.pdf under the sanitized folder.
func (h *PDFHandlerImpl) HandleUploadPDF(c echo.Context) error {
	file, err := c.FormFile("file")
	if err != nil {
		return NewBadRequestError("missing file", err)
	}

	id := c.FormValue("id")
	if id == "" {
		// Fall back to the uploaded filename's stem.
		base := filepath.Base(file.Filename)
		id = strings.TrimSuffix(base, filepath.Ext(base))
	}
	folder := c.FormValue("folder")

	src, err := file.Open()
	if err != nil {
		return NewInternalError("failed to open uploaded file", err)
	}
	defer src.Close()

	result, err := h.store.SavePDF(id, folder, src)
	if err != nil {
		return NewInternalError("failed to save file", err)
	}

	return c.JSON(http.StatusOK, result)
}

type deletePDFRequest struct {
	StoragePath string `json:"storagePath"`
}

// HandleDeletePDF removes a stored binary by its storage path.
func (h *PDFHandlerImpl) HandleDeletePDF(c echo.Context) error {
	var req deletePDFRequest
	if err := c.Bind(&req); err != nil {
		return NewBadRequestError("invalid JSON body", err)
	}
	if req.StoragePath == "" {
		return NewValidationError("storagePath")
	}

	if err := h.store.DeletePDF(req.StoragePath); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return NewNotFoundError("file", req.StoragePath)
		}
		return NewInternalError("failed to delete file", err)
	}

	return c.JSON(http.StatusOK, map[string]bool{"ok": true})
}
