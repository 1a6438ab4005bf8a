package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/course-console/internal/service"
)

type exportService interface {
	Export(ctx context.Context, format string) (*service.ExportFile, error)
}

// ExportHandler serves list downloads.
type ExportHandler struct {
	exports exportService
	flash   notifier
}

// NewExportHandler builds an export handler.
func NewExportHandler(exports exportService, flash notifier) *ExportHandler {
	return &ExportHandler{exports: exports, flash: flash}
}

// Download returns a handler rendering the current list in format.
func (h *ExportHandler) Download(format string) gin.HandlerFunc {
	return func(c *gin.Context) {
		file, err := h.exports.Export(c.Request.Context(), format)
		if err != nil {
			_ = c.Error(err)
			h.flash.Error(c, msgExportFailed)
			seeOther(c, "/list")
			return
		}
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Filename))
		c.Header("Cache-Control", "no-store")
		c.Data(http.StatusOK, file.ContentType, file.Body)
	}
}
