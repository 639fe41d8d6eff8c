package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/ticket-dashboard/internal/export"
)

// Exporter renders the current filtered collection as a file.
type Exporter interface {
	Export(format string) (*export.File, error)
}

// ExportHandler serves ticket exports.
type ExportHandler struct {
	exporter Exporter
}

// NewExportHandler constructs handler.
func NewExportHandler(exporter Exporter) *ExportHandler {
	return &ExportHandler{exporter: exporter}
}

// Export GET /admin/export?format=csv|json|xlsx.
func (h *ExportHandler) Export(c *fiber.Ctx) error {
	file, err := h.exporter.Export(c.Query("format"))
	if err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, file.ContentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, file.Name))
	return c.Send(file.Data)
}
