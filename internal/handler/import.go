package handler

import (
	"net/http"

	"choir-attendance/internal/logger"
	"choir-attendance/internal/model"
	"choir-attendance/internal/service"

	"github.com/gin-gonic/gin"
)

const maxImportSize = 10 << 20

type ImportHandler struct{ imports *service.ImportService }

func NewImportHandler(imports *service.ImportService) *ImportHandler {
	return &ImportHandler{imports: imports}
}

// Preview handles POST /api/import/preview: parse the uploaded sheet and
// return what would be saved.
func (h *ImportHandler) Preview(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "please upload a file"})
		return
	}
	if file.Size > maxImportSize {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "file too large"})
		return
	}
	logger.Info("import.upload", "file", file.Filename, "size", file.Size)

	f, err := file.Open()
	if err != nil {
		fail(c, err)
		return
	}
	defer f.Close()

	p, err := h.imports.Preview(c.Request.Context(), f)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// Confirm handles POST /api/import/confirm.
func (h *ImportHandler) Confirm(c *gin.Context) {
	var req model.ImportConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing token"})
		return
	}
	res, err := h.imports.Confirm(c.Request.Context(), req.Token)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
