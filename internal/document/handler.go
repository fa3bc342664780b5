package document

import (
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"document-improver/internal/errors"
	"document-improver/internal/utils"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// Upload accepts a multipart form with the document file and an optional
// title, stores it, and kicks off processing.
func (h *Handler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.Error(errors.BadRequest("Missing file field", err))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.Error(errors.BadRequest("Can't read uploaded file", err))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		c.Error(errors.BadRequest("Can't read uploaded file", err))
		return
	}

	userID, _ := c.Get("user_id")

	doc, err := h.service.UploadDocument(
		c.Request.Context(),
		userID.(string),
		c.PostForm("title"),
		fileHeader.Filename,
		data,
	)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, doc)
}

func (h *Handler) ShowUserDocuments(c *gin.Context) {
	userID, _ := c.Get("user_id")

	page, pageSize := utils.GetPaginationParams(c)
	result, err := h.service.GetUserDocuments(c.Request.Context(), userID.(string), page, pageSize)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *Handler) ShowDocument(c *gin.Context) {
	userID, _ := c.Get("user_id")

	doc, err := h.service.GetDocument(c.Request.Context(), c.Param("id"), userID.(string))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, doc)
}

func (h *Handler) DeleteDocument(c *gin.Context) {
	userID, _ := c.Get("user_id")

	if err := h.service.DeleteDocument(c.Request.Context(), c.Param("id"), userID.(string)); err != nil {
		c.Error(err)
		return
	}

	c.Status(http.StatusNoContent)
}

// Reprocess re-queues a failed document.
func (h *Handler) Reprocess(c *gin.Context) {
	userID, _ := c.Get("user_id")

	doc, err := h.service.ReprocessDocument(c.Request.Context(), c.Param("id"), userID.(string))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusAccepted, doc)
}

func (h *Handler) ListVersions(c *gin.Context) {
	userID, _ := c.Get("user_id")

	versions, err := h.service.ListVersions(c.Request.Context(), c.Param("id"), userID.(string))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, versions)
}

func (h *Handler) ShowVersion(c *gin.Context) {
	userID, _ := c.Get("user_id")

	version, err := h.service.GetVersion(
		c.Request.Context(),
		c.Param("id"),
		c.Param("versionId"),
		userID.(string),
	)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, version)
}

func (h *Handler) ListSuggestions(c *gin.Context) {
	userID, _ := c.Get("user_id")

	suggestions, err := h.service.ListSuggestions(c.Request.Context(), c.Param("id"), userID.(string))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, suggestions)
}

type DecideSuggestionRequest struct {
	Action string `json:"action" binding:"required,oneof=accept reject"`
}

// DecideSuggestion marks one suggestion accepted or rejected.
func (h *Handler) DecideSuggestion(c *gin.Context) {
	var req DecideSuggestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errors.NewValidationError(err))
		return
	}

	userID, _ := c.Get("user_id")

	suggestion, err := h.service.DecideSuggestion(
		c.Request.Context(),
		c.Param("id"),
		c.Param("suggestionId"),
		userID.(string),
		req.Action == "accept",
	)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, suggestion)
}

// ApplySuggestions patches the document text with all accepted suggestions
// and returns the new version.
func (h *Handler) ApplySuggestions(c *gin.Context) {
	userID, _ := c.Get("user_id")

	version, err := h.service.ApplyAcceptedSuggestions(c.Request.Context(), c.Param("id"), userID.(string))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, version)
}

type ExportRequest struct {
	TemplateID string `json:"template_id"`
}

// Export renders the document through a template and returns the file.
func (h *Handler) Export(c *gin.Context) {
	var req ExportRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.Error(errors.NewValidationError(err))
			return
		}
	}

	userID, _ := c.Get("user_id")

	version, data, err := h.service.ExportDocument(
		c.Request.Context(),
		c.Param("id"),
		userID.(string),
		req.TemplateID,
	)
	if err != nil {
		c.Error(err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", version.ID+".txt"))
	c.Header("X-Version-Id", version.ID)
	c.Data(http.StatusCreated, "text/plain; charset=utf-8", data)
}

func (h *Handler) ListTemplates(c *gin.Context) {
	templates, err := h.service.ListTemplates(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, templates)
}
