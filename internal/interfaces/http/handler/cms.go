package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/hospitality/backend/internal/application/cms"
	"github.com/hospitality/backend/internal/interfaces/http/dto"
)

// CMSHandler manages the marketing site content and its media library
type CMSHandler struct {
	BaseHandler
	pageService  *cms.PageService
	mediaService *cms.MediaService
}

// NewCMSHandler creates a new CMSHandler
func NewCMSHandler(pageService *cms.PageService, mediaService *cms.MediaService) *CMSHandler {
	return &CMSHandler{pageService: pageService, mediaService: mediaService}
}

// CreatePage godoc
// @Summary      Create page
// @Description  The slug is derived from the title when omitted and must be unique per locale
// @Tags         cms
// @Accept       json
// @Produce      json
// @Param        request body CreatePageRequest true "Page"
// @Success      201 {object} APIResponse[cms.PageDTO]
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /cms/pages [post]
func (h *CMSHandler) CreatePage(c *gin.Context) {
	tenantID, userID, ok := h.tenantAndUser(c)
	if !ok {
		return
	}
	var req CreatePageRequest
	if !h.bindJSON(c, &req) {
		return
	}
	page, err := h.pageService.Create(c.Request.Context(), cms.CreatePageInput{
		TenantID:       tenantID,
		AuthorID:       userID,
		Title:          req.Title,
		Slug:           req.Slug,
		Kind:           req.Kind,
		Locale:         req.Locale,
		Excerpt:        req.Excerpt,
		Body:           req.Body,
		SEOTitle:       req.SEOTitle,
		SEODescription: req.SEODescription,
		CoverImageKey:  req.CoverImageKey,
	})
	respond(&h.BaseHandler, c, http.StatusCreated, page, err)
}

// GetPage returns one page including drafts
func (h *CMSHandler) GetPage(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	page, err := h.pageService.GetByID(c.Request.Context(), tenantID, id)
	respond(&h.BaseHandler, c, http.StatusOK, page, err)
}

// ListPages lists pages in every status
func (h *CMSHandler) ListPages(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var q PageListQuery
	if !h.bindQuery(c, &q) {
		return
	}
	page, err := h.pageService.List(c.Request.Context(), tenantID, cms.PageListFilter{
		Search:   q.Keyword,
		Kind:     q.Kind,
		Status:   q.Status,
		Locale:   q.Locale,
		Page:     q.Page,
		PageSize: q.PageSize,
		OrderBy:  q.SortBy,
		OrderDir: q.SortDir,
	})
	respondPage(&h.BaseHandler, c, page, err)
}

// UpdatePage edits a page
func (h *CMSHandler) UpdatePage(c *gin.Context) {
	tenantID, userID, ok := h.tenantAndUser(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req UpdatePageRequest
	if !h.bindJSON(c, &req) {
		return
	}
	page, err := h.pageService.Update(c.Request.Context(), tenantID, id, cms.UpdatePageInput{
		AuthorID:       userID,
		Title:          req.Title,
		Slug:           req.Slug,
		Excerpt:        req.Excerpt,
		Body:           req.Body,
		SEOTitle:       req.SEOTitle,
		SEODescription: req.SEODescription,
		CoverImageKey:  req.CoverImageKey,
	})
	respond(&h.BaseHandler, c, http.StatusOK, page, err)
}

// PublishPage godoc
// @Summary      Publish page
// @Description  A page needs a body before it can be published
// @Tags         cms
// @Param        id path string true "Page ID"
// @Success      200 {object} APIResponse[cms.PageDTO]
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /cms/pages/{id}/publish [post]
func (h *CMSHandler) PublishPage(c *gin.Context) {
	h.transition(c, h.pageService.Publish)
}

// UnpublishPage returns a page to draft
func (h *CMSHandler) UnpublishPage(c *gin.Context) {
	h.transition(c, h.pageService.Unpublish)
}

// ArchivePage retires a page
func (h *CMSHandler) ArchivePage(c *gin.Context) {
	h.transition(c, h.pageService.Archive)
}

func (h *CMSHandler) transition(c *gin.Context, apply func(context.Context, uuid.UUID, uuid.UUID) (*cms.PageDTO, error)) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	page, err := apply(c.Request.Context(), tenantID, id)
	respond(&h.BaseHandler, c, http.StatusOK, page, err)
}

// DeletePage removes a page
func (h *CMSHandler) DeletePage(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	if err := h.pageService.Delete(c.Request.Context(), tenantID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// UploadMedia godoc
// @Summary      Upload media
// @Description  Images, PDF and MP4 up to 10 MB
// @Tags         cms
// @Accept       multipart/form-data
// @Produce      json
// @Param        file formData file true "File"
// @Param        alt_text formData string false "Alternative text"
// @Success      201 {object} APIResponse[cms.MediaDTO]
// @Failure      400 {object} ErrorResponse
// @Failure      503 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /cms/media [post]
func (h *CMSHandler) UploadMedia(c *gin.Context) {
	tenantID, userID, ok := h.tenantAndUser(c)
	if !ok {
		return
	}
	fh, err := c.FormFile("file")
	if err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeValidation, "Multipart field \"file\" is required")
		return
	}
	f, err := fh.Open()
	if err != nil {
		h.BadRequest(c, "Unreadable upload")
		return
	}
	defer f.Close()

	media, err := h.mediaService.Upload(c.Request.Context(), cms.MediaUpload{
		TenantID:    tenantID,
		CreatedBy:   userID,
		FileName:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Size:        fh.Size,
		AltText:     c.PostForm("alt_text"),
	}, f)
	respond(&h.BaseHandler, c, http.StatusCreated, media, err)
}

// ListMedia lists the media library
func (h *CMSHandler) ListMedia(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var q MediaListQuery
	if !h.bindQuery(c, &q) {
		return
	}
	page, err := h.mediaService.List(c.Request.Context(), tenantID, cms.MediaListFilter{
		Search:      q.Keyword,
		ContentType: q.ContentType,
		Page:        q.Page,
		PageSize:    q.PageSize,
	})
	respondPage(&h.BaseHandler, c, page, err)
}

// DeleteMedia removes the object and its record
func (h *CMSHandler) DeleteMedia(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	if err := h.mediaService.Delete(c.Request.Context(), tenantID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
