package controller

import (
	"net/http"

	"github.com/chengtian/temple-backend/internal/app/model"
	"github.com/chengtian/temple-backend/internal/app/service"
	"github.com/gin-gonic/gin"
)

// ContentController serves announcements, FAQ and external links.
type ContentController struct {
	contentService service.ContentService
	fundService    service.FundService
}

func NewContentController(contentService service.ContentService, fundService service.FundService) *ContentController {
	return &ContentController{
		contentService: contentService,
		fundService:    fundService,
	}
}

type AnnouncementRequest struct {
	Date     string `json:"date"`
	Title    string `json:"title"`
	Content  string `json:"content"`
	IsPinned bool   `json:"isPinned"`
}

func (r AnnouncementRequest) toInput() service.AnnouncementInput {
	return service.AnnouncementInput{
		Date:     r.Date,
		Title:    r.Title,
		Content:  r.Content,
		IsPinned: r.IsPinned,
	}
}

type FAQRequest struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
	Category string `json:"category"`
	IsPinned bool   `json:"isPinned"`
}

type LinkRequest struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// ListAnnouncements GET /api/announcements
func (ctrl *ContentController) ListAnnouncements(c *gin.Context) {
	items, err := ctrl.contentService.ListAnnouncements()
	if err != nil {
		respondError(c, err, "List announcements")
		return
	}
	c.JSON(http.StatusOK, items)
}

// CreateAnnouncement POST /api/announcements
func (ctrl *ContentController) CreateAnnouncement(c *gin.Context) {
	var req AnnouncementRequest
	if !bindJSON(c, &req) {
		return
	}

	item, err := ctrl.contentService.CreateAnnouncement(req.toInput())
	if err != nil {
		respondError(c, err, "Create announcement")
		return
	}
	c.JSON(http.StatusCreated, item)
}

// UpdateAnnouncement PUT /api/announcements/:id
func (ctrl *ContentController) UpdateAnnouncement(c *gin.Context) {
	var req AnnouncementRequest
	if !bindJSON(c, &req) {
		return
	}

	item, err := ctrl.contentService.UpdateAnnouncement(c.Param("id"), req.toInput())
	if err != nil {
		respondError(c, err, "Update announcement")
		return
	}
	c.JSON(http.StatusOK, item)
}

// DeleteAnnouncement DELETE /api/announcements/:id
func (ctrl *ContentController) DeleteAnnouncement(c *gin.Context) {
	if err := ctrl.contentService.DeleteAnnouncement(c.Param("id")); err != nil {
		respondError(c, err, "Delete announcement")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// ListFAQ GET /api/faq?category=
func (ctrl *ContentController) ListFAQ(c *gin.Context) {
	items, err := ctrl.contentService.ListFAQ(c.Query("category"))
	if err != nil {
		respondError(c, err, "List faq")
		return
	}
	c.JSON(http.StatusOK, items)
}

// FAQCategories GET /api/faq/categories
func (ctrl *ContentController) FAQCategories(c *gin.Context) {
	categories, err := ctrl.contentService.FAQCategories()
	if err != nil {
		respondError(c, err, "List faq categories")
		return
	}
	c.JSON(http.StatusOK, categories)
}

// CreateFAQ POST /api/faq
func (ctrl *ContentController) CreateFAQ(c *gin.Context) {
	var req FAQRequest
	if !bindJSON(c, &req) {
		return
	}

	faq, err := ctrl.contentService.CreateFAQ(service.FAQInput{
		Question: req.Question,
		Answer:   req.Answer,
		Category: req.Category,
		IsPinned: req.IsPinned,
	})
	if err != nil {
		respondError(c, err, "Create faq")
		return
	}
	c.JSON(http.StatusCreated, faq)
}

// DeleteFAQ DELETE /api/faq/:id
func (ctrl *ContentController) DeleteFAQ(c *gin.Context) {
	if err := ctrl.contentService.DeleteFAQ(c.Param("id")); err != nil {
		respondError(c, err, "Delete faq")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// ListLinks GET /api/links
func (ctrl *ContentController) ListLinks(c *gin.Context) {
	links, err := ctrl.contentService.ListLinks()
	if err != nil {
		respondError(c, err, "List links")
		return
	}
	c.JSON(http.StatusOK, links)
}

// CreateLink POST /api/links
func (ctrl *ContentController) CreateLink(c *gin.Context) {
	var req LinkRequest
	if !bindJSON(c, &req) {
		return
	}

	link, err := ctrl.contentService.CreateLink(req.Name, req.URL)
	if err != nil {
		respondError(c, err, "Create link")
		return
	}
	c.JSON(http.StatusCreated, link)
}

// UpdateLink PUT /api/links/:id
func (ctrl *ContentController) UpdateLink(c *gin.Context) {
	var req LinkRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := ctrl.contentService.UpdateLink(c.Param("id"), req.URL); err != nil {
		respondError(c, err, "Update link")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// GetFundSettings GET /api/fund-settings
func (ctrl *ContentController) GetFundSettings(c *gin.Context) {
	settings, err := ctrl.fundService.Get()
	if err != nil {
		respondError(c, err, "Get fund settings")
		return
	}
	c.JSON(http.StatusOK, settings)
}

// UpdateFundSettings POST /api/fund-settings
func (ctrl *ContentController) UpdateFundSettings(c *gin.Context) {
	var req model.FundSettings
	if !bindJSON(c, &req) {
		return
	}

	if err := ctrl.fundService.Update(req); err != nil {
		respondError(c, err, "Update fund settings")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
