package controller

import (
	"net/http"

	"github.com/chengtian/temple-backend/internal/app/model"
	"github.com/chengtian/temple-backend/internal/app/service"
	"github.com/chengtian/temple-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

const msgFeedbackReceived = "感謝您的分享！我們將在審核後刊登。"

type FeedbackController struct {
	feedbackService service.FeedbackService
}

func NewFeedbackController(feedbackService service.FeedbackService) *FeedbackController {
	return &FeedbackController{
		feedbackService: feedbackService,
	}
}

type SubmitFeedbackRequest struct {
	RealName string   `json:"realName"`
	Nickname string   `json:"nickname"`
	Category []string `json:"category"`
	Content  string   `json:"content"`
	Phone    string   `json:"phone"`
	Address  string   `json:"address"`
	Email    string   `json:"email"`
	Agreed   bool     `json:"agreed"`
}

type ShipFeedbackRequest struct {
	TrackingNumber string `json:"trackingNumber"`
}

type MarkFeedbackRequest struct {
	IsMarked bool `json:"isMarked"`
}

// SubmitFeedback stores a testimonial from a LINE-authenticated visitor
// POST /api/feedback
func (ctrl *FeedbackController) SubmitFeedback(c *gin.Context) {
	var req SubmitFeedbackRequest
	if !bindJSON(c, &req) {
		return
	}

	lineID, _ := middleware.GetLineUserID(c)
	feedback, err := ctrl.feedbackService.Submit(service.SubmitFeedbackInput{
		LineID:   lineID,
		RealName: req.RealName,
		Nickname: req.Nickname,
		Category: req.Category,
		Content:  req.Content,
		Phone:    req.Phone,
		Address:  req.Address,
		Email:    req.Email,
		Agreed:   req.Agreed,
	})
	if err != nil {
		respondError(c, err, "Submit feedback")
		return
	}

	middleware.GetLoggerFromContext(c).Info("Feedback submitted", map[string]interface{}{
		"feedback_id": feedback.ID,
	})
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": msgFeedbackReceived,
	})
}

// ListPublic GET /api/feedback/public
func (ctrl *FeedbackController) ListPublic(c *gin.Context) {
	feedback, err := ctrl.feedbackService.ListPublic()
	if err != nil {
		respondError(c, err, "List public feedback")
		return
	}
	c.JSON(http.StatusOK, feedback)
}

func (ctrl *FeedbackController) listByStatus(c *gin.Context, status model.FeedbackStatus) {
	feedback, err := ctrl.feedbackService.ListByStatus(status)
	if err != nil {
		respondError(c, err, "List feedback")
		return
	}
	c.JSON(http.StatusOK, feedback)
}

// ListPending GET /api/feedback/pending
func (ctrl *FeedbackController) ListPending(c *gin.Context) {
	ctrl.listByStatus(c, model.FeedbackStatusPending)
}

// ListApproved GET /api/feedback/approved
func (ctrl *FeedbackController) ListApproved(c *gin.Context) {
	ctrl.listByStatus(c, model.FeedbackStatusApproved)
}

// ListSent GET /api/feedback/sent
func (ctrl *FeedbackController) ListSent(c *gin.Context) {
	ctrl.listByStatus(c, model.FeedbackStatusSent)
}

// Approve PUT /api/feedback/:id/approve
func (ctrl *FeedbackController) Approve(c *gin.Context) {
	feedback, err := ctrl.feedbackService.Approve(c.Param("id"))
	if err != nil {
		respondError(c, err, "Approve feedback")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"feedbackId": feedback.FeedbackID,
	})
}

// Ship PUT /api/feedback/:id/ship
func (ctrl *FeedbackController) Ship(c *gin.Context) {
	var req ShipFeedbackRequest
	if !bindJSON(c, &req) {
		return
	}

	if _, err := ctrl.feedbackService.Ship(c.Param("id"), req.TrackingNumber); err != nil {
		respondError(c, err, "Ship feedback gift")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Mark toggles the admin's processed marker
// PUT /api/feedback/:id/mark
func (ctrl *FeedbackController) Mark(c *gin.Context) {
	var req MarkFeedbackRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := ctrl.feedbackService.SetMarked(c.Param("id"), req.IsMarked); err != nil {
		respondError(c, err, "Mark feedback")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// MarkAllApproved PUT /api/feedback/mark-all-approved
func (ctrl *FeedbackController) MarkAllApproved(c *gin.Context) {
	count, err := ctrl.feedbackService.MarkAllApproved()
	if err != nil {
		respondError(c, err, "Mark all approved feedback")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "updated": count})
}

// Delete rejects the feedback and informs the author
// DELETE /api/feedback/:id
func (ctrl *FeedbackController) Delete(c *gin.Context) {
	if err := ctrl.feedbackService.Delete(c.Param("id")); err != nil {
		respondError(c, err, "Delete feedback")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
