package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/chengtian/temple-backend/internal/app/model"
	"github.com/chengtian/temple-backend/internal/app/repository"
	"github.com/chengtian/temple-backend/internal/notify"
	"github.com/chengtian/temple-backend/pkg/logger"
	"github.com/chengtian/temple-backend/pkg/util"
	"gorm.io/gorm"
)

var (
	ErrFeedbackNotFound          = errors.New("feedback not found")
	ErrFeedbackConsentRequired   = errors.New("consent required")
	ErrInvalidFeedback           = errors.New("invalid feedback")
	ErrInvalidFeedbackTransition = errors.New("invalid feedback status transition")
	ErrLineLoginRequired         = errors.New("line login required")
)

type SubmitFeedbackInput struct {
	LineID   string
	RealName string
	Nickname string
	Category []string
	Content  string
	Phone    string
	Address  string
	Email    string
	Agreed   bool
}

// PublicFeedback carries only the fields safe to show anonymously.
type PublicFeedback struct {
	Nickname  string   `json:"nickname"`
	Category  []string `json:"category"`
	Content   string   `json:"content"`
	CreatedAt string   `json:"createdAt"`
}

type FeedbackService interface {
	Submit(input SubmitFeedbackInput) (*model.Feedback, error)
	ListByStatus(status model.FeedbackStatus) ([]model.Feedback, error)
	ListPublic() ([]PublicFeedback, error)
	Approve(id string) (*model.Feedback, error)
	Ship(id, trackingNumber string) (*model.Feedback, error)
	SetMarked(id string, marked bool) error
	MarkAllApproved() (int64, error)
	Delete(id string) error
}

type feedbackService struct {
	feedbackRepo repository.FeedbackRepository
	userRepo     repository.UserRepository
	mail         notify.Sink
	composer     *notify.Composer
	events       EventPublisher
	loc          *time.Location
	now          func() time.Time
}

func NewFeedbackService(
	feedbackRepo repository.FeedbackRepository,
	userRepo repository.UserRepository,
	mail notify.Sink,
	composer *notify.Composer,
	events EventPublisher,
	loc *time.Location,
) FeedbackService {
	return &feedbackService{
		feedbackRepo: feedbackRepo,
		userRepo:     userRepo,
		mail:         mail,
		composer:     composer,
		events:       publisherOrNop(events),
		loc:          loc,
		now:          time.Now,
	}
}

func (s *feedbackService) Submit(input SubmitFeedbackInput) (*model.Feedback, error) {
	if input.LineID == "" {
		return nil, ErrLineLoginRequired
	}
	if !input.Agreed {
		return nil, ErrFeedbackConsentRequired
	}
	if strings.TrimSpace(input.Nickname) == "" || strings.TrimSpace(input.Content) == "" {
		return nil, ErrInvalidFeedback
	}

	now := s.now().UTC()
	feedback := &model.Feedback{
		LineID:    input.LineID,
		RealName:  strings.TrimSpace(input.RealName),
		Nickname:  strings.TrimSpace(input.Nickname),
		Category:  input.Category,
		Content:   strings.TrimSpace(input.Content),
		Phone:     strings.TrimSpace(input.Phone),
		Address:   strings.TrimSpace(input.Address),
		Email:     strings.TrimSpace(input.Email),
		Agreed:    true,
		Status:    model.FeedbackStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if feedback.Category == nil {
		feedback.Category = []string{}
	}

	if err := s.feedbackRepo.Create(feedback); err != nil {
		return nil, err
	}

	// keep the submitter's latest contact details on their profile
	if err := s.userRepo.Upsert(&model.User{
		LineID:   feedback.LineID,
		RealName: feedback.RealName,
		Phone:    feedback.Phone,
		Address:  feedback.Address,
		Email:    feedback.Email,
	}, "real_name", "phone", "address", "email"); err != nil {
		logger.Warn("Failed to update submitter profile", map[string]interface{}{
			"line_id": feedback.LineID,
			"error":   err.Error(),
		})
	}

	logger.Info("Feedback submitted", map[string]interface{}{
		"id":      feedback.ID,
		"line_id": feedback.LineID,
	})
	s.events.Publish(EventFeedbackCreated, feedback)
	return feedback, nil
}

func (s *feedbackService) ListByStatus(status model.FeedbackStatus) ([]model.Feedback, error) {
	if !status.Valid() {
		return nil, ErrInvalidFeedback
	}
	return s.feedbackRepo.ListByStatus(status)
}

func (s *feedbackService) ListPublic() ([]PublicFeedback, error) {
	items, err := s.feedbackRepo.ListPublic()
	if err != nil {
		return nil, err
	}

	result := make([]PublicFeedback, 0, len(items))
	for _, f := range items {
		category := f.Category
		if category == nil {
			category = []string{}
		}
		result = append(result, PublicFeedback{
			Nickname:  f.Nickname,
			Category:  category,
			Content:   f.Content,
			CreatedAt: f.CreatedAt.In(s.loc).Format("2006/01/02"),
		})
	}
	return result, nil
}

func (s *feedbackService) find(id string) (*model.Feedback, error) {
	feedback, err := s.feedbackRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFeedbackNotFound
		}
		return nil, err
	}
	return feedback, nil
}

// transition applies updates when the entry is still in its current status.
func (s *feedbackService) transition(feedback *model.Feedback, next model.FeedbackStatus, updates map[string]interface{}) error {
	if !feedback.Status.CanTransitionTo(next) {
		logger.Warn("Feedback transition rejected", map[string]interface{}{
			"id":   feedback.ID,
			"from": feedback.Status,
			"to":   next,
		})
		return ErrInvalidFeedbackTransition
	}

	updates["status"] = next
	ok, err := s.feedbackRepo.Transition(feedback.ID, feedback.Status, updates)
	if err != nil {
		return err
	}
	if !ok {
		return ErrInvalidFeedbackTransition
	}
	feedback.Status = next
	return nil
}

func (s *feedbackService) Approve(id string) (*model.Feedback, error) {
	feedback, err := s.find(id)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	feedbackID := fmt.Sprintf("FB%s%02d", now.In(s.loc).Format("20060102150405"), util.GenerateRandomNumber(0, 99))
	if err := s.transition(feedback, model.FeedbackStatusApproved, map[string]interface{}{
		"feedback_id": feedbackID,
		"approved_at": now,
	}); err != nil {
		return nil, err
	}
	feedback.FeedbackID = feedbackID
	feedback.ApprovedAt = &now

	logger.Info("Feedback approved", map[string]interface{}{
		"id":          feedback.ID,
		"feedback_id": feedbackID,
	})
	s.send(s.composer.FeedbackApproved(feedback))
	s.events.Publish(EventFeedbackUpdated, feedback)
	return feedback, nil
}

func (s *feedbackService) Ship(id, trackingNumber string) (*model.Feedback, error) {
	trackingNumber = strings.TrimSpace(trackingNumber)
	if trackingNumber == "" {
		return nil, ErrTrackingNumberRequired
	}

	feedback, err := s.find(id)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	if err := s.transition(feedback, model.FeedbackStatusSent, map[string]interface{}{
		"tracking_number": trackingNumber,
		"sent_at":         now,
	}); err != nil {
		return nil, err
	}
	feedback.TrackingNumber = trackingNumber
	feedback.SentAt = &now

	logger.Info("Feedback gift shipped", map[string]interface{}{
		"id":              feedback.ID,
		"tracking_number": trackingNumber,
	})
	s.send(s.composer.FeedbackSent(feedback))
	s.events.Publish(EventFeedbackUpdated, feedback)
	return feedback, nil
}

func (s *feedbackService) SetMarked(id string, marked bool) error {
	if err := s.feedbackRepo.SetMarked(id, marked); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrFeedbackNotFound
		}
		return err
	}
	return nil
}

func (s *feedbackService) MarkAllApproved() (int64, error) {
	count, err := s.feedbackRepo.MarkAllApproved()
	if err != nil {
		return 0, err
	}
	logger.Info("Approved feedback marked", map[string]interface{}{
		"count": count,
	})
	return count, nil
}

// Delete rejects the entry: the author is told before the row goes away.
func (s *feedbackService) Delete(id string) error {
	feedback, err := s.find(id)
	if err != nil {
		return err
	}

	if feedback.Email != "" {
		s.send(s.composer.FeedbackRejected(feedback))
	}
	if err := s.feedbackRepo.Delete(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrFeedbackNotFound
		}
		return err
	}

	logger.Info("Feedback deleted", map[string]interface{}{
		"id":     feedback.ID,
		"status": feedback.Status,
	})
	return nil
}

func (s *feedbackService) send(msg notify.Message, err error) {
	if err != nil {
		logger.Error("Failed to compose feedback email", err, nil)
		return
	}
	if msg.To == "" {
		return
	}
	if !s.mail.Enqueue(msg) {
		logger.Warn("Feedback email dropped", map[string]interface{}{
			"kind": msg.Kind,
		})
	}
}
