package service

import (
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/chengtian/temple-backend/internal/app/model"
	"github.com/chengtian/temple-backend/internal/app/repository"
	"github.com/chengtian/temple-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrAnnouncementNotFound = errors.New("announcement not found")
	ErrFAQNotFound          = errors.New("faq not found")
	ErrLinkNotFound         = errors.New("link not found")
	ErrInvalidDate          = errors.New("invalid date")
	ErrInvalidContent       = errors.New("invalid content")
	ErrInvalidFAQCategory   = errors.New("faq category must be chinese characters")
)

// FAQ categories are shown as tab labels and must be Han characters only.
var faqCategoryPattern = regexp.MustCompile(`^\p{Han}+$`)

const displayDateLayout = "2006/01/02"

type AnnouncementInput struct {
	Date     string // YYYY-MM-DD or YYYY/MM/DD, empty means today
	Title    string
	Content  string
	IsPinned bool
}

type FAQInput struct {
	Question string
	Answer   string
	Category string
	IsPinned bool
}

type ContentService interface {
	ListAnnouncements() ([]model.Announcement, error)
	CreateAnnouncement(input AnnouncementInput) (*model.Announcement, error)
	UpdateAnnouncement(id string, input AnnouncementInput) (*model.Announcement, error)
	DeleteAnnouncement(id string) error

	ListFAQ(category string) ([]model.FAQ, error)
	FAQCategories() ([]string, error)
	CreateFAQ(input FAQInput) (*model.FAQ, error)
	DeleteFAQ(id string) error

	ListLinks() ([]model.Link, error)
	CreateLink(name, url string) (*model.Link, error)
	UpdateLink(id, url string) error
}

type contentService struct {
	announcementRepo repository.AnnouncementRepository
	faqRepo          repository.FAQRepository
	linkRepo         repository.LinkRepository
	loc              *time.Location
	now              func() time.Time
}

func NewContentService(
	announcementRepo repository.AnnouncementRepository,
	faqRepo repository.FAQRepository,
	linkRepo repository.LinkRepository,
	loc *time.Location,
) ContentService {
	return &contentService{
		announcementRepo: announcementRepo,
		faqRepo:          faqRepo,
		linkRepo:         linkRepo,
		loc:              loc,
		now:              time.Now,
	}
}

// ListAnnouncements returns pinned entries first with dates as YYYY/MM/DD.
func (s *contentService) ListAnnouncements() ([]model.Announcement, error) {
	items, err := s.announcementRepo.FindAll()
	if err != nil {
		return nil, err
	}
	for i := range items {
		if d, err := time.Parse(model.DateLayout, items[i].Date); err == nil {
			items[i].Date = d.Format(displayDateLayout)
		}
	}
	return items, nil
}

func (s *contentService) parseDate(value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return s.now().In(s.loc).Format(model.DateLayout), nil
	}
	for _, layout := range []string{model.DateLayout, displayDateLayout} {
		if d, err := time.Parse(layout, value); err == nil {
			return d.Format(model.DateLayout), nil
		}
	}
	return "", ErrInvalidDate
}

func (s *contentService) CreateAnnouncement(input AnnouncementInput) (*model.Announcement, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, ErrInvalidContent
	}
	date, err := s.parseDate(input.Date)
	if err != nil {
		return nil, err
	}

	item := &model.Announcement{
		Date:     date,
		Title:    strings.TrimSpace(input.Title),
		Content:  input.Content,
		IsPinned: input.IsPinned,
	}
	if err := s.announcementRepo.Create(item); err != nil {
		return nil, err
	}

	logger.Info("Announcement created", map[string]interface{}{
		"id":   item.ID,
		"date": item.Date,
	})
	return item, nil
}

func (s *contentService) UpdateAnnouncement(id string, input AnnouncementInput) (*model.Announcement, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, ErrInvalidContent
	}
	date, err := s.parseDate(input.Date)
	if err != nil {
		return nil, err
	}

	item, err := s.announcementRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAnnouncementNotFound
		}
		return nil, err
	}

	item.Date = date
	item.Title = strings.TrimSpace(input.Title)
	item.Content = input.Content
	item.IsPinned = input.IsPinned
	if err := s.announcementRepo.Update(item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *contentService) DeleteAnnouncement(id string) error {
	if err := s.announcementRepo.Delete(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAnnouncementNotFound
		}
		return err
	}
	return nil
}

func (s *contentService) ListFAQ(category string) ([]model.FAQ, error) {
	return s.faqRepo.FindAll(strings.TrimSpace(category))
}

func (s *contentService) FAQCategories() ([]string, error) {
	return s.faqRepo.Categories()
}

func (s *contentService) CreateFAQ(input FAQInput) (*model.FAQ, error) {
	question := strings.TrimSpace(input.Question)
	answer := strings.TrimSpace(input.Answer)
	category := strings.TrimSpace(input.Category)
	if question == "" || answer == "" {
		return nil, ErrInvalidContent
	}
	if !faqCategoryPattern.MatchString(category) {
		return nil, ErrInvalidFAQCategory
	}

	faq := &model.FAQ{
		Question: question,
		Answer:   answer,
		Category: category,
		IsPinned: input.IsPinned,
	}
	if err := s.faqRepo.Create(faq); err != nil {
		return nil, err
	}
	return faq, nil
}

func (s *contentService) DeleteFAQ(id string) error {
	if err := s.faqRepo.Delete(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrFAQNotFound
		}
		return err
	}
	return nil
}

func (s *contentService) ListLinks() ([]model.Link, error) {
	return s.linkRepo.FindAll()
}

func (s *contentService) CreateLink(name, url string) (*model.Link, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrInvalidContent
	}

	link := &model.Link{Name: name, URL: strings.TrimSpace(url)}
	if err := s.linkRepo.Create(link); err != nil {
		return nil, err
	}
	return link, nil
}

func (s *contentService) UpdateLink(id, url string) error {
	if err := s.linkRepo.UpdateURL(id, strings.TrimSpace(url)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrLinkNotFound
		}
		return err
	}
	return nil
}
