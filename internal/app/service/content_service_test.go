package service

import (
	"testing"
	"time"

	"github.com/chengtian/temple-backend/internal/app/model"
	"github.com/chengtian/temple-backend/internal/app/repository"
	"github.com/chengtian/temple-backend/internal/db"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupContentServiceTest(t *testing.T) (*contentService, *gorm.DB) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	svc := NewContentService(
		repository.NewAnnouncementRepository(testDB),
		repository.NewFAQRepository(testDB),
		repository.NewLinkRepository(testDB),
		testLocation,
	).(*contentService)
	svc.now = fixedClock(time.Date(2024, 3, 1, 4, 0, 0, 0, time.UTC))
	return svc, testDB
}

func TestContentService_Announcements(t *testing.T) {
	svc, _ := setupContentServiceTest(t)

	created, err := svc.CreateAnnouncement(AnnouncementInput{Title: "春季法會"})
	require.NoError(t, err)
	assert.Equal(t, "2024-03-01", created.Date)

	_, err = svc.CreateAnnouncement(AnnouncementInput{Title: "置頂", Date: "2024/01/15", IsPinned: true})
	require.NoError(t, err)

	_, err = svc.CreateAnnouncement(AnnouncementInput{Title: "壞日期", Date: "03-01-2024"})
	assert.ErrorIs(t, err, ErrInvalidDate)

	_, err = svc.CreateAnnouncement(AnnouncementInput{Title: " "})
	assert.ErrorIs(t, err, ErrInvalidContent)

	items, err := svc.ListAnnouncements()
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "置頂", items[0].Title)
	assert.Equal(t, "2024/01/15", items[0].Date)
	assert.Equal(t, "2024/03/01", items[1].Date)

	updated, err := svc.UpdateAnnouncement(created.ID, AnnouncementInput{Title: "春季法會（改期）", Date: "2024-03-08"})
	require.NoError(t, err)
	assert.Equal(t, "2024-03-08", updated.Date)

	require.NoError(t, svc.DeleteAnnouncement(created.ID))
	assert.ErrorIs(t, svc.DeleteAnnouncement(created.ID), ErrAnnouncementNotFound)
	_, err = svc.UpdateAnnouncement(created.ID, AnnouncementInput{Title: "x"})
	assert.ErrorIs(t, err, ErrAnnouncementNotFound)
}

func TestContentService_FAQ(t *testing.T) {
	svc, _ := setupContentServiceTest(t)

	_, err := svc.CreateFAQ(FAQInput{Question: "何時開放？", Answer: "每日 8 點", Category: "參訪"})
	require.NoError(t, err)

	for _, category := range []string{"visit", "參訪1", "", "參 訪"} {
		_, err = svc.CreateFAQ(FAQInput{Question: "q", Answer: "a", Category: category})
		assert.ErrorIs(t, err, ErrInvalidFAQCategory, category)
	}

	_, err = svc.CreateFAQ(FAQInput{Question: "", Answer: "a", Category: "參訪"})
	assert.ErrorIs(t, err, ErrInvalidContent)

	categories, err := svc.FAQCategories()
	require.NoError(t, err)
	assert.Equal(t, []string{"參訪"}, categories)

	items, err := svc.ListFAQ("參訪")
	require.NoError(t, err)
	require.Len(t, items, 1)

	require.NoError(t, svc.DeleteFAQ(items[0].ID))
	assert.ErrorIs(t, svc.DeleteFAQ(items[0].ID), ErrFAQNotFound)
}

func TestContentService_Links(t *testing.T) {
	svc, testDB := setupContentServiceTest(t)
	require.NoError(t, db.Seed(testDB))

	links, err := svc.ListLinks()
	require.NoError(t, err)
	require.NotEmpty(t, links)

	require.NoError(t, svc.UpdateLink(links[0].ID, " https://line.me/R/ti/p/@temple "))
	assert.ErrorIs(t, svc.UpdateLink("6f1c1a8e-9a53-4e0a-8b44-000000000000", "x"), ErrLinkNotFound)

	link, err := svc.CreateLink("instagram", "https://instagram.com/temple")
	require.NoError(t, err)
	assert.True(t, model.IsValidID(link.ID))

	_, err = svc.CreateLink(" ", "x")
	assert.ErrorIs(t, err, ErrInvalidContent)
}

func TestFundService_GetAndUpdate(t *testing.T) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})
	svc := NewFundService(repository.NewSettingRepository(testDB))

	// missing row reads as zero
	settings, err := svc.Get()
	require.NoError(t, err)
	assert.True(t, settings.GoalAmount.IsZero())

	require.NoError(t, svc.Update(model.FundSettings{
		GoalAmount:    decimal.NewFromInt(10000000),
		CurrentAmount: decimal.NewFromInt(2500000),
	}))

	settings, err = svc.Get()
	require.NoError(t, err)
	assert.True(t, settings.GoalAmount.Equal(decimal.NewFromInt(10000000)))
	assert.True(t, settings.CurrentAmount.Equal(decimal.NewFromInt(2500000)))

	assert.ErrorIs(t, svc.Update(model.FundSettings{GoalAmount: decimal.NewFromInt(-1)}), ErrInvalidFundSettings)
}
