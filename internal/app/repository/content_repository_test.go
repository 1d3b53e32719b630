package repository

import (
	"testing"

	"github.com/chengtian/temple-backend/internal/app/model"
	"github.com/chengtian/temple-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupContentTest(t *testing.T) *gorm.DB {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })
	return testDB
}

func TestAnnouncementRepository_PinnedFirst(t *testing.T) {
	repo := NewAnnouncementRepository(setupContentTest(t))

	require.NoError(t, repo.Create(&model.Announcement{Date: "2024-03-01", Title: "舊公告"}))
	require.NoError(t, repo.Create(&model.Announcement{Date: "2024-03-10", Title: "新公告"}))
	require.NoError(t, repo.Create(&model.Announcement{Date: "2024-01-01", Title: "置頂", IsPinned: true}))

	items, err := repo.FindAll()
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, "置頂", items[0].Title)
	assert.Equal(t, "新公告", items[1].Title)
	assert.Equal(t, "舊公告", items[2].Title)

	items[1].Title = "更新公告"
	require.NoError(t, repo.Update(&items[1]))
	found, err := repo.FindByID(items[1].ID)
	require.NoError(t, err)
	assert.Equal(t, "更新公告", found.Title)

	require.NoError(t, repo.Delete(found.ID))
	assert.ErrorIs(t, repo.Delete(found.ID), gorm.ErrRecordNotFound)
}

func TestFAQRepository_Categories(t *testing.T) {
	repo := NewFAQRepository(setupContentTest(t))

	require.NoError(t, repo.Create(&model.FAQ{Question: "q1", Answer: "a1", Category: "法會"}))
	require.NoError(t, repo.Create(&model.FAQ{Question: "q2", Answer: "a2", Category: "捐款"}))
	require.NoError(t, repo.Create(&model.FAQ{Question: "q3", Answer: "a3", Category: "法會", IsPinned: true}))

	categories, err := repo.Categories()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"法會", "捐款"}, categories)

	items, err := repo.FindAll("法會")
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "q3", items[0].Question)

	all, err := repo.FindAll("")
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestLinkRepository_UpdateURL(t *testing.T) {
	testDB := setupContentTest(t)
	require.NoError(t, db.Seed(testDB))
	repo := NewLinkRepository(testDB)

	links, err := repo.FindAll()
	require.NoError(t, err)
	require.NotEmpty(t, links)

	require.NoError(t, repo.UpdateURL(links[0].ID, "https://example.org"))
	links, err = repo.FindAll()
	require.NoError(t, err)
	assert.Equal(t, "https://example.org", links[0].URL)

	assert.ErrorIs(t, repo.UpdateURL("6f1c1a8e-9a53-4e0a-8b44-000000000000", "x"), gorm.ErrRecordNotFound)
}

func TestSettingRepository_PutOverwrites(t *testing.T) {
	repo := NewSettingRepository(setupContentTest(t))

	require.NoError(t, repo.Put("fund", `{"goal_amount":100}`))
	require.NoError(t, repo.Put("fund", `{"goal_amount":200}`))

	setting, err := repo.Get("fund")
	require.NoError(t, err)
	assert.Equal(t, `{"goal_amount":200}`, setting.Value)
}

func TestShipmentRepository_FindPickupBetween(t *testing.T) {
	repo := NewShipmentRepository(setupContentTest(t))

	for _, pickup := range []string{"2024-02-28", "2024-03-01", "2024-03-05", "2024-03-20"} {
		require.NoError(t, repo.Create(&model.Shipment{
			Name:       "王小明",
			Clothes:    []model.ClothingItem{{ID: "A1", Owner: "王大明"}},
			SubmitDate: "2024-02-27",
			PickupDate: pickup,
		}))
	}

	found, err := repo.FindPickupBetween("2024-03-01", "2024-03-06")
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, "2024-03-01", found[0].PickupDate)
	assert.Equal(t, []model.ClothingItem{{ID: "A1", Owner: "王大明"}}, found[0].Clothes)

	all, err := repo.ListAll()
	require.NoError(t, err)
	assert.Len(t, all, 4)
}
