package db

import (
	"testing"

	"github.com/chengtian/temple-backend/config"
	"github.com/chengtian/temple-backend/internal/app/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeed_Idempotent(t *testing.T) {
	testDB, err := SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { CleanupTestDB(testDB) })

	require.NoError(t, Seed(testDB))
	require.NoError(t, Seed(testDB))

	var links int64
	testDB.Model(&model.Link{}).Count(&links)
	assert.Equal(t, int64(len(defaultLinks)), links)

	var fund model.Setting
	require.NoError(t, testDB.First(&fund, "setting_key = ?", model.SettingKeyFund).Error)
	assert.JSONEq(t, `{"goal_amount":0,"current_amount":0}`, fund.Value)
}

func TestTruncateAllTables(t *testing.T) {
	testDB, err := SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { CleanupTestDB(testDB) })

	require.NoError(t, Seed(testDB))
	require.NoError(t, TruncateAllTables(testDB))

	var links int64
	testDB.Model(&model.Link{}).Count(&links)
	assert.Zero(t, links)
}

func TestOpen_NotConfigured(t *testing.T) {
	_, err := Open(&config.DatabaseConfig{})
	assert.ErrorIs(t, err, ErrNotConfigured)
}
