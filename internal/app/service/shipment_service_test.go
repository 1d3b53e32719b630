package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/chengtian/temple-backend/internal/app/model"
	"github.com/chengtian/temple-backend/internal/app/repository"
	"github.com/chengtian/temple-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupShipmentServiceTest(t *testing.T, now time.Time) *shipmentService {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	svc := NewShipmentService(repository.NewShipmentRepository(testDB), nil, testLocation).(*shipmentService)
	svc.now = fixedClock(now)
	return svc
}

func shipmentInput() SubmitShipmentInput {
	return SubmitShipmentInput{
		Name:      "王小明",
		BirthYear: "1980",
		LineGroup: "台北一組",
		LineName:  "小明",
		Clothes: []model.ClothingItem{
			{ID: "A01", Owner: "王大明"},
			{ID: "A02", Owner: "李四"},
		},
	}
}

func TestShipmentService_Submit_PickupDate(t *testing.T) {
	// Friday 2024-03-01 10:00 in Taipei
	svc := setupShipmentServiceTest(t, time.Date(2024, 3, 1, 2, 0, 0, 0, time.UTC))

	assert.Equal(t, "2024-03-05", svc.PickupDate().Format(model.DateLayout))

	shipment, err := svc.Submit(shipmentInput())
	require.NoError(t, err)
	assert.Equal(t, "2024-03-01", shipment.SubmitDate)
	assert.Equal(t, "2024-03-05", shipment.PickupDate)
}

func TestShipmentService_Submit_UsesSiteTimezone(t *testing.T) {
	// Sunday 17:00 UTC is already Monday in Taipei
	svc := setupShipmentServiceTest(t, time.Date(2024, 3, 3, 17, 0, 0, 0, time.UTC))

	shipment, err := svc.Submit(shipmentInput())
	require.NoError(t, err)
	assert.Equal(t, "2024-03-04", shipment.SubmitDate)
	assert.Equal(t, "2024-03-06", shipment.PickupDate)
}

func TestShipmentService_Submit_Invalid(t *testing.T) {
	svc := setupShipmentServiceTest(t, time.Now())

	noClothes := shipmentInput()
	noClothes.Clothes = nil
	_, err := svc.Submit(noClothes)
	assert.ErrorIs(t, err, ErrInvalidShipment)

	blankID := shipmentInput()
	blankID.Clothes = []model.ClothingItem{{ID: " ", Owner: "王"}}
	_, err = svc.Submit(blankID)
	assert.ErrorIs(t, err, ErrInvalidShipment)
}

func TestShipmentService_ListWindow_Masked(t *testing.T) {
	svc := setupShipmentServiceTest(t, time.Date(2024, 2, 20, 2, 0, 0, 0, time.UTC))
	_, err := svc.Submit(shipmentInput()) // pickup 2024-02-22, outside the window below
	require.NoError(t, err)

	svc.now = fixedClock(time.Date(2024, 3, 1, 2, 0, 0, 0, time.UTC))
	_, err = svc.Submit(shipmentInput()) // pickup 2024-03-05
	require.NoError(t, err)

	svc.now = fixedClock(time.Date(2024, 3, 4, 2, 0, 0, 0, time.UTC))
	list, err := svc.ListWindow()
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "王O明", list[0].Name)
	assert.Equal(t, "王O明", list[0].Clothes[0].Owner)
	assert.Equal(t, "李O", list[0].Clothes[1].Owner)
	assert.Equal(t, "2024-03-05", list[0].PickupDate)

	raw, err := json.Marshal(list)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "王小明")
	assert.NotContains(t, string(raw), "1980")

	all, err := svc.ListAll()
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

type mapSession map[string]string

func (m mapSession) Set(_ context.Context, key, value string) error {
	m[key] = value
	return nil
}

func (m mapSession) Take(_ context.Context, key string) (string, bool, error) {
	v, ok := m[key]
	delete(m, key)
	return v, ok, nil
}

func TestCaptchaService_SingleUse(t *testing.T) {
	svc := &captchaService{random: func(min, max int) int { return 4 }}
	sess := mapSession{}

	question, err := svc.Issue(context.Background(), sess)
	require.NoError(t, err)
	assert.Equal(t, "4 + 4 = ?", question)

	require.NoError(t, svc.Verify(context.Background(), sess, "8"))
	// replaying the same answer fails once consumed
	assert.ErrorIs(t, svc.Verify(context.Background(), sess, "8"), ErrCaptchaInvalid)
}

func TestCaptchaService_WrongAnswerConsumes(t *testing.T) {
	svc := &captchaService{random: func(min, max int) int { return 3 }}
	sess := mapSession{}

	_, err := svc.Issue(context.Background(), sess)
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Verify(context.Background(), sess, "7"), ErrCaptchaInvalid)
	assert.ErrorIs(t, svc.Verify(context.Background(), sess, "6"), ErrCaptchaInvalid)
}

func TestCaptchaService_RangeBounds(t *testing.T) {
	svc := NewCaptchaService().(*captchaService)
	for i := 0; i < 100; i++ {
		n := svc.random(1, 10)
		assert.GreaterOrEqual(t, n, 1)
		assert.LessOrEqual(t, n, 10)
	}
}
