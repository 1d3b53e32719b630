package service

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/chengtian/temple-backend/internal/app/model"
	"github.com/chengtian/temple-backend/internal/app/repository"
	"github.com/chengtian/temple-backend/internal/db"
	"github.com/chengtian/temple-backend/internal/notify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupFeedbackServiceTest(t *testing.T) (*feedbackService, repository.UserRepository, *recordingSink) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	sink := &recordingSink{}
	userRepo := repository.NewUserRepository(testDB)
	svc := NewFeedbackService(
		repository.NewFeedbackRepository(testDB),
		userRepo,
		sink,
		testComposer(),
		nil,
		testLocation,
	).(*feedbackService)
	svc.now = fixedClock(time.Date(2024, 3, 1, 4, 0, 0, 0, time.UTC))
	return svc, userRepo, sink
}

func feedbackInput() SubmitFeedbackInput {
	return SubmitFeedbackInput{
		LineID:   "U1234",
		RealName: "王小明",
		Nickname: "小明",
		Category: []string{"祈福", "感應"},
		Content:  "感謝師父開示",
		Phone:    "0912345678",
		Address:  "台北市中正區",
		Email:    "ming@example.com",
		Agreed:   true,
	}
}

func TestFeedbackService_Submit(t *testing.T) {
	svc, userRepo, _ := setupFeedbackServiceTest(t)

	feedback, err := svc.Submit(feedbackInput())
	require.NoError(t, err)
	assert.Equal(t, model.FeedbackStatusPending, feedback.Status)
	assert.Empty(t, feedback.FeedbackID)

	user, err := userRepo.FindByLineID("U1234")
	require.NoError(t, err)
	assert.Equal(t, "王小明", user.RealName)
	assert.Equal(t, "0912345678", user.Phone)
}

func TestFeedbackService_Submit_Validation(t *testing.T) {
	svc, _, _ := setupFeedbackServiceTest(t)

	noConsent := feedbackInput()
	noConsent.Agreed = false
	_, err := svc.Submit(noConsent)
	assert.ErrorIs(t, err, ErrFeedbackConsentRequired)

	anonymous := feedbackInput()
	anonymous.LineID = ""
	_, err = svc.Submit(anonymous)
	assert.ErrorIs(t, err, ErrLineLoginRequired)

	empty := feedbackInput()
	empty.Content = "  "
	_, err = svc.Submit(empty)
	assert.ErrorIs(t, err, ErrInvalidFeedback)
}

func TestFeedbackService_Lifecycle(t *testing.T) {
	svc, _, sink := setupFeedbackServiceTest(t)

	feedback, err := svc.Submit(feedbackInput())
	require.NoError(t, err)

	// cannot ship before approval
	_, err = svc.Ship(feedback.ID, "TW1")
	assert.ErrorIs(t, err, ErrInvalidFeedbackTransition)

	approved, err := svc.Approve(feedback.ID)
	require.NoError(t, err)
	assert.Regexp(t, `^FB20240301120000\d{2}$`, approved.FeedbackID)
	assert.NotNil(t, approved.ApprovedAt)

	_, err = svc.Approve(feedback.ID)
	assert.ErrorIs(t, err, ErrInvalidFeedbackTransition)

	sent, err := svc.Ship(feedback.ID, "TW1")
	require.NoError(t, err)
	assert.Equal(t, model.FeedbackStatusSent, sent.Status)
	assert.Equal(t, "TW1", sent.TrackingNumber)

	assert.Equal(t, []string{notify.KindFeedbackApproved, notify.KindFeedbackSent}, sink.kinds())

	_, err = svc.Approve("6f1c1a8e-9a53-4e0a-8b44-000000000000")
	assert.ErrorIs(t, err, ErrFeedbackNotFound)
}

func TestFeedbackService_Delete_SendsRejection(t *testing.T) {
	svc, _, sink := setupFeedbackServiceTest(t)

	feedback, err := svc.Submit(feedbackInput())
	require.NoError(t, err)

	require.NoError(t, svc.Delete(feedback.ID))
	assert.Equal(t, []string{notify.KindFeedbackRejected}, sink.kinds())
	assert.ErrorIs(t, svc.Delete(feedback.ID), ErrFeedbackNotFound)
}

func TestFeedbackService_ListPublic_Redacted(t *testing.T) {
	svc, _, _ := setupFeedbackServiceTest(t)

	pending, err := svc.Submit(feedbackInput())
	require.NoError(t, err)
	approved, err := svc.Submit(feedbackInput())
	require.NoError(t, err)
	_, err = svc.Approve(approved.ID)
	require.NoError(t, err)

	public, err := svc.ListPublic()
	require.NoError(t, err)
	require.Len(t, public, 1)
	assert.Equal(t, "小明", public[0].Nickname)
	assert.Equal(t, "2024/03/01", public[0].CreatedAt)

	raw, err := json.Marshal(public)
	require.NoError(t, err)
	for _, secret := range []string{"王小明", "0912345678", "台北市", "ming@example.com", "U1234", pending.ID} {
		assert.NotContains(t, string(raw), secret)
	}
}

func TestFeedbackService_Marks(t *testing.T) {
	svc, _, _ := setupFeedbackServiceTest(t)

	for i := 0; i < 2; i++ {
		f, err := svc.Submit(feedbackInput())
		require.NoError(t, err)
		_, err = svc.Approve(f.ID)
		require.NoError(t, err)
	}

	approved, err := svc.ListByStatus(model.FeedbackStatusApproved)
	require.NoError(t, err)
	require.Len(t, approved, 2)

	require.NoError(t, svc.SetMarked(approved[0].ID, true))
	count, err := svc.MarkAllApproved()
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	assert.ErrorIs(t, svc.SetMarked("6f1c1a8e-9a53-4e0a-8b44-000000000000", true), ErrFeedbackNotFound)

	_, err = svc.ListByStatus("bogus")
	assert.ErrorIs(t, err, ErrInvalidFeedback)
}
