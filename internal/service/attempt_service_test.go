package service

import (
	"test_portal_backend/internal/model"
	"test_portal_backend/internal/repository"
	"test_portal_backend/internal/util"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newAttemptService(t *testing.T) (*AttemptService, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	attempts := repository.NewAttemptRepository(db)
	tests := repository.NewTestRepository(db)
	ranking := NewRankingService(attempts, tests, nil)
	return NewAttemptService(attempts, tests, ranking, testGradingConfig()), db
}

func TestSubmitFirstAttempt(t *testing.T) {
	svc, db := newAttemptService(t)
	user := seedUser(t, db, "Asha", "asha@example.com")
	test := seedTest(t, db, "Algebra")

	answers := allCorrectAnswers(test)
	answers[2].SelectedOption = -1

	resp, err := svc.Submit(user.ID, SubmitAttemptRequest{
		TestID:    test.ID,
		Answers:   answers,
		TimeTaken: 120,
	})
	require.NoError(t, err)

	assert.True(t, resp.IsFirstAttempt)
	assert.Equal(t, 2, resp.Marks)
	assert.Equal(t, 2, resp.CorrectCount)
	assert.Equal(t, 0, resp.IncorrectCount)
	assert.Equal(t, 1, resp.UnattemptedCount)
	assert.Equal(t, "Algebra", resp.TestTitle)
	assert.Len(t, resp.DetailedResults, 3)
	assert.NotZero(t, resp.AttemptID)
	assert.Equal(t, resp.AttemptID, resp.ID)

	var stored model.Attempt
	require.NoError(t, db.First(&stored, resp.AttemptID).Error)
	assert.True(t, stored.IsFirstAttempt)
	require.NotNil(t, stored.RankedSlot)
	assert.Equal(t, "1", *stored.RankedSlot)
}

func TestSubmitReAttempt(t *testing.T) {
	svc, db := newAttemptService(t)
	user := seedUser(t, db, "Asha", "asha@example.com")
	test := seedTest(t, db, "Algebra")

	first, err := svc.Submit(user.ID, SubmitAttemptRequest{
		TestID: test.ID, Answers: allCorrectAnswers(test), TimeTaken: 100,
	})
	require.NoError(t, err)
	require.True(t, first.IsFirstAttempt)

	second, err := svc.Submit(user.ID, SubmitAttemptRequest{
		TestID: test.ID, Answers: allCorrectAnswers(test), TimeTaken: 80,
	})
	require.NoError(t, err)
	assert.False(t, second.IsFirstAttempt)

	var stored model.Attempt
	require.NoError(t, db.First(&stored, second.AttemptID).Error)
	assert.Nil(t, stored.RankedSlot)
}

func TestSubmitUnknownTest(t *testing.T) {
	svc, db := newAttemptService(t)
	user := seedUser(t, db, "Asha", "asha@example.com")

	_, err := svc.Submit(user.ID, SubmitAttemptRequest{TestID: 42, Answers: []model.SubmittedAnswer{{QuestionID: 1}}})
	assert.ErrorIs(t, err, util.ErrTestNotFound)
}

func TestSubmitMalformed(t *testing.T) {
	svc, db := newAttemptService(t)
	user := seedUser(t, db, "Asha", "asha@example.com")
	test := seedTest(t, db, "Algebra")

	answers := allCorrectAnswers(test)[:2]
	_, err := svc.Submit(user.ID, SubmitAttemptRequest{TestID: test.ID, Answers: answers, TimeTaken: 60})
	assert.ErrorIs(t, err, util.ErrMalformedSubmission)

	// Rejected submissions are never stored.
	var count int64
	require.NoError(t, db.Model(&model.Attempt{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestSubmitTimingBounds(t *testing.T) {
	svc, db := newAttemptService(t)
	user := seedUser(t, db, "Asha", "asha@example.com")
	test := seedTest(t, db, "Algebra") // 10 minutes

	_, err := svc.Submit(user.ID, SubmitAttemptRequest{
		TestID: test.ID, Answers: allCorrectAnswers(test), TimeTaken: -1,
	})
	assert.ErrorIs(t, err, util.ErrInvalidTiming)

	// duration*60 + grace = 630
	_, err = svc.Submit(user.ID, SubmitAttemptRequest{
		TestID: test.ID, Answers: allCorrectAnswers(test), TimeTaken: 631,
	})
	assert.ErrorIs(t, err, util.ErrInvalidTiming)

	_, err = svc.Submit(user.ID, SubmitAttemptRequest{
		TestID: test.ID, Answers: allCorrectAnswers(test), TimeTaken: 630,
	})
	assert.NoError(t, err)
}

func TestSubmitWindowGate(t *testing.T) {
	svc, db := newAttemptService(t)
	user := seedUser(t, db, "Asha", "asha@example.com")
	test := seedTest(t, db, "Algebra")

	now := time.Now()
	require.NoError(t, db.Model(test).Updates(map[string]interface{}{
		"is_live":      true,
		"start_window": timePtr(now.Add(time.Hour)),
		"end_window":   timePtr(now.Add(2 * time.Hour)),
	}).Error)

	_, err := svc.Submit(user.ID, SubmitAttemptRequest{
		TestID: test.ID, Answers: allCorrectAnswers(test), TimeTaken: 60,
	})
	assert.ErrorIs(t, err, util.ErrTestNotAvailable)

	require.NoError(t, db.Model(test).Updates(map[string]interface{}{
		"start_window": timePtr(now.Add(-2 * time.Hour)),
		"end_window":   timePtr(now.Add(-time.Hour)),
	}).Error)

	_, err = svc.Submit(user.ID, SubmitAttemptRequest{
		TestID: test.ID, Answers: allCorrectAnswers(test), TimeTaken: 60,
	})
	assert.ErrorIs(t, err, util.ErrTestNotAvailable)

	require.NoError(t, db.Model(test).Updates(map[string]interface{}{
		"start_window": timePtr(now.Add(-time.Hour)),
		"end_window":   timePtr(now.Add(time.Hour)),
	}).Error)

	_, err = svc.Submit(user.ID, SubmitAttemptRequest{
		TestID: test.ID, Answers: allCorrectAnswers(test), TimeTaken: 60,
	})
	assert.NoError(t, err)
}

func TestSubmitGrandfatherWindow(t *testing.T) {
	svc, db := newAttemptService(t)
	svc.Cfg.Grading.GrandfatherInProgress = true
	user := seedUser(t, db, "Asha", "asha@example.com")
	test := seedTest(t, db, "Algebra") // 10 minutes

	// Window closed 5 minutes ago; an attempt started just before close is
	// still inside endWindow+duration.
	now := time.Now()
	require.NoError(t, db.Model(test).Updates(map[string]interface{}{
		"is_live":      true,
		"start_window": timePtr(now.Add(-time.Hour)),
		"end_window":   timePtr(now.Add(-5 * time.Minute)),
	}).Error)

	_, err := svc.Submit(user.ID, SubmitAttemptRequest{
		TestID: test.ID, Answers: allCorrectAnswers(test), TimeTaken: 300,
	})
	assert.NoError(t, err)
}

func TestSubmitNonLiveIgnoresWindows(t *testing.T) {
	svc, db := newAttemptService(t)
	user := seedUser(t, db, "Asha", "asha@example.com")
	test := seedTest(t, db, "Algebra")

	now := time.Now()
	require.NoError(t, db.Model(test).Updates(map[string]interface{}{
		"is_live":    false,
		"end_window": timePtr(now.Add(-time.Hour)),
	}).Error)

	_, err := svc.Submit(user.ID, SubmitAttemptRequest{
		TestID: test.ID, Answers: allCorrectAnswers(test), TimeTaken: 60,
	})
	assert.NoError(t, err)
}

func TestRankedSlotUniqueness(t *testing.T) {
	// Two ranked rows for the same (user, test) must be impossible no matter
	// what the service layer believes, the index is the arbiter.
	svc, db := newAttemptService(t)
	user := seedUser(t, db, "Asha", "asha@example.com")
	test := seedTest(t, db, "Algebra")

	slot := "1"
	first := &model.Attempt{
		UserID: user.ID, TestID: test.ID, Answers: []byte("[]"),
		IsFirstAttempt: true, RankedSlot: &slot,
	}
	require.NoError(t, svc.Attempts.Insert(first))

	slot2 := "1"
	second := &model.Attempt{
		UserID: user.ID, TestID: test.ID, Answers: []byte("[]"),
		IsFirstAttempt: true, RankedSlot: &slot2,
	}
	assert.ErrorIs(t, svc.Attempts.Insert(second), gorm.ErrDuplicatedKey)

	// Unranked rows are unconstrained.
	third := &model.Attempt{UserID: user.ID, TestID: test.ID, Answers: []byte("[]")}
	assert.NoError(t, svc.Attempts.Insert(third))
	fourth := &model.Attempt{UserID: user.ID, TestID: test.ID, Answers: []byte("[]")}
	assert.NoError(t, svc.Attempts.Insert(fourth))
}

func TestSubmitDowngradesWhenRankedSlotTaken(t *testing.T) {
	// A submission that believes it is first but finds the ranked slot taken
	// at insert time must land as a re-attempt, not error. Soft-deleting a
	// ranked row makes HasAttempt report no prior attempt while the unique
	// index still holds the (user, test, slot) tuple, which is exactly what
	// the loser of a concurrent first-attempt race observes.
	svc, db := newAttemptService(t)
	user := seedUser(t, db, "Asha", "asha@example.com")
	test := seedTest(t, db, "Algebra")

	slot := "1"
	ghost := &model.Attempt{
		UserID: user.ID, TestID: test.ID, Answers: []byte("[]"),
		IsFirstAttempt: true, RankedSlot: &slot,
	}
	require.NoError(t, db.Create(ghost).Error)
	require.NoError(t, db.Delete(ghost).Error)

	hasPrior, err := svc.Attempts.HasAttempt(user.ID, test.ID)
	require.NoError(t, err)
	require.False(t, hasPrior)

	resp, err := svc.Submit(user.ID, SubmitAttemptRequest{
		TestID: test.ID, Answers: allCorrectAnswers(test), TimeTaken: 100,
	})
	require.NoError(t, err)
	assert.False(t, resp.IsFirstAttempt)
	assert.Equal(t, 3, resp.Marks)

	var stored model.Attempt
	require.NoError(t, db.First(&stored, resp.AttemptID).Error)
	assert.False(t, stored.IsFirstAttempt)
	assert.Nil(t, stored.RankedSlot)
}

func TestListMyAttempts(t *testing.T) {
	svc, db := newAttemptService(t)
	user := seedUser(t, db, "Asha", "asha@example.com")
	test := seedTest(t, db, "Algebra")

	_, err := svc.Submit(user.ID, SubmitAttemptRequest{
		TestID: test.ID, Answers: allCorrectAnswers(test), TimeTaken: 100,
	})
	require.NoError(t, err)

	wrong := allCorrectAnswers(test)
	wrong[0].SelectedOption = 3
	_, err = svc.Submit(user.ID, SubmitAttemptRequest{
		TestID: test.ID, Answers: wrong, TimeTaken: 90,
	})
	require.NoError(t, err)

	list, err := svc.ListMyAttempts(user.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)

	// Newest first.
	assert.False(t, list[0].IsFirstAttempt)
	assert.Equal(t, 2, list[0].Marks)
	assert.True(t, list[1].IsFirstAttempt)
	assert.Equal(t, 3, list[1].Marks)

	// The breakdown is rebuilt from the stored answers.
	require.Len(t, list[0].DetailedResults, 3)
	assert.Equal(t, StatusIncorrect, list[0].DetailedResults[0].Status)
}
