package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/pawsteps/pawsteps-backend/internal/dto"
	"github.com/pawsteps/pawsteps-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTrainingFixture(t *testing.T) (*gorm.DB, *TrainingService, uuid.UUID, *models.Dog) {
	t.Helper()
	db, _, account := newTestServices(t)
	dogs := NewDogService(db, account)
	training := NewTrainingService(db, dogs, account)

	owner := signUpUser(t, account, "owner@example.com")
	dog, err := dogs.CreateDog(owner.User.ID, &dto.CreateDogRequest{Name: "Rex"}, "127.0.0.1")
	require.NoError(t, err)
	return db, training, owner.User.ID, dog
}

func TestCreateSession_RequiresOwnedDog(t *testing.T) {
	_, training, userID, dog := newTrainingFixture(t)

	_, err := training.CreateSession(userID, &dto.CreateSessionRequest{
		DogID: uuid.New(), SessionType: "basic",
	}, "127.0.0.1")
	assert.ErrorIs(t, err, ErrDogNotFound)

	_, err = training.CreateSession(userID, &dto.CreateSessionRequest{DogID: dog.ID}, "127.0.0.1")
	assert.Error(t, err) // missing type

	session, err := training.CreateSession(userID, &dto.CreateSessionRequest{
		DogID: dog.ID, SessionType: "basic", Duration: 30,
	}, "127.0.0.1")
	require.NoError(t, err)
	assert.False(t, session.Completed)
	assert.False(t, session.SessionDate.IsZero())
}

func TestUpdateSession_CompletionLogsActivity(t *testing.T) {
	db, training, userID, dog := newTrainingFixture(t)

	session, err := training.CreateSession(userID, &dto.CreateSessionRequest{
		DogID: dog.ID, SessionType: "basic", Duration: 30,
	}, "127.0.0.1")
	require.NoError(t, err)

	done := true
	updated, err := training.UpdateSession(userID, session.ID, &dto.UpdateSessionRequest{Completed: &done}, "127.0.0.1")
	require.NoError(t, err)
	assert.True(t, updated.Completed)
	assert.Equal(t, int64(1), countActivity(t, db, userID, models.ActivityCompleteTrainingSession))

	_, err = training.UpdateSession(userID, uuid.New(), &dto.UpdateSessionRequest{Completed: &done}, "127.0.0.1")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestListSessions_FilterByDog(t *testing.T) {
	db, training, userID, dog := newTrainingFixture(t)

	account := NewAccountService(db, NewAuthService(db, newTestConfig()))
	dogs := NewDogService(db, account)
	second, err := dogs.CreateDog(userID, &dto.CreateDogRequest{Name: "Luna"}, "127.0.0.1")
	require.NoError(t, err)

	for _, d := range []uuid.UUID{dog.ID, dog.ID, second.ID} {
		_, err := training.CreateSession(userID, &dto.CreateSessionRequest{
			DogID: d, SessionType: "basic", Duration: 10,
		}, "127.0.0.1")
		require.NoError(t, err)
	}

	all, err := training.ListSessions(userID, nil)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	filtered, err := training.ListSessions(userID, &dog.ID)
	require.NoError(t, err)
	assert.Len(t, filtered, 2)
}

func TestUpsertSkillProgress_KeepsOneRowPerSkill(t *testing.T) {
	db, training, userID, dog := newTrainingFixture(t)

	first, err := training.UpsertSkillProgress(userID, &dto.UpdateSkillProgressRequest{
		DogID: dog.ID, SkillName: "sit", SkillType: "command", Proficiency: 40,
	}, "127.0.0.1")
	require.NoError(t, err)
	require.NotNil(t, first.LastPracticed)

	second, err := training.UpsertSkillProgress(userID, &dto.UpdateSkillProgressRequest{
		DogID: dog.ID, SkillName: "sit", SkillType: "command", Proficiency: 75,
	}, "127.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 75, second.Proficiency)

	var n int64
	require.NoError(t, db.Model(&models.TrainingProgress{}).
		Where("user_id = ? AND dog_id = ? AND skill_name = ?", userID, dog.ID, "sit").
		Count(&n).Error)
	assert.Equal(t, int64(1), n)
}

func TestUpsertSkillProgress_Validation(t *testing.T) {
	_, training, userID, dog := newTrainingFixture(t)

	_, err := training.UpsertSkillProgress(userID, &dto.UpdateSkillProgressRequest{
		DogID: dog.ID, Proficiency: 50,
	}, "127.0.0.1")
	assert.Error(t, err) // missing skill name

	_, err = training.UpsertSkillProgress(userID, &dto.UpdateSkillProgressRequest{
		DogID: dog.ID, SkillName: "sit", Proficiency: 101,
	}, "127.0.0.1")
	assert.Error(t, err)

	_, err = training.UpsertSkillProgress(userID, &dto.UpdateSkillProgressRequest{
		DogID: uuid.New(), SkillName: "sit", Proficiency: 50,
	}, "127.0.0.1")
	assert.ErrorIs(t, err, ErrDogNotFound)
}

func TestContentProgress_CompletionStampsTimestamp(t *testing.T) {
	db, training, userID, _ := newTrainingFixture(t)

	content, err := training.CreateContent(&dto.ContentRequest{
		Title: "Teaching Sit", ContentType: "video", Difficulty: "beginner", Category: "basic_commands",
	})
	require.NoError(t, err)

	progress, err := training.UpsertContentProgress(userID, content.ID, &dto.UpdateContentProgressRequest{
		Status: models.ProgressInProgress,
	}, "127.0.0.1")
	require.NoError(t, err)
	assert.Nil(t, progress.CompletedAt)

	progress, err = training.UpsertContentProgress(userID, content.ID, &dto.UpdateContentProgressRequest{
		Status: models.ProgressCompleted,
	}, "127.0.0.1")
	require.NoError(t, err)
	assert.NotNil(t, progress.CompletedAt)

	var n int64
	require.NoError(t, db.Model(&models.UserProgress{}).
		Where("user_id = ? AND content_id = ?", userID, content.ID).
		Count(&n).Error)
	assert.Equal(t, int64(1), n)

	assert.Equal(t, int64(1), countActivity(t, db, userID, models.ActivityCompleteContent))

	_, err = training.UpsertContentProgress(userID, content.ID, &dto.UpdateContentProgressRequest{
		Status: "bogus",
	}, "127.0.0.1")
	assert.Error(t, err)

	_, err = training.UpsertContentProgress(userID, uuid.New(), &dto.UpdateContentProgressRequest{
		Status: models.ProgressCompleted,
	}, "127.0.0.1")
	assert.ErrorIs(t, err, ErrContentNotFound)
}

func TestDeactivateContent_HidesFromListing(t *testing.T) {
	_, training, _, _ := newTrainingFixture(t)

	content, err := training.CreateContent(&dto.ContentRequest{
		Title: "Teaching Sit", ContentType: "video", Difficulty: "beginner", Category: "basic_commands",
	})
	require.NoError(t, err)

	listed, err := training.ListContent("", "")
	require.NoError(t, err)
	require.Len(t, listed, 1)

	require.NoError(t, training.DeactivateContent(content.ID))

	listed, err = training.ListContent("", "")
	require.NoError(t, err)
	assert.Empty(t, listed)

	assert.ErrorIs(t, training.DeactivateContent(uuid.New()), ErrContentNotFound)
}

func TestListContent_Filters(t *testing.T) {
	_, training, _, _ := newTrainingFixture(t)

	for _, c := range []dto.ContentRequest{
		{Title: "Sit", ContentType: "video", Difficulty: "beginner", Category: "basic_commands"},
		{Title: "Roll Over", ContentType: "video", Difficulty: "advanced", Category: "tricks"},
	} {
		_, err := training.CreateContent(&c)
		require.NoError(t, err)
	}

	listed, err := training.ListContent("tricks", "")
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, "Roll Over", listed[0].Title)

	listed, err = training.ListContent("", "beginner")
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, "Sit", listed[0].Title)
}

func TestStats_Arithmetic(t *testing.T) {
	_, training, userID, dog := newTrainingFixture(t)

	for _, minutes := range []int{30, 45} {
		_, err := training.CreateSession(userID, &dto.CreateSessionRequest{
			DogID: dog.ID, SessionType: "basic", Duration: minutes,
		}, "127.0.0.1")
		require.NoError(t, err)
	}

	var contentIDs []uuid.UUID
	for _, title := range []string{"Sit", "Stay", "Come"} {
		content, err := training.CreateContent(&dto.ContentRequest{
			Title: title, ContentType: "video", Difficulty: "beginner", Category: "basic_commands",
		})
		require.NoError(t, err)
		contentIDs = append(contentIDs, content.ID)
	}

	for _, id := range contentIDs[:2] {
		_, err := training.UpsertContentProgress(userID, id, &dto.UpdateContentProgressRequest{
			Status: models.ProgressCompleted,
		}, "127.0.0.1")
		require.NoError(t, err)
	}
	_, err := training.UpsertContentProgress(userID, contentIDs[2], &dto.UpdateContentProgressRequest{
		Status: models.ProgressInProgress,
	}, "127.0.0.1")
	require.NoError(t, err)

	stats, err := training.Stats(userID)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalSessions)
	assert.InDelta(t, 1.3, stats.TotalHours, 0.0001) // 75 minutes, rounded to one decimal
	assert.Equal(t, 2, stats.CompletedContent)
	assert.Equal(t, 2, stats.SkillsMastered)
}

func TestStats_EmptyUser(t *testing.T) {
	_, training, userID, _ := newTrainingFixture(t)

	stats, err := training.Stats(userID)
	require.NoError(t, err)
	assert.Equal(t, 0, stats.TotalSessions)
	assert.Zero(t, stats.TotalHours)
	assert.Equal(t, 0, stats.CompletedContent)
}
