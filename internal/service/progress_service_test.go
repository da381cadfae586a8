package service

import (
	"primary_reading_backend/internal/model"
	"primary_reading_backend/internal/repository"
	"primary_reading_backend/internal/util"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func progressFixture(t *testing.T) (*ProgressService, *repository.ProgressRepository, *repository.CheckinRepository, *model.ChildProfile, *model.Story) {
	t.Helper()
	db := testDB(t)
	require.NoError(t, db.AutoMigrate(&model.ReadingCheckin{}, &model.Badge{}, &model.ChildBadge{}))

	progressRepo := repository.NewProgressRepository(db)
	checkinRepo := repository.NewCheckinRepository(db)
	profileRepo := repository.NewChildProfileRepository(db)
	storyRepo := repository.NewStoryRepository(db)
	badges := NewBadgeService(repository.NewBadgeRepository(db), progressRepo, checkinRepo)

	svc := NewProgressService(progressRepo, checkinRepo, profileRepo, storyRepo, badges)

	profile := &model.ChildProfile{UserID: 1, Name: "Mia", YearLevel: 2}
	require.NoError(t, db.Create(profile).Error)

	story := &model.Story{
		CreatedBy: 1,
		Title:     "The Lost Kite",
		Topic:     "kites",
		YearLevel: 2,
		Content:   "story body",
		Status:    model.StoryPublished,
		Questions: []model.Question{
			{
				QuestionText:  "What was lost?",
				QuestionType:  model.MultipleChoice,
				Options:       `["A kite","A ball"]`,
				CorrectAnswer: "A kite",
				Points:        10,
				Difficulty:    1,
			},
		},
	}
	require.NoError(t, db.Create(story).Error)

	return svc, progressRepo, checkinRepo, profile, story
}

func TestUpdateProgressChecksOwnership(t *testing.T) {
	svc, _, _, profile, story := progressFixture(t)

	_, err := svc.UpdateProgress(99, UpdateProgressRequest{
		ChildProfileID: profile.ID,
		StoryID:        story.ID,
		CurrentSegment: 1,
	})
	assert.ErrorIs(t, err, util.ErrProfileNotFound)
}

func TestUpdateProgressForwardOnly(t *testing.T) {
	svc, _, _, profile, story := progressFixture(t)

	progress, err := svc.UpdateProgress(1, UpdateProgressRequest{
		ChildProfileID: profile.ID,
		StoryID:        story.ID,
		CurrentSegment: 2,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, progress.CurrentSegment)

	// 回退的段落号被忽略
	progress, err = svc.UpdateProgress(1, UpdateProgressRequest{
		ChildProfileID: profile.ID,
		StoryID:        story.ID,
		CurrentSegment: 1,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, progress.CurrentSegment)
}

func TestUpdateProgressChecksInOncePerDay(t *testing.T) {
	svc, _, checkinRepo, profile, story := progressFixture(t)

	for segment := 1; segment <= 3; segment++ {
		_, err := svc.UpdateProgress(1, UpdateProgressRequest{
			ChildProfileID: profile.ID,
			StoryID:        story.ID,
			CurrentSegment: segment,
		})
		require.NoError(t, err)
	}

	latest, err := checkinRepo.FindLatest(profile.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, latest.StreakDays)

	streak, err := svc.GetStreak(1, profile.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, streak)
}

func TestStreakContinuesFromYesterday(t *testing.T) {
	svc, _, checkinRepo, profile, story := progressFixture(t)

	yesterday := time.Now().AddDate(0, 0, -1)
	require.NoError(t, checkinRepo.Create(&model.ReadingCheckin{
		ChildProfileID: profile.ID,
		CheckinAt:      yesterday,
		StreakDays:     3,
	}))

	_, err := svc.UpdateProgress(1, UpdateProgressRequest{
		ChildProfileID: profile.ID,
		StoryID:        story.ID,
		CurrentSegment: 1,
	})
	require.NoError(t, err)

	streak, err := svc.GetStreak(1, profile.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, streak)
}

func TestStreakResetsAfterGap(t *testing.T) {
	svc, _, checkinRepo, profile, _ := progressFixture(t)

	require.NoError(t, checkinRepo.Create(&model.ReadingCheckin{
		ChildProfileID: profile.ID,
		CheckinAt:      time.Now().AddDate(0, 0, -3),
		StreakDays:     5,
	}))

	streak, err := svc.GetStreak(1, profile.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, streak)
}

func TestSubmitAnswerScoring(t *testing.T) {
	svc, _, _, profile, story := progressFixture(t)
	question := story.Questions[0]

	result, err := svc.SubmitAnswer(1, SubmitAnswerRequest{
		ChildProfileID: profile.ID,
		QuestionID:     question.ID,
		Answer:         "a kite", // 大小写不敏感
	})
	require.NoError(t, err)

	assert.True(t, result.Correct)
	assert.Equal(t, 10, result.PointsEarned)
	assert.Equal(t, "A kite", result.CorrectAnswer)
	assert.NotEmpty(t, result.Explanation)
}

func TestSubmitAnswerOnlyOncePerQuestion(t *testing.T) {
	svc, _, _, profile, story := progressFixture(t)
	question := story.Questions[0]

	_, err := svc.SubmitAnswer(1, SubmitAnswerRequest{
		ChildProfileID: profile.ID,
		QuestionID:     question.ID,
		Answer:         "A ball",
	})
	require.NoError(t, err)

	_, err = svc.SubmitAnswer(1, SubmitAnswerRequest{
		ChildProfileID: profile.ID,
		QuestionID:     question.ID,
		Answer:         "A kite",
	})
	assert.ErrorIs(t, err, util.ErrAnswerAlreadyGiven)
}

func TestSubmitAnswerWrong(t *testing.T) {
	svc, _, _, profile, story := progressFixture(t)

	result, err := svc.SubmitAnswer(1, SubmitAnswerRequest{
		ChildProfileID: profile.ID,
		QuestionID:     story.Questions[0].ID,
		Answer:         "A ball",
	})
	require.NoError(t, err)

	assert.False(t, result.Correct)
	assert.Zero(t, result.PointsEarned)
}
