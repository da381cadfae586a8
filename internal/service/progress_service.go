package service

import (
	"primary_reading_backend/internal/model"
	"primary_reading_backend/internal/repository"
	"primary_reading_backend/internal/util"
	"primary_reading_backend/pkg/logger"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ProgressService struct {
	ProgressRepo *repository.ProgressRepository
	CheckinRepo  *repository.CheckinRepository
	ProfileRepo  *repository.ChildProfileRepository
	StoryRepo    *repository.StoryRepository
	Badges       *BadgeService
}

func NewProgressService(
	progressRepo *repository.ProgressRepository,
	checkinRepo *repository.CheckinRepository,
	profileRepo *repository.ChildProfileRepository,
	storyRepo *repository.StoryRepository,
	badges *BadgeService,
) *ProgressService {
	return &ProgressService{
		ProgressRepo: progressRepo,
		CheckinRepo:  checkinRepo,
		ProfileRepo:  profileRepo,
		StoryRepo:    storyRepo,
		Badges:       badges,
	}
}

type UpdateProgressRequest struct {
	ChildProfileID uint `json:"childProfileId" binding:"required"`
	StoryID        uint `json:"storyId" binding:"required"`
	CurrentSegment int  `json:"currentSegment"`
	Completed      bool `json:"completed"`
}

// UpdateProgress 推进阅读进度，当天首次阅读顺带打卡
func (s *ProgressService) UpdateProgress(userID uint, req UpdateProgressRequest) (*model.ReadingProgress, error) {
	if _, err := s.ProfileRepo.FindByIDForUser(req.ChildProfileID, userID); err != nil {
		return nil, util.ErrProfileNotFound
	}

	progress, err := s.ProgressRepo.Upsert(req.ChildProfileID, req.StoryID, req.CurrentSegment, req.Completed)
	if err != nil {
		return nil, err
	}

	if _, err := s.checkin(req.ChildProfileID); err != nil && err != util.ErrAlreadyCheckedIn {
		logger.Log.Warn("reading checkin failed", zap.Uint("childId", req.ChildProfileID), zap.Error(err))
	}

	if req.Completed {
		s.Badges.EvaluateBadges(req.ChildProfileID)
	}

	return progress, nil
}

func (s *ProgressService) GetProgress(userID, childID uint) ([]model.ReadingProgress, error) {
	if _, err := s.ProfileRepo.FindByIDForUser(childID, userID); err != nil {
		return nil, util.ErrProfileNotFound
	}
	return s.ProgressRepo.FindByChild(childID)
}

type SubmitAnswerRequest struct {
	ChildProfileID uint   `json:"childProfileId" binding:"required"`
	QuestionID     uint   `json:"questionId" binding:"required"`
	Answer         string `json:"answer" binding:"required"`
}

type AnswerResult struct {
	Correct       bool   `json:"correct"`
	CorrectAnswer string `json:"correctAnswer"`
	Explanation   string `json:"explanation"`
	PointsEarned  int    `json:"pointsEarned"`
}

// SubmitAnswer 判题并计分；同一题只计一次分
func (s *ProgressService) SubmitAnswer(userID uint, req SubmitAnswerRequest) (*AnswerResult, error) {
	if _, err := s.ProfileRepo.FindByIDForUser(req.ChildProfileID, userID); err != nil {
		return nil, util.ErrProfileNotFound
	}

	question, err := s.StoryRepo.FindQuestionByID(req.QuestionID)
	if err != nil {
		return nil, util.ErrQuestionNotFound
	}

	if _, err := s.ProgressRepo.FindAnswer(req.ChildProfileID, req.QuestionID); err == nil {
		return nil, util.ErrAnswerAlreadyGiven
	} else if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	correct := strings.EqualFold(strings.TrimSpace(req.Answer), strings.TrimSpace(question.CorrectAnswer))
	points := 0
	if correct {
		points = question.Points
	}

	answer := &model.QuestionAnswer{
		ChildProfileID: req.ChildProfileID,
		StoryID:        question.StoryID,
		QuestionID:     question.ID,
		Answer:         req.Answer,
		Correct:        correct,
		PointsEarned:   points,
	}
	if err := s.ProgressRepo.CreateAnswer(answer); err != nil {
		return nil, err
	}

	if correct {
		if err := s.ProfileRepo.AddPoints(req.ChildProfileID, points); err != nil {
			logger.Log.Warn("failed to add points", zap.Uint("childId", req.ChildProfileID), zap.Error(err))
		}
		s.Badges.EvaluateBadges(req.ChildProfileID)
	}

	return &AnswerResult{
		Correct:       correct,
		CorrectAnswer: question.CorrectAnswer,
		Explanation:   question.Explanation,
		PointsEarned:  points,
	}, nil
}

// GetStreak 当前连续阅读天数；超过一天没读则归零
func (s *ProgressService) GetStreak(userID, childID uint) (int, error) {
	if _, err := s.ProfileRepo.FindByIDForUser(childID, userID); err != nil {
		return 0, util.ErrProfileNotFound
	}

	latest, err := s.CheckinRepo.FindLatest(childID)
	if err == gorm.ErrRecordNotFound {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}

	today := startOfDay(time.Now())
	latestDay := startOfDay(latest.CheckinAt)
	if latestDay.Before(today.AddDate(0, 0, -1)) {
		return 0, nil
	}
	return latest.StreakDays, nil
}

// checkin 当天已打卡则返回 ErrAlreadyCheckedIn；昨天有打卡则连续天数加一
func (s *ProgressService) checkin(childID uint) (*model.ReadingCheckin, error) {
	now := time.Now()

	if existing, err := s.CheckinRepo.FindOnDate(childID, now); err == nil {
		return existing, util.ErrAlreadyCheckedIn
	} else if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	streak := 1
	if latest, err := s.CheckinRepo.FindLatest(childID); err == nil {
		yesterday := startOfDay(now).AddDate(0, 0, -1)
		if startOfDay(latest.CheckinAt).Equal(yesterday) {
			streak = latest.StreakDays + 1
		}
	}

	checkin := &model.ReadingCheckin{
		ChildProfileID: childID,
		CheckinAt:      now,
		StreakDays:     streak,
	}
	if err := s.CheckinRepo.Create(checkin); err != nil {
		return nil, err
	}

	s.Badges.EvaluateBadges(childID)
	return checkin, nil
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
