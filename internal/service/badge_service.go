package service

import (
	"primary_reading_backend/internal/model"
	"primary_reading_backend/internal/repository"
	"primary_reading_backend/pkg/logger"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// BadgeService 根据阅读数据评估并颁发徽章，颁发是幂等的
type BadgeService struct {
	BadgeRepo    *repository.BadgeRepository
	ProgressRepo *repository.ProgressRepository
	CheckinRepo  *repository.CheckinRepository
}

func NewBadgeService(
	badgeRepo *repository.BadgeRepository,
	progressRepo *repository.ProgressRepository,
	checkinRepo *repository.CheckinRepository,
) *BadgeService {
	return &BadgeService{
		BadgeRepo:    badgeRepo,
		ProgressRepo: progressRepo,
		CheckinRepo:  checkinRepo,
	}
}

func (s *BadgeService) GetBadges(childID uint) ([]model.ChildBadge, error) {
	return s.BadgeRepo.FindByChild(childID)
}

// EvaluateBadges 对照所有启用的徽章规则检查该孩子的数据，颁发新达标的徽章。
// 评估失败只记日志，不影响触发它的主流程
func (s *BadgeService) EvaluateBadges(childID uint) {
	badges, err := s.BadgeRepo.FindEnabled()
	if err != nil {
		logger.Log.Warn("badge evaluation failed", zap.Uint("childId", childID), zap.Error(err))
		return
	}

	for _, badge := range badges {
		has, err := s.BadgeRepo.HasBadge(childID, badge.ID)
		if err != nil || has {
			continue
		}

		qualified, err := s.meetsCriteria(childID, badge)
		if err != nil {
			logger.Log.Warn("badge criteria check failed",
				zap.Uint("childId", childID),
				zap.String("badge", badge.Code),
				zap.Error(err))
			continue
		}
		if !qualified {
			continue
		}

		award := &model.ChildBadge{
			ChildProfileID: childID,
			BadgeID:        badge.ID,
			EarnedAt:       time.Now(),
		}
		if err := s.BadgeRepo.Award(award); err != nil {
			logger.Log.Warn("badge award failed",
				zap.Uint("childId", childID),
				zap.String("badge", badge.Code),
				zap.Error(err))
			continue
		}

		logger.Log.Info("badge awarded",
			zap.Uint("childId", childID),
			zap.String("badge", badge.Code))
	}
}

func (s *BadgeService) meetsCriteria(childID uint, badge model.Badge) (bool, error) {
	switch badge.Criteria {
	case model.CriteriaStoriesCompleted:
		count, err := s.ProgressRepo.CountCompleted(childID)
		return count >= int64(badge.Threshold), err
	case model.CriteriaCorrectAnswers:
		count, err := s.ProgressRepo.CountCorrectAnswers(childID)
		return count >= int64(badge.Threshold), err
	case model.CriteriaStreakDays:
		latest, err := s.CheckinRepo.FindLatest(childID)
		if err == gorm.ErrRecordNotFound {
			return false, nil
		}
		if err != nil {
			return false, err
		}
		return latest.StreakDays >= badge.Threshold, nil
	default:
		return false, nil
	}
}
