package service

import (
	"primary_reading_backend/internal/model"
	"primary_reading_backend/internal/repository"
	"primary_reading_backend/internal/util"

	"gorm.io/gorm"
)

const maxProfilesPerUser = 5

type ProfileService struct {
	ProfileRepo *repository.ChildProfileRepository
}

func NewProfileService(profileRepo *repository.ChildProfileRepository) *ProfileService {
	return &ProfileService{ProfileRepo: profileRepo}
}

type CreateProfileRequest struct {
	Name      string `json:"name" binding:"required"`
	YearLevel int    `json:"yearLevel" binding:"required"`
	Avatar    string `json:"avatar"`
	Interests string `json:"interests"`
}

type UpdateProfileRequest struct {
	Name      string `json:"name"`
	YearLevel int    `json:"yearLevel"`
	Avatar    string `json:"avatar"`
	Interests string `json:"interests"`
}

func (s *ProfileService) CreateProfile(userID uint, req CreateProfileRequest) (*model.ChildProfile, error) {
	if _, ok := model.GradeLevelFor(req.YearLevel); !ok {
		return nil, util.ErrInvalidYearLevel
	}

	count, err := s.ProfileRepo.CountByUserID(userID)
	if err != nil {
		return nil, err
	}
	if count >= maxProfilesPerUser {
		return nil, util.ErrProfileLimit
	}

	profile := &model.ChildProfile{
		UserID:    userID,
		Name:      req.Name,
		YearLevel: req.YearLevel,
		Avatar:    req.Avatar,
		Interests: req.Interests,
	}
	if err := s.ProfileRepo.Create(profile); err != nil {
		return nil, err
	}
	return profile, nil
}

func (s *ProfileService) GetProfiles(userID uint) ([]model.ChildProfile, error) {
	return s.ProfileRepo.FindByUserID(userID)
}

func (s *ProfileService) GetProfile(id, userID uint) (*model.ChildProfile, error) {
	profile, err := s.ProfileRepo.FindByIDForUser(id, userID)
	if err == gorm.ErrRecordNotFound {
		return nil, util.ErrProfileNotFound
	}
	return profile, err
}

func (s *ProfileService) UpdateProfile(id, userID uint, req UpdateProfileRequest) (*model.ChildProfile, error) {
	profile, err := s.GetProfile(id, userID)
	if err != nil {
		return nil, err
	}

	if req.Name != "" {
		profile.Name = req.Name
	}
	if req.YearLevel != 0 {
		if _, ok := model.GradeLevelFor(req.YearLevel); !ok {
			return nil, util.ErrInvalidYearLevel
		}
		profile.YearLevel = req.YearLevel
	}
	if req.Avatar != "" {
		profile.Avatar = req.Avatar
	}
	if req.Interests != "" {
		profile.Interests = req.Interests
	}

	if err := s.ProfileRepo.Update(profile); err != nil {
		return nil, err
	}
	return profile, nil
}

func (s *ProfileService) DeleteProfile(id, userID uint) error {
	if _, err := s.GetProfile(id, userID); err != nil {
		return err
	}
	return s.ProfileRepo.Delete(id, userID)
}
