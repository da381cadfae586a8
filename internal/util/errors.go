package util

import "errors"

var (
	ErrUserNotFound       = errors.New("用户不存在")
	ErrEmailRegistered    = errors.New("该邮箱已被注册")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrPermissionDenied   = errors.New("permission denied")
	ErrStoryNotFound      = errors.New("story not found")
	ErrProfileNotFound    = errors.New("child profile not found")
	ErrQuestionNotFound   = errors.New("question not found")
	ErrInvalidYearLevel   = errors.New("year level must be between 1 and 6")
	ErrInvalidRating      = errors.New("rating must be between 1 and 5")
	ErrEmptyStoryContent  = errors.New("story generation returned no content")
	ErrStoryDeleteFailed  = errors.New("failed to delete story record")
	ErrAlreadyCheckedIn   = errors.New("already checked in today")
	ErrProfileLimit       = errors.New("child profile limit reached (max 5)")
	ErrAnswerAlreadyGiven = errors.New("question already answered")
)
