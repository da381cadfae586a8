package controller

import (
	"primary_reading_backend/internal/service"
	"primary_reading_backend/internal/util"
	"strconv"

	"github.com/gin-gonic/gin"
)

type BadgeController struct {
	BadgeService   *service.BadgeService
	ProfileService *service.ProfileService
}

func NewBadgeController(badgeService *service.BadgeService, profileService *service.ProfileService) *BadgeController {
	return &BadgeController{BadgeService: badgeService, ProfileService: profileService}
}

// @Summary 已获得的徽章
// @Tags 徽章
// @Produce json
// @Security BearerAuth
// @Param childId path int true "儿童档案ID"
// @Success 200 {object} util.Response
// @Router /api/badges/{childId} [get]
func (c *BadgeController) GetBadges(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	childID, err := strconv.ParseUint(ctx.Param("childId"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "Invalid profile id")
		return
	}

	// 只允许查看自己孩子的徽章
	if _, err := c.ProfileService.GetProfile(uint(childID), user.UserID); err != nil {
		if err == util.ErrProfileNotFound {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	badges, err := c.BadgeService.GetBadges(uint(childID))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, badges)
}
