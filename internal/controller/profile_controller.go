package controller

import (
	"primary_reading_backend/internal/service"
	"primary_reading_backend/internal/util"
	"strconv"

	"github.com/gin-gonic/gin"
)

// ProfileController 儿童阅读档案的API请求

type ProfileController struct {
	ProfileService *service.ProfileService
}

func NewProfileController(profileService *service.ProfileService) *ProfileController {
	return &ProfileController{ProfileService: profileService}
}

// @Summary 创建儿童档案
// @Tags 儿童档案
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body service.CreateProfileRequest true "档案信息"
// @Success 201 {object} util.Response
// @Router /api/children [post]
func (c *ProfileController) CreateProfile(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.CreateProfileRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	profile, err := c.ProfileService.CreateProfile(user.UserID, req)
	if err != nil {
		if err == util.ErrInvalidYearLevel || err == util.ErrProfileLimit {
			util.BadRequest(ctx, err.Error())
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Created(ctx, profile)
}

// @Summary 获取所有儿童档案
// @Tags 儿童档案
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response
// @Router /api/children [get]
func (c *ProfileController) GetProfiles(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	profiles, err := c.ProfileService.GetProfiles(user.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, profiles)
}

// @Summary 更新儿童档案
// @Tags 儿童档案
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "档案ID"
// @Param body body service.UpdateProfileRequest true "更新内容"
// @Success 200 {object} util.Response
// @Router /api/children/{id} [put]
func (c *ProfileController) UpdateProfile(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "Invalid profile id")
		return
	}

	var req service.UpdateProfileRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	profile, err := c.ProfileService.UpdateProfile(uint(id), user.UserID, req)
	if err != nil {
		switch err {
		case util.ErrProfileNotFound:
			util.NotFound(ctx)
		case util.ErrInvalidYearLevel:
			util.BadRequest(ctx, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, profile)
}

// @Summary 删除儿童档案
// @Tags 儿童档案
// @Produce json
// @Security BearerAuth
// @Param id path int true "档案ID"
// @Success 200 {object} util.Response
// @Router /api/children/{id} [delete]
func (c *ProfileController) DeleteProfile(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "Invalid profile id")
		return
	}

	if err := c.ProfileService.DeleteProfile(uint(id), user.UserID); err != nil {
		if err == util.ErrProfileNotFound {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, nil)
}
