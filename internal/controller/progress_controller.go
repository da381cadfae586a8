package controller

import (
	"primary_reading_backend/internal/service"
	"primary_reading_backend/internal/util"
	"strconv"

	"github.com/gin-gonic/gin"
)

type ProgressController struct {
	ProgressService *service.ProgressService
}

func NewProgressController(progressService *service.ProgressService) *ProgressController {
	return &ProgressController{ProgressService: progressService}
}

// @Summary 更新阅读进度
// @Description 推进阅读位置，完成时触发徽章评估
// @Tags 阅读进度
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body service.UpdateProgressRequest true "进度信息"
// @Success 200 {object} util.Response
// @Router /api/progress [post]
func (c *ProgressController) UpdateProgress(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.UpdateProgressRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	progress, err := c.ProgressService.UpdateProgress(user.UserID, req)
	if err != nil {
		if err == util.ErrProfileNotFound {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, progress)
}

// @Summary 查询阅读进度
// @Tags 阅读进度
// @Produce json
// @Security BearerAuth
// @Param childId path int true "儿童档案ID"
// @Success 200 {object} util.Response
// @Router /api/progress/{childId} [get]
func (c *ProgressController) GetProgress(ctx *gin.Context) {
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

	progress, err := c.ProgressService.GetProgress(user.UserID, uint(childID))
	if err != nil {
		if err == util.ErrProfileNotFound {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, progress)
}

// @Summary 提交答案
// @Description 判题并计分，同一题只接受一次作答
// @Tags 阅读进度
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body service.SubmitAnswerRequest true "答案"
// @Success 200 {object} util.Response
// @Router /api/answers [post]
func (c *ProgressController) SubmitAnswer(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.SubmitAnswerRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.ProgressService.SubmitAnswer(user.UserID, req)
	if err != nil {
		switch err {
		case util.ErrProfileNotFound, util.ErrQuestionNotFound:
			util.NotFound(ctx)
		case util.ErrAnswerAlreadyGiven:
			util.BadRequest(ctx, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, result)
}

// @Summary 连续阅读天数
// @Tags 阅读进度
// @Produce json
// @Security BearerAuth
// @Param childId path int true "儿童档案ID"
// @Success 200 {object} util.Response
// @Router /api/streak/{childId} [get]
func (c *ProgressController) GetStreak(ctx *gin.Context) {
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

	streak, err := c.ProgressService.GetStreak(user.UserID, uint(childID))
	if err != nil {
		if err == util.ErrProfileNotFound {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"streakDays": streak})
}
