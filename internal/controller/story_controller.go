package controller

import (
	"primary_reading_backend/internal/repository"
	"primary_reading_backend/internal/service"
	"primary_reading_backend/internal/util"
	"strconv"

	"github.com/gin-gonic/gin"
)

type StoryController struct {
	StoryService *service.StoryService
}

func NewStoryController(storyService *service.StoryService) *StoryController {
	return &StoryController{StoryService: storyService}
}

// @Summary 生成故事
// @Description 按主题和年级生成故事、理解题和插图
// @Tags 故事
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body service.GenerateStoryRequest true "生成参数"
// @Success 201 {object} util.Response
// @Router /api/stories/generate [post]
func (c *StoryController) GenerateStory(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.GenerateStoryRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	story, err := c.StoryService.GenerateStory(ctx.Request.Context(), user.UserID, req)
	if err != nil {
		switch err {
		case util.ErrInvalidYearLevel, util.ErrProfileNotFound:
			util.BadRequest(ctx, err.Error())
		case util.ErrEmptyStoryContent:
			util.Error(ctx, 502, "Story generation returned no content, please try again")
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Created(ctx, story)
}

// @Summary 故事列表
// @Description 自己的故事或公开故事，可按年级过滤
// @Tags 故事
// @Produce json
// @Security BearerAuth
// @Param yearLevel query int false "年级 1-6"
// @Param public query bool false "只看公开故事"
// @Param page query int false "页码"
// @Param limit query int false "每页数量"
// @Success 200 {object} util.Response
// @Router /api/stories [get]
func (c *StoryController) ListStories(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	yearLevel, _ := strconv.Atoi(ctx.Query("yearLevel"))
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))

	filter := repository.StoryFilter{
		OwnerID:    user.UserID,
		YearLevel:  yearLevel,
		OnlyPublic: ctx.Query("public") == "true",
		Page:       page,
		Limit:      limit,
	}

	result, err := c.StoryService.ListStories(ctx.Request.Context(), filter)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, result)
}

// @Summary 故事列表(管理端)
// @Description 不按属主过滤，含未公开故事
// @Tags 管理
// @Produce json
// @Security BearerAuth
// @Param yearLevel query int false "年级 1-6"
// @Param page query int false "页码"
// @Param limit query int false "每页数量"
// @Success 200 {object} util.Response
// @Router /api/admin/stories [get]
func (c *StoryController) AdminListStories(ctx *gin.Context) {
	yearLevel, _ := strconv.Atoi(ctx.Query("yearLevel"))
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))

	result, err := c.StoryService.ListStories(ctx.Request.Context(), repository.StoryFilter{
		YearLevel: yearLevel,
		AllOwners: true,
		Page:      page,
		Limit:     limit,
	})
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, result)
}

// @Summary 故事详情
// @Description 含有序段落和理解题
// @Tags 故事
// @Produce json
// @Security BearerAuth
// @Param id path int true "故事ID"
// @Success 200 {object} util.Response
// @Router /api/stories/{id} [get]
func (c *StoryController) GetStory(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "Invalid story id")
		return
	}

	story, err := c.StoryService.GetStory(user.UserID, uint(id))
	if err != nil {
		if err == util.ErrStoryNotFound {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, story)
}

// @Summary 删除故事
// @Description 删除故事及其段落、题目、进度、评分和存储中的插图
// @Tags 故事
// @Produce json
// @Security BearerAuth
// @Param id path int true "故事ID"
// @Success 200 {object} util.Response
// @Router /api/stories/{id} [delete]
func (c *StoryController) DeleteStory(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "Invalid story id")
		return
	}

	result, err := c.StoryService.DeleteStory(ctx.Request.Context(), uint(id), user.UserID)
	if err != nil {
		if err == util.ErrStoryNotFound {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, result)
}

type rateStoryRequest struct {
	Rating  int    `json:"rating" binding:"required"`
	Comment string `json:"comment"`
}

// @Summary 评分
// @Tags 故事
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "故事ID"
// @Param body body rateStoryRequest true "评分 1-5"
// @Success 200 {object} util.Response
// @Router /api/stories/{id}/rate [post]
func (c *StoryController) RateStory(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "Invalid story id")
		return
	}

	var req rateStoryRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.StoryService.RateStory(user.UserID, uint(id), req.Rating, req.Comment); err != nil {
		switch err {
		case util.ErrInvalidRating:
			util.BadRequest(ctx, err.Error())
		case util.ErrStoryNotFound:
			util.NotFound(ctx)
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, nil)
}

type regenerateImageRequest struct {
	Style string `json:"style"`
}

// @Summary 重新生成段落插图
// @Tags 故事
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "故事ID"
// @Param segmentId path int true "段落ID"
// @Success 200 {object} util.Response
// @Router /api/stories/{id}/segments/{segmentId}/image [post]
func (c *StoryController) RegenerateSegmentImage(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	storyID, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "Invalid story id")
		return
	}
	segmentID, err := strconv.ParseUint(ctx.Param("segmentId"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "Invalid segment id")
		return
	}

	var req regenerateImageRequest
	ctx.ShouldBindJSON(&req)

	img, err := c.StoryService.RegenerateSegmentImage(ctx.Request.Context(), user.UserID, uint(storyID), uint(segmentID), req.Style)
	if err != nil {
		if err == util.ErrStoryNotFound {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, img)
}
