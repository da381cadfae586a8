package controller

import (
	"primary_reading_backend/internal/model"
	"primary_reading_backend/internal/util"
	"strconv"

	"github.com/gin-gonic/gin"
)

// GradeController 暴露各年级的阅读配置，前端据此展示词数和题量预期
type GradeController struct{}

func NewGradeController() *GradeController {
	return &GradeController{}
}

// @Summary 所有年级配置
// @Tags 年级
// @Produce json
// @Success 200 {object} util.Response
// @Router /api/grades [get]
func (c *GradeController) ListGrades(ctx *gin.Context) {
	util.Success(ctx, model.AllGradeLevels())
}

// @Summary 单个年级配置
// @Tags 年级
// @Produce json
// @Param year path int true "年级 1-6"
// @Success 200 {object} util.Response
// @Router /api/grades/{year} [get]
func (c *GradeController) GetGrade(ctx *gin.Context) {
	year, err := strconv.Atoi(ctx.Param("year"))
	if err != nil {
		util.BadRequest(ctx, "Invalid year level")
		return
	}

	grade, ok := model.GradeLevelFor(year)
	if !ok {
		util.BadRequest(ctx, util.ErrInvalidYearLevel.Error())
		return
	}

	util.Success(ctx, grade)
}
