package service

import (
	"context"
	"encoding/json"
	"fmt"
	"primary_reading_backend/internal/model"
	"primary_reading_backend/internal/repository"
	"primary_reading_backend/internal/util"
	"primary_reading_backend/pkg/logger"
	"primary_reading_backend/pkg/monitoring"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const publicStoriesCachePrefix = "stories:public:"

type StoryService struct {
	StoryRepo   *repository.StoryRepository
	ProfileRepo *repository.ChildProfileRepository
	Generator   *StoryGenerator
	Research    *ResearchService
	Images      *ImageService
	Storage     *StorageService
	Redis       *redis.Client
}

func NewStoryService(
	storyRepo *repository.StoryRepository,
	profileRepo *repository.ChildProfileRepository,
	generator *StoryGenerator,
	research *ResearchService,
	images *ImageService,
	storage *StorageService,
	rdb *redis.Client,
) *StoryService {
	return &StoryService{
		StoryRepo:   storyRepo,
		ProfileRepo: profileRepo,
		Generator:   generator,
		Research:    research,
		Images:      images,
		Storage:     storage,
		Redis:       rdb,
	}
}

type GenerateStoryRequest struct {
	Topic          string `json:"topic" binding:"required"`
	YearLevel      int    `json:"yearLevel" binding:"required"`
	ChildProfileID *uint  `json:"childProfileId"`
	GenerateAll    bool   `json:"generateAllImages"`
	MaxImages      int    `json:"maxImages"`
	Style          string `json:"style"`
	IsPublic       bool   `json:"isPublic"`
}

// GenerateStory 完整生成管线：调研 -> 生成 -> 解析段落/题目 -> 入库 -> 配图
func (s *StoryService) GenerateStory(ctx context.Context, userID uint, req GenerateStoryRequest) (*model.Story, error) {
	grade, ok := model.GradeLevelFor(req.YearLevel)
	if !ok {
		return nil, util.ErrInvalidYearLevel
	}

	if req.ChildProfileID != nil {
		if _, err := s.ProfileRepo.FindByIDForUser(*req.ChildProfileID, userID); err != nil {
			return nil, util.ErrProfileNotFound
		}
	}

	research := s.Research.ResearchTopic(ctx, req.Topic)

	generated, err := s.Generator.GenerateStory(ctx, req.Topic, grade, research)
	if err != nil {
		monitoring.StoryGenerationCounter.WithLabelValues(strconv.Itoa(grade.Year), "failure").Inc()
		return nil, err
	}
	monitoring.StoryGenerationCounter.WithLabelValues(strconv.Itoa(grade.Year), "success").Inc()

	story := &model.Story{
		CreatedBy:      userID,
		ChildProfileID: req.ChildProfileID,
		Title:          generated.Title,
		Description:    generated.Description,
		Topic:          req.Topic,
		YearLevel:      grade.Year,
		Content:        generated.Content,
		WordCount:      len(strings.Fields(generated.Content)),
		Status:         model.StoryPublished,
		IsPublic:       req.IsPublic,
		Segments:       buildSegments(generated.Content),
		Questions:      buildQuestions(generated.Content),
	}

	if err := s.StoryRepo.Create(story); err != nil {
		return nil, err
	}

	s.attachImages(ctx, story, GenerateImagesOptions{
		GenerateAll: req.GenerateAll,
		MaxImages:   req.MaxImages,
		Style:       req.Style,
	})

	s.invalidatePublicCache(ctx)

	return s.StoryRepo.FindByIDForOwner(story.ID, userID)
}

// buildSegments 把模型原始输出切成带顺序的段落行；插图指令行不进入阅读正文
func buildSegments(content string) []model.StorySegment {
	parts := splitSegments(content)
	segments := make([]model.StorySegment, 0, len(parts))
	for _, p := range parts {
		body := p.body
		for _, re := range imageDirectiveRes {
			body = re.ReplaceAllString(body, "")
		}
		segments = append(segments, model.StorySegment{
			SegmentOrder: p.order,
			Title:        p.title,
			Content:      strings.TrimSpace(body),
		})
	}
	return segments
}

func buildQuestions(content string) []model.Question {
	parsed := ParseQuestions(content)
	questions := make([]model.Question, 0, len(parsed))
	for _, q := range parsed {
		optionsJSON := ""
		if q.Options != nil {
			if data, err := json.Marshal(q.Options); err == nil {
				optionsJSON = string(data)
			}
		}
		questions = append(questions, model.Question{
			QuestionText:  q.QuestionText,
			QuestionType:  q.QuestionType,
			Options:       optionsJSON,
			CorrectAnswer: q.CorrectAnswer,
			Explanation:   q.Explanation,
			Points:        q.Points,
			Difficulty:    q.Difficulty,
		})
	}
	return questions
}

// attachImages 生成插图并按段落顺序写回；封面挂到故事本身
func (s *StoryService) attachImages(ctx context.Context, story *model.Story, opts GenerateImagesOptions) {
	images := s.Images.GenerateStoryImages(ctx, story.Content, story.Title, opts)

	segmentByOrder := make(map[int]*model.StorySegment, len(story.Segments))
	for i := range story.Segments {
		segmentByOrder[story.Segments[i].SegmentOrder] = &story.Segments[i]
	}

	for i := range images {
		img := &images[i]
		if img.Kind == model.CoverPrompt {
			if err := s.StoryRepo.UpdateCoverImage(story.ID, img.StoragePath, img.ImageURL); err != nil {
				logger.Log.Error("failed to save cover image", zap.Uint("storyId", story.ID), zap.Error(err))
			}
		}
		if seg, ok := segmentByOrder[img.SegmentOrder]; ok {
			if err := s.StoryRepo.UpdateSegmentImage(seg.ID, img); err != nil {
				logger.Log.Error("failed to save segment image",
					zap.Uint("storyId", story.ID),
					zap.Int("segmentOrder", img.SegmentOrder),
					zap.Error(err))
			}
		}
	}
}

// RegenerateSegmentImage 为单个段落重新生成插图
func (s *StoryService) RegenerateSegmentImage(ctx context.Context, userID, storyID, segmentID uint, style string) (*model.GeneratedImage, error) {
	story, err := s.StoryRepo.FindByIDForOwner(storyID, userID)
	if err != nil {
		return nil, util.ErrStoryNotFound
	}

	var segment *model.StorySegment
	for i := range story.Segments {
		if story.Segments[i].ID == segmentID {
			segment = &story.Segments[i]
			break
		}
	}
	if segment == nil {
		return nil, util.ErrStoryNotFound
	}

	prompt := model.ImagePrompt{
		SegmentOrder: segment.SegmentOrder,
		Title:        segment.Title,
		PromptText:   segment.ImagePrompt,
		Kind:         model.SegmentPrompt,
	}
	if prompt.PromptText == "" {
		if text, ok := fallbackPrompt(segment.Content, story.Title); ok {
			prompt.PromptText = text
		} else {
			prompt.PromptText = fmt.Sprintf(
				"Children's book illustration for the story '%s'. Bright, colorful, child-friendly art style.",
				story.Title)
		}
	}

	img, err := s.Images.generateOne(ctx, prompt, style)
	if err != nil {
		return nil, err
	}

	if err := s.StoryRepo.UpdateSegmentImage(segment.ID, img); err != nil {
		return nil, err
	}
	return img, nil
}

func (s *StoryService) GetStory(userID, storyID uint) (*model.Story, error) {
	story, err := s.StoryRepo.FindReadable(storyID, userID)
	if err == gorm.ErrRecordNotFound {
		return nil, util.ErrStoryNotFound
	}
	return story, err
}

func (s *StoryService) ListStories(ctx context.Context, filter repository.StoryFilter) (*util.PageResponse, error) {
	// 公开列表走 Redis 缓存
	cacheKey := ""
	if filter.OnlyPublic && s.Redis != nil {
		cacheKey = fmt.Sprintf("%syear:%d:page:%d:limit:%d",
			publicStoriesCachePrefix, filter.YearLevel, filter.Page, filter.Limit)
		if cached, err := s.Redis.Get(ctx, cacheKey).Result(); err == nil {
			var page util.PageResponse
			if json.Unmarshal([]byte(cached), &page) == nil {
				return &page, nil
			}
		}
	}

	stories, total, err := s.StoryRepo.List(filter)
	if err != nil {
		return nil, err
	}

	page := &util.PageResponse{
		List:  stories,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}

	if cacheKey != "" {
		if data, err := json.Marshal(page); err == nil {
			s.Redis.Set(ctx, cacheKey, data, 5*time.Minute)
		}
	}

	return page, nil
}

func (s *StoryService) RateStory(userID, storyID uint, rating int, comment string) error {
	if rating < 1 || rating > 5 {
		return util.ErrInvalidRating
	}
	if _, err := s.StoryRepo.FindReadable(storyID, userID); err != nil {
		return util.ErrStoryNotFound
	}
	return s.StoryRepo.UpsertRating(&model.StoryRating{
		StoryID: storyID,
		UserID:  userID,
		Rating:  rating,
		Comment: comment,
	})
}

func (s *StoryService) invalidatePublicCache(ctx context.Context) {
	if s.Redis == nil {
		return
	}
	iter := s.Redis.Scan(ctx, 0, publicStoriesCachePrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		s.Redis.Del(ctx, iter.Val())
	}
}

// DeleteStoryResult 删除工作流的分项结果。"故事已删除"和"存储已清理干净"
// 是两个独立汇报的结论
type DeleteStoryResult struct {
	RelatedRecordsDeleted int  `json:"relatedRecordsDeleted"`
	TotalImages           int  `json:"totalImages"`
	ImagesDeleted         int  `json:"imagesDeleted"`
	ImagesFailed          int  `json:"imagesFailed"`
	CleanupComplete       bool `json:"cleanupComplete"`
}

// DeleteStory 删除故事及其全部从属数据。
// 属主过滤在查询阶段完成：非属主请求得到"不存在"，不泄露权限信息。
// 七张从属表并发独立删除，任一失败不阻塞其余；故事主行删除是唯一致命步骤；
// 主行删掉之后才清理存储对象，同样逐个容错。
func (s *StoryService) DeleteStory(ctx context.Context, storyID, userID uint) (*DeleteStoryResult, error) {
	story, err := s.StoryRepo.FindByIDForOwner(storyID, userID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, util.ErrStoryNotFound
		}
		return nil, err
	}

	objects := collectStorageObjects(story)
	result := &DeleteStoryResult{TotalImages: len(objects)}

	dependents := []struct {
		name  string
		value interface{}
	}{
		{"question_answers", &model.QuestionAnswer{}},
		{"reading_progress", &model.ReadingProgress{}},
		{"story_ratings", &model.StoryRating{}},
		{"questions", &model.Question{}},
		{"story_segments", &model.StorySegment{}},
		{"story_shares", &model.StoryShare{}},
		{"reading_sessions", &model.ReadingSession{}},
	}

	type deleteOutcome struct {
		name string
		rows int64
		err  error
	}

	outcomes := make([]deleteOutcome, len(dependents))
	var wg sync.WaitGroup
	for i, dep := range dependents {
		wg.Add(1)
		go func(i int, name string, value interface{}) {
			defer wg.Done()
			rows, err := s.StoryRepo.DeleteDependents(storyID, value)
			outcomes[i] = deleteOutcome{name: name, rows: rows, err: err}
		}(i, dep.name, dep.value)
	}
	wg.Wait()

	dependentsClean := true
	for _, out := range outcomes {
		if out.err != nil {
			dependentsClean = false
			logger.Log.Warn("dependent table cleanup failed",
				zap.String("table", out.name),
				zap.Uint("storyId", storyID),
				zap.Error(out.err))
			continue
		}
		result.RelatedRecordsDeleted += int(out.rows)
	}

	// 主行删除失败则整个操作失败
	if err := s.StoryRepo.DeleteStoryRow(storyID); err != nil {
		return nil, fmt.Errorf("%w: %v", util.ErrStoryDeleteFailed, err)
	}

	// 主行已删，存储清理只能尽力而为
	for _, object := range objects {
		if err := s.Storage.Delete(ctx, object); err != nil {
			result.ImagesFailed++
			logger.Log.Warn("storage object cleanup failed",
				zap.String("object", object),
				zap.Uint("storyId", storyID),
				zap.Error(err))
			continue
		}
		result.ImagesDeleted++
	}

	result.CleanupComplete = dependentsClean && result.ImagesFailed == 0

	s.invalidatePublicCache(ctx)

	logger.Log.Info("story deleted",
		zap.Uint("storyId", storyID),
		zap.Int("relatedRecordsDeleted", result.RelatedRecordsDeleted),
		zap.Int("imagesDeleted", result.ImagesDeleted),
		zap.Int("imagesFailed", result.ImagesFailed))

	return result, nil
}

// collectStorageObjects 把故事和段落引用的所有图片收进一张待删清单。
// 存储路径按原样收集，URL 取最后一个路径段作为裸文件名
func collectStorageObjects(story *model.Story) []string {
	seen := make(map[string]bool)
	var objects []string

	add := func(name string) {
		if name == "" || name == "." || name == "/" || seen[name] {
			return
		}
		seen[name] = true
		objects = append(objects, name)
	}

	add(story.CoverImagePath)
	if story.CoverImageURL != "" {
		add(util.ObjectNameFromURL(story.CoverImageURL))
	}

	for _, seg := range story.Segments {
		add(seg.ImagePath)
		if seg.ImageURL != "" {
			add(util.ObjectNameFromURL(seg.ImageURL))
		}
		add(seg.ThumbnailPath)
		if seg.ThumbnailURL != "" {
			add(util.ObjectNameFromURL(seg.ThumbnailURL))
		}
	}

	return objects
}
