package service

import (
	"context"
	"io"
	"primary_reading_backend/internal/model"
	"primary_reading_backend/internal/repository"
	"primary_reading_backend/internal/util"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// recordingStorageProvider 记录删除调用的假存储，可按对象名注入失败
type recordingStorageProvider struct {
	deleted []string
	fail    map[string]bool
}

func (p *recordingStorageProvider) Upload(ctx context.Context, filename string, reader io.Reader, size int64, contentType string) (string, error) {
	return "/uploads/" + filename, nil
}

func (p *recordingStorageProvider) Delete(ctx context.Context, filename string) error {
	if p.fail[filename] {
		return assert.AnError
	}
	p.deleted = append(p.deleted, filename)
	return nil
}

func (p *recordingStorageProvider) GetURL(filename string) string {
	return "/uploads/" + filename
}

func (p *recordingStorageProvider) SignedURL(ctx context.Context, filename string, expiry time.Duration) (string, error) {
	return "/uploads/" + filename, nil
}

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	// 单连接串行化，兼容删除工作流里的并发访问
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&model.ChildProfile{},
		&model.Story{},
		&model.StorySegment{},
		&model.Question{},
		&model.StoryRating{},
		&model.ReadingProgress{},
		&model.QuestionAnswer{},
		&model.StoryShare{},
		&model.ReadingSession{},
	))
	return db
}

func newStoryServiceForTest(t *testing.T, db *gorm.DB, provider *recordingStorageProvider) *StoryService {
	t.Helper()
	storage := &StorageService{Provider: provider, URLExpiry: time.Hour}
	return NewStoryService(
		repository.NewStoryRepository(db),
		repository.NewChildProfileRepository(db),
		nil, nil, nil,
		storage,
		nil,
	)
}

func seedStory(t *testing.T, db *gorm.DB, ownerID uint) *model.Story {
	t.Helper()
	story := &model.Story{
		CreatedBy: ownerID,
		Title:     "The Lost Kite",
		Topic:     "kites",
		YearLevel: 2,
		Content:   "story body",
		Status:    model.StoryPublished,
		Segments: []model.StorySegment{
			{
				SegmentOrder: 1,
				Content:      "first page",
				ImagePath:    "stories/images/seg1.png",
				ImageURL:     "https://cdn.example.com/bucket/seg1.png?sig=abc",
			},
			{
				SegmentOrder: 2,
				Content:      "second page",
				ImagePath:    "stories/images/seg2.png",
				ImageURL:     "https://cdn.example.com/bucket/seg2.png?sig=def",
			},
		},
		Questions: []model.Question{
			{
				QuestionText:  "What was lost?",
				QuestionType:  model.MultipleChoice,
				Options:       `["A kite","A ball"]`,
				CorrectAnswer: "A kite",
				Points:        10,
				Difficulty:    1,
			},
		},
	}
	require.NoError(t, db.Create(story).Error)

	require.NoError(t, db.Create(&model.StoryRating{StoryID: story.ID, UserID: ownerID, Rating: 5}).Error)
	require.NoError(t, db.Create(&model.ReadingProgress{ChildProfileID: 1, StoryID: story.ID, CurrentSegment: 1}).Error)
	require.NoError(t, db.Create(&model.QuestionAnswer{
		ChildProfileID: 1,
		StoryID:        story.ID,
		QuestionID:     story.Questions[0].ID,
		Answer:         "A kite",
		Correct:        true,
		PointsEarned:   10,
	}).Error)

	return story
}

func TestDeleteStoryRemovesEverything(t *testing.T) {
	db := testDB(t)
	provider := &recordingStorageProvider{}
	svc := newStoryServiceForTest(t, db, provider)
	story := seedStory(t, db, 1)

	result, err := svc.DeleteStory(context.Background(), story.ID, 1)
	require.NoError(t, err)

	// 每个段落贡献存储路径和URL文件名两个对象
	assert.Equal(t, 4, result.TotalImages)
	assert.Equal(t, 4, result.ImagesDeleted)
	assert.Equal(t, 0, result.ImagesFailed)
	assert.True(t, result.CleanupComplete)

	// 2段落+1题目+1评分+1进度+1答案
	assert.Equal(t, 6, result.RelatedRecordsDeleted)

	assert.ElementsMatch(t, []string{
		"stories/images/seg1.png", "seg1.png",
		"stories/images/seg2.png", "seg2.png",
	}, provider.deleted)

	var count int64
	db.Model(&model.Story{}).Where("id = ?", story.ID).Count(&count)
	assert.Zero(t, count)
	db.Model(&model.StorySegment{}).Where("story_id = ?", story.ID).Count(&count)
	assert.Zero(t, count)
	db.Model(&model.Question{}).Where("story_id = ?", story.ID).Count(&count)
	assert.Zero(t, count)
}

func TestDeleteStoryNonOwner(t *testing.T) {
	db := testDB(t)
	provider := &recordingStorageProvider{}
	svc := newStoryServiceForTest(t, db, provider)
	story := seedStory(t, db, 1)

	_, err := svc.DeleteStory(context.Background(), story.ID, 2)
	assert.ErrorIs(t, err, util.ErrStoryNotFound)

	// 非属主请求不得有任何副作用
	assert.Empty(t, provider.deleted)
	var count int64
	db.Model(&model.Story{}).Where("id = ?", story.ID).Count(&count)
	assert.EqualValues(t, 1, count)
	db.Model(&model.StorySegment{}).Where("story_id = ?", story.ID).Count(&count)
	assert.EqualValues(t, 2, count)
}

func TestDeleteStoryStorageFailureTolerated(t *testing.T) {
	db := testDB(t)
	provider := &recordingStorageProvider{fail: map[string]bool{"seg1.png": true}}
	svc := newStoryServiceForTest(t, db, provider)
	story := seedStory(t, db, 1)

	result, err := svc.DeleteStory(context.Background(), story.ID, 1)
	require.NoError(t, err)

	// 存储清理失败不影响故事删除本身，只反映在结果里
	assert.Equal(t, 4, result.TotalImages)
	assert.Equal(t, 3, result.ImagesDeleted)
	assert.Equal(t, 1, result.ImagesFailed)
	assert.False(t, result.CleanupComplete)

	var count int64
	db.Model(&model.Story{}).Where("id = ?", story.ID).Count(&count)
	assert.Zero(t, count)
}

func TestGetStoryVisibility(t *testing.T) {
	db := testDB(t)
	svc := newStoryServiceForTest(t, db, &recordingStorageProvider{})

	private := seedStory(t, db, 1)

	public := &model.Story{
		CreatedBy: 1,
		Title:     "Shared Story",
		Topic:     "sharing",
		YearLevel: 3,
		Content:   "body",
		Status:    model.StoryPublished,
		IsPublic:  true,
	}
	require.NoError(t, db.Create(public).Error)

	// 属主能看私有故事，其他人不能
	got, err := svc.GetStory(1, private.ID)
	require.NoError(t, err)
	assert.Equal(t, "The Lost Kite", got.Title)
	assert.Len(t, got.Segments, 2)

	_, err = svc.GetStory(2, private.ID)
	assert.ErrorIs(t, err, util.ErrStoryNotFound)

	// 公开故事任何人可读
	got, err = svc.GetStory(2, public.ID)
	require.NoError(t, err)
	assert.Equal(t, "Shared Story", got.Title)
}

func TestRateStory(t *testing.T) {
	db := testDB(t)
	svc := newStoryServiceForTest(t, db, &recordingStorageProvider{})
	story := seedStory(t, db, 1)

	assert.ErrorIs(t, svc.RateStory(1, story.ID, 0, ""), util.ErrInvalidRating)
	assert.ErrorIs(t, svc.RateStory(1, story.ID, 6, ""), util.ErrInvalidRating)

	require.NoError(t, svc.RateStory(1, story.ID, 4, "nice"))
	// 重复评分覆盖旧值，不新增行
	require.NoError(t, svc.RateStory(1, story.ID, 2, "changed my mind"))

	var ratings []model.StoryRating
	require.NoError(t, db.Where("story_id = ? AND user_id = ?", story.ID, 1).Find(&ratings).Error)
	require.Len(t, ratings, 1)
	assert.Equal(t, 2, ratings[0].Rating)
}

func TestBuildSegmentsStripsImageDirectives(t *testing.T) {
	segments := buildSegments(storyWithDirectives)

	require.Len(t, segments, 2)
	assert.Equal(t, 1, segments[0].SegmentOrder)
	assert.Equal(t, "A Strange Seed", segments[0].Title)
	assert.NotContains(t, segments[0].Content, "Image Prompt")
	assert.Contains(t, segments[0].Content, "silver seed")
}

func TestBuildQuestionsMarshalsOptions(t *testing.T) {
	questions := buildQuestions(storyWithQuestions)

	require.Len(t, questions, 3)
	assert.Equal(t, `["A cave","A boat","A treasure chest","A bear"]`, questions[0].Options)
	assert.Equal(t, "A cave", questions[0].CorrectAnswer)
}
