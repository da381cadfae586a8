package service

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"primary_reading_backend/internal/config"
	"primary_reading_backend/internal/model"
	"testing"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeImageCreator struct {
	url     string
	err     error
	calls   int
	prompts []string
}

func (f *fakeImageCreator) CreateImage(ctx context.Context, req openai.ImageRequest) (openai.ImageResponse, error) {
	f.calls++
	f.prompts = append(f.prompts, req.Prompt)
	if f.err != nil {
		return openai.ImageResponse{}, f.err
	}
	return openai.ImageResponse{
		Data: []openai.ImageResponseDataInner{{URL: f.url, RevisedPrompt: "revised " + req.Prompt}},
	}, nil
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 10, 10))))
	return buf.Bytes()
}

func testStorage(t *testing.T) *StorageService {
	t.Helper()
	return &StorageService{
		Provider:  &LocalStorageProvider{Config: &config.StorageConfig{LocalPath: t.TempDir()}},
		URLExpiry: time.Hour,
	}
}

func imageServer(t *testing.T) *httptest.Server {
	t.Helper()
	data := pngBytes(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		w.Write(data)
	}))
	t.Cleanup(srv.Close)
	return srv
}

const twoSegmentStory = `## Segment 1: One
First part of the story.
**[Image Prompt: first illustration]**

## Segment 2: Two
Second part of the story.
**[Image Prompt: second illustration]**
`

func TestGenerateStoryImagesCoverOnly(t *testing.T) {
	srv := imageServer(t)
	fake := &fakeImageCreator{url: srv.URL + "/gen.png"}
	svc := NewImageServiceWithClient(fake, testStorage(t), config.ImageConfig{MaxImages: 6})

	images := svc.GenerateStoryImages(context.Background(), twoSegmentStory, "Test", GenerateImagesOptions{GenerateAll: false})

	// 默认只生成一张封面
	require.Equal(t, 1, fake.calls)
	require.Len(t, images, 1)
	assert.Equal(t, model.CoverPrompt, images[0].Kind)
	assert.Equal(t, "first illustration", images[0].Prompt)
}

func TestGenerateStoryImagesAll(t *testing.T) {
	srv := imageServer(t)
	fake := &fakeImageCreator{url: srv.URL + "/gen.png"}
	storage := testStorage(t)
	svc := NewImageServiceWithClient(fake, storage, config.ImageConfig{MaxImages: 6})

	images := svc.GenerateStoryImages(context.Background(), twoSegmentStory, "Test", GenerateImagesOptions{GenerateAll: true})

	require.Equal(t, 2, fake.calls)
	require.Len(t, images, 2)
	assert.Equal(t, []string{"first illustration", "second illustration"}, fake.prompts)

	// 原图和缩略图都已写入存储
	local := storage.Provider.(*LocalStorageProvider)
	for _, img := range images {
		assert.NotEmpty(t, img.StoragePath)
		assert.NotEmpty(t, img.ThumbnailPath)
		_, err := os.Stat(filepath.Join(local.Config.LocalPath, img.StoragePath))
		assert.NoError(t, err)
		_, err = os.Stat(filepath.Join(local.Config.LocalPath, img.ThumbnailPath))
		assert.NoError(t, err)
	}
}

func TestGenerateStoryImagesMaxImagesCap(t *testing.T) {
	srv := imageServer(t)
	fake := &fakeImageCreator{url: srv.URL + "/gen.png"}
	svc := NewImageServiceWithClient(fake, testStorage(t), config.ImageConfig{MaxImages: 6})

	images := svc.GenerateStoryImages(context.Background(), twoSegmentStory, "Test", GenerateImagesOptions{
		GenerateAll: true,
		MaxImages:   1,
	})

	assert.Equal(t, 1, fake.calls)
	assert.Len(t, images, 1)
}

func TestGenerateStoryImagesFailuresSkipped(t *testing.T) {
	fake := &fakeImageCreator{err: errors.New("quota exceeded")}
	svc := NewImageServiceWithClient(fake, testStorage(t), config.ImageConfig{MaxImages: 6})

	images := svc.GenerateStoryImages(context.Background(), twoSegmentStory, "Test", GenerateImagesOptions{GenerateAll: true})

	// 全部失败时返回空集合，不报错
	assert.Equal(t, 2, fake.calls)
	assert.Empty(t, images)
}

func TestGenerateOneUsesConfiguredStyle(t *testing.T) {
	srv := imageServer(t)
	fake := &fakeImageCreator{url: srv.URL + "/gen.png"}
	svc := NewImageServiceWithClient(fake, testStorage(t), config.ImageConfig{MaxImages: 6, Style: "vivid"})

	img, err := svc.generateOne(context.Background(), model.ImagePrompt{
		SegmentOrder: 1,
		PromptText:   "a happy dog",
		Kind:         model.SegmentPrompt,
	}, "")
	require.NoError(t, err)

	assert.Equal(t, "a happy dog", img.Prompt)
	assert.Equal(t, "revised a happy dog", img.RevisedPrompt)
	assert.NotEmpty(t, img.ImageURL)
}
