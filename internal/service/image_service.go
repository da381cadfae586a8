package service

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"io"
	"net/http"
	"primary_reading_backend/internal/config"
	"primary_reading_backend/internal/model"
	"primary_reading_backend/internal/util"
	"primary_reading_backend/pkg/logger"
	"primary_reading_backend/pkg/monitoring"
	"time"

	_ "image/gif"
	_ "image/jpeg"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
	"golang.org/x/image/draw"
)

const thumbnailWidth = 256

// ImageCreator 插图生成客户端，*openai.Client 满足该接口
type ImageCreator interface {
	CreateImage(ctx context.Context, req openai.ImageRequest) (openai.ImageResponse, error)
}

// ImageService 按提取出的提示串行生成插图并写入对象存储。
// 调用之间留固定间隔以迁就第三方限流，不做动态退避。
type ImageService struct {
	client   ImageCreator
	storage  *StorageService
	config   config.ImageConfig
	http     *http.Client
	interval time.Duration
	sleep    func(time.Duration)
}

func NewImageService(aiCfg config.AIConfig, imgCfg config.ImageConfig, storage *StorageService) *ImageService {
	clientCfg := openai.DefaultConfig(aiCfg.APIKey)
	if aiCfg.BaseURL != "" {
		clientCfg.BaseURL = aiCfg.BaseURL
	}
	return &ImageService{
		client:   openai.NewClientWithConfig(clientCfg),
		storage:  storage,
		config:   imgCfg,
		http:     &http.Client{Timeout: 60 * time.Second},
		interval: time.Duration(imgCfg.IntervalSeconds) * time.Second,
		sleep:    time.Sleep,
	}
}

// NewImageServiceWithClient 测试注入用：假客户端、零间隔
func NewImageServiceWithClient(client ImageCreator, storage *StorageService, cfg config.ImageConfig) *ImageService {
	return &ImageService{
		client:   client,
		storage:  storage,
		config:   cfg,
		http:     &http.Client{Timeout: 60 * time.Second},
		interval: 0,
		sleep:    func(time.Duration) {},
	}
}

type GenerateImagesOptions struct {
	GenerateAll bool
	MaxImages   int
	Style       string
}

// GenerateStoryImages 提取插图提示后逐条生成。单条失败记录日志后跳过，
// 返回成功的子集；结果数少于请求数是正常结局，调用方必须容忍
func (s *ImageService) GenerateStoryImages(ctx context.Context, content, title string, opts GenerateImagesOptions) []model.GeneratedImage {
	prompts := ExtractImagePrompts(content, title)
	selected := s.selectPrompts(prompts, opts)

	images := make([]model.GeneratedImage, 0, len(selected))
	for i, prompt := range selected {
		if i > 0 {
			// 固定间隔，迁就图像接口的限流
			s.sleep(s.interval)
		}

		img, err := s.generateOne(ctx, prompt, opts.Style)
		if err != nil {
			monitoring.ImageGenerationCounter.WithLabelValues("failure").Inc()
			logger.Log.Warn("image generation failed, skipping prompt",
				zap.Int("segmentOrder", prompt.SegmentOrder),
				zap.Error(err))
			continue
		}

		monitoring.ImageGenerationCounter.WithLabelValues("success").Inc()
		images = append(images, *img)
	}

	return images
}

// selectPrompts generateAll 为假时只留第一条封面提示，否则按提取顺序取前 maxImages 条
func (s *ImageService) selectPrompts(prompts []model.ImagePrompt, opts GenerateImagesOptions) []model.ImagePrompt {
	if !opts.GenerateAll {
		for _, p := range prompts {
			if p.Kind == model.CoverPrompt {
				return []model.ImagePrompt{p}
			}
		}
		return nil
	}

	max := opts.MaxImages
	if max <= 0 || max > s.config.MaxImages {
		max = s.config.MaxImages
	}
	if len(prompts) > max {
		prompts = prompts[:max]
	}
	return prompts
}

func (s *ImageService) generateOne(ctx context.Context, prompt model.ImagePrompt, style string) (*model.GeneratedImage, error) {
	if style == "" {
		style = s.config.Style
	}

	resp, err := s.client.CreateImage(ctx, openai.ImageRequest{
		Model:   s.config.Model,
		Prompt:  prompt.PromptText,
		Size:    s.config.Size,
		Quality: s.config.Quality,
		Style:   style,
		N:       1,
	})
	if err != nil {
		return nil, err
	}
	if len(resp.Data) == 0 || resp.Data[0].URL == "" {
		return nil, fmt.Errorf("image API returned no result")
	}

	// 接口返回的链接是临时的，必须先落到自己的存储
	data, err := s.download(ctx, resp.Data[0].URL)
	if err != nil {
		return nil, fmt.Errorf("download generated image: %w", err)
	}

	base := fmt.Sprintf("stories/images/%s_%s",
		time.Now().Format("20060102150405"), util.GenerateRandomString(6))
	fullPath := base + ".png"
	thumbPath := base + "_thumb.png"

	if _, err := s.storage.Upload(ctx, fullPath, bytes.NewReader(data), int64(len(data)), "image/png"); err != nil {
		return nil, fmt.Errorf("upload image: %w", err)
	}

	thumb, err := makeThumbnail(data)
	if err != nil {
		// 缩略图失败不致命，退回原图
		logger.Log.Warn("thumbnail generation failed, using full image", zap.Error(err))
		thumb = data
	}
	if _, err := s.storage.Upload(ctx, thumbPath, bytes.NewReader(thumb), int64(len(thumb)), "image/png"); err != nil {
		return nil, fmt.Errorf("upload thumbnail: %w", err)
	}

	imageURL, err := s.storage.SignedURL(ctx, fullPath)
	if err != nil {
		imageURL = s.storage.GetURL(fullPath)
	}
	thumbURL, err := s.storage.SignedURL(ctx, thumbPath)
	if err != nil {
		thumbURL = s.storage.GetURL(thumbPath)
	}

	return &model.GeneratedImage{
		SegmentOrder:  prompt.SegmentOrder,
		ImageURL:      imageURL,
		ThumbnailURL:  thumbURL,
		StoragePath:   fullPath,
		ThumbnailPath: thumbPath,
		Prompt:        prompt.PromptText,
		RevisedPrompt: resp.Data[0].RevisedPrompt,
		Kind:          prompt.Kind,
	}, nil
}

func (s *ImageService) download(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", rawURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := s.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("image download returned status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

// makeThumbnail 等比缩放到 256px 宽并编码为 PNG
func makeThumbnail(data []byte) ([]byte, error) {
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	bounds := src.Bounds()
	if bounds.Dx() <= thumbnailWidth {
		return data, nil
	}

	height := bounds.Dy() * thumbnailWidth / bounds.Dx()
	dst := image.NewRGBA(image.Rect(0, 0, thumbnailWidth, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, draw.Over, nil)

	var buf bytes.Buffer
	if err := png.Encode(&buf, dst); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
