package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"primary_reading_backend/internal/config"
	"primary_reading_backend/pkg/logger"
	"strings"

	"go.uber.org/zap"
)

// ResearchService 调用外部搜索 API，把靠前的结果拼成一段背景资料，
// 作为故事生成提示词的事实依据。任何失败都降级为返回空串。
type ResearchService struct {
	config config.SearchConfig
	client *http.Client
}

func NewResearchService(cfg config.SearchConfig) *ResearchService {
	return &ResearchService{
		config: cfg,
		client: &http.Client{},
	}
}

type searchRequest struct {
	APIKey     string `json:"api_key"`
	Query      string `json:"query"`
	MaxResults int    `json:"max_results"`
}

type searchResponse struct {
	Results []struct {
		Title   string `json:"title"`
		Content string `json:"content"`
	} `json:"results"`
}

// ResearchTopic 返回主题的背景资料文本；搜索不可用时返回空串，不报错
func (s *ResearchService) ResearchTopic(ctx context.Context, topic string) string {
	if s.config.BaseURL == "" || s.config.APIKey == "" {
		return ""
	}

	reqBody := searchRequest{
		APIKey:     s.config.APIKey,
		Query:      fmt.Sprintf("%s facts for children", topic),
		MaxResults: s.config.MaxResults,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return ""
	}

	req, err := http.NewRequestWithContext(ctx, "POST", s.config.BaseURL+"/search", bytes.NewBuffer(jsonData))
	if err != nil {
		logger.Log.Warn("research request build failed", zap.Error(err))
		return ""
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		logger.Log.Warn("research search failed, continuing without context", zap.Error(err))
		return ""
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		logger.Log.Warn("research search returned non-200",
			zap.Int("status", resp.StatusCode),
			zap.String("topic", topic))
		return ""
	}

	var result searchResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return ""
	}

	parts := make([]string, 0, len(result.Results))
	for _, r := range result.Results {
		if strings.TrimSpace(r.Content) == "" {
			continue
		}
		parts = append(parts, strings.TrimSpace(r.Content))
	}

	return strings.Join(parts, "\n\n")
}
