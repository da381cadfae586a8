package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"primary_reading_backend/internal/config"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResearchTopicJoinsResults(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req searchRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		gotQuery = req.Query

		json.NewEncoder(w).Encode(searchResponse{
			Results: []struct {
				Title   string `json:"title"`
				Content string `json:"content"`
			}{
				{Title: "Volcano facts", Content: "Volcanoes are openings in the Earth's crust."},
				{Title: "Empty", Content: "   "},
				{Title: "More", Content: "Lava is melted rock."},
			},
		})
	}))
	defer srv.Close()

	svc := NewResearchService(config.SearchConfig{BaseURL: srv.URL, APIKey: "key", MaxResults: 3})

	got := svc.ResearchTopic(context.Background(), "volcanoes")

	assert.Equal(t, "volcanoes facts for children", gotQuery)
	assert.Equal(t, "Volcanoes are openings in the Earth's crust.\n\nLava is melted rock.", got)
}

func TestResearchTopicDegradesToEmpty(t *testing.T) {
	// 未配置
	svc := NewResearchService(config.SearchConfig{})
	assert.Empty(t, svc.ResearchTopic(context.Background(), "volcanoes"))

	// 服务端报错
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	svc = NewResearchService(config.SearchConfig{BaseURL: srv.URL, APIKey: "key", MaxResults: 3})
	assert.Empty(t, svc.ResearchTopic(context.Background(), "volcanoes"))

	// 服务不可达
	svc = NewResearchService(config.SearchConfig{BaseURL: "http://127.0.0.1:1", APIKey: "key", MaxResults: 3})
	assert.Empty(t, svc.ResearchTopic(context.Background(), "volcanoes"))
}
