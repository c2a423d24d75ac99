package assistant

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/comiclib/comiclib-api/internal/pkg/gemini"
	"github.com/comiclib/comiclib-api/internal/pkg/logger"
)

const (
	mergePrompt = "첫 번째 사진의 인물을 두 번째 사진의 인물을 아주 친한 친구인것 처럼 어깨 동무를 하고 환하게 웃는 얼굴로 합성해 주세요 ."

	expertInstruction = "당신은 만화책 전문가 AI 에이전트입니다. 사용자의 질문에 대해 Google 검색을 사용하여 정확하고 풍부한 정보를 찾아 답변해주세요. 특히 만화 관련 리뷰나 영상(YouTube)이 있다면 해당 정보도 함께 찾아서 소개해 주세요. 답변은 한국어로 친절하게 작성해주세요."

	newsPromptTemplate = `You are a news aggregator. Search for the latest, major news and events related to popular webtoons, manhwa, and anime in Korea for today (%s).
Strictly return ONLY a JSON array of 5 summary items. Do not include any conversational text, markdown formatting, or code blocks.
Format: [ { "title": "...", "date": "...", "description": "...", "link": "..." } ].
For the link, provide a source URL if found, otherwise empty string.`

	agentRole = "Comic Expert"
)

// Generator is the generative model behind the assistant
type Generator interface {
	Configured() bool
	GenerateImage(ctx context.Context, prompt string, images ...gemini.Image) (*gemini.Image, error)
	Search(ctx context.Context, req gemini.SearchRequest) (*gemini.Answer, error)
}

// Service runs the assistant features
type Service struct {
	model    Generator
	cache    NewsCache // nil disables caching
	cacheTTL time.Duration
	now      func() time.Time
}

// NewService creates assistant service
func NewService(model Generator, cache NewsCache, cacheTTL time.Duration) *Service {
	return &Service{
		model:    model,
		cache:    cache,
		cacheTTL: cacheTTL,
		now:      time.Now,
	}
}

// MakePhoto merges the people of two photos into one generated image
func (s *Service) MakePhoto(ctx context.Context, image1, image2 []byte) (*MergedPhoto, error) {
	if len(image1) == 0 || len(image2) == 0 {
		return nil, ErrImagesRequired
	}
	if !s.model.Configured() {
		return nil, gemini.ErrNotConfigured
	}

	img, err := s.model.GenerateImage(ctx, mergePrompt,
		gemini.Image{Data: image1, MIMEType: sniffImageType(image1)},
		gemini.Image{Data: image2, MIMEType: sniffImageType(image2)},
	)
	if err != nil {
		return nil, err
	}

	mimeType := img.MIMEType
	if mimeType == "" {
		mimeType = sniffImageType(img.Data)
	}
	return &MergedPhoto{
		Image:    base64.StdEncoding.EncodeToString(img.Data),
		MIMEType: mimeType,
	}, nil
}

// SearchInfo answers a question as a comic expert, grounded on web search
func (s *Service) SearchInfo(ctx context.Context, query string) (*SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrQueryRequired
	}
	if !s.model.Configured() {
		return nil, gemini.ErrNotConfigured
	}

	answer, err := s.model.Search(ctx, gemini.SearchRequest{
		SystemInstruction: expertInstruction,
		Prompt:            query,
	})
	if err != nil {
		return nil, err
	}

	result := &SearchResult{
		Text:      answer.Text,
		AgentRole: agentRole,
		Sources:   make([]SourceRef, 0, len(answer.Sources)),
	}
	for _, src := range answer.Sources {
		result.Sources = append(result.Sources, SourceRef{
			Title: src.Title,
			URL:   src.URL,
			Type:  sourceType(src.URL),
		})
	}
	return result, nil
}

// News returns today's digest, from the cache when present
func (s *Service) News(ctx context.Context) ([]NewsItem, error) {
	if !s.model.Configured() {
		return nil, gemini.ErrNotConfigured
	}

	day := s.now().Format("2006-01-02")

	if s.cache != nil {
		items, ok, err := s.cache.Get(ctx, day)
		if err != nil {
			logger.LogWarn(ctx, "news cache read failed", "day", day, "error", err.Error())
		} else if ok {
			return items, nil
		}
	}

	answer, err := s.model.Search(ctx, gemini.SearchRequest{
		Prompt: fmt.Sprintf(newsPromptTemplate, day),
		JSON:   true,
	})
	if err != nil {
		return nil, err
	}

	items, err := parseNews(answer.Text)
	if err != nil {
		logger.LogWarn(ctx, "news response is not a JSON array", "error", err.Error())
		return []NewsItem{}, nil
	}

	if s.cache != nil && len(items) > 0 {
		if err := s.cache.Set(ctx, day, items, s.cacheTTL); err != nil {
			logger.LogWarn(ctx, "news cache write failed", "day", day, "error", err.Error())
		}
	}
	return items, nil
}

// parseNews decodes the model output, tolerating a markdown code fence
func parseNews(text string) ([]NewsItem, error) {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)

	items := []NewsItem{}
	if err := json.Unmarshal([]byte(text), &items); err != nil {
		return nil, err
	}
	return items, nil
}

func sourceType(url string) string {
	if strings.Contains(url, "youtube.com") || strings.Contains(url, "youtu.be") {
		return SourceYouTube
	}
	return SourceWeb
}

func sniffImageType(data []byte) string {
	mimeType := http.DetectContentType(data)
	if i := strings.Index(mimeType, ";"); i >= 0 {
		mimeType = mimeType[:i]
	}
	if !strings.HasPrefix(mimeType, "image/") {
		return "image/jpeg"
	}
	return mimeType
}
