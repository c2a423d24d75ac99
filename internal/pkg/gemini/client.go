package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

var (
	// ErrNotConfigured is returned by every call when no API key is set
	ErrNotConfigured = errors.New("Server configuration error: Missing Gemini API Key")

	// ErrNoImage is returned when an image request yields no image part
	ErrNoImage = errors.New("No image generated from Gemini")
)

// Config holds Gemini settings
type Config struct {
	APIKey     string
	Model      string // text and grounded search
	ImageModel string // image generation
	BaseURL    string // overrides the API endpoint, empty for the default
}

// Client wraps the genai client with the calls the assistant makes
type Client struct {
	client     *genai.Client
	model      string
	imageModel string
}

// Image is an inline image sent to or returned by the model
type Image struct {
	Data     []byte
	MIMEType string
}

// Source is a web page the model grounded its answer on
type Source struct {
	Title string
	URL   string
}

// Answer is a grounded text answer
type Answer struct {
	Text    string
	Sources []Source
}

// SearchRequest is a grounded generation request
type SearchRequest struct {
	SystemInstruction string
	Prompt            string
	JSON              bool // ask for application/json output
}

// New creates a client. Without an API key the client is created but every
// call fails with ErrNotConfigured.
func New(ctx context.Context, cfg Config) (*Client, error) {
	c := &Client{
		model:      cfg.Model,
		imageModel: cfg.ImageModel,
	}
	if c.model == "" {
		c.model = "gemini-2.0-flash-exp"
	}
	if c.imageModel == "" {
		c.imageModel = c.model
	}

	if cfg.APIKey == "" {
		return c, nil
	}

	cc := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		cc.HTTPOptions.BaseURL = cfg.BaseURL
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	c.client = client
	return c, nil
}

// Configured reports whether an API key was provided
func (c *Client) Configured() bool {
	return c != nil && c.client != nil
}

// GenerateImage sends the images followed by the prompt and returns the first
// image part of the response.
func (c *Client) GenerateImage(ctx context.Context, prompt string, images ...Image) (*Image, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}

	parts := make([]*genai.Part, 0, len(images)+1)
	for _, img := range images {
		parts = append(parts, genai.NewPartFromBytes(img.Data, img.MIMEType))
	}
	parts = append(parts, genai.NewPartFromText(prompt))

	resp, err := c.client.Models.GenerateContent(ctx, c.imageModel,
		[]*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)},
		&genai.GenerateContentConfig{
			ResponseModalities: []string{"TEXT", "IMAGE"},
		},
	)
	if err != nil {
		return nil, fmt.Errorf("GenAI generate image failed: %w", err)
	}

	for _, cand := range resp.Candidates {
		if cand == nil || cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if part != nil && part.InlineData != nil && len(part.InlineData.Data) > 0 {
				return &Image{Data: part.InlineData.Data, MIMEType: part.InlineData.MIMEType}, nil
			}
		}
	}
	return nil, ErrNoImage
}

// Search runs a Google Search grounded generation
func (c *Client) Search(ctx context.Context, req SearchRequest) (*Answer, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}

	config := &genai.GenerateContentConfig{
		Tools: []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}},
	}
	if req.SystemInstruction != "" {
		config.SystemInstruction = genai.NewContentFromText(req.SystemInstruction, genai.RoleUser)
	}
	if req.JSON {
		config.ResponseMIMEType = "application/json"
	}

	resp, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(req.Prompt), config)
	if err != nil {
		return nil, fmt.Errorf("GenAI grounded search failed: %w", err)
	}

	answer := &Answer{Text: resp.Text(), Sources: []Source{}}
	if len(resp.Candidates) > 0 && resp.Candidates[0] != nil && resp.Candidates[0].GroundingMetadata != nil {
		for _, chunk := range resp.Candidates[0].GroundingMetadata.GroundingChunks {
			if chunk == nil || chunk.Web == nil {
				continue
			}
			answer.Sources = append(answer.Sources, Source{
				Title: chunk.Web.Title,
				URL:   strings.TrimSpace(chunk.Web.URI),
			})
		}
	}
	return answer, nil
}
