package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"salesdeck/config"
	"salesdeck/export"
)

// LLMService produces slide copy through an OpenAI-compatible
// chat-completions endpoint.
type LLMService struct {
	APIKey    string
	BaseURL   string
	ModelName string
	MaxTokens int

	client *http.Client
}

func NewLLMService(cfg config.Config) *LLMService {
	return &LLMService{
		APIKey:    cfg.APIKey,
		BaseURL:   cfg.LLMBaseURL,
		ModelName: cfg.ModelName,
		MaxTokens: cfg.MaxTokens,
		client:    &http.Client{Timeout: 30 * time.Second},
	}
}

// llmRetries is the number of re-attempts after a failed call. Retrying is
// a transport concern; the parsing logic never retries.
const llmRetries = 2

const slideSystemPrompt = "You are a professional sales presentation expert. Generate compelling, professional sales deck content."

// slidePrompt builds the fixed instructional prompt asking for exactly
// 8 slides as a JSON object.
func slidePrompt(req DeckRequest) string {
	return fmt.Sprintf(`Create a professional sales deck for %s targeting %s in the %s industry.

Key context:
- Main pain point: %s
- Use case: %s

Generate content for exactly 8 slides in JSON format. Each slide should have a "title" and "content" field.
The content should be concise bullet points (3-5 points per slide).

Slides needed:
1. Title slide - Company introduction
2. Problem - Focus on the main pain point
3. Solution - How we solve the problem
4. Product Overview - Key features and benefits
5. Use Case - Specific application for this client
6. Case Study - Success story (can be hypothetical but realistic)
7. Pricing - Value proposition and next steps
8. Call to Action - Clear next steps

Return only valid JSON in this format:
{
    "slides": [
        {"title": "Slide Title", "content": ["Bullet point 1", "Bullet point 2", "Bullet point 3"]},
        ...
    ]
}`, req.CompanyName, req.BuyerPersona, req.Industry, req.MainPainPoint, req.UseCase)
}

// GenerateSlides asks the model for deck copy and parses the reply. The
// caller substitutes the static fallback template on error; this method
// never falls back on its own.
func (s *LLMService) GenerateSlides(ctx context.Context, req DeckRequest) ([]export.Slide, error) {
	content, err := s.chatCompletion(ctx, slidePrompt(req))
	if err != nil {
		return nil, err
	}
	return parseSlideContent(content)
}

func (s *LLMService) endpointURL() string {
	url := "https://api.openai.com/v1/chat/completions"
	if s.BaseURL != "" {
		url = s.BaseURL
		// A common pattern is that users provide just the base, e.g.
		// http://localhost:11434, so append the OpenAI path.
		if !strings.Contains(url, "/v1/chat/completions") && !strings.Contains(url, "/chat/completions") {
			if url[len(url)-1] == '/' {
				url += "v1/chat/completions"
			} else {
				url += "/v1/chat/completions"
			}
		}
	}
	return url
}

func (s *LLMService) chatCompletion(ctx context.Context, prompt string) (string, error) {
	body := map[string]interface{}{
		"model": s.ModelName,
		"messages": []map[string]string{
			{"role": "system", "content": slideSystemPrompt},
			{"role": "user", "content": prompt},
		},
		"max_tokens":  s.MaxTokens,
		"temperature": 0.7,
	}
	jsonBody, _ := json.Marshal(body)

	var lastErr error
	for attempt := 0; attempt <= llmRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, "POST", s.endpointURL(), bytes.NewBuffer(jsonBody))
		if err != nil {
			return "", err
		}
		req.Header.Set("Content-Type", "application/json")
		if s.APIKey != "" {
			req.Header.Set("Authorization", "Bearer "+s.APIKey)
		}

		resp, err := s.client.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		respBody, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = err
			continue
		}

		if resp.StatusCode >= 500 {
			lastErr = fmt.Errorf("OpenAI-compatible API error (%d): %s", resp.StatusCode, string(respBody))
			continue
		}
		if resp.StatusCode != http.StatusOK {
			// Client-side errors (bad key, bad request) will not improve on retry.
			return "", fmt.Errorf("OpenAI-compatible API error (%d): %s", resp.StatusCode, string(respBody))
		}

		var result struct {
			Choices []struct {
				Message struct {
					Content string `json:"content"`
				} `json:"message"`
			} `json:"choices"`
		}
		if err := json.Unmarshal(respBody, &result); err != nil {
			return "", err
		}
		if len(result.Choices) == 0 {
			return "", fmt.Errorf("no response from OpenAI-compatible API")
		}
		return strings.TrimSpace(result.Choices[0].Message.Content), nil
	}

	return "", lastErr
}

// parseSlideContent decodes the model reply. A strict decode is attempted
// first; if the model wrapped the JSON in prose, the outermost {...}
// substring is extracted and decoded instead.
func parseSlideContent(content string) ([]export.Slide, error) {
	var payload struct {
		Slides []export.Slide `json:"slides"`
	}

	if err := json.Unmarshal([]byte(content), &payload); err != nil {
		start := strings.Index(content, "{")
		end := strings.LastIndex(content, "}")
		if start == -1 || end <= start {
			return nil, fmt.Errorf("could not parse JSON from model response")
		}
		if err := json.Unmarshal([]byte(content[start:end+1]), &payload); err != nil {
			return nil, fmt.Errorf("could not parse JSON from model response")
		}
	}

	if len(payload.Slides) == 0 {
		return nil, fmt.Errorf("model response contained no slides")
	}
	return payload.Slides, nil
}
