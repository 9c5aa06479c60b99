package main

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"testing/quick"
	"time"

	"salesdeck/config"
	"salesdeck/export"
)

func testDeckRequest() DeckRequest {
	return DeckRequest{
		CompanyName:   "Acme",
		Industry:      "Logistics",
		BuyerPersona:  "VP of Operations",
		MainPainPoint: "Manual routing wastes hours",
		UseCase:       "Automated fleet scheduling",
	}
}

func slidesJSON(n int) string {
	var payload struct {
		Slides []export.Slide `json:"slides"`
	}
	for i := 1; i <= n; i++ {
		payload.Slides = append(payload.Slides, export.Slide{
			Title:   fmt.Sprintf("Slide %d", i),
			Content: []string{"Point one", "Point two", "Point three"},
		})
	}
	raw, _ := json.Marshal(payload)
	return string(raw)
}

func TestParseSlideContentStrict(t *testing.T) {
	slides, err := parseSlideContent(slidesJSON(8))
	if err != nil {
		t.Fatalf("strict parse failed: %v", err)
	}
	if len(slides) != 8 {
		t.Errorf("expected 8 slides, got %d", len(slides))
	}
	if slides[0].Title != "Slide 1" || len(slides[0].Content) != 3 {
		t.Errorf("unexpected first slide: %+v", slides[0])
	}
}

func TestParseSlideContentEmbedded(t *testing.T) {
	content := "Sure! Here is your deck:\n" + slidesJSON(8) + "\nHope this helps."
	slides, err := parseSlideContent(content)
	if err != nil {
		t.Fatalf("embedded parse failed: %v", err)
	}
	if len(slides) != 8 {
		t.Errorf("expected 8 slides, got %d", len(slides))
	}
}

func TestParseSlideContentGarbage(t *testing.T) {
	if _, err := parseSlideContent("I cannot produce slides today."); err == nil {
		t.Error("expected an error for a reply with no JSON object")
	}
	if _, err := parseSlideContent(`{"slides": []}`); err == nil {
		t.Error("expected an error for an empty slide list")
	}
}

func TestFallbackSlidesShape(t *testing.T) {
	req := testDeckRequest()
	slides := fallbackSlides(req)

	if len(slides) != 8 {
		t.Fatalf("fallback must produce exactly 8 slides, got %d", len(slides))
	}
	if !strings.Contains(slides[0].Title, req.CompanyName) {
		t.Errorf("first slide title %q should contain the company name", slides[0].Title)
	}
	if slides[1].Content[0] != req.MainPainPoint {
		t.Errorf("problem slide should carry the pain point, got %q", slides[1].Content[0])
	}
	if slides[4].Content[0] != req.UseCase {
		t.Errorf("use-case slide should carry the use case, got %q", slides[4].Content[0])
	}
}

// Property: the fallback template always yields 8 well-formed slides, for
// any input strings whatsoever.
func TestPropertyFallbackAlwaysComplete(t *testing.T) {
	cfg := &quick.Config{
		MaxCount: 100,
		Rand:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}

	f := func(company, industry, persona, pain, useCase string) bool {
		slides := fallbackSlides(DeckRequest{
			CompanyName:   company,
			Industry:      industry,
			BuyerPersona:  persona,
			MainPainPoint: pain,
			UseCase:       useCase,
		})
		if len(slides) != 8 {
			return false
		}
		for _, s := range slides {
			if s.Title == "" || len(s.Content) == 0 {
				return false
			}
		}
		return true
	}
	if err := quick.Check(f, cfg); err != nil {
		t.Error(err)
	}
}

func newTestLLM(baseURL string) *LLMService {
	return NewLLMService(config.Config{
		APIKey:     "test-key",
		LLMBaseURL: baseURL,
		ModelName:  "gpt-4o-mini",
		MaxTokens:  2000,
	})
}

func completionBody(content string) string {
	resp := map[string]interface{}{
		"choices": []map[string]interface{}{
			{"message": map[string]string{"content": content}},
		},
	}
	raw, _ := json.Marshal(resp)
	return string(raw)
}

func TestGenerateSlidesSuccess(t *testing.T) {
	var gotAuth, gotPrompt string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		var body struct {
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		json.NewDecoder(r.Body).Decode(&body)
		if len(body.Messages) == 2 {
			gotPrompt = body.Messages[1].Content
		}
		fmt.Fprint(w, completionBody(slidesJSON(8)))
	}))
	defer ts.Close()

	slides, err := newTestLLM(ts.URL).GenerateSlides(context.Background(), testDeckRequest())
	if err != nil {
		t.Fatalf("GenerateSlides failed: %v", err)
	}
	if len(slides) != 8 {
		t.Errorf("expected 8 slides, got %d", len(slides))
	}
	if gotAuth != "Bearer test-key" {
		t.Errorf("unexpected Authorization header %q", gotAuth)
	}
	if !strings.Contains(gotPrompt, "Acme") || !strings.Contains(gotPrompt, "exactly 8 slides") {
		t.Error("prompt should name the company and demand 8 slides")
	}
}

func TestGenerateSlidesRetriesOnServerError(t *testing.T) {
	calls := 0
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		http.Error(w, "upstream blew up", http.StatusBadGateway)
	}))
	defer ts.Close()

	if _, err := newTestLLM(ts.URL).GenerateSlides(context.Background(), testDeckRequest()); err == nil {
		t.Fatal("expected an error after exhausting retries")
	}
	if calls != llmRetries+1 {
		t.Errorf("expected %d attempts, got %d", llmRetries+1, calls)
	}
}

func TestGenerateSlidesNoRetryOnClientError(t *testing.T) {
	calls := 0
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		http.Error(w, "bad api key", http.StatusUnauthorized)
	}))
	defer ts.Close()

	if _, err := newTestLLM(ts.URL).GenerateSlides(context.Background(), testDeckRequest()); err == nil {
		t.Fatal("expected an error for a 401 reply")
	}
	if calls != 1 {
		t.Errorf("client errors must not be retried, got %d attempts", calls)
	}
}

func TestEndpointURLNormalization(t *testing.T) {
	cases := []struct {
		base string
		want string
	}{
		{"", "https://api.openai.com/v1/chat/completions"},
		{"http://localhost:11434", "http://localhost:11434/v1/chat/completions"},
		{"http://localhost:11434/", "http://localhost:11434/v1/chat/completions"},
		{"https://proxy.example.com/v1/chat/completions", "https://proxy.example.com/v1/chat/completions"},
	}
	for _, c := range cases {
		svc := newTestLLM(c.base)
		if got := svc.endpointURL(); got != c.want {
			t.Errorf("endpointURL(%q) = %q, want %q", c.base, got, c.want)
		}
	}
}
