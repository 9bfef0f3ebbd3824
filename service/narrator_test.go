package service

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"
	"unicode/utf8"

	"realty-insights-backend/models"
)

func TestGeminiNarratorSkipsEmptyChart(t *testing.T) {
	n := NewGeminiNarrator(nil, "")
	called := false
	n.generate = func(ctx context.Context, prompt string) (string, error) {
		called = true
		return "", nil
	}

	text, err := n.Narrate(context.Background(), "Mumbai", models.NewEmptyResult("No known location found in your query."))
	if err != nil {
		t.Fatal(err)
	}
	if text != "" || called {
		t.Errorf("empty chart should not be narrated (text=%q, called=%v)", text, called)
	}
	if n.model != DefaultNarratorModel {
		t.Errorf("model = %q, want default", n.model)
	}
}

func TestGeminiNarratorPrompt(t *testing.T) {
	n := NewGeminiNarrator(nil, "gemini-pro")
	var prompt string
	n.generate = func(ctx context.Context, p string) (string, error) {
		prompt = p
		return "  Rates climbed.\n", nil
	}

	result := &models.AnalysisResult{
		Summary: "Analysis for Wakad.",
		Chart: &models.TrendChart{
			Years:  []string{"2020", "2021"},
			Values: models.Series{5000, math.NaN()},
			Metric: "flat - weighted average rate",
		},
	}

	text, err := n.Narrate(context.Background(), "Wakad price", result)
	if err != nil {
		t.Fatal(err)
	}
	if text != "Rates climbed." {
		t.Errorf("text = %q", text)
	}
	for _, want := range []string{"Question: Wakad price", "Summary: Analysis for Wakad.", `"values":[5000,null]`} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q:\n%s", want, prompt)
		}
	}
}

func TestGeminiNarratorWrapsErrors(t *testing.T) {
	n := NewGeminiNarrator(nil, "")
	n.generate = func(ctx context.Context, p string) (string, error) {
		return "", errors.New("quota exceeded")
	}

	result := &models.AnalysisResult{Summary: "s", Chart: &models.TrendChart{}}
	if _, err := n.Narrate(context.Background(), "q", result); !errors.Is(err, ErrNarrationFailed) {
		t.Errorf("err = %v, want ErrNarrationFailed", err)
	}
	if _, err := n.Narrate(context.Background(), "q", nil); !errors.Is(err, ErrNarrationFailed) {
		t.Errorf("nil result err = %v, want ErrNarrationFailed", err)
	}
}

func TestGeminiNarratorWithoutClient(t *testing.T) {
	n := NewGeminiNarrator(nil, "")
	result := &models.AnalysisResult{Summary: "s", Chart: &models.TrendChart{}}
	if _, err := n.Narrate(context.Background(), "q", result); !errors.Is(err, ErrNarrationFailed) {
		t.Errorf("err = %v, want ErrNarrationFailed", err)
	}
}

func TestBuildNarrationPromptTruncates(t *testing.T) {
	result := &models.AnalysisResult{Summary: strings.Repeat("x", maxPromptChars), Chart: models.EmptyChart{}}
	prompt, err := buildNarrationPrompt("q", result)
	if err != nil {
		t.Fatal(err)
	}
	if len(prompt) != maxPromptChars {
		t.Errorf("prompt length = %d, want %d", len(prompt), maxPromptChars)
	}
}

func TestBuildNarrationPromptTruncatesOnRuneBoundary(t *testing.T) {
	result := &models.AnalysisResult{Summary: strings.Repeat("é", maxPromptChars), Chart: models.EmptyChart{}}
	prompt, err := buildNarrationPrompt("q", result)
	if err != nil {
		t.Fatal(err)
	}
	if len(prompt) > maxPromptChars {
		t.Errorf("prompt length = %d, want at most %d", len(prompt), maxPromptChars)
	}
	if !utf8.ValidString(prompt) {
		t.Error("truncated prompt is not valid UTF-8")
	}
}
