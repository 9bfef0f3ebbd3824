package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"unicode/utf8"

	"realty-insights-backend/models"

	"github.com/google/generative-ai-go/genai"
)

// DefaultNarratorModel is used when no model is configured
const DefaultNarratorModel = "gemini-1.5-flash"

// maxPromptChars caps the prompt sent to the model
const maxPromptChars = 30000

var ErrNarrationFailed = errors.New("failed to generate narrative")

// GeminiNarrator writes a short market commentary for an analysis result
type GeminiNarrator struct {
	client      *genai.Client
	model       string
	temperature float32

	// generate is swapped out in tests
	generate func(ctx context.Context, prompt string) (string, error)
}

// NewGeminiNarrator creates a narrator backed by the Gemini client
func NewGeminiNarrator(client *genai.Client, model string) *GeminiNarrator {
	if model == "" {
		model = DefaultNarratorModel
	}
	n := &GeminiNarrator{
		client:      client,
		model:       model,
		temperature: 0.3,
	}
	n.generate = n.callModel
	return n
}

// Narrate describes the chart in a few plain sentences
func (n *GeminiNarrator) Narrate(ctx context.Context, query string, result *models.AnalysisResult) (string, error) {
	if result == nil {
		return "", fmt.Errorf("%w: no result", ErrNarrationFailed)
	}
	if _, empty := result.Chart.(models.EmptyChart); empty {
		return "", nil
	}

	prompt, err := buildNarrationPrompt(query, result)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNarrationFailed, err)
	}

	text, err := n.generate(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNarrationFailed, err)
	}
	return strings.TrimSpace(text), nil
}

func (n *GeminiNarrator) callModel(ctx context.Context, prompt string) (string, error) {
	if n.client == nil {
		return "", errors.New("gemini client not set")
	}

	model := n.client.GenerativeModel(n.model)
	model.SetTemperature(n.temperature)

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", err
	}
	if len(resp.Candidates) == 0 {
		return "", errors.New("API returned no candidates")
	}

	var out strings.Builder
	for i, candidate := range resp.Candidates {
		if candidate.Content == nil {
			log.Printf("Warning: Candidate %d has no content (finish reason: %v)", i, candidate.FinishReason)
			continue
		}
		for _, part := range candidate.Content.Parts {
			if text, ok := part.(genai.Text); ok {
				out.WriteString(string(text))
			}
		}
	}

	if out.Len() == 0 {
		return "", errors.New("API returned empty content")
	}
	return out.String(), nil
}

func buildNarrationPrompt(query string, result *models.AnalysisResult) (string, error) {
	chart, err := json.Marshal(result.Chart)
	if err != nil {
		return "", fmt.Errorf("marshal chart: %w", err)
	}

	var b strings.Builder
	b.WriteString("You are a real-estate market analyst. ")
	b.WriteString("Write 2-3 sentences describing the data below for a home buyer. ")
	b.WriteString("Only use the numbers given; do not invent figures. Null values mean no data for that year.\n\n")
	fmt.Fprintf(&b, "Question: %s\n", query)
	fmt.Fprintf(&b, "Summary: %s\n", result.Summary)
	fmt.Fprintf(&b, "Chart data (JSON): %s\n", chart)

	prompt := b.String()
	if len(prompt) > maxPromptChars {
		log.Printf("Warning: Prompt too long (%d chars), truncating to %d chars", len(prompt), maxPromptChars)
		cut := maxPromptChars
		for cut > 0 && !utf8.RuneStart(prompt[cut]) {
			cut--
		}
		prompt = prompt[:cut]
	}
	return prompt, nil
}
