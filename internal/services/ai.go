package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// journalEntryHeader separates the system instruction from the user's entry.
const journalEntryHeader = "\n\nUser's journal entry:\n"

// ErrGeneratorDisabled is returned by the generator used when no API key is configured.
var ErrGeneratorDisabled = errors.New("ai generator is not configured")

// Generator produces text for a single prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// GeminiGenerator calls the Gemini API through the genai SDK.
type GeminiGenerator struct {
	client *genai.Client
	model  string
}

func NewGeminiGenerator(ctx context.Context, apiKey, model string) (*GeminiGenerator, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return &GeminiGenerator{client: client, model: model}, nil
}

func (g *GeminiGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), nil)
	if err != nil {
		return "", err
	}
	return resp.Text(), nil
}

type disabledGenerator struct{}

// DisabledGenerator always fails; the AI endpoints then answer with the fallback message.
func DisabledGenerator() Generator { return disabledGenerator{} }

func (disabledGenerator) Generate(context.Context, string) (string, error) {
	return "", ErrGeneratorDisabled
}

// AIService relays journal text and chat messages to the generator.
type AIService struct {
	gen          Generator
	systemPrompt string
	fallback     string
}

func NewAIService(gen Generator, systemPrompt, fallback string) *AIService {
	return &AIService{gen: gen, systemPrompt: systemPrompt, fallback: fallback}
}

// Fallback is the message relayed when the generator fails or returns nothing.
func (s *AIService) Fallback() string {
	return s.fallback
}

// Analyze sends a journal entry with the system instruction. On an upstream
// failure it returns the fallback message together with an ErrService error.
func (s *AIService) Analyze(ctx context.Context, text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", validationError("Text is required")
	}
	return s.generate(ctx, s.systemPrompt+journalEntryHeader+text)
}

// Chat relays a single message without any instruction or conversation state.
func (s *AIService) Chat(ctx context.Context, message string) (string, error) {
	if strings.TrimSpace(message) == "" {
		return "", validationError("Message is required")
	}
	return s.generate(ctx, message)
}

func (s *AIService) generate(ctx context.Context, prompt string) (string, error) {
	reply, err := s.gen.Generate(ctx, prompt)
	if err != nil {
		return s.fallback, serviceError("generate", err)
	}
	if strings.TrimSpace(reply) == "" {
		return s.fallback, fmt.Errorf("%w: empty response", ErrService)
	}
	return reply, nil
}
