package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/julianstephens/daypoints/internal/constants"
)

var (
	// ErrQuotaExhausted means the model account is out of credit.
	ErrQuotaExhausted = errors.New("model quota exhausted")
	// ErrRateLimited means the model rejected the call for rate.
	ErrRateLimited = errors.New("model rate limited")
)

// Reply is a generated answer.
type Reply struct {
	Text       string
	TokensUsed int
	Model      string
}

// Generator produces a reply for one user message.
type Generator interface {
	Generate(ctx context.Context, message string) (Reply, error)
	Model() string
}

const systemPrompt = `You are Pip, the daypoints companion: a friendly, clever cat.
- Be helpful and concise, with a warm and playful tone.
- Now and then use a cat emoji (🐱, 🐾, 😸).
- Encourage the user's habits and keep a positive, motivating attitude.
Answer naturally and let the cat personality show only lightly.`

// GenAIGenerator answers through the Gemini API.
type GenAIGenerator struct {
	client *genai.Client
	model  string
}

// NewGenAIGenerator builds a Gemini-backed generator.
func NewGenAIGenerator(ctx context.Context, apiKey, model string) (*GenAIGenerator, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("GenAI API key is required")
	}
	if model == "" {
		model = constants.DefaultGenAIModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	return &GenAIGenerator{client: client, model: model}, nil
}

func (g *GenAIGenerator) Model() string {
	return g.model
}

func (g *GenAIGenerator) Generate(ctx context.Context, message string) (Reply, error) {
	result, err := g.client.Models.GenerateContent(ctx,
		g.model,
		genai.Text(message),
		&genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText(systemPrompt, genai.RoleUser),
			MaxOutputTokens:   constants.ChatMaxOutputTokens,
			Temperature:       genai.Ptr[float32](constants.ChatTemperature),
		},
	)
	if err != nil {
		return Reply{}, classify(err)
	}

	text := strings.TrimSpace(result.Text())
	if text == "" {
		return Reply{}, fmt.Errorf("GenAI returned no text")
	}
	reply := Reply{Text: text, Model: g.model}
	if result.ModelVersion != "" {
		reply.Model = result.ModelVersion
	}
	if result.UsageMetadata != nil {
		reply.TokensUsed = int(result.UsageMetadata.TotalTokenCount)
	}
	return reply, nil
}

// classify tags API failures so the service can pick a fallback message.
func classify(err error) error {
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "quota"):
		return fmt.Errorf("%w: %v", ErrQuotaExhausted, err)
	case strings.Contains(msg, "429"), strings.Contains(msg, "rate limit"), strings.Contains(msg, "resource_exhausted"):
		return fmt.Errorf("%w: %v", ErrRateLimited, err)
	default:
		return fmt.Errorf("GenAI generate failed: %w", err)
	}
}
