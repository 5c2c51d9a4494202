// internal/generator/generator.go
package generator

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/unclebandit/outreach-assistant/internal/config"
	"github.com/unclebandit/outreach-assistant/internal/model"
)

const generationModel = "gemini-1.5-flash"

// Generator produces one personalized outreach message per lead with a
// single Gemini call. It never retries; the orchestrator decides what a
// failure means.
type Generator struct {
	client *genai.Client
	logger *zap.Logger
}

func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Generator, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: cfg.GeminiAPIKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	logger.Info("configured Gemini API client")

	return &Generator{client: client, logger: logger}, nil
}

// Generate makes one generation call for the lead and returns the
// trimmed text. An API error or an empty completion is returned as an
// error so the caller can mark the lead without aborting the batch.
func (g *Generator) Generate(ctx context.Context, lead model.Lead) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, generationModel, genai.Text(buildPrompt(lead)), nil)
	if err != nil {
		return "", fmt.Errorf("generation for %s failed: %w", lead.Name, err)
	}

	message := strings.TrimSpace(resp.Text())
	if message == "" {
		return "", fmt.Errorf("empty response from %s for %s", generationModel, lead.Name)
	}

	g.logger.Info("generated message", zap.String("name", lead.Name))
	return message, nil
}

func buildPrompt(lead model.Lead) string {
	return fmt.Sprintf(`You are an outreach assistant. Generate a friendly, professional WhatsApp or email message for a lead.

Lead Details:
- Name: %s
- Region: %s
- Interest: %s

Requirements:
1. Greet the lead by name.
2. Mention their interest and region naturally.
3. Keep it under 80 words.
4. End with a clear call to action.

Return ONLY the message.`, lead.Name, lead.Region, lead.Interest)
}

// TestGeneration runs a one-shot probe with a fixed sample lead. Used
// by the connection test mode; no lead status is touched.
func (g *Generator) TestGeneration(ctx context.Context) error {
	sample := model.Lead{
		Name:     "Test User",
		Region:   "Test Region",
		Interest: "Test Interest",
	}
	_, err := g.Generate(ctx, sample)
	return err
}
