package engine

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"text/template"

	"github.com/google/generative-ai-go/genai"
	"github.com/tatianab/matchmaker/internal/models"
	"google.golang.org/api/option"
	"gopkg.in/yaml.v3"
)

//go:embed prompts/describe_character.txt
var describeCharacterPrompt string

//go:embed prompts/tell_story.txt
var tellStoryPrompt string

var (
	describeCharacterTmpl = template.Must(template.New("describe_character").Parse(describeCharacterPrompt))
	tellStoryTmpl         = template.Must(template.New("tell_story").Parse(tellStoryPrompt))
)

// ErrNoContent is returned when Gemini answers without any text.
var ErrNoContent = errors.New("no content returned from Gemini")

// contentGenerator is the part of *genai.GenerativeModel the engine uses.
type contentGenerator interface {
	GenerateContent(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
}

// Engine writes character flavor text and marriage stories with Gemini.
type Engine struct {
	client *genai.Client
	model  contentGenerator
	logger *slog.Logger
}

func NewEngine(ctx context.Context, apiKey, modelName string, logger *slog.Logger) (*Engine, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create Gemini client: %w", err)
	}

	model := client.GenerativeModel(modelName)
	model.SetTemperature(1.0)

	e := newEngine(model, logger)
	e.client = client
	return e, nil
}

func newEngine(model contentGenerator, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		model:  model,
		logger: logger.With("component", "engine"),
	}
}

func (e *Engine) Close() error {
	if e.client == nil {
		return nil
	}
	return e.client.Close()
}

// DescribeCharacter asks Gemini for the narrative of npc. The traits of npc
// are only used as prompt input; fields Gemini leaves out come back empty.
func (e *Engine) DescribeCharacter(ctx context.Context, npc models.NPC) (models.Narrative, error) {
	prompt, err := render(describeCharacterTmpl, npc)
	if err != nil {
		return models.Narrative{}, err
	}

	text, err := e.generate(ctx, "describe_character", prompt)
	if err != nil {
		return models.Narrative{}, err
	}

	return parseNarrative(text)
}

// TellStory asks Gemini how the marriage of a and b went.
func (e *Engine) TellStory(ctx context.Context, a, b models.NPC, outcome models.Outcome) (string, error) {
	prompt, err := render(tellStoryTmpl, struct {
		First, Second models.NPC
		Outcome       models.Outcome
	}{a, b, outcome})
	if err != nil {
		return "", err
	}

	text, err := e.generate(ctx, "tell_story", prompt)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

func (e *Engine) generate(ctx context.Context, request, prompt string) (string, error) {
	e.logger.Debug("sending request", "request", request, "prompt_bytes", len(prompt))

	resp, err := e.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("%s: %w", request, err)
	}

	text, err := responseText(resp)
	if err != nil {
		return "", fmt.Errorf("%s: %w", request, err)
	}
	e.logger.Debug("received response", "request", request, "response_bytes", len(text))
	return text, nil
}

func render(tmpl *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render %s prompt: %w", tmpl.Name(), err)
	}
	return buf.String(), nil
}

func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", ErrNoContent
	}
	content := resp.Candidates[0].Content
	if content == nil {
		return "", ErrNoContent
	}

	var sb strings.Builder
	for _, part := range content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	if strings.TrimSpace(sb.String()) == "" {
		return "", ErrNoContent
	}
	return sb.String(), nil
}

func parseNarrative(text string) (models.Narrative, error) {
	cleanYAML := strings.TrimSpace(text)
	cleanYAML = strings.TrimPrefix(cleanYAML, "```yaml")
	cleanYAML = strings.TrimPrefix(cleanYAML, "```")
	cleanYAML = strings.TrimSuffix(cleanYAML, "```")

	var n models.Narrative
	if err := yaml.Unmarshal([]byte(cleanYAML), &n); err != nil {
		return models.Narrative{}, fmt.Errorf("failed to parse YAML: %v\nOutput was: %s", err, cleanYAML)
	}
	return n, nil
}
