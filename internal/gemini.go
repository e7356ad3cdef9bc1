package internal

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"google.golang.org/genai"
)

// Supported Gemini models. DefaultModel is used when neither the request
// nor the config names one.
const DefaultModel = "gemini-1.5-flash"

var supportedModels = []string{
	"gemini-1.5-flash",
	"gemini-1.5-pro",
	"gemini-2.0-flash",
	"gemini-2.5-flash",
}

// ErrProvider marks a generation call that could not be completed.
// There is no retry policy: agents recover by falling back to canned content.
var ErrProvider = errors.New("generation provider error")

// ResponseFormat selects how the model is asked to shape its reply.
type ResponseFormat int

const (
	FormatText ResponseFormat = iota
	FormatJSON
)

// GenerationRequest describes a single generation call. Model is explicit
// per request so call behavior is a pure function of its inputs; an empty
// Model falls back to the client's config-derived default.
type GenerationRequest struct {
	Prompt       string
	SystemPrompt string
	Format       ResponseFormat
	Temperature  float64
	MaxTokens    int
	Model        string
}

// GenerationResponse is the raw reply. FormatCleaned reports that code-fence
// markers were stripped from a JSON-formatted reply; the text may still be
// malformed JSON and callers must parse it themselves.
type GenerationResponse struct {
	Text          string
	FormatCleaned bool
}

// GeminiClientInterface defines the provider operations, replaceable in tests.
type GeminiClientInterface interface {
	GenerateContent(ctx context.Context, model, prompt string, temperature float64, maxTokens int) (string, error)
}

// GeminiClient wraps the official Google GenAI SDK
type GeminiClient struct {
	client *genai.Client
}

// NewGeminiClient creates a new Gemini API client
func NewGeminiClient(ctx context.Context, apiKey string) (*GeminiClient, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		Backend: genai.BackendGeminiAPI,
		APIKey:  apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}
	return &GeminiClient{client: client}, nil
}

// GenerateContent issues one generation call against the named model
func (c *GeminiClient) GenerateContent(ctx context.Context, model, prompt string, temperature float64, maxTokens int) (string, error) {
	temp := float32(temperature)
	config := &genai.GenerateContentConfig{
		Temperature: &temp,
	}
	if maxTokens > 0 {
		config.MaxOutputTokens = int32(maxTokens)
	}

	contents := []*genai.Content{genai.NewContentFromText(prompt, genai.RoleUser)}
	resp, err := c.client.Models.GenerateContent(ctx, model, contents, config)
	if err != nil {
		return "", err
	}

	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("empty response from model %s", model)
	}
	return text, nil
}

// TextGenerator is the shared facade over the generation provider. The
// default model is fixed at construction; per-call overrides travel inside
// the GenerationRequest, so the generator carries no mutable state.
type TextGenerator struct {
	client       GeminiClientInterface
	defaultModel string
	timeout      time.Duration
	apiKey       string
	clientOnce   sync.Once
	clientErr    error
}

// NewTextGenerator creates a generator with an injected client
func NewTextGenerator(client GeminiClientInterface, defaultModel string, timeout time.Duration) *TextGenerator {
	return &TextGenerator{
		client:       client,
		defaultModel: defaultModel,
		timeout:      timeout,
	}
}

// NewTextGeneratorWithKey creates a generator with lazy client initialization
func NewTextGeneratorWithKey(apiKey, defaultModel string, timeout time.Duration) *TextGenerator {
	return &TextGenerator{
		defaultModel: defaultModel,
		timeout:      timeout,
		apiKey:       apiKey,
	}
}

// ensureClient initializes the Gemini client if needed
func (g *TextGenerator) ensureClient(ctx context.Context) error {
	if g.client != nil {
		return nil
	}

	if err := ValidateAPIKey(g.apiKey); err != nil {
		return err
	}

	g.clientOnce.Do(func() {
		client, err := NewGeminiClient(ctx, g.apiKey)
		if err != nil {
			g.clientErr = err
			return
		}
		g.client = client
	})
	if g.clientErr != nil {
		return g.clientErr
	}

	return nil
}

// DefaultModel returns the config-derived model used for requests that
// don't name one.
func (g *TextGenerator) DefaultModel() string {
	return g.defaultModel
}

// Generate issues a single generation call. No retries: a transport failure
// surfaces as ErrProvider and the caller degrades.
func (g *TextGenerator) Generate(ctx context.Context, req GenerationRequest) (*GenerationResponse, error) {
	if err := g.ensureClient(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProvider, err)
	}

	model := req.Model
	if model == "" {
		model = g.defaultModel
	}
	if err := ValidateModel(model); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProvider, err)
	}

	prompt := req.Prompt
	if req.Format == FormatJSON {
		prompt += jsonFormatInstruction
	}

	// Single-call framing rather than a multi-turn conversation.
	if req.SystemPrompt != "" {
		prompt = fmt.Sprintf("System: %s\n\nUser: %s", req.SystemPrompt, prompt)
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	text, err := g.client.GenerateContent(ctx, model, prompt, req.Temperature, req.MaxTokens)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProvider, err)
	}

	if req.Format == FormatJSON {
		cleaned, stripped := CleanJSONFences(text)
		return &GenerationResponse{Text: cleaned, FormatCleaned: stripped}, nil
	}

	return &GenerationResponse{Text: strings.TrimSpace(text)}, nil
}

// jsonFormatInstruction is appended to every JSON-format prompt. Models still
// fence their replies often enough that CleanJSONFences stays necessary.
const jsonFormatInstruction = "\n\nFormat your entire response as a valid JSON object without any" +
	" markdown formatting or code blocks. Do not include ```json or ``` tags."

// CleanJSONFences strips markdown code-fence markers and an optional language
// tag from a reply. This is textual cleanup only, not JSON validation.
func CleanJSONFences(s string) (string, bool) {
	trimmed := strings.TrimSpace(s)
	if !strings.Contains(trimmed, "```") {
		return trimmed, false
	}

	parts := strings.Split(trimmed, "```")
	var inner string
	if len(parts) >= 3 {
		// Content of the first fenced block.
		inner = parts[1]
	} else {
		// Lone opening or closing fence; keep whatever follows it.
		inner = parts[len(parts)-1]
	}

	inner = strings.TrimSpace(inner)
	inner = strings.TrimPrefix(inner, "json")
	return strings.TrimSpace(inner), true
}

// ValidateModel checks if the model is supported
func ValidateModel(model string) error {
	if slices.Contains(supportedModels, model) {
		return nil
	}
	return fmt.Errorf("unsupported model: %s (supported: %s)", model, strings.Join(supportedModels, ", "))
}

// ValidateAPIKey checks if the Gemini API key is set and returns a standardized error if not
func ValidateAPIKey(apiKey string) error {
	if apiKey == "" {
		return fmt.Errorf("Gemini API key is required - set it in config.toml or GEMINI_API_KEY environment variable")
	}
	return nil
}
