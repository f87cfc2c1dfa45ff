package enhance

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/pkg/errors"
	openai "github.com/sashabaranov/go-openai"
	"github.com/sirupsen/logrus"

	"github.com/handiism/social-transcriber/internal/config"
	transport "github.com/handiism/social-transcriber/internal/http"
)

const temperature = 0.2

var (
	// ErrNoAPIKey is returned when enhancement is requested without an API
	// key.
	ErrNoAPIKey = errors.New("LLM API key is not configured")

	// ErrEmptyTranscript is returned for transcripts with no text.
	ErrEmptyTranscript = errors.New("transcript is empty")

	// ErrNoChoices is returned when the API answers without a completion.
	ErrNoChoices = errors.New("LLM response contained no choices")
)

// Enhancer formats raw transcripts into MDX documents through an
// OpenAI-compatible chat completion API (OpenRouter by default).
type Enhancer struct {
	client *openai.Client
	model  string
}

// New creates an Enhancer from settings. doer may be nil, in which case the
// tool's default HTTP client is used.
func New(settings *config.Settings, doer openai.HTTPDoer) (*Enhancer, error) {
	if settings.LLMAPIKey == "" {
		return nil, ErrNoAPIKey
	}
	if doer == nil {
		doer = transport.NewClient()
	}

	cfg := openai.DefaultConfig(settings.LLMAPIKey)
	cfg.BaseURL = BaseURL(settings.LLMAPIURL)
	cfg.HTTPClient = doer

	return &Enhancer{
		client: openai.NewClientWithConfig(cfg),
		model:  settings.LLMModel,
	}, nil
}

// BaseURL turns a configured endpoint into an API base URL. Both
// "https://openrouter.ai/api/v1" and the full
// "https://openrouter.ai/api/v1/chat/completions" are accepted.
func BaseURL(apiURL string) string {
	apiURL = strings.TrimRight(strings.TrimSpace(apiURL), "/")
	return strings.TrimSuffix(apiURL, "/chat/completions")
}

// Enhance sends the raw transcript with its title to the model and returns
// the cleaned MDX document.
func (e *Enhancer) Enhance(ctx context.Context, title, raw string) (string, error) {
	if strings.TrimSpace(raw) == "" {
		return "", ErrEmptyTranscript
	}

	log := logrus.WithFields(logrus.Fields{
		"model": e.model,
		"title": title,
		"chars": len(raw),
	})
	log.Debug("Sending transcript for enhancement")

	resp, err := e.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       e.model,
		Temperature: temperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userMessage(title, raw)},
		},
	})
	if err != nil {
		return "", errors.Wrap(err, "LLM request failed")
	}
	if len(resp.Choices) == 0 {
		return "", ErrNoChoices
	}

	text := CleanMDX(resp.Choices[0].Message.Content)
	if text == "" {
		return "", errors.Wrap(ErrNoChoices, "completion was empty")
	}
	if text == strings.TrimSpace(raw) {
		log.Warn("LLM returned the transcript unchanged")
	}
	log.WithField("enhanced_chars", len(text)).Debug("Transcript enhanced")
	return text, nil
}

func userMessage(title, raw string) string {
	return fmt.Sprintf("<TITLE>%s</TITLE>\n<TRANSCRIPT>\n%s\n</TRANSCRIPT>", title, strings.TrimSpace(raw))
}

var (
	fenceOpen  = regexp.MustCompile("(?m)^\\s*```(?:mdx|yaml)?\\s*")
	fenceClose = regexp.MustCompile("(?m)^\\s*```\\s*")
)

// CleanMDX strips chatter before the frontmatter and any code fences
// around the document.
func CleanMDX(text string) string {
	start := strings.Index(text, "---")
	if start == -1 {
		return strings.TrimSpace(text)
	}
	text = text[start:]
	text = fenceOpen.ReplaceAllString(text, "")
	text = fenceClose.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}
