package llm

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/jgoulah/energyadvisor/internal/logging"
)

const (
	// DefaultEndpoint is the Gemini API base URL
	DefaultEndpoint = "https://generativelanguage.googleapis.com/"

	// APIVersion is the generateContent API version requested from the endpoint
	APIVersion = "v1beta"

	// DefaultModel is used when no model is configured
	DefaultModel = "gemini-2.5-flash"

	// DefaultMaxOutputTokens leaves room for long multi-room analyses
	DefaultMaxOutputTokens = 60000

	// DefaultTimeout bounds one request; it stays below the HTTP server write timeout
	DefaultTimeout = 90 * time.Second

	// Temperature is the fixed sampling temperature for analyses
	Temperature = 0.7
)

// Options configures a Gemini gateway
type Options struct {
	APIKey          string
	Model           string
	Endpoint        string
	MaxOutputTokens int
	Timeout         time.Duration // zero means DefaultTimeout
	HTTPClient      *http.Client
}

// Gemini requests text completions from the Gemini generateContent API
type Gemini struct {
	client          *genai.Client
	apiKey          string
	model           string
	maxOutputTokens int
	timeout         time.Duration
	log             *slog.Logger
}

// NewGemini creates a gateway. An empty APIKey yields a disabled gateway.
func NewGemini(opts Options, logger *slog.Logger) *Gemini {
	if logger == nil {
		logger = logging.Discard()
	}
	if opts.Model == "" {
		opts.Model = DefaultModel
	}
	if opts.Endpoint == "" {
		opts.Endpoint = DefaultEndpoint
	}
	if opts.MaxOutputTokens <= 0 {
		opts.MaxOutputTokens = DefaultMaxOutputTokens
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}

	g := &Gemini{
		apiKey:          opts.APIKey,
		model:           opts.Model,
		maxOutputTokens: opts.MaxOutputTokens,
		timeout:         opts.Timeout,
		log:             logger.With("component", "gemini", "model", opts.Model),
	}
	if opts.APIKey == "" {
		return g
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:     opts.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: httpClient,
		HTTPOptions: genai.HTTPOptions{
			BaseURL:    opts.Endpoint,
			APIVersion: APIVersion,
		},
	})
	if err != nil {
		g.log.Error("Creating Gemini client failed, using heuristic analysis", "error", err)
		return g
	}
	g.client = client
	return g
}

// Enabled reports whether an API key is configured and the client was created
func (g *Gemini) Enabled() bool {
	return g.client != nil
}

// RequestAnalysis sends prompt to Gemini and returns the response text.
// It never fails: a missing key, a transport or API error, or a response
// without text all return ok=false after logging.
func (g *Gemini) RequestAnalysis(ctx context.Context, prompt string) (string, bool) {
	if !g.Enabled() {
		g.log.Warn("Gemini API key not configured, using heuristic analysis")
		return "", false
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	g.log.Debug("Sending request to Gemini", "key", logging.MaskKey(g.apiKey), "prompt_chars", len(prompt))

	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), &genai.GenerateContentConfig{
		Temperature:     genai.Ptr[float32](Temperature),
		MaxOutputTokens: int32(g.maxOutputTokens),
	})
	if err != nil {
		g.log.Error("Gemini request failed", "error", err)
		return "", false
	}

	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		g.log.Warn("Gemini response has no text")
		return "", false
	}

	g.log.Debug("Gemini response received", "chars", len(text))
	return text, true
}
