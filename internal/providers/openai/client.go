package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"bannercraft/internal/domain"
	"bannercraft/internal/infra"
)

// Flavors of the chat/images API.
const (
	FlavorOpenAI = "openai"
	FlavorAzure  = "azure"
)

const serviceName = "openai"

// ErrMissingAPIKey indicates that the client was configured without credentials.
var ErrMissingAPIKey = errors.New("openai: api key is required")

// Options configures the OpenAI or Azure OpenAI client.
type Options struct {
	Flavor         string
	APIKey         string
	BaseURL        string
	APIVersion     string
	ChatModel      string
	ImageModel     string
	HTTPClient     *http.Client
	Logger         infra.Logger
	RequestTimeout time.Duration
}

// Client performs chat-completion and image-generation calls. With the Azure
// flavor the model names are deployment names.
type Client struct {
	flavor     string
	apiKey     string
	baseURL    string
	apiVersion string
	chatModel  string
	imageModel string
	httpClient *http.Client
	logger     infra.Logger
}

// Message is a single chat message.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest carries the messages and sampling settings for one completion.
type ChatRequest struct {
	Messages    []Message
	Temperature float64
	MaxTokens   int
}

// ImageRequest describes one images/generations call.
type ImageRequest struct {
	Prompt  string
	N       int
	Size    string
	Style   string
	Quality string
}

// Image is a single generated image. Exactly one of URL and B64JSON is set.
type Image struct {
	URL           string `json:"url"`
	B64JSON       string `json:"b64_json"`
	RevisedPrompt string `json:"revised_prompt"`
}

type chatPayload struct {
	Model       string    `json:"model,omitempty"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature,omitempty"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

type imagePayload struct {
	Model   string `json:"model,omitempty"`
	Prompt  string `json:"prompt"`
	N       int    `json:"n"`
	Size    string `json:"size,omitempty"`
	Style   string `json:"style,omitempty"`
	Quality string `json:"quality,omitempty"`
}

type imageResponse struct {
	Data []Image `json:"data"`
}

type errorResponse struct {
	Error struct {
		Code    any    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// NewClient constructs a client with defaults for the chosen flavor.
func NewClient(opts Options) (*Client, error) {
	flavor := strings.ToLower(strings.TrimSpace(opts.Flavor))
	if flavor == "" {
		flavor = FlavorOpenAI
	}
	if flavor != FlavorOpenAI && flavor != FlavorAzure {
		return nil, fmt.Errorf("openai: unsupported flavor %q", opts.Flavor)
	}
	baseURL := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if baseURL == "" {
		if flavor == FlavorAzure {
			return nil, errors.New("openai: azure endpoint is required")
		}
		baseURL = "https://api.openai.com/v1"
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.RequestTimeout
		if timeout <= 0 {
			timeout = 90 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	apiVersion := strings.TrimSpace(opts.APIVersion)
	if apiVersion == "" {
		apiVersion = "2024-04-01-preview"
	}
	return &Client{
		flavor:     flavor,
		apiKey:     strings.TrimSpace(opts.APIKey),
		baseURL:    baseURL,
		apiVersion: apiVersion,
		chatModel:  coalesce(opts.ChatModel, "gpt-4o-mini"),
		imageModel: coalesce(opts.ImageModel, "dall-e-3"),
		httpClient: httpClient,
		logger:     opts.Logger,
	}, nil
}

// HasCredentials reports whether the client can perform remote calls.
func (c *Client) HasCredentials() bool {
	return c.apiKey != ""
}

// Chat runs one chat completion and returns the trimmed content of the first
// choice.
func (c *Client) Chat(ctx context.Context, req ChatRequest) (string, error) {
	payload := chatPayload{
		Messages:    req.Messages,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	}
	if c.flavor == FlavorOpenAI {
		payload.Model = c.chatModel
	}
	var out chatResponse
	if err := c.post(ctx, "chat", c.endpoint(c.chatModel, "chat/completions"), payload, &out); err != nil {
		return "", err
	}
	if len(out.Choices) == 0 {
		return "", &domain.UpstreamError{Service: serviceName, Op: "chat", Detail: "no choices"}
	}
	text := strings.TrimSpace(out.Choices[0].Message.Content)
	if text == "" {
		return "", &domain.UpstreamError{Service: serviceName, Op: "chat", Detail: "empty content"}
	}
	return text, nil
}

// GenerateImages runs one images/generations call.
func (c *Client) GenerateImages(ctx context.Context, req ImageRequest) ([]Image, error) {
	n := req.N
	if n <= 0 {
		n = 1
	}
	payload := imagePayload{
		Prompt:  req.Prompt,
		N:       n,
		Size:    req.Size,
		Style:   req.Style,
		Quality: req.Quality,
	}
	if c.flavor == FlavorOpenAI {
		payload.Model = c.imageModel
	}
	var out imageResponse
	if err := c.post(ctx, "images", c.endpoint(c.imageModel, "images/generations"), payload, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

func (c *Client) endpoint(model, path string) string {
	if c.flavor == FlavorAzure {
		q := url.Values{"api-version": {c.apiVersion}}
		return fmt.Sprintf("%s/openai/deployments/%s/%s?%s", c.baseURL, url.PathEscape(model), path, q.Encode())
	}
	return c.baseURL + "/" + path
}

func (c *Client) post(ctx context.Context, op, endpoint string, payload, out any) error {
	if !c.HasCredentials() {
		return &domain.UpstreamError{Service: serviceName, Op: op, Err: ErrMissingAPIKey}
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("openai: encode %s request: %w", op, err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("openai: build %s request: %w", op, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.flavor == FlavorAzure {
		httpReq.Header.Set("api-key", c.apiKey)
	} else {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.logger.Debug().Err(err).Str("op", op).Msg("openai request failed")
		return &domain.UpstreamError{Service: serviceName, Op: op, Err: err}
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	c.logger.Debug().Str("op", op).Int("status", resp.StatusCode).Dur("took", time.Since(start)).Msg("openai response")

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 32<<20))
	if err != nil {
		return &domain.UpstreamError{Service: serviceName, Op: op, StatusCode: resp.StatusCode, Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &domain.UpstreamError{Service: serviceName, Op: op, StatusCode: resp.StatusCode, Detail: errorDetail(raw)}
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &domain.UpstreamError{Service: serviceName, Op: op, StatusCode: resp.StatusCode, Detail: "decode response", Err: err}
	}
	return nil
}

func errorDetail(raw []byte) string {
	var er errorResponse
	if err := json.Unmarshal(raw, &er); err == nil && er.Error.Message != "" {
		return er.Error.Message
	}
	text := strings.TrimSpace(string(raw))
	if len(text) > 200 {
		text = text[:200]
	}
	return text
}

func coalesce(values ...string) string {
	for _, v := range values {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}
