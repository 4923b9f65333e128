package image

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

	"golang.org/x/time/rate"

	"bannercraft/internal/domain"
	"bannercraft/internal/infra"
	"bannercraft/pkg/poll"
)

const hordeService = "horde"

// HordeOptions configures the Stable Horde client.
type HordeOptions struct {
	APIKey       string
	BaseURL      string
	ClientAgent  string
	PollInterval time.Duration
	MaxWait      time.Duration
	RPS          float64
	HTTPClient   *http.Client
	Logger       infra.Logger
}

// HordeSynthesizer submits an async job to Stable Horde and polls its status
// until an image is ready, the job faults, or MaxWait elapses. Every outbound
// call waits on a shared token bucket.
type HordeSynthesizer struct {
	apiKey       string
	baseURL      string
	clientAgent  string
	pollInterval time.Duration
	maxWait      time.Duration
	limiter      *rate.Limiter
	httpClient   *http.Client
	logger       infra.Logger
}

type hordeParams struct {
	SamplerName       string  `json:"sampler_name"`
	CfgScale          float64 `json:"cfg_scale"`
	DenoisingStrength float64 `json:"denoising_strength"`
	Steps             int     `json:"steps"`
	Width             int     `json:"width"`
	Height            int     `json:"height"`
	HiresFix          bool    `json:"hires_fix"`
	Karras            bool    `json:"karras"`
	N                 int     `json:"n"`
}

type hordeSubmit struct {
	Prompt     string      `json:"prompt"`
	Params     hordeParams `json:"params"`
	NSFW       bool        `json:"nsfw"`
	CensorNSFW bool        `json:"censor_nsfw"`
	R2         bool        `json:"r2"`
}

type hordeSubmitResponse struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}

type hordeStatus struct {
	Done        bool `json:"done"`
	Faulted     bool `json:"faulted"`
	Generations []struct {
		Img      string `json:"img"`
		Censored bool   `json:"censored"`
	} `json:"generations"`
}

func NewHordeSynthesizer(opts HordeOptions) *HordeSynthesizer {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	interval := opts.PollInterval
	if interval <= 0 {
		interval = 5 * time.Second
	}
	maxWait := opts.MaxWait
	if maxWait <= 0 {
		maxWait = 120 * time.Second
	}
	limit := rate.Inf
	if opts.RPS > 0 {
		limit = rate.Limit(opts.RPS)
	}
	baseURL := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if baseURL == "" {
		baseURL = "https://stablehorde.net/api/v2"
	}
	apiKey := strings.TrimSpace(opts.APIKey)
	if apiKey == "" {
		apiKey = "0000000000"
	}
	agent := strings.TrimSpace(opts.ClientAgent)
	if agent == "" {
		agent = "bannercraft:1:unknown"
	}
	return &HordeSynthesizer{
		apiKey:       apiKey,
		baseURL:      baseURL,
		clientAgent:  agent,
		pollInterval: interval,
		maxWait:      maxWait,
		limiter:      rate.NewLimiter(limit, 1),
		httpClient:   httpClient,
		logger:       opts.Logger,
	}
}

func (h *HordeSynthesizer) Synthesize(ctx context.Context, prompt string) (string, error) {
	id, err := h.submit(ctx, prompt)
	if err != nil {
		return "", err
	}
	h.logger.Debug().Str("job_id", id).Msg("horde job submitted")

	img, err := poll.Until(ctx, poll.Options{Interval: h.pollInterval, Timeout: h.maxWait}, func(ctx context.Context) (string, bool, error) {
		return h.check(ctx, id)
	})
	if err != nil {
		if errors.Is(err, poll.ErrTimeout) {
			return "", fmt.Errorf("horde job %s after %s: %w", id, h.maxWait, domain.ErrTimeout)
		}
		return "", err
	}
	return DataURIPrefix + img, nil
}

func (h *HordeSynthesizer) submit(ctx context.Context, prompt string) (string, error) {
	payload := hordeSubmit{
		Prompt: prompt,
		Params: hordeParams{
			SamplerName:       "k_euler_a",
			CfgScale:          7.5,
			DenoisingStrength: 0.75,
			Steps:             30,
			Width:             1024,
			Height:            576,
			HiresFix:          true,
			Karras:            true,
			N:                 1,
		},
		NSFW:       false,
		CensorNSFW: true,
		R2:         false,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("horde: encode submit: %w", err)
	}
	var out hordeSubmitResponse
	if err := h.do(ctx, http.MethodPost, "submit", h.baseURL+"/generate/async", body, &out); err != nil {
		return "", err
	}
	if strings.TrimSpace(out.ID) == "" {
		return "", &domain.UpstreamError{Service: hordeService, Op: "submit", Detail: coalesce(out.Message, "missing job id")}
	}
	return out.ID, nil
}

// check runs one status call. It reports done with the base64 image, or an
// error for faulted and imageless jobs.
func (h *HordeSynthesizer) check(ctx context.Context, id string) (string, bool, error) {
	var st hordeStatus
	if err := h.do(ctx, http.MethodGet, "status", h.baseURL+"/generate/status/"+url.PathEscape(id), nil, &st); err != nil {
		return "", false, err
	}
	if st.Faulted {
		return "", false, fmt.Errorf("horde job %s: %w", id, domain.ErrJobFaulted)
	}
	if !st.Done {
		return "", false, nil
	}
	if len(st.Generations) == 0 || strings.TrimSpace(st.Generations[0].Img) == "" {
		return "", false, fmt.Errorf("horde job %s: %w", id, domain.ErrNoImage)
	}
	return st.Generations[0].Img, true, nil
}

func (h *HordeSynthesizer) do(ctx context.Context, method, op, endpoint string, body []byte, out any) error {
	if err := h.limiter.Wait(ctx); err != nil {
		return err
	}
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("horde: build %s request: %w", op, err)
	}
	req.Header.Set("apikey", h.apiKey)
	req.Header.Set("Client-Agent", h.clientAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := h.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return &domain.UpstreamError{Service: hordeService, Op: op, Err: err}
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	h.logger.Debug().Str("op", op).Int("status", resp.StatusCode).Msg("horde response")

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 32<<20))
	if err != nil {
		return &domain.UpstreamError{Service: hordeService, Op: op, StatusCode: resp.StatusCode, Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &domain.UpstreamError{Service: hordeService, Op: op, StatusCode: resp.StatusCode, Detail: hordeDetail(raw)}
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &domain.UpstreamError{Service: hordeService, Op: op, StatusCode: resp.StatusCode, Detail: "decode response", Err: err}
	}
	return nil
}

func hordeDetail(raw []byte) string {
	var msg struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &msg); err == nil && msg.Message != "" {
		return msg.Message
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

var _ Synthesizer = (*HordeSynthesizer)(nil)
