package ollama

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/vykhand/mydocs2/internal/core/domain"
	"github.com/vykhand/mydocs2/internal/infrastructure/resilience"
)

type Client struct {
	baseURL    string
	httpClient *http.Client
	executor   *resilience.Executor
	limiter    *rate.Limiter
}

// New builds a client for the ollama generate API. The executor owns
// transport-level retries and circuit breaking; requestsPerSecond <= 0
// disables rate limiting.
func New(baseURL string, executor *resilience.Executor, requestsPerSecond float64) *Client {
	var limiter *rate.Limiter
	if requestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), 1)
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 120 * time.Second},
		executor:   executor,
		limiter:    limiter,
	}
}

// SplitClassifier classifies one page batch into typed segments.
type SplitClassifier struct {
	client *Client
}

func NewSplitClassifier(client *Client) *SplitClassifier {
	return &SplitClassifier{client: client}
}

// ClassifyBatch runs the split classifier for one batch with the
// two-tier retry policy: transport failures are retried beneath this
// layer by the resilience executor and surface here exactly once as
// domain.ErrTransport; payloads failing schema validation are retried
// up to cfg.ValidationRetries times and the last validation error is
// returned as domain.ErrValidation.
func (c *SplitClassifier) ClassifyBatch(
	ctx context.Context,
	contextText string,
	batchNum, totalBatches int,
	cfg domain.ClassifierConfig,
) (domain.BatchClassification, error) {
	system := cfg.SysPromptTemplate
	if system == "" {
		system = defaultSysPrompt
	}
	prompt := renderUserPrompt(cfg, contextText, batchNum, totalBatches)

	attempts := cfg.ValidationRetries
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		raw, err := c.client.generateJSON(ctx, cfg.Model, system, prompt)
		if err != nil {
			return domain.BatchClassification{}, wrapTransport("split classify", err)
		}

		result, err := decodeBatchClassification(raw)
		if err != nil {
			lastErr = domain.WrapError(domain.ErrValidation, "split classify", err)
			slog.Warn("split_classify_validation_failed",
				"batch", batchNum,
				"total_batches", totalBatches,
				"attempt", attempt,
				"max_attempts", attempts,
				"error", err,
			)
			continue
		}
		return result, nil
	}
	return domain.BatchClassification{}, lastErr
}

func (c *Client) generateJSON(ctx context.Context, model, system, prompt string) (string, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return "", fmt.Errorf("rate limit wait: %w", err)
		}
	}

	reqBody := map[string]any{
		"model":  model,
		"system": system,
		"prompt": prompt,
		"stream": false,
		"format": "json",
	}

	var response struct {
		Response string `json:"response"`
	}
	call := func(callCtx context.Context) error {
		return c.postJSON(callCtx, "/api/generate", reqBody, &response, "generate")
	}

	var err error
	if c.executor != nil {
		err = c.executor.Execute(ctx, "ollama.generate", call, classifyTransportError)
	} else {
		err = call(ctx)
	}
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(response.Response), nil
}
