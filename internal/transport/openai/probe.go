// Package openai talks to the OpenAI-compatible LLM gateway a customer is
// routed to (LiteLLM and friends).
package openai

import (
	"context"
	"errors"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/cloudbill/admind/internal/domain"
)

// Prober checks gateway reachability by listing models — the cheapest
// authenticated call every OpenAI-compatible gateway supports.
type Prober struct {
	apiKey  string
	timeout time.Duration
	logger  *zap.Logger
}

// Config holds prober settings.
type Config struct {
	// APIKey is the admin key presented to the gateway; may be empty for
	// gateways that expose an unauthenticated model list.
	APIKey  string
	Timeout time.Duration
	Logger  *zap.Logger
}

// NewProber creates a gateway prober.
func NewProber(cfg *Config) *Prober {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Prober{apiKey: cfg.APIKey, timeout: timeout, logger: logger}
}

// Probe implements gateway.Prober. The client is rebuilt per call because
// the base URL differs per customer.
func (p *Prober) Probe(ctx context.Context, baseURL string) error {
	if baseURL == "" {
		return fmt.Errorf("%w: no api base configured", domain.ErrGatewayUnreachable)
	}

	clientCfg := openai.DefaultConfig(p.apiKey)
	clientCfg.BaseURL = baseURL
	client := openai.NewClientWithConfig(clientCfg)

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	start := time.Now()
	_, err := client.ListModels(ctx)
	if err != nil {
		p.logger.Debug("gateway probe failed",
			zap.String("api_base", baseURL),
			zap.Error(err),
		)
		return fmt.Errorf("%w: %s", domain.ErrGatewayUnreachable, probeReason(err))
	}

	p.logger.Debug("gateway probe ok",
		zap.String("api_base", baseURL),
		zap.Duration("latency", time.Since(start)),
	)
	return nil
}

// probeReason keeps gateway error detail without leaking response bodies.
func probeReason(err error) string {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return fmt.Sprintf("gateway returned status %d", apiErr.HTTPStatusCode)
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return fmt.Sprintf("request failed with status %d", reqErr.HTTPStatusCode)
	}
	return "connection failed"
}
