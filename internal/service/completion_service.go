package service

import (
	"context"
	"strings"
	"time"

	"techno-ai-be/internal/config"
	"techno-ai-be/internal/dto"
	"techno-ai-be/internal/pkg/logger"
	"techno-ai-be/internal/pkg/serverutils"
	"techno-ai-be/pkg/llm"
	"techno-ai-be/pkg/prompt"
)

const (
	healthPrompt    = "Hello"
	healthMaxTokens = 10
	healthTimeout   = 15 * time.Second
)

// ICompletionService proxies the generative-language API. It satisfies
// conversation.Completer.
type ICompletionService interface {
	Complete(ctx context.Context, text string) (string, error)
	Chat(ctx context.Context, req *dto.AiChatRequest) (*dto.AiChatResponse, error)
	Health(ctx context.Context) *dto.AiHealthResponse
	Configured() bool
}

type completionService struct {
	provider llm.LLMProvider
	cfg      config.AIConfig
	apiKey   string
	logger   logger.ILogger
}

func NewCompletionService(provider llm.LLMProvider, cfg config.AIConfig, apiKey string, logger logger.ILogger) ICompletionService {
	return &completionService{
		provider: provider,
		cfg:      cfg,
		apiKey:   apiKey,
		logger:   logger,
	}
}

// Configured reports whether a provider exists. Gemini also needs a key.
func (s *completionService) Configured() bool {
	if s.provider == nil {
		return false
	}
	if s.cfg.LLMProvider == "" || s.cfg.LLMProvider == "gemini" {
		return s.apiKey != ""
	}
	return true
}

func (s *completionService) Complete(ctx context.Context, text string) (string, error) {
	if !s.Configured() {
		return "", llm.ErrUnauthorized
	}

	start := time.Now()
	out, err := s.provider.Generate(ctx, text,
		llm.WithMaxTokens(s.cfg.MaxOutputTokens),
		llm.WithTemperature(s.cfg.Temperature),
	)
	if err != nil {
		s.logger.Error("CompletionService", "Completion failed", map[string]interface{}{
			"provider": s.cfg.LLMProvider,
			"reason":   llm.Reason(err),
			"error":    err.Error(),
		})
		return "", err
	}

	s.logger.Debug("CompletionService", "Completion finished", map[string]interface{}{
		"provider":    s.cfg.LLMProvider,
		"duration_ms": time.Since(start).Milliseconds(),
		"chars":       len(out),
	})
	return out, nil
}

// Chat enhances a single message and returns the raw completion.
func (s *completionService) Chat(ctx context.Context, req *dto.AiChatRequest) (*dto.AiChatResponse, error) {
	if strings.TrimSpace(req.Message) == "" {
		return nil, serverutils.NewBadRequestError("Message is required")
	}
	if !s.Configured() {
		return nil, serverutils.NewInternalError("Gemini API key not configured on server", nil)
	}

	enhanced := prompt.Enhance(req.Message, prompt.Options{
		RoleName: s.cfg.RoleName,
		Audience: s.cfg.Audience,
	})

	cctx := ctx
	if s.cfg.CompletionTimeout > 0 {
		var cancel context.CancelFunc
		cctx, cancel = context.WithTimeout(ctx, s.cfg.CompletionTimeout)
		defer cancel()
	}

	out, err := s.Complete(cctx, enhanced)
	if err != nil {
		return nil, completionAppError(err)
	}
	return &dto.AiChatResponse{Response: out}, nil
}

func (s *completionService) Health(ctx context.Context) *dto.AiHealthResponse {
	res := &dto.AiHealthResponse{
		Provider:   s.cfg.LLMProvider,
		Model:      s.cfg.LLMModel,
		Configured: s.Configured(),
	}
	if !res.Configured {
		res.Status = "unconfigured"
		res.Reason = llm.ReasonAuth
		return res
	}

	cctx, cancel := context.WithTimeout(ctx, healthTimeout)
	defer cancel()

	_, err := s.provider.Generate(cctx, healthPrompt, llm.WithMaxTokens(healthMaxTokens))
	if err != nil {
		res.Status = "unavailable"
		res.Reason = llm.Reason(err)
		return res
	}

	res.Status = "ok"
	return res
}

func completionAppError(err error) *serverutils.AppError {
	switch llm.Reason(err) {
	case llm.ReasonRateLimited:
		return &serverutils.AppError{Code: 429, Message: llm.Describe(err), Err: err}
	case llm.ReasonAuth:
		return &serverutils.AppError{Code: 502, Message: llm.Describe(err), Err: err}
	case llm.ReasonNetwork:
		return &serverutils.AppError{Code: 503, Message: llm.Describe(err), Err: err}
	default:
		return &serverutils.AppError{Code: 502, Message: llm.Describe(err), Err: err}
	}
}
