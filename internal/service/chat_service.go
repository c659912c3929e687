package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/astu-platform/complaint-service/internal/config"
	"github.com/astu-platform/complaint-service/internal/observability"
	apperrors "github.com/astu-platform/complaint-service/pkg/util"
)

const chatFallbackAnswer = "No answer."

const chatRateLimitWindow = time.Minute

// chatRateLimitLua bumps the window counter and arms its TTL in one atomic
// step, so a counter can never be left behind without an expiry.
const chatRateLimitLua = `
local count = redis.call("INCR", KEYS[1])
if count == 1 then
    redis.call("EXPIRE", KEYS[1], ARGV[1])
end
return count`

var chatRateLimitScript = redis.NewScript(chatRateLimitLua)

// ChatService proxies student questions to an OpenAI-compatible completion
// provider with a fixed routing-guidance system prompt. The upstream sits
// behind a circuit breaker; callers are rate limited per user via Redis.
type ChatService struct {
	cfg     config.ChatConfig
	client  *http.Client
	breaker *gobreaker.CircuitBreaker
	limiter redis.Scripter
	logger  *zap.Logger
	metrics *observability.Metrics
}

// NewChatService constructs the service. redisClient may be nil, in which
// case rate limiting is disabled.
func NewChatService(cfg config.ChatConfig, redisClient *redis.Client, logger *zap.Logger, metrics *observability.Metrics) *ChatService {
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "ChatCompletion",
		MaxRequests: 3,
		Interval:    10 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state change",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	})

	s := &ChatService{
		cfg:     cfg,
		client:  &http.Client{Timeout: cfg.Timeout()},
		breaker: breaker,
		logger:  logger,
		metrics: metrics,
	}
	if redisClient != nil {
		s.limiter = redisClient
	}
	return s
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type completionRequest struct {
	Model     string        `json:"model"`
	Messages  []chatMessage `json:"messages"`
	MaxTokens int           `json:"max_tokens"`
}

type completionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Ask forwards the question to the completion provider and returns the first
// choice's text, or a fixed fallback when the response carries none.
func (s *ChatService) Ask(ctx context.Context, userID, question string) (string, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return "", apperrors.NewValidationError("question is required", nil)
	}
	if s.cfg.APIKey == "" {
		return "", apperrors.NewInternalError(fmt.Errorf("chat provider API key not configured"))
	}

	if err := s.checkRateLimit(ctx, userID); err != nil {
		return "", err
	}

	answer, err := s.breaker.Execute(func() (interface{}, error) {
		return s.complete(ctx, question)
	})
	if err != nil {
		s.metrics.RecordChatFailure()
		s.logger.Error("chat upstream failure", zap.Error(err))
		return "", apperrors.NewUpstreamError(err)
	}
	return answer.(string), nil
}

func (s *ChatService) complete(ctx context.Context, question string) (string, error) {
	payload := completionRequest{
		Model: s.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: s.cfg.SystemPrompt},
			{Role: "user", Content: question},
		},
		MaxTokens: s.cfg.MaxTokens,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		s.cfg.BaseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.cfg.APIKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("completion API status %d: %s", resp.StatusCode, string(detail))
	}

	var parsed completionResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", err
	}
	if len(parsed.Choices) == 0 || parsed.Choices[0].Message.Content == "" {
		return chatFallbackAnswer, nil
	}
	return parsed.Choices[0].Message.Content, nil
}

// checkRateLimit enforces a fixed per-minute window in Redis. Redis being
// unreachable does not block the caller.
func (s *ChatService) checkRateLimit(ctx context.Context, userID string) error {
	if s.limiter == nil || s.cfg.RateLimitPerMin <= 0 {
		return nil
	}

	key := "chat:rate:" + userID
	count, err := chatRateLimitScript.Run(ctx, s.limiter, []string{key}, int(chatRateLimitWindow.Seconds())).Int64()
	if err != nil {
		s.logger.Warn("chat rate limit check failed", zap.Error(err))
		return nil
	}
	if count > int64(s.cfg.RateLimitPerMin) {
		return apperrors.NewDomainError("RATE_LIMITED", "too many chat requests", http.StatusTooManyRequests, nil)
	}
	return nil
}
