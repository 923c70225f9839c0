package retry

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"math/rand"
	"net"
	"net/http"
	"strconv"
	"strings"
	"syscall"
	"time"
)

const (
	defaultBaseDelay      = 300 * time.Millisecond
	defaultMaxDelay       = 5 * time.Second
	defaultMultiplier     = 2.0
	defaultMaxAttempts    = 4
	defaultJitterFraction = 0.30
	defaultSnippetLimit   = 200
)

type Sleeper func(ctx context.Context, d time.Duration) error
type NowFunc func() time.Time
type RandFunc func() float64

// Policy описывает экспоненциальный backoff с джиттером.
// Нулевые поля заменяются значениями по умолчанию.
type Policy struct {
	BaseDelay      time.Duration
	MaxDelay       time.Duration
	Multiplier     float64
	MaxAttempts    int
	JitterFraction float64
	SnippetLimit   int
	Sleep          Sleeper
	Now            NowFunc
	Rand           RandFunc
}

func DefaultPolicy() Policy {
	return withDefaults(Policy{})
}

// Response — прочитанный ответ: тело уже вычитано и закрыто.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// RequestFunc строит новый запрос на каждую попытку: тело запроса одноразовое.
type RequestFunc func(ctx context.Context) (*http.Request, error)

type HTTPStatusError struct {
	StatusCode  int
	BodySnippet string
}

func (e *HTTPStatusError) Error() string {
	if e.BodySnippet == "" {
		return fmt.Sprintf("transient status %d", e.StatusCode)
	}
	return fmt.Sprintf("transient status %d: %s", e.StatusCode, e.BodySnippet)
}

type ExhaustedError struct {
	Cause    error
	Attempts int
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("retry attempts exhausted after %d: %v", e.Attempts, e.Cause)
}

func (e *ExhaustedError) Unwrap() error {
	return e.Cause
}

// DoHTTP выполняет запрос, повторяя его на сетевых ошибках, 408, 429 и 5xx.
// Нетранзиентный статус (например, 400) возвращается как обычный Response без ошибки.
func DoHTTP(ctx context.Context, client *http.Client, policy Policy, logger *slog.Logger, newRequest RequestFunc) (Response, error) {
	policy = withDefaults(policy)

	var lastErr error
	for attempt := 1; attempt <= policy.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return Response{}, err
		}

		resp, err := execute(ctx, client, newRequest)
		var delay time.Duration
		switch {
		case err != nil:
			if !isRetryableNetErr(ctx, err) {
				return Response{}, err
			}
			lastErr = err
			delay = policy.jitterDelay(policy.backoffDelay(attempt))
			logRetry(logger, attempt, policy.MaxAttempts, 0, reasonForNetErr(err), delay)
		case isRetryableStatus(resp.StatusCode):
			lastErr = &HTTPStatusError{StatusCode: resp.StatusCode, BodySnippet: snippet(resp.Body, policy.SnippetLimit)}
			if retryAfter, ok := parseRetryAfter(resp.Header, policy.Now()); ok {
				delay = min(retryAfter, policy.MaxDelay)
			} else {
				delay = policy.jitterDelay(policy.backoffDelay(attempt))
			}
			logRetry(logger, attempt, policy.MaxAttempts, resp.StatusCode, reasonForStatus(resp.StatusCode), delay)
		default:
			return resp, nil
		}

		if attempt == policy.MaxAttempts {
			break
		}
		if err := policy.Sleep(ctx, delay); err != nil {
			return Response{}, err
		}
	}
	return Response{}, &ExhaustedError{Cause: lastErr, Attempts: policy.MaxAttempts}
}

func execute(ctx context.Context, client *http.Client, newRequest RequestFunc) (Response, error) {
	req, err := newRequest(ctx)
	if err != nil {
		return Response{}, fmt.Errorf("build request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return Response{}, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Response{}, err
	}
	return Response{StatusCode: resp.StatusCode, Header: resp.Header, Body: body}, nil
}

func withDefaults(p Policy) Policy {
	if p.BaseDelay == 0 {
		p.BaseDelay = defaultBaseDelay
	}
	if p.MaxDelay == 0 {
		p.MaxDelay = defaultMaxDelay
	}
	if p.Multiplier == 0 {
		p.Multiplier = defaultMultiplier
	}
	if p.MaxAttempts == 0 {
		p.MaxAttempts = defaultMaxAttempts
	}
	if p.JitterFraction == 0 {
		p.JitterFraction = defaultJitterFraction
	}
	if p.SnippetLimit == 0 {
		p.SnippetLimit = defaultSnippetLimit
	}
	if p.Sleep == nil {
		p.Sleep = sleepContext
	}
	if p.Now == nil {
		p.Now = time.Now
	}
	if p.Rand == nil {
		p.Rand = rand.Float64
	}
	return p
}

func (p Policy) backoffDelay(attempt int) time.Duration {
	delay := float64(p.BaseDelay) * math.Pow(p.Multiplier, float64(max(attempt, 1)-1))
	return time.Duration(math.Min(delay, float64(p.MaxDelay)))
}

// jitterDelay сдвигает задержку на ±JitterFraction.
func (p Policy) jitterDelay(delay time.Duration) time.Duration {
	if delay <= 0 || p.JitterFraction <= 0 {
		return delay
	}
	factor := 1 + (p.Rand()*2-1)*p.JitterFraction
	return time.Duration(math.Max(float64(delay)*factor, 0))
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func parseRetryAfter(header http.Header, now time.Time) (time.Duration, bool) {
	value := strings.TrimSpace(header.Get("Retry-After"))
	if value == "" {
		return 0, false
	}
	if seconds, err := strconv.Atoi(value); err == nil {
		return time.Duration(max(seconds, 0)) * time.Second, true
	}
	if at, err := http.ParseTime(value); err == nil {
		return max(at.Sub(now), 0), true
	}
	return 0, false
}

func isRetryableStatus(status int) bool {
	switch status {
	case http.StatusRequestTimeout,
		http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	}
	return false
}

func reasonForStatus(status int) string {
	switch status {
	case http.StatusTooManyRequests:
		return "rate limit"
	case http.StatusRequestTimeout:
		return "timeout"
	default:
		return "upstream 5xx"
	}
}

// isRetryableNetErr не повторяет запрос, если истек или отменен внешний контекст.
func isRetryableNetErr(ctx context.Context, err error) bool {
	if ctx.Err() != nil || errors.Is(err, context.Canceled) {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, syscall.ECONNRESET) {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "connection reset")
}

func reasonForNetErr(err error) string {
	switch {
	case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		return "eof"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return "timeout"
	}
	return "network error"
}

func logRetry(logger *slog.Logger, attempt, maxAttempts, status int, reason string, delay time.Duration) {
	if logger == nil || attempt >= maxAttempts {
		return
	}
	args := []any{
		slog.Int("attempt", attempt+1),
		slog.Int("max_attempts", maxAttempts),
		slog.String("reason", reason),
		slog.Duration("retry_in", delay),
	}
	if status > 0 {
		args = append(args, slog.Int("status", status))
	}
	logger.Warn("retrying request", args...)
}

func snippet(body []byte, limit int) string {
	if len(body) <= limit {
		return string(body)
	}
	return string(body[:limit])
}
