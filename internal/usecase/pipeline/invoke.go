package pipeline

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
)

// ModelClient is the one capability the pipeline needs from a
// language model: turn a system and user prompt into text.
type ModelClient interface {
	Generate(ctx context.Context, system, user string) (string, error)
}

// invoker runs a model call with a bounded number of attempts.
// Transport failures and invalid output draw from the same budget;
// after an invalid response the validation error is fed back into
// the prompt so the model can correct itself.
type invoker struct {
	client      ModelClient
	maxAttempts int
	callTimeout time.Duration
	logger      *zap.Logger
}

func newInvoker(client ModelClient, maxAttempts int, callTimeout time.Duration, logger *zap.Logger) *invoker {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	if callTimeout <= 0 {
		callTimeout = 2 * time.Minute
	}
	return &invoker{
		client:      client,
		maxAttempts: maxAttempts,
		callTimeout: callTimeout,
		logger:      logger,
	}
}

// invokeJSON calls the model until validate accepts the stripped
// response or attempts run out. validate receives the content with
// any markdown fences removed and should capture the parsed value.
func (iv *invoker) invokeJSON(ctx context.Context, system, user string, validate func(raw string) error) error {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 1 * time.Second
	bo.MaxInterval = 15 * time.Second

	prompt := user
	var lastErr error
	for attempt := 1; attempt <= iv.maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		callCtx, cancel := context.WithTimeout(ctx, iv.callTimeout)
		raw, err := iv.client.Generate(callCtx, system, prompt)
		cancel()

		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			lastErr = err
			if iv.logger != nil {
				iv.logger.Warn("⚠️ Model call failed",
					zap.Int("attempt", attempt),
					zap.Error(err))
			}
			if attempt < iv.maxAttempts {
				if err := sleepCtx(ctx, bo.NextBackOff()); err != nil {
					return err
				}
			}
			continue
		}

		if err := validate(extractJSON(raw)); err != nil {
			lastErr = err
			if iv.logger != nil {
				iv.logger.Warn("⚠️ Model response rejected",
					zap.Int("attempt", attempt),
					zap.Error(err))
			}
			prompt = correctedPrompt(user, err)
			continue
		}

		return nil
	}

	return fmt.Errorf("no valid model output after %d attempts: %w", iv.maxAttempts, lastErr)
}

// correctedPrompt appends the validation failure to the original
// request so the retry can fix the exact problem.
func correctedPrompt(user string, cause error) string {
	var b strings.Builder
	b.WriteString(user)
	b.WriteString("\n\nYour previous response was invalid: ")
	b.WriteString(cause.Error())
	b.WriteString("\nRespond with only the corrected JSON, no explanations.")
	return b.String()
}

// extractJSON strips a markdown code fence around the model output,
// if present.
func extractJSON(content string) string {
	content = strings.TrimSpace(content)

	// Check if wrapped in markdown code block
	if strings.HasPrefix(content, "```json") {
		content = strings.TrimPrefix(content, "```json")
		content = strings.TrimPrefix(content, "```")
		if idx := strings.LastIndex(content, "```"); idx != -1 {
			content = content[:idx]
		}
	} else if strings.HasPrefix(content, "```") {
		content = strings.TrimPrefix(content, "```")
		if idx := strings.LastIndex(content, "```"); idx != -1 {
			content = content[:idx]
		}
	}

	return strings.TrimSpace(content)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
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
