package llm

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"
)

func TestRetrySucceedsAfterTransientFailures(t *testing.T) {
	attempts := 0
	cfg := RetryConfig{MaxAttempts: 3, BaseDelay: time.Millisecond}
	resp, err := Retry(context.Background(), cfg, func(ctx context.Context) (Response, error) {
		attempts++
		if attempts < 3 {
			return Response{}, errors.New("upstream hiccup")
		}
		return Response{Text: "ok"}, nil
	})
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if resp.Text != "ok" {
		t.Fatalf("unexpected response %q", resp.Text)
	}
	if attempts != 3 {
		t.Fatalf("expected 3 attempts, got %d", attempts)
	}
}

func TestRetryStopsOnNonRetryable(t *testing.T) {
	attempts := 0
	cfg := RetryConfig{
		MaxAttempts: 5,
		BaseDelay:   time.Millisecond,
		IsRetryable: func(err error) bool { return false },
	}
	_, err := Retry(context.Background(), cfg, func(ctx context.Context) (Response, error) {
		attempts++
		return Response{}, errors.New("bad request")
	})
	if err == nil {
		t.Fatalf("expected error")
	}
	if attempts != 1 {
		t.Fatalf("expected single attempt, got %d", attempts)
	}
}

func TestRetryHonorsContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Retry(ctx, RetryConfig{MaxAttempts: 3}, func(ctx context.Context) (Response, error) {
		t.Fatalf("fn must not run on cancelled context")
		return Response{}, nil
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestRetryStopsBackoffOnCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	attempts := 0
	start := time.Now()
	_, err := Retry(ctx, RetryConfig{MaxAttempts: 3, BaseDelay: time.Minute},
		func(ctx context.Context) (Response, error) {
			attempts++
			cancel()
			return Response{}, errors.New("upstream hiccup")
		})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if attempts != 1 {
		t.Fatalf("expected single attempt, got %d", attempts)
	}
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Fatalf("backoff ignored cancellation, waited %s", elapsed)
	}
}

func TestDefaultIsRetryable(t *testing.T) {
	if DefaultIsRetryable(nil) {
		t.Fatalf("nil error must not be retryable")
	}
	if DefaultIsRetryable(context.Canceled) || DefaultIsRetryable(context.DeadlineExceeded) {
		t.Fatalf("cancellation must not be retryable")
	}
	notFound := &net.DNSError{Err: "no such host", Name: "api.example.invalid", IsNotFound: true}
	if DefaultIsRetryable(notFound) {
		t.Fatalf("unknown host must not be retryable")
	}
	if !DefaultIsRetryable(errors.New("upstream hiccup")) {
		t.Fatalf("generic upstream errors are retryable")
	}
}
