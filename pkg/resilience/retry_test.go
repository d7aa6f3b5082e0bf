package resilience

import (
	"errors"
	"testing"
	"time"
)

func TestRetryPolicyStopsAfterMaxRetries(t *testing.T) {
	policy := RetryPolicy{MaxRetries: 2, Backoff: time.Millisecond}
	attempts := 0
	err := policy.Do(func() error {
		attempts++
		return errors.New("transport down")
	})
	if err == nil {
		t.Fatalf("expected error after retries exhausted")
	}
	if attempts != 3 {
		t.Fatalf("expected 3 attempts, got %d", attempts)
	}
}

func TestRetryPolicyReturnsFirstSuccess(t *testing.T) {
	policy := RetryPolicy{MaxRetries: 3, Backoff: time.Millisecond}
	attempts := 0
	err := policy.Do(func() error {
		attempts++
		if attempts < 2 {
			return errors.New("flaky")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if attempts != 2 {
		t.Fatalf("expected 2 attempts, got %d", attempts)
	}
}
