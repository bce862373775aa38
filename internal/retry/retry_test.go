package retry

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"
)

func TestDoSucceedsFirstAttempt(t *testing.T) {
	calls := 0
	p := Policy{MaxAttempts: 3, BaseDelay: time.Second, Sleep: func(time.Duration) {
		t.Fatal("no sleep expected on first-attempt success")
	}}

	err := p.Do(context.Background(), func() error {
		calls++
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestDoRetriesWithLinearBackoff(t *testing.T) {
	var delays []time.Duration
	calls := 0
	p := Policy{
		MaxAttempts: 3,
		BaseDelay:   100 * time.Millisecond,
		Sleep:       func(d time.Duration) { delays = append(delays, d) },
	}

	transient := errors.New("transient")
	err := p.Do(context.Background(), func() error {
		calls++
		if calls < 3 {
			return transient
		}
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}

	// Each wait is strictly longer than the previous one.
	want := []time.Duration{100 * time.Millisecond, 200 * time.Millisecond}
	if len(delays) != len(want) {
		t.Fatalf("delays = %v, want %v", delays, want)
	}
	for i := range want {
		if delays[i] != want[i] {
			t.Errorf("delay[%d] = %v, want %v", i, delays[i], want[i])
		}
	}
}

func TestDoExhaustsAttempts(t *testing.T) {
	calls := 0
	failure := errors.New("still broken")
	p := Policy{MaxAttempts: 3, Sleep: func(time.Duration) {}}

	err := p.Do(context.Background(), func() error {
		calls++
		return failure
	})
	if !errors.Is(err, failure) {
		t.Fatalf("err = %v, want %v", err, failure)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
}

func TestDoStopsOnTerminalError(t *testing.T) {
	calls := 0
	terminal := errors.New("bad request")
	p := Policy{
		MaxAttempts: 5,
		Retryable:   func(err error) bool { return false },
		Sleep:       func(time.Duration) { t.Fatal("terminal errors must not back off") },
	}

	err := p.Do(context.Background(), func() error {
		calls++
		return terminal
	})
	if !errors.Is(err, terminal) {
		t.Fatalf("err = %v, want %v", err, terminal)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestDoRespectsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	p := Policy{MaxAttempts: 3, Sleep: func(time.Duration) {}}
	err := p.Do(ctx, func() error {
		calls++
		return errors.New("never reached")
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if calls != 0 {
		t.Errorf("calls = %d, want 0", calls)
	}
}

func TestDoZeroAttemptsStillRunsOnce(t *testing.T) {
	calls := 0
	err := Policy{}.Do(context.Background(), func() error {
		calls++
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestRetryableStatus(t *testing.T) {
	cases := []struct {
		status int
		want   bool
	}{
		{http.StatusTooManyRequests, true},
		{http.StatusInternalServerError, true},
		{http.StatusBadGateway, true},
		{http.StatusServiceUnavailable, true},
		{http.StatusBadRequest, false},
		{http.StatusUnauthorized, false},
		{http.StatusNotFound, false},
		{http.StatusOK, false},
	}
	for _, tc := range cases {
		if got := RetryableStatus(tc.status); got != tc.want {
			t.Errorf("RetryableStatus(%d) = %v, want %v", tc.status, got, tc.want)
		}
	}
}
