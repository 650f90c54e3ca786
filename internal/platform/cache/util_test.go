package cache

import (
	"testing"
	"time"
)

func TestTimeUntilNextPublication(t *testing.T) {
	t.Parallel()

	duration := TimeUntilNextPublication()

	// Duration should always be positive and less than 24 hours
	if duration <= 0 {
		t.Errorf("expected positive duration, got %v", duration)
	}
	if duration > 24*time.Hour {
		t.Errorf("expected duration less than 24 hours, got %v", duration)
	}
}

func TestTimeUntilNextPublication_ReturnsValidDuration(t *testing.T) {
	t.Parallel()

	duration := TimeUntilNextPublication()

	// Calculate what the next 20:00 should be
	now := time.Now()
	loc, err := time.LoadLocation("Asia/Shanghai")
	if err != nil {
		t.Fatalf("failed to load Asia/Shanghai timezone: %v", err)
	}

	next := time.Date(now.Year(), now.Month(), now.Day(), 20, 0, 0, 0, loc)
	if now.After(next) {
		next = next.Add(24 * time.Hour)
	}

	// The calculated time should be approximately the same
	expectedDuration := next.Sub(now)
	diff := duration - expectedDuration
	if diff < 0 {
		diff = -diff
	}

	// Allow 1 second tolerance for test execution time
	if diff > time.Second {
		t.Errorf("duration %v differs from expected %v by more than 1 second", duration, expectedDuration)
	}
}

func TestTimeUntilNextPublication_AlwaysPositive(t *testing.T) {
	t.Parallel()

	// Run multiple times to ensure consistency
	for i := 0; i < 10; i++ {
		duration := TimeUntilNextPublication()
		if duration <= 0 {
			t.Errorf("iteration %d: expected positive duration, got %v", i, duration)
		}
	}
}
