package testutil

import (
	"log"
	"os"
	"testing"
	"time"
)

func TestLogger(t *testing.T) *log.Logger {
	logger := log.New(os.Stdout, "[test] ", log.LstdFlags)
	t.Cleanup(func() {
		logger.SetOutput(os.Stderr)
	})
	return logger
}

// FixedClock always reports 3:45 PM UTC.
func FixedClock() time.Time {
	return time.Date(2024, time.March, 1, 15, 45, 0, 0, time.UTC)
}
