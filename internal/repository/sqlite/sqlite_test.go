package sqlite

import (
	"context"
	"testing"
	"time"

	"netlens/internal/domain"
)

// newTestLog creates an in-memory journal for testing.
func newTestLog(t *testing.T) *Log {
	t.Helper()
	l, err := New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test journal: %v", err)
	}
	t.Cleanup(func() {
		l.Close()
	})
	return l
}

func entry(device, command string, at time.Time) *domain.RawCommandResult {
	return &domain.RawCommandResult{
		Device:    device,
		Command:   command,
		Output:    "output of " + command,
		Status:    domain.CommandStatusOK,
		Duration:  120 * time.Millisecond,
		Timestamp: at,
	}
}

func TestRecordAndRecent(t *testing.T) {
	l := newTestLog(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	for i, cmd := range []string{"show version", "show cdp neighbors detail", "show lldp neighbors detail"} {
		if err := l.Record(ctx, entry("rtr1", cmd, base.Add(time.Duration(i)*time.Second))); err != nil {
			t.Fatalf("Record failed: %v", err)
		}
	}

	results, err := l.Recent(ctx, "", 0)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(results))
	}
	// Newest first.
	if results[0].Command != "show lldp neighbors detail" {
		t.Errorf("first entry = %q, want newest command", results[0].Command)
	}
	if results[2].Command != "show version" {
		t.Errorf("last entry = %q, want oldest command", results[2].Command)
	}
}

func TestRecentFiltersByDevice(t *testing.T) {
	l := newTestLog(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	if err := l.Record(ctx, entry("rtr1", "show version", base)); err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	if err := l.Record(ctx, entry("sw1", "show version", base.Add(time.Second))); err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	results, err := l.Recent(ctx, "sw1", 0)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 entry for sw1, got %d", len(results))
	}
	if results[0].Device != "sw1" {
		t.Errorf("device = %q, want sw1", results[0].Device)
	}
}

func TestRecentHonorsLimit(t *testing.T) {
	l := newTestLog(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 10; i++ {
		if err := l.Record(ctx, entry("rtr1", "show version", base.Add(time.Duration(i)*time.Second))); err != nil {
			t.Fatalf("Record failed: %v", err)
		}
	}

	results, err := l.Recent(ctx, "rtr1", 4)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(results) != 4 {
		t.Fatalf("expected 4 entries, got %d", len(results))
	}
}

func TestRecentRoundTripsFields(t *testing.T) {
	l := newTestLog(t)
	ctx := context.Background()
	at := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	rec := &domain.RawCommandResult{
		Device:    "rtr1",
		Command:   "show version",
		Output:    "Cisco IOS XE Software, Version 17.09.04a",
		Status:    domain.CommandStatusTimeout,
		Duration:  30 * time.Second,
		Timestamp: at,
	}
	if err := l.Record(ctx, rec); err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	results, err := l.Recent(ctx, "rtr1", 1)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(results))
	}

	got := results[0]
	if got.Output != rec.Output {
		t.Errorf("output = %q, want %q", got.Output, rec.Output)
	}
	if got.Status != domain.CommandStatusTimeout {
		t.Errorf("status = %q, want timeout", got.Status)
	}
	if got.Duration != rec.Duration {
		t.Errorf("duration = %v, want %v", got.Duration, rec.Duration)
	}
	if !got.Timestamp.Equal(at) {
		t.Errorf("timestamp = %v, want %v", got.Timestamp, at)
	}
}
