package logger

import (
	"testing"
	"time"
)

func TestSanitizeStripsControlRunes(t *testing.T) {
	in := "hola\x00 mundo\x1b[0m\tok\n"
	got := Sanitize(in)
	want := "hola mundo[0m\tok\n"
	if got != want {
		t.Fatalf("Sanitize(%q) = %q, want %q", in, got, want)
	}
}

func TestSanitizeLimit(t *testing.T) {
	if got := SanitizeLimit("abcdef", 3); got != "abc" {
		t.Fatalf("SanitizeLimit = %q, want abc", got)
	}
	if got := SanitizeLimit("abc", 0); got != "" {
		t.Fatalf("SanitizeLimit with max 0 = %q, want empty", got)
	}
	// rune-aware truncation
	if got := SanitizeLimit("ñandú", 4); got != "ñand" {
		t.Fatalf("SanitizeLimit = %q, want ñand", got)
	}
}

func TestBuildRID(t *testing.T) {
	if got := BuildRID(42, 7, 9); got != "42:7:9" {
		t.Fatalf("BuildRID = %q", got)
	}
}

func TestContextRoundTrip(t *testing.T) {
	ctx := WithRID(nil, "rid-1")
	ctx = WithUpdateMeta(ctx, 5, 10, 20)
	if RIDFrom(ctx) != "rid-1" {
		t.Fatalf("rid lost")
	}
	if UpdateIDFrom(ctx) != 5 || UserIDFrom(ctx) != 10 || ChatIDFrom(ctx) != 20 {
		t.Fatalf("update meta lost")
	}
}

func TestRoundMS(t *testing.T) {
	if got := RoundMS(1499 * time.Microsecond); got != time.Millisecond {
		t.Fatalf("RoundMS = %v", got)
	}
	if got := RoundMS(-time.Second); got != 0 {
		t.Fatalf("RoundMS negative = %v", got)
	}
}
