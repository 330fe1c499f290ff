package notify

import (
	"strings"
	"testing"
)

func TestFormat(t *testing.T) {
	n := Notification{
		Subject:     "Programación",
		Body:        "Cantidad: 5\nTotal: $5000 CLP",
		RequesterID: 12345,
	}
	got := Format(n, "AB12CD34")
	if !strings.Contains(got, "🚨 Nueva solicitud [AB12CD34]:") {
		t.Fatalf("missing header: %q", got)
	}
	if !strings.Contains(got, "Servicio: Programación") || !strings.Contains(got, "Chat ID: 12345") {
		t.Fatalf("missing fields: %q", got)
	}
	if strings.HasPrefix(got, "‼️") {
		t.Fatal("non-urgent alert must not carry the urgent marker")
	}
}

func TestFormatUrgent(t *testing.T) {
	got := Format(Notification{Subject: "Programación", Urgent: true}, "")
	if !strings.HasPrefix(got, "‼️ ") {
		t.Fatalf("urgent marker missing: %q", got)
	}
}

func TestFormatBoundsBody(t *testing.T) {
	n := Notification{Subject: "x", Body: strings.Repeat("a", 5000)}
	got := Format(n, "")
	if len(got) > 1200 {
		t.Fatalf("body not bounded, len = %d", len(got))
	}
}

func TestNewRef(t *testing.T) {
	ref := NewRef()
	if len(ref) != 8 {
		t.Fatalf("ref = %q", ref)
	}
	if ref != strings.ToUpper(ref) {
		t.Fatalf("ref not uppercase: %q", ref)
	}
}
