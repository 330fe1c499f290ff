package validate

import "testing"

func TestPhone(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{"+56912345678", true},
		{"56912345678", true},
		{"0912345678", true},
		{"+0912345678", true},
		{"  +56912345678 ", true},
		{"912345678", false},    // no prefix
		{"+56812345678", false}, // wrong leading digit after prefix
		{"+5691234567", false},  // too short
		{"+569123456789", false},
		{"+569 1234 5678", false},
		{"", false},
		{"hola", false},
	}
	for _, tc := range cases {
		if got := Phone(tc.in); got != tc.want {
			t.Errorf("Phone(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}
