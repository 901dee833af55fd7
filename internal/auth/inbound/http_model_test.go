package inbound

import "testing"

func TestMaskEmail(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"maria.campos@example.com", "mar***@example.com"},
		{"ab@example.com", "ab***@example.com"},
		{"abc@example.com", "abc***@example.com"},
		{"not-an-email", ""},
		{"@example.com", ""},
		{"", ""},
	}

	for _, tc := range cases {
		if got := maskEmail(tc.in); got != tc.want {
			t.Fatalf("maskEmail(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
