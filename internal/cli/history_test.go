package cli

import "testing"

func TestShortID(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"0b101f6a-9e5a-4f2e-8c7d-2b9d1c3e4f5a", "0b101f6a"},
		{"12345678", "12345678"},
		{"run-1", "run-1"},
		{"", ""},
	}
	for _, c := range cases {
		if got := shortID(c.in); got != c.want {
			t.Errorf("shortID(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}
