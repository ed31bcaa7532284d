package env

import "testing"

func TestGetFallsBackOnUnsetOrBlank(t *testing.T) {
	if got := Get("LIBRERIA_TEST_UNSET", "fallback"); got != "fallback" {
		t.Fatalf("expected fallback, got %q", got)
	}

	t.Setenv("LIBRERIA_TEST_BLANK", "   ")
	if got := Get("LIBRERIA_TEST_BLANK", "fallback"); got != "fallback" {
		t.Fatalf("expected fallback for blank value, got %q", got)
	}

	t.Setenv("LIBRERIA_TEST_SET", "  value  ")
	if got := Get("LIBRERIA_TEST_SET", "fallback"); got != "value" {
		t.Fatalf("expected trimmed value, got %q", got)
	}
}

func TestBool(t *testing.T) {
	cases := []struct {
		value    string
		fallback bool
		want     bool
	}{
		{"1", false, true},
		{"TRUE", false, true},
		{"yes", false, true},
		{"on", false, true},
		{"0", true, false},
		{"nope", true, false},
		{"", true, true},
		{"", false, false},
	}
	for _, tc := range cases {
		t.Setenv("LIBRERIA_TEST_BOOL", tc.value)
		if got := Bool("LIBRERIA_TEST_BOOL", tc.fallback); got != tc.want {
			t.Fatalf("Bool(%q, %v) = %v, want %v", tc.value, tc.fallback, got, tc.want)
		}
	}
}
