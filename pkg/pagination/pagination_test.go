package pagination

import (
	"encoding/base64"
	"testing"
)

func TestNormalizeLimit(t *testing.T) {
	if got := NormalizeLimit(0); got != DefaultLimit {
		t.Fatalf("expected default limit, got %d", got)
	}
	if got := NormalizeLimit(1000); got != MaxLimit {
		t.Fatalf("expected max limit, got %d", got)
	}
	if got := NormalizeLimit(10); got != 10 {
		t.Fatalf("expected 10, got %d", got)
	}
	if got := LimitWithBuffer(10); got != 11 {
		t.Fatalf("expected 11, got %d", got)
	}
}

func TestCursorRoundTrip(t *testing.T) {
	encoded := EncodeCursor(Cursor{ID: 42})
	parsed, err := ParseCursor(encoded)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if parsed == nil || parsed.ID != 42 {
		t.Fatalf("unexpected cursor %+v", parsed)
	}
}

func TestParseCursorEmptyAndInvalid(t *testing.T) {
	if cur, err := ParseCursor("  "); err != nil || cur != nil {
		t.Fatalf("blank cursor should parse to nil, got %v %v", cur, err)
	}
	if _, err := ParseCursor("not base64!!"); err == nil {
		t.Fatal("expected error for malformed cursor")
	}
	nonNumeric := base64.StdEncoding.EncodeToString([]byte("abc"))
	if _, err := ParseCursor(nonNumeric); err == nil {
		t.Fatal("expected error for non-numeric cursor")
	}
}
