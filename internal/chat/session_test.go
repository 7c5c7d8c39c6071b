package chat

import (
	"fmt"
	"strings"
	"testing"
)

func TestEmptySessionRendersEmptyContext(t *testing.T) {
	s := NewSession(5)
	if got := s.Context(); got != "" {
		t.Fatalf("empty session context = %q, want empty", got)
	}
}

func TestContextSingleTurn(t *testing.T) {
	s := NewSession(5)
	s.Record("hi", "hello")
	want := "Human: hi\nAssistant: hello"
	if got := s.Context(); got != want {
		t.Fatalf("context = %q, want %q", got, want)
	}
}

func TestRecordAppendsNewestLast(t *testing.T) {
	s := NewSession(5)
	s.Record("hi", "hello")
	s.Record("how are you", "fine")
	want := "Human: hi\nAssistant: hello\nHuman: how are you\nAssistant: fine"
	if got := s.Context(); got != want {
		t.Fatalf("context = %q, want %q", got, want)
	}
	if s.Len() != 2 {
		t.Fatalf("len = %d, want 2", s.Len())
	}
}

func TestContextCapsAtMaxTurns(t *testing.T) {
	s := NewSession(5)
	for i := 1; i <= 7; i++ {
		s.Record(fmt.Sprintf("q%d", i), fmt.Sprintf("a%d", i))
	}
	got := s.Context()
	if strings.Contains(got, "q1") || strings.Contains(got, "q2") {
		t.Fatalf("context includes turns beyond the cap: %q", got)
	}
	for i := 3; i <= 7; i++ {
		if !strings.Contains(got, fmt.Sprintf("q%d", i)) {
			t.Fatalf("context missing turn %d: %q", i, got)
		}
	}
	if !strings.HasSuffix(got, "Human: q7\nAssistant: a7") {
		t.Fatalf("most recent turn not last: %q", got)
	}
}

func TestContextTurnCount(t *testing.T) {
	for n := 0; n <= 8; n++ {
		s := NewSession(5)
		for i := 0; i < n; i++ {
			s.Record("q", "a")
		}
		want := n
		if want > 5 {
			want = 5
		}
		got := strings.Count(s.Context(), "Human: ")
		if got != want {
			t.Fatalf("n=%d: context has %d turns, want %d", n, got, want)
		}
	}
}

func TestReset(t *testing.T) {
	s := NewSession(5)
	s.Record("hi", "hello")
	s.Reset()
	if got := s.Context(); got != "" {
		t.Fatalf("context after reset = %q, want empty", got)
	}
	if s.Len() != 0 {
		t.Fatalf("len after reset = %d", s.Len())
	}
}

func TestEmptyFieldsAllowed(t *testing.T) {
	s := NewSession(5)
	s.Record("", "")
	want := "Human: \nAssistant: "
	if got := s.Context(); got != want {
		t.Fatalf("context = %q, want %q", got, want)
	}
}

func TestNonPositiveCapUsesDefault(t *testing.T) {
	s := NewSession(0)
	for i := 0; i < 9; i++ {
		s.Record("q", "a")
	}
	if got := strings.Count(s.Context(), "Human: "); got != 5 {
		t.Fatalf("default cap renders %d turns, want 5", got)
	}
}
