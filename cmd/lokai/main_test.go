package main

import "testing"

func TestHelp(t *testing.T) {
	if code := run([]string{"-h"}); code != 0 {
		t.Fatalf("expected help to return 0, got %d", code)
	}
	if code := run([]string{"help"}); code != 0 {
		t.Fatalf("expected help to return 0, got %d", code)
	}
	if code := run(nil); code != 0 {
		t.Fatalf("expected bare invocation to return 0, got %d", code)
	}
}

func TestUnknownSubcommand(t *testing.T) {
	if code := run([]string{"unknown"}); code == 0 {
		t.Fatalf("expected non-zero for unknown subcommand")
	}
}

func TestVersion(t *testing.T) {
	if code := run([]string{"version"}); code != 0 {
		t.Fatalf("version returned non-zero")
	}
}
