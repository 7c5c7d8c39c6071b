package main

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"lokai/internal/ai"
	cfgpkg "lokai/internal/config"
)

type fakeImageGen struct {
	data []byte
	err  error
	reqs []ai.ImageRequest
}

func (f *fakeImageGen) Generate(ctx context.Context, req ai.ImageRequest) ([]byte, error) {
	f.reqs = append(f.reqs, req)
	if f.err != nil {
		return nil, f.err
	}
	return f.data, nil
}

type fakeTextGen struct {
	reply string
	err   error
	reqs  []ai.GenerateRequest
}

func (f *fakeTextGen) Stream(ctx context.Context, req ai.GenerateRequest) <-chan ai.Chunk {
	f.reqs = append(f.reqs, req)
	ch := make(chan ai.Chunk, 2)
	if f.err != nil {
		ch <- ai.Chunk{Err: f.err}
	} else {
		ch <- ai.Chunk{Text: f.reply}
	}
	close(ch)
	return ch
}

func (f *fakeTextGen) Complete(ctx context.Context, req ai.GenerateRequest) (string, error) {
	f.reqs = append(f.reqs, req)
	return f.reply, f.err
}

func (f *fakeTextGen) Ping(ctx context.Context) error { return nil }

func swapImageClient(t *testing.T, fake *fakeImageGen) {
	t.Helper()
	orig := newImageClient
	t.Cleanup(func() { newImageClient = orig })
	newImageClient = func(cfg cfgpkg.Config) (ai.ImageGenerator, error) {
		return fake, nil
	}
}

func swapTextClient(t *testing.T, fake *fakeTextGen) {
	t.Helper()
	orig := newTextClient
	t.Cleanup(func() { newTextClient = orig })
	newTextClient = func(cfg cfgpkg.Config) ai.TextGenerator { return fake }
}

// Unset every config env var so exported LOKAI_*/AWS_* values on a
// developer machine cannot flip test outcomes. t.Setenv registers the
// restore; Unsetenv removes the variable for the test body.
func pinEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"LOKAI_MODEL", "LOKAI_BACKEND_URL", "LOKAI_MAX_HISTORY_TURNS",
		"LOKAI_SDXL_URL", "LOKAI_IMAGE_PROVIDER", "LOKAI_IMAGE_MODEL",
		"LOKAI_OUTPUT_DIR", "LOKAI_OVERWRITE",
		"AWS_S3_BUCKET", "AWS_S3_PREFIX", "AWS_REGION", "OPENAI_API_KEY",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func chdirTemp(t *testing.T) string {
	t.Helper()
	pinEnv(t)
	origWD, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	tmp := t.TempDir()
	if err := os.Chdir(tmp); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(origWD) })
	return tmp
}

func TestGenerateWritesImage(t *testing.T) {
	tmp := chdirTemp(t)
	fake := &fakeImageGen{data: []byte("png-bytes")}
	swapImageClient(t, fake)

	if code := run([]string{"generate", "--out=test.png", "lighthouse", "at", "dusk"}); code != 0 {
		t.Fatalf("generate returned non-zero: %d", code)
	}
	data, err := os.ReadFile(filepath.Join(tmp, "sdxl-outputs", "test.png"))
	if err != nil {
		t.Fatalf("output not written: %v", err)
	}
	if string(data) != "png-bytes" {
		t.Fatalf("output bytes = %q", data)
	}
	if len(fake.reqs) != 1 || fake.reqs[0].Prompt != "lighthouse at dusk" {
		t.Fatalf("reqs = %+v", fake.reqs)
	}
	if fake.reqs[0].Width != 768 || fake.reqs[0].Height != 1024 || fake.reqs[0].Steps != 30 {
		t.Fatalf("config defaults not applied: %+v", fake.reqs[0])
	}
}

func TestGenerateFlagOverrides(t *testing.T) {
	chdirTemp(t)
	fake := &fakeImageGen{data: []byte("x")}
	swapImageClient(t, fake)

	args := []string{"generate", "--out=a.png", "--width=512", "--height=640", "--steps=12", "--negative=ugly", "p"}
	if code := run(args); code != 0 {
		t.Fatalf("generate returned non-zero: %d", code)
	}
	req := fake.reqs[0]
	if req.Width != 512 || req.Height != 640 || req.Steps != 12 || req.NegativePrompt != "ugly" {
		t.Fatalf("overrides not applied: %+v", req)
	}
}

func TestGenerateRefusesOverwrite(t *testing.T) {
	tmp := chdirTemp(t)
	fake := &fakeImageGen{data: []byte("x")}
	swapImageClient(t, fake)

	outDir := filepath.Join(tmp, "sdxl-outputs")
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(outDir, "a.png"), []byte("old"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	if code := run([]string{"generate", "--out=a.png", "p"}); code == 0 {
		t.Fatalf("expected non-zero without --overwrite")
	}
	if code := run([]string{"generate", "--out=a.png", "--overwrite", "p"}); code != 0 {
		t.Fatalf("generate with --overwrite returned non-zero")
	}
}

func TestGenerateRequiresPrompt(t *testing.T) {
	chdirTemp(t)
	fake := &fakeImageGen{data: []byte("x")}
	swapImageClient(t, fake)

	if code := run([]string{"generate"}); code == 0 {
		t.Fatalf("expected non-zero without prompt")
	}
}

func TestGenerateImproveRewritesPrompt(t *testing.T) {
	chdirTemp(t)
	fakeImg := &fakeImageGen{data: []byte("x")}
	swapImageClient(t, fakeImg)
	fakeText := &fakeTextGen{reply: "a cinematic lighthouse, volumetric light"}
	swapTextClient(t, fakeText)

	if code := run([]string{"generate", "--out=a.png", "--improve", "lighthouse"}); code != 0 {
		t.Fatalf("generate returned non-zero")
	}
	if len(fakeText.reqs) != 1 || !strings.Contains(fakeText.reqs[0].Prompt, "lighthouse") {
		t.Fatalf("improve prompt not sent: %+v", fakeText.reqs)
	}
	if fakeImg.reqs[0].Prompt != "a cinematic lighthouse, volumetric light" {
		t.Fatalf("improved prompt not used: %q", fakeImg.reqs[0].Prompt)
	}
}

func TestGenerateImproveFailureKeepsOriginal(t *testing.T) {
	chdirTemp(t)
	fakeImg := &fakeImageGen{data: []byte("x")}
	swapImageClient(t, fakeImg)
	fakeText := &fakeTextGen{err: errors.New("down")}
	swapTextClient(t, fakeText)

	if code := run([]string{"generate", "--out=a.png", "--improve", "lighthouse"}); code != 0 {
		t.Fatalf("improve failure should not fail generation")
	}
	if fakeImg.reqs[0].Prompt != "lighthouse" {
		t.Fatalf("original prompt not kept: %q", fakeImg.reqs[0].Prompt)
	}
}
