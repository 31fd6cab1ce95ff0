package main

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestRun_EchoesLinesAndTrailer(t *testing.T) {
	in := strings.NewReader("first\r\nsecond\nthird")
	var out strings.Builder

	if err := run(in, &out, "default", 64); err != nil {
		t.Fatalf("run: %v", err)
	}

	got := out.String()
	for _, want := range []string{"first", "second", "third"} {
		if !strings.Contains(got, want) {
			t.Fatalf("output %q missing line %q", got, want)
		}
	}
	if !strings.Contains(got, "revision") {
		t.Fatalf("output %q missing trailing stats line", got)
	}
}

func TestRun_UnknownPresetIsError(t *testing.T) {
	in := strings.NewReader("x")
	var out strings.Builder
	if err := run(in, &out, "no-such-preset", 64); err == nil {
		t.Fatal("expected error for unknown preset")
	}
}

func TestBuildPbcat(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	out := filepath.Join(os.TempDir(), "pbcat_test_bin")
	cmd := exec.CommandContext(ctx, "go", "build", "-o", out, ".")
	cmd.Env = os.Environ()
	if outp, err := cmd.CombinedOutput(); err != nil {
		_ = os.Remove(out)
		t.Fatalf("go build failed: %v\n%s", err, string(outp))
	}
	_ = os.Remove(out)
}
