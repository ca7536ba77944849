package smoke

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestRun_Output(t *testing.T) {
	var buf bytes.Buffer
	if err := Run(context.Background(), &buf); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	want := "Some(Some(Some(43)))\n" +
		"1, 2, 3\n" +
		"2, 3, 4\n" +
		"\n"
	if got := buf.String(); got != want {
		t.Errorf("output mismatch:\ngot:\n%q\nwant:\n%q", got, want)
	}
}

func TestRun_FourLines(t *testing.T) {
	var buf bytes.Buffer
	if err := Run(context.Background(), &buf); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("got %d lines, want 4: %q", len(lines), lines)
	}
	if lines[3] != "" {
		t.Errorf("line 4 = %q, want empty", lines[3])
	}
}

// The mapped sequence must have as many rendered tokens as the input,
// whatever the guest's element transform is.
func TestRun_MappedLineTokenCount(t *testing.T) {
	var buf bytes.Buffer
	if err := Run(context.Background(), &buf); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	lines := strings.Split(buf.String(), "\n")
	inTokens := strings.Split(lines[1], ", ")
	outTokens := strings.Split(lines[2], ", ")
	if len(inTokens) != len(outTokens) {
		t.Errorf("token counts differ: %d vs %d", len(inTokens), len(outTokens))
	}
}
