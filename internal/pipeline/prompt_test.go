package pipeline

import (
	"strings"
	"testing"
)

func TestBuildPrompt_ConfiguredWins(t *testing.T) {
	got := BuildPrompt("  a fox in a spacesuit  ", "Ignored Title")
	if got != "a fox in a spacesuit" {
		t.Fatalf("expected configured prompt, got %q", got)
	}
}

func TestBuildPrompt_TemplatesTitle(t *testing.T) {
	got := BuildPrompt("", "midnight garden")
	if !strings.Contains(got, "Midnight Garden") {
		t.Fatalf("expected title-cased title in %q", got)
	}
	if !strings.Contains(got, "t-shirt graphic illustration") {
		t.Fatalf("template missing from %q", got)
	}
}

func TestBuildPrompt_DefaultTitle(t *testing.T) {
	got := BuildPrompt("", "   ")
	if !strings.Contains(got, "AI Generated Product") {
		t.Fatalf("expected default title in %q", got)
	}
}
