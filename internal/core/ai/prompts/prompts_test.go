package prompts

import (
	"strings"
	"testing"
)

func TestOrganizeFillsPlaceholders(t *testing.T) {
	p := Organize("went for a run this morning", "Had coffee with Sam.")

	if !strings.Contains(p, "went for a run this morning") {
		t.Error("prompt missing transcript")
	}
	if !strings.Contains(p, "Had coffee with Sam.") {
		t.Error("prompt missing ongoing entries")
	}
	if strings.Contains(p, "{{") {
		t.Error("unfilled placeholder in prompt")
	}
}

func TestOrganizeEmptyOngoingEntries(t *testing.T) {
	p := Organize("first entry of the day", "   ")

	if !strings.Contains(p, "No previous entries yet.") {
		t.Error("empty ongoing entries should be marked explicitly")
	}
}

func TestSummarizeFillsPlaceholder(t *testing.T) {
	p := Summarize("entry one\n\nentry two")

	if !strings.Contains(p, "entry one\n\nentry two") {
		t.Error("prompt missing journal content")
	}
	if strings.Contains(p, "{{") {
		t.Error("unfilled placeholder in prompt")
	}
}
