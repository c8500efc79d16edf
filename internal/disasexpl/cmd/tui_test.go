package cmd

import (
	"strings"
	"testing"

	"disasexpl/internal/analysis"
	"disasexpl/internal/asm"
	"disasexpl/internal/config"
	"disasexpl/internal/document"
)

func testSettings() *settings {
	return &settings{
		cfg:    config.Default(),
		filter: asm.DefaultFilter(),
		parser: asm.NewParser(),
	}
}

func TestModel_NextMode(t *testing.T) {
	s := testSettings()
	m := newModel("main.S", s)

	// No labels yet: the labels view is skipped.
	if got := m.nextMode(1); got != viewDetails {
		t.Errorf("nextMode(1) without labels = %v, want %v", got, viewDetails)
	}

	m.setDocument(document.FromText("main.S", testListing, s.parser, s.filter))
	if got := m.nextMode(1); got != viewLabels {
		t.Errorf("nextMode(1) = %v, want %v", got, viewLabels)
	}
	if got := m.nextMode(-1); got != viewDetails {
		t.Errorf("nextMode(-1) = %v, want %v", got, viewDetails)
	}
}

func TestModel_MoveCursor(t *testing.T) {
	s := testSettings()
	m := newModel("main.S", s)
	m.setDocument(document.FromText("main.S", testListing, s.parser, s.filter))

	// main:, pushq, jmp, .L2:, popq, ret
	want := []int{1, 2, 4, 5, 5}
	for i, w := range want {
		m.moveCursor(true)
		if m.cursor != w {
			t.Fatalf("step %d: cursor = %d, want %d", i, m.cursor, w)
		}
	}

	m.moveCursor(false)
	m.moveCursor(false)
	if m.cursor != 2 {
		t.Errorf("cursor = %d, want 2", m.cursor)
	}
	if m.mode != viewListing {
		t.Errorf("mode = %v, want listing", m.mode)
	}
}

func TestDetailsMarkdown(t *testing.T) {
	s := testSettings()

	if got := detailsMarkdown("/tmp/main.S", nil, nil, s); !strings.Contains(got, "Loading") {
		t.Errorf("details without document:\n%s", got)
	}

	doc := document.FromText("/tmp/main.S", testListing, s.parser, s.filter)
	got := detailsMarkdown("/tmp/main.S", doc, analysis.Labels(doc.Result), s)
	for _, want := range []string{"# main.S", "- Lines: 6", "- Lines with a source position: 4", "- Labels: 2 (1 local)", "/src/main.c",
		"## Input", "- directive: 7", "- label: 3", "- data: 1", "- instruction: 4"} {
		if !strings.Contains(got, want) {
			t.Errorf("details missing %q:\n%s", want, got)
		}
	}
}

func TestNonLocal(t *testing.T) {
	labels := []analysis.Label{
		{Name: "main"},
		{Name: ".L2", Local: true},
		{Name: "helper"},
	}
	got := nonLocal(labels)
	if len(got) != 2 || got[0].Name != "main" || got[1].Name != "helper" {
		t.Errorf("nonLocal = %+v", got)
	}
	if len(labels) != 3 || labels[1].Name != ".L2" {
		t.Error("nonLocal modified its input")
	}
}
