package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rheumaview/rheumaview/internal/model"
)

func TestRegionsCmd(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	cmd := NewRegionsCmd()
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	output := buf.String()
	for _, region := range model.Regions {
		if !strings.Contains(output, "  "+region+"\n") {
			t.Errorf("expected region %q in output", region)
		}
	}
	for _, want := range []string{
		"sacroiliitis (Sacroiliitis)",
		"levels:  low, moderate, high",
		"dish (",
		"Structured peripheral joint template:",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in output:\n%s", want, output)
		}
	}
}

func TestRegionsCmdRejectsArgs(t *testing.T) {
	t.Parallel()

	cmd := NewRegionsCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"Hand"})

	if err := cmd.Execute(); err == nil {
		t.Error("expected error for unexpected argument")
	}
}
