package cmd

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/mj1618/agentation/internal/output"
)

func TestCaptureCommand_Flags(t *testing.T) {
	flags := captureCmd.Flags()

	tests := []struct {
		name     string
		flagType string
	}{
		{"source", "string"},
		{"include-hidden", "bool"},
		{"include-system", "bool"},
		{"type", "string"},
		{"text", "string"},
		{"region", "string"},
	}

	for _, tt := range tests {
		f := flags.Lookup(tt.name)
		if f == nil {
			t.Errorf("expected flag %q not found", tt.name)
			continue
		}
		if f.Value.Type() != tt.flagType {
			t.Errorf("flag %q: expected type %q, got %q", tt.name, tt.flagType, f.Value.Type())
		}
	}
}

func TestCaptureCommand(t *testing.T) {
	tests := []struct {
		name  string
		args  []string
		total int
	}{
		{"defaults", nil, 4},
		{"include hidden", []string{"--include-hidden"}, 5},
		{"include system", []string{"--include-system"}, 5},
		{"accessibility", []string{"--source", "accessibility"}, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"capture", loginFixture, "--format", "json"}, tt.args...)
			out, err := execute(t, args...)
			if err != nil {
				t.Fatalf("capture: %v\n%s", err, out)
			}
			var res output.CaptureResult
			if err := json.Unmarshal([]byte(out), &res); err != nil {
				t.Fatalf("decode: %v\n%s", err, out)
			}
			if res.Total != tt.total {
				t.Errorf("total = %d, want %d", res.Total, tt.total)
			}
			if res.Page != "LoginViewController" {
				t.Errorf("page = %q", res.Page)
			}
		})
	}
}

func TestCaptureCommand_MissingFixture(t *testing.T) {
	if _, err := execute(t, "capture", "../testdata/nope.yaml"); err == nil {
		t.Error("expected error for missing fixture")
	}
}

func TestHitTestCommand(t *testing.T) {
	out, err := execute(t, "hit-test", loginFixture, "--at", "100,525")
	if err != nil {
		t.Fatalf("hit-test: %v\n%s", err, out)
	}
	if !strings.Contains(out, "found: true") || !strings.Contains(out, "#loginButton") {
		t.Errorf("unexpected output:\n%s", out)
	}

	out, err = execute(t, "hit-test", loginFixture, "--at", "5,700")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "found: false") {
		t.Errorf("empty area should not hit:\n%s", out)
	}

	if _, err := execute(t, "hit-test", loginFixture); err == nil {
		t.Error("expected error without --at")
	}
}

func TestCaptureCommand_Filters(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want int
	}{
		{"type", []string{"--type", "input"}, 2},
		{"types", []string{"--type", "button, text"}, 2},
		{"text", []string{"--text", "password"}, 1},
		{"region", []string{"--region", "0,290,375,60"}, 1},
		{"combined", []string{"--type", "input", "--text", "email"}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"capture", loginFixture, "--format", "json"}, tt.args...)
			out, err := execute(t, args...)
			if err != nil {
				t.Fatalf("capture: %v\n%s", err, out)
			}
			var res output.CaptureResult
			if err := json.Unmarshal([]byte(out), &res); err != nil {
				t.Fatalf("decode: %v\n%s", err, out)
			}
			if len(res.Elements) != tt.want {
				t.Errorf("elements = %d, want %d", len(res.Elements), tt.want)
			}
			if res.Total != 4 {
				t.Errorf("total = %d, want the unfiltered 4", res.Total)
			}
		})
	}
}
