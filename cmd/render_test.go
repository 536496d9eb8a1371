package cmd

import (
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func TestRenderCommand_WritesPNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "overlay.png")
	out, err := execute(t, "render", loginFixture, "--out", path, "--scale", "2",
		"--note", "100,525=Bigger", "--hover", "30,110",
		"--event", "down@200,510", "--event", "cancel@200,510")
	if err != nil {
		t.Fatalf("render: %v\n%s", err, out)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 750 || b.Dy() != 1624 {
		t.Errorf("image size = %dx%d, want 750x1624", b.Dx(), b.Dy())
	}
}

func TestRenderCommand_Errors(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name string
		args []string
	}{
		{"no out", nil},
		{"bad scale", []string{"--out", filepath.Join(dir, "a.png"), "--scale", "0"}},
		{"bad hover", []string{"--out", filepath.Join(dir, "b.png"), "--hover", "x"}},
		{"bad event", []string{"--out", filepath.Join(dir, "c.png"), "--event", "jump@1,2"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"render", loginFixture}, tt.args...)
			if _, err := execute(t, args...); err == nil {
				t.Error("expected error")
			}
		})
	}
}
