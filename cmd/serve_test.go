package cmd

import "testing"

func TestServeCommand_Flags(t *testing.T) {
	flags := serveCmd.Flags()

	tests := []struct {
		name     string
		flagType string
	}{
		{"transport", "string"},
		{"port", "int"},
		{"cache-ttl", "int"},
		{"watch-config", "bool"},
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

func TestServeCommand_RequiresFixture(t *testing.T) {
	if _, err := execute(t, "serve"); err == nil {
		t.Error("expected error without a fixture argument")
	}
}
