package output

import (
	"fmt"

	"github.com/mj1618/agentation/internal/model"
)

// Format represents the CLI output format.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// OutputFormat is the current output format, set by the root command's --format flag.
var OutputFormat Format = FormatYAML

// PrettyOutput enables pretty-printing for JSON output.
var PrettyOutput bool

// CaptureResult is the top-level output of the `capture` command.
type CaptureResult struct {
	Page     string                  `yaml:"page"               json:"page"`
	Source   model.SourceType        `yaml:"source"             json:"source"`
	Viewport string                  `yaml:"viewport"           json:"viewport"`
	TS       int64                   `yaml:"ts"                 json:"ts"`
	Total    int                     `yaml:"total,omitempty"    json:"total,omitempty"`
	Elements []model.SnapshotElement `yaml:"elements"           json:"elements"`
}

// HitTestResult is the output of the `hit-test` command.
type HitTestResult struct {
	X       float64                `yaml:"x"                 json:"x"`
	Y       float64                `yaml:"y"                 json:"y"`
	Found   bool                   `yaml:"found"             json:"found"`
	Element *model.SnapshotElement `yaml:"element,omitempty" json:"element,omitempty"`
}

// Print serializes v to stdout in the current output format.
func Print(v interface{}) error {
	switch OutputFormat {
	case FormatJSON:
		return PrintJSON(v, PrettyOutput)
	case FormatYAML:
		return PrintYAML(v)
	default:
		return fmt.Errorf("unsupported output format: %s", OutputFormat)
	}
}

// NewCaptureResult builds the capture output for snap.
func NewCaptureResult(snap *model.HierarchySnapshot) CaptureResult {
	return CaptureResult{
		Page:     snap.PageName,
		Source:   snap.SourceType,
		Viewport: snap.ViewportSize.String(),
		TS:       snap.CapturedAt.Unix(),
		Total:    len(snap.LeafElements),
		Elements: snap.LeafElements,
	}
}
