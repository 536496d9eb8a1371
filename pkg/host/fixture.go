package host

import (
	"fmt"
	"os"

	"github.com/mj1618/agentation/internal/model"
	"gopkg.in/yaml.v3"
)

// Fixture is the YAML description of an application's UI tree.
type Fixture struct {
	Screen  [2]float64      `yaml:"screen"`
	Windows []FixtureWindow `yaml:"windows"`
}

// FixtureWindow describes one window.
type FixtureWindow struct {
	Class   string        `yaml:"class"`
	Frame   []float64     `yaml:"frame,omitempty"`
	Level   int           `yaml:"level,omitempty"`
	Key     bool          `yaml:"key,omitempty"`
	Screens []string      `yaml:"screens,omitempty"`
	Views   []FixtureView `yaml:"views,omitempty"`
}

// FixtureView describes one view and its subtree.
type FixtureView struct {
	Type       string        `yaml:"type"`
	Frame      []float64     `yaml:"frame"`
	Tag        string        `yaml:"tag,omitempty"`
	Identifier string        `yaml:"id,omitempty"`
	Label      string        `yaml:"label,omitempty"`
	Value      string        `yaml:"value,omitempty"`
	Screen     string        `yaml:"screen,omitempty"`
	Hidden     bool          `yaml:"hidden,omitempty"`
	Alpha      *float64      `yaml:"alpha,omitempty"`
	Offset     []float64     `yaml:"offset,omitempty"`
	Accessible bool          `yaml:"accessible,omitempty"`
	Traits     []string      `yaml:"traits,omitempty"`
	Focused    bool          `yaml:"focused,omitempty"`
	Children   []FixtureView `yaml:"children,omitempty"`
}

// LoadFixture reads a YAML fixture file and builds the app it describes.
func LoadFixture(path string) (*App, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture: %w", err)
	}
	return ParseFixture(data)
}

// ParseFixture builds an app from YAML fixture bytes.
func ParseFixture(data []byte) (*App, error) {
	var f Fixture
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse fixture: %w", err)
	}
	return f.Build()
}

// Build constructs the live tree described by the fixture.
func (f Fixture) Build() (*App, error) {
	screen := model.Size{Width: f.Screen[0], Height: f.Screen[1]}
	if screen.Width <= 0 || screen.Height <= 0 {
		return nil, fmt.Errorf("fixture screen size must be positive, got %v", f.Screen)
	}
	app := NewApp(screen)
	for i, fw := range f.Windows {
		frame := model.Rect{Width: screen.Width, Height: screen.Height}
		if fw.Frame != nil {
			r, err := rectFrom(fw.Frame)
			if err != nil {
				return nil, fmt.Errorf("window %d: %w", i, err)
			}
			frame = r
		}
		class := fw.Class
		if class == "" {
			class = "UIWindow"
		}
		w := NewWindow(class, frame)
		w.Level = fw.Level
		w.Key = fw.Key
		for _, s := range fw.Screens {
			w.PushScreen(s)
		}
		for j, fv := range fw.Views {
			v, err := buildView(app, fv)
			if err != nil {
				return nil, fmt.Errorf("window %d view %d: %w", i, j, err)
			}
			w.Root().AddSubview(v)
		}
		app.AddWindow(w)
	}
	return app, nil
}

func buildView(app *App, fv FixtureView) (*View, error) {
	frame, err := rectFrom(fv.Frame)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", fv.Type, err)
	}
	v := NewView(fv.Type, frame)
	v.Tag = fv.Tag
	v.Identifier = fv.Identifier
	v.Label = fv.Label
	v.Value = fv.Value
	v.Screen = fv.Screen
	v.Hidden = fv.Hidden
	if fv.Alpha != nil {
		v.Alpha = *fv.Alpha
	}
	if len(fv.Offset) == 2 {
		v.ContentOffset = model.Point{X: fv.Offset[0], Y: fv.Offset[1]}
	}
	v.AccessibilityElement = fv.Accessible
	for _, name := range fv.Traits {
		t, ok := model.ParseTrait(name)
		if !ok {
			return nil, fmt.Errorf("unknown trait %q", name)
		}
		v.Traits |= t
	}
	if fv.Focused {
		app.Focus(v)
	}
	for _, c := range fv.Children {
		child, err := buildView(app, c)
		if err != nil {
			return nil, err
		}
		v.AddSubview(child)
	}
	return v, nil
}

func rectFrom(vals []float64) (model.Rect, error) {
	if len(vals) != 4 {
		return model.Rect{}, fmt.Errorf("frame must be [x, y, w, h], got %v", vals)
	}
	return model.R(vals[0], vals[1], vals[2], vals[3]), nil
}
