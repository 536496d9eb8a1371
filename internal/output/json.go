package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
)

// PrintJSON serializes v to stdout as JSON.
// If pretty is true, uses indentation; otherwise single-line.
func PrintJSON(v interface{}, pretty bool) error {
	enc := json.NewEncoder(os.Stdout)
	if pretty {
		enc.SetIndent("", "  ")
	}
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("json encode: %w", err)
	}
	return nil
}

// marshalExport encodes export payloads. Tests replace it to force the
// markdown fallback path.
var marshalExport = func(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// Field order is alphabetical so the encoder emits sorted keys.
type jsonPage struct {
	Items    []jsonItem `json:"items"`
	Page     string     `json:"page"`
	Viewport jsonSize   `json:"viewport"`
}

type jsonSize struct {
	Height int `json:"height"`
	Width  int `json:"width"`
}

type jsonItem struct {
	DisplayName string    `json:"displayName"`
	Feedback    string    `json:"feedback"`
	Frame       jsonFrame `json:"frame"`
	Path        string    `json:"path"`
	Screen      string    `json:"screen,omitempty"`
	Type        string    `json:"type"`
}

type jsonFrame struct {
	Height int `json:"height"`
	Width  int `json:"width"`
	X      int `json:"x"`
	Y      int `json:"y"`
}

// JSON encodes the page as sorted-key, two-space indented JSON with integer
// pixel values. On failure no bytes are returned.
func (p PageFeedback) JSON() ([]byte, error) {
	out := jsonPage{
		Items: make([]jsonItem, 0, len(p.Items)),
		Page:  p.PageName,
		Viewport: jsonSize{
			Height: int(p.Viewport.Height),
			Width:  int(p.Viewport.Width),
		},
	}
	for _, item := range p.Items {
		f := item.ElementFrame.Int()
		out.Items = append(out.Items, jsonItem{
			DisplayName: item.ElementDisplayName,
			Feedback:    item.Text,
			Frame:       jsonFrame{X: f[0], Y: f[1], Width: f[2], Height: f[3]},
			Path:        item.ElementPath,
			Screen:      item.ScreenName,
			Type:        item.ElementShortType,
		})
	}
	data, err := marshalExport(out)
	if err != nil {
		return nil, fmt.Errorf("encode feedback json: %w", err)
	}
	return data, nil
}
