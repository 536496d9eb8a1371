package platform

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mj1618/agentation/internal/model"
)

// PointerPhase is the phase of a pointer event.
type PointerPhase int

const (
	PointerDown PointerPhase = iota
	PointerMove
	PointerUp
	PointerCancel
	PointerHover
	PointerExit
)

// ParsePointerPhase converts a string value to PointerPhase.
func ParsePointerPhase(s string) (PointerPhase, error) {
	switch strings.ToLower(s) {
	case "down":
		return PointerDown, nil
	case "move", "drag":
		return PointerMove, nil
	case "up":
		return PointerUp, nil
	case "cancel":
		return PointerCancel, nil
	case "hover":
		return PointerHover, nil
	case "exit":
		return PointerExit, nil
	default:
		return PointerDown, fmt.Errorf("unknown pointer phase: %q (expected down, move, up, cancel, hover or exit)", s)
	}
}

func parseFloats(s string, n int, what string) ([]float64, error) {
	parts := strings.Split(s, ",")
	if len(parts) != n {
		return nil, fmt.Errorf("invalid %s %q: expected %d comma-separated numbers", what, s, n)
	}
	vals := make([]float64, n)
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid %s %q: %w", what, s, err)
		}
		vals[i] = v
	}
	return vals, nil
}

// ParsePoint parses an "x,y" string.
func ParsePoint(s string) (model.Point, error) {
	v, err := parseFloats(s, 2, "point")
	if err != nil {
		return model.Point{}, err
	}
	return model.Point{X: v[0], Y: v[1]}, nil
}

// ParseRect parses an "x,y,w,h" string.
func ParseRect(s string) (model.Rect, error) {
	v, err := parseFloats(s, 4, "rect")
	if err != nil {
		return model.Rect{}, err
	}
	return model.R(v[0], v[1], v[2], v[3]), nil
}

// FormatPoint is the inverse of ParsePoint.
func FormatPoint(p model.Point) string {
	return strconv.FormatFloat(p.X, 'f', -1, 64) + "," + strconv.FormatFloat(p.Y, 'f', -1, 64)
}
