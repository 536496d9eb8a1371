package server

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mj1618/agentation/internal/model"
	"github.com/mj1618/agentation/internal/output"
	"github.com/mj1618/agentation/internal/overlay"
	"github.com/mj1618/agentation/pkg/agentation"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

var errNoSession = errors.New("no capture session")

// sessionStatus is the result of the lifecycle tools.
type sessionStatus struct {
	State    string `yaml:"state"              json:"state"`
	Page     string `yaml:"page,omitempty"     json:"page,omitempty"`
	Elements int    `yaml:"elements,omitempty" json:"elements,omitempty"`
	Feedback int    `yaml:"feedback"           json:"feedback"`
}

// onLoop runs fn on the UI loop and serializes its result. Strings are
// returned as-is and everything else as YAML.
func (s *Server) onLoop(ctx context.Context, tool string, fn func() (interface{}, error)) (*mcp.CallToolResult, error) {
	var (
		v   interface{}
		err error
	)
	if doErr := s.loop.Do(ctx, func() { v, err = fn() }); doErr != nil {
		err = doErr
	}
	if err != nil {
		s.logger.Debug("tool failed", zap.String("tool", tool), zap.Error(err))
		return mcp.NewToolResultError(err.Error()), nil
	}
	if text, ok := v.(string); ok {
		return mcp.NewToolResultText(text), nil
	}
	b, err := yaml.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(b)), nil
}

// status must be called on the loop.
func (s *Server) status() sessionStatus {
	st := sessionStatus{State: s.agent.State().String()}
	sess := s.agent.Session()
	if sess == nil {
		sess = s.agent.LastSession()
	}
	if sess != nil {
		st.Page = sess.Snapshot().PageName
		st.Elements = len(sess.Snapshot().LeafElements)
		st.Feedback = sess.Count()
	}
	return st
}

func (s *Server) handleStart(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.onLoop(ctx, "start_session", func() (interface{}, error) {
		if err := s.agent.Start(ctx); err != nil {
			return nil, err
		}
		s.cache.InvalidateAll()
		return s.status(), nil
	})
}

func (s *Server) handleStop(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	format, err := exportFormat(request.GetArguments())
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return s.onLoop(ctx, "stop_session", func() (interface{}, error) {
		if s.agent.Session() == nil {
			return nil, errNoSession
		}
		s.agent.Stop()
		text, _ := s.agent.FormatFeedback(s.orConfigured(format), false)
		return text, nil
	})
}

func (s *Server) handleTogglePause(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.onLoop(ctx, "toggle_pause", func() (interface{}, error) {
		if s.agent.Session() == nil {
			return nil, errNoSession
		}
		if err := s.agent.TogglePause(ctx); err != nil {
			return nil, err
		}
		return s.status(), nil
	})
}

func (s *Server) handleStatus(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.onLoop(ctx, "session_status", func() (interface{}, error) {
		return s.status(), nil
	})
}

func (s *Server) handleCapture(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := request.GetArguments()
	return s.onLoop(ctx, "capture_hierarchy", func() (interface{}, error) {
		set := s.agent.Settings()
		key := settingsKey(set)
		if src := stringParam(params, "source", ""); src != "" {
			kind, err := model.ParseSourceType(src)
			if err != nil {
				return nil, err
			}
			key.Source = kind
		}
		key.IncludeHidden = boolParam(params, "include_hidden", key.IncludeHidden)
		key.IncludeSystem = boolParam(params, "include_system", key.IncludeSystem)

		var (
			snap *model.HierarchySnapshot
			err  error
		)
		if key == settingsKey(set) {
			snap, err = s.snapshot(ctx)
		} else {
			// Overrides apply to this call only.
			snap, err = s.cache.Snapshot(key, func() (*model.HierarchySnapshot, error) {
				return s.agent.CaptureWith(ctx, agentation.CaptureOptions{
					DataSource:         key.Source,
					IncludeHidden:      key.IncludeHidden,
					IncludeSystemViews: key.IncludeSystem,
				})
			})
		}
		if err != nil {
			return nil, err
		}
		res := output.NewCaptureResult(snap)
		var types []string
		for _, t := range strings.Split(stringParam(params, "types", ""), ",") {
			if t = strings.TrimSpace(t); t != "" {
				types = append(types, t)
			}
		}
		res.Elements = model.FilterElements(res.Elements, types, nil)
		res.Elements = model.FilterByText(res.Elements, stringParam(params, "text", ""))
		return res, nil
	})
}

func settingsKey(set overlay.Settings) cacheKey {
	return cacheKey{Source: set.DataSource, IncludeHidden: set.IncludeHidden, IncludeSystem: set.IncludeSystemViews}
}

// snapshot returns the active session's fresh capture, or a cached idle one.
// It must be called on the loop.
func (s *Server) snapshot(ctx context.Context) (*model.HierarchySnapshot, error) {
	if s.agent.Session() != nil {
		return s.agent.CaptureHierarchy(ctx)
	}
	return s.cache.Snapshot(settingsKey(s.agent.Settings()), func() (*model.HierarchySnapshot, error) {
		return s.agent.CaptureHierarchy(ctx)
	})
}

func (s *Server) handleHitTest(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	p, err := pointParam(request.GetArguments())
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return s.onLoop(ctx, "hit_test", func() (interface{}, error) {
		res := output.HitTestResult{X: p.X, Y: p.Y}
		var (
			el model.SnapshotElement
			ok bool
		)
		if sess := s.agent.Session(); sess != nil {
			el, ok = sess.HitTest(p)
		} else {
			snap, err := s.snapshot(ctx)
			if err != nil {
				return nil, err
			}
			el, ok = snap.ElementAt(p)
		}
		if ok {
			res.Found = true
			res.Element = &el
		}
		return res, nil
	})
}

func (s *Server) handleAddFeedback(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := request.GetArguments()
	p, err := pointParam(params)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	text := strings.TrimSpace(stringParam(params, "text", ""))
	if text == "" {
		return mcp.NewToolResultError("text is required"), nil
	}
	return s.onLoop(ctx, "add_feedback", func() (interface{}, error) {
		if _, idle := s.agent.State().(agentation.Idle); idle {
			if err := s.agent.Start(ctx); err != nil {
				return nil, err
			}
			s.cache.InvalidateAll()
		}
		item, ok := s.agent.AddFeedback(p, text)
		if !ok {
			return nil, fmt.Errorf("no element at %g,%g", p.X, p.Y)
		}
		return item, nil
	})
}

func (s *Server) handleRemoveFeedback(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := stringParam(request.GetArguments(), "id", "")
	if id == "" {
		return mcp.NewToolResultError("id is required"), nil
	}
	return s.onLoop(ctx, "remove_feedback", func() (interface{}, error) {
		if s.agent.Session() == nil {
			return nil, errNoSession
		}
		s.agent.RemoveFeedback(id)
		return s.status(), nil
	})
}

func (s *Server) handleListFeedback(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.onLoop(ctx, "list_feedback", func() (interface{}, error) {
		fb, ok := s.agent.Export()
		if !ok {
			return nil, errNoSession
		}
		return fb, nil
	})
}

func (s *Server) handleExport(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := request.GetArguments()
	format, err := exportFormat(params)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	group := boolParam(params, "group_by_screen", false)
	return s.onLoop(ctx, "export_feedback", func() (interface{}, error) {
		text, ok := s.agent.FormatFeedback(s.orConfigured(format), group)
		if !ok {
			return nil, errNoSession
		}
		return text, nil
	})
}

func (s *Server) handleCopy(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.onLoop(ctx, "copy_feedback", func() (interface{}, error) {
		text, ok := s.agent.CopyFeedback()
		if !ok {
			return nil, errNoSession
		}
		return text, nil
	})
}

func (s *Server) handleClear(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.onLoop(ctx, "clear_feedback", func() (interface{}, error) {
		if s.agent.Session() == nil {
			return nil, errNoSession
		}
		s.agent.ClearFeedback()
		return s.status(), nil
	})
}

func pointParam(params map[string]interface{}) (model.Point, error) {
	x, okX := floatParam(params, "x")
	y, okY := floatParam(params, "y")
	if !okX || !okY {
		return model.Point{}, errors.New("x and y are required")
	}
	return model.Point{X: x, Y: y}, nil
}

// exportFormat reads the optional format argument. An empty result means
// the configured format.
func exportFormat(params map[string]interface{}) (output.ExportFormat, error) {
	f := stringParam(params, "format", "")
	if f == "" {
		return "", nil
	}
	return output.ParseExportFormat(f)
}

// orConfigured must be called on the loop.
func (s *Server) orConfigured(f output.ExportFormat) output.ExportFormat {
	if f == "" {
		return s.agent.OutputFormat()
	}
	return f
}
