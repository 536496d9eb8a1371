package toolbar

import (
	"github.com/mj1618/agentation/internal/model"
	"github.com/mj1618/agentation/internal/platform"
	"go.uber.org/zap"
)

func (t *Toolbar) loadPosition() (model.Point, bool) {
	if t.store == nil {
		return model.Point{}, false
	}
	raw, ok := t.store.Get(PositionKey)
	if !ok {
		return model.Point{}, false
	}
	p, err := platform.ParsePoint(raw)
	if err != nil {
		t.logger.Debug("ignoring stored toolbar position", zap.String("value", raw), zap.Error(err))
		return model.Point{}, false
	}
	return p, true
}

// savePosition is best-effort: failures are logged and otherwise ignored.
func (t *Toolbar) savePosition() {
	if t.store == nil {
		return
	}
	if err := t.store.Set(PositionKey, platform.FormatPoint(t.origin)); err != nil {
		t.logger.Debug("persist toolbar position", zap.Error(err))
	}
}
