package treemodel

import (
	"context"
	"io"
	"log/slog"
)

// Observer receives structural-change notifications. Begin/End calls always
// come in pairs around a single edit, so between pairs the tree is consistent.
type Observer interface {
	BeginRemoveRows(parent Index, first, last int)
	EndRemoveRows()
	BeginInsertRows(parent Index, first, last int)
	EndInsertRows()
	DataChanged(index Index)
}

// NoopObserver ignores all notifications.
type NoopObserver struct{}

func (NoopObserver) BeginRemoveRows(Index, int, int) {}
func (NoopObserver) EndRemoveRows()                  {}
func (NoopObserver) BeginInsertRows(Index, int, int) {}
func (NoopObserver) EndInsertRows()                  {}
func (NoopObserver) DataChanged(Index)               {}

type logObserver struct {
	logger *slog.Logger
}

// NewLogObserver writes every notification to w at debug level.
func NewLogObserver(w io.Writer) Observer {
	if w == nil {
		return NoopObserver{}
	}
	return &logObserver{
		logger: slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug})),
	}
}

func (o *logObserver) BeginRemoveRows(parent Index, first, last int) {
	o.rows("begin_remove_rows", parent, first, last)
}

func (o *logObserver) EndRemoveRows() {
	o.logger.Debug("end_remove_rows")
}

func (o *logObserver) BeginInsertRows(parent Index, first, last int) {
	o.rows("begin_insert_rows", parent, first, last)
}

func (o *logObserver) EndInsertRows() {
	o.logger.Debug("end_insert_rows")
}

func (o *logObserver) DataChanged(index Index) {
	o.logger.Debug("data_changed",
		"node", string(index.Node),
		"row", index.Row,
		"column", index.Column,
	)
}

func (o *logObserver) rows(msg string, parent Index, first, last int) {
	o.logger.LogAttrs(context.Background(), slog.LevelDebug, msg,
		slog.String("parent", string(parent.Node)),
		slog.Int("first", first),
		slog.Int("last", last),
	)
}
