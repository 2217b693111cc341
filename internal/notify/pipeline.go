package notify

import (
	"context"
	"fmt"

	logger_lib "github.com/s21platform/logger-lib"
)

type eventSource interface {
	Run(ctx context.Context, handle func(RawNotification)) error
}

// Pipeline is the ingestion worker: change notifications in, per-user
// fan-out of typed events out.
type Pipeline struct {
	source     eventSource
	dispatcher *Dispatcher
	logger     logger_lib.LoggerInterface
}

func NewPipeline(source *Source, registry *Registry, logger logger_lib.LoggerInterface) *Pipeline {
	return &Pipeline{
		source:     source,
		dispatcher: NewDispatcher(registry),
		logger:     logger,
	}
}

// Run blocks until ctx is done or the notification connection is lost.
// A notification that fails to decode is logged and dropped; the stream
// continues unaffected.
func (p *Pipeline) Run(ctx context.Context) error {
	return p.source.Run(ctx, func(raw RawNotification) {
		decoded, err := Decode(raw)
		if err != nil {
			p.logger.Warn(fmt.Sprintf("failed to decode notification on %s: %v", raw.Channel, err))
			return
		}

		if len(decoded.Audience) == 0 {
			return
		}

		p.dispatcher.Dispatch(decoded.Event, decoded.Audience)
	})
}
