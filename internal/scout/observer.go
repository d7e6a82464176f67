package scout

import (
	"context"
	"fmt"

	"github.com/weiawesome/wes-io-live/scout-elasticsearch/pkg/log"
)

const defaultChunkSize = 500

// Observer keeps an index in sync with model lifecycle events.
type Observer struct {
	engine Engine
}

// NewObserver creates an observer writing to engine.
func NewObserver(engine Engine) *Observer {
	return &Observer{engine: engine}
}

// Saved indexes models after they were created or updated.
func (o *Observer) Saved(ctx context.Context, models ...Searchable) error {
	if len(models) == 0 {
		return nil
	}
	return o.engine.Update(ctx, models)
}

// Deleted removes models from the index after they were deleted.
func (o *Observer) Deleted(ctx context.Context, models ...Searchable) error {
	if len(models) == 0 {
		return nil
	}
	return o.engine.Delete(ctx, models)
}

// Import indexes every record of source and returns how many were sent.
func (o *Observer) Import(ctx context.Context, source Chunker, chunkSize int) (int, error) {
	return o.walk(ctx, source, chunkSize, "import", o.engine.Update)
}

// Flush removes every record of source from the index and returns how many were sent.
func (o *Observer) Flush(ctx context.Context, source Chunker, chunkSize int) (int, error) {
	return o.walk(ctx, source, chunkSize, "flush", o.engine.Delete)
}

func (o *Observer) walk(ctx context.Context, source Chunker, chunkSize int, op string, apply func(context.Context, []Searchable) error) (int, error) {
	if chunkSize <= 0 {
		chunkSize = defaultChunkSize
	}

	l := log.Ctx(ctx)
	total := 0
	err := source.Chunk(ctx, chunkSize, func(ctx context.Context, records []Searchable) error {
		if len(records) == 0 {
			return nil
		}
		if err := apply(ctx, records); err != nil {
			return err
		}
		total += len(records)
		l.Debug().Str("op", op).Int("chunk", len(records)).Int("total", total).Msg("chunk processed")
		return nil
	})
	if err != nil {
		return total, fmt.Errorf("%s failed after %d records: %w", op, total, err)
	}
	return total, nil
}
