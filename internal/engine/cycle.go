package engine

import (
	"github.com/roach88/fpsync/internal/pipeline"
	"github.com/roach88/fpsync/internal/store"
)

// cycleFromReport builds the journal record of one pipeline run.
func cycleFromReport(id string, seq int64, rep *pipeline.Report) store.Cycle {
	c := store.Cycle{
		ID:           id,
		Seq:          seq,
		Kind:         string(rep.Kind),
		Outcome:      string(rep.Outcome),
		CommandCount: len(rep.Calls),
		Calls:        make([]store.Call, 0, len(rep.Calls)),
		Snapshot:     rep.Snapshot,
	}
	if rep.Err != nil {
		c.Error = rep.Err.Error()
	}
	for _, call := range rep.Calls {
		c.Calls = append(c.Calls, store.Call{
			Side:   string(call.Side),
			Name:   call.Name,
			Args:   call.Args,
			Failed: call.Failed,
			Note:   call.Note,
		})
	}
	return c
}
