package executor

import (
	"github.com/melih/lighthouse-helper/internal/core/domain"
)

// dispatcher is the pair of public channels the multiplexer forwards to.
type dispatcher interface {
	message(text string)
	error(text string)
}

// Tally counts what a multiplexer forwarded for one execution.
type Tally struct {
	Messages   int
	Errors     int
	FirstError string
}

// Multiplexer forwards the three source streams of an execution to the
// message and error channels. Informational and progress records become
// messages; error records become errors.
type Multiplexer struct {
	out dispatcher
}

// Drain forwards records until all three streams are closed. Order is kept
// within a stream; records of different streams may interleave in any order.
func (m *Multiplexer) Drain(streams *domain.Streams) Tally {
	var tally Tally
	information := streams.Information
	progress := streams.Progress
	errs := streams.Error

	for information != nil || progress != nil || errs != nil {
		select {
		case rec, ok := <-information:
			if !ok {
				information = nil
				continue
			}
			m.out.message(rec.String())
			tally.Messages++
		case rec, ok := <-progress:
			if !ok {
				progress = nil
				continue
			}
			m.out.message(rec.StatusDescription)
			tally.Messages++
		case rec, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			text := rec.Message()
			m.out.error(text)
			if tally.Errors == 0 {
				tally.FirstError = text
			}
			tally.Errors++
		}
	}
	return tally
}
