package blend

import (
	"fmt"
	"sync"
	"time"

	"github.com/ironsheep/poisson-blend/internal/pixel"
)

// logService formats progress messages for the caller's sink and doubles as
// the solver observer. Messages are serialized so a sink never sees two
// channels at once.
type logService struct {
	mu      sync.Mutex
	sink    func(string)
	verbose bool
}

func newLogService(sink func(string), verbose bool) *logService {
	return &logService{sink: sink, verbose: verbose}
}

func (l *logService) emit(msg string) {
	if l.sink == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.sink(msg)
}

func (l *logService) started(model pixel.Model, async bool) {
	if async {
		l.emit(fmt.Sprintf("Async blending started for %s color model.", model))
		return
	}
	l.emit(fmt.Sprintf("Blending started for %s color model.", model))
}

func (l *logService) Iteration(channel string, iteration int, err float64) {
	if !l.verbose {
		return
	}
	l.emit(fmt.Sprintf("Color component: %s; Iteration: %d; Error: %g.", channel, iteration, err))
}

func (l *logService) Done(channel string, iterations int, elapsed time.Duration) {
	Logger().Debug("channel solved", "channel", channel, "iterations", iterations, "elapsed", elapsed)
	l.emit(fmt.Sprintf("Blending finished in %dms; Color component: %s; Iterations: %d.",
		elapsed.Milliseconds(), channel, iterations))
}

func (l *logService) finished(elapsed time.Duration) {
	l.emit(fmt.Sprintf("Blending finished in %dms.", elapsed.Milliseconds()))
}
