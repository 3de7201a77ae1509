package app

import (
	"sync/atomic"

	"golang.org/x/time/rate"

	"plcnode/internal/logx"
	"plcnode/kernel"
)

// faultLog logs non-fatal scheduler faults. Lines beyond the configured rate
// are counted and summarized on the next line that gets through; the
// scheduler's own fault counters are unaffected.
type faultLog struct {
	log        logx.Logger
	limiter    *rate.Limiter
	suppressed atomic.Uint64
}

// newFaultLog returns a reporter limited to perSec lines with the given
// burst. perSec <= 0 disables the limit.
func newFaultLog(log logx.Logger, perSec float64, burst int) *faultLog {
	f := &faultLog{log: log}
	if perSec > 0 {
		f.limiter = rate.NewLimiter(rate.Limit(perSec), max(1, burst))
	}
	return f
}

func (f *faultLog) Report(ft kernel.Fault) {
	if f.limiter != nil && !f.limiter.Allow() {
		f.suppressed.Add(1)
		return
	}
	fields := []logx.Field{
		logx.String("kind", ft.Kind.String()),
		logx.String("class", ft.Kind.Class().String()),
		logx.Int("msg", int(ft.Msg)),
		logx.Int("to", int(ft.To)),
	}
	if ft.Task != "" {
		fields = append(fields, logx.String("task", ft.Task))
	}
	if ft.Err != nil {
		fields = append(fields, logx.Err(ft.Err))
	}
	if n := f.suppressed.Swap(0); n > 0 {
		fields = append(fields, logx.Uint64("suppressed", n))
	}
	f.log.Warn("scheduler fault", fields...)
}

// Suppressed returns the number of fault lines dropped since the last one
// logged.
func (f *faultLog) Suppressed() uint64 { return f.suppressed.Load() }
