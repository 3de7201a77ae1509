package kernel

import "sync/atomic"

var (
	fatalActive  atomic.Bool
	fatalHandler atomic.Pointer[func(Fault)]
)

// InFatalMode reports whether a fatal fault has been raised.
func InFatalMode() bool {
	return fatalActive.Load()
}

// SetFatalHandler installs the process-wide fatal fault handler and returns
// the previous one.
//
// The handler must not return control to the scheduler in production: a
// startup fault means scheduling invariants no longer hold. When no handler
// is installed, fatal faults panic.
func SetFatalHandler(fn func(Fault)) (prev func(Fault)) {
	var next *func(Fault)
	if fn != nil {
		next = &fn
	}
	if old := fatalHandler.Swap(next); old != nil {
		prev = *old
	}
	return prev
}

func fatal(f Fault) {
	fatalActive.Store(true)
	if fn := fatalHandler.Load(); fn != nil {
		(*fn)(f)
		return
	}
	panic(f)
}
