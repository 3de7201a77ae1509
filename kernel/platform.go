package kernel

// Interrupts masks interrupt delivery.
//
// Disable returns the previous mask state, which must be handed back to
// Restore. Critical sections never nest and never span a task handler.
type Interrupts interface {
	Disable() uintptr
	Restore(state uintptr)
}

// Idler halts the processor until the next interrupt.
//
// An interrupt raised since the previous wait makes WaitForInterrupt return
// immediately, so a wait entered with interrupts masked cannot miss a wakeup.
type Idler interface {
	WaitForInterrupt()
}

// Clock is the hardware timebase shared through System.
type Clock interface {
	// Counter returns the free-running cycle counter.
	Counter() uint32
	// Now returns the number of alarm ticks since start.
	Now() uint64
}

// Link is the asynchronous network stack polled once per loop iteration.
type Link interface {
	Progress()
}

// Watchdog is kicked once per loop iteration.
type Watchdog interface {
	Kick()
}
