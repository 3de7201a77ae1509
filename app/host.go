//go:build !tinygo

package app

import (
	"context"
	"errors"
	"net"

	"golang.org/x/sync/errgroup"

	"plcnode/hal"
	"plcnode/internal/metrics"
)

// HostRun configures RunHost.
type HostRun struct {
	// Iterations bounds the dispatch loop; 0 runs until ctx is done.
	Iterations uint64
	// Metrics, when set, serves /metrics on this listener.
	Metrics net.Listener
}

// Collector returns a metrics collector over the node's scheduler, loop,
// entropy pool and, on the host, interrupt count.
func (n *Node) Collector(h *hal.Host) *metrics.Collector {
	opts := []metrics.Option{
		metrics.WithIterations(n.Loop.Iterations),
		metrics.WithEntropyMixes(n.System.Entropy().Mixes),
	}
	if h != nil {
		opts = append(opts, metrics.WithInterrupts(h.Raised))
	}
	return metrics.NewCollector(n.System.Scheduler(), opts...)
}

// RunHost runs the dispatch loop, the alarm and the optional metrics server
// until ctx is done, the iteration bound is reached or one of them fails.
func RunHost(ctx context.Context, h *hal.Host, n *Node, run HostRun) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer cancel()
		err := n.Run(gctx, run.Iterations)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})
	g.Go(func() error { return h.Run(gctx) })
	g.Go(func() error {
		<-gctx.Done()
		h.Shutdown()
		return nil
	})
	if run.Metrics != nil {
		reg := metrics.NewRegistry(n.Collector(h))
		g.Go(func() error { return metrics.Serve(gctx, run.Metrics, reg) })
	}

	return g.Wait()
}
