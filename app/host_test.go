//go:build !tinygo

package app

import (
	"context"
	"io"
	"net"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"plcnode/hal"
	"plcnode/kernel"
)

func newSleepingNode(t *testing.T, opts Options) (*Node, *hal.Host) {
	t.Helper()
	h := hal.NewHost(hal.HostConfig{EUI64: testID, Out: &syncBuffer{}})
	t.Cleanup(func() { kernel.SetFatalHandler(nil) })
	n, err := New(h, opts)
	require.NoError(t, err)
	return n, h
}

func TestRunHostStopsAfterIterations(t *testing.T) {
	opts := testOptions()
	opts.AlarmPeriod = time.Millisecond
	n, h := newSleepingNode(t, opts)

	require.NoError(t, RunHost(context.Background(), h, n, HostRun{Iterations: 20}))
	require.Equal(t, uint64(20), n.Loop.Iterations())
	require.True(t, n.Status.Announced())
	require.Positive(t, n.System.Scheduler().Stats().Sleeps)
	require.Positive(t, n.Heartbeat.Ticks())
}

func TestRunHostStopsOnCancel(t *testing.T) {
	opts := testOptions()
	opts.AlarmPeriod = 50 * time.Millisecond
	n, h := newSleepingNode(t, opts)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- RunHost(ctx, h, n, HostRun{}) }()

	time.Sleep(20 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("RunHost did not return after cancel")
	}
}

func TestRunHostServesMetrics(t *testing.T) {
	opts := testOptions()
	opts.AlarmPeriod = time.Millisecond
	n, h := newSleepingNode(t, opts)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- RunHost(ctx, h, n, HostRun{Metrics: ln}) }()

	var body string
	deadline := time.Now().Add(3 * time.Second)
	for !strings.Contains(body, "plcnode_interrupts_total") {
		require.False(t, time.Now().After(deadline), "metrics never served")
		resp, err := http.Get("http://" + ln.Addr().String() + "/metrics")
		if err == nil {
			b, _ := io.ReadAll(resp.Body)
			_ = resp.Body.Close()
			body = string(b)
		}
		time.Sleep(10 * time.Millisecond)
	}
	require.Contains(t, body, `plcnode_task_deliveries_total{handle="0",task="status"}`)

	cancel()
	require.NoError(t, <-done)
}
