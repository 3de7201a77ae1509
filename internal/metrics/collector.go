// Package metrics exports scheduler counters in Prometheus format.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	"plcnode/kernel"
)

const namespace = "plcnode"

// StatsSource is satisfied by *kernel.Scheduler.
type StatsSource interface {
	Stats() kernel.Stats
}

// Counter is a monotonically increasing value read on scrape, such as
// (*kernel.Loop).Iterations or (*entropy.Pool).Mixes.
type Counter func() uint64

// Collector reads a scheduler snapshot on every scrape. It keeps no state of
// its own, so the exported counters always match Stats().
type Collector struct {
	src     StatsSource
	iters   Counter
	mixes   Counter
	raised  Counter
	started *prometheus.Desc
	qlen    *prometheus.Desc
	qcap    *prometheus.Desc
	posted  *prometheus.Desc
	deliv   *prometheus.Desc
	perTask *prometheus.Desc
	faults  *prometheus.Desc
	sleeps  *prometheus.Desc
	loops   *prometheus.Desc
	entropy *prometheus.Desc
	irqs    *prometheus.Desc
}

// Option configures optional counters.
type Option func(*Collector)

func WithIterations(fn Counter) Option   { return func(c *Collector) { c.iters = fn } }
func WithEntropyMixes(fn Counter) Option { return func(c *Collector) { c.mixes = fn } }
func WithInterrupts(fn Counter) Option   { return func(c *Collector) { c.raised = fn } }

func NewCollector(src StatsSource, opts ...Option) *Collector {
	c := &Collector{
		src: src,
		started: prometheus.NewDesc(namespace+"_scheduler_started",
			"Whether dispatch has begun.", nil, nil),
		qlen: prometheus.NewDesc(namespace+"_queue_length",
			"Messages waiting in a queue.", []string{"queue"}, nil),
		qcap: prometheus.NewDesc(namespace+"_queue_capacity",
			"Fixed capacity of a queue.", []string{"queue"}, nil),
		posted: prometheus.NewDesc(namespace+"_messages_posted_total",
			"Messages accepted by Post.", []string{"urgency"}, nil),
		deliv: prometheus.NewDesc(namespace+"_messages_delivered_total",
			"Messages dequeued for delivery; a broadcast counts once.", nil, nil),
		perTask: prometheus.NewDesc(namespace+"_task_deliveries_total",
			"Messages delivered to a task.", []string{"task", "handle"}, nil),
		faults: prometheus.NewDesc(namespace+"_faults_total",
			"Faults reported by the scheduler.", []string{"kind", "class"}, nil),
		sleeps: prometheus.NewDesc(namespace+"_sleeps_total",
			"Times the loop idled waiting for an interrupt.", nil, nil),
		loops: prometheus.NewDesc(namespace+"_loop_iterations_total",
			"Completed dispatch loop iterations.", nil, nil),
		entropy: prometheus.NewDesc(namespace+"_entropy_mixes_total",
			"Contributions mixed into the entropy pool.", nil, nil),
		irqs: prometheus.NewDesc(namespace+"_interrupts_total",
			"Interrupts raised.", nil, nil),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.started
	ch <- c.qlen
	ch <- c.qcap
	ch <- c.posted
	ch <- c.deliv
	ch <- c.perTask
	ch <- c.faults
	ch <- c.sleeps
	if c.iters != nil {
		ch <- c.loops
	}
	if c.mixes != nil {
		ch <- c.entropy
	}
	if c.raised != nil {
		ch <- c.irqs
	}
}

func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	st := c.src.Stats()

	started := 0.0
	if st.Started {
		started = 1
	}
	ch <- prometheus.MustNewConstMetric(c.started, prometheus.GaugeValue, started)
	ch <- prometheus.MustNewConstMetric(c.qlen, prometheus.GaugeValue, float64(st.ImmediateLen), kernel.Immediate.String())
	ch <- prometheus.MustNewConstMetric(c.qlen, prometheus.GaugeValue, float64(st.NormalLen), kernel.Normal.String())
	ch <- prometheus.MustNewConstMetric(c.qcap, prometheus.GaugeValue, float64(st.ImmediateCap), kernel.Immediate.String())
	ch <- prometheus.MustNewConstMetric(c.qcap, prometheus.GaugeValue, float64(st.NormalCap), kernel.Normal.String())
	ch <- prometheus.MustNewConstMetric(c.posted, prometheus.CounterValue, float64(st.PostedImmediate), kernel.Immediate.String())
	ch <- prometheus.MustNewConstMetric(c.posted, prometheus.CounterValue, float64(st.PostedNormal), kernel.Normal.String())
	ch <- prometheus.MustNewConstMetric(c.deliv, prometheus.CounterValue, float64(st.Delivered))
	for _, ts := range st.Tasks {
		ch <- prometheus.MustNewConstMetric(c.perTask, prometheus.CounterValue, float64(ts.Delivered),
			taskLabel(ts), strconv.Itoa(int(ts.Handle)))
	}
	for _, k := range kernel.FaultKinds() {
		ch <- prometheus.MustNewConstMetric(c.faults, prometheus.CounterValue, float64(st.FaultCount(k)),
			k.String(), k.Class().String())
	}
	ch <- prometheus.MustNewConstMetric(c.sleeps, prometheus.CounterValue, float64(st.Sleeps))
	if c.iters != nil {
		ch <- prometheus.MustNewConstMetric(c.loops, prometheus.CounterValue, float64(c.iters()))
	}
	if c.mixes != nil {
		ch <- prometheus.MustNewConstMetric(c.entropy, prometheus.CounterValue, float64(c.mixes()))
	}
	if c.raised != nil {
		ch <- prometheus.MustNewConstMetric(c.irqs, prometheus.CounterValue, float64(c.raised()))
	}
}

func taskLabel(ts kernel.TaskStats) string {
	if ts.Name != "" {
		return ts.Name
	}
	return "task" + strconv.Itoa(int(ts.Handle))
}
