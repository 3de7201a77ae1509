package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"plcnode/hal"
	"plcnode/internal/logx"
)

const (
	DefaultAlarmPeriod     = 10 * time.Millisecond
	DefaultWatchdogTimeout = 2 * time.Second
	DefaultMetricsAddr     = "127.0.0.1:9464"

	maxQueueCapacity = 1 << 16
)

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Node: NodeConfig{
			Name:         "plcnode",
			EUI64:        "02:00:00:00:00:00:00:01",
			IdentityAddr: hal.DefaultIdentityAddr,
		},
		Scheduler: SchedulerConfig{
			ImmediateCapacity:      256,
			NormalCapacity:         256,
			MaxImmediateDeliveries: 256,
		},
		Alarm: AlarmConfig{
			Period:         DefaultAlarmPeriod.String(),
			HeartbeatEvery: 100,
		},
		Watchdog: WatchdogConfig{
			Timeout: DefaultWatchdogTimeout.String(),
		},
		Logging: LoggingConfig{
			Level:           "info",
			Console:         true,
			FaultRatePerSec: 5,
			FaultBurst:      10,
		},
		Metrics: MetricsConfig{
			Addr: DefaultMetricsAddr,
		},
	}
}

// Load reads, decodes and validates the config at path. The format follows
// the file extension.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config load failed (%s): %w", path, err)
	}
	cfg, err := Parse(FormatFromPath(path), data)
	if err != nil {
		return nil, fmt.Errorf("config parse failed (%s): %w", path, err)
	}
	return cfg, nil
}

// Parse decodes data over Default() and validates the result. Unknown fields
// and trailing data are errors.
func Parse(format string, data []byte) (*Config, error) {
	jb, err := coerceToJSONBytes(format, data)
	if err != nil {
		return nil, err
	}
	cfg := Default()
	dec := json.NewDecoder(bytes.NewReader(jb))
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		return nil, err
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		if err == nil {
			return nil, fmt.Errorf("invalid config: trailing data")
		}
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports every invalid field at once.
func (c *Config) Validate() error {
	var errs []error
	add := func(format string, args ...any) { errs = append(errs, fmt.Errorf(format, args...)) }

	if strings.TrimSpace(c.Node.Name) == "" {
		add("node.name: must not be empty")
	}
	if c.Node.EUI64 != "" {
		if _, err := hal.ParseEUI64(c.Node.EUI64); err != nil {
			add("node.eui64: %w", err)
		}
	}
	if c.Node.IdentityAddr > 0x7F {
		add("node.identity_addr: 0x%x is not a 7-bit address", c.Node.IdentityAddr)
	}

	checkCap := func(path string, v int) {
		if v <= 0 || v > maxQueueCapacity {
			add("%s: must be in 1..%d, got %d", path, maxQueueCapacity, v)
		}
	}
	checkCap("scheduler.immediate_capacity", c.Scheduler.ImmediateCapacity)
	checkCap("scheduler.normal_capacity", c.Scheduler.NormalCapacity)
	if c.Scheduler.MaxImmediateDeliveries < 0 {
		add("scheduler.max_immediate_deliveries: must be >= 0")
	}
	if bound := c.Scheduler.MaxImmediateDeliveries; bound > 0 && c.Scheduler.ImmediateCapacity < bound {
		add("scheduler.immediate_capacity: %d is below max_immediate_deliveries %d", c.Scheduler.ImmediateCapacity, bound)
	}

	c.validateDurations(func(err error) { errs = append(errs, err) })
	if c.Alarm.HeartbeatEvery < 1 {
		add("alarm.heartbeat_every: must be >= 1")
	}

	if c.Logging.Level != "" && !logx.ValidLevel(c.Logging.Level) {
		add("logging.level: unknown level %q", c.Logging.Level)
	}
	if c.Logging.FaultRatePerSec < 0 {
		add("logging.fault_rate_per_sec: must be >= 0")
	}
	if c.Logging.FaultBurst < 0 {
		add("logging.fault_burst: must be >= 0")
	}

	if c.Metrics.Enabled && strings.TrimSpace(c.Metrics.Addr) == "" {
		add("metrics.addr: required when metrics are enabled")
	}
	return errors.Join(errs...)
}

// Identity returns the configured EUI-64, or the zero value when unset.
func (c *Config) Identity() hal.EUI64 {
	e, _ := hal.ParseEUI64(c.Node.EUI64)
	return e
}

// WriteTemplate writes Default() to path in the format its extension
// selects.
func WriteTemplate(path, format string, overwrite bool) error {
	if format == "" {
		format = FormatFromPath(path)
	}
	b, err := Encode(Default(), format)
	if err != nil {
		return err
	}
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config already exists: %s", path)
		}
	}
	return os.WriteFile(path, b, 0o600)
}
