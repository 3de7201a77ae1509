package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrBadDuration = errors.New("invalid duration")

// durationField parses a positive duration setting. An empty value selects
// def; zero and negative values are rejected because every duration the
// node takes is a period or a timeout.
func durationField(field, raw string, def time.Duration) (time.Duration, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return def, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return def, fmt.Errorf("%s: %w %q", field, ErrBadDuration, raw)
	}
	if d <= 0 {
		return def, fmt.Errorf("%s: %w %q: must be positive", field, ErrBadDuration, raw)
	}
	return d, nil
}

// AlarmPeriod returns the alarm period, or DefaultAlarmPeriod when unset or
// invalid.
func (c *Config) AlarmPeriod() time.Duration {
	d, _ := durationField("alarm.period", c.Alarm.Period, DefaultAlarmPeriod)
	return d
}

// WatchdogTimeout returns the watchdog timeout, or DefaultWatchdogTimeout
// when unset or invalid.
func (c *Config) WatchdogTimeout() time.Duration {
	d, _ := durationField("watchdog.timeout", c.Watchdog.Timeout, DefaultWatchdogTimeout)
	return d
}

func (c *Config) validateDurations(add func(error)) {
	period, err := durationField("alarm.period", c.Alarm.Period, DefaultAlarmPeriod)
	if err != nil {
		add(err)
	}
	timeout, err := durationField("watchdog.timeout", c.Watchdog.Timeout, DefaultWatchdogTimeout)
	if err != nil {
		add(err)
	}
	// A watchdog that expires between two alarm ticks resets an idle node.
	if c.Watchdog.Enabled && timeout <= period {
		add(fmt.Errorf("watchdog.timeout: %s must exceed alarm.period %s", timeout, period))
	}
}
