//go:build !tinygo

package app

import (
	"plcnode/internal/config"
	"plcnode/internal/logx"
	"plcnode/kernel"
)

// OptionsFromConfig maps a validated config onto Options.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		Scheduler: kernel.Config{
			ImmediateCapacity:      cfg.Scheduler.ImmediateCapacity,
			NormalCapacity:         cfg.Scheduler.NormalCapacity,
			MaxImmediateDeliveries: cfg.Scheduler.MaxImmediateDeliveries,
		},
		AlarmPeriod:     cfg.AlarmPeriod(),
		HeartbeatEvery:  cfg.Alarm.HeartbeatEvery,
		IdentityAddr:    cfg.Node.IdentityAddr,
		Watchdog:        cfg.Watchdog.Enabled,
		WatchdogTimeout: cfg.WatchdogTimeout(),
		Log: logx.Options{
			Level:   cfg.Logging.Level,
			Console: cfg.Logging.Console,
		},
		FaultRatePerSec: cfg.Logging.FaultRatePerSec,
		FaultBurst:      cfg.Logging.FaultBurst,
	}
}
