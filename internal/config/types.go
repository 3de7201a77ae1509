package config

// Config is the node configuration. Zero fields fall back to Default().
type Config struct {
	Node      NodeConfig      `json:"node" yaml:"node" toml:"node"`
	Scheduler SchedulerConfig `json:"scheduler" yaml:"scheduler" toml:"scheduler"`
	Alarm     AlarmConfig     `json:"alarm" yaml:"alarm" toml:"alarm"`
	Watchdog  WatchdogConfig  `json:"watchdog" yaml:"watchdog" toml:"watchdog"`
	Logging   LoggingConfig   `json:"logging" yaml:"logging" toml:"logging"`
	Metrics   MetricsConfig   `json:"metrics" yaml:"metrics" toml:"metrics"`
	Host      HostConfig      `json:"host" yaml:"host" toml:"host"`
}

type NodeConfig struct {
	Name string `json:"name" yaml:"name" toml:"name"`
	// EUI64 programs the host's simulated identity EEPROM. Ignored on the
	// device, which reads its factory identity.
	EUI64        string `json:"eui64" yaml:"eui64" toml:"eui64"`
	IdentityAddr uint16 `json:"identity_addr" yaml:"identity_addr" toml:"identity_addr"`
}

type SchedulerConfig struct {
	ImmediateCapacity      int `json:"immediate_capacity" yaml:"immediate_capacity" toml:"immediate_capacity"`
	NormalCapacity         int `json:"normal_capacity" yaml:"normal_capacity" toml:"normal_capacity"`
	MaxImmediateDeliveries int `json:"max_immediate_deliveries" yaml:"max_immediate_deliveries" toml:"max_immediate_deliveries"`
}

type AlarmConfig struct {
	Period         string `json:"period" yaml:"period" toml:"period"`
	HeartbeatEvery int    `json:"heartbeat_every" yaml:"heartbeat_every" toml:"heartbeat_every"`
}

type WatchdogConfig struct {
	Enabled bool   `json:"enabled" yaml:"enabled" toml:"enabled"`
	Timeout string `json:"timeout" yaml:"timeout" toml:"timeout"`
}

type LoggingConfig struct {
	Level   string `json:"level" yaml:"level" toml:"level"`
	Console bool   `json:"console" yaml:"console" toml:"console"`
	// FaultRatePerSec caps fault log lines; fault counters are never
	// rate limited.
	FaultRatePerSec float64 `json:"fault_rate_per_sec" yaml:"fault_rate_per_sec" toml:"fault_rate_per_sec"`
	FaultBurst      int     `json:"fault_burst" yaml:"fault_burst" toml:"fault_burst"`
}

type MetricsConfig struct {
	Enabled bool   `json:"enabled" yaml:"enabled" toml:"enabled"`
	Addr    string `json:"addr" yaml:"addr" toml:"addr"`
}

type HostConfig struct {
	// Iterations bounds the host dispatch loop; 0 runs until interrupted.
	Iterations uint64 `json:"iterations" yaml:"iterations" toml:"iterations"`
}
