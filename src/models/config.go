package models

// MConfig Structure
type MConfig struct {
	Name       string            `yaml:"name"`
	Host       string            `yaml:"host"`
	Port       int               `yaml:"port"`
	LogLevel   string            `yaml:"log_level"`
	Issue      MIssueConfig      `yaml:"issue"`
	Broadcast  MBroadcastConfig  `yaml:"broadcast"`
	Network    MNetworkConfig    `yaml:"network"`
	Collectors MCollectorsConfig `yaml:"collectors"`
}

// MIssueConfig describes the single tracked offer-for-sale instrument.
type MIssueConfig struct {
	Symbol     string  `yaml:"symbol"`
	Scripcode  string  `yaml:"scripcode"`
	IssueSize  int64   `yaml:"issue_size"`
	FloorPrice float64 `yaml:"floor_price"`
}

type MBroadcastConfig struct {
	PeriodMs          int `yaml:"period_ms"`
	StaleAfterSeconds int `yaml:"stale_after_seconds"`
}

type MNetworkConfig struct {
	RequestTimeout int    `yaml:"timeout"`
	MaxRetries     int    `yaml:"retries"`
	UserAgent      string `yaml:"user_agent"`
}

type MCollectorsConfig struct {
	MarketHoursOnly bool             `yaml:"market_hours_only"`
	NSE             MCollectorConfig `yaml:"nse"`
	BSE             MCollectorConfig `yaml:"bse"`
}

type MCollectorConfig struct {
	Enabled         bool   `yaml:"enabled"`
	URL             string `yaml:"url"`
	WarmupURL       string `yaml:"warmup_url"`
	IntervalSeconds int    `yaml:"interval_seconds"`
}

// -----------------------------------------------------------------------------
// Defaults (applied by config.NewConfig before validation)
// -----------------------------------------------------------------------------

const (
	DefaultBroadcastPeriodMs  = 500
	DefaultStaleAfterSeconds  = 120
	DefaultNSEIntervalSeconds = 30
	DefaultBSEIntervalSeconds = 60
)
