package config

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Log      LogConfig      `mapstructure:"log"`
	Data     DataConfig     `mapstructure:"data"`
	State    StateConfig    `mapstructure:"state"`
	Wheel    WheelConfig    `mapstructure:"wheel"`
	Pacing   PacingConfig   `mapstructure:"pacing"`
	Schedule ScheduleConfig `mapstructure:"schedule"`
	Selector SelectorConfig `mapstructure:"selector"`
	Streak   StreakConfig   `mapstructure:"streak"`
	Cron     CronConfig     `mapstructure:"cron"`
	Server   ServerConfig   `mapstructure:"server"`
}

type AppConfig struct {
	Env string `mapstructure:"env"`
}

type LogConfig struct {
	Level             string `mapstructure:"level"`
	Encoding          string `mapstructure:"encoding"`
	Development       bool   `mapstructure:"development"`
	Sampling          bool   `mapstructure:"sampling"`
	DisableCaller     bool   `mapstructure:"disable_caller"`
	DisableStacktrace bool   `mapstructure:"disable_stacktrace"`
}

// DataConfig locates the file artifacts. Relative names resolve under Dir.
type DataConfig struct {
	Dir         string `mapstructure:"dir"`
	CatalogFile string `mapstructure:"catalog_file"`
	LedgerFile  string `mapstructure:"ledger_file"`
	StateDir    string `mapstructure:"state_dir"`
	ReportDir   string `mapstructure:"report_dir"`
	ModeFile    string `mapstructure:"mode_file"`
}

func (d DataConfig) resolve(name string) string {
	if name == "" || filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(d.Dir, name)
}

func (d DataConfig) CatalogPath() string { return d.resolve(d.CatalogFile) }
func (d DataConfig) LedgerPath() string  { return d.resolve(d.LedgerFile) }
func (d DataConfig) StatePath() string   { return d.resolve(d.StateDir) }
func (d DataConfig) ReportPath() string  { return d.resolve(d.ReportDir) }
func (d DataConfig) ModePath() string    { return d.resolve(d.ModeFile) }

// StateConfig picks the snapshot backend: "file" or "redis".
type StateConfig struct {
	Backend     string `mapstructure:"backend"`
	RedisAddr   string `mapstructure:"redis_addr"`
	RedisDB     int    `mapstructure:"redis_db"`
	RedisPrefix string `mapstructure:"redis_prefix"`
}

type WheelConfig struct {
	Mode       int  `mapstructure:"mode"`
	DryRun     bool `mapstructure:"dry_run"`
	AutoRotate bool `mapstructure:"auto_rotate"`
}

type PacingConfig struct {
	ExpectedSpinsPerDay int      `mapstructure:"expected_spins_per_day"`
	MinProb             float64  `mapstructure:"min_prob"`
	MaxProb             float64  `mapstructure:"max_prob"`
	AdjustmentStrength  float64  `mapstructure:"adjustment_strength"`
	Curve               string   `mapstructure:"curve"`
	CurvePoints         []string `mapstructure:"curve_points"`
	Progress            string   `mapstructure:"progress"`
	PlannedSpins        int      `mapstructure:"planned_spins"`
}

type ScheduleConfig struct {
	DayStart string `mapstructure:"day_start"`
	DayEnd   string `mapstructure:"day_end"`
	Timezone string `mapstructure:"timezone"`
}

// Location resolves Timezone; empty means the process's local zone.
func (s ScheduleConfig) Location() (*time.Location, error) {
	if s.Timezone == "" || strings.EqualFold(s.Timezone, "local") {
		return time.Local, nil
	}
	return time.LoadLocation(s.Timezone)
}

type SelectorConfig struct {
	ShareSmall  float64 `mapstructure:"share_small"`
	ShareMedium float64 `mapstructure:"share_medium"`
	ShareLarge  float64 `mapstructure:"share_large"`
}

type StreakConfig struct {
	MaxReal   int `mapstructure:"max_real"`
	MaxFiller int `mapstructure:"max_filler"`
}

type CronConfig struct {
	Enabled       bool   `mapstructure:"enabled"`
	ModePoll      string `mapstructure:"mode_poll"`
	RolloverCheck string `mapstructure:"rollover_check"`
}

type ServerConfig struct {
	GRPCAddr string `mapstructure:"grpc_addr"`
	HTTPAddr string `mapstructure:"http_addr"`
}

// Load reads an optional .env, then the YAML file at path (unless envOnly),
// then WHEEL_* environment overrides.
func Load(path string, envOnly bool) (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("WHEEL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.AutomaticEnv()

	v.SetDefault("app.env", "dev")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.encoding", "console")
	v.SetDefault("log.development", true)
	v.SetDefault("log.sampling", false)
	v.SetDefault("log.disable_caller", false)
	v.SetDefault("log.disable_stacktrace", false)

	v.SetDefault("data.dir", "data")
	v.SetDefault("data.catalog_file", "prizes.yaml")
	v.SetDefault("data.ledger_file", "inventory.csv")
	v.SetDefault("data.state_dir", "state")
	v.SetDefault("data.report_dir", "reports")
	v.SetDefault("data.mode_file", "mode.txt")

	v.SetDefault("state.backend", "file")
	v.SetDefault("state.redis_addr", "127.0.0.1:6379")
	v.SetDefault("state.redis_db", 0)
	v.SetDefault("state.redis_prefix", "prizewheel:state")

	v.SetDefault("wheel.mode", 3)
	v.SetDefault("wheel.dry_run", false)
	v.SetDefault("wheel.auto_rotate", true)

	v.SetDefault("pacing.expected_spins_per_day", 500)
	v.SetDefault("pacing.min_prob", 0.10)
	v.SetDefault("pacing.max_prob", 0.90)
	v.SetDefault("pacing.adjustment_strength", 0.5)
	v.SetDefault("pacing.curve", "linear")
	v.SetDefault("pacing.curve_points", []string{})
	v.SetDefault("pacing.progress", "clock")
	v.SetDefault("pacing.planned_spins", 0)

	v.SetDefault("schedule.day_start", "11:00")
	v.SetDefault("schedule.day_end", "20:00")
	v.SetDefault("schedule.timezone", "Local")

	v.SetDefault("selector.share_small", 0.70)
	v.SetDefault("selector.share_medium", 0.25)
	v.SetDefault("selector.share_large", 0.05)

	v.SetDefault("streak.max_real", 0)
	v.SetDefault("streak.max_filler", 0)

	v.SetDefault("cron.enabled", true)
	v.SetDefault("cron.mode_poll", "*/2 * * * * *")
	v.SetDefault("cron.rollover_check", "0 * * * * *")

	v.SetDefault("server.grpc_addr", ":9090")
	v.SetDefault("server.http_addr", ":8080")

	if !envOnly {
		if err := v.ReadInConfig(); err != nil {
			return Config{}, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
