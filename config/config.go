package config

import (
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Resource ResourceConfig `mapstructure:"resource"`
	Database DatabaseConfig `mapstructure:"database"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Battle   BattleConfig   `mapstructure:"battle"`
	Game     GameConfig     `mapstructure:"game"`
	Security SecurityConfig `mapstructure:"security"`
}

type ServerConfig struct {
	Port  int  `mapstructure:"port"`
	Debug bool `mapstructure:"debug"`
}

type ResourceConfig struct {
	DataPath string `mapstructure:"data_path"` // directory holding the definition tables
}

type DatabaseConfig struct {
	Mode         string        `mapstructure:"mode"` // sqlite | mysql
	SQLitePath   string        `mapstructure:"sqlite_path"`
	MySQLDSN     string        `mapstructure:"mysql_dsn"`
	MySQLMaxOpen int           `mapstructure:"mysql_max_open"`
	MySQLMaxIdle int           `mapstructure:"mysql_max_idle"`
	MySQLMaxLife time.Duration `mapstructure:"mysql_max_life"`
}

type CacheConfig struct {
	RedisAddr      string `mapstructure:"redis_addr"` // empty = in-process pub/sub
	RedisPassword  string `mapstructure:"redis_password"`
	RedisDB        int    `mapstructure:"redis_db"`
	LocalPubSubBuf int    `mapstructure:"local_pubsub_buf"`
}

type BattleConfig struct {
	EnemySkillMPCost int   `mapstructure:"enemy_skill_mp_cost"`
	EnemySkillChance int   `mapstructure:"enemy_skill_chance"` // percent
	EscapePerSpeed   int   `mapstructure:"escape_per_speed"`
	MaxPrompts       int   `mapstructure:"max_prompts"`
	RNGSeed          int64 `mapstructure:"rng_seed"` // 0 = random seed per battle
}

type GameConfig struct {
	AutosaveIntervalS int         `mapstructure:"autosave_interval_s"`
	StartGold         int         `mapstructure:"start_gold"`
	StartItems        []ItemStack `mapstructure:"start_items"`
	BattleResultTTLS  int         `mapstructure:"battle_result_ttl_s"`
}

// ItemStack is a named item and a count. A list is used instead of a map
// because viper lowercases map keys and item names are case-sensitive.
type ItemStack struct {
	Name  string `mapstructure:"name"`
	Count int    `mapstructure:"count"`
}

type SecurityConfig struct {
	RateLimitRPS   float64 `mapstructure:"rate_limit_rps"`
	RateLimitBurst int     `mapstructure:"rate_limit_burst"`
}

// Load reads config from the given YAML file path.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	cfg := &Config{}
	_ = v.Unmarshal(cfg)
	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.debug", false)
	v.SetDefault("resource.data_path", "./data")
	v.SetDefault("database.mode", "sqlite")
	v.SetDefault("database.sqlite_path", "./data/desia.db")
	v.SetDefault("database.mysql_max_open", 50)
	v.SetDefault("database.mysql_max_idle", 10)
	v.SetDefault("database.mysql_max_life", "1h")
	v.SetDefault("cache.local_pubsub_buf", 256)
	v.SetDefault("battle.enemy_skill_mp_cost", 5)
	v.SetDefault("battle.enemy_skill_chance", 40)
	v.SetDefault("battle.escape_per_speed", 2)
	v.SetDefault("battle.max_prompts", 10)
	v.SetDefault("battle.rng_seed", 0)
	v.SetDefault("game.autosave_interval_s", 300)
	v.SetDefault("game.start_gold", 200)
	v.SetDefault("game.battle_result_ttl_s", 3600)
	v.SetDefault("security.rate_limit_rps", 100)
	v.SetDefault("security.rate_limit_burst", 200)
}
