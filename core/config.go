package core

import (
	"log"
	"net"
	"net/mail"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type (
	Config struct {
		Debug            bool   `mapstructure:"debug"`
		TestMode         bool   `mapstructure:"testMode"`
		AppName          string `mapstructure:"appName"`
		Env              string `mapstructure:"env"`
		Build            string `mapstructure:"build"`
		WorkDir          string `mapstructure:"workDir"`
		DefaultFromEmail string `mapstructure:"defaultFromEmail"`
		RollbarToken     string `mapstructure:"rollbarToken"`
		SendgridApiKey   string `mapstructure:"sendgridApiKey"`

		Server   ServerConfig   `mapstructure:"server"`
		Database DatabaseConfig `mapstructure:"database"`
		Demo     DemoConfig     `mapstructure:"demo"`
		Siyavula SiyavulaConfig `mapstructure:"siyavula"`
		Redis    RedisConfig    `mapstructure:"redis"`
	}

	ServerConfig struct {
		Addr            string        `mapstructure:"addr"`
		Host            string        `mapstructure:"host"`
		DebugHost       string        `mapstructure:"debugHost"`
		ShutdownTimeout time.Duration `mapstructure:"shutdownTimeout"`
	}

	DatabaseConfig struct {
		Engine        string `mapstructure:"engine"` // postgres | memory
		Host          string `mapstructure:"host"`
		Port          string `mapstructure:"port"`
		Name          string `mapstructure:"name"`
		User          string `mapstructure:"user"`
		Password      string `mapstructure:"password"`
		AdminUser     string `mapstructure:"adminUser"`
		AdminPassword string `mapstructure:"adminPassword"`
		DisableTLS    bool   `mapstructure:"disableTLS"`
	}

	// DemoConfig is the LMS account seeded at startup.
	DemoConfig struct {
		Email    string `mapstructure:"email"`
		Password string `mapstructure:"password"`
	}

	// SiyavulaConfig holds the organisation credentials issued by Siyavula
	// and the knobs of the HTTP client talking to it.
	SiyavulaConfig struct {
		BaseURL       string        `mapstructure:"baseURL"`
		Name          string        `mapstructure:"name"`
		Password      string        `mapstructure:"password"`
		Region        string        `mapstructure:"region"`
		Curriculum    string        `mapstructure:"curriculum"`
		Timeout       time.Duration `mapstructure:"timeout"`
		ProvisionLock string        `mapstructure:"provisionLock"` // none | local | redis
		LockTTL       time.Duration `mapstructure:"lockTTL"`
	}

	RedisConfig struct {
		Addr     string `mapstructure:"addr"`
		Password string `mapstructure:"password"`
		DB       int    `mapstructure:"db"`
	}
)

const (
	ProvisionLockNone  = "none"
	ProvisionLockLocal = "local"
	ProvisionLockRedis = "redis"

	DBEngineMemory   = "memory"
	DBEnginePostgres = "postgres"
)

func (c *Config) DefaultFromAddress() mail.Address {
	return mail.Address{Name: c.AppName, Address: c.DefaultFromEmail}
}

func (c DatabaseConfig) Address() string {
	return net.JoinHostPort(c.Host, c.Port)
}

// NewConfig loads the config from defaults, `config/.env.<env>` (if it exists) and the environment.
func NewConfig() *Config {
	v := viper.New()

	env := strings.ToUpper(os.Getenv("ENV")) // DEV (local; default), TEST, QA, PROD
	if env == "" {
		env = "DEV"
	}
	workDir := Getwd()

	// defaults
	v.SetTypeByDefaultValue(true)
	v.SetDefault("debug", env == "DEV")
	v.SetDefault("testMode", env == "TEST")
	v.SetDefault("appName", "Masomo LMS")
	v.SetDefault("env", env)
	v.SetDefault("build", "develop")
	v.SetDefault("workDir", workDir)
	v.SetDefault("defaultFromEmail", "noreply@localhost")
	v.SetDefault("rollbarToken", "")
	v.SetDefault("sendgridApiKey", "")

	v.SetDefault("server.addr", ":8000")
	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.debugHost", ":4000")
	v.SetDefault("server.shutdownTimeout", 5*time.Second)

	v.SetDefault("database.engine", DBEnginePostgres)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.name", "lms")
	v.SetDefault("database.user", "lms")
	v.SetDefault("database.password", "lms")
	v.SetDefault("database.adminUser", "postgres")
	v.SetDefault("database.adminPassword", "postgres")
	v.SetDefault("database.disableTLS", env == "DEV" || env == "TEST")

	v.SetDefault("demo.email", "foo@bar.co")
	v.SetDefault("demo.password", "changeme")

	v.SetDefault("siyavula.baseURL", "https://www.siyavula.com")
	v.SetDefault("siyavula.name", "")
	v.SetDefault("siyavula.password", "")
	v.SetDefault("siyavula.region", "ZA")
	v.SetDefault("siyavula.curriculum", "CAPS")
	v.SetDefault("siyavula.timeout", 10*time.Second)
	v.SetDefault("siyavula.provisionLock", ProvisionLockLocal)
	v.SetDefault("siyavula.lockTTL", 30*time.Second)

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join(workDir, "config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}

	v.SetEnvPrefix("LMS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	conf := new(Config)
	if err := v.Unmarshal(conf); err != nil {
		log.Fatalf("config.Unmarshal: %v", err)
	}
	return conf
}
