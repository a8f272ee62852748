package config

import (
	"database/sql"
	"fmt"
	"os"
	"strconv"
	"time"

	"choir-attendance/internal/scoring"

	"github.com/glebarez/sqlite"
	gomysql "github.com/go-sql-driver/mysql"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Log      LogConfig      `yaml:"log"`
	Database DatabaseConfig `yaml:"database"`
	Auth     AuthConfig     `yaml:"auth"`
	Scoring  scoring.Policy `yaml:"scoring"`
	Reminder ReminderConfig `yaml:"reminder"`
	Mail     MailConfig     `yaml:"mail"`
}

type LogConfig struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"`
	Console    bool   `yaml:"console"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
	SlowSQLMs  int    `yaml:"slow_sql_ms"`
}

type ServerConfig struct {
	Port        int      `yaml:"port"`
	CORSOrigins []string `yaml:"cors_origins"`
}

// DatabaseConfig selects the store backend. Driver is mysql, postgres or
// sqlite; DSN, when set, is handed to the driver as is.
type DatabaseConfig struct {
	Driver   string `yaml:"driver"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	DSN      string `yaml:"dsn"`
	Path     string `yaml:"path"`
}

type AuthConfig struct {
	JWTSecret             string `yaml:"jwt_secret"`
	TokenTTLHours         int    `yaml:"token_ttl_hours"`
	DefaultMemberPassword string `yaml:"default_member_password"`
}

type ReminderConfig struct {
	Timezone        string `yaml:"timezone"`
	CheckIntervalMn int    `yaml:"check_interval_minutes"`
	MailAdmins      bool   `yaml:"mail_admins"`
}

type MailConfig struct {
	Host     string   `yaml:"host"`
	Port     int      `yaml:"port"`
	User     string   `yaml:"user"`
	Password string   `yaml:"password"`
	From     string   `yaml:"from"`
	Admins   []string `yaml:"admins"`
}

func Load(configFile string) *Config {
	c := &Config{
		Server:   ServerConfig{Port: 9871, CORSOrigins: []string{"*"}},
		Log:      LogConfig{Level: "info", Console: true, MaxSizeMB: 100, MaxBackups: 3, MaxAgeDays: 30, SlowSQLMs: 200},
		Database: DatabaseConfig{Driver: "mysql", Port: 3306, Name: "choir_attendance", Path: "choir.db"},
		Auth:     AuthConfig{JWTSecret: "choir-attendance-secret", TokenTTLHours: 7 * 24, DefaultMemberPassword: "choirmember"},
		Scoring:  scoring.DefaultPolicy(),
		Reminder: ReminderConfig{Timezone: "Local", CheckIntervalMn: 15},
		Mail:     MailConfig{Port: 587},
	}

	paths := []string{"etc/config-dev.yaml", "/etc/choir-attendance/config.yaml"}
	if configFile != "" {
		paths = []string{configFile}
	}
	for _, path := range paths {
		if data, err := os.ReadFile(path); err == nil {
			yaml.Unmarshal(data, c)
			break
		}
	}

	// .env only fills variables the environment does not already carry.
	_ = godotenv.Load()

	envOverride(&c.Database.Driver, "DB_DRIVER")
	envOverride(&c.Database.Host, "DB_HOST")
	envOverride(&c.Database.User, "DB_USER")
	envOverride(&c.Database.Password, "DB_PASS")
	envOverride(&c.Database.Name, "DB_NAME")
	envOverride(&c.Database.DSN, "DB_DSN")
	envOverride(&c.Database.Path, "DB_PATH")
	envOverride(&c.Auth.JWTSecret, "JWT_SECRET")
	envOverride(&c.Log.Level, "LOG_LEVEL")
	envOverride(&c.Log.File, "LOG_FILE")
	envOverride(&c.Mail.Host, "SMTP_HOST")
	envOverride(&c.Mail.User, "SMTP_USER")
	envOverride(&c.Mail.Password, "SMTP_PASS")
	envOverride(&c.Reminder.Timezone, "REMINDER_TZ")
	envOverrideInt(&c.Server.Port, "PORT")
	envOverrideInt(&c.Database.Port, "DB_PORT")
	envOverrideInt(&c.Mail.Port, "SMTP_PORT")

	return c
}

func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Server.Port)
}

func (c *Config) TokenTTL() time.Duration {
	return time.Duration(c.Auth.TokenTTLHours) * time.Hour
}

// Location is the time zone the choir lives in. Unknown names fall back to
// the process zone.
func (c *Config) Location() *time.Location {
	if c.Reminder.Timezone == "" || c.Reminder.Timezone == "Local" {
		return time.Local
	}
	loc, err := time.LoadLocation(c.Reminder.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

func (c *Config) MailEnabled() bool { return c.Mail.Host != "" && len(c.Mail.Admins) > 0 }

func (c *Config) OpenGormDB(l logger.Interface) (*gorm.DB, error) {
	if l == nil {
		l = logger.Default.LogMode(logger.Silent)
	}
	gcfg := &gorm.Config{Logger: l}

	switch c.Database.Driver {
	case "postgres":
		dsn := c.Database.DSN
		if dsn == "" {
			dsn = fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
				c.Database.Host, c.Database.Port, c.Database.User, c.Database.Password, c.Database.Name)
		}
		return gorm.Open(postgres.Open(dsn), gcfg)
	case "sqlite":
		path := c.Database.DSN
		if path == "" {
			path = c.Database.Path
		}
		return gorm.Open(sqlite.Open(path), gcfg)
	case "mysql", "":
	default:
		return nil, fmt.Errorf("unknown database driver %q", c.Database.Driver)
	}

	var cfg *gomysql.Config
	if c.Database.DSN != "" {
		parsed, err := gomysql.ParseDSN(c.Database.DSN)
		if err != nil {
			return nil, fmt.Errorf("parse dsn: %w", err)
		}
		cfg = parsed
	} else {
		cfg = gomysql.NewConfig()
		cfg.User = c.Database.User
		cfg.Passwd = c.Database.Password
		cfg.Net = "tcp"
		cfg.Addr = fmt.Sprintf("%s:%d", c.Database.Host, c.Database.Port)
		cfg.DBName = c.Database.Name
	}
	cfg.ParseTime = true

	connector, err := gomysql.NewConnector(cfg)
	if err != nil {
		return nil, fmt.Errorf("create connector: %w", err)
	}
	sqlDB := sql.OpenDB(connector)
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("ping db: %w", err)
	}

	return gorm.Open(mysql.New(mysql.Config{Conn: sqlDB}), gcfg)
}

func envOverride(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func envOverrideInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}
