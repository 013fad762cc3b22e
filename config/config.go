package config

import (
	"encoding/json"
	"errors"
	"os"
	"strconv"
	"strings"
)

// AppConfig holds environment driven configuration values.
// Sensitive data should never have defaults inside code and must be provided via config files or the environment.
type AppConfig struct {
	AppPort        string
	JWTSecret      string
	TokenTTLHours  int
	BcryptCost     int
	AllowedOrigins []string
	// Gin framework configuration
	GinMode string
	GinPath string
	// Database: "mysql" or "sqlite"
	DBDriver    string
	DatabaseURI string
	DBHost      string
	DBPort      string
	DBUser      string
	DBPassword  string
	DBName      string
	SQLitePath  string
	// Redis, used when avatars are kept in redis
	RedisHost     string
	RedisPort     int
	RedisDB       int
	RedisPassword string
	// Logging configuration
	LogLevel      string
	LogPath       string
	LogMaxSizeMB  int
	LogMaxBackups int
	LogMaxAgeDays int
	LogCompress   bool
	// Uploads: "local" or "redis"
	AvatarBackend string
	UploadDir     string
	MaxUploadMB   int
}

// ErrMissingSecret is returned by Load when no JWT signing key is configured.
var ErrMissingSecret = errors.New("JWT_SECRET must be set")

// DefaultPath is where Load looks for the JSON configuration file.
const DefaultPath = "config/config.json"

// Load builds the application configuration. It should be called once during boot
// and the result handed to every component that needs it.
//
// Precedence: JSON file -> defaults -> environment variable overrides.
func Load(path string) (AppConfig, error) {
	var cfg AppConfig
	if err := loadJSONConfig(path, &cfg); err != nil {
		return cfg, err
	}
	applyDefaults(&cfg)
	applyEnvOverrides(&cfg)

	if cfg.JWTSecret == "" {
		return cfg, ErrMissingSecret
	}
	return cfg, nil
}

// MaxUploadBytes is the avatar size cap in bytes.
func (c AppConfig) MaxUploadBytes() int64 {
	return int64(c.MaxUploadMB) * 1024 * 1024
}

// loadJSONConfig reads the JSON file into out if present. Returns error only for invalid JSON.
func loadJSONConfig(path string, out *AppConfig) error {
	f, err := os.Open(path)
	if err != nil {
		return nil // missing file is fine
	}
	defer f.Close()

	var raw map[string]any
	if err := json.NewDecoder(f).Decode(&raw); err != nil {
		return err
	}

	if app, ok := raw["app"].(map[string]any); ok {
		out.AppPort = getString(app, "AppPort")
		out.JWTSecret = getString(app, "JWTSecret")
		out.TokenTTLHours = getInt(app, "TokenTTLHours")
		out.BcryptCost = getInt(app, "BcryptCost")
		out.AllowedOrigins = getStringSlice(app, "AllowedOrigins")
	}

	if g, ok := raw["gin"].(map[string]any); ok {
		out.GinMode = getString(g, "Mode")
		out.GinPath = getString(g, "LogPath")
	}

	if dbs, ok := raw["database"].(map[string]any); ok {
		out.DBDriver = getString(dbs, "Driver")
		out.DatabaseURI = getString(dbs, "DatabaseURI")
		out.DBHost = getString(dbs, "DBHost")
		out.DBPort = getString(dbs, "DBPort")
		out.DBUser = getString(dbs, "DBUser")
		out.DBPassword = getString(dbs, "DBPassword")
		out.DBName = getString(dbs, "DBName")
		out.SQLitePath = getString(dbs, "SQLitePath")
	}

	if rds, ok := raw["redis"].(map[string]any); ok {
		out.RedisHost = getString(rds, "RedisHost")
		out.RedisPort = getInt(rds, "RedisPort")
		out.RedisDB = getInt(rds, "RedisDB")
		out.RedisPassword = getString(rds, "RedisPassword")
	}

	if lg, ok := raw["log"].(map[string]any); ok {
		out.LogLevel = getString(lg, "Level")
		out.LogPath = getString(lg, "Path")
		out.LogMaxSizeMB = getInt(lg, "MaxSizeMB")
		out.LogMaxBackups = getInt(lg, "MaxBackups")
		out.LogMaxAgeDays = getInt(lg, "MaxAgeDays")
		out.LogCompress = getBool(lg, "Compress")
	}

	if up, ok := raw["upload"].(map[string]any); ok {
		out.AvatarBackend = getString(up, "AvatarBackend")
		out.UploadDir = getString(up, "Dir")
		out.MaxUploadMB = getInt(up, "MaxUploadMB")
	}

	return nil
}

func getString(m map[string]any, key string) string {
	if s, ok := m[key].(string); ok {
		return s
	}
	return ""
}

func getInt(m map[string]any, key string) int {
	switch t := m[key].(type) {
	case float64:
		return int(t)
	case int:
		return t
	}
	return 0
}

func getBool(m map[string]any, key string) bool {
	b, _ := m[key].(bool)
	return b
}

func getStringSlice(m map[string]any, key string) []string {
	arr, ok := m[key].([]any)
	if !ok {
		return nil
	}
	res := make([]string, 0, len(arr))
	for _, it := range arr {
		if s, ok := it.(string); ok {
			res = append(res, s)
		}
	}
	return res
}

// applyDefaults sets sane defaults for zero-value fields.
func applyDefaults(c *AppConfig) {
	if c.AppPort == "" {
		c.AppPort = "5000"
	}
	if c.TokenTTLHours == 0 {
		c.TokenTTLHours = 24
	}
	if len(c.AllowedOrigins) == 0 {
		c.AllowedOrigins = []string{"*"}
	}
	if c.GinMode == "" {
		c.GinMode = "release"
	}
	if c.GinPath == "" {
		c.GinPath = "logs/go_gin.log"
	}
	if c.DBDriver == "" {
		c.DBDriver = "mysql"
	}
	if c.DBHost == "" {
		c.DBHost = "127.0.0.1"
	}
	if c.DBPort == "" {
		c.DBPort = "3306"
	}
	if c.DBUser == "" {
		c.DBUser = "mforum_user"
	}
	if c.DBName == "" {
		c.DBName = "mforum_db"
	}
	if c.SQLitePath == "" {
		c.SQLitePath = "mforum.db"
	}
	if c.RedisHost == "" {
		c.RedisHost = "127.0.0.1"
	}
	if c.RedisPort == 0 {
		c.RedisPort = 6379
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.LogMaxSizeMB == 0 {
		c.LogMaxSizeMB = 100
	}
	if c.LogMaxBackups == 0 {
		c.LogMaxBackups = 3
	}
	if c.LogMaxAgeDays == 0 {
		c.LogMaxAgeDays = 7
	}
	if c.AvatarBackend == "" {
		c.AvatarBackend = "local"
	}
	if c.UploadDir == "" {
		c.UploadDir = "uploads"
	}
	if c.MaxUploadMB == 0 {
		c.MaxUploadMB = 16
	}
}

// applyEnvOverrides maps known environment variables onto config values when present.
func applyEnvOverrides(c *AppConfig) {
	setString := func(key string, dst *string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	setInt := func(key string, dst *int) {
		if v := os.Getenv(key); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				*dst = n
			}
		}
	}

	setString("APP_PORT", &c.AppPort)
	setString("JWT_SECRET", &c.JWTSecret)
	setInt("TOKEN_TTL_HOURS", &c.TokenTTLHours)
	setInt("BCRYPT_COST", &c.BcryptCost)
	setString("GIN_MODE", &c.GinMode)
	setString("GIN_PATH", &c.GinPath)
	setString("DB_DRIVER", &c.DBDriver)
	setString("DATABASE_URI", &c.DatabaseURI)
	setString("DB_HOST", &c.DBHost)
	setString("DB_PORT", &c.DBPort)
	setString("DB_USER", &c.DBUser)
	setString("DB_PASSWORD", &c.DBPassword)
	setString("DB_NAME", &c.DBName)
	setString("SQLITE_PATH", &c.SQLitePath)
	setString("REDIS_HOST", &c.RedisHost)
	setInt("REDIS_PORT", &c.RedisPort)
	setInt("REDIS_DB", &c.RedisDB)
	setString("REDIS_PASSWORD", &c.RedisPassword)
	setString("LOG_LEVEL", &c.LogLevel)
	setString("LOG_PATH", &c.LogPath)
	setInt("LOG_MAX_SIZE_MB", &c.LogMaxSizeMB)
	setInt("LOG_MAX_BACKUPS", &c.LogMaxBackups)
	setInt("LOG_MAX_AGE_DAYS", &c.LogMaxAgeDays)
	setString("AVATAR_BACKEND", &c.AvatarBackend)
	setString("UPLOAD_DIR", &c.UploadDir)
	setInt("MAX_UPLOAD_MB", &c.MaxUploadMB)

	if v := os.Getenv("LOG_COMPRESS"); v != "" {
		c.LogCompress = strings.EqualFold(v, "true") || v == "1"
	}
	if v := os.Getenv("ALLOWED_ORIGINS"); v != "" {
		var origins []string
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		if len(origins) > 0 {
			c.AllowedOrigins = origins
		}
	}
}
