package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds the service configuration
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Storage  StorageConfig
	NewRelic NewRelicConfig
}

// ServerConfig holds the HTTP server configuration
type ServerConfig struct {
	Port     int
	Mode     string // debug, release, test
	BaseURL  string // public base URL used when building file links
	Timezone string // IANA name of the business-local timezone
}

// DatabaseConfig holds the database configuration
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// RedisConfig holds the Redis configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
	Enabled  bool
}

// JWTConfig holds token signing configuration
type JWTConfig struct {
	Secret          string
	AccessLifetime  time.Duration
	RefreshLifetime time.Duration
}

// StorageConfig holds the local file store configuration
type StorageConfig struct {
	MediaPath  string // root directory for images and receipts
	BackupPath string // directory for database dumps
}

// NewRelicConfig holds the New Relic configuration
type NewRelicConfig struct {
	AppName    string
	LicenseKey string
	Enabled    bool
}

// InitConfig initializes the configuration using Viper
func InitConfig(cfgFile string) error {
	setDefaults()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.AddConfigPath("./config")
		viper.AddConfigPath("/etc/allo-gaz")
		viper.SetConfigName("config")
	}

	// ALLOGAZ_SERVER_PORT overrides server.port, and so on
	viper.SetEnvPrefix("ALLOGAZ")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			fmt.Println("No config file found, using defaults and environment variables")
		} else {
			return fmt.Errorf("error reading config file: %w", err)
		}
	} else {
		fmt.Println("Using config file:", viper.ConfigFileUsed())
	}

	return nil
}

// setDefaults sets default values for configuration
func setDefaults() {
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.mode", "debug")
	viper.SetDefault("server.baseurl", "http://localhost:8080")
	viper.SetDefault("server.timezone", "Asia/Beirut")

	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 5432)
	viper.SetDefault("database.user", "allogaz")
	viper.SetDefault("database.password", "allogaz")
	viper.SetDefault("database.dbname", "allogaz")
	viper.SetDefault("database.sslmode", "disable")

	viper.SetDefault("redis.host", "localhost")
	viper.SetDefault("redis.port", 6379)
	viper.SetDefault("redis.password", "")
	viper.SetDefault("redis.db", 0)
	viper.SetDefault("redis.enabled", false)

	viper.SetDefault("jwt.accesslifetime", "1h")
	viper.SetDefault("jwt.refreshlifetime", "168h")

	viper.SetDefault("storage.mediapath", "./media")
	viper.SetDefault("storage.backuppath", "./backups")

	viper.SetDefault("newrelic.appname", "Allo Gaz Back Office")
	viper.SetDefault("newrelic.enabled", false)
}

// Load loads the configuration
func Load() (*Config, error) {
	serverConfig := ServerConfig{
		Port:     viper.GetInt("server.port"),
		Mode:     viper.GetString("server.mode"),
		BaseURL:  viper.GetString("server.baseurl"),
		Timezone: viper.GetString("server.timezone"),
	}

	dbConfig := DatabaseConfig{
		Host:     viper.GetString("database.host"),
		Port:     viper.GetInt("database.port"),
		User:     viper.GetString("database.user"),
		Password: viper.GetString("database.password"),
		DBName:   viper.GetString("database.dbname"),
		SSLMode:  viper.GetString("database.sslmode"),
	}

	redisConfig := RedisConfig{
		Host:     viper.GetString("redis.host"),
		Port:     viper.GetInt("redis.port"),
		Password: viper.GetString("redis.password"),
		DB:       viper.GetInt("redis.db"),
		Enabled:  viper.GetBool("redis.enabled"),
	}

	jwtConfig := JWTConfig{
		Secret:          viper.GetString("jwt.secret"),
		AccessLifetime:  viper.GetDuration("jwt.accesslifetime"),
		RefreshLifetime: viper.GetDuration("jwt.refreshlifetime"),
	}
	if jwtConfig.Secret == "" {
		return nil, fmt.Errorf("jwt.secret must be configured")
	}

	storageConfig := StorageConfig{
		MediaPath:  viper.GetString("storage.mediapath"),
		BackupPath: viper.GetString("storage.backuppath"),
	}

	newRelicConfig := NewRelicConfig{
		AppName:    viper.GetString("newrelic.appname"),
		LicenseKey: viper.GetString("newrelic.licensekey"),
		Enabled:    viper.GetBool("newrelic.enabled"),
	}

	return &Config{
		Server:   serverConfig,
		Database: dbConfig,
		Redis:    redisConfig,
		JWT:      jwtConfig,
		Storage:  storageConfig,
		NewRelic: newRelicConfig,
	}, nil
}
