package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// Values come from config.yaml, then environment variables (server.address ->
// SERVER_ADDRESS). A .env file, when present, is loaded into the environment
// first.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	S3       S3Config       `mapstructure:"s3"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Telegram TelegramConfig `mapstructure:"telegram"`
	Digest   DigestConfig   `mapstructure:"digest"`
}

type ServerConfig struct {
	Address string `mapstructure:"address"`
	// "production" turns on gin release mode and diagnostic fault logging.
	Env string `mapstructure:"env"`
}

func (s ServerConfig) IsProduction() bool {
	return strings.EqualFold(s.Env, "production")
}

type DatabaseConfig struct {
	URI  string `mapstructure:"uri"`
	Name string `mapstructure:"name"`
}

type S3Config struct {
	Endpoint        string `mapstructure:"endpoint"`
	Region          string `mapstructure:"region"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	BucketName      string `mapstructure:"bucket_name"`
	UseSSL          bool   `mapstructure:"use_ssl"`
}

type JWTConfig struct {
	Secret     string        `mapstructure:"secret"`
	Expiration time.Duration `mapstructure:"expiration"`
}

// TelegramConfig configures the bot. An empty BotToken disables sending.
type TelegramConfig struct {
	// Expected bot username; a mismatch with the token's bot is logged at start-up.
	BotUsername string `mapstructure:"bot_username"`
	BotToken    string `mapstructure:"bot_token"`
	// Format string with two %s verbs (token, method); empty uses api.telegram.org.
	APIEndpoint string `mapstructure:"api_endpoint"`
	// Login widget payloads older than this are rejected.
	LoginMaxAge time.Duration `mapstructure:"login_max_age"`
	// Poll starts the long-polling update listener.
	Poll bool `mapstructure:"poll"`
}

func (t TelegramConfig) Enabled() bool {
	return t.BotToken != ""
}

type DigestConfig struct {
	Enabled bool `mapstructure:"enabled"`
	// Six-field cron spec (with seconds).
	Schedule string `mapstructure:"schedule"`
}

// LoadConfig reads configuration from path/config.yaml and the environment.
func LoadConfig(path string) (config Config, err error) {
	if err := godotenv.Load(); err != nil {
		log.Println("INFO: No .env file found, using config file and environment only")
	}

	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(`.`, `_`))

	setDefaults(v)

	err = v.ReadInConfig()
	if _, ok := err.(viper.ConfigFileNotFoundError); ok {
		err = nil
	} else if err != nil {
		return
	}

	if err = v.Unmarshal(&config); err != nil {
		return
	}
	return config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.address", ":8080")
	v.SetDefault("server.env", "development")
	v.SetDefault("database.uri", "mongodb://localhost:27017")
	v.SetDefault("database.name", "fitcoach")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("s3.access_key_id", "")
	v.SetDefault("s3.secret_access_key", "")
	v.SetDefault("s3.bucket_name", "fitcoach-media")
	v.SetDefault("s3.use_ssl", true)
	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.expiration", "24h")
	v.SetDefault("telegram.bot_username", "")
	v.SetDefault("telegram.bot_token", "")
	v.SetDefault("telegram.api_endpoint", "")
	v.SetDefault("telegram.login_max_age", "24h")
	v.SetDefault("telegram.poll", false)
	v.SetDefault("digest.enabled", false)
	v.SetDefault("digest.schedule", "0 0 9 * * *")
}
