package config

import (
	"errors"

	"github.com/spf13/viper"
)

type Config struct {
	Server      ServerConfig
	Mongo       MongoConfig
	Redis       RedisConfig
	S3          S3Config
	Rekognition RekognitionConfig
	Upload      UploadConfig
	Pipeline    PipelineConfig
	Logger      Logger
}

type ServerConfig struct {
	AppVersion     string
	Port           string
	Mode           string
	ReadTimeout    int
	WriteTimeout   int
	IdleTimeout    int
	CtxTimeout     int
	AllowedOrigins []string
}

type MongoConfig struct {
	URI      string
	Database string
}

type RedisConfig struct {
	RedisAddr         string
	RedisPassword     string
	DB                int
	MinIdleConns      int
	PoolSize          int
	PoolTimeout       int
	ProgressKeyPrefix string
	ProgressTTLHours  int
}

type S3Config struct {
	Endpoint      string
	Region        string
	AccessKey     string
	SecretKey     string
	Bucket        string
	PublicBaseURL string
}

type RekognitionConfig struct {
	Enabled   bool
	Region    string
	AccessKey string
	SecretKey string
}

type UploadConfig struct {
	MaxSizeMB          int64
	MaxDurationSeconds float64
	AllowedMimeTypes   []string
}

type PipelineConfig struct {
	TempDir     string
	FFmpegPath  string
	FFprobePath string
	MaxCPUUsage float64
}

type Logger struct {
	Development       bool
	DisableCaller     bool
	DisableStacktrace bool
	Encoding          string
	Level             string
}

func LoadConfig(filename string) (*viper.Viper, error) {
	v := viper.New()
	v.SetConfigFile(filename)
	v.AddConfigPath(".")
	v.AutomaticEnv()
	if err := v.ReadInConfig(); err != nil {
		var configFileNotFound viper.ConfigFileNotFoundError
		if errors.As(err, &configFileNotFound) {
			return nil, errors.New("config file not found")
		}
		return nil, err
	}
	return v, nil
}

func ParseConfig(v *viper.Viper) (*Config, error) {
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, err
	}
	return &c, nil
}
