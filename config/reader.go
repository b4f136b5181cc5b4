package config

import (
	"os"

	"gopkg.in/yaml.v2"
)

type DBConfig struct {
	Name     string `yaml:"name"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
}

type ConfigSchema struct {
	Databases struct {
		Master   DBConfig   `yaml:"master"`
		Replicas []DBConfig `yaml:"replicas"`
	} `yaml:"db"`
	Backend struct {
		Host string `yaml:"host"`
		Port int    `yaml:"port"`
	} `yaml:"backend"`
	Redis struct {
		Host     string `yaml:"host"`
		Port     int    `yaml:"port"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`
	Cache struct {
		// TTL of the cached global feed page in seconds, 0 uses the default
		FeedTTLSeconds int `yaml:"feed_ttl_seconds"`
	} `yaml:"cache"`
	Media struct {
		Root string `yaml:"root"`
	} `yaml:"media"`
	Logs struct {
		Level     string `yaml:"level"`
		SentryDSN string `yaml:"sentry_dsn"`
	} `yaml:"logs"`
}

var AppConfig *ConfigSchema

func LoadConfig(filePath string) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	conf := &ConfigSchema{}
	if err = yaml.Unmarshal(data, conf); err != nil {
		return err
	}
	AppConfig = conf
	return nil
}
