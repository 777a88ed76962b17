package config

import (
	"os"

	"github.com/go-yaml/yaml"
)

type Config struct {
	Site   Site   `yaml:"site"`
	Server Server `yaml:"server"`
}

type Site struct {
	FQDN        string `yaml:"fqdn"`
	LinkBaseURL string `yaml:"linkBaseURL"`
	LinkSecret  string `yaml:"linkSecret"`
}

type Server struct {
	Listen        string `yaml:"listen"`
	PostgresDsn   string `yaml:"postgresDsn"` // empty = local-only seed mode
	RedisAddr     string `yaml:"redisAddr"`
	RedisDB       int    `yaml:"redisDB"`
	MemcachedAddr string `yaml:"memcachedAddr"`
	EnableTrace   bool   `yaml:"enableTrace"`
	TraceEndpoint string `yaml:"traceEndpoint"`
	StatePath     string `yaml:"statePath"`
	SMTPAddr      string `yaml:"smtpAddr"` // empty = log links instead of mailing
	SMTPFrom      string `yaml:"smtpFrom"`
	SessionTTLsec int    `yaml:"sessionTTLsec"`
}

func Load(path string) (Config, error) {

	file, err := os.Open(path)
	if err != nil {
		return Config{}, err
	}
	defer file.Close()

	var config Config
	err = yaml.NewDecoder(file).Decode(&config)
	if err != nil {
		return Config{}, err
	}

	if config.Server.Listen == "" {
		config.Server.Listen = ":8000"
	}
	if config.Server.StatePath == "" {
		config.Server.StatePath = "./state"
	}
	if config.Server.SessionTTLsec == 0 {
		config.Server.SessionTTLsec = 60 * 60 * 24 * 30
	}

	return config, nil
}
