package domain

type Config struct {
	FQDN        string `yaml:"fqdn"`
	LinkBaseURL string `yaml:"linkBaseURL"`
	LinkSecret  string `yaml:"linkSecret"`
}
