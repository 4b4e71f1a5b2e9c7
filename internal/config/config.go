package config

type Config interface {
	EnvConfig
	PollConfig
}

type EnvConfig interface {
	GetAppName() string
	GetBaseURL() string
	GetEnv() string
}

type mainConfig struct {
	EnvVars
	Poll
}

func New() Config {
	return mainConfig{}
}
