package config

type Config interface {
	EnvConfig
	OtpConfig
	SessionConfig
}

type EnvConfig interface {
	GetAppName() string
	GetAPIBaseURL() string
	GetHTTPTimeout() string
	GetRedisAddr() string
	GetEnv() string
}

type mainConfig struct {
	EnvVars
	Otp
	Session
}

func New() Config {
	return mainConfig{}
}
