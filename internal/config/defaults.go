package config

const (
	defaultBind          = ":8080"
	defaultDBPath        = "./moviedeck.db"
	defaultRemoteBaseURL = "http://localhost:8080/api"
	defaultRemoteTimeout = 10
	defaultLogLevel      = "info"
	defaultLogFormat     = "console"
	envPort              = "PORT"
	envDBPath            = "DB_PATH"
	envRemoteBaseURL     = "MOVIES_API_URL"
	envLogLevel          = "LOG_LEVEL"
	envStaticDir         = "STATIC_DIR"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Server: Server{
			Bind:   defaultBind,
			DBPath: defaultDBPath,
		},
		Remote: Remote{
			BaseURL:        defaultRemoteBaseURL,
			TimeoutSeconds: defaultRemoteTimeout,
		},
		Logging: Logging{
			Level:  defaultLogLevel,
			Format: defaultLogFormat,
		},
	}
}
