package config

import (
	"os"
	"strings"
)

// applyEnv lets the environment override file values, mirroring the
// PORT/DB_PATH conventions of container deployments.
func (c *Config) applyEnv() {
	if port := getEnv(envPort, ""); port != "" {
		c.Server.Bind = ":" + strings.TrimPrefix(port, ":")
	}
	if dbPath := getEnv(envDBPath, ""); dbPath != "" {
		c.Server.DBPath = dbPath
	}
	if staticDir := getEnv(envStaticDir, ""); staticDir != "" {
		c.Server.StaticDir = staticDir
	}
	if baseURL := getEnv(envRemoteBaseURL, ""); baseURL != "" {
		c.Remote.BaseURL = baseURL
	}
	if level := getEnv(envLogLevel, ""); level != "" {
		c.Logging.Level = level
	}
}

func (c *Config) normalize() error {
	c.Server.Bind = strings.TrimSpace(c.Server.Bind)
	if c.Server.Bind == "" {
		c.Server.Bind = defaultBind
	}

	dbPath := strings.TrimSpace(c.Server.DBPath)
	if dbPath == "" {
		dbPath = defaultDBPath
	}
	expanded, err := expandPath(dbPath)
	if err != nil {
		return err
	}
	c.Server.DBPath = expanded

	if staticDir := strings.TrimSpace(c.Server.StaticDir); staticDir != "" {
		expanded, err := expandPath(staticDir)
		if err != nil {
			return err
		}
		c.Server.StaticDir = expanded
	}

	origins := c.Server.AllowedOrigins[:0]
	for _, origin := range c.Server.AllowedOrigins {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	c.Server.AllowedOrigins = origins

	c.Remote.BaseURL = strings.TrimRight(strings.TrimSpace(c.Remote.BaseURL), "/")
	if c.Remote.BaseURL == "" {
		c.Remote.BaseURL = defaultRemoteBaseURL
	}
	if c.Remote.TimeoutSeconds == 0 {
		c.Remote.TimeoutSeconds = defaultRemoteTimeout
	}

	if logFile := strings.TrimSpace(c.Logging.File); logFile != "" {
		expanded, err := expandPath(logFile)
		if err != nil {
			return err
		}
		c.Logging.File = expanded
	}

	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}
