package config

import "os"

// Config holds process configuration read from the environment.
type Config struct {
	Addr          string
	DatabasePath  string
	CORSOrigin    string
	AdminUsername string
	AdminPassword string
}

// Load reads configuration from environment variables with defaults.
func Load() Config {
	return Config{
		Addr:          getEnv("COLUMBARIUM_ADDR", ":8080"),
		DatabasePath:  getEnv("COLUMBARIUM_DB_PATH", "./columbarium.db"),
		CORSOrigin:    getEnv("COLUMBARIUM_CORS_ORIGIN", "http://localhost:3000"),
		AdminUsername: getEnv("COLUMBARIUM_ADMIN_USERNAME", "admin"),
		AdminPassword: getEnv("COLUMBARIUM_ADMIN_PASSWORD", "admin"),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
