package config

// ServerConfig holds the record server settings.
type ServerConfig struct {
	Port         string
	DBPath       string
	AppID        int
	SeedFile     string
	ReadTimeout  int // seconds
	WriteTimeout int // seconds
}

// LoadServer reads ServerConfig from environment variables. Every field has a default.
func LoadServer() *ServerConfig {
	return &ServerConfig{
		Port:         getEnv("RECORD_SERVER_PORT", "3080"),
		DBPath:       getEnv("RECORDS_DB", "data/records.db"),
		AppID:        getEnvAsInt("KINTONE_APP_ID", 1),
		SeedFile:     getEnv("RECORDS_SEED", "assets/records.yaml"),
		ReadTimeout:  getEnvAsInt("READ_TIMEOUT", 10),
		WriteTimeout: getEnvAsInt("WRITE_TIMEOUT", 10),
	}
}
