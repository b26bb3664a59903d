package realtime

import "blockgen"

type Config struct {
	NatsURL      string
	TenantID     string
	JWTSecret    string
	RealtimePort string
}

// LoadConfig reads the realtime settings from the environment. The env file
// is optional for this service.
func LoadConfig() Config {
	return Config{
		NatsURL:      blockgen.GetEnv("NATS_URL", "nats://localhost:4222"),
		TenantID:     blockgen.GetEnv("TENANT_ID", "default"),
		JWTSecret:    blockgen.GetEnv("JWT_SECRET", ""),
		RealtimePort: blockgen.GetEnv("REALTIME_PORT", ":8081"),
	}
}
