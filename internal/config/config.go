package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	ServerAddress string
	LogLevel      string

	MongoURI string
	MongoDB  string
	DataDir  string

	JWTSecret     string
	JWTExpiration time.Duration

	FirebaseProjectID       string
	FirebaseCredentialsJSON string

	UploadDir           string
	MaxUploadSizeMB     int64
	CloudinaryCloudName string
	CloudinaryPreset    string
	StorageBucket       string

	MapsAPIKey string

	RetentionGrace    time.Duration
	RetentionInterval time.Duration
}

func Load() *Config {
	return &Config{
		ServerAddress: getEnv("SERVER_ADDRESS", ":8080"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),

		MongoURI: getEnv("MONGO_URI", ""),
		MongoDB:  getEnv("MONGO_DB", "mamamaps"),
		DataDir:  getEnv("DATA_DIR", "./data"),

		JWTSecret:     getEnv("JWT_SECRET", "your-secret-key-change-in-production"),
		JWTExpiration: 24 * time.Hour,

		FirebaseProjectID:       getEnv("FIREBASE_PROJECT_ID", ""),
		FirebaseCredentialsJSON: getEnv("FIREBASE_CREDENTIALS_JSON", ""),

		UploadDir:           getEnv("UPLOAD_DIR", "./uploads"),
		MaxUploadSizeMB:     10,
		CloudinaryCloudName: getEnv("CLOUDINARY_CLOUD_NAME", ""),
		CloudinaryPreset:    getEnv("CLOUDINARY_UPLOAD_PRESET", ""),
		StorageBucket:       getEnv("STORAGE_BUCKET", ""),

		MapsAPIKey: getEnv("MAPS_API_KEY", ""),

		RetentionGrace:    getDurationEnv("RETENTION_GRACE", 168*time.Hour),
		RetentionInterval: getDurationEnv("RETENTION_INTERVAL", time.Hour),
	}
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second
	}
	return defaultValue
}
