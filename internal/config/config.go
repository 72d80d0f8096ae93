package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all runtime configuration loaded from environment variables.
type Config struct {
	AppPort string
	AppEnv  string

	AWSRegion      string
	AWSEndpointURL string // empty in prod, set to LocalStack URL in dev
	AWSAccessKeyID string
	AWSSecretKey   string

	DynamoTables DynamoTables

	// SNSTopicARN is the topic the delivery worker publishes fired reminders to.
	SNSTopicARN string

	// DeliveryInterval is how often the worker polls for due notifications.
	DeliveryInterval time.Duration

	JWTPrivateKeyPath string
	JWTPublicKeyPath  string
	JWTExpiry         time.Duration

	// OwnerPassphraseHash is the bcrypt hash of the single owner's passphrase.
	// When empty, login is disabled and the API runs unauthenticated.
	OwnerPassphraseHash string

	AllowedOrigins []string // CORS allowed origins
}

// DynamoTables holds the DynamoDB table name for each entity.
type DynamoTables struct {
	People                 string
	Notes                  string
	Reminders              string
	ScheduledNotifications string
}

// Load reads all configuration from environment variables.
func Load() *Config {
	return &Config{
		AppPort: getEnv("APP_PORT", "3000"),
		AppEnv:  getEnv("APP_ENV", "development"),

		AWSRegion:      getEnv("AWS_REGION", "us-east-1"),
		AWSEndpointURL: getEnv("AWS_ENDPOINT_URL", ""),
		AWSAccessKeyID: getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretKey:   getEnv("AWS_SECRET_ACCESS_KEY", ""),

		DynamoTables: DynamoTables{
			People:                 getEnv("DYNAMO_TABLE_PEOPLE", "people"),
			Notes:                  getEnv("DYNAMO_TABLE_NOTES", "notes"),
			Reminders:              getEnv("DYNAMO_TABLE_REMINDERS", "reminders"),
			ScheduledNotifications: getEnv("DYNAMO_TABLE_SCHEDULED_NOTIFICATIONS", "scheduled_notifications"),
		},

		SNSTopicARN:      getEnv("SNS_TOPIC_ARN", ""),
		DeliveryInterval: getEnvDuration("DELIVERY_INTERVAL", time.Minute),

		JWTPrivateKeyPath: getEnv("JWT_PRIVATE_KEY_PATH", "./private_key.pem"),
		JWTPublicKeyPath:  getEnv("JWT_PUBLIC_KEY_PATH", "./public_key.pem"),
		JWTExpiry:         time.Duration(getEnvInt("JWT_EXPIRY_DAYS", 7)) * 24 * time.Hour,

		OwnerPassphraseHash: getEnv("OWNER_PASSPHRASE_HASH", ""),

		AllowedOrigins: strings.Split(getEnv("ALLOWED_ORIGINS", "*"), ","),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
