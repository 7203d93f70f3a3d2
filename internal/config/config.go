package config // package config loads application configuration from environment variables

import (
	"errors"  // errors joins every missing variable into one startup error
	"fmt"     // fmt formats error messages
	"os"      // os provides access to environment variables
	"strconv" // strconv converts strings to other types
	"strings" // strings normalises driver names
	"time"    // time parses durations such as the access token TTL
)

// Store drivers accepted by STORE_DRIVER.
const (
	DriverMongo  = "mongo"
	DriverMySQL  = "mysql"
	DriverMemory = "memory"
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.  It is resolved once at startup and passed
// explicitly to the components that need it.
type Config struct {
	Env  string // application environment (e.g. "dev", "prod")
	Port string // HTTP port to listen on

	StoreDriver string // mongo | mysql | memory

	MongoURI string // MongoDB connection string
	MongoDB  string // MongoDB database name

	DBUser string // MySQL username
	DBPass string // MySQL password (optional)
	DBHost string // MySQL host address
	DBPort string // MySQL port number
	DBName string // MySQL database name

	JWTSecret  string        // secret used to sign access tokens
	AccessTTL  time.Duration // access token time-to-live
	BcryptCost int           // bcrypt cost for password hashing

	S3Bucket        string // bucket receiving flyer images
	S3Region        string // bucket region
	S3Endpoint      string // custom endpoint (MinIO, R2, ...); empty means AWS
	S3AccessKey     string // static access key (optional, falls back to the default chain)
	S3SecretKey     string // static secret key
	S3PublicBaseURL string // base URL under which uploaded objects are publicly reachable
	UploadMaxBytes  int64  // largest accepted flyer upload

	AMQPURL string // RabbitMQ URL for activity messages; empty disables publishing

	Logging LoggingConfig
}

// LoggingConfig controls the zerolog output.
type LoggingConfig struct {
	Level  string // debug, info, warn, error
	Format string // json or console
}

// Load reads configuration values from environment variables and returns a
// Config.  Every missing required variable is reported in the returned
// error; callers treat it as fatal.  JWT_SECRET is always required.
func Load() (Config, error) {
	var missing []error
	must := func(key string) string {
		v, ok := os.LookupEnv(key)
		if !ok || strings.TrimSpace(v) == "" {
			missing = append(missing, fmt.Errorf("missing required env var: %s", key))
		}
		return v
	}

	cfg := Config{
		Env:         getenv("APP_ENV", "dev"),
		Port:        getenv("APP_PORT", "8080"),
		StoreDriver: strings.ToLower(getenv("STORE_DRIVER", DriverMongo)),
		JWTSecret:   must("JWT_SECRET"),
		S3Bucket:    os.Getenv("S3_BUCKET"),
		S3Region:    getenv("S3_REGION", "us-east-1"),
		S3Endpoint:  os.Getenv("S3_ENDPOINT"),
		S3AccessKey: os.Getenv("S3_ACCESS_KEY"),
		S3SecretKey: os.Getenv("S3_SECRET_KEY"),
		AMQPURL:     firstNonEmpty(os.Getenv("RABBITMQ_URL"), os.Getenv("AMQP_URL")),
		Logging: LoggingConfig{
			Level:  getenv("LOG_LEVEL", "info"),
			Format: getenv("LOG_FORMAT", "json"),
		},
	}
	cfg.S3PublicBaseURL = strings.TrimRight(os.Getenv("S3_PUBLIC_BASE_URL"), "/")

	switch cfg.StoreDriver {
	case DriverMongo:
		cfg.MongoURI = must("MONGO_URI")
		cfg.MongoDB = getenv("MONGO_DB", "events")
	case DriverMySQL:
		cfg.DBUser = must("DB_USER")
		cfg.DBPass = os.Getenv("DB_PASS") // empty allowed
		cfg.DBHost = must("DB_HOST")
		cfg.DBPort = getenv("DB_PORT", "3306")
		cfg.DBName = must("DB_NAME")
	case DriverMemory:
	default:
		missing = append(missing, fmt.Errorf("unknown STORE_DRIVER %q", cfg.StoreDriver))
	}

	ttl, err := time.ParseDuration(getenv("ACCESS_TOKEN_TTL", "60s"))
	if err != nil || ttl <= 0 {
		missing = append(missing, fmt.Errorf("invalid ACCESS_TOKEN_TTL %q", os.Getenv("ACCESS_TOKEN_TTL")))
	}
	cfg.AccessTTL = ttl

	cost, err := strconv.Atoi(getenv("BCRYPT_COST", "10"))
	if err != nil {
		missing = append(missing, fmt.Errorf("invalid int for BCRYPT_COST: %q", os.Getenv("BCRYPT_COST")))
	}
	cfg.BcryptCost = cost

	maxBytes, err := strconv.ParseInt(getenv("UPLOAD_MAX_BYTES", "10485760"), 10, 64)
	if err != nil || maxBytes <= 0 {
		missing = append(missing, fmt.Errorf("invalid UPLOAD_MAX_BYTES %q", os.Getenv("UPLOAD_MAX_BYTES")))
	}
	cfg.UploadMaxBytes = maxBytes

	if err := errors.Join(missing...); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
