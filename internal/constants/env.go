// Package constants provides centralized definitions of constants used throughout the application
package constants

// Environment variable names
const (
	// EnvConfigFile points at an optional YAML file loaded before the environment is applied
	EnvConfigFile = "VERSE_CONFIG_FILE"

	// EnvListenAddr is the address the API server binds to
	EnvListenAddr = "VERSE_LISTEN_ADDR"

	// EnvJWTSecret is the HMAC secret shared with the identity service that signs access tokens
	EnvJWTSecret = "VERSE_JWT_SECRET"

	// EnvStorageBackend selects the artifact storage backend ("local" or "s3")
	EnvStorageBackend = "VERSE_STORAGE_BACKEND"
	// EnvStorageDir is the root directory of the local storage backend
	EnvStorageDir = "VERSE_STORAGE_DIR"
	// EnvPublicBaseURL is prefixed to object keys when building artifact URLs
	EnvPublicBaseURL = "VERSE_PUBLIC_BASE_URL"

	EnvS3Bucket    = "VERSE_S3_BUCKET"
	EnvS3Region    = "VERSE_S3_REGION"
	EnvS3Endpoint  = "VERSE_S3_ENDPOINT"
	EnvS3AccessKey = "VERSE_S3_ACCESS_KEY"
	EnvS3SecretKey = "VERSE_S3_SECRET_KEY"

	// EnvMaxUploadMB caps the request body size in megabytes
	EnvMaxUploadMB = "VERSE_MAX_UPLOAD_MB"
	// EnvCORSOrigins is a comma separated list of allowed origins
	EnvCORSOrigins = "VERSE_CORS_ORIGINS"

	// EnvLogLevel is the logrus level name
	EnvLogLevel = "LOG_LEVEL"

	EnvDBHost       = "DB_HOST"
	EnvDBPort       = "DB_PORT"
	EnvDBUser       = "DB_USER"
	EnvDBPassword   = "DB_PASSWORD"
	EnvDBName       = "DB_NAME"
	EnvDBSSLEnabled = "DB_SSL_ENABLED"

	// EnvAPIURL is read by the CLI to find the server
	EnvAPIURL = "VERSE_API_URL"
	// EnvToken is read by the CLI as the bearer token
	EnvToken = "VERSE_TOKEN"
)
