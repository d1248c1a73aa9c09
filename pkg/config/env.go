package config

// EnvPrefix namespaces every environment variable this service reads.
const EnvPrefix = "MEMBERCARD"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "production"
)

const (
	EnvAppEnv   = "MEMBERCARD_APP_ENV"
	EnvPort     = "MEMBERCARD_APP_PORT"
	EnvLogLevel = "MEMBERCARD_LOG_LEVEL"

	EnvDBDSN  = "MEMBERCARD_DB_DSN"
	EnvDBHost = "MEMBERCARD_DB_HOST"
	EnvDBUser = "MEMBERCARD_DB_USER"
	EnvDBName = "MEMBERCARD_DB_NAME"

	EnvRedisURL = "MEMBERCARD_REDIS_URL"

	EnvCardTemplatePath = "MEMBERCARD_CARD_TEMPLATE_PATH"
	EnvCardPreviewMode  = "MEMBERCARD_CARD_PREVIEW_MODE"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
