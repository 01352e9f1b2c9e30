package config

const EnvPrefix = "SKILLNOTES"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvAppEnv          = "SKILLNOTES_APP_ENV"
	EnvPort            = "SKILLNOTES_APP_PORT"
	EnvLogLevel        = "SKILLNOTES_LOG_LEVEL"
	EnvStorageDriver   = "SKILLNOTES_STORAGE_DRIVER"
	EnvCartKey         = "SKILLNOTES_STORAGE_CART_KEY"
	EnvPurchasesKey    = "SKILLNOTES_STORAGE_PURCHASES_KEY"
	EnvDBDSN           = "SKILLNOTES_DB_DSN"
	EnvRedisURL        = "SKILLNOTES_REDIS_URL"
	EnvRedisAddr       = "SKILLNOTES_REDIS_ADDR"
	EnvJWTSecret       = "SKILLNOTES_JWT_SECRET"
	EnvJWTIssuer       = "SKILLNOTES_JWT_ISSUER"
	EnvCatalogFile     = "SKILLNOTES_CATALOG_FILE"
	EnvAutoMigrate     = "SKILLNOTES_AUTO_MIGRATE"
	EnvMetricsEnabled  = "SKILLNOTES_METRICS_ENABLED"
	EnvRequireAuthPath = "SKILLNOTES_REQUIRE_AUTH"
)
