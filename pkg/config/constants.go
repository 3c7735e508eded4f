package config

const (
	EnvPrefix = "TECHMART"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvDBDSN  = "TECHMART_DB_DSN"
	EnvDBHost = "TECHMART_DB_HOST"
	EnvDBUser = "TECHMART_DB_USER"
	EnvDBName = "TECHMART_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
