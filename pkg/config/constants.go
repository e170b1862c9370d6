package config

const (
	EnvPrefix = "cafepos"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvDBDSN  = "CAFEPOS_DB_DSN"
	EnvDBHost = "CAFEPOS_DB_HOST"
	EnvDBUser = "CAFEPOS_DB_USER"
	EnvDBName = "CAFEPOS_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
