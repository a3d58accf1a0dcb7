package config

// EnvPrefix namespaces every environment variable consumed by the platform.
const EnvPrefix = "VITRINA"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvDBDSN  = "VITRINA_DB_DSN"
	EnvDBHost = "VITRINA_DB_HOST"
	EnvDBUser = "VITRINA_DB_USER"
	EnvDBName = "VITRINA_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
