package config

// EnvPrefix namespaces every environment variable read by Load.
const EnvPrefix = "MINSTORE"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvDBDSN  = "MINSTORE_DB_DSN"
	EnvDBHost = "MINSTORE_DB_HOST"
	EnvDBUser = "MINSTORE_DB_USER"
	EnvDBName = "MINSTORE_DB_NAME"
)

var requiredDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
