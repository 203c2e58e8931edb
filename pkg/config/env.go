package config

// EnvPrefix is the envconfig prefix shared by all variables.
const EnvPrefix = "FARMERSGATE"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvDBDSN  = "FARMERSGATE_DB_DSN"
	EnvDBHost = "FARMERSGATE_DB_HOST"
	EnvDBUser = "FARMERSGATE_DB_USER"
	EnvDBName = "FARMERSGATE_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
