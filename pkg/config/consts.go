package config

// EnvPrefix is passed to envconfig; individual fields carry fully
// qualified envconfig tags so the prefix stays empty.
const EnvPrefix = ""

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)
