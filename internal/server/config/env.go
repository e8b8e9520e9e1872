package config

import (
	"errors"
	"io/fs"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// parseEnv overlays environment variables onto config. Variables from
// envFile are loaded first without overriding ones already set in the
// process environment; a missing envFile is ignored.
//
// Recognised variables: PORT, GRPC_ADDR, DATABASE_URL, STORE_CONNECT_TIMEOUT,
// STORE_SOCKET_TIMEOUT, JWT_SECRET, JWT_TTL, ALLOW_ORIGINS, UPLOAD_DIR,
// MAX_UPLOAD_SIZE, PICTURE_BACKEND, S3_ROOT_USER, S3_ROOT_PASSWORD, S3_BUCKET,
// S3_REGION, S3_BASE_ENDPOINT, LOG_FORMAT, LOG_LEVEL.
func parseEnv(config *Config, envFile string) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			panic(err)
		}
	}

	v := viper.New()
	v.AutomaticEnv()

	if v.IsSet("PORT") {
		config.EndpointAddrHTTP = ":" + v.GetString("PORT")
	}

	strs := map[string]*string{
		"GRPC_ADDR":        &config.EndpointAddrGRPC,
		"DATABASE_URL":     &config.DatabaseDSN,
		"JWT_SECRET":       &config.SecretKey,
		"ALLOW_ORIGINS":    &config.AllowOrigins,
		"UPLOAD_DIR":       &config.UploadDir,
		"PICTURE_BACKEND":  &config.PictureBackend,
		"S3_ROOT_USER":     &config.S3RootUser,
		"S3_ROOT_PASSWORD": &config.S3RootPassword,
		"S3_BUCKET":        &config.S3Bucket,
		"S3_REGION":        &config.S3Region,
		"S3_BASE_ENDPOINT": &config.S3BaseEndpoint,
		"LOG_FORMAT":       &config.LogFormat,
		"LOG_LEVEL":        &config.LogLevel,
	}
	for key, dst := range strs {
		if v.IsSet(key) {
			*dst = v.GetString(key)
		}
	}

	if v.IsSet("STORE_CONNECT_TIMEOUT") {
		config.StoreConnectTimeout = v.GetDuration("STORE_CONNECT_TIMEOUT")
	}
	if v.IsSet("STORE_SOCKET_TIMEOUT") {
		config.StoreSocketTimeout = v.GetDuration("STORE_SOCKET_TIMEOUT")
	}
	if v.IsSet("JWT_TTL") {
		config.AccessTokenValidityDuration = v.GetDuration("JWT_TTL")
	}
	if v.IsSet("MAX_UPLOAD_SIZE") {
		config.MaxUploadSize = v.GetInt64("MAX_UPLOAD_SIZE")
	}
}
