package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/staffbook/internal/flagx"
	"github.com/dmitrijs2005/staffbook/internal/timex"
)

// JsonConfig is the on-disk shape of the optional JSON config file. Only
// fields present (non-zero) in the file override the current values.
type JsonConfig struct {
	EndpointAddrHTTP            string         `json:"endpoint_addr_http"`
	EndpointAddrGRPC            string         `json:"endpoint_addr_grpc"`
	DatabaseDSN                 string         `json:"database_dsn"`
	StoreConnectTimeout         timex.Duration `json:"store_connect_timeout"`
	StoreSocketTimeout          timex.Duration `json:"store_socket_timeout"`
	SecretKey                   string         `json:"secret_key"`
	AccessTokenValidityDuration timex.Duration `json:"access_token_validity_duration"`
	AllowOrigins                string         `json:"allow_origins"`
	UploadDir                   string         `json:"upload_dir"`
	MaxUploadSize               int64          `json:"max_upload_size"`
	PictureBackend              string         `json:"picture_backend"`
	S3RootUser                  string         `json:"s3_root_user"`
	S3RootPassword              string         `json:"s3_root_password"`
	S3Bucket                    string         `json:"s3_bucket"`
	S3Region                    string         `json:"s3_region"`
	S3BaseEndpoint              string         `json:"s3_base_endpoint"`
	LogFormat                   string         `json:"log_format"`
	LogLevel                    string         `json:"log_level"`
}

// parseJson loads the file named by -c/-config, if any, into config.
// It panics when the file cannot be read or parsed.
func parseJson(config *Config) {
	path := flagx.JsonConfigFlags()
	if path == "" {
		return
	}

	file, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	setString(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	setString(&config.EndpointAddrGRPC, c.EndpointAddrGRPC)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.SecretKey, c.SecretKey)
	setString(&config.AllowOrigins, c.AllowOrigins)
	setString(&config.UploadDir, c.UploadDir)
	setString(&config.PictureBackend, c.PictureBackend)
	setString(&config.S3RootUser, c.S3RootUser)
	setString(&config.S3RootPassword, c.S3RootPassword)
	setString(&config.S3Bucket, c.S3Bucket)
	setString(&config.S3Region, c.S3Region)
	setString(&config.S3BaseEndpoint, c.S3BaseEndpoint)
	setString(&config.LogFormat, c.LogFormat)
	setString(&config.LogLevel, c.LogLevel)

	if c.StoreConnectTimeout.Duration > 0 {
		config.StoreConnectTimeout = c.StoreConnectTimeout.Duration
	}
	if c.StoreSocketTimeout.Duration > 0 {
		config.StoreSocketTimeout = c.StoreSocketTimeout.Duration
	}
	if c.AccessTokenValidityDuration.Duration > 0 {
		config.AccessTokenValidityDuration = c.AccessTokenValidityDuration.Duration
	}
	if c.MaxUploadSize > 0 {
		config.MaxUploadSize = c.MaxUploadSize
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
