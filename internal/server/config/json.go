package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/contactbook/internal/flagx"
	"github.com/dmitrijs2005/contactbook/internal/timex"
)

// JsonConfig defines a configuration structure tailored for JSON unmarshalling.
// It uses timex.Duration for interval fields, which allows parsing both
// string values such as "15m" and integer nanoseconds.
//
// This struct is an intermediate DTO used only for reading JSON configuration
// files. After unmarshalling, non-zero fields are copied into the runtime
// Config, so a partial file only overrides what it mentions.
type JsonConfig struct {
	EndpointAddrGRPC             string         `json:"endpoint_addr_grpc"`
	MetricsAddr                  string         `json:"metrics_addr"`
	DatabaseDSN                  string         `json:"database_dsn"`
	SecretKey                    string         `json:"secret_key"`
	SigningAlgorithm             string         `json:"signing_algorithm"`
	AccessTokenValidityDuration  timex.Duration `json:"access_token_validity_duration"`
	RefreshTokenValidityDuration timex.Duration `json:"refresh_token_validity_duration"`
	EmailTokenValidityDuration   timex.Duration `json:"email_token_validity_duration"`
	BcryptCost                   int            `json:"bcrypt_cost"`
	MailHost                     string         `json:"mail_host"`
	MailPort                     int            `json:"mail_port"`
	MailUsername                 string         `json:"mail_username"`
	MailPassword                 string         `json:"mail_password"`
	MailFrom                     string         `json:"mail_from"`
	MailWorkers                  int            `json:"mail_workers"`
	MailQueueSize                int            `json:"mail_queue_size"`
	ConfirmBaseURL               string         `json:"confirm_base_url"`
	S3RootUser                   string         `json:"s3_root_user"`
	S3RootPassword               string         `json:"s3_root_password"`
	S3Bucket                     string         `json:"s3_bucket"`
	S3Region                     string         `json:"s3_region"`
	S3BaseEndpoint               string         `json:"s3_base_endpoint"`
	S3PublicURL                  string         `json:"s3_public_url"`
	AvatarMaxBytes               int64          `json:"avatar_max_bytes"`
	BirthdayWindowDays           int            `json:"birthday_window_days"`
	LogLevel                     string         `json:"log_level"`
}

// parseJson loads configuration values from a JSON file into the provided
// Config instance.
//
// The file path comes from the -c/-config flags or the CONTACTBOOK_CONFIG
// environment variable (see flagx.ConfigFileFlag). If neither is set, no JSON
// file is loaded. If the file cannot be read or contains invalid JSON, the
// function panics.
func parseJson(config *Config) {

	jsonConfigFile := flagx.ConfigFileFlag()

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	err = json.Unmarshal(file, c)
	if err != nil {
		panic(err)
	}

	overlayString(&config.EndpointAddrGRPC, c.EndpointAddrGRPC)
	overlayString(&config.MetricsAddr, c.MetricsAddr)
	overlayString(&config.DatabaseDSN, c.DatabaseDSN)
	overlayString(&config.SecretKey, c.SecretKey)
	overlayString(&config.SigningAlgorithm, c.SigningAlgorithm)
	if c.AccessTokenValidityDuration.Duration > 0 {
		config.AccessTokenValidityDuration = c.AccessTokenValidityDuration.Duration
	}
	if c.RefreshTokenValidityDuration.Duration > 0 {
		config.RefreshTokenValidityDuration = c.RefreshTokenValidityDuration.Duration
	}
	if c.EmailTokenValidityDuration.Duration > 0 {
		config.EmailTokenValidityDuration = c.EmailTokenValidityDuration.Duration
	}
	overlayInt(&config.BcryptCost, c.BcryptCost)
	overlayString(&config.MailHost, c.MailHost)
	overlayInt(&config.MailPort, c.MailPort)
	overlayString(&config.MailUsername, c.MailUsername)
	overlayString(&config.MailPassword, c.MailPassword)
	overlayString(&config.MailFrom, c.MailFrom)
	overlayInt(&config.MailWorkers, c.MailWorkers)
	overlayInt(&config.MailQueueSize, c.MailQueueSize)
	overlayString(&config.ConfirmBaseURL, c.ConfirmBaseURL)
	overlayString(&config.S3RootUser, c.S3RootUser)
	overlayString(&config.S3RootPassword, c.S3RootPassword)
	overlayString(&config.S3Bucket, c.S3Bucket)
	overlayString(&config.S3Region, c.S3Region)
	overlayString(&config.S3BaseEndpoint, c.S3BaseEndpoint)
	overlayString(&config.S3PublicURL, c.S3PublicURL)
	if c.AvatarMaxBytes > 0 {
		config.AvatarMaxBytes = c.AvatarMaxBytes
	}
	overlayInt(&config.BirthdayWindowDays, c.BirthdayWindowDays)
	overlayString(&config.LogLevel, c.LogLevel)
}

func overlayString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func overlayInt(dst *int, v int) {
	if v != 0 {
		*dst = v
	}
}
