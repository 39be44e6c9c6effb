package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/contactbook/internal/flagx"
)

// serverFlags lists every flag parseFlags understands; anything else on the
// command line is left for other components.
var serverFlags = []string{
	"-a", "-m", "-d", "-s", "-alg", "-t", "-r", "-x", "-k",
	"-mail-host", "-mail-port", "-mail-user", "-mail-password", "-mail-from",
	"-mail-workers", "-mail-queue", "-confirm-url",
	"-u", "-p", "-b", "-g", "-e", "-public-url", "-avatar-max-bytes",
	"-w", "-l",
}

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags:
//
//	-a string   gRPC bind address (e.g., ":50051")
//	-m string   metrics bind address (e.g., ":9090"; empty disables)
//	-d string   PostgreSQL DSN ("memory" for the in-memory store)
//	-s string   JWT HMAC secret key
//	-alg string JWT signing algorithm (HS256, HS384, HS512)
//	-t int      access token validity, minutes
//	-r int      refresh token validity, minutes
//	-x int      email-confirm token validity, minutes
//	-k int      bcrypt cost
//	-mail-*     SMTP host, port, user, password, from, worker count, queue size
//	-confirm-url string  base URL for email confirmation links
//	-u/-p/-b/-g/-e       S3 root user, password, bucket, region, base endpoint
//	-public-url string   public base URL avatars are served from
//	-avatar-max-bytes    avatar upload size limit
//	-w int      default upcoming-birthday window, days
//	-l string   log level
//
// Duration flags are accepted as integers in minutes and then converted
// to time.Duration values.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], serverFlags)

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrGRPC, "a", config.EndpointAddrGRPC, "address and port to run server")
	fs.StringVar(&config.MetricsAddr, "m", config.MetricsAddr, "address and port for the metrics endpoint")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")
	fs.StringVar(&config.SigningAlgorithm, "alg", config.SigningAlgorithm, "JWT signing algorithm")

	accessTokenValidityDuration := fs.Int("t", int(config.AccessTokenValidityDuration.Minutes()), "access_token_validity_duration (in minutes)")
	refreshTokenValidityDuration := fs.Int("r", int(config.RefreshTokenValidityDuration.Minutes()), "refresh_token_validity_duration (in minutes)")
	emailTokenValidityDuration := fs.Int("x", int(config.EmailTokenValidityDuration.Minutes()), "email_token_validity_duration (in minutes)")

	fs.IntVar(&config.BcryptCost, "k", config.BcryptCost, "bcrypt cost")

	fs.StringVar(&config.MailHost, "mail-host", config.MailHost, "SMTP host")
	fs.IntVar(&config.MailPort, "mail-port", config.MailPort, "SMTP port")
	fs.StringVar(&config.MailUsername, "mail-user", config.MailUsername, "SMTP username")
	fs.StringVar(&config.MailPassword, "mail-password", config.MailPassword, "SMTP password")
	fs.StringVar(&config.MailFrom, "mail-from", config.MailFrom, "sender address")
	fs.IntVar(&config.MailWorkers, "mail-workers", config.MailWorkers, "mail dispatch workers")
	fs.IntVar(&config.MailQueueSize, "mail-queue", config.MailQueueSize, "mail dispatch queue size")
	fs.StringVar(&config.ConfirmBaseURL, "confirm-url", config.ConfirmBaseURL, "email confirmation base URL")

	fs.StringVar(&config.S3RootUser, "u", config.S3RootUser, "S3 root user")
	fs.StringVar(&config.S3RootPassword, "p", config.S3RootPassword, "S3 root password")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 root bucket")
	fs.StringVar(&config.S3Region, "g", config.S3Region, "S3 root region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")
	fs.StringVar(&config.S3PublicURL, "public-url", config.S3PublicURL, "public base URL for stored avatars")
	fs.Int64Var(&config.AvatarMaxBytes, "avatar-max-bytes", config.AvatarMaxBytes, "maximum avatar size in bytes")

	fs.IntVar(&config.BirthdayWindowDays, "w", config.BirthdayWindowDays, "default upcoming birthday window (in days)")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.AccessTokenValidityDuration = time.Duration(*accessTokenValidityDuration) * time.Minute
	config.RefreshTokenValidityDuration = time.Duration(*refreshTokenValidityDuration) * time.Minute
	config.EmailTokenValidityDuration = time.Duration(*emailTokenValidityDuration) * time.Minute
}
