package configuration

import (
	"log/slog"

	"github.com/adampresley/configinator"
	"github.com/joho/godotenv"
)

type Config struct {
	AdminEmail             string `flag:"adminemail" env:"ADMIN_EMAIL" default:"admin@4kphotoz.com" description:"Email shown for the admin user"`
	AdminPassword          string `flag:"adminpassword" env:"ADMIN_PASSWORD" default:"" description:"Admin password (plain text). Ignored when ADMIN_PASSWORD_HASH is set"`
	AdminPasswordHash      string `flag:"adminpasswordhash" env:"ADMIN_PASSWORD_HASH" default:"" description:"bcrypt hash of the admin password"`
	AdminUsername          string `flag:"adminusername" env:"ADMIN_USERNAME" default:"admin" description:"Admin username"`
	AdobeAccessToken       string `flag:"adobeaccesstoken" env:"ADOBE_ACCESS_TOKEN" default:"" description:"Static access token for the photo catalog"`
	AdobeCatalogID         string `flag:"adobecatalogid" env:"ADOBE_CATALOG_ID" default:"" description:"Photo catalog identifier"`
	AdobeClientID          string `flag:"adobeclientid" env:"ADOBE_CLIENT_ID" default:"" description:"Photo catalog client ID"`
	AdobeClientSecret      string `flag:"adobeclientsecret" env:"ADOBE_CLIENT_SECRET" default:"" description:"Photo catalog client secret"`
	AdobeRefreshToken      string `flag:"adoberefreshtoken" env:"ADOBE_REFRESH_TOKEN" default:"" description:"Refresh token for the photo catalog"`
	AdobeTokenURL          string `flag:"adobetokenurl" env:"ADOBE_TOKEN_URL" default:"https://ims-na1.adobelogin.com/ims/token/v3" description:"Token endpoint for the photo catalog"`
	AlbumCacheSeconds      int    `flag:"albumcache" env:"ALBUM_CACHE_SECONDS" default:"300" description:"Seconds to cache gallery listings. 0 disables the cache"`
	AlertsFrom             string `flag:"alertsfrom" env:"ALERTS_FROM" default:"4kphotoz Alerts <onboarding@resend.dev>" description:"From address for gallery alerts"`
	AwsAccessKeyId         string `flag:"awsaccesskeyid" env:"AWS_ACCESS_KEY_ID" default:"" description:"AWS access key ID"`
	AwsEndpointUrl         string `flag:"awsep" env:"AWS_ENDPOINT_URL" default:"http://localhost:4566" description:"AWS endpoint URL"`
	AwsRegion              string `flag:"awsregion" env:"AWS_REGION" default:"us-west-1" description:"AWS region"`
	AwsSecretAccessKey     string `flag:"awssecretaccesskey" env:"AWS_SECRET_ACCESS_KEY" default:"" description:"AWS secret access key"`
	BadgerDir              string `flag:"badgerdir" env:"BADGER_DIR" default:"./data/badger" description:"Directory for the badger store"`
	ContactFrom            string `flag:"contactfrom" env:"CONTACT_FROM" default:"Contact Form <onboarding@resend.dev>" description:"From address for contact form emails"`
	ContactToEmail         string `flag:"contactto" env:"CONTACT_TO_EMAIL" default:"" description:"Mailbox that receives contact form submissions"`
	CookieSecret           string `flag:"cookiesecret" env:"COOKIE_SECRET" default:"password" description:"Secret for encoding cookies"`
	DataFile               string `flag:"datafile" env:"DATA_FILE" default:"./data/admin-data.json" description:"JSON document used by the file store"`
	DSN                    string `flag:"dsn" env:"DSN" default:"file:./data/4kphotoz.db" description:"Data source name for the sqlite store"`
	EmailApiKey            string `flag:"emailapikey" env:"EMAIL_API_KEY" default:"" description:"API key for sending emails. Emails are only logged when empty"`
	EmailTimeoutSeconds    int    `flag:"emailtimeout" env:"EMAIL_TIMEOUT_SECONDS" default:"10" description:"Timeout for a single email delivery"`
	FallbackImagePath      string `flag:"fallbackimage" env:"FALLBACK_IMAGE_PATH" default:"./public/nature.jpg" description:"Image served when a rendition cannot be fetched"`
	Host                   string `flag:"host" env:"HOST" default:"localhost:8081" description:"The address and port to bind the HTTP server to"`
	LightroomApiBase       string `flag:"lightroombase" env:"LIGHTROOM_API_BASE" default:"https://lr.adobe.io/v2" description:"Photo catalog API base URL"`
	LogLevel               string `flag:"loglevel" env:"LOG_LEVEL" default:"debug" description:"The log level to use. Valid values are 'debug', 'info', 'warn', and 'error'"`
	MaxGalleryWorkers      int    `flag:"mgw" env:"MAX_GALLERY_WORKERS" default:"4" description:"Maximum number of concurrent catalog album lookups"`
	MaxSendWorkers         int    `flag:"msw" env:"MAX_SEND_WORKERS" default:"0" description:"Maximum number of concurrent alert emails. 0 means one per recipient"`
	PublicRateLimit        int    `flag:"ratelimit" env:"PUBLIC_RATE_LIMIT" default:"10" description:"Requests per minute per IP for public form endpoints"`
	StoreBackend           string `flag:"store" env:"STORE_BACKEND" default:"file" description:"Settings and signup store. Valid values are 'memory', 'file', 'sqlite', 'badger', and 's3'"`
	StoreBucket            string `flag:"storebucket" env:"STORE_BUCKET" default:"4kphotoz-admin" description:"S3 bucket for the s3 store"`
	StorePrefix            string `flag:"storeprefix" env:"STORE_PREFIX" default:"admin-data" description:"S3 key prefix for the s3 store"`
	UpstreamTimeoutSeconds int    `flag:"upstreamtimeout" env:"UPSTREAM_TIMEOUT_SECONDS" default:"10" description:"Timeout for a single photo catalog request"`
}

/*
LoadConfig reads .env.local and .env (when present) into the environment,
then resolves flags, environment and defaults.
*/
func LoadConfig() Config {
	for _, file := range []string{".env.local", ".env"} {
		if err := godotenv.Load(file); err == nil {
			slog.Debug("loaded environment file", "file", file)
		}
	}

	config := Config{}
	configinator.Behold(&config)
	return config
}
