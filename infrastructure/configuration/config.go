package configuration

import (
	"fmt"
	"os"
	"strconv"

	"hootsuite-publisher/infrastructure/logger"

	"github.com/spf13/viper"
)

type Config struct {
	Database    Database    `json:"database"`
	App         App         `json:"app"`
	Pubsub      Pubsub      `json:"pubsub"`
	ServiceBus  ServiceBus  `json:"serviceBus"`
	RedisClient RedisClient `json:"redisClient"`
	Logger      Logger      `json:"logger"`
	Hootsuite   Hootsuite   `json:"hootsuite"`
	TokenStore  TokenStore  `json:"tokenStore"`
	Audit       Audit       `json:"audit"`
	Media       Media       `json:"media"`
	Events      Events      `json:"events"`
}

type App struct {
	Port        int    `json:"port"`
	SecretKey   string `json:"secretKey"`
	TLSEnabled  bool   `json:"tlsEnabled"`
	TLSCertFile string `json:"tlsCertFile"`
	TLSKeyFile  string `json:"tlsKeyFile"`
}

type Database struct {
	Psql  Db `json:"psql"`
	MySql Db `json:"mysql"`
	Mongo Db `json:"mongo"`
	Mssql Db `json:"mssql"`
}

type Db struct {
	Name     string `json:"name"`
	Host     string `json:"host"`
	Port     string `json:"port"`
	User     string `json:"user"`
	Password string `json:"password"`
}

type Pubsub struct {
	ProjectID string `json:"projectID"`
}

type ServiceBus struct {
	Namespace string `json:"namespace"`
}

type RedisClient struct {
	Host         string `json:"host"`
	Port         string `json:"port"`
	Password     string `json:"password"`
	DatabaseName string `json:"databaseName"`
	Username     string `json:"username"`
}

type Logger struct {
	Format string `json:"format"`
	Level  string `json:"level"`
}

// Hootsuite holds the OAuth client credentials and REST endpoints
type Hootsuite struct {
	ClientID               string `json:"clientId"`
	ClientSecret           string `json:"clientSecret"`
	AuthEndpoint           string `json:"authEndpoint"`
	TokenEndpoint          string `json:"tokenEndpoint"`
	RedirectURI            string `json:"redirectURI"`
	BaseURL                string `json:"baseURL"`
	PostMessageEndpoint    string `json:"postMessageEndpoint"`
	MediaEndpoint          string `json:"mediaEndpoint"`
	SocialProfilesEndpoint string `json:"socialProfilesEndpoint"`
	RequestTimeoutSeconds  int    `json:"requestTimeoutSeconds"`
	MediaPollAttempts      int    `json:"mediaPollAttempts"`
	MediaPollIntervalMs    int    `json:"mediaPollIntervalMs"`
}

// TokenStore selects where the token pair lives: sql or redis
type TokenStore struct {
	Driver string `json:"driver"`
}

// Audit selects the publish audit backend: gorm, mongo or none
type Audit struct {
	Driver string `json:"driver"`
}

type Media struct {
	Root string `json:"root"`
	S3   S3     `json:"s3"`
}

type S3 struct {
	Bucket          string `json:"bucket"`
	Region          string `json:"region"`
	Endpoint        string `json:"endpoint"`
	AccessKeyID     string `json:"accessKeyId"`
	SecretAccessKey string `json:"secretAccessKey"`
	Prefix          string `json:"prefix"`
}

// Events selects the content event source: pubsub, servicebus or none
type Events struct {
	Driver       string `json:"driver"`
	Subscription string `json:"subscription"`
	Queue        string `json:"queue"`
}

var C Config

func init() {
	// Env files first so viper's AutomaticEnv sees them
	LoadEnvFromFile("config.env", ".env")
	LoadConfig()
	initDatabase(&C)
	initApp(&C)
	initDrivers(&C)
	// Prefer https redirect URIs locally when TLS enabled
	if C.App.TLSEnabled && C.Hootsuite.RedirectURI != "" && !hasHTTPS(C.Hootsuite.RedirectURI) {
		C.Hootsuite.RedirectURI = toHTTPSCallback(C.Hootsuite.RedirectURI)
	}
}

func LoadConfig() {
	name := getConfig()
	viper.SetConfigName(name)
	viper.SetConfigType("json")
	viper.AddConfigPath(".")
	viper.AddConfigPath("../")
	viper.AddConfigPath("../../")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// Config file not found; ignore error if desired
			logger.GetLogger().Warn("Config file not found")
		} else {
			// Config file was found but another error was produced
			logger.GetLogger().WithField("error", err).Error("Error reading config file")
		}
	}

	logger.GetLogger().WithField("config", name).Info("Config set up successfully")
	// Config file found and successfully parsed
	if err := viper.Unmarshal(&C); err != nil {
		logger.GetLogger().WithField("error", err).Error("Viper unable to decode into struct")
	}
}

func getConfig() string {
	name := "config"
	env := os.Getenv("ENV")
	if env != "" {
		name = fmt.Sprintf("%s-%s", name, env)
	}
	return name
}

func initDatabase(C *Config) {
	logger.GetLogger().WithField("host", C.Database.Psql.Host).WithField("name", C.Database.Psql.Name).Info("Database configuration")
	if C.Database.Psql.Name == "" {
		C.Database.Psql.Name = os.Getenv("DB_NAME")
	}
	if C.Database.Psql.Host == "" {
		C.Database.Psql.Host = os.Getenv("DB_HOST")
	}
	if C.Database.Psql.Password == "" {
		C.Database.Psql.Password = os.Getenv("DB_PASSWORD")
	}
	if C.Database.Psql.Port == "" {
		C.Database.Psql.Port = os.Getenv("DB_PORT")
	}

	// Optional MSSQL config via environment variables (for Azure SQL in production)
	if C.Database.Mssql.Name == "" {
		if v := os.Getenv("MSSQL_DB_NAME"); v != "" {
			C.Database.Mssql.Name = v
		}
	}
	if C.Database.Mssql.Host == "" {
		if v := os.Getenv("MSSQL_HOST"); v != "" {
			C.Database.Mssql.Host = v
		}
	}
	if C.Database.Mssql.Password == "" {
		if v := os.Getenv("MSSQL_PASSWORD"); v != "" {
			C.Database.Mssql.Password = v
		}
	}
	if C.Database.Mssql.Port == "" {
		if v := os.Getenv("MSSQL_PORT"); v != "" {
			C.Database.Mssql.Port = v
		} else {
			C.Database.Mssql.Port = "1433"
		}
	}
	if C.Database.Mssql.User == "" {
		if v := os.Getenv("MSSQL_USER"); v != "" {
			C.Database.Mssql.User = v
		}
	}

	// Local SQL Server defaults when nothing is configured
	if C.Database.Mssql.Host == "" {
		C.Database.Mssql.Host = "localhost"
	}
	if C.Database.Mssql.Port == "" {
		C.Database.Mssql.Port = "1433"
	}
	// Default to SA user for local container only when nothing provided
	if C.Database.Mssql.User == "" {
		C.Database.Mssql.User = "sa"
	}
	if C.Database.Mssql.Password == "" {
		// local container only
		C.Database.Mssql.Password = "Toughpass1!"
	}
}

func initApp(C *Config) {
	// Prefer SECRET_KEY from environment for JWT verification; overrides config file when provided
	if v := os.Getenv("SECRET_KEY"); v != "" {
		C.App.SecretKey = v
	}
	// Port resolution order (env overrides config): APP_PORT -> PORT -> config -> default 10001
	if v := os.Getenv("APP_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			C.App.Port = p
		}
	} else if v := os.Getenv("PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			C.App.Port = p
		}
	}
	if C.App.Port == 0 {
		C.App.Port = 10001
	}
	// Allow overriding TLS settings via env variables (both enable and disable)
	if v := os.Getenv("TLS_ENABLED"); v != "" {
		switch v {
		case "1", "true", "TRUE", "True":
			C.App.TLSEnabled = true
		case "0", "false", "FALSE", "False":
			C.App.TLSEnabled = false
		}
	}
	if C.App.TLSCertFile == "" {
		C.App.TLSCertFile = os.Getenv("TLS_CERT_FILE")
	}
	if C.App.TLSKeyFile == "" {
		C.App.TLSKeyFile = os.Getenv("TLS_KEY_FILE")
	}
	// Prefer local certs if TLS enabled and paths not provided
	if C.App.TLSEnabled {
		if C.App.TLSCertFile == "" {
			if _, err := os.Stat("certs/localhost.crt"); err == nil {
				C.App.TLSCertFile = "certs/localhost.crt"
			}
		}
		if C.App.TLSKeyFile == "" {
			if _, err := os.Stat("certs/localhost.key"); err == nil {
				C.App.TLSKeyFile = "certs/localhost.key"
			}
		}
	}
	if C.App.TLSEnabled {
		logger.GetLogger().WithFields(map[string]interface{}{"cert": C.App.TLSCertFile, "key": C.App.TLSKeyFile}).Info("TLS enabled via configuration")
	}
	if C.App.SecretKey == "" {
		logger.GetLogger().Warn("App.SecretKey not set; JWT authentication will fail. Provide SECRET_KEY via environment.")
	}
}

func initDrivers(C *Config) {
	C.TokenStore.Driver = getConfigValue(C.TokenStore.Driver, "TOKEN_STORE_DRIVER", "sql")
	C.Audit.Driver = getConfigValue(C.Audit.Driver, "AUDIT_DRIVER", "none")
	C.Events.Driver = getConfigValue(C.Events.Driver, "EVENTS_DRIVER", "none")
	C.Events.Subscription = getConfigValue(C.Events.Subscription, "EVENTS_SUBSCRIPTION", "content-saved")
	C.Events.Queue = getConfigValue(C.Events.Queue, "EVENTS_QUEUE", "content-saved")
	C.Media.Root = getConfigValue(C.Media.Root, "MEDIA_ROOT", "media")
	C.Media.S3.Bucket = getConfigValue(C.Media.S3.Bucket, "MEDIA_S3_BUCKET", "")
	C.Media.S3.Region = getConfigValue(C.Media.S3.Region, "MEDIA_S3_REGION", "")
	C.Media.S3.Endpoint = getConfigValue(C.Media.S3.Endpoint, "MEDIA_S3_ENDPOINT", "")
	C.Media.S3.AccessKeyID = getConfigValue(C.Media.S3.AccessKeyID, "MEDIA_S3_ACCESS_KEY_ID", "")
	C.Media.S3.SecretAccessKey = getConfigValue(C.Media.S3.SecretAccessKey, "MEDIA_S3_SECRET_ACCESS_KEY", "")
	C.Logger.Level = getConfigValue(C.Logger.Level, "LOG_LEVEL", "debug")
}

// helpers to coerce local callback to https
func hasHTTPS(u string) bool { return len(u) >= 8 && u[:8] == "https://" }
func toHTTPSCallback(u string) string {
	// simple swap for localhost callbacks
	if len(u) >= 7 && u[:7] == "http://" {
		return "https://" + u[7:]
	}
	return u
}
