package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	DBDriverPostgres = "postgres"
	DBDriverSQLite   = "sqlite"

	StorageDriverLocal = "local"
	StorageDriverOSS   = "oss"
)

type (
	APP struct {
		Name      string
		Host      string
		Port      string
		Env       string
		JWTSecret string
	}
	DB struct {
		Driver     string
		User       string
		Password   string
		Name       string
		Host       string
		Port       string
		SSLMode    string
		SQLitePath string
	}
	Storage struct {
		Driver    string
		LocalDir  string
		OpTimeout time.Duration
	}
	OSS struct {
		Endpoint        string
		AccessKeyID     string
		AccessKeySecret string
		Bucket          string
		Prefix          string
	}
	Upload struct {
		MaxFileSize int64
		MaxFiles    int
	}
	Session struct {
		TTL time.Duration
	}
	MQ struct {
		Enabled      bool
		User         string
		Password     string
		Vhost        string
		Host         string
		AmqpPort     string
		Exchange     string
		ExchangeType string
		QueueName    string
	}
	CORS struct {
		AllowOrigins []string
	}

	Config struct {
		App     APP
		DB      DB
		Storage Storage
		OSS     OSS
		Upload  Upload
		Session Session
		MQ      MQ
		CORS    CORS
	}
)

func getEnv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

func getEnvInt64(key string, def int64) int64 {
	n, err := strconv.ParseInt(getEnv(key, ""), 10, 64)
	if err != nil || n <= 0 {
		return def
	}
	return n
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(getEnv(key, ""))
	if err != nil || d <= 0 {
		return def
	}
	return d
}

func getEnvBool(key string, def bool) bool {
	b, err := strconv.ParseBool(getEnv(key, ""))
	if err != nil {
		return def
	}
	return b
}

func getEnvList(key string) []string {
	var out []string
	for _, v := range strings.Split(getEnv(key, ""), ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func Load() Config {
	app := APP{
		Name:      getEnv("SERVICE_NAME", "member-portal-api"),
		Host:      getEnv("SERVICE_HOST", ""),
		Port:      getEnv("SERVICE_PORT", "8080"),
		Env:       getEnv("SERVICE_ENV", "dev"),
		JWTSecret: getEnv("SERVICE_JWT_SECRET", ""),
	}
	db := DB{
		Driver:     getEnv("DB_DRIVER", DBDriverPostgres),
		User:       getEnv("POSTGRES_USER", ""),
		Password:   getEnv("POSTGRES_PASSWORD", ""),
		Name:       getEnv("POSTGRES_DB", ""),
		Host:       getEnv("POSTGRES_HOST", ""),
		Port:       getEnv("POSTGRES_PORT", "5432"),
		SSLMode:    getEnv("POSTGRES_SSLMODE", "disable"),
		SQLitePath: getEnv("SQLITE_PATH", "data/portal.db"),
	}
	storage := Storage{
		Driver:    getEnv("STORAGE_DRIVER", StorageDriverLocal),
		LocalDir:  getEnv("STORAGE_LOCAL_DIR", "data/uploads"),
		OpTimeout: getEnvDuration("STORAGE_OP_TIMEOUT", 30*time.Second),
	}
	oss := OSS{
		Endpoint:        getEnv("OSS_ENDPOINT", ""),
		AccessKeyID:     getEnv("OSS_ACCESS_KEY_ID", ""),
		AccessKeySecret: getEnv("OSS_ACCESS_KEY_SECRET", ""),
		Bucket:          getEnv("OSS_BUCKET", ""),
		Prefix:          getEnv("OSS_PREFIX", ""),
	}
	upload := Upload{
		MaxFileSize: getEnvInt64("UPLOAD_MAX_FILE_SIZE", 10<<20),
		MaxFiles:    int(getEnvInt64("UPLOAD_MAX_FILES", 20)),
	}
	session := Session{
		TTL: getEnvDuration("SESSION_TTL", 24*time.Hour),
	}
	mq := MQ{
		Enabled:      getEnvBool("RABBITMQ_ENABLED", false),
		User:         getEnv("RABBITMQ_USER", ""),
		Password:     getEnv("RABBITMQ_PASSWORD", ""),
		Vhost:        getEnv("RABBITMQ_VHOST", ""),
		Host:         getEnv("RABBITMQ_HOST", ""),
		AmqpPort:     getEnv("RABBITMQ_AMQP_PORT", ""),
		Exchange:     getEnv("RABBITMQ_EXCHANGE", "member-portal.files"),
		ExchangeType: getEnv("RABBITMQ_EXCHANGE_TYPE", "direct"),
		QueueName:    getEnv("RABBITMQ_QUEUE_NAME", "member-portal.files.audit"),
	}
	cors := CORS{
		AllowOrigins: getEnvList("CORS_ALLOW_ORIGINS"),
	}

	return Config{
		App:     app,
		DB:      db,
		Storage: storage,
		OSS:     oss,
		Upload:  upload,
		Session: session,
		MQ:      mq,
		CORS:    cors,
	}
}

// Validate checks what the server cannot start without.
func (c Config) Validate() error {
	if c.App.JWTSecret == "" {
		return errors.New("SERVICE_JWT_SECRET is required")
	}
	switch c.DB.Driver {
	case DBDriverPostgres, DBDriverSQLite:
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DB.Driver)
	}
	switch c.Storage.Driver {
	case StorageDriverLocal:
		if c.Storage.LocalDir == "" {
			return errors.New("STORAGE_LOCAL_DIR is required for the local storage driver")
		}
	case StorageDriverOSS:
		if err := c.OSS.Validate(); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unsupported STORAGE_DRIVER %q", c.Storage.Driver)
	}
	return nil
}

func (o OSS) Validate() error {
	if o.Endpoint == "" || o.Bucket == "" || o.AccessKeyID == "" || o.AccessKeySecret == "" {
		return errors.New("invalid OSS config: endpoint, bucket and credentials are required")
	}
	return nil
}

func (c Config) postgresURL(scheme string) (string, error) {
	if c.DB.User == "" || c.DB.Name == "" || c.DB.Host == "" || c.DB.Port == "" {
		return "", fmt.Errorf("incomplete DB config")
	}
	u := url.URL{
		Scheme:   scheme,
		User:     url.UserPassword(c.DB.User, c.DB.Password),
		Host:     c.DB.Host + ":" + c.DB.Port,
		Path:     "/" + c.DB.Name,
		RawQuery: url.Values{"sslmode": {c.DB.SSLMode}}.Encode(),
	}
	return u.String(), nil
}

func (c Config) DBDSN() (string, error) {
	return c.postgresURL("postgres")
}

// MigrateDSN is DBDSN under the scheme golang-migrate's pgx/v5 driver registers.
func (c Config) MigrateDSN() (string, error) {
	return c.postgresURL("pgx5")
}

func (c Config) AMQPDSN() (string, error) {
	if c.MQ.User == "" || c.MQ.Host == "" || c.MQ.AmqpPort == "" {
		return "", fmt.Errorf("invalid MQ config: user, host and amqp port are required")
	}

	return fmt.Sprintf(
		"%s://%s@%s:%s/%s",
		"amqp",
		url.UserPassword(c.MQ.User, c.MQ.Password).String(),
		c.MQ.Host,
		c.MQ.AmqpPort,
		url.PathEscape(c.MQ.Vhost),
	), nil
}
