package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{
		"DB_DRIVER", "STORAGE_DRIVER", "STORAGE_OP_TIMEOUT", "UPLOAD_MAX_FILE_SIZE",
		"UPLOAD_MAX_FILES", "SESSION_TTL", "RABBITMQ_ENABLED", "CORS_ALLOW_ORIGINS",
	} {
		t.Setenv(k, "")
	}

	cfg := Load()

	assert.Equal(t, DBDriverPostgres, cfg.DB.Driver)
	assert.Equal(t, StorageDriverLocal, cfg.Storage.Driver)
	assert.Equal(t, 30*time.Second, cfg.Storage.OpTimeout)
	assert.Equal(t, int64(10<<20), cfg.Upload.MaxFileSize)
	assert.Equal(t, 20, cfg.Upload.MaxFiles)
	assert.Equal(t, 24*time.Hour, cfg.Session.TTL)
	assert.False(t, cfg.MQ.Enabled)
	assert.Empty(t, cfg.CORS.AllowOrigins)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("STORAGE_OP_TIMEOUT", "5s")
	t.Setenv("UPLOAD_MAX_FILE_SIZE", "2048")
	t.Setenv("UPLOAD_MAX_FILES", "not-a-number")
	t.Setenv("RABBITMQ_ENABLED", "true")
	t.Setenv("CORS_ALLOW_ORIGINS", "http://localhost:3000, https://portal.example.org ,")

	cfg := Load()

	assert.Equal(t, DBDriverSQLite, cfg.DB.Driver)
	assert.Equal(t, 5*time.Second, cfg.Storage.OpTimeout)
	assert.Equal(t, int64(2048), cfg.Upload.MaxFileSize)
	assert.Equal(t, 20, cfg.Upload.MaxFiles)
	assert.True(t, cfg.MQ.Enabled)
	assert.Equal(t, []string{"http://localhost:3000", "https://portal.example.org"}, cfg.CORS.AllowOrigins)
}

func TestConfig_Validate(t *testing.T) {
	valid := Config{
		App:     APP{JWTSecret: "secret"},
		DB:      DB{Driver: DBDriverPostgres},
		Storage: Storage{Driver: StorageDriverLocal, LocalDir: "uploads"},
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"valid", func(*Config) {}, false},
		{"missing secret", func(c *Config) { c.App.JWTSecret = "" }, true},
		{"unknown db driver", func(c *Config) { c.DB.Driver = "mysql" }, true},
		{"unknown storage driver", func(c *Config) { c.Storage.Driver = "s3" }, true},
		{"oss without bucket", func(c *Config) { c.Storage.Driver = StorageDriverOSS }, true},
		{"oss complete", func(c *Config) {
			c.Storage.Driver = StorageDriverOSS
			c.OSS = OSS{Endpoint: "https://oss-cn-hangzhou.aliyuncs.com", Bucket: "b", AccessKeyID: "id", AccessKeySecret: "s"}
		}, false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			c := valid
			tt.mutate(&c)
			if tt.wantErr {
				assert.Error(t, c.Validate())
			} else {
				assert.NoError(t, c.Validate())
			}
		})
	}
}

func TestConfig_DSNs(t *testing.T) {
	c := Config{DB: DB{User: "portal", Password: "p@ss word", Name: "portal", Host: "db", Port: "5432", SSLMode: "disable"}}

	dsn, err := c.DBDSN()
	require.NoError(t, err)
	assert.Equal(t, "postgres://portal:p%40ss%20word@db:5432/portal?sslmode=disable", dsn)

	mdsn, err := c.MigrateDSN()
	require.NoError(t, err)
	assert.Equal(t, "pgx5://portal:p%40ss%20word@db:5432/portal?sslmode=disable", mdsn)

	_, err = Config{}.DBDSN()
	assert.Error(t, err)

	_, err = Config{}.AMQPDSN()
	assert.Error(t, err)

	c.MQ = MQ{User: "guest", Password: "guest", Host: "mq", AmqpPort: "5672", Vhost: "/"}
	amqp, err := c.AMQPDSN()
	require.NoError(t, err)
	assert.Equal(t, "amqp://guest:guest@mq:5672/%2F", amqp)
}
