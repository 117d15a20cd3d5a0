package appconfig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadConfig_RendersEnvironment(t *testing.T) {
	t.Setenv("PORTAL_DB_URL", "postgres://portal@db:5432/portal?sslmode=disable")
	t.Setenv("PORTAL_JWT_SECRET", "s3cret")

	path := writeConfig(t, `
host: ":9000"
basePath: /v1
database:
  driver: postgres
  source: "{{ .PORTAL_DB_URL }}"
auth:
  jwtSecret: "{{ .PORTAL_JWT_SECRET }}"
  roleClaimPrefix: "portal:"
notifications:
  senderEmail: noreply@example.com
  complianceEmail: compliance@example.com
cors:
  allowedOrigins:
    - https://portal.example.com
codes:
  checklistPrefix: CHK
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.Host)
	assert.Equal(t, "/v1", cfg.BasePath)
	assert.Equal(t, "postgres://portal@db:5432/portal?sslmode=disable", cfg.Database.Source)
	assert.Equal(t, "s3cret", cfg.Auth.JWTSecret)
	assert.Equal(t, "portal:", cfg.Auth.RoleClaimPrefix)
	assert.Equal(t, "compliance@example.com", cfg.Notifications.ComplianceEmail)
	assert.Equal(t, []string{"https://portal.example.com"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, "CHK", cfg.Codes.ChecklistPrefix)
	assert.Equal(t, "EDU", cfg.Codes.EducationPrefix)
	assert.Equal(t, "REV", cfg.Codes.RevisionPrefix)
}

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://fallback")

	cfg, err := LoadConfig(writeConfig(t, "aws:\n  region: eu-west-2\n"))
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Host)
	assert.Equal(t, "/api", cfg.BasePath)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "postgres://fallback", cfg.Database.Source)
	assert.Equal(t, "CL", cfg.Codes.ChecklistPrefix)
	assert.Equal(t, "eu-west-2", cfg.AWS.Region)
}

func TestLoadConfig_Errors(t *testing.T) {
	_, err := LoadConfig("")
	assert.Error(t, err)

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = LoadConfig(writeConfig(t, "host: [unterminated"))
	assert.Error(t, err)
}

func TestLoadConfig_ShippedConfigWithOnlyDatabaseURL(t *testing.T) {
	for _, key := range []string{"DATABASE_SECRET_NAME", "JWT_SECRET", "PULSAR_URL", "SENDER_EMAIL", "COMPLIANCE_EMAIL"} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
	t.Setenv("DATABASE_URL", "postgres://portal@db:5432/portal?sslmode=disable")

	cfg, err := LoadConfig(filepath.Join("..", "..", "config.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "postgres://portal@db:5432/portal?sslmode=disable", cfg.Database.Source)
	assert.Empty(t, cfg.Database.SecretName)
	assert.Empty(t, cfg.Auth.JWTSecret)
	assert.Empty(t, cfg.Pulsar.URL)
	assert.Empty(t, cfg.Notifications.ComplianceEmail)
	assert.Equal(t, "ap-northeast-2", cfg.AWS.Region)
}
