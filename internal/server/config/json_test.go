package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseJson_OverlaysValues(t *testing.T) {
	origArgs := os.Args
	defer func() { os.Args = origArgs }()

	dir := t.TempDir()
	path := filepath.Join(dir, "conf.json")
	body := `{
		"endpoint_addr_http": ":9999",
		"database_dsn": "postgres://json",
		"secret_key": "json-secret",
		"token_validity_duration": "45m",
		"bcrypt_cost": 12,
		"default_is_admin": true,
		"totp_issuer": "JsonIssuer",
		"mail_from": "mail@json",
		"sendgrid_api_key": "sg-key",
		"s3_root_user": "ju",
		"s3_root_password": "jp",
		"s3_bucket": "jb",
		"s3_region": "jr",
		"s3_base_endpoint": "http://json:9000/"
	}`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	os.Args = []string{"server", "-c", path}

	var c Config
	c.LoadDefaults()
	parseJson(&c)

	assert.Equal(t, ":9999", c.EndpointAddrHTTP)
	assert.Equal(t, "postgres://json", c.DatabaseDSN)
	assert.Equal(t, "json-secret", c.SecretKey)
	assert.Equal(t, 45*time.Minute, c.TokenValidityDuration)
	assert.Equal(t, 12, c.BcryptCost)
	assert.True(t, c.DefaultIsAdmin)
	assert.Equal(t, "JsonIssuer", c.TOTPIssuer)
	assert.Equal(t, "mail@json", c.MailFrom)
	assert.Equal(t, "sg-key", c.SendgridAPIKey)
	assert.Equal(t, "jb", c.S3Bucket)
}

func TestParseJson_NoFileFlagIsNoop(t *testing.T) {
	origArgs := os.Args
	defer func() { os.Args = origArgs }()

	os.Args = []string{"server"}

	var c Config
	c.LoadDefaults()
	parseJson(&c)

	assert.Equal(t, ":8080", c.EndpointAddrHTTP)
}
