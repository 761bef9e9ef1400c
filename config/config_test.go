package config

import (
	"os"
	"path"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	cfile := path.Join(t.TempDir(), "crm-system.yml")
	require.NoError(t, os.WriteFile(cfile, []byte(content), 0644))
	return cfile
}

func TestLoadConfigFromFile(t *testing.T) {
	workdir := t.TempDir()
	cfile := writeConfig(t, `
system:
  appid: CrmSystem
  location: Asia/Kolkata
  workdir: `+workdir+`
web:
  host: 127.0.0.1
  port: 2816
  secret: test-secret
  jwt_max_age: 604800
database:
  type: sqlite
  name: crm_test
logger:
  mode: development
`)

	cfg := LoadConfig(cfile)
	assert.Equal(t, "127.0.0.1", cfg.Web.Host)
	assert.Equal(t, 2816, cfg.Web.Port)
	assert.Equal(t, "test-secret", cfg.Web.Secret)
	assert.Equal(t, "sqlite", cfg.Database.Type)
	assert.Equal(t, workdir, cfg.System.Workdir)

	// data and log dirs are created alongside the workdir
	assert.DirExists(t, cfg.GetDataDir())
	assert.DirExists(t, cfg.GetLogDir())
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	workdir := t.TempDir()
	cfile := writeConfig(t, `
system:
  workdir: `+workdir+`
web:
  port: 2816
database:
  type: sqlite
`)

	t.Setenv("CRM_WEB_PORT", "3000")
	t.Setenv("CRM_DB_TYPE", "postgres")
	t.Setenv("CRM_DB_PWD", "hunter2")

	cfg := LoadConfig(cfile)
	assert.Equal(t, 3000, cfg.Web.Port)
	assert.Equal(t, "postgres", cfg.Database.Type)
	assert.Equal(t, "hunter2", cfg.Database.Passwd)
}

func TestLoadConfigBadEnvIntIgnored(t *testing.T) {
	workdir := t.TempDir()
	cfile := writeConfig(t, `
system:
  workdir: `+workdir+`
web:
  port: 2816
`)

	t.Setenv("CRM_WEB_PORT", "not-a-number")
	cfg := LoadConfig(cfile)
	assert.Equal(t, 2816, cfg.Web.Port)
}

func TestLoadConfigMissingFileFallsBack(t *testing.T) {
	workdir := t.TempDir()
	t.Setenv("CRM_SYSTEM_WORKDIR", workdir)

	cfg := LoadConfig(path.Join(workdir, "does-not-exist.yml"))
	assert.Equal(t, DefaultAppConfig.Web.Port, cfg.Web.Port)
	assert.Equal(t, workdir, cfg.System.Workdir)
}
