package config

import (
	"fmt"
	"os"
	"path"

	"github.com/spf13/cast"
	"gopkg.in/yaml.v2"
)

type DBConfig struct {
	Type     string `yaml:"type" json:"type"`
	Host     string `yaml:"host" json:"host"`
	Port     int    `yaml:"port" json:"port"`
	Name     string `yaml:"name" json:"name"`
	User     string `yaml:"user" json:"user"`
	Passwd   string `yaml:"passwd" json:"passwd"`
	MaxConn  int    `yaml:"max_conn" json:"max_conn"`
	IdleConn int    `yaml:"idle_conn" json:"idle_conn"`
	Debug    bool   `yaml:"debug" json:"debug"`
}

type SysConfig struct {
	Appid    string `yaml:"appid" json:"appid"`
	Location string `yaml:"location" json:"location"`
	Workdir  string `yaml:"workdir" json:"workdir"`
	Debug    bool   `yaml:"debug" json:"debug"`
}

type WebConfig struct {
	Host      string `yaml:"host" json:"host"`
	Port      int    `yaml:"port" json:"port"`
	Secret    string `yaml:"secret" json:"secret"`
	JwtMaxAge int    `yaml:"jwt_max_age" json:"jwt_max_age"`
}

type LogConfig struct {
	Mode       string `yaml:"mode" json:"mode"`
	FileEnable bool   `yaml:"file_enable" json:"file_enable"`
	Filename   string `yaml:"filename" json:"filename"`
}

type AppConfig struct {
	System   SysConfig `yaml:"system" json:"system"`
	Web      WebConfig `yaml:"web" json:"web"`
	Database DBConfig  `yaml:"database" json:"database"`
	Logger   LogConfig `yaml:"logger" json:"logger"`
}

func (c *AppConfig) GetLogDir() string {
	return path.Join(c.System.Workdir, "logs")
}

func (c *AppConfig) GetDataDir() string {
	return path.Join(c.System.Workdir, "data")
}

func (c *AppConfig) initDirs() {
	_ = os.MkdirAll(path.Join(c.System.Workdir, "logs"), 0755)
	_ = os.MkdirAll(path.Join(c.System.Workdir, "data"), 0755)
}

var DefaultAppConfig = &AppConfig{
	System: SysConfig{
		Appid:    "CrmSystem",
		Location: "Asia/Kolkata",
		Workdir:  "/var/crm-system",
		Debug:    true,
	},
	Web: WebConfig{
		Host:      "0.0.0.0",
		Port:      1816,
		Secret:    "9b6de5cc-0001-1203-xxtt-0f568ac9da37",
		JwtMaxAge: 7 * 24 * 3600,
	},
	Database: DBConfig{
		Type:     "postgres",
		Host:     "127.0.0.1",
		Port:     5432,
		Name:     "crm_system",
		User:     "postgres",
		Passwd:   "myroot",
		MaxConn:  100,
		IdleConn: 10,
	},
	Logger: LogConfig{
		Mode:       "development",
		FileEnable: true,
		Filename:   "/var/crm-system/crm-system.log",
	},
}

func setEnvValue(name string, f func(v string)) {
	var evalue = os.Getenv(name)
	if evalue != "" {
		f(evalue)
	}
}

func setEnvInt64Value(name string, f func(v int64)) {
	var evalue = os.Getenv(name)
	if evalue == "" {
		return
	}
	p, err := cast.ToInt64E(evalue)
	if err == nil {
		f(p)
	}
}

// LoadConfig loads the yaml configuration file and applies
// CRM_* environment overrides on top of it.
func LoadConfig(cfile string) *AppConfig {
	// config priority: environment > config file > default
	cfg := DefaultAppConfig
	if cfile != "" {
		if _, err := os.Stat(cfile); err == nil {
			data, err := os.ReadFile(cfile)
			if err != nil {
				panic(err)
			}
			cfg = new(AppConfig)
			if err := yaml.Unmarshal(data, cfg); err != nil {
				panic(fmt.Errorf("parse config %s: %w", cfile, err))
			}
		}
	}

	setEnvValue("CRM_SYSTEM_WORKDIR", func(v string) { cfg.System.Workdir = v })
	setEnvValue("CRM_SYSTEM_DEBUG", func(v string) { cfg.System.Debug = v == "true" })
	setEnvValue("CRM_WEB_HOST", func(v string) { cfg.Web.Host = v })
	setEnvValue("CRM_WEB_SECRET", func(v string) { cfg.Web.Secret = v })
	setEnvInt64Value("CRM_WEB_PORT", func(v int64) { cfg.Web.Port = int(v) })
	setEnvValue("CRM_DB_TYPE", func(v string) { cfg.Database.Type = v })
	setEnvValue("CRM_DB_HOST", func(v string) { cfg.Database.Host = v })
	setEnvInt64Value("CRM_DB_PORT", func(v int64) { cfg.Database.Port = int(v) })
	setEnvValue("CRM_DB_NAME", func(v string) { cfg.Database.Name = v })
	setEnvValue("CRM_DB_USER", func(v string) { cfg.Database.User = v })
	setEnvValue("CRM_DB_PWD", func(v string) { cfg.Database.Passwd = v })
	setEnvValue("CRM_DB_DEBUG", func(v string) { cfg.Database.Debug = v == "true" })
	setEnvValue("CRM_LOGGER_MODE", func(v string) { cfg.Logger.Mode = v })

	cfg.initDirs()

	return cfg
}
