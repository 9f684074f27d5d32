package config

import (
	"fmt"
	"os"
	"path"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

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
	JwtExpire int    `yaml:"jwt_expire" json:"jwt_expire"` // hours
}

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

type LoggerConfig struct {
	Mode       string `yaml:"mode" json:"mode"` // development or production
	FileEnable bool   `yaml:"file_enable" json:"file_enable"`
	Filename   string `yaml:"filename" json:"filename"`
}

type AppConfig struct {
	System   SysConfig    `yaml:"system" json:"system"`
	Web      WebConfig    `yaml:"web" json:"web"`
	Database DBConfig     `yaml:"database" json:"database"`
	Logger   LoggerConfig `yaml:"logger" json:"logger"`
}

var DefaultAppConfig = &AppConfig{
	System: SysConfig{
		Appid:    "baliboard",
		Location: "Asia/Makassar",
		Workdir:  "/var/baliboard",
		Debug:    true,
	},
	Web: WebConfig{
		Host:      "0.0.0.0",
		Port:      1890,
		Secret:    "9b6de5cc-baliboard-0cc9",
		JwtExpire: 24,
	},
	Database: DBConfig{
		Type:     "postgres",
		Host:     "127.0.0.1",
		Port:     5432,
		Name:     "baliboard",
		User:     "postgres",
		Passwd:   "",
		MaxConn:  100,
		IdleConn: 10,
	},
	Logger: LoggerConfig{
		Mode:       "development",
		FileEnable: true,
		Filename:   "/var/baliboard/baliboard.log",
	},
}

func (c *AppConfig) GetLogDir() string {
	return path.Join(c.System.Workdir, "logs")
}

func (c *AppConfig) GetDataDir() string {
	return path.Join(c.System.Workdir, "data")
}

func setEnvValue(name string, val *string) {
	if v, ok := os.LookupEnv(name); ok {
		*val = v
	}
}

func setEnvBoolValue(name string, val *bool) {
	if v, ok := os.LookupEnv(name); ok {
		*val = v == "true" || v == "1" || v == "on"
	}
}

func setEnvIntValue(name string, val *int) {
	if v, ok := os.LookupEnv(name); ok {
		var iv int
		if _, err := fmt.Sscanf(v, "%d", &iv); err == nil {
			*val = iv
		}
	}
}

// LoadConfig reads the yaml configuration file and applies environment
// overrides. A missing file is not an error, defaults are used instead.
func LoadConfig(cfile string) *AppConfig {
	_ = godotenv.Load()
	cfg := DefaultAppConfig
	if cfile != "" {
		if data, err := os.ReadFile(cfile); err == nil {
			cfg = new(AppConfig)
			if err := yaml.Unmarshal(data, cfg); err != nil {
				panic(errors.Wrapf(err, "parse config %s", cfile))
			}
		}
	}

	setEnvValue("BALIBOARD_SYSTEM_WORKDIR", &cfg.System.Workdir)
	setEnvBoolValue("BALIBOARD_SYSTEM_DEBUG", &cfg.System.Debug)

	setEnvValue("BALIBOARD_WEB_HOST", &cfg.Web.Host)
	setEnvValue("BALIBOARD_WEB_SECRET", &cfg.Web.Secret)
	setEnvIntValue("BALIBOARD_WEB_PORT", &cfg.Web.Port)

	setEnvValue("BALIBOARD_DB_TYPE", &cfg.Database.Type)
	setEnvValue("BALIBOARD_DB_HOST", &cfg.Database.Host)
	setEnvIntValue("BALIBOARD_DB_PORT", &cfg.Database.Port)
	setEnvValue("BALIBOARD_DB_NAME", &cfg.Database.Name)
	setEnvValue("BALIBOARD_DB_USER", &cfg.Database.User)
	setEnvValue("BALIBOARD_DB_PWD", &cfg.Database.Passwd)
	setEnvBoolValue("BALIBOARD_DB_DEBUG", &cfg.Database.Debug)

	setEnvValue("BALIBOARD_LOGGER_MODE", &cfg.Logger.Mode)
	setEnvBoolValue("BALIBOARD_LOGGER_FILE_ENABLE", &cfg.Logger.FileEnable)
	setEnvValue("BALIBOARD_LOGGER_FILENAME", &cfg.Logger.Filename)

	return cfg
}
