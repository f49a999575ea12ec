package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

type SysConfig struct {
	Appid    string `yaml:"appid" json:"appid"`
	Location string `yaml:"location" json:"location"`
	Workdir  string `yaml:"workdir" json:"workdir"`
	Debug    bool   `yaml:"debug" json:"debug"`
}

type WebConfig struct {
	Host    string `yaml:"host" json:"host"`
	Port    int    `yaml:"port" json:"port"`
	Secret  string `yaml:"secret" json:"secret"`
	BaseURL string `yaml:"base_url" json:"base_url"`
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

type SmtpConfig struct {
	Host     string `yaml:"host" json:"host"`
	Port     int    `yaml:"port" json:"port"`
	Username string `yaml:"username" json:"username"`
	Password string `yaml:"password" json:"password"`
	From     string `yaml:"from" json:"from"`
}

// StoreConfig describes the storefront itself: the banner printed at the top
// of checkout messages and the admin account bootstrapped on first start.
type StoreConfig struct {
	Name          string `yaml:"name" json:"name"`
	AdminEmail    string `yaml:"admin_email" json:"admin_email"`
	AdminPassword string `yaml:"admin_password" json:"admin_password"`
	ImageStoreURL string `yaml:"image_store_url" json:"image_store_url"`
}

type LoggerConfig struct {
	Mode       string `yaml:"mode" json:"mode"`
	FileEnable bool   `yaml:"file_enable" json:"file_enable"`
	Filename   string `yaml:"filename" json:"filename"`
}

type AppConfig struct {
	System   SysConfig    `yaml:"system" json:"system"`
	Web      WebConfig    `yaml:"web" json:"web"`
	Database DBConfig     `yaml:"database" json:"database"`
	Smtp     SmtpConfig   `yaml:"smtp" json:"smtp"`
	Store    StoreConfig  `yaml:"store" json:"store"`
	Logger   LoggerConfig `yaml:"logger" json:"logger"`
}

var DefaultAppConfig = &AppConfig{
	System: SysConfig{
		Appid:    "Storefront",
		Location: "America/Sao_Paulo",
		Workdir:  "/var/storefront",
		Debug:    true,
	},
	Web: WebConfig{
		Host:    "0.0.0.0",
		Port:    1816,
		Secret:  "9b6de5cc-storefront-1816-9f2a-1466",
		BaseURL: "http://127.0.0.1:1816",
	},
	Database: DBConfig{
		Type:     "postgres",
		Host:     "127.0.0.1",
		Port:     5432,
		Name:     "storefront",
		User:     "postgres",
		Passwd:   "myroot",
		MaxConn:  100,
		IdleConn: 10,
		Debug:    false,
	},
	Smtp: SmtpConfig{
		Host: "smtp.gmail.com",
		Port: 587,
	},
	Store: StoreConfig{
		Name:          "D085 SUPLEMENTOS",
		AdminEmail:    "admin@localhost",
		AdminPassword: "storefront",
	},
	Logger: LoggerConfig{
		Mode:       "development",
		FileEnable: true,
		Filename:   "/var/storefront/storefront.log",
	},
}

func setEnvValue(name string, f func(v string)) {
	if v := os.Getenv(name); v != "" {
		f(v)
	}
}

// LoadConfig reads the YAML configuration file and applies environment
// variable overrides for deploy-time secrets. A missing file yields the
// built-in defaults.
func LoadConfig(cfile string) *AppConfig {
	cfg := DefaultAppConfig
	if cfile != "" {
		if data, err := os.ReadFile(cfile); err == nil {
			cfg = new(AppConfig)
			if err := yaml.Unmarshal(data, cfg); err != nil {
				panic(err)
			}
		}
	}

	setEnvValue("STOREFRONT_SYSTEM_WORKDIR", func(v string) { cfg.System.Workdir = v })
	setEnvValue("STOREFRONT_WEB_SECRET", func(v string) { cfg.Web.Secret = v })
	setEnvValue("STOREFRONT_WEB_BASEURL", func(v string) { cfg.Web.BaseURL = v })
	setEnvValue("STOREFRONT_DB_HOST", func(v string) { cfg.Database.Host = v })
	setEnvValue("STOREFRONT_DB_NAME", func(v string) { cfg.Database.Name = v })
	setEnvValue("STOREFRONT_DB_USER", func(v string) { cfg.Database.User = v })
	setEnvValue("STOREFRONT_DB_PWD", func(v string) { cfg.Database.Passwd = v })
	setEnvValue("STOREFRONT_SMTP_USERNAME", func(v string) { cfg.Smtp.Username = v })
	setEnvValue("STOREFRONT_SMTP_PASSWORD", func(v string) { cfg.Smtp.Password = v })
	setEnvValue("STOREFRONT_ADMIN_EMAIL", func(v string) { cfg.Store.AdminEmail = v })
	setEnvValue("STOREFRONT_ADMIN_PASSWORD", func(v string) { cfg.Store.AdminPassword = v })

	if cfg.Smtp.From == "" {
		cfg.Smtp.From = cfg.Smtp.Username
	}

	_ = os.MkdirAll(cfg.System.Workdir, 0755)
	_ = os.MkdirAll(filepath.Join(cfg.System.Workdir, "data"), 0755)

	return cfg
}
