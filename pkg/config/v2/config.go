package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-ozzo/ozzo-validation/v4/is"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/mitchellh/mapstructure"

	"github.com/spf13/viper"
)

const (
	defaultExtension = "yaml"
	defaultTagName   = "yaml"
)

type Binder interface {
	Bind(v *viper.Viper) error
}

type Loader interface {
	Load(name, path, envPrefix string, binder Binder) (Config, error)
}

type Config struct {
	Server  Server  `yaml:"server"`
	Ranger  Ranger  `yaml:"ranger"`
	Console Console `yaml:"console"`
	Cache   Cache   `yaml:"cache"`
	Slack   Slack   `yaml:"slack"`

	LogLevel string `yaml:"log_level"`
	Debug    bool   `yaml:"debug"`
}

func (c Config) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Server, validation.Required),
		validation.Field(&c.Ranger, validation.Required),
		validation.Field(&c.Console, validation.Required),
		validation.Field(&c.Cache, validation.Required),
		validation.Field(&c.Slack),
		validation.Field(&c.LogLevel, validation.Required, validation.In("trace", "debug", "info", "warn", "error")),
	)
}

// Ranger is the admin REST API the console talks to.
type Ranger struct {
	APIURL         string `yaml:"api_url"`
	Username       string `yaml:"username"`
	Password       string `yaml:"password"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

func (r Ranger) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.APIURL, validation.Required, is.URL),
		validation.Field(&r.Username, validation.Required),
		validation.Field(&r.Password, validation.Required),
		validation.Field(&r.TimeoutSeconds, validation.Required, validation.Min(1)),
	)
}

func (r Ranger) Timeout() time.Duration {
	return time.Duration(r.TimeoutSeconds) * time.Second
}

type Console struct {
	BaseURL                    string   `yaml:"base_url"`
	AllowedOrigins             []string `yaml:"allowed_origins"`
	ItemsPerPage               int      `yaml:"items_per_page"`
	ViewIdleTimeoutSeconds     int      `yaml:"view_idle_timeout_seconds"`
	ViewJanitorIntervalSeconds int      `yaml:"view_janitor_interval_seconds"`
}

func (c Console) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.BaseURL, validation.Required, is.URL),
		validation.Field(&c.AllowedOrigins, validation.Each(is.URL)),
		validation.Field(&c.ItemsPerPage, validation.Required, validation.Min(1)),
		validation.Field(&c.ViewIdleTimeoutSeconds, validation.Required, validation.Min(1)),
		validation.Field(&c.ViewJanitorIntervalSeconds, validation.Required, validation.Min(1)),
	)
}

func (c Console) ViewIdleTimeout() time.Duration {
	return time.Duration(c.ViewIdleTimeoutSeconds) * time.Second
}

func (c Console) ViewJanitorInterval() time.Duration {
	return time.Duration(c.ViewJanitorIntervalSeconds) * time.Second
}

// Cache holds service descriptors and definitions, which rarely change.
type Cache struct {
	ServiceDefTTLSeconds int   `yaml:"service_def_ttl_seconds"`
	MaxEntries           int64 `yaml:"max_entries"`
}

func (c Cache) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.ServiceDefTTLSeconds, validation.Required, validation.Min(1)),
		validation.Field(&c.MaxEntries, validation.Required, validation.Min(int64(1))),
	)
}

func (c Cache) ServiceDefTTL() time.Duration {
	return time.Duration(c.ServiceDefTTLSeconds) * time.Second
}

type Slack struct {
	Enabled    bool   `yaml:"enabled"`
	WebhookURL string `yaml:"webhook_url"`
	Channel    string `yaml:"channel"`
}

func (s Slack) Validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.WebhookURL, validation.When(s.Enabled, validation.Required), is.URL),
	)
}

type Server struct {
	Hostname string `yaml:"hostname"`
	Address  string `yaml:"address"`
	Port     string `yaml:"port"`
}

func (s Server) Validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.Address, validation.Required, is.IP),
		validation.Field(&s.Hostname, validation.Required, is.Host),
		validation.Field(&s.Port, validation.Required, is.Port),
	)
}

type FileParts struct {
	FileName string
	Path     string
}

func ProcessConfigPath(configFile string) (FileParts, error) {
	absolutePath, err := filepath.Abs(configFile)
	if err != nil {
		return FileParts{}, fmt.Errorf("convert to absolute path: %w", err)
	}

	// Extract file name and extension
	fileName := filepath.Base(absolutePath)
	path := filepath.Dir(absolutePath)
	extension := filepath.Ext(fileName)

	if strings.ReplaceAll(strings.ToLower(extension), ".", "") != defaultExtension {
		return FileParts{}, fmt.Errorf("config file must have extension %s, got: %s", defaultExtension, extension)
	}

	return FileParts{
		FileName: fileName[:len(fileName)-len(extension)],
		Path:     path,
	}, nil
}

func NewFileSystemLoader() *FileSystemLoader {
	return &FileSystemLoader{}
}

type FileSystemLoader struct{}

func (fs *FileSystemLoader) Load(name, path, envPrefix string, b Binder) (Config, error) {
	v := viper.New()

	v.AddConfigPath(path)
	v.SetConfigName(name)
	v.SetConfigType(defaultExtension)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_")) // So that env vars are translated properly
	v.AutomaticEnv()

	if b != nil {
		err := b.Bind(v)
		if err != nil {
			return Config{}, err
		}
	}

	v.SetEnvPrefix(envPrefix)

	err := v.ReadInConfig()
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var config Config

	err = v.Unmarshal(&config, func(cfg *mapstructure.DecoderConfig) {
		cfg.TagName = defaultTagName // We use yaml tags in the config structs so we can marshal to yaml
	})
	if err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	return config, nil
}

type EnvBinder struct {
	binders map[string]string
}

func (e *EnvBinder) Bind(v *viper.Viper) error {
	for envVar, key := range e.binders {
		err := v.BindEnv(key, envVar)
		if err != nil {
			return fmt.Errorf("bind env var %s to key %s: %w", envVar, key, err)
		}
	}

	return nil
}

func NewEnvBinder(binders map[string]string) *EnvBinder {
	return &EnvBinder{
		binders: binders,
	}
}

func NewDefaultEnvBinder() *EnvBinder {
	return NewEnvBinder(map[string]string{
		"RANGER_ADMIN_USERNAME": "ranger.username",
		"RANGER_ADMIN_PASSWORD": "ranger.password",
		"SLACK_WEBHOOK_URL":     "slack.webhook_url",
	})
}
