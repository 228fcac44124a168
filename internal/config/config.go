package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/eidos-exchange/eidos/eidos-stark/pkg/config"
	"github.com/eidos-exchange/eidos/eidos-stark/pkg/field"
	"github.com/eidos-exchange/eidos/eidos-stark/pkg/logger"
	"github.com/eidos-exchange/eidos/eidos-stark/pkg/snip12"
)

// Config 服务配置
type Config struct {
	Service ServiceConfig `yaml:"service" json:"service"`
	Stark   StarkConfig   `yaml:"stark" json:"stark"`
	Log     logger.Config `yaml:"log" json:"log"`
}

// ServiceConfig 服务配置
type ServiceConfig struct {
	Name string `yaml:"name" json:"name" validate:"required"`
	Env  string `yaml:"env" json:"env" validate:"oneof=dev test prod"`
}

// StarkConfig 默认签名域与编码方案, 命令行参数可覆盖
type StarkConfig struct {
	Domain DomainConfig `yaml:"domain" json:"domain"`
	Scheme string       `yaml:"scheme" json:"scheme" validate:"required,scheme"`
}

// DomainConfig SNIP-12 域
type DomainConfig struct {
	Name     string `yaml:"name" json:"name" validate:"required,shortstring"`
	Version  string `yaml:"version" json:"version" validate:"required,shortstring"`
	ChainID  string `yaml:"chain_id" json:"chain_id" validate:"required,shortstring"`
	Revision string `yaml:"revision" json:"revision" validate:"required,shortstring"`
}

// SnipDomain 转换为 snip12.Domain
func (d DomainConfig) SnipDomain() snip12.Domain {
	return snip12.Domain{
		Name:     d.Name,
		Version:  d.Version,
		ChainID:  d.ChainID,
		Revision: d.Revision,
	}
}

// SchemeValue 解析编码方案
func (c StarkConfig) SchemeValue() (snip12.Scheme, error) {
	return snip12.ParseScheme(c.Scheme)
}

// Load 加载配置. path 为空时读取 CONFIG_PATH, 再退回 config/config.yaml;
// 文件不存在时使用默认值
func Load(path string) (*Config, error) {
	cfg := defaultConfig()

	if path == "" {
		path = config.GetEnv("CONFIG_PATH", "config/config.yaml")
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal([]byte(config.ExpandEnv(string(data))), cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	case !os.IsNotExist(err):
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	// 从环境变量覆盖
	loadFromEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate 校验配置, 包括域在所选方案下是否可用
func (c *Config) Validate() error {
	if err := newValidator().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	scheme, err := c.Stark.SchemeValue()
	if err != nil {
		return err
	}
	if err := c.Stark.Domain.SnipDomain().Validate(scheme); err != nil {
		return fmt.Errorf("invalid stark domain: %w", err)
	}
	return nil
}

// defaultConfig 返回默认配置
func defaultConfig() *Config {
	return &Config{
		Service: ServiceConfig{
			Name: "eidos-stark",
			Env:  "dev",
		},
		Stark: StarkConfig{
			Domain: DomainConfig{
				Name:     "Perpetuals",
				Version:  "v0",
				ChainID:  "SN_SEPOLIA",
				Revision: "1",
			},
			Scheme: snip12.SchemeTypedV1.String(),
		},
		Log: logger.Config{
			Level:       "info",
			Format:      "json",
			ServiceName: "eidos-stark",
		},
	}
}

// loadFromEnv 从环境变量加载配置
func loadFromEnv(cfg *Config) {
	if env := os.Getenv("SERVICE_ENV"); env != "" {
		cfg.Service.Env = env
	}

	// 签名域
	cfg.Stark.Domain.Name = config.GetEnv("STARK_DOMAIN_NAME", cfg.Stark.Domain.Name)
	cfg.Stark.Domain.Version = config.GetEnv("STARK_DOMAIN_VERSION", cfg.Stark.Domain.Version)
	cfg.Stark.Domain.ChainID = config.GetEnv("STARK_CHAIN_ID", cfg.Stark.Domain.ChainID)
	cfg.Stark.Domain.Revision = config.GetEnv("STARK_DOMAIN_REVISION", cfg.Stark.Domain.Revision)
	cfg.Stark.Scheme = config.GetEnv("STARK_SCHEME", cfg.Stark.Scheme)

	// 日志
	cfg.Log.Level = config.GetEnv("LOG_LEVEL", cfg.Log.Level)
	cfg.Log.Format = config.GetEnv("LOG_FORMAT", cfg.Log.Format)
}

func newValidator() *validator.Validate {
	validate := validator.New()

	if err := validate.RegisterValidation("shortstring", func(fl validator.FieldLevel) bool {
		_, err := field.ShortString(fl.FieldName(), fl.Field().String())
		return err == nil
	}); err != nil {
		panic(fmt.Sprintf("failed to register shortstring validation: %v", err))
	}
	if err := validate.RegisterValidation("scheme", func(fl validator.FieldLevel) bool {
		_, err := snip12.ParseScheme(fl.Field().String())
		return err == nil
	}); err != nil {
		panic(fmt.Sprintf("failed to register scheme validation: %v", err))
	}
	return validate
}
