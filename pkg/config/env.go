package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// EnvConfig 环境变量覆盖项
//
// 优先级：命令行参数 > 环境变量 > 场景配置文件。
type EnvConfig struct {
	SceneConfig string `env:"TALKROOM_SCENE_CONFIG"`
	ModelURL    string `env:"TALKROOM_MODEL_URL"`
	FontURL     string `env:"TALKROOM_FONT_URL"`
	Verbose     bool   `env:"TALKROOM_VERBOSE"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// LoadEnvConfig 读取 TALKROOM_* 环境变量
func LoadEnvConfig() (EnvConfig, error) {
	var cfg EnvConfig
	if err := ParseEnv(&cfg); err != nil {
		return EnvConfig{}, err
	}
	return cfg, nil
}

// ApplyTo 用非空的环境变量覆盖场景配置
func (e EnvConfig) ApplyTo(cfg *SceneConfig) {
	if e.ModelURL != "" {
		cfg.Model.URL = e.ModelURL
	}
	if e.FontURL != "" {
		cfg.Font.URL = e.FontURL
	}
}
