package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// defaultGameplayYAML 内嵌的默认玩法配置
//
//go:embed gameplay.yaml
var defaultGameplayYAML []byte

// LoadGameplayConfig 加载玩法配置
//
// 按扩展名选择格式：.toml 使用 TOML，.yaml/.yml 使用 YAML。
// 文件中未出现的字段保留默认值。path 为空时返回内嵌默认配置。
//
// 参数:
//   - path: 配置文件路径（如 "data/gameplay.toml"）
//
// 返回:
//   - *GameplayConfig: 加载并验证后的配置
//   - error: 读取、解析或验证失败时返回错误
func LoadGameplayConfig(path string) (*GameplayConfig, error) {
	if path == "" {
		return EmbeddedGameplayConfig()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read gameplay config: %w", err)
	}

	cfg := DefaultGameplayConfig()
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse gameplay config %s: %w", path, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse gameplay config %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("unsupported gameplay config format '%s'", ext)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid gameplay config: %w", err)
	}
	return cfg, nil
}

// EmbeddedGameplayConfig 解析内嵌的 gameplay.yaml
func EmbeddedGameplayConfig() (*GameplayConfig, error) {
	cfg := DefaultGameplayConfig()
	if err := yaml.Unmarshal(defaultGameplayYAML, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse embedded gameplay config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid embedded gameplay config: %w", err)
	}
	return cfg, nil
}
