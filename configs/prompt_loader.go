package config

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"workoutvibes-api/pkg/diet"
)

//go:embed prompts.yaml
var defaultPromptsYAML []byte

// PromptConfig はprompts.yamlの構造を定義
type PromptConfig struct {
	Chatbot struct {
		Template        string `yaml:"template"`
		SpecialCommands struct {
			Help struct {
				Trigger  []string `yaml:"trigger"`
				Response string   `yaml:"response"`
			} `yaml:"help"`
		} `yaml:"special_commands"`
	} `yaml:"chatbot"`

	// 段階ID(profile, health, ...)ごとの上書きテンプレート
	DietSteps map[string]string `yaml:"diet_steps"`

	Metadata struct {
		Version     string `yaml:"version"`
		LastUpdated string `yaml:"last_updated"`
	} `yaml:"metadata"`
}

var (
	promptCache   = map[string]*PromptConfig{}
	promptCacheMu sync.Mutex
)

// LoadPrompts はプロンプト設定を読み込みます。path が空なら組み込みの設定を使います。
// 読み込んだ結果はパスごとにキャッシュします。
func LoadPrompts(path string) (*PromptConfig, error) {
	promptCacheMu.Lock()
	defer promptCacheMu.Unlock()

	if cached, ok := promptCache[path]; ok {
		return cached, nil
	}

	data := defaultPromptsYAML
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("プロンプト設定ファイルの読み込みに失敗: %w", err)
		}
		data = b
	}

	cfg, err := ParsePrompts(data)
	if err != nil {
		return nil, err
	}
	promptCache[path] = cfg
	return cfg, nil
}

// ParsePrompts はYAMLを解析します。チャットボットのテンプレートが空なら組み込みのものを補います。
func ParsePrompts(data []byte) (*PromptConfig, error) {
	var cfg PromptConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("YAMLのパースに失敗: %w", err)
	}
	if strings.TrimSpace(cfg.Chatbot.Template) == "" {
		var def PromptConfig
		if err := yaml.Unmarshal(defaultPromptsYAML, &def); err != nil {
			return nil, fmt.Errorf("組み込みプロンプトのパースに失敗: %w", err)
		}
		cfg.Chatbot.Template = def.Chatbot.Template
	}
	for id := range cfg.DietSteps {
		if !knownStep(id) {
			return nil, fmt.Errorf("不明な段階IDです: %q", id)
		}
	}
	return &cfg, nil
}

func knownStep(id string) bool {
	for _, def := range diet.Steps {
		if string(def.ID) == id {
			return true
		}
	}
	return false
}

// StepPrompts は食事プランの上書きテンプレートを返します。
func (c *PromptConfig) StepPrompts() diet.PromptSet {
	set := make(diet.PromptSet, len(c.DietSteps))
	for id, text := range c.DietSteps {
		set[diet.StepID(id)] = text
	}
	return set
}

// CheckSpecialCommand は特別なコマンドかチェック
func (c *PromptConfig) CheckSpecialCommand(message string) (bool, string) {
	lowerMsg := strings.ToLower(strings.TrimSpace(message))
	for _, trigger := range c.Chatbot.SpecialCommands.Help.Trigger {
		if lowerMsg == strings.ToLower(trigger) {
			return true, c.Chatbot.SpecialCommands.Help.Response
		}
	}
	return false, ""
}
