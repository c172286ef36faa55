package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultPath is where Load looks for the yaml configuration.
const DefaultPath = "config/config.yaml"

const (
	TransportLocal = "local"
	TransportStdio = "stdio"
)

type Config struct {
	Model         ModelConfig    `yaml:"model"`
	Prompt        PromptConfig   `yaml:"prompt"`
	Tools         ToolsConfig    `yaml:"tools"`
	VQA           VQAConfig      `yaml:"vqa"`
	Drug          DrugConfig     `yaml:"drug"`
	Log           LogConfig      `yaml:"log"`
	Prescriptions map[int]string `yaml:"prescriptions"`
}

type ModelConfig struct {
	Provider    string  `yaml:"provider"`
	ModelName   string  `yaml:"model_name"`
	APIKey      string  `yaml:"api_key"`
	BaseURL     string  `yaml:"base_url"`
	Temperature float32 `yaml:"temperature"`
	MaxTokens   int     `yaml:"max_tokens"`
	Strict      bool    `yaml:"strict"`
}

// PromptConfig holds the single scripted question sent to the model.
type PromptConfig struct {
	PrescriptionID int    `yaml:"prescription_id"`
	Question       string `yaml:"question"`
	// Template is a fmt format taking the prescription id and the question.
	Template string `yaml:"template"`
}

type ToolsConfig struct {
	Enabled      bool   `yaml:"enabled"`
	Forced       string `yaml:"forced"`
	Transport    string `yaml:"transport"`
	ServerBinary string `yaml:"server_binary"`
}

type VQAConfig struct {
	Endpoint  string `yaml:"endpoint"`
	TimeoutMS int    `yaml:"timeout_ms"`
}

type DrugConfig struct {
	BaseURL    string `yaml:"base_url"`
	ServiceKey string `yaml:"service_key"`
	NumOfRows  int    `yaml:"num_of_rows"`
	TimeoutMS  int    `yaml:"timeout_ms"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

// DefaultPrescriptions is the image table used when the config file names none.
func DefaultPrescriptions() map[int]string {
	return map[int]string{
		1: `D:\Backend\testimage.png`,
		2: `D:\Backend\testimage2.png`,
		3: `D:\Backend\testimage3.jpg`,
	}
}

// Default returns the configuration of the scripted prescription round trip.
func Default() *Config {
	return &Config{
		Model: ModelConfig{
			Provider:  "openai",
			ModelName: "gpt-4o",
			Strict:    true,
		},
		Prompt: PromptConfig{
			PrescriptionID: 3,
			Question:       "这张处方上写了什么？ 尤其是药品、服用次数等，请准确全部告诉我。",
			Template:       "请对 ID %d 对应的图片进行视觉问答：%s",
		},
		Tools: ToolsConfig{
			Enabled:      true,
			Forced:       "Qwen-vl-inference",
			Transport:    TransportLocal,
			ServerBinary: "./vqa_tool_server",
		},
		VQA: VQAConfig{
			Endpoint: "http://localhost:8000/api/vqa_inference",
		},
		Drug: DrugConfig{
			BaseURL:   "http://apis.data.go.kr/1471000/DrbEasyDrugInfoService/getDrbEasyDrugList",
			NumOfRows: 10,
			TimeoutMS: 10000,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load 从 .env 和 config/config.yaml 加载配置
func Load() (*Config, error) {
	if err := LoadEnv(".env"); err != nil {
		return nil, err
	}
	return LoadFrom(DefaultPath)
}

// LoadEnv loads a dotenv file into the process environment. A missing file is not an error.
func LoadEnv(path string) error {
	err := godotenv.Load(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// LoadFrom reads the yaml file at path on top of Default and applies environment overrides.
func LoadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if len(cfg.Prescriptions) == 0 {
		cfg.Prescriptions = DefaultPrescriptions()
	}
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		c.Model.APIKey = key
	} else if key := os.Getenv("OPENAI_KEY"); key != "" {
		c.Model.APIKey = key
	}
	if baseURL := os.Getenv("OPENAI_BASE_URL"); baseURL != "" {
		c.Model.BaseURL = baseURL
	}
	if endpoint := os.Getenv("VQA_ENDPOINT"); endpoint != "" {
		c.VQA.Endpoint = endpoint
	}
	if key := os.Getenv("DRUG_API_SERVICE_KEY"); key != "" {
		c.Drug.ServiceKey = key
	}
}

// Validate reports the first setting that makes the round trip impossible.
func (c *Config) Validate() error {
	if c.Model.ModelName == "" {
		return errors.New("model.model_name is required")
	}
	if c.VQA.Endpoint == "" {
		return errors.New("vqa.endpoint is required")
	}
	switch c.Tools.Transport {
	case TransportLocal:
	case TransportStdio:
		if c.Tools.ServerBinary == "" {
			return errors.New("tools.server_binary is required for the stdio transport")
		}
	default:
		return fmt.Errorf("unknown tools.transport %q", c.Tools.Transport)
	}
	return nil
}

// Timeout converts TimeoutMS; zero means no timeout.
func (v VQAConfig) Timeout() time.Duration {
	return time.Duration(v.TimeoutMS) * time.Millisecond
}

func (d DrugConfig) Timeout() time.Duration {
	return time.Duration(d.TimeoutMS) * time.Millisecond
}

// InvokePrompt renders the scripted user message.
func (p PromptConfig) InvokePrompt() string {
	return fmt.Sprintf(p.Template, p.PrescriptionID, p.Question)
}
