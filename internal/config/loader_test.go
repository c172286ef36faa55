package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"OPENAI_API_KEY", "OPENAI_KEY", "OPENAI_BASE_URL", "VQA_ENDPOINT", "DRUG_API_SERVICE_KEY"} {
		t.Setenv(key, "")
	}
}

func TestLoadFromAppliesDefaults(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, "config.yaml", "model:\n  model_name: gpt-4o-mini\n")

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom returned error: %v", err)
	}
	if cfg.Model.ModelName != "gpt-4o-mini" {
		t.Fatalf("unexpected model name %q", cfg.Model.ModelName)
	}
	if cfg.VQA.Endpoint != "http://localhost:8000/api/vqa_inference" {
		t.Fatalf("unexpected endpoint %q", cfg.VQA.Endpoint)
	}
	if cfg.Tools.Forced != "Qwen-vl-inference" {
		t.Fatalf("unexpected forced tool %q", cfg.Tools.Forced)
	}
	if got := cfg.Prescriptions[3]; got != `D:\Backend\testimage3.jpg` {
		t.Fatalf("unexpected path for id 3: %q", got)
	}
	if cfg.VQA.Timeout() != 0 {
		t.Fatalf("expected no VQA timeout by default, got %s", cfg.VQA.Timeout())
	}
	if cfg.Drug.Timeout() != 10*time.Second {
		t.Fatalf("unexpected drug timeout %s", cfg.Drug.Timeout())
	}
}

func TestLoadFromReplacesPrescriptionTable(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, "config.yaml", "prescriptions:\n  7: '/data/rx7.png'\n")

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom returned error: %v", err)
	}
	if len(cfg.Prescriptions) != 1 || cfg.Prescriptions[7] != "/data/rx7.png" {
		t.Fatalf("unexpected prescriptions: %#v", cfg.Prescriptions)
	}
}

func TestEnvOverridesYAML(t *testing.T) {
	clearEnv(t)
	t.Setenv("OPENAI_KEY", "fallback-key")
	t.Setenv("OPENAI_BASE_URL", "http://llm.local/v1")
	t.Setenv("VQA_ENDPOINT", "http://vqa.local/api/vqa_inference")
	t.Setenv("DRUG_API_SERVICE_KEY", "drug-key")
	path := writeFile(t, "config.yaml", "model:\n  api_key: from-yaml\n  base_url: http://yaml/v1\n")

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom returned error: %v", err)
	}
	if cfg.Model.APIKey != "fallback-key" {
		t.Fatalf("expected OPENAI_KEY fallback, got %q", cfg.Model.APIKey)
	}
	if cfg.Model.BaseURL != "http://llm.local/v1" {
		t.Fatalf("unexpected base url %q", cfg.Model.BaseURL)
	}
	if cfg.VQA.Endpoint != "http://vqa.local/api/vqa_inference" {
		t.Fatalf("unexpected endpoint %q", cfg.VQA.Endpoint)
	}
	if cfg.Drug.ServiceKey != "drug-key" {
		t.Fatalf("unexpected service key %q", cfg.Drug.ServiceKey)
	}

	t.Setenv("OPENAI_API_KEY", "primary-key")
	cfg, err = LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom returned error: %v", err)
	}
	if cfg.Model.APIKey != "primary-key" {
		t.Fatalf("expected OPENAI_API_KEY to win, got %q", cfg.Model.APIKey)
	}
}

func TestLoadFromRejectsUnknownTransport(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, "config.yaml", "tools:\n  transport: grpc\n")
	if _, err := LoadFrom(path); err == nil {
		t.Fatalf("expected error for unknown transport")
	}
}

func TestLoadFromMissingFile(t *testing.T) {
	if _, err := LoadFrom(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestLoadEnvIgnoresMissingFile(t *testing.T) {
	if err := LoadEnv(filepath.Join(t.TempDir(), ".env")); err != nil {
		t.Fatalf("LoadEnv returned error: %v", err)
	}
}

func TestLoadEnvReadsDotenv(t *testing.T) {
	t.Setenv("VQA_TEST_DOTENV", "")
	os.Unsetenv("VQA_TEST_DOTENV")
	path := writeFile(t, ".env", "VQA_TEST_DOTENV=loaded\n")
	if err := LoadEnv(path); err != nil {
		t.Fatalf("LoadEnv returned error: %v", err)
	}
	if got := os.Getenv("VQA_TEST_DOTENV"); got != "loaded" {
		t.Fatalf("unexpected env value %q", got)
	}
}

func TestInvokePrompt(t *testing.T) {
	p := Default().Prompt
	want := "请对 ID 3 对应的图片进行视觉问答：这张处方上写了什么？ 尤其是药品、服用次数等，请准确全部告诉我。"
	if got := p.InvokePrompt(); got != want {
		t.Fatalf("unexpected prompt %q", got)
	}
}
