package config

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const ENV_FILE = ".env"
const CONFIG_FILE = "config.yaml"

type AppConfig struct {
	Logging   LoggingConfig   `yaml:"logging"`
	Server    ServerConfig    `yaml:"server"`
	LLM       LLMConfig       `yaml:"llm"`
	Retrieval RetrievalConfig `yaml:"retrieval"`
	Mongo     MongoConfig     `yaml:"mongo"`
	Audit     AuditConfig     `yaml:"audit"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
	// File 이 비어있지 않으면 콘솔 출력과 함께 로테이션되는 파일에도 기록한다.
	File string `yaml:"file"`
}

type ServerConfig struct {
	Addr               string   `yaml:"addr"`
	CORSAllowedOrigins []string `yaml:"cors_allowed_origins"`
}

// LLMConfig 는 Groq chat completion 호출 설정이다.
// API 키는 GROQ_API_KEY 환경변수에서만 읽는다.
type LLMConfig struct {
	BaseURL        string      `yaml:"base_url"`
	Model          string      `yaml:"model"`
	// Temperature 는 키가 없을 때만 기본값을 쓴다. 0 도 유효한 값이다.
	Temperature    *float64    `yaml:"temperature"`
	MaxTokens      int         `yaml:"max_tokens"`
	TimeoutSeconds int         `yaml:"timeout_seconds"`
	Quota          QuotaConfig `yaml:"quota"`
}

// QuotaConfig 는 LLM 호출에 대한 속도/일일 한도를 정의한다.
type QuotaConfig struct {
	// RequestsPerMinute 는 분당 최대 요청 수이다. 0 이하면 제한 없음으로 간주한다.
	RequestsPerMinute int `yaml:"requests_per_minute"`

	// RequestsPerDay 는 일일 최대 요청 수이다. 0 이하면 제한 없음으로 간주한다.
	RequestsPerDay int `yaml:"requests_per_day"`
}

// RetrievalConfig 는 문서 인덱스(RAG) 설정이다.
// 임베딩 API 키는 GEMINI_API_KEY 환경변수에서만 읽는다.
type RetrievalConfig struct {
	DocumentsDir   string `yaml:"documents_dir"`
	StorageDir     string `yaml:"storage_dir"`
	EmbeddingModel string `yaml:"embedding_model"`
	TopK           int    `yaml:"top_k"`
	ChunkSize      int    `yaml:"chunk_size"`
	ChunkOverlap   int    `yaml:"chunk_overlap"`
	EmbedBatchSize int    `yaml:"embed_batch_size"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

type MongoConfig struct {
	DBName string `yaml:"db_name"`
}

// AuditConfig 는 대화 턴 기록(이벤트 발행/몽고 저장) 설정이다.
type AuditConfig struct {
	Enabled bool `yaml:"enabled"`
}

var config *AppConfig

func InitApp() {
	// load environment variables
	godotenv.Load(filepath.Join(GetBasePath(), ENV_FILE))

	// load configuration file
	data, err := os.ReadFile(filepath.Join(GetBasePath(), CONFIG_FILE))
	if err != nil {
		panic(err)
	}

	c, err := Parse(data)
	if err != nil {
		panic(err)
	}
	config = c
}

// Parse 는 yaml 바이트를 AppConfig 로 디코딩하고 비어있는 항목에 기본값을 채운다.
func Parse(data []byte) (*AppConfig, error) {
	var c AppConfig
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, err
	}
	c.applyDefaults()
	return &c, nil
}

func (c *AppConfig) applyDefaults() {
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":5000"
	}
	if len(c.Server.CORSAllowedOrigins) == 0 {
		c.Server.CORSAllowedOrigins = []string{"*"}
	}

	if c.LLM.BaseURL == "" {
		c.LLM.BaseURL = "https://api.groq.com/openai/v1"
	}
	if c.LLM.Model == "" {
		c.LLM.Model = "llama-3.3-70b-versatile"
	}
	if c.LLM.Temperature == nil {
		t := 0.7
		c.LLM.Temperature = &t
	}
	if c.LLM.MaxTokens <= 0 {
		c.LLM.MaxTokens = 2048
	}
	if c.LLM.TimeoutSeconds <= 0 {
		c.LLM.TimeoutSeconds = 60
	}

	r := &c.Retrieval
	if r.DocumentsDir == "" {
		r.DocumentsDir = filepath.Join("data", "datasets")
	}
	if r.StorageDir == "" {
		r.StorageDir = "storage"
	}
	if r.EmbeddingModel == "" {
		r.EmbeddingModel = "text-embedding-004"
	}
	if r.TopK <= 0 {
		r.TopK = 3
	}
	if r.ChunkSize <= 0 {
		r.ChunkSize = 1024
	}
	if r.ChunkOverlap < 0 || r.ChunkOverlap >= r.ChunkSize {
		r.ChunkOverlap = 20
	}
	if r.EmbedBatchSize <= 0 {
		r.EmbedBatchSize = 16
	}
	if r.TimeoutSeconds <= 0 {
		r.TimeoutSeconds = 60
	}

	if c.Mongo.DBName == "" {
		c.Mongo.DBName = "lisa"
	}
}

// ResolvePath 는 상대 경로를 config.yaml 이 위치한 디렉토리 기준 절대 경로로 바꾼다.
func ResolvePath(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	base := GetBasePath()
	if base == "" {
		return p
	}
	return filepath.Join(base, p)
}

func GetConfig() AppConfig {
	if config == nil {
		InitApp()
	}

	return *config
}

func GetBasePath() string {
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}

	dir := cwd
	for {
		cfgPath := filepath.Join(dir, CONFIG_FILE)
		if info, err := os.Stat(cfgPath); err == nil && !info.IsDir() {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return ""
}
