package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const ENV_FILE = ".env"
const CONFIG_FILE = "config.yaml"

type AppConfig struct {
	Logging    LoggingConfig    `yaml:"logging"`
	Mongo      MongoConfig      `yaml:"mongo"`
	API        APIConfig        `yaml:"api"`
	LLM        LLMConfig        `yaml:"llm"`
	Firecrawl  FirecrawlConfig  `yaml:"firecrawl"`
	Collector  CollectorConfig  `yaml:"collector"`
	Push       PushConfig       `yaml:"push"`
	Email      EmailConfig      `yaml:"email"`
	Kafka      KafkaConfig      `yaml:"kafka"`
	Quotes     QuotesConfig     `yaml:"quotes"`
	ImageProxy ImageProxyConfig `yaml:"image_proxy"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

type MongoConfig struct {
	URI      string `yaml:"-"`
	Database string `yaml:"database"`
}

type APIConfig struct {
	Addr           string   `yaml:"addr"`
	AllowedOrigins []string `yaml:"allowed_origins"`
	// JWTSecret 는 관리자 토큰 검증용 HS256 시크릿이다. (env: JWT_SECRET)
	JWTSecret string `yaml:"-"`
	JWTIssuer string `yaml:"jwt_issuer"`
	// CronSecret 는 외부 스케줄러가 수집 트리거를 호출할 때 사용하는 Bearer 값이다. (env: CRON_SECRET)
	CronSecret string `yaml:"-"`
}

// LLMConfig 는 기사 생성/교정에 사용하는 LLM 설정이다.
type LLMConfig struct {
	// Provider 는 "openai" 또는 "google" 이다.
	Provider    string  `yaml:"provider"`
	ModelName   string  `yaml:"model_name"`
	BaseURL     string  `yaml:"base_url"`
	Temperature float32 `yaml:"temperature"`
	// MaxTokens 는 자동 수집 생성 시 최대 토큰 수이다.
	MaxTokens int `yaml:"max_tokens"`
	// StreamMaxTokens 는 관리자 스트리밍 생성 시 최대 토큰 수이다.
	StreamMaxTokens int `yaml:"stream_max_tokens"`
	// StructuredOutput 이 true 이면 JSON 모드를 먼저 사용하고, 구분자 파서는 호환용으로만 쓴다.
	StructuredOutput bool        `yaml:"structured_output"`
	Quota            QuotaConfig `yaml:"quota"`
	APIKey           string      `yaml:"-"`
}

// QuotaConfig 는 자동 수집의 생성 호출 한도이다. 0 이하는 제한 없음.
type QuotaConfig struct {
	RequestsPerMinute int `yaml:"requests_per_minute"`
	RequestsPerDay    int `yaml:"requests_per_day"`
}

type FirecrawlConfig struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
	APIKey  string        `yaml:"-"`
}

type CollectorConfig struct {
	DefaultTopic      string        `yaml:"default_topic"`
	DefaultTimeFilter string        `yaml:"default_time_filter"`
	SearchLimit       int           `yaml:"search_limit"`
	RecentTitleWindow int           `yaml:"recent_title_window"`
	MarkdownLimit     int           `yaml:"markdown_limit"`
	GenerationDelay   time.Duration `yaml:"generation_delay"`
	// DefaultInterval 은 schedule_interval 설정 행이 없을 때 사용하는 수집 주기이다.
	DefaultInterval time.Duration `yaml:"default_interval"`
	FeedMaxItems    int           `yaml:"feed_max_items"`
}

type PushConfig struct {
	Subscriber      string `yaml:"subscriber"`
	TTLSeconds      int    `yaml:"ttl_seconds"`
	SiteURL         string `yaml:"site_url"`
	VAPIDPublicKey  string `yaml:"-"`
	VAPIDPrivateKey string `yaml:"-"`
}

type EmailConfig struct {
	From    string `yaml:"from"`
	SiteURL string `yaml:"site_url"`
	APIKey  string `yaml:"-"`
}

type KafkaConfig struct {
	Enabled bool   `yaml:"enabled"`
	Topic   string `yaml:"topic"`
	Brokers string `yaml:"-"`
	GroupID string `yaml:"-"`
}

type QuotesConfig struct {
	BaseURL  string        `yaml:"base_url"`
	Pairs    []string      `yaml:"pairs"`
	CacheTTL time.Duration `yaml:"cache_ttl"`
}

type ImageProxyConfig struct {
	MaxBytes int64         `yaml:"max_bytes"`
	Timeout  time.Duration `yaml:"timeout"`
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

// Parse 는 yaml 을 읽고 기본값과 환경변수를 반영한 설정을 돌려준다.
func Parse(data []byte) (*AppConfig, error) {
	var c AppConfig
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, err
	}
	c.applyDefaults()
	c.applyEnv()
	return &c, nil
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

func (c *AppConfig) applyDefaults() {
	if c.Mongo.Database == "" {
		c.Mongo.Database = "portal"
	}
	if c.API.Addr == "" {
		c.API.Addr = ":8080"
	}
	if c.API.JWTIssuer == "" {
		c.API.JWTIssuer = "portal-noticias"
	}
	if c.LLM.Provider == "" {
		c.LLM.Provider = "openai"
	}
	if c.LLM.ModelName == "" {
		c.LLM.ModelName = "gpt-4o-mini"
	}
	if c.LLM.Temperature == 0 {
		c.LLM.Temperature = 0.7
	}
	if c.LLM.MaxTokens <= 0 {
		c.LLM.MaxTokens = 1500
	}
	if c.LLM.StreamMaxTokens <= 0 {
		c.LLM.StreamMaxTokens = 2000
	}
	if c.Firecrawl.BaseURL == "" {
		c.Firecrawl.BaseURL = "https://api.firecrawl.dev"
	}
	if c.Firecrawl.Timeout <= 0 {
		c.Firecrawl.Timeout = 60 * time.Second
	}
	if c.Collector.DefaultTopic == "" {
		c.Collector.DefaultTopic = "últimas notícias Brasil"
	}
	if c.Collector.DefaultTimeFilter == "" {
		c.Collector.DefaultTimeFilter = "qdr:d"
	}
	if c.Collector.SearchLimit <= 0 {
		c.Collector.SearchLimit = 5
	}
	if c.Collector.RecentTitleWindow <= 0 {
		c.Collector.RecentTitleWindow = 100
	}
	if c.Collector.MarkdownLimit <= 0 {
		c.Collector.MarkdownLimit = 4000
	}
	if c.Collector.GenerationDelay <= 0 {
		c.Collector.GenerationDelay = time.Second
	}
	if c.Collector.DefaultInterval <= 0 {
		c.Collector.DefaultInterval = 60 * time.Minute
	}
	if c.Collector.FeedMaxItems <= 0 {
		c.Collector.FeedMaxItems = 3
	}
	if c.Push.TTLSeconds <= 0 {
		c.Push.TTLSeconds = 86400
	}
	if c.Kafka.Topic == "" {
		c.Kafka.Topic = "portal.post.events"
	}
	if c.Quotes.BaseURL == "" {
		c.Quotes.BaseURL = "https://economia.awesomeapi.com.br"
	}
	if len(c.Quotes.Pairs) == 0 {
		c.Quotes.Pairs = []string{"USD-BRL", "EUR-BRL", "BTC-BRL"}
	}
	if c.Quotes.CacheTTL <= 0 {
		c.Quotes.CacheTTL = 5 * time.Minute
	}
	if c.ImageProxy.MaxBytes <= 0 {
		c.ImageProxy.MaxBytes = 10 << 20
	}
	if c.ImageProxy.Timeout <= 0 {
		c.ImageProxy.Timeout = 15 * time.Second
	}
}

// applyEnv 는 시크릿 값을 환경변수에서만 읽는다. (config.yaml 에 시크릿을 두지 않는다)
func (c *AppConfig) applyEnv() {
	c.Mongo.URI = os.Getenv("MONGO_URI")
	c.API.JWTSecret = os.Getenv("JWT_SECRET")
	c.API.CronSecret = os.Getenv("CRON_SECRET")
	switch c.LLM.Provider {
	case "google":
		c.LLM.APIKey = os.Getenv("GEMINI_API_KEY")
	default:
		c.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	c.Firecrawl.APIKey = os.Getenv("FIRECRAWL_API_KEY")
	c.Push.VAPIDPublicKey = os.Getenv("VAPID_PUBLIC_KEY")
	c.Push.VAPIDPrivateKey = os.Getenv("VAPID_PRIVATE_KEY")
	c.Email.APIKey = os.Getenv("RESEND_API_KEY")
	c.Kafka.Brokers = os.Getenv("KAFKA_BOOTSTRAP_SERVERS")
	c.Kafka.GroupID = os.Getenv("KAFKA_GROUP_ID")
}
