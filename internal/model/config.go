package model

import "time"

// Config is the static configuration surface, loaded once at startup.
type Config struct {
	HTTP        HTTPConfig        `yaml:"http" mapstructure:"http"`
	Cache       CacheConfig       `yaml:"cache" mapstructure:"cache"`
	Detect      DetectConfig      `yaml:"detect" mapstructure:"detect"`
	Reputation  ReputationConfig  `yaml:"reputation" mapstructure:"reputation"`
	Whois       WhoisConfig       `yaml:"whois" mapstructure:"whois"`
	Classifier  ClassifierConfig  `yaml:"classifier" mapstructure:"classifier"`
	Concurrency ConcurrencyConfig `yaml:"concurrency" mapstructure:"concurrency"`
	LLM         LLMConfig         `yaml:"llm" mapstructure:"llm"`
	Output      OutputConfig      `yaml:"output" mapstructure:"output"`
}

// HTTPConfig controls the page fetcher.
type HTTPConfig struct {
	Timeout       time.Duration `yaml:"timeout" mapstructure:"timeout"`
	UserAgent     string        `yaml:"user_agent" mapstructure:"user_agent"`
	MaxBodyBytes  int64         `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
	RespectRobots bool          `yaml:"respect_robots" mapstructure:"respect_robots"`
	RatePerSecond float64       `yaml:"rate_per_second" mapstructure:"rate_per_second"`
	RateBurst     int           `yaml:"rate_burst" mapstructure:"rate_burst"`
}

// CacheConfig controls the result cache.
type CacheConfig struct {
	Enabled         bool          `yaml:"enabled" mapstructure:"enabled"`
	TTL             time.Duration `yaml:"ttl" mapstructure:"ttl"`
	CleanupInterval time.Duration `yaml:"cleanup_interval" mapstructure:"cleanup_interval"`
}

// DetectConfig controls the heuristic detector set and the fusion policy.
type DetectConfig struct {
	TrustedDomains     []string `yaml:"trusted_domains" mapstructure:"trusted_domains"`
	Brands             []string `yaml:"brands" mapstructure:"brands"`
	HighRiskTLDs       []string `yaml:"high_risk_tlds" mapstructure:"high_risk_tlds"`
	PhishingKeywords   []string `yaml:"phishing_keywords" mapstructure:"phishing_keywords"`
	Shorteners         []string `yaml:"shorteners" mapstructure:"shorteners"`
	EntropyThreshold   float64  `yaml:"entropy_threshold" mapstructure:"entropy_threshold"`
	BrandSimilarity    float64  `yaml:"brand_similarity" mapstructure:"brand_similarity"`
	FreshnessDays      int      `yaml:"freshness_days" mapstructure:"freshness_days"`
	StructuralWeight   float64  `yaml:"structural_weight" mapstructure:"structural_weight"`
	HomographWeight    float64  `yaml:"homograph_weight" mapstructure:"homograph_weight"`
	CertificateWeight  float64  `yaml:"certificate_weight" mapstructure:"certificate_weight"`
	HeuristicHighScore float64  `yaml:"heuristic_high_score" mapstructure:"heuristic_high_score"`
}

// ReputationConfig controls the external reputation provider.
type ReputationConfig struct {
	Endpoint      string        `yaml:"endpoint" mapstructure:"endpoint"`
	APIKey        string        `yaml:"api_key" mapstructure:"api_key"`
	Timeout       time.Duration `yaml:"timeout" mapstructure:"timeout"`
	CleanFloor    float64       `yaml:"clean_floor" mapstructure:"clean_floor"`
	RatePerSecond float64       `yaml:"rate_per_second" mapstructure:"rate_per_second"`
	RateBurst     int           `yaml:"rate_burst" mapstructure:"rate_burst"`
}

// WhoisConfig controls the domain-age oracle.
type WhoisConfig struct {
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// ClassifierConfig points at the model artifact.
type ClassifierConfig struct {
	ArtifactPath string `yaml:"artifact_path" mapstructure:"artifact_path"`
}

// ConcurrencyConfig bounds batch fan-out.
type ConcurrencyConfig struct {
	BatchSize int `yaml:"batch_size" mapstructure:"batch_size"`
	Workers   int `yaml:"workers" mapstructure:"workers"`
}

// LLMConfig configures the optional verdict summarizer. Disabled when
// Provider is empty; the summary never affects the verdict.
type LLMConfig struct {
	Provider  string `yaml:"provider" mapstructure:"provider"`
	Model     string `yaml:"model" mapstructure:"model"`
	APIKey    string `yaml:"api_key" mapstructure:"api_key"`
	BaseURL   string `yaml:"base_url" mapstructure:"base_url"`
	MaxTokens int    `yaml:"max_tokens" mapstructure:"max_tokens"`
}

// OutputConfig controls CLI rendering.
type OutputConfig struct {
	Verbose bool `yaml:"verbose" mapstructure:"verbose"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Timeout:       10 * time.Second,
			UserAgent:     "LinkShield/1.0 (+https://github.com/linkshield)",
			MaxBodyBytes:  2_000_000,
			RespectRobots: false,
			RatePerSecond: 4,
			RateBurst:     5,
		},
		Cache: CacheConfig{
			Enabled:         true,
			TTL:             time.Hour,
			CleanupInterval: 10 * time.Minute,
		},
		Detect: DetectConfig{
			TrustedDomains: []string{
				"google.com", "facebook.com", "amazon.com", "instagram.com",
				"microsoft.com", "paypal.com", "apple.com", "github.com",
				"youtube.com", "wikipedia.org", "netflix.com", "linkedin.com",
			},
			Brands: []string{
				"google.com", "facebook.com", "amazon.com", "instagram.com",
				"microsoft.com", "paypal.com", "apple.com", "netflix.com",
			},
			HighRiskTLDs: []string{
				"tk", "ml", "ga", "cf", "gq", "pw", "top", "click", "download",
				"stream", "science", "work", "party", "review", "country",
				"xyz", "buzz", "icu",
			},
			PhishingKeywords: []string{
				"login", "signin", "verify", "secure", "update", "account",
				"confirm", "suspend", "limited", "security", "billing",
				"password", "banking", "urgent",
			},
			Shorteners: []string{
				"bit.ly", "tinyurl.com", "t.co", "goo.gl", "ow.ly", "is.gd",
				"buff.ly", "adf.ly", "j.mp", "rb.gy", "cutt.ly", "short.link",
				"tiny.cc", "shorturl.at",
			},
			EntropyThreshold:   3.5,
			BrandSimilarity:    0.75,
			FreshnessDays:      7,
			StructuralWeight:   0.4,
			HomographWeight:    0.3,
			CertificateWeight:  0.3,
			HeuristicHighScore: 0.5,
		},
		Reputation: ReputationConfig{
			Timeout:       5 * time.Second,
			CleanFloor:    0.70,
			RatePerSecond: 2,
			RateBurst:     3,
		},
		Whois: WhoisConfig{
			Timeout: 5 * time.Second,
		},
		Classifier: ClassifierConfig{
			ArtifactPath: "model.json",
		},
		Concurrency: ConcurrencyConfig{
			BatchSize: 10,
			Workers:   4,
		},
		LLM: LLMConfig{
			Model:     "gpt-4o-mini",
			MaxTokens: 400,
		},
	}
}
