package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
)

// Limit 单个字段类的长度边界
type Limit struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

type SecurityConfig struct {
	MaxArrayLength        int      `json:"max_array_length"`
	MaxObjectKeys         int      `json:"max_object_keys"`
	AllowedFileExtensions []string `json:"allowed_file_extensions"`
	AllowedURLDomains     []string `json:"allowed_url_domains"`
	MaxUploadSizeBytes    int64    `json:"max_upload_size_bytes"`
	SanitizeInput         bool     `json:"sanitize_input"`
}

type PaymentConfig struct {
	AllowedMethods []string `json:"allowed_methods"`
}

type MessagesConfig struct {
	// 按错误类别返回的安全文案，缺省时取 Default
	ByCategory        map[string]string `json:"by_category"`
	Default           string            `json:"default"`
	RateLimited       string            `json:"rate_limited"`
	DefaultStatusCode int               `json:"default_status_code"`
	SanitizeMessages  bool              `json:"sanitize_messages"`
}

type LoggingConfig struct {
	Enabled          bool   `json:"enabled"`
	Level            string `json:"level"`
	IncludeStack     bool   `json:"include_stack"`
	IncludeClientIP  bool   `json:"include_client_ip"`
	IncludeUserAgent bool   `json:"include_user_agent"`
	IncludeBody      bool   `json:"include_body"`
	IncludeHeaders   bool   `json:"include_headers"`
}

type RateLimitConfig struct {
	Enabled       bool `json:"enabled"`
	WindowSeconds int  `json:"window_seconds"`
	MaxErrors     int  `json:"max_errors"`
}

// Config 进程级配置。Load 后通过快照指针共享，Update 以写时复制替换快照
type Config struct {
	Limits    map[string]Limit `json:"limits"`
	Security  SecurityConfig   `json:"security"`
	Payment   PaymentConfig    `json:"payment"`
	Messages  MessagesConfig   `json:"messages"`
	Logging   LoggingConfig    `json:"logging"`
	RateLimit RateLimitConfig  `json:"rate_limit"`
	Debug     bool             `json:"debug"`
}

// requiredLimitKeys 启动后必须存在的字段类，缺失视为致命配置错误
var requiredLimitKeys = []string{
	"username", "password", "name", "product_name",
	"description", "title", "comment", "address", "phone",
}

var (
	mu      sync.RWMutex
	current *Config
)

func defaultConfig() *Config {
	return &Config{
		Limits: map[string]Limit{
			"username":     {Min: 3, Max: 30},
			"password":     {Min: 8, Max: 128},
			"name":         {Min: 1, Max: 50},
			"product_name": {Min: 2, Max: 200},
			"description":  {Min: 10, Max: 5000},
			"title":        {Min: 3, Max: 100},
			"comment":      {Min: 5, Max: 2000},
			"address":      {Min: 5, Max: 200},
			"phone":        {Min: 7, Max: 20},
		},
		Security: SecurityConfig{
			MaxArrayLength:        100,
			MaxObjectKeys:         50,
			AllowedFileExtensions: []string{".jpg", ".jpeg", ".png", ".gif", ".webp"},
			AllowedURLDomains:     []string{"cdn.komerce.shop", "images.komerce.shop"},
			MaxUploadSizeBytes:    5 << 20,
			SanitizeInput:         true,
		},
		Payment: PaymentConfig{
			AllowedMethods: []string{"credit_card", "debit_card", "paypal", "cash_on_delivery"},
		},
		Messages: MessagesConfig{
			ByCategory: map[string]string{
				"validation":     "The submitted data is invalid",
				"authentication": "Authentication required",
				"authorization":  "You are not allowed to perform this action",
				"database":       "A storage error occurred, please try again later",
				"file":           "The uploaded file could not be processed",
				"template":       "The page could not be rendered",
				"network":        "A network error occurred, please try again later",
				"system":         "An unexpected error occurred",
				"client":         "The request could not be processed",
			},
			Default:           "An unexpected error occurred",
			RateLimited:       "Too many errors, please slow down",
			DefaultStatusCode: 500,
			SanitizeMessages:  true,
		},
		Logging: LoggingConfig{
			Enabled:          true,
			Level:            "info",
			IncludeStack:     true,
			IncludeClientIP:  true,
			IncludeUserAgent: true,
			IncludeBody:      false,
			IncludeHeaders:   false,
		},
		RateLimit: RateLimitConfig{
			Enabled:       true,
			WindowSeconds: 60,
			MaxErrors:     100,
		},
	}
}

// Load 从环境变量加载配置并校验必备项，进程启动时调用一次
func Load() error {
	return LoadFrom(os.Getenv)
}

// LoadFrom 从任意 KV 源加载，便于测试
func LoadFrom(getenv func(string) string) error {
	cfg := defaultConfig()

	for _, key := range requiredLimitKeys {
		upper := strings.ToUpper(key)
		limit := cfg.Limits[key]
		if v, ok := envInt(getenv, "KOMERCE_LIMIT_"+upper+"_MIN"); ok {
			limit.Min = v
		}
		if v, ok := envInt(getenv, "KOMERCE_LIMIT_"+upper+"_MAX"); ok {
			limit.Max = v
		}
		cfg.Limits[key] = limit
	}

	if v, ok := envInt(getenv, "KOMERCE_SECURITY_MAX_ARRAY_LENGTH"); ok {
		cfg.Security.MaxArrayLength = v
	}
	if v, ok := envInt(getenv, "KOMERCE_SECURITY_MAX_OBJECT_KEYS"); ok {
		cfg.Security.MaxObjectKeys = v
	}
	if v := getenv("KOMERCE_SECURITY_ALLOWED_FILE_EXTENSIONS"); v != "" {
		cfg.Security.AllowedFileExtensions = splitAndTrim(v)
	}
	if v := getenv("KOMERCE_SECURITY_ALLOWED_URL_DOMAINS"); v != "" {
		cfg.Security.AllowedURLDomains = splitAndTrim(v)
	}
	if v, ok := envInt64(getenv, "KOMERCE_SECURITY_MAX_UPLOAD_SIZE"); ok {
		cfg.Security.MaxUploadSizeBytes = v
	}
	if v, ok := envBool(getenv, "KOMERCE_SECURITY_SANITIZE_INPUT"); ok {
		cfg.Security.SanitizeInput = v
	}

	if v := getenv("KOMERCE_PAYMENT_ALLOWED_METHODS"); v != "" {
		cfg.Payment.AllowedMethods = splitAndTrim(v)
	}

	if v, ok := envInt(getenv, "KOMERCE_MESSAGES_DEFAULT_STATUS"); ok {
		cfg.Messages.DefaultStatusCode = v
	}
	if v, ok := envBool(getenv, "KOMERCE_MESSAGES_SANITIZE"); ok {
		cfg.Messages.SanitizeMessages = v
	}

	if v, ok := envBool(getenv, "KOMERCE_LOG_ENABLED"); ok {
		cfg.Logging.Enabled = v
	}
	if v := getenv("KOMERCE_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v, ok := envBool(getenv, "KOMERCE_LOG_INCLUDE_STACK"); ok {
		cfg.Logging.IncludeStack = v
	}
	if v, ok := envBool(getenv, "KOMERCE_LOG_INCLUDE_CLIENT_IP"); ok {
		cfg.Logging.IncludeClientIP = v
	}
	if v, ok := envBool(getenv, "KOMERCE_LOG_INCLUDE_USER_AGENT"); ok {
		cfg.Logging.IncludeUserAgent = v
	}
	if v, ok := envBool(getenv, "KOMERCE_LOG_INCLUDE_BODY"); ok {
		cfg.Logging.IncludeBody = v
	}
	if v, ok := envBool(getenv, "KOMERCE_LOG_INCLUDE_HEADERS"); ok {
		cfg.Logging.IncludeHeaders = v
	}

	if v, ok := envBool(getenv, "KOMERCE_RATE_LIMIT_ENABLED"); ok {
		cfg.RateLimit.Enabled = v
	}
	if v, ok := envInt(getenv, "KOMERCE_RATE_LIMIT_WINDOW_SECONDS"); ok {
		cfg.RateLimit.WindowSeconds = v
	}
	if v, ok := envInt(getenv, "KOMERCE_RATE_LIMIT_MAX_ERRORS"); ok {
		cfg.RateLimit.MaxErrors = v
	}

	if v, ok := envBool(getenv, "KOMERCE_DEBUG"); ok {
		cfg.Debug = v
	}

	if err := validate(cfg); err != nil {
		return err
	}

	mu.Lock()
	current = cfg
	mu.Unlock()
	return nil
}

func validate(cfg *Config) error {
	for _, key := range requiredLimitKeys {
		limit, ok := cfg.Limits[key]
		if !ok {
			return fmt.Errorf("config: missing required limit %q", key)
		}
		if limit.Min < 0 || limit.Max <= 0 || limit.Min > limit.Max {
			return fmt.Errorf("config: invalid limit %q: min=%d max=%d", key, limit.Min, limit.Max)
		}
	}
	if cfg.RateLimit.WindowSeconds <= 0 {
		return fmt.Errorf("config: rate limit window must be positive, got %d", cfg.RateLimit.WindowSeconds)
	}
	if cfg.RateLimit.MaxErrors <= 0 {
		return fmt.Errorf("config: rate limit cap must be positive, got %d", cfg.RateLimit.MaxErrors)
	}
	if len(cfg.Payment.AllowedMethods) == 0 {
		return fmt.Errorf("config: payment allow-list must not be empty")
	}
	return nil
}

// IsLoaded 配置是否已完成加载
func IsLoaded() bool {
	mu.RLock()
	defer mu.RUnlock()
	return current != nil
}

// Reset 清空配置，仅供测试使用
func Reset() {
	mu.Lock()
	current = nil
	mu.Unlock()
}

// snapshot 返回当前配置快照。快照只读，Update 以整体替换的方式修改
func snapshot() *Config {
	mu.RLock()
	defer mu.RUnlock()
	if current == nil {
		panic("config: accessed before Load")
	}
	return current
}

// GetLimit 按字段类取长度边界，未定义的字段类返回 ok=false
func GetLimit(key string) (Limit, bool) {
	limit, ok := snapshot().Limits[key]
	return limit, ok
}

func GetLimits() map[string]Limit {
	cfg := snapshot()
	out := make(map[string]Limit, len(cfg.Limits))
	for k, v := range cfg.Limits {
		out[k] = v
	}
	return out
}

func GetSecurity() SecurityConfig {
	return snapshot().Security
}

func GetPayment() PaymentConfig {
	return snapshot().Payment
}

func GetMessages() MessagesConfig {
	return snapshot().Messages
}

func GetLogging() LoggingConfig {
	return snapshot().Logging
}

func GetRateLimit() RateLimitConfig {
	return snapshot().RateLimit
}

func IsDebug() bool {
	return snapshot().Debug
}

func envInt(getenv func(string) string, key string) (int, bool) {
	v := getenv(key)
	if v == "" {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}

func envInt64(getenv func(string) string, key string) (int64, bool) {
	v := getenv(key)
	if v == "" {
		return 0, false
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

func envBool(getenv func(string) string, key string) (bool, bool) {
	v := getenv(key)
	if v == "" {
		return false, false
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, false
	}
	return b, true
}

func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	var res []string
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			res = append(res, p)
		}
	}
	return res
}
