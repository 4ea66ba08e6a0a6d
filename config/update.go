package config

// Partial 管理端的配置更新请求。只有白名单内的段会被合并，
// 其余段即使携带也会被静默忽略
type Partial struct {
	Limits    map[string]Limit `json:"limits,omitempty"`
	Security  *SecurityConfig  `json:"security,omitempty"`
	Payment   *PaymentConfig   `json:"payment,omitempty"`
	Messages  *MessagesPartial `json:"messages,omitempty"`
	Logging   *LoggingConfig   `json:"logging,omitempty"`
	RateLimit *RateLimitConfig `json:"rate_limit,omitempty"`
	Debug     *bool            `json:"debug,omitempty"`
}

// MessagesPartial 文案段的局部更新。SanitizeMessages 是安全开关，
// 必须显式携带才会改动，缺省不得把脱敏关掉
type MessagesPartial struct {
	ByCategory        map[string]string `json:"by_category,omitempty"`
	Default           string            `json:"default,omitempty"`
	RateLimited       string            `json:"rate_limited,omitempty"`
	DefaultStatusCode int               `json:"default_status_code,omitempty"`
	SanitizeMessages  *bool             `json:"sanitize_messages,omitempty"`
}

// Update 按白名单合并配置段（limits / security / payment / messages）。
// 合并在旧快照的副本上进行，完成后整体替换，读侧无需加锁
func Update(partial Partial) {
	mu.Lock()
	defer mu.Unlock()
	if current == nil {
		panic("config: updated before Load")
	}

	next := clone(current)

	if partial.Limits != nil {
		for key, limit := range partial.Limits {
			if _, known := next.Limits[key]; !known {
				continue
			}
			if limit.Min < 0 || limit.Max <= 0 || limit.Min > limit.Max {
				continue
			}
			next.Limits[key] = limit
		}
	}

	if partial.Security != nil {
		sec := *partial.Security
		if sec.MaxArrayLength < 1 {
			sec.MaxArrayLength = 1
		}
		if sec.MaxObjectKeys < 1 {
			sec.MaxObjectKeys = 1
		}
		if sec.MaxUploadSizeBytes < 1 {
			sec.MaxUploadSizeBytes = next.Security.MaxUploadSizeBytes
		}
		if len(sec.AllowedFileExtensions) == 0 {
			sec.AllowedFileExtensions = next.Security.AllowedFileExtensions
		}
		if len(sec.AllowedURLDomains) == 0 {
			sec.AllowedURLDomains = next.Security.AllowedURLDomains
		}
		next.Security = sec
	}

	if partial.Payment != nil && len(partial.Payment.AllowedMethods) > 0 {
		next.Payment = PaymentConfig{
			AllowedMethods: append([]string(nil), partial.Payment.AllowedMethods...),
		}
	}

	if partial.Messages != nil {
		msg := next.Messages
		for category, text := range partial.Messages.ByCategory {
			if text == "" {
				continue
			}
			if _, known := msg.ByCategory[category]; known {
				msg.ByCategory[category] = text
			}
		}
		if partial.Messages.Default != "" {
			msg.Default = partial.Messages.Default
		}
		if partial.Messages.RateLimited != "" {
			msg.RateLimited = partial.Messages.RateLimited
		}
		if partial.Messages.DefaultStatusCode >= 400 && partial.Messages.DefaultStatusCode < 600 {
			msg.DefaultStatusCode = partial.Messages.DefaultStatusCode
		}
		if partial.Messages.SanitizeMessages != nil {
			msg.SanitizeMessages = *partial.Messages.SanitizeMessages
		}
		next.Messages = msg
	}

	// Logging / RateLimit / Debug 不在白名单内，忽略

	current = next
}

func clone(cfg *Config) *Config {
	next := *cfg
	next.Limits = make(map[string]Limit, len(cfg.Limits))
	for k, v := range cfg.Limits {
		next.Limits[k] = v
	}
	next.Security.AllowedFileExtensions = append([]string(nil), cfg.Security.AllowedFileExtensions...)
	next.Security.AllowedURLDomains = append([]string(nil), cfg.Security.AllowedURLDomains...)
	next.Payment.AllowedMethods = append([]string(nil), cfg.Payment.AllowedMethods...)
	next.Messages.ByCategory = make(map[string]string, len(cfg.Messages.ByCategory))
	for k, v := range cfg.Messages.ByCategory {
		next.Messages.ByCategory[k] = v
	}
	return &next
}
