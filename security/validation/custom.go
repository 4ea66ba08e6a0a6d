package validation

import (
	"net/url"
	"path"
	"strings"
	"unicode"

	"golang.org/x/net/idna"

	"github.com/komerce-shop/komerce/config"
)

// PasswordStrength 要求同时包含大写、小写与数字（长度由 LimitFor 负责）
func PasswordStrength(field string, value any) (any, *Violation) {
	s, ok := value.(string)
	if !ok {
		return value, nil
	}
	var hasUpper, hasLower, hasDigit bool
	for _, r := range s {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasUpper || !hasLower || !hasDigit {
		return value, &Violation{
			Field:   field,
			Message: "must contain an uppercase letter, a lowercase letter and a digit",
			Code:    "password.weak",
		}
	}
	return s, nil
}

// PhoneFormat 归一化电话号码（去除空格、连字符、括号）并校验位数
func PhoneFormat(field string, value any) (any, *Violation) {
	s, ok := value.(string)
	if !ok {
		return value, nil
	}
	var b strings.Builder
	for i, r := range s {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '+' && i == 0:
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '(' || r == ')':
			// 分隔符，丢弃
		default:
			return value, &Violation{
				Field:   field,
				Message: "must be a valid phone number",
				Code:    "phone.invalid",
			}
		}
	}
	normalized := b.String()
	digits := strings.TrimPrefix(normalized, "+")
	if len(digits) < 7 || len(digits) > 15 {
		return value, &Violation{
			Field:   field,
			Message: "must be a valid phone number",
			Code:    "phone.invalid",
		}
	}
	return normalized, nil
}

// AllowedURLDomain 仅接受 http(s) 且域名在配置白名单内的 URL。
// 域名经 idna 归一化后与白名单精确比对或按子域匹配
func AllowedURLDomain(field string, value any) (any, *Violation) {
	s, ok := value.(string)
	if !ok {
		return value, nil
	}
	violation := &Violation{
		Field:   field,
		Message: "must be an https URL on an allowed domain",
		Code:    "url.domain",
	}
	u, err := url.Parse(s)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Hostname() == "" {
		return value, violation
	}
	host, err := idna.Lookup.ToASCII(strings.ToLower(u.Hostname()))
	if err != nil {
		return value, violation
	}
	for _, allowed := range config.GetSecurity().AllowedURLDomains {
		allowed = strings.ToLower(allowed)
		if host == allowed || strings.HasSuffix(host, "."+allowed) {
			return s, nil
		}
	}
	return value, violation
}

// AllowedFileExtension 文件名（或 URL 路径）的扩展名必须在白名单内
func AllowedFileExtension(field string, value any) (any, *Violation) {
	s, ok := value.(string)
	if !ok {
		return value, nil
	}
	name := s
	if u, err := url.Parse(s); err == nil && u.Path != "" {
		name = u.Path
	}
	ext := strings.ToLower(path.Ext(name))
	for _, allowed := range config.GetSecurity().AllowedFileExtensions {
		if ext == strings.ToLower(allowed) {
			return s, nil
		}
	}
	return value, &Violation{
		Field:   field,
		Message: "file type is not allowed",
		Code:    "file.extension",
	}
}

// PaymentMethod 支付方式必须在配置的白名单内
func PaymentMethod(field string, value any) (any, *Violation) {
	methods := config.GetPayment().AllowedMethods
	s, ok := value.(string)
	if ok && contains(methods, s) {
		return s, nil
	}
	return value, &Violation{
		Field:   field,
		Message: "must be one of: " + strings.Join(methods, ", "),
		Code:    "any.only",
	}
}
