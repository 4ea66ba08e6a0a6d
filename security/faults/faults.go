package faults

import (
	"fmt"
	"sort"

	"github.com/komerce-shop/komerce/security/validation"
)

// Kind 失败的显式判别标签。所有抛出点都构造带标签的 Failure，
// 不依赖对错误对象属性的松散探测
type Kind string

const (
	KindConnection       Kind = "connection"        // 存储连接中断
	KindServerSelection  Kind = "server_selection"  // 存储节点选择/超时
	KindSchema           Kind = "schema"            // 结构校验失败
	KindCast             Kind = "cast"              // 类型转换失败
	KindDuplicateKey     Kind = "duplicate_key"     // 唯一索引冲突
	KindAuthTokenInvalid Kind = "auth_token_invalid"
	KindAuthTokenExpired Kind = "auth_token_expired"
	KindPayloadTooLarge  Kind = "payload_too_large"
	KindTooManyParts     Kind = "too_many_parts"
	KindTemplateMissing  Kind = "template_missing" // 视图模板缺失
	KindNotFound         Kind = "not_found"        // 路由未匹配
	KindValidation       Kind = "validation"       // 携带完整违规列表
	KindInternal         Kind = "internal"         // 兜底
)

// Failure 统一的失败对象。Message 原始文案仅用于日志，
// 面向客户端的文案一律经分类与脱敏后产生
type Failure struct {
	Kind       Kind                   `json:"kind"`
	Code       string                 `json:"code,omitempty"`
	Message    string                 `json:"message"`
	KeyValue   map[string]string      `json:"key_value,omitempty"`
	Violations []validation.Violation `json:"violations,omitempty"`
	Path       string                 `json:"path,omitempty"`
	Err        error                  `json:"-"`
}

func (f *Failure) Error() string {
	if f.Err != nil {
		return fmt.Sprintf("%s: %s: %v", f.Kind, f.Message, f.Err)
	}
	return fmt.Sprintf("%s: %s", f.Kind, f.Message)
}

func (f *Failure) Unwrap() error { return f.Err }

// FirstConflictKey 唯一索引冲突中第一个键名（排序保证确定性）
func (f *Failure) FirstConflictKey() string {
	if len(f.KeyValue) == 0 {
		return ""
	}
	keys := make([]string, 0, len(f.KeyValue))
	for k := range f.KeyValue {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys[0]
}

func Connection(err error) *Failure {
	return &Failure{Kind: KindConnection, Message: "connection to storage lost", Err: err}
}

func ServerSelection(err error) *Failure {
	return &Failure{Kind: KindServerSelection, Message: "storage selection timed out", Err: err}
}

func Schema(message string) *Failure {
	return &Failure{Kind: KindSchema, Message: message}
}

func Cast(field, message string) *Failure {
	return &Failure{Kind: KindCast, Path: field, Message: message}
}

func Duplicate(keyValue map[string]string) *Failure {
	return &Failure{Kind: KindDuplicateKey, Code: "duplicate-key", Message: "duplicate key", KeyValue: keyValue}
}

func AuthTokenInvalid() *Failure {
	return &Failure{Kind: KindAuthTokenInvalid, Message: "malformed auth token"}
}

func AuthTokenExpired() *Failure {
	return &Failure{Kind: KindAuthTokenExpired, Message: "auth token expired"}
}

func PayloadTooLarge() *Failure {
	return &Failure{Kind: KindPayloadTooLarge, Code: "payload-too-large", Message: "payload too large"}
}

func TooManyParts() *Failure {
	return &Failure{Kind: KindTooManyParts, Code: "too-many-parts", Message: "too many multipart sections"}
}

func TemplateMissing(view string) *Failure {
	return &Failure{Kind: KindTemplateMissing, Path: view, Message: "failed to lookup view " + view}
}

// NotFound 为未匹配的路由合成一个 404 失败
func NotFound(path string) *Failure {
	return &Failure{Kind: KindNotFound, Path: path, Message: "route not found: " + path}
}

// MissingResource 实体不存在（同样按 404 分类）
func MissingResource(resource string) *Failure {
	return &Failure{Kind: KindNotFound, Message: resource + " not found"}
}

func Validation(violations []validation.Violation) *Failure {
	return &Failure{Kind: KindValidation, Message: "validation failed", Violations: violations}
}

func Internal(err error) *Failure {
	msg := "internal error"
	if err != nil {
		msg = err.Error()
	}
	return &Failure{Kind: KindInternal, Message: msg, Err: err}
}

// FromPanic 把 recover 捕获的任意值收敛为 Failure
func FromPanic(v any) *Failure {
	if f, ok := v.(*Failure); ok {
		return f
	}
	if err, ok := v.(error); ok {
		return &Failure{Kind: KindInternal, Message: err.Error(), Err: err}
	}
	return &Failure{Kind: KindInternal, Message: fmt.Sprint(v)}
}
