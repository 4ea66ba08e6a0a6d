package middleware

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/komerce-shop/komerce/api"
	"github.com/komerce-shop/komerce/auditlog"
	"github.com/komerce-shop/komerce/security/faults"
	"github.com/komerce-shop/komerce/security/validation"
)

// ValidateBody 对请求体做实体级校验。通过时把净化后的值写入上下文，
// 失败时直接组装校验响应并中断，不进入限流统计。
// 校验层自身异常时放行请求（降级开放），只记一条告警
func ValidateBody(entityKind string) gin.HandlerFunc {
	return func(c *gin.Context) {
		degraded := true
		defer func() {
			r := recover()
			if r == nil {
				return
			}
			// 后续处理器的 panic 不在此消化，交还错误边界
			if !degraded {
				panic(r)
			}
			slog.Warn("validation layer unavailable, passing request through",
				"entity", entityKind, "panic", r)
			c.Next()
		}()

		raw, failure := parseBody(c)
		if failure != nil {
			degraded = false
			HandleFailure(c, failure, nil)
			return
		}

		result := validation.Validate(entityKind, raw)
		degraded = false
		if !result.OK {
			f := faults.Validation(result.Violations)
			auditlog.LogValidationFailure(entityKind, result.Violations, requestInfo(c), api.RequestID(c))
			cls := faults.Classify(f, 0)
			api.Compose(f, cls, false, api.MetaFrom(c), nil).Send(c)
			c.Abort()
			return
		}

		c.Set(api.ContextValidated, result.Value)
		c.Next()
	}
}

func parseBody(c *gin.Context) (map[string]any, *faults.Failure) {
	if c.ContentType() == "application/x-www-form-urlencoded" || c.ContentType() == "multipart/form-data" {
		return formToMap(c)
	}

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, faults.PayloadTooLarge()
		}
		return nil, faults.Internal(err)
	}
	if len(body) == 0 {
		return map[string]any{}, nil
	}

	var raw map[string]any
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, faults.Cast("body", "request body is not a JSON object")
	}
	return raw, nil
}

func formToMap(c *gin.Context) (map[string]any, *faults.Failure) {
	if err := c.Request.ParseMultipartForm(32 << 20); err != nil {
		if err != http.ErrNotMultipart {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				return nil, faults.PayloadTooLarge()
			}
			return nil, faults.Cast("body", "malformed form body")
		}
		if err := c.Request.ParseForm(); err != nil {
			return nil, faults.Cast("body", "malformed form body")
		}
	}
	raw := make(map[string]any, len(c.Request.PostForm))
	for key, values := range c.Request.PostForm {
		if len(values) == 1 {
			raw[key] = values[0]
		} else {
			raw[key] = values
		}
	}
	return raw, nil
}
