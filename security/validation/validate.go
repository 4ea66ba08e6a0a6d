package validation

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/komerce-shop/komerce/config"
	"github.com/komerce-shop/komerce/security/sanitize"
)

// Validate 对一种实体的原始输入做声明式校验。
// 输入先过清洗器（可由配置关闭），未知字段丢弃，所有违规项一次性收集。
// 仅在配置未加载或实体种类未注册时 panic（调用方编程错误）
func Validate(entityKind string, raw map[string]any) Result {
	if !config.IsLoaded() {
		panic("validation: invoked before config.Load")
	}
	entity, ok := entityFor(entityKind)
	if !ok {
		panic(fmt.Sprintf("validation: unknown entity kind %q", entityKind))
	}

	if config.GetSecurity().SanitizeInput && raw != nil {
		raw = sanitize.Clean(raw).(map[string]any)
	}

	var violations []Violation
	value := make(map[string]any, len(entity.Fields))

	if max := config.GetSecurity().MaxObjectKeys; len(raw) > max {
		violations = append(violations, Violation{
			Field:   "",
			Message: fmt.Sprintf("must have at most %d keys", max),
			Code:    "object.max_keys",
		})
	}

	present := make(map[string]bool, len(entity.Fields))
	for _, field := range entity.Fields {
		fieldValue, ok := raw[field.Name]
		if !ok || fieldValue == nil {
			if field.Required {
				violations = append(violations, Violation{
					Field:   field.Name,
					Message: "is required",
					Code:    "any.required",
				})
			}
			continue
		}
		present[field.Name] = true
		out, vs := validateField(field, field.Name, fieldValue)
		violations = append(violations, vs...)
		if len(vs) == 0 {
			value[field.Name] = out
		}
	}

	if len(entity.AtLeastOne) > 0 {
		found := false
		for _, name := range entity.AtLeastOne {
			if present[name] {
				found = true
				break
			}
		}
		if !found {
			violations = append(violations, Violation{
				Field:   "",
				Message: "at least one of " + strings.Join(entity.AtLeastOne, ", ") + " is required",
				Code:    "object.missing",
			})
		}
	}

	recordOutcome(entityKind, len(violations) == 0)

	if len(violations) > 0 {
		return Result{OK: false, Violations: violations}
	}
	return Result{OK: true, Value: value}
}

// validateField 校验单个字段：先做结构类型检查，再按序应用规则。
// 规则不因先前违规而中断，以便一次性呈现全部问题
func validateField(field Field, path string, value any) (any, []Violation) {
	switch field.Type {
	case TypeString:
		if _, ok := value.(string); !ok {
			return value, []Violation{{Field: path, Message: "must be a string", Code: "string.base"}}
		}
	case TypeNumber:
		if _, ok := asNumber(value); !ok {
			return value, []Violation{{Field: path, Message: "must be a number", Code: "number.base"}}
		}
	case TypeInt:
		n, ok := asNumber(value)
		if !ok {
			return value, []Violation{{Field: path, Message: "must be a number", Code: "number.base"}}
		}
		if n != math.Trunc(n) {
			return value, []Violation{{Field: path, Message: "must be an integer", Code: "number.integer"}}
		}
	case TypeArray:
		return validateArray(field, path, value)
	case TypeObject:
		return validateObject(field, path, value)
	}

	var violations []Violation
	out := value
	for _, rule := range field.Rules {
		next, v := applyRule(rule, path, out)
		if v != nil {
			violations = append(violations, *v)
			continue
		}
		out = next
	}
	if len(violations) > 0 {
		return value, violations
	}
	return out, nil
}

func validateArray(field Field, path string, value any) (any, []Violation) {
	items, ok := value.([]any)
	if !ok {
		return value, []Violation{{Field: path, Message: "must be an array", Code: "array.base"}}
	}

	var violations []Violation
	if field.MinItems > 0 && len(items) < field.MinItems {
		violations = append(violations, Violation{
			Field:   path,
			Message: fmt.Sprintf("must contain at least %d items", field.MinItems),
			Code:    "array.min",
		})
	}
	maxItems := field.MaxItems
	if maxItems == 0 {
		maxItems = config.GetSecurity().MaxArrayLength
	}
	if len(items) > maxItems {
		violations = append(violations, Violation{
			Field:   path,
			Message: fmt.Sprintf("must contain at most %d items", maxItems),
			Code:    "array.max",
		})
		// 超限时不再逐元素校验，避免放大恶意超长数组的开销
		return value, violations
	}

	out := make([]any, len(items))
	for i, item := range items {
		elemPath := path + "." + strconv.Itoa(i)
		elemOut, vs := validateField(*field.Elem, elemPath, item)
		violations = append(violations, vs...)
		out[i] = elemOut
	}
	if len(violations) > 0 {
		return value, violations
	}
	return out, nil
}

func validateObject(field Field, path string, value any) (any, []Violation) {
	obj, ok := value.(map[string]any)
	if !ok {
		return value, []Violation{{Field: path, Message: "must be an object", Code: "object.base"}}
	}

	var violations []Violation
	out := make(map[string]any, len(field.Children))
	for _, child := range field.Children {
		childValue, ok := obj[child.Name]
		childPath := path + "." + child.Name
		if !ok || childValue == nil {
			if child.Required {
				violations = append(violations, Violation{
					Field:   childPath,
					Message: "is required",
					Code:    "any.required",
				})
			}
			continue
		}
		childOut, vs := validateField(child, childPath, childValue)
		violations = append(violations, vs...)
		if len(vs) == 0 {
			out[child.Name] = childOut
		}
	}
	if len(violations) > 0 {
		return value, violations
	}
	return out, nil
}
