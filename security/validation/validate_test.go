package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/komerce-shop/komerce/config"
)

func setupConfig(t *testing.T) {
	t.Helper()
	require.NoError(t, config.LoadFrom(func(string) string { return "" }))
	t.Cleanup(config.Reset)
	ResetStats()
}

func codes(violations []Violation) []string {
	out := make([]string, len(violations))
	for i, v := range violations {
		out[i] = v.Field + ":" + v.Code
	}
	return out
}

func TestValidatePanicsBeforeLoad(t *testing.T) {
	config.Reset()
	assert.Panics(t, func() { Validate("login", map[string]any{}) })
}

func TestValidateUnknownEntityPanics(t *testing.T) {
	setupConfig(t)
	assert.Panics(t, func() { Validate("warehouse", map[string]any{}) })
}

func TestLoginEmailOnly(t *testing.T) {
	setupConfig(t)
	// 登录不校验密码强度，坏邮箱只产生一条违规
	res := Validate("login", map[string]any{"email": "bad", "password": "x"})
	require.False(t, res.OK)
	require.Len(t, res.Violations, 1)
	assert.Equal(t, "email", res.Violations[0].Field)
	assert.Equal(t, "string.email", res.Violations[0].Code)
}

func TestLoginOK(t *testing.T) {
	setupConfig(t)
	res := Validate("login", map[string]any{
		"email":    "shopper@example.com",
		"password": "x",
		"remember": true, // 未声明字段被丢弃
	})
	require.True(t, res.OK)
	assert.Equal(t, "shopper@example.com", res.Value["email"])
	assert.NotContains(t, res.Value, "remember")
}

func TestUserAllViolationsCollected(t *testing.T) {
	setupConfig(t)
	res := Validate("user", map[string]any{
		"username":  "a!",           // 过短 + 非法字符
		"email":     "not-an-email", // 格式错误
		"password":  "lowercaseonly12", // 缺大写
		"firstName": "Ana",
		// lastName 缺失
	})
	require.False(t, res.OK)
	assert.ElementsMatch(t, []string{
		"username:string.min",
		"username:string.alphanum",
		"email:string.email",
		"password:password.weak",
		"lastName:any.required",
	}, codes(res.Violations))
}

func TestUserPhoneNormalized(t *testing.T) {
	setupConfig(t)
	res := Validate("user", map[string]any{
		"username":  "ana_42",
		"email":     "ana@example.com",
		"password":  "Sup3rSecret",
		"firstName": "Ana",
		"lastName":  "Lima",
		"phone":     "+55 (11) 98765-4321",
	})
	require.True(t, res.OK, "%v", res.Violations)
	assert.Equal(t, "+5511987654321", res.Value["phone"])
}

func TestProductRules(t *testing.T) {
	setupConfig(t)
	tests := []struct {
		name     string
		mutate   func(map[string]any)
		expected []string
	}{
		{
			name:     "合法商品",
			mutate:   func(m map[string]any) {},
			expected: nil,
		},
		{
			name:     "价格为零",
			mutate:   func(m map[string]any) { m["price"] = 0.0 },
			expected: []string{"price:number.min"},
		},
		{
			name:     "价格超过两位小数",
			mutate:   func(m map[string]any) { m["price"] = 19.999 },
			expected: []string{"price:number.precision"},
		},
		{
			name:     "库存非整数",
			mutate:   func(m map[string]any) { m["stock"] = 3.5 },
			expected: []string{"stock:number.integer"},
		},
		{
			name:     "图片域名不在白名单",
			mutate:   func(m map[string]any) { m["images"] = []any{"https://evil.example.com/a.jpg"} },
			expected: []string{"images.0:url.domain"},
		},
		{
			name:     "图片扩展名不允许",
			mutate:   func(m map[string]any) { m["images"] = []any{"https://cdn.komerce.shop/a.exe"} },
			expected: []string{"images.0:file.extension"},
		},
		{
			name:     "图片数组为空",
			mutate:   func(m map[string]any) { m["images"] = []any{} },
			expected: []string{"images:array.min"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := map[string]any{
				"name":        "Wireless Mouse",
				"description": "A reliable wireless mouse with USB receiver.",
				"price":       59.9,
				"category":    "electronics",
				"stock":       120.0,
				"images":      []any{"https://cdn.komerce.shop/mouse.jpg"},
			}
			tt.mutate(input)
			res := Validate("product", input)
			if tt.expected == nil {
				assert.True(t, res.OK, "%v", res.Violations)
			} else {
				assert.Equal(t, tt.expected, codes(res.Violations))
			}
		})
	}
}

func TestOrderPaymentMethodAllowList(t *testing.T) {
	setupConfig(t)
	res := Validate("order", map[string]any{
		"items": []any{
			map[string]any{"product": "p-1", "quantity": 2.0, "price": 10.5},
		},
		"shippingAddress": "42 Market Street",
		"city":            "Springfield",
		"state":           "IL",
		"zipCode":         "62701",
		"phone":           "+1 217 555 0000",
		"paymentMethod":   "bitcoin",
	})
	require.False(t, res.OK)
	require.Len(t, res.Violations, 1)
	v := res.Violations[0]
	assert.Equal(t, "paymentMethod", v.Field)
	assert.Equal(t, "any.only", v.Code)
	assert.Contains(t, v.Message, "credit_card")
	assert.Contains(t, v.Message, "paypal")
}

func TestOrderNestedItemViolations(t *testing.T) {
	setupConfig(t)
	res := Validate("order", map[string]any{
		"items": []any{
			map[string]any{"product": "p-1", "quantity": 0.0, "price": 10.5},
			map[string]any{"quantity": 2.0, "price": -1.0},
		},
		"shippingAddress": "42 Market Street",
		"city":            "Springfield",
		"state":           "IL",
		"zipCode":         "62701-1234",
		"phone":           "2175550000",
		"paymentMethod":   "paypal",
	})
	require.False(t, res.OK)
	assert.ElementsMatch(t, []string{
		"items.0.quantity:number.min",
		"items.1.product:any.required",
		"items.1.price:number.min",
	}, codes(res.Violations))
}

func TestOrderZipCodePattern(t *testing.T) {
	setupConfig(t)
	res := Validate("order", map[string]any{
		"items": []any{
			map[string]any{"product": "p-1", "quantity": 1.0, "price": 5.0},
		},
		"shippingAddress": "42 Market Street",
		"city":            "Springfield",
		"state":           "IL",
		"zipCode":         "ABCDE",
		"phone":           "2175550000",
		"paymentMethod":   "paypal",
	})
	require.False(t, res.OK)
	assert.Equal(t, []string{"zipCode:string.zip"}, codes(res.Violations))
}

func TestReviewUpdateAtLeastOne(t *testing.T) {
	setupConfig(t)
	res := Validate("review-update", map[string]any{})
	require.False(t, res.OK)
	require.Len(t, res.Violations, 1)
	assert.Equal(t, "object.missing", res.Violations[0].Code)

	res = Validate("review-update", map[string]any{"rating": 4.0})
	assert.True(t, res.OK)
	assert.Equal(t, 4.0, res.Value["rating"])
}

func TestValidateSanitizesInput(t *testing.T) {
	setupConfig(t)
	res := Validate("review", map[string]any{
		"productId": "p-9",
		"rating":    5.0,
		"title":     "Great <script>alert(1)</script>value",
		"comment":   "  javascript:alert(1) but the product itself is solid  ",
	})
	require.True(t, res.OK, "%v", res.Violations)
	assert.Equal(t, "Great value", res.Value["title"])
	assert.Equal(t, "alert(1) but the product itself is solid", res.Value["comment"])
}

func TestValidateSanitizeDisabled(t *testing.T) {
	require.NoError(t, config.LoadFrom(func(key string) string {
		if key == "KOMERCE_SECURITY_SANITIZE_INPUT" {
			return "false"
		}
		return ""
	}))
	t.Cleanup(config.Reset)

	res := Validate("review", map[string]any{
		"productId": "p-9",
		"rating":    5.0,
		"title":     "untouched value",
		"comment":   "  leading spaces survive here  ",
	})
	require.True(t, res.OK)
	assert.Equal(t, "  leading spaces survive here  ", res.Value["comment"])
}

func TestStatsCounting(t *testing.T) {
	setupConfig(t)
	Validate("login", map[string]any{"email": "a@b.co", "password": "x"})
	Validate("login", map[string]any{"email": "bad"})
	Validate("review-update", map[string]any{})

	stats := GetStats()
	assert.Equal(t, int64(3), stats.Total)
	assert.Equal(t, int64(1), stats.Passed)
	assert.Equal(t, int64(2), stats.Failed)
	assert.Equal(t, int64(1), stats.FailedByEntity["login"])
	assert.Equal(t, int64(1), stats.FailedByEntity["review-update"])

	ResetStats()
	assert.Equal(t, int64(0), GetStats().Total)
}
