package validation

import "regexp"

var (
	usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)
	emailPattern    = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	zipPattern      = regexp.MustCompile(`^\d{5}(-\d{4})?$`)
)

// Entity 一种实体的有序规则表。AtLeastOne 非空时要求至少一个列出的字段出现
type Entity struct {
	Fields     []Field
	AtLeastOne []string
}

// entityFor 返回实体的声明。每次调用重建，长度边界在求值时读取配置
func entityFor(kind string) (Entity, bool) {
	switch kind {
	case "user":
		return Entity{Fields: []Field{
			{Name: "username", Type: TypeString, Required: true, Rules: []Rule{
				Required(), LimitFor("username"), Pattern(usernamePattern, "alphanum"),
			}},
			{Name: "email", Type: TypeString, Required: true, Rules: []Rule{
				Required(), Pattern(emailPattern, "email"), MaxLen(254),
			}},
			{Name: "password", Type: TypeString, Required: true, Rules: []Rule{
				Required(), LimitFor("password"), Custom(PasswordStrength),
			}},
			{Name: "firstName", Type: TypeString, Required: true, Rules: []Rule{
				Required(), LimitFor("name"),
			}},
			{Name: "lastName", Type: TypeString, Required: true, Rules: []Rule{
				Required(), LimitFor("name"),
			}},
			{Name: "phone", Type: TypeString, Rules: []Rule{
				Custom(PhoneFormat),
			}},
			{Name: "address", Type: TypeString, Rules: []Rule{
				LimitFor("address"),
			}},
		}}, true

	case "login":
		// 登录只要求字段存在，不做强度校验
		return Entity{Fields: []Field{
			{Name: "email", Type: TypeString, Required: true, Rules: []Rule{
				Required(), Pattern(emailPattern, "email"),
			}},
			{Name: "password", Type: TypeString, Required: true, Rules: []Rule{
				Required(), MinLen(1),
			}},
		}}, true

	case "product":
		return Entity{Fields: []Field{
			{Name: "name", Type: TypeString, Required: true, Rules: []Rule{
				Required(), LimitFor("product_name"),
			}},
			{Name: "description", Type: TypeString, Required: true, Rules: []Rule{
				Required(), LimitFor("description"),
			}},
			{Name: "price", Type: TypeNumber, Required: true, Rules: []Rule{
				Required(), Range(0.01, 999999.99), Precision(2),
			}},
			{Name: "category", Type: TypeString, Required: true, Rules: []Rule{
				Required(), MinLen(2), MaxLen(50),
			}},
			{Name: "stock", Type: TypeInt, Required: true, Rules: []Rule{
				Required(), Range(0, 999999),
			}},
			{Name: "images", Type: TypeArray, MinItems: 1, Elem: &Field{
				Type: TypeString, Rules: []Rule{
					Custom(AllowedURLDomain), Custom(AllowedFileExtension),
				},
			}},
		}}, true

	case "order":
		return Entity{Fields: []Field{
			{Name: "items", Type: TypeArray, Required: true, MinItems: 1, Elem: &Field{
				Type: TypeObject, Children: []Field{
					{Name: "product", Type: TypeString, Required: true, Rules: []Rule{
						Required(), MinLen(1),
					}},
					{Name: "quantity", Type: TypeInt, Required: true, Rules: []Rule{
						Required(), Range(1, 999),
					}},
					{Name: "price", Type: TypeNumber, Required: true, Rules: []Rule{
						Required(), Range(0.01, 999999.99), Precision(2),
					}},
				},
			}},
			{Name: "shippingAddress", Type: TypeString, Required: true, Rules: []Rule{
				Required(), LimitFor("address"),
			}},
			{Name: "city", Type: TypeString, Required: true, Rules: []Rule{
				Required(), LimitFor("name"),
			}},
			{Name: "state", Type: TypeString, Required: true, Rules: []Rule{
				Required(), LimitFor("name"),
			}},
			{Name: "zipCode", Type: TypeString, Required: true, Rules: []Rule{
				Required(), Pattern(zipPattern, "zip"),
			}},
			{Name: "phone", Type: TypeString, Required: true, Rules: []Rule{
				Required(), Custom(PhoneFormat),
			}},
			{Name: "paymentMethod", Type: TypeString, Required: true, Rules: []Rule{
				Required(), Custom(PaymentMethod),
			}},
		}}, true

	case "review":
		return Entity{Fields: []Field{
			{Name: "productId", Type: TypeString, Required: true, Rules: []Rule{
				Required(), MinLen(1),
			}},
			{Name: "rating", Type: TypeInt, Required: true, Rules: []Rule{
				Required(), Range(1, 5),
			}},
			{Name: "title", Type: TypeString, Required: true, Rules: []Rule{
				Required(), LimitFor("title"),
			}},
			{Name: "comment", Type: TypeString, Required: true, Rules: []Rule{
				Required(), LimitFor("comment"),
			}},
		}}, true

	case "review-update":
		// 部分更新：边界同 review，但至少要出现一个可更新字段
		return Entity{
			Fields: []Field{
				{Name: "rating", Type: TypeInt, Rules: []Rule{Range(1, 5)}},
				{Name: "title", Type: TypeString, Rules: []Rule{LimitFor("title")}},
				{Name: "comment", Type: TypeString, Rules: []Rule{LimitFor("comment")}},
			},
			AtLeastOne: []string{"rating", "title", "comment"},
		}, true
	}
	return Entity{}, false
}

// Entities 返回全部受支持的实体种类
func Entities() []string {
	return []string{"user", "login", "product", "order", "review", "review-update"}
}
