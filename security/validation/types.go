package validation

import "regexp"

// Violation 单条字段级校验失败，Field 为点分路径
type Violation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// Result 校验结果：通过时 Value 为清洗/收敛后的值，
// 失败时 Violations 按规则声明顺序包含全部违规项
type Result struct {
	OK         bool
	Value      map[string]any
	Violations []Violation
}

// FieldType 字段的结构类型
type FieldType int

const (
	TypeString FieldType = iota
	TypeNumber
	TypeInt
	TypeArray
	TypeObject
)

// RuleKind 规则的标签变体。显式枚举取代第三方校验 DSL
type RuleKind int

const (
	KindRequired RuleKind = iota
	KindMinLen
	KindMaxLen
	KindLimit // 长度边界取自配置的字段类
	KindPattern
	KindRange
	KindOneOf
	KindPrecision
	KindCustom
)

// CustomFunc 业务规则校验器：返回（可能归一化的）值或违规项
type CustomFunc func(field string, value any) (any, *Violation)

// Rule 一条带参数的校验规则
type Rule struct {
	Kind        RuleKind
	Len         int
	LimitKey    string
	Pattern     *regexp.Regexp
	PatternName string
	Min         float64
	Max         float64
	Choices     []string
	Decimals    int
	Fn          CustomFunc
}

// Field 实体中一个字段的声明。数组字段用 Elem 描述元素结构
type Field struct {
	Name     string
	Type     FieldType
	Required bool
	Rules    []Rule
	Children []Field // Type==TypeObject 时的嵌套字段
	Elem     *Field  // Type==TypeArray 时的元素声明
	MinItems int
	MaxItems int
}
