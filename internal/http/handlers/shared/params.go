package shared

import (
	"strconv"
	"strings"

	"github.com/nearshelf/internal/service"
)

// ParamParser 收集查询参数的类型转换错误，字段名与参数名一致。
type ParamParser struct {
	fields []service.FieldError
}

// Float 解析可选浮点参数，空串返回 nil
func (p *ParamParser) Float(field, raw string) *float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		p.fail(field, "must be a number")
		return nil
	}
	return &value
}

// Int 解析可选整数参数
func (p *ParamParser) Int(field, raw string) *int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		p.fail(field, "must be an integer")
		return nil
	}
	return &value
}

// Bool 解析可选布尔参数
func (p *ParamParser) Bool(field, raw string) *bool {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		p.fail(field, "must be true or false")
		return nil
	}
	return &value
}

// ID 解析路径中的正整数 ID
func (p *ParamParser) ID(field, raw string) uint {
	value, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 64)
	if err != nil || value == 0 {
		p.fail(field, "must be a positive integer")
		return 0
	}
	return uint(value)
}

// Err 存在转换错误时返回 *service.ValidationError
func (p *ParamParser) Err() error {
	if len(p.fields) == 0 {
		return nil
	}
	return &service.ValidationError{Fields: p.fields}
}

func (p *ParamParser) fail(field, message string) {
	p.fields = append(p.fields, service.FieldError{Field: field, Message: message})
}
