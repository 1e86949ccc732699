package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Attributes 规格属性（如 size/color），以 JSON 存储
type Attributes map[string]string

// Value 实现 driver.Valuer 接口
func (a Attributes) Value() (driver.Value, error) {
	if a == nil {
		return "{}", nil
	}
	body, err := json.Marshal(a)
	if err != nil {
		return nil, err
	}
	return string(body), nil
}

// Scan 实现 sql.Scanner 接口
func (a *Attributes) Scan(value interface{}) error {
	if value == nil {
		*a = Attributes{}
		return nil
	}
	var raw []byte
	switch v := value.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("unsupported attributes type: %T", value)
	}
	if len(raw) == 0 {
		*a = Attributes{}
		return nil
	}
	result := Attributes{}
	if err := json.Unmarshal(raw, &result); err != nil {
		return err
	}
	*a = result
	return nil
}
