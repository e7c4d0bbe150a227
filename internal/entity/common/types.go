package common

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// StringArray 以 JSON 格式存储字符串切片。
type StringArray []string

// Value 实现 driver.Valuer 接口。
func (a StringArray) Value() (driver.Value, error) {
	if len(a) == 0 {
		return "[]", nil
	}
	raw, err := json.Marshal([]string(a))
	if err != nil {
		return nil, err
	}
	return string(raw), nil
}

// Scan 实现 sql.Scanner 接口。
func (a *StringArray) Scan(value interface{}) error {
	if value == nil {
		*a = nil
		return nil
	}

	switch v := value.(type) {
	case []byte:
		if len(v) == 0 {
			*a = []string{}
			return nil
		}
		return json.Unmarshal(v, (*[]string)(a))
	case string:
		if v == "" {
			*a = []string{}
			return nil
		}
		return json.Unmarshal([]byte(v), (*[]string)(a))
	default:
		return fmt.Errorf("unsupported type for StringArray: %T", value)
	}
}

// JSONMap 以 JSON 文本格式存储 map。
type JSONMap map[string]interface{}

// Value 实现 driver.Valuer 接口。
func (m JSONMap) Value() (driver.Value, error) {
	if len(m) == 0 {
		return "{}", nil
	}
	raw, err := json.Marshal(map[string]interface{}(m))
	if err != nil {
		return nil, err
	}
	return string(raw), nil
}

// Scan 实现 sql.Scanner 接口。
func (m *JSONMap) Scan(value interface{}) error {
	if value == nil {
		*m = nil
		return nil
	}

	switch v := value.(type) {
	case []byte:
		if len(v) == 0 {
			*m = JSONMap{}
			return nil
		}
		return json.Unmarshal(v, (*map[string]interface{})(m))
	case string:
		if v == "" {
			*m = JSONMap{}
			return nil
		}
		return json.Unmarshal([]byte(v), (*map[string]interface{})(m))
	default:
		return fmt.Errorf("unsupported type for JSONMap: %T", value)
	}
}

// GetString 读取 map 中的字符串值，非字符串类型返回空串。
func (m JSONMap) GetString(key string) string {
	if len(m) == 0 {
		return ""
	}
	if v, ok := m[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// Meta 包含分页元数据。
type Meta struct {
	Page     int64 `json:"page"`
	PageSize int64 `json:"page_size"`
	Total    int64 `json:"total"`
}

// BaseParams 包含通用的分页和排序参数。
type BaseParams struct {
	PageSize int64  `json:"page_size" form:"page_size" query:"page_size"`
	Page     int64  `json:"page" form:"page" query:"page"`
	SortBy   string `json:"sort_by" form:"sort_by" query:"sort_by"`
	SortDesc bool   `json:"sort_desc" form:"sort_desc" query:"sort_desc"`
}
