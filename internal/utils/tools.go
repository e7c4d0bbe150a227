package utils

import "strings"

// SplitDataURL 拆出 data URL 的 mime 类型与 base64 载荷；
// 无前缀的裸 base64 默认按 jpeg 处理。
func SplitDataURL(value string) (string, string) {
	if !strings.HasPrefix(value, "data:") {
		return "image/jpeg", value
	}

	value = strings.TrimPrefix(value, "data:")
	parts := strings.SplitN(value, ";base64,", 2)
	if len(parts) != 2 {
		return "image/jpeg", ""
	}
	return parts[0], parts[1]
}
