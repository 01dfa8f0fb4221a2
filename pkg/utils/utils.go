// Package utils 工具函数
package utils

import (
	"strings"
	"time"
)

// TruncateString 按字符截断字符串，超出部分以省略号结尾
func TruncateString(s string, max int) string {
	if max <= 0 {
		return ""
	}
	runes := []rune(strings.TrimSpace(s))
	if len(runes) <= max {
		return string(runes)
	}
	return string(runes[:max]) + "…"
}

// TimeNowCST 获取当前北京时间
func TimeNowCST() time.Time {
	loc, _ := time.LoadLocation("Asia/Shanghai")
	return time.Now().In(loc)
}

// FormatTimeCST 格式化时间为北京时间字符串
func FormatTimeCST(t time.Time, layout string) string {
	loc, _ := time.LoadLocation("Asia/Shanghai")
	return t.In(loc).Format(layout)
}
