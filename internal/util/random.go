package util

import (
	"crypto/rand"
	"encoding/hex"
	"path"
	"strings"
)

// GenerateRandomString 生成指定长度的随机十六进制字符串，用于对象存储文件名
func GenerateRandomString(n int) string {
	b := make([]byte, (n+1)/2)
	if _, err := rand.Read(b); err != nil {
		return strings.Repeat("0", n)
	}
	return hex.EncodeToString(b)[:n]
}

// ObjectNameFromURL 从存储 URL 中取出裸文件名（最后一个路径段，去掉查询参数）
func ObjectNameFromURL(rawURL string) string {
	trimmed := rawURL
	if idx := strings.Index(trimmed, "?"); idx >= 0 {
		trimmed = trimmed[:idx]
	}
	return path.Base(trimmed)
}
