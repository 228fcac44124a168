package config

import (
	"os"
	"regexp"
)

var envRegex = regexp.MustCompile(`\$\{([^:}]+)(?::([^}]*))?\}`)

// ExpandEnv 展开环境变量，支持 ${VAR:DEFAULT} 格式
func ExpandEnv(s string) string {
	return envRegex.ReplaceAllStringFunc(s, func(m string) string {
		matches := envRegex.FindStringSubmatch(m)
		if len(matches) < 2 {
			return m
		}
		key := matches[1]
		var defaultVal string
		if len(matches) > 2 {
			defaultVal = matches[2]
		}
		if val, ok := os.LookupEnv(key); ok {
			return val
		}
		return defaultVal
	})
}

// GetEnv 获取环境变量，支持默认值
func GetEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
