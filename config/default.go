package config

import _ "embed"

// DefaultConfigYAML 编译期嵌入的默认配置，保证程序零配置也能启动
//
//go:embed default.yaml
var DefaultConfigYAML []byte
