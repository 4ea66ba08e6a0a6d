package utils

// 构建期通过 -ldflags 注入
var (
	CurrentVersion = "dev"
	VersionHash    = "unknown"
)
