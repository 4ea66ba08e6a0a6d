package main

import (
	"log"
	"log/slog"

	gormlogger "gorm.io/gorm/logger"

	"github.com/komerce-shop/komerce/cmd"
	"github.com/komerce-shop/komerce/utils"
	logutil "github.com/komerce-shop/komerce/utils/log"
)

func main() {
	if utils.VersionHash == "unknown" {
		logutil.SetupGlobalLogger(slog.LevelDebug)
		logutil.SetGormLogLevel(gormlogger.Info)
	} else {
		logutil.SetupGlobalLogger(slog.LevelInfo)
		logutil.SetGormLogLevel(gormlogger.Silent)
	}

	log.Printf("Komerce %s (hash: %s)", utils.CurrentVersion, utils.VersionHash)

	cmd.Execute()
}
