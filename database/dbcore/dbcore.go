package dbcore

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/komerce-shop/komerce/database/models"
	"github.com/komerce-shop/komerce/security/faults"
	logutil "github.com/komerce-shop/komerce/utils/log"
)

var (
	mu sync.Mutex
	db *gorm.DB
)

// Open 按 KOMERCE_DB_DRIVER 初始化数据库连接并迁移模型。
// sqlite（默认）用 KOMERCE_DB_FILE，mysql 用 KOMERCE_DB_DSN
func Open() error {
	mu.Lock()
	defer mu.Unlock()
	if db != nil {
		return nil
	}

	var dialector gorm.Dialector
	switch os.Getenv("KOMERCE_DB_DRIVER") {
	case "mysql":
		dsn := os.Getenv("KOMERCE_DB_DSN")
		if dsn == "" {
			return fmt.Errorf("dbcore: KOMERCE_DB_DSN is required for mysql")
		}
		dialector = mysql.Open(dsn)
	case "", "sqlite":
		file := os.Getenv("KOMERCE_DB_FILE")
		if file == "" {
			file = "data/komerce.db"
		}
		dialector = sqlite.Open(file)
	default:
		return fmt.Errorf("dbcore: unsupported driver %q", os.Getenv("KOMERCE_DB_DRIVER"))
	}

	conn, err := gorm.Open(dialector, &gorm.Config{
		Logger:         gormlogger.Default.LogMode(logutil.GormLogLevel()),
		TranslateError: true,
	})
	if err != nil {
		return fmt.Errorf("dbcore: open failed: %w", err)
	}
	if err := conn.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.Order{},
		&models.Review{},
		&models.Session{},
	); err != nil {
		return fmt.Errorf("dbcore: migrate failed: %w", err)
	}
	db = conn
	return nil
}

// GetDBInstance 返回全局连接，未初始化时 panic（启动序错误）
func GetDBInstance() *gorm.DB {
	mu.Lock()
	defer mu.Unlock()
	if db == nil {
		panic("dbcore: database not opened")
	}
	return db
}

// SetDBInstance 注入连接，仅供测试
func SetDBInstance(conn *gorm.DB) {
	mu.Lock()
	defer mu.Unlock()
	db = conn
}

// Translate 在存储边界把 gorm 的哨兵错误收敛为带标签的 Failure。
// 唯一键冲突由各 store 自行构造（携带冲突列名），这里只兜底
func Translate(err error, resource string) *faults.Failure {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return faults.MissingResource(resource)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return faults.Duplicate(nil)
	case errors.Is(err, gorm.ErrInvalidDB):
		return faults.Connection(err)
	default:
		return faults.Internal(err)
	}
}
