package database

import (
	"fmt"
	"os"
	"path/filepath"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Options 数据库连接参数
type Options struct {
	Driver   string
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	Charset  string
	SSLMode  string
	Path     string
}

// Open 按驱动打开数据库连接
// TranslateError 打开后, 唯一索引冲突会被统一翻译为 gorm.ErrDuplicatedKey
func Open(opts Options) (*gorm.DB, error) {
	dialector, err := dialectorFor(opts)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("数据库连接失败: %w", err)
	}
	return db, nil
}

// OpenSQLite 打开 sqlite 数据库, 测试中使用 "file::memory:"
func OpenSQLite(dsn string) (*gorm.DB, error) {
	return gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
}

func dialectorFor(opts Options) (gorm.Dialector, error) {
	switch opts.Driver {
	case "mysql":
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=True&loc=Local",
			opts.User, opts.Password, opts.Host, opts.Port, opts.Name, charsetOrDefault(opts.Charset))
		return mysql.Open(dsn), nil
	case "postgres":
		sslMode := opts.SSLMode
		if sslMode == "" {
			sslMode = "disable"
		}
		dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
			opts.Host, opts.Port, opts.User, opts.Password, opts.Name, sslMode)
		return postgres.Open(dsn), nil
	case "sqlite":
		if dir := filepath.Dir(opts.Path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("创建 sqlite 目录失败: %w", err)
			}
		}
		return sqlite.Open(opts.Path), nil
	default:
		return nil, fmt.Errorf("不支持的数据库驱动: %q", opts.Driver)
	}
}

func charsetOrDefault(charset string) string {
	if charset == "" {
		return "utf8mb4"
	}
	return charset
}
