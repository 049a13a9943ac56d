package shortcode

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"

	"go.uber.org/zap"
)

const (
	// Charset 包含用于生成短码的所有字符
	Charset = "abcdefghijklmnopqrstuvwxyz0123456789"
	// CodeLength 默认短码长度
	CodeLength = 6
	// MaxAttempts 默认最多尝试次数
	MaxAttempts = 10
)

// ErrExhausted 尝试次数用尽仍未找到可用短码
var ErrExhausted = errors.New("短码生成次数用尽")

// ExistsFunc 由调用方提供的存在性检查
type ExistsFunc func(ctx context.Context, code string) (bool, error)

// Generator 生成随机短码, 本身不保证唯一
type Generator struct {
	length      int
	maxAttempts int
	logger      *zap.SugaredLogger
}

// NewGenerator 创建一个新的短码生成器实例, 参数 <= 0 时使用默认值
func NewGenerator(length, maxAttempts int, logger *zap.SugaredLogger) *Generator {
	if length <= 0 {
		length = CodeLength
	}
	if maxAttempts <= 0 {
		maxAttempts = MaxAttempts
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Generator{
		length:      length,
		maxAttempts: maxAttempts,
		logger:      logger.Named("shortcode_generator"),
	}
}

// Generate 生成一个随机短码
func (g *Generator) Generate() (string, error) {
	return generateRandomString(g.length)
}

// EnsureUnique 反复生成并通过 exists 检查, 直到找到未被占用的短码
func (g *Generator) EnsureUnique(ctx context.Context, exists ExistsFunc) (string, error) {
	for i := 0; i < g.maxAttempts; i++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		code, err := g.Generate()
		if err != nil {
			return "", err
		}
		taken, err := exists(ctx, code)
		if err != nil {
			return "", fmt.Errorf("检查短码是否存在失败: %w", err)
		}
		if !taken {
			return code, nil
		}
		g.logger.Debugf("短码 %s 已被占用, 重新生成", code)
	}
	g.logger.Warnf("已尝试%d次生成短码，但均存在冲突。", g.maxAttempts)
	return "", ErrExhausted
}

// generateRandomString 使用加密安全的随机数生成器生成一个给定长度的字符串
func generateRandomString(length int) (string, error) {
	b := make([]byte, length)
	n := big.NewInt(int64(len(Charset)))
	for i := range b {
		num, err := rand.Int(rand.Reader, n)
		if err != nil {
			return "", err
		}
		b[i] = Charset[num.Int64()]
	}
	return string(b), nil
}
