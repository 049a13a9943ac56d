package retention

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

const (
	// DefaultInterval 默认清理间隔
	DefaultInterval = time.Hour
	purgeTimeout    = 30 * time.Second
)

// Purger 删除过期数据并返回条数
type Purger interface {
	PurgeExpired(ctx context.Context) (int64, error)
}

// Janitor 定期清理超过保留期的链接
type Janitor struct {
	purger   Purger
	interval time.Duration
	logger   *zap.SugaredLogger

	ctx      context.Context
	cancel   context.CancelFunc
	started  atomic.Bool
	stopOnce sync.Once
	done     chan struct{}
}

// NewJanitor 创建清理任务, interval <= 0 时使用默认值
func NewJanitor(purger Purger, interval time.Duration, logger *zap.SugaredLogger) *Janitor {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Janitor{
		purger:   purger,
		interval: interval,
		logger:   logger.Named("retention_janitor"),
		ctx:      ctx,
		cancel:   cancel,
		done:     make(chan struct{}),
	}
}

// Start 启动后台清理, 启动时先执行一次
func (j *Janitor) Start() {
	if !j.started.CompareAndSwap(false, true) {
		return
	}
	j.logger.Infof("启动过期链接清理, 间隔 %s", j.interval)
	go j.loop()
}

// Stop 停止后台清理并等待当前一轮结束, 可重复调用
func (j *Janitor) Stop() {
	j.stopOnce.Do(func() {
		j.logger.Info("正在停止过期链接清理...")
		j.cancel()
	})
	if j.started.Load() {
		<-j.done
	}
}

func (j *Janitor) loop() {
	defer close(j.done)

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	j.runOnce()
	for {
		select {
		case <-ticker.C:
			j.runOnce()
		case <-j.ctx.Done():
			j.logger.Info("过期链接清理已停止。")
			return
		}
	}
}

func (j *Janitor) runOnce() {
	ctx, cancel := context.WithTimeout(j.ctx, purgeTimeout)
	defer cancel()

	n, err := j.purger.PurgeExpired(ctx)
	if err != nil {
		if j.ctx.Err() == nil {
			j.logger.Errorf("清理过期链接失败: %v", err)
		}
		return
	}
	if n > 0 {
		j.logger.Infof("已清理 %d 条过期链接", n)
	}
}
