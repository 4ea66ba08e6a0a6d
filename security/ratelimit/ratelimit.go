package ratelimit

import (
	"sync"
	"time"

	"github.com/komerce-shop/komerce/config"
)

// Limiter 按客户端键的滑动窗口错误响应限流器。
// 状态仅存于进程内：这是廉价的滥用抑制，不是安全边界，
// 进程重启即清零是刻意的设计选择
type Limiter struct {
	mu      sync.Mutex
	entries map[string][]time.Time
	window  time.Duration
	cap     int
	total   int64
	now     func() time.Time
}

func New(window time.Duration, cap int) *Limiter {
	return &Limiter{
		entries: make(map[string][]time.Time),
		window:  window,
		cap:     cap,
		now:     time.Now,
	}
}

// SetClock 注入时钟，仅供测试
func (l *Limiter) SetClock(now func() time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.now = now
}

// ShouldLimit 裁剪过期时间戳后判断该键是否达到上限。
// 不产生记录副作用，观测端可以无损调用
func (l *Limiter) ShouldLimit(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	remaining := l.pruneLocked(key)
	return len(remaining) >= l.cap
}

// Record 记录一次即将发出的错误响应。与 ShouldLimit 分离，
// 由调用方在真正发送响应前显式调用
func (l *Limiter) Record(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	remaining := l.pruneLocked(key)
	l.entries[key] = append(remaining, l.now())
	l.total++
}

// pruneLocked 丢弃窗口外的时间戳并回写，调用方必须持锁。
// 列表裁空后键本身保留，由 Sweep 周期回收
func (l *Limiter) pruneLocked(key string) []time.Time {
	timestamps, ok := l.entries[key]
	if !ok {
		return nil
	}
	cutoff := l.now().Add(-l.window)
	kept := timestamps[:0]
	for _, ts := range timestamps {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}
	l.entries[key] = kept
	return kept
}

// Clear 清空整个表（管理端操作）
func (l *Limiter) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = make(map[string][]time.Time)
	l.total = 0
}

// Sweep 回收列表已空的键，返回回收数量。定时任务周期调用，
// 防止键随地址伪造无限增长
func (l *Limiter) Sweep() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	cutoff := l.now().Add(-l.window)
	removed := 0
	for key, timestamps := range l.entries {
		live := false
		for _, ts := range timestamps {
			if ts.After(cutoff) {
				live = true
				break
			}
		}
		if !live {
			delete(l.entries, key)
			removed++
		}
	}
	return removed
}

// Stats 限流器观测快照
type Stats struct {
	TotalErrors int64          `json:"total_errors"`
	ErrorsByKey map[string]int `json:"errors_by_key"`
	LimitedKeys []string       `json:"limited_keys"`
	TrackedKeys int            `json:"tracked_keys"`
}

// GetStats 返回累计计数、各键窗口内计数与当前被限流的键
func (l *Limiter) GetStats() Stats {
	l.mu.Lock()
	defer l.mu.Unlock()
	cutoff := l.now().Add(-l.window)
	stats := Stats{
		TotalErrors: l.total,
		ErrorsByKey: make(map[string]int, len(l.entries)),
		TrackedKeys: len(l.entries),
	}
	for key, timestamps := range l.entries {
		count := 0
		for _, ts := range timestamps {
			if ts.After(cutoff) {
				count++
			}
		}
		if count > 0 {
			stats.ErrorsByKey[key] = count
		}
		if count >= l.cap {
			stats.LimitedKeys = append(stats.LimitedKeys, key)
		}
	}
	return stats
}

var (
	defaultOnce    sync.Once
	defaultLimiter *Limiter
)

// Default 按配置构建的进程级共享限流器
func Default() *Limiter {
	defaultOnce.Do(func() {
		if defaultLimiter != nil {
			return
		}
		rl := config.GetRateLimit()
		defaultLimiter = New(time.Duration(rl.WindowSeconds)*time.Second, rl.MaxErrors)
	})
	return defaultLimiter
}

// SetDefault 替换进程级限流器，仅供测试
func SetDefault(l *Limiter) {
	defaultLimiter = l
	defaultOnce = sync.Once{}
}
