package xid

import (
	"sync"
	"sync/atomic"
	"time"
)

// =============================================================================
// 全局单例
// =============================================================================

var (
	defaultGen atomic.Pointer[Generator]
	initMu     sync.Mutex
)

// Init 用显式配置初始化全局生成器。
//
// 如果不调用 Init，首次生成 ID 时会用默认配置自动初始化。
// Init 只能成功一次，重复调用返回 [ErrAlreadyInitialized]；
// 如果之前已通过 New/FastID 等函数触发了自动初始化，同样返回
// [ErrAlreadyInitialized]。建议在应用启动时调用，以便回退告警
// 尽早出现在日志中。
//
// 如果需要多个独立生成器（如测试隔离、共享计数器分组），
// 请使用 [NewGenerator] 并以依赖注入方式传递实例。
func Init(opts ...Option) error {
	initMu.Lock()
	defer initMu.Unlock()
	if defaultGen.Load() != nil {
		return ErrAlreadyInitialized
	}
	defaultGen.Store(NewGenerator(opts...))
	return nil
}

// Default 返回全局生成器，未初始化时用默认配置自动初始化。
//
// 使用 double-checked locking：快速路径仅需一次原子 Load。
func Default() *Generator {
	if gen := defaultGen.Load(); gen != nil {
		return gen
	}
	initMu.Lock()
	defer initMu.Unlock()
	if gen := defaultGen.Load(); gen != nil {
		return gen
	}
	gen := NewGenerator()
	defaultGen.Store(gen)
	return gen
}

// =============================================================================
// 全局便捷函数
// =============================================================================

// New 用全局生成器生成新 ID。
func New() ID {
	return Default().New()
}

// NewWithTime 用全局生成器以指定时间戳生成新 ID。
func NewWithTime(t time.Time) ID {
	return Default().NewWithTime(t)
}

// FastID 用全局生成器生成新 ID 并直接返回文本形式。
func FastID() string {
	return Default().FastID()
}
