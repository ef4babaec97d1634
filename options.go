package xid

import (
	"io"
	"log/slog"
	"time"
)

// =============================================================================
// 配置
// =============================================================================

// options 内部配置结构
type options struct {
	machineID    string
	machineIDSet bool // 区分"未传入"与"显式传入空串"
	processID    uint16
	processIDSet bool // 区分"未传入"与"显式传入 0"
	rand         io.Reader
	counter      *Counter
	logger       *slog.Logger
	now          func() time.Time
}

// Option 配置选项函数
type Option func(*options)

// WithMachineID 显式指定不透明的主机标识字符串。
//
// 值经 xxhash 折叠为 3 字节后写入每个 ID 的机器标识字段，来源不做
// 校验。空字符串视同未指定，回退到 [DefaultMachineID] 的多层策略
// （环境变量 → Pod 名称 → 主机名）并输出一次性告警。
//
// 典型用途：
//   - 与外部服务协调的机器标识分配（如 etcd/ZooKeeper 注册结果）
//   - 测试中固定机器标识以获得可复现的 ID
func WithMachineID(id string) Option {
	return func(c *options) {
		c.machineID = id
		c.machineIDSet = true
	}
}

// WithProcessID 显式指定 16 位进程标识。
//
// 默认使用 [DefaultProcessID]（环境变量 → 容器感知的 os.Getpid）。
// 同一台机器上并发运行的多个进程必须持有不同的进程标识，
// 否则唯一性退化为仅靠计数器随机种子。
func WithProcessID(pid uint16) Option {
	return func(c *options) {
		c.processID = pid
		c.processIDSet = true
	}
}

// WithRandomSource 设置计数器播种使用的随机源。
//
// 默认为 crypto/rand。随机源只影响计数器起点的不可预测性，
// 不参与每个 ID 的生成路径。构造时会探测读取一次：
// 返回错误或字节数不足的源视为无效，回退到 crypto/rand
// 并输出一次性告警，构造本身不会失败。
func WithRandomSource(r io.Reader) Option {
	return func(c *options) {
		c.rand = r
	}
}

// WithCounter 共享计数器实例。
//
// 多个 Generator 共享同一 (机器, 进程) 身份时（如按用途区分的
// 多个生成器实例），必须共享同一个 Counter，否则各自独立的计数器
// 种子会重新引入同一秒内的碰撞风险。传入 nil 视同未指定。
func WithCounter(c *Counter) Option {
	return func(o *options) {
		o.counter = c
	}
}

// WithLogger 设置回退告警使用的结构化日志器。
//
// 默认为 [slog.Default]。Generator 构造在机器标识、进程标识或
// 随机源不可用时不返回错误，而是经此日志器输出一次性 WARN 告警。
func WithLogger(l *slog.Logger) Option {
	return func(c *options) {
		c.logger = l
	}
}

// WithClock 设置时钟函数，默认为 [time.Now]。
//
// 用于测试中构造确定性的时间戳序列（如覆盖秒边界重置逻辑）。
// 生产环境注入非单调的时钟会破坏 ID 的排序保证。
func WithClock(now func() time.Time) Option {
	return func(c *options) {
		c.now = now
	}
}
