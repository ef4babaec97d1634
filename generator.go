package xid

import (
	cryptorand "crypto/rand"
	"encoding/binary"
	"io"
	"log/slog"
	randv2 "math/rand/v2"
	"sync/atomic"
	"time"
)

// =============================================================================
// Generator - 实例化的 ID 生成器
// =============================================================================

// Generator 有状态的 ID 装配器。
//
// 持有固定的 3 字节机器标识、2 字节进程标识、一个 [Counter] 和
// 最近一次生成所在的秒，按 时间戳|机器|进程|计数器 的布局装配 ID。
// 所有方法都是并发安全的；唯一的跨调用协调点是计数器的原子寄存器
// 和秒边界检测的原子标量，生成路径无锁、无阻塞、不可取消。
//
// Generator 构造后即进入就绪状态，生成永不失败，也没有终止状态；
// 典型用法是进程生命周期内的长寿命单例（依赖注入或 [Init] 全局实例）。
//
// 警告：不要以复制结构体的方式"克隆"Generator。副本携带独立的
// 计数器推进会在调用方以为共享实例时重新引入碰撞风险，
// 需要多实例时使用 NewGenerator + [WithCounter]。
type Generator struct {
	machine [3]byte
	pid     uint16
	counter *Counter
	// lastSec 最近一次生成所在的 Unix 秒，用于检测秒边界。
	lastSec atomic.Int64
	now     func() time.Time

	noCopy noCopy
}

// NewGenerator 创建新的 ID 生成器实例。
//
// 构造永不失败：机器标识、进程标识、随机源缺失或无效时逐项替换为
// 环境回退值，并经配置的日志器输出一次性 WARN 告警——ID 生成能力
// 不应因环境退化而不可用（告警不会上升为错误，也不会逐次重复）。
//
// 机器标识与进程标识无论来源如何都被折叠/截断为 3 字节和 2 字节，
// 其派生的有效性由调用方负责。
//
// 设计决策: 返回 *Generator 而非接口。生成器没有第二种实现，
// 测试通过 WithClock/WithRandomSource/WithMachineID 注入确定性输入
// 即可覆盖全部分支，返回具体类型符合 "accept interfaces, return
// structs" 惯例。
func NewGenerator(opts ...Option) *Generator {
	cfg := &options{}
	// nil Option 静默跳过，便于条件式构建 Option 列表
	for _, opt := range opts {
		if opt != nil {
			opt(cfg)
		}
	}

	logger := cfg.logger
	if logger == nil {
		logger = slog.Default()
	}
	now := cfg.now
	if now == nil {
		now = time.Now
	}

	rand := resolveRandomSource(cfg.rand, logger)
	machine := resolveMachineID(cfg, rand, logger)
	pid := resolveProcessID(cfg, logger)

	counter := cfg.counter
	if counter == nil {
		counter = NewCounter(rand)
	}

	g := &Generator{
		machine: machine,
		pid:     pid,
		counter: counter,
		now:     now,
	}
	g.lastSec.Store(now().Unix())
	return g
}

// resolveRandomSource 校验随机源：探测读取 4 字节，失败则回退 crypto/rand。
func resolveRandomSource(r io.Reader, logger *slog.Logger) io.Reader {
	if r == nil {
		return cryptorand.Reader
	}
	var probe [4]byte
	if _, err := io.ReadFull(r, probe[:]); err != nil {
		logger.Warn("xid: random source failed probe read, falling back to crypto/rand",
			slog.Any("error", err))
		return cryptorand.Reader
	}
	return r
}

// resolveMachineID 解析机器标识，逐层回退：
// 显式 Option → DefaultMachineID 策略链 → 随机 3 字节。
func resolveMachineID(cfg *options, rand io.Reader, logger *slog.Logger) [3]byte {
	if cfg.machineIDSet && cfg.machineID != "" {
		return hashMachineID(cfg.machineID)
	}
	if cfg.machineIDSet {
		logger.Warn("xid: empty machine id supplied, using default strategies")
	}
	s, err := DefaultMachineID()
	if err == nil {
		return hashMachineID(s)
	}

	// 最后一层回退：随机机器标识。跨重启不稳定，ID 的机器字段
	// 不再可归因，但唯一性在概率意义下仍然成立。
	logger.Warn("xid: machine id unavailable, using random machine id",
		slog.Any("error", err))
	var b [3]byte
	if _, rerr := io.ReadFull(rand, b[:]); rerr != nil {
		v := randv2.Uint32()
		b = [3]byte{byte(v >> 16), byte(v >> 8), byte(v)}
	}
	return b
}

// resolveProcessID 解析进程标识：显式 Option → DefaultProcessID。
func resolveProcessID(cfg *options, logger *slog.Logger) uint16 {
	if cfg.processIDSet {
		return cfg.processID
	}
	pid, err := DefaultProcessID()
	if err != nil {
		// DefaultProcessID 已在错误返回时附带可用的回退值
		logger.Warn("xid: process id env override invalid, using container-aware pid",
			slog.Any("error", err))
	}
	return pid
}

// =============================================================================
// 生成
// =============================================================================

// New 用当前时间生成新 ID。永不失败。
func (g *Generator) New() ID {
	return g.NewWithTime(g.now())
}

// NewWithTime 用指定时间戳生成新 ID。
//
// 时间戳向下取整到秒。所在秒与上一次调用不同时先重置计数器再取值
// （见 [Counter.Reset] 的失效模式说明），随后装配 12 字节。
//
// 同一 Generator 内，happens-before 的两次调用若落在同一秒且该秒内
// 计数器未越过 2^24 次，则先发 ID 的字节序不大于后发 ID；跨秒时
// 时间戳字节单独保证顺序。不同 Generator（不同机器/进程对）之间
// 除时间戳外不提供顺序保证。
func (g *Generator) NewWithTime(t time.Time) ID {
	sec := t.Unix()
	// CAS 保证秒边界竞争下恰好一个调用者执行重置；
	// 失败方要么使用重置后的新种子，要么使用重置前的旧值，
	// 两者都不破坏该秒内取值的互异性。
	if last := g.lastSec.Load(); sec != last && g.lastSec.CompareAndSwap(last, sec) {
		g.counter.Reset()
	}

	var id ID
	binary.BigEndian.PutUint32(id[0:4], uint32(sec))
	id[4], id[5], id[6] = g.machine[0], g.machine[1], g.machine[2]
	binary.BigEndian.PutUint16(id[7:9], g.pid)
	c := g.counter.Next()
	id[9], id[10], id[11] = byte(c>>16), byte(c>>8), byte(c)
	return id
}

// FastID 生成新 ID 并直接返回文本形式。
//
// 与 New().String() 语义完全一致，装配与编码在同一调用帧内完成，
// 适用于只需要文本形式的热路径。
func (g *Generator) FastID() string {
	id := g.NewWithTime(g.now())
	var text [encodedLen]byte
	encode(&text, (*[rawLen]byte)(&id))
	return string(text[:])
}

// Machine 返回此生成器装配 ID 使用的 3 字节机器标识（副本）。
func (g *Generator) Machine() []byte {
	return append([]byte(nil), g.machine[:]...)
}

// Pid 返回此生成器装配 ID 使用的进程标识。
func (g *Generator) Pid() uint16 {
	return g.pid
}

// noCopy 嵌入后由 go vet copylocks 检查拦截值复制。
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}
