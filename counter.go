package xid

import (
	cryptorand "crypto/rand"
	"encoding/binary"
	"io"
	randv2 "math/rand/v2"
	"sync/atomic"
)

// =============================================================================
// 原子计数器
// =============================================================================

// counterMask 计数器有效位掩码（低 24 位）。
const counterMask = 1<<24 - 1

// Counter 24 位原子递增计数器。
//
// 底层是一个 32 位寄存器，构造时由随机源播种，[Counter.Next] 以
// fetch-and-add 语义推进。寄存器越过 2^24 时按算术掩码回绕，不是错误。
//
// 多个 Generator 如果共享同一 (机器, 进程) 身份且需要全局单调的
// 计数器推进，必须通过 [WithCounter] 共享同一个 Counter 实例；
// 各自持有独立计数器会重新引入碰撞风险。
//
// 设计决策: Go 的 sync/atomic 在所有受支持平台上都由硬件原子指令
// 实现，不存在"原子原语不可用"的降级路径，因此没有对应的退化
// 单写模式与启动告警。
type Counter struct {
	reg  atomic.Uint32
	rand io.Reader
}

// NewCounter 创建计数器并从 rand 播种。
// rand 为 nil 时使用 crypto/rand。
func NewCounter(rand io.Reader) *Counter {
	if rand == nil {
		rand = cryptorand.Reader
	}
	c := &Counter{rand: rand}
	c.Reset()
	return c
}

// Next 原子推进寄存器并返回推进前的值（掩码到低 24 位）。
// 并发调用者不会观察到相同的返回值（2^24 次回绕窗口内）。
func (c *Counter) Next() uint32 {
	return (c.reg.Add(1) - 1) & counterMask
}

// Reset 从随机源重新播种寄存器。
//
// Generator 在时间戳跨越秒边界时调用：若不重置，接近 24 位上限的
// 计数器恰好在秒边界回绕时，同一秒内的后发 ID 会排序在先发 ID 之前。
// 只要单秒内请求量少于 2^24，重置即消除该失效模式。
func (c *Counter) Reset() {
	c.reg.Store(c.seed())
}

// seed 从随机源取 4 字节。随机源在运行中途失效时退化为
// math/rand/v2（播种只影响起点的不可预测性，不影响唯一性语义）。
func (c *Counter) seed() uint32 {
	var b [4]byte
	if _, err := io.ReadFull(c.rand, b[:]); err != nil {
		return randv2.Uint32()
	}
	return binary.BigEndian.Uint32(b[:])
}
