package xid

import (
	"bytes"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"testing/iotest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testClock 可推进的确定性时钟。
type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// newTestLogger 返回写入缓冲区的 slog 日志器，用于断言回退告警。
func newTestLogger() (*slog.Logger, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	return slog.New(slog.NewTextHandler(buf, nil)), buf
}

func TestGenerator_Layout(t *testing.T) {
	clock := &testClock{now: time.Unix(1_700_000_000, 500*1e6)}
	gen := NewGenerator(
		WithMachineID("node-1"),
		WithProcessID(0xbeef),
		// 前 4 字节被构造期探测读取消耗，后 4 字节为计数器种子
		WithRandomSource(fixedReader(0, 0, 0, 0, 0x00, 0x00, 0x00, 0x10)),
		WithClock(clock.Now),
	)

	id := gen.New()
	assert.Equal(t, time.Unix(1_700_000_000, 0), id.Time(), "时间戳向下取整到秒")
	assert.Equal(t, gen.Machine(), id.Machine())
	assert.Equal(t, uint16(0xbeef), id.Pid())
	assert.Equal(t, uint32(0x10), id.Counter())

	// 同一秒内计数器逐一递增
	assert.Equal(t, uint32(0x11), gen.New().Counter())
	assert.Equal(t, uint32(0x12), gen.New().Counter())
}

func TestGenerator_MachineIDHashing(t *testing.T) {
	a := NewGenerator(WithMachineID("node-a"))
	b := NewGenerator(WithMachineID("node-b"))
	a2 := NewGenerator(WithMachineID("node-a"))

	assert.Len(t, a.Machine(), 3)
	assert.Equal(t, a.Machine(), a2.Machine(), "同一主机标识哈希结果确定")
	assert.NotEqual(t, a.Machine(), b.Machine())
	assert.Equal(t, a.Machine(), a.New().Machine())
}

func TestGenerator_CounterResetOnSecondBoundary(t *testing.T) {
	clock := &testClock{now: time.Unix(1_700_000_000, 0)}
	gen := NewGenerator(
		WithMachineID("node-1"),
		WithProcessID(1),
		WithRandomSource(fixedReader(
			0, 0, 0, 0, // 构造期探测
			0x00, 0x00, 0x00, 0x07, // 初始种子
			0x00, 0x00, 0x2a, 0x00, // 秒边界重置后的种子
		)),
		WithClock(clock.Now),
	)

	assert.Equal(t, uint32(0x07), gen.New().Counter())
	assert.Equal(t, uint32(0x08), gen.New().Counter())

	clock.Advance(time.Second)
	assert.Equal(t, uint32(0x2a00), gen.New().Counter(), "跨秒后计数器重新播种")
	assert.Equal(t, uint32(0x2a01), gen.New().Counter())
}

func TestGenerator_NewWithTime(t *testing.T) {
	gen := NewGenerator(WithMachineID("node-1"), WithProcessID(1))

	at := time.Date(2020, 6, 1, 12, 0, 0, 999_999_999, time.UTC)
	id := gen.NewWithTime(at)
	assert.True(t, id.Time().Equal(at.Truncate(time.Second)), "时间戳向下取整到秒")
}

func TestGenerator_OrderingWithinSecond(t *testing.T) {
	clock := &testClock{now: time.Unix(1_700_000_000, 0)}
	gen := NewGenerator(
		WithMachineID("node-1"),
		WithProcessID(1),
		// 种子靠近 0，远离 2^24 回绕点
		WithRandomSource(fixedReader(0, 0, 0, 0, 0x00, 0x00, 0x00, 0x00)),
		WithClock(clock.Now),
	)

	prev := gen.New()
	for i := 0; i < 10_000; i++ {
		cur := gen.New()
		require.Negative(t, Compare(prev, cur), "同一秒内先发 ID 必须小于后发 ID")
		prev = cur
	}

	// 跨秒后时间戳字节单独保证顺序，与计数器种子无关
	clock.Advance(time.Second)
	assert.Negative(t, Compare(prev, gen.New()))
}

func TestGenerator_ConcurrentUniqueness(t *testing.T) {
	const goroutines = 100
	const perGoroutine = 100

	gen := NewGenerator(WithMachineID("node-1"), WithProcessID(1))
	ids := make(chan ID, goroutines*perGoroutine)

	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perGoroutine; j++ {
				ids <- gen.New()
			}
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[ID]bool, goroutines*perGoroutine)
	for id := range ids {
		assert.False(t, seen[id], "duplicate ID: %s", id)
		seen[id] = true
	}
	assert.Len(t, seen, goroutines*perGoroutine)
}

func TestGenerator_SharedCounter(t *testing.T) {
	// 共享 (机器, 进程) 身份的多个生成器必须共享计数器，
	// 两个实例交替取值不会观察到相同的计数器值
	counter := NewCounter(fixedReader(0x00, 0x00, 0x00, 0x00))
	clock := &testClock{now: time.Unix(1_700_000_000, 0)}
	mk := func() *Generator {
		return NewGenerator(
			WithMachineID("node-1"),
			WithProcessID(1),
			WithCounter(counter),
			WithClock(clock.Now),
		)
	}
	a, b := mk(), mk()

	seen := make(map[ID]bool)
	for i := 0; i < 100; i++ {
		for _, id := range []ID{a.New(), b.New()} {
			assert.False(t, seen[id], "duplicate ID across shared-counter generators")
			seen[id] = true
		}
	}
}

func TestGenerator_FastID(t *testing.T) {
	gen := NewGenerator(WithMachineID("node-1"), WithProcessID(7))

	s := gen.FastID()
	require.Len(t, s, encodedLen)

	// 与 New().String() 语义一致：可解析、字段相同
	id, err := Parse(s)
	require.NoError(t, err)
	assert.Equal(t, gen.Machine(), id.Machine())
	assert.Equal(t, uint16(7), id.Pid())
	assert.Equal(t, s, id.String())
}

// =============================================================================
// 回退与告警
// =============================================================================

func TestGenerator_RandomSourceFallback(t *testing.T) {
	logger, buf := newTestLogger()
	gen := NewGenerator(
		WithMachineID("node-1"),
		WithProcessID(1),
		WithRandomSource(iotest.ErrReader(errors.New("entropy exhausted"))),
		WithLogger(logger),
	)

	// 构造不失败，生成可用，告警出现一次
	assert.False(t, gen.New().IsNil())
	assert.Contains(t, buf.String(), "random source failed probe read")
	assert.Contains(t, buf.String(), "entropy exhausted")
}

func TestGenerator_EmptyMachineIDFallback(t *testing.T) {
	logger, buf := newTestLogger()
	gen := NewGenerator(WithMachineID(""), WithLogger(logger))

	assert.Len(t, gen.Machine(), 3)
	assert.Contains(t, buf.String(), "empty machine id")
}

func TestGenerator_RandomMachineIDFallback(t *testing.T) {
	// 劫持全部主机标识来源，策略链全失败时回退到随机机器标识
	t.Setenv(EnvMachineID, "")
	t.Setenv(EnvPodName, "")
	t.Setenv(EnvHostname, "")
	orig := osHostname
	osHostname = func() (string, error) { return "", errors.New("syscall blocked") }
	defer func() { osHostname = orig }()

	logger, buf := newTestLogger()
	gen := NewGenerator(WithProcessID(1), WithLogger(logger))

	assert.Len(t, gen.Machine(), 3)
	assert.False(t, gen.New().IsNil())
	assert.Contains(t, buf.String(), "using random machine id")
}

func TestGenerator_InvalidProcessIDEnvFallback(t *testing.T) {
	t.Setenv(EnvProcessID, "not-a-number")

	logger, buf := newTestLogger()
	gen := NewGenerator(WithMachineID("node-1"), WithLogger(logger))

	// 构造不失败，使用容器感知 PID 兜底
	assert.False(t, gen.New().IsNil())
	assert.Contains(t, buf.String(), "process id env override invalid")
}

func TestGenerator_NilOptionSkipped(t *testing.T) {
	assert.NotPanics(t, func() {
		gen := NewGenerator(nil, WithProcessID(1), nil)
		assert.Equal(t, uint16(1), gen.Pid())
	})
}
