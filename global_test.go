package xid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// resetGlobal 重置全局状态，仅用于测试
func resetGlobal() {
	defaultGen.Store(nil)
}

func TestGlobalNew(t *testing.T) {
	resetGlobal()

	id1 := New()
	id2 := New()
	assert.False(t, id1.IsNil())
	assert.NotEqual(t, id1, id2)
}

func TestGlobalFastID(t *testing.T) {
	resetGlobal()

	s := FastID()
	require.Len(t, s, encodedLen)
	id, err := Parse(s)
	require.NoError(t, err)
	assert.False(t, id.IsNil())
}

func TestInit_WithCustomIdentity(t *testing.T) {
	resetGlobal()

	err := Init(WithMachineID("init-node"), WithProcessID(321))
	require.NoError(t, err)

	id := New()
	assert.Equal(t, uint16(321), id.Pid())
	assert.Equal(t, Default().Machine(), id.Machine())
}

func TestInit_AlreadyInitialized(t *testing.T) {
	resetGlobal()

	require.NoError(t, Init())
	assert.ErrorIs(t, Init(), ErrAlreadyInitialized)
}

func TestInit_AlreadyInitialized_ByAutoInit(t *testing.T) {
	resetGlobal()

	// 通过 New 触发自动初始化后，显式 Init 返回 ErrAlreadyInitialized
	_ = New()
	assert.ErrorIs(t, Init(), ErrAlreadyInitialized)
}

func TestDefault_Stable(t *testing.T) {
	resetGlobal()

	// 自动初始化只发生一次，后续调用返回同一实例
	assert.Same(t, Default(), Default())
}

func TestGlobalNewWithTime(t *testing.T) {
	resetGlobal()

	id := NewWithTime(ID(refBytes).Time())
	assert.Equal(t, ID(refBytes).Time(), id.Time())
}
