package xid

import (
	"errors"
	"testing"

	"github.com/cespare/xxhash/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultMachineID_StrategyLadder(t *testing.T) {
	t.Setenv(EnvMachineID, "")
	t.Setenv(EnvPodName, "")
	t.Setenv(EnvHostname, "")

	t.Run("env machine id wins", func(t *testing.T) {
		t.Setenv(EnvMachineID, "rack-7/node-42")
		t.Setenv(EnvPodName, "api-0")
		s, err := DefaultMachineID()
		require.NoError(t, err)
		assert.Equal(t, "rack-7/node-42", s)
	})

	t.Run("pod name over hostname env", func(t *testing.T) {
		t.Setenv(EnvPodName, "api-0")
		t.Setenv(EnvHostname, "host-1")
		s, err := DefaultMachineID()
		require.NoError(t, err)
		assert.Equal(t, "api-0", s)
	})

	t.Run("hostname env", func(t *testing.T) {
		t.Setenv(EnvHostname, "host-1")
		s, err := DefaultMachineID()
		require.NoError(t, err)
		assert.Equal(t, "host-1", s)
	})

	t.Run("os hostname", func(t *testing.T) {
		orig := osHostname
		osHostname = func() (string, error) { return "kernel-host", nil }
		defer func() { osHostname = orig }()

		s, err := DefaultMachineID()
		require.NoError(t, err)
		assert.Equal(t, "kernel-host", s)
	})

	t.Run("all strategies exhausted", func(t *testing.T) {
		orig := osHostname
		osHostname = func() (string, error) { return "", errors.New("sethostname disabled") }
		defer func() { osHostname = orig }()

		_, err := DefaultMachineID()
		assert.ErrorIs(t, err, ErrNoMachineID)
		assert.Contains(t, err.Error(), "sethostname disabled")
	})

	t.Run("empty os hostname", func(t *testing.T) {
		orig := osHostname
		osHostname = func() (string, error) { return "", nil }
		defer func() { osHostname = orig }()

		_, err := DefaultMachineID()
		assert.ErrorIs(t, err, ErrNoMachineID)
	})
}

func TestHashMachineID(t *testing.T) {
	a := hashMachineID("node-a")
	assert.Equal(t, a, hashMachineID("node-a"), "哈希确定")
	assert.NotEqual(t, a, hashMachineID("node-b"))
	assert.NotEqual(t, a, hashMachineID("node-a "), "输入逐字节敏感")
}

func TestDefaultProcessID(t *testing.T) {
	t.Run("env override", func(t *testing.T) {
		t.Setenv(EnvProcessID, "12345")
		pid, err := DefaultProcessID()
		require.NoError(t, err)
		assert.Equal(t, uint16(12345), pid)
	})

	t.Run("env boundary values", func(t *testing.T) {
		t.Setenv(EnvProcessID, "0")
		pid, err := DefaultProcessID()
		require.NoError(t, err)
		assert.Equal(t, uint16(0), pid)

		t.Setenv(EnvProcessID, "65535")
		pid, err = DefaultProcessID()
		require.NoError(t, err)
		assert.Equal(t, uint16(65535), pid)
	})

	t.Run("invalid env returns fallback and error", func(t *testing.T) {
		for _, v := range []string{"abc", "-1", "65536"} {
			t.Setenv(EnvProcessID, v)
			pid, err := DefaultProcessID()
			assert.Error(t, err, "value %q", v)
			assert.Contains(t, err.Error(), "invalid")
			// 错误返回时仍附带可用的回退值
			assert.Equal(t, containerAwarePid(), pid)
		}
	})

	t.Run("no env uses container-aware pid", func(t *testing.T) {
		t.Setenv(EnvProcessID, "")
		pid, err := DefaultProcessID()
		require.NoError(t, err)
		assert.Equal(t, containerAwarePid(), pid)
	})
}

func TestContainerAwarePid(t *testing.T) {
	origPid, origRead := osGetpid, osReadFile
	defer func() { osGetpid, osReadFile = origPid, origRead }()

	osGetpid = func() int { return 1 }

	t.Run("bare host cpuset not mixed", func(t *testing.T) {
		osReadFile = func(string) ([]byte, error) { return []byte("/"), nil }
		assert.Equal(t, uint16(1), containerAwarePid())
	})

	t.Run("cpuset read failure ignored", func(t *testing.T) {
		osReadFile = func(string) ([]byte, error) { return nil, errors.New("no procfs") }
		assert.Equal(t, uint16(1), containerAwarePid())
	})

	t.Run("container cpuset mixed in", func(t *testing.T) {
		cpuset := []byte("/kubepods/pod-abc/container-def")
		osReadFile = func(string) ([]byte, error) { return cpuset, nil }

		h := xxhash.Sum64(cpuset)
		want := uint16(1) ^ uint16(h) ^ uint16(h>>16) ^ uint16(h>>32) ^ uint16(h>>48)
		assert.Equal(t, want, containerAwarePid())
	})
}
