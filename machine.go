package xid

import (
	"fmt"
	"os"
	"strconv"

	"github.com/cespare/xxhash/v2"
)

// 测试注入点：允许测试替换系统调用以覆盖所有回退分支。
var (
	osHostname = os.Hostname // machineIDFromOSHostname
	osReadFile = os.ReadFile // containerAwarePid
	osGetpid   = os.Getpid   // DefaultProcessID
)

// =============================================================================
// 环境变量
// =============================================================================

const (
	// EnvMachineID 直接指定机器标识字符串的环境变量。
	// 值作为不透明主机标识参与哈希，不要求是数字。
	EnvMachineID = "XID_MACHINE_ID"

	// EnvProcessID 直接指定进程标识的环境变量（0-65535）。
	EnvProcessID = "XID_PROCESS_ID"

	// EnvPodName K8s Pod 名称环境变量（通过 Downward API 注入）
	EnvPodName = "POD_NAME"

	// EnvHostname 主机名环境变量（某些环境会设置）
	EnvHostname = "HOSTNAME"
)

// cpusetPath 容器环境下的 cgroup cpuset 路径，内容在宿主机上对每个
// 容器唯一，用于区分共享 PID 命名空间视图的容器进程。
const cpusetPath = "/proc/self/cpuset"

// =============================================================================
// 机器标识获取策略
// =============================================================================

// DefaultMachineID 获取不透明的主机标识字符串，按以下优先级尝试：
//
//  1. XID_MACHINE_ID 环境变量（显式指定，唯一可控的方式）
//  2. POD_NAME 环境变量（K8s Downward API）
//  3. HOSTNAME 环境变量
//  4. os.Hostname()
//
// 返回值仅作为哈希输入，任何非空字符串都是合法的。
// 标识最终被折叠为 24 位，存在生日悖论意义下的碰撞概率：
// 约 4800 台主机时碰撞概率达到 50%。大规模部署请通过
// XID_MACHINE_ID 显式分配，并结合进程标识与计数器评估风险。
func DefaultMachineID() (string, error) {
	if s := os.Getenv(EnvMachineID); s != "" {
		return s, nil
	}
	if s := os.Getenv(EnvPodName); s != "" {
		return s, nil
	}
	if s := os.Getenv(EnvHostname); s != "" {
		return s, nil
	}
	return machineIDFromOSHostname()
}

// machineIDFromOSHostname 从 os.Hostname() 获取主机标识。
//
// 设计决策: 环境变量策略失败原因总是"未设置"，无诊断价值；
// os.Hostname() 可能产生有诊断价值的系统错误（如容器内内核限制），
// 因此保留 error 并聚合到最终错误中帮助排障。
func machineIDFromOSHostname() (string, error) {
	hostname, err := osHostname()
	if err != nil {
		return "", fmt.Errorf("%w (os-hostname: %v)", ErrNoMachineID, err)
	}
	if hostname == "" {
		return "", fmt.Errorf("%w (os-hostname: empty)", ErrNoMachineID)
	}
	return hostname, nil
}

// hashMachineID 将不透明主机标识哈希为 3 字节机器标识。
// 使用 xxhash 零分配确定性哈希，按 24 位分段 XOR 折叠，
// 比直接截断更充分利用完整的 64 位哈希值。
func hashMachineID(s string) [3]byte {
	const mask24 = 1<<24 - 1
	h := xxhash.Sum64String(s)
	fold := uint32(h&mask24) ^ uint32((h>>24)&mask24) ^ uint32(h>>48)
	return [3]byte{byte(fold >> 16), byte(fold >> 8), byte(fold)}
}

// =============================================================================
// 进程标识获取策略
// =============================================================================

// DefaultProcessID 获取 16 位进程标识，按以下优先级尝试：
//
//  1. XID_PROCESS_ID 环境变量（直接指定数字 0-65535）
//  2. os.Getpid() 的低 16 位，容器环境下混入 cpuset 路径哈希
//
// 环境变量值无法解析时返回错误，调用方（Generator 构造）回退到
// 策略 2 并输出一次性告警，不会导致构造失败。
func DefaultProcessID() (uint16, error) {
	if s := os.Getenv(EnvProcessID); s != "" {
		pid, err := strconv.ParseUint(s, 10, 16)
		if err != nil {
			return containerAwarePid(), fmt.Errorf("xid: invalid %s value %q: %w", EnvProcessID, s, err)
		}
		return uint16(pid), nil
	}
	return containerAwarePid(), nil
}

// containerAwarePid 返回当前进程 PID 的低 16 位。
//
// 容器内 PID 命名空间各自独立，不同宿主机上的容器常以相同的小 PID
// 运行（典型为 1），导致 (机器, 进程) 对失去区分度。/proc/self/cpuset
// 的内容含容器标识且在宿主机上唯一，将其哈希混入 PID 可恢复区分度。
// 非容器环境下该文件内容为 "/"（长度 1），不参与混合。
func containerAwarePid() uint16 {
	pid := uint16(osGetpid())
	if b, err := osReadFile(cpusetPath); err == nil && len(b) > 1 {
		h := xxhash.Sum64(b)
		pid ^= uint16(h) ^ uint16(h>>16) ^ uint16(h>>32) ^ uint16(h>>48)
	}
	return pid
}
