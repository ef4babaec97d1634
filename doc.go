// Package xid 提供紧凑、全局唯一、按字节序即按时间排序的 96 位 ID。
//
// # 设计理念
//
// xid 生成 12 字节的二进制 ID，并提供与之一一对应的 20 字符
// base32-hex 文本形式（URL 安全、无需转义、区分大小写）。
// 主要特点：
//   - 比 UUID 更短（20 字符 vs 36 字符）且可按生成时间排序
//   - 生成永不失败、无锁、无阻塞，不依赖任何外部服务
//   - 唯一性来自 (机器, 进程) 身份 + 本地计数器，不依赖分布式协调
//   - 文本/二进制/JSON/SQL 序列化开箱即用
//
// ID 不是加密令牌：字节内容（时间、机器、进程、计数器）可被任何
// 持有者解出，不要用它承载机密信息。
//
// # ID 结构
//
// 12 字节大端布局：
//
//	 4 字节 - Unix 时间戳（秒）
//	 3 字节 - 机器标识（主机标识字符串的 xxhash 折叠）
//	 2 字节 - 进程标识
//	 3 字节 - 计数器（随机播种，每秒重置，fetch-and-add 推进）
//
// 时间戳位于首 4 字节，因此全 12 字节的无符号字节序比较即生成
// 时间序；文本形式逐符号保持此顺序，可直接作为数据库主键排序。
//
// # 快速开始
//
// 包级函数使用全局生成器（首次调用时自动初始化）：
//
//	id := xid.New()
//	fmt.Println(id.String())     // 例如: "9m4e2mr0ui3e8a215n4g"
//
//	// 只需要文本形式时的热路径
//	s := xid.FastID()
//
//	// 解析与字段提取
//	id, err := xid.Parse("9m4e2mr0ui3e8a215n4g")
//	if err != nil {
//	    return err
//	}
//	fmt.Println(id.Time(), id.Machine(), id.Pid(), id.Counter())
//
// 需要自定义配置或测试隔离时创建独立实例：
//
//	gen := xid.NewGenerator(
//	    xid.WithMachineID("node-42"),
//	    xid.WithProcessID(7),
//	)
//	id := gen.New()
//
// 全局实例的显式初始化（建议在应用启动时调用，使回退告警尽早出现）：
//
//	func main() {
//	    if err := xid.Init(xid.WithLogger(logger)); err != nil {
//	        log.Fatal(err)
//	    }
//	    // 应用代码...
//	}
//
// # 机器与进程标识策略
//
// 机器标识按以下优先级获取（详见 [DefaultMachineID]）：
//
//  1. XID_MACHINE_ID 环境变量（显式指定，唯一可控的方式）
//  2. POD_NAME 环境变量（K8s Downward API 注入）
//  3. HOSTNAME 环境变量
//  4. os.Hostname()
//  5. 随机 3 字节（以上全部失败时，伴随一次性 WARN 告警）
//
// 进程标识按以下优先级获取（详见 [DefaultProcessID]）：
//
//  1. XID_PROCESS_ID 环境变量（0-65535）
//  2. os.Getpid() 低 16 位，容器环境下混入 /proc/self/cpuset 哈希
//
// 哈希折叠到 24 位存在生日悖论意义下的碰撞概率（约 4800 台主机时
// 达到 50%）。大规模部署请通过 XID_MACHINE_ID 显式分配。
//
// # 回退与告警
//
// Generator 构造永不失败：机器标识、进程标识、随机源缺失或无效时
// 逐项替换为环境回退值，并经 [WithLogger] 配置的 slog 日志器输出
// 一次性 WARN 告警。ID 生成能力不应因环境退化而不可用。
//
// 与之相反，Parse/FromBytes 的解析失败是调用方正确性问题，错误
// 同步返回且可用 [errors.Is] 按种类区分（[ErrInvalidLength]、
// [ErrInvalidCharacter]、[ErrChecksumMismatch]），绝不记日志吞掉。
//
// # 顺序保证与吞吐上限
//
// 同一 Generator 内，happens-before 的两次生成若落在同一秒且该秒
// 内计数器未越过 2^24 次，则先发 ID 不大于后发 ID；跨秒时时间戳
// 字节单独保证顺序。计数器在秒边界重新随机播种，消除计数器回绕
// 恰好跨越秒边界时的排序破坏。
//
// 由此，单生成器每秒 2^24（约 1677 万）个 ID 是文档化的吞吐上限：
// 超过后同秒内的唯一性与顺序均不再保证。这是设计边界而非实现缺陷，
// 实现不会静默提升它。
//
// # 线程安全
//
// 包的所有公开函数和方法都是并发安全的。Generator 的生成路径只有
// 两个原子变量（计数器寄存器、秒边界标量），没有互斥锁。
// 不要以结构体复制的方式克隆 Generator；需要多实例共享计数器时
// 使用 [NewGenerator] + [WithCounter]。
//
// # 与 UUID 对比
//
//	| 特性       | xid                  | UUID v4            |
//	|------------|----------------------|--------------------|
//	| 大小       | 12 字节 / 20 字符    | 16 字节 / 36 字符  |
//	| 时序性     | 有（字节序即时间序） | 无                 |
//	| 唯一性保证 | 机器+进程+时间+计数  | 随机数             |
//	| 吞吐上限   | 2^24 IDs/s/生成器    | 无上限             |
//	| 机密性     | 无（字段可解出）     | 无                 |
package xid
