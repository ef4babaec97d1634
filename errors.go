package xid

import "errors"

// =============================================================================
// 错误定义
// =============================================================================

var (
	// ErrInvalidLength 输入长度无效。
	// 文本解析要求恰好 20 个字符，二进制解析要求恰好 12 字节。
	// 由 Parse / FromBytes / UnmarshalText / UnmarshalBinary / Scan 返回。
	ErrInvalidLength = errors.New("xid: invalid length")

	// ErrInvalidCharacter 文本解析遇到字母表之外的字符。
	// 字母表为 0-9 a-v（小写），区分大小写，大写字母同样被拒绝。
	ErrInvalidCharacter = errors.New("xid: invalid character")

	// ErrChecksumMismatch 末位符号一致性校验失败。
	// 第 20 个符号只承载末字节的最低比特位，字母表内的大部分符号
	// 出现在末位时隐含非零的填充位，解码后无法还原为原始字符串。
	// 解码必须拒绝这类输入，而不是静默规范化。
	ErrChecksumMismatch = errors.New("xid: trailing symbol checksum mismatch")

	// ErrAlreadyInitialized 全局生成器已初始化。
	// 第二次调用 Init 时返回此错误。如需多个生成器，请使用 NewGenerator。
	ErrAlreadyInitialized = errors.New("xid: generator already initialized")

	// ErrInvalidType Scan 收到无法转换为 ID 的数据库值类型。
	ErrInvalidType = errors.New("xid: incompatible sql value type")

	// ErrNoMachineID 所有机器标识获取策略均失败。
	// 此时 Generator 构造不会报错，而是回退到随机机器标识
	// 并输出一次性告警。
	ErrNoMachineID = errors.New("xid: all machine id strategies exhausted")
)
