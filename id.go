package xid

import (
	"bytes"
	"database/sql/driver"
	"encoding/binary"
	"fmt"
	"slices"
	"time"
)

// =============================================================================
// ID 值类型
// =============================================================================

// ID 96 位可排序唯一标识符，固定 12 字节，大端布局：
//
//	4 字节 - Unix 时间戳（秒）
//	3 字节 - 机器标识（主机标识的哈希）
//	2 字节 - 进程标识
//	3 字节 - 计数器（每秒随机重置的递增序号）
//
// ID 是值类型：可比较、可作为 map key，按字节序比较即按生成时间排序。
// 零值即 [NilID] 哨兵，是合法的可区分值而非错误状态。
//
// 设计决策: 定长数组而非 []byte。杜绝长度不变量被运行时破坏的可能，
// 合法的构造入口只有 Parse / FromBytes / Generator，不存在需要校验
// 长度的方法调用路径。
type ID [rawLen]byte

// NilID 全零哨兵值。
var NilID ID

// Parse 从 20 字符文本形式解析 ID。
//
// 失败返回的错误可通过 [errors.Is] 区分种类：
//   - [ErrInvalidLength]: 长度不是 20 字符
//   - [ErrInvalidCharacter]: 含字母表（0-9 a-v，小写）之外的字符
//   - [ErrChecksumMismatch]: 末位符号与前 19 个字符不一致
//
// 所有失败都是确定性的输入错误，不存在重试语义。
func Parse(s string) (ID, error) {
	var id ID
	if err := decode((*[rawLen]byte)(&id), []byte(s)); err != nil {
		return NilID, err
	}
	return id, nil
}

// FromBytes 从 12 字节二进制形式构造 ID。
// 长度不为 12 时返回 [ErrInvalidLength]。
func FromBytes(b []byte) (ID, error) {
	var id ID
	if len(b) != rawLen {
		return NilID, fmt.Errorf("%w: got %d bytes, want %d", ErrInvalidLength, len(b), rawLen)
	}
	copy(id[:], b)
	return id, nil
}

// =============================================================================
// 字段提取
// =============================================================================

// Time 返回 ID 的时间戳部分（秒精度）。
func (id ID) Time() time.Time {
	return time.Unix(int64(binary.BigEndian.Uint32(id[0:4])), 0)
}

// Machine 返回 ID 的 3 字节机器标识部分。
func (id ID) Machine() []byte {
	return id[4:7:7]
}

// Pid 返回 ID 的进程标识部分。
func (id ID) Pid() uint16 {
	return binary.BigEndian.Uint16(id[7:9])
}

// Counter 返回 ID 的计数器部分（有效位为低 24 位）。
func (id ID) Counter() uint32 {
	return uint32(id[9])<<16 | uint32(id[10])<<8 | uint32(id[11])
}

// =============================================================================
// 值语义
// =============================================================================

// String 返回 20 字符的 base32-hex 文本形式。
func (id ID) String() string {
	var text [encodedLen]byte
	encode(&text, (*[rawLen]byte)(&id))
	return string(text[:])
}

// Bytes 返回 12 字节二进制形式的副本。
func (id ID) Bytes() []byte {
	return append([]byte(nil), id[:]...)
}

// Compare 按无符号字节序比较两个 ID。
// 时间戳位于首 4 字节，因此字节序即生成时间序。
func (id ID) Compare(other ID) int {
	return bytes.Compare(id[:], other[:])
}

// Equal 判断两个 ID 是否相等。
func (id ID) Equal(other ID) bool {
	return id == other
}

// IsNil 判断是否为全零哨兵值。
func (id ID) IsNil() bool {
	return id == NilID
}

// Compare 按无符号字节序比较 a、b，返回负值/零/正值。
func Compare(a, b ID) int {
	return bytes.Compare(a[:], b[:])
}

// Sort 将 ids 原地按升序稳定排序。
func Sort(ids []ID) {
	slices.SortStableFunc(ids, Compare)
}

// =============================================================================
// 序列化
// =============================================================================

// MarshalText 实现 [encoding.TextMarshaler]，输出 20 字符文本形式。
func (id ID) MarshalText() ([]byte, error) {
	var text [encodedLen]byte
	encode(&text, (*[rawLen]byte)(&id))
	return text[:], nil
}

// UnmarshalText 实现 [encoding.TextUnmarshaler]，按 [Parse] 规则解析。
func (id *ID) UnmarshalText(b []byte) error {
	return decode((*[rawLen]byte)(id), b)
}

// MarshalBinary 实现 [encoding.BinaryMarshaler]，输出 12 字节二进制形式。
func (id ID) MarshalBinary() ([]byte, error) {
	return id.Bytes(), nil
}

// UnmarshalBinary 实现 [encoding.BinaryUnmarshaler]。
// 长度不为 12 时返回 [ErrInvalidLength]。
func (id *ID) UnmarshalBinary(b []byte) error {
	v, err := FromBytes(b)
	if err != nil {
		return err
	}
	*id = v
	return nil
}

// MarshalJSON 实现 [json.Marshaler]。NilID 序列化为 null。
func (id ID) MarshalJSON() ([]byte, error) {
	if id.IsNil() {
		return []byte("null"), nil
	}
	b := make([]byte, 0, encodedLen+2)
	b = append(b, '"')
	var text [encodedLen]byte
	encode(&text, (*[rawLen]byte)(&id))
	b = append(b, text[:]...)
	b = append(b, '"')
	return b, nil
}

// UnmarshalJSON 实现 [json.Unmarshaler]。null 反序列化为 NilID。
func (id *ID) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*id = NilID
		return nil
	}
	if len(b) < 2 || b[0] != '"' || b[len(b)-1] != '"' {
		return fmt.Errorf("%w: not a JSON string", ErrInvalidCharacter)
	}
	return decode((*[rawLen]byte)(id), b[1:len(b)-1])
}

// Value 实现 [driver.Valuer]，以文本形式写入数据库。NilID 写入 NULL。
func (id ID) Value() (driver.Value, error) {
	if id.IsNil() {
		return nil, nil
	}
	return id.String(), nil
}

// Scan 实现 [sql.Scanner]。
// 接受文本形式（string 或 20 字节 []byte）、二进制形式（12 字节 []byte）
// 以及 nil（映射为 NilID）。
func (id *ID) Scan(value any) error {
	switch v := value.(type) {
	case nil:
		*id = NilID
		return nil
	case string:
		return decode((*[rawLen]byte)(id), []byte(v))
	case []byte:
		if len(v) == rawLen {
			copy(id[:], v)
			return nil
		}
		return decode((*[rawLen]byte)(id), v)
	default:
		return fmt.Errorf("%w: %T", ErrInvalidType, value)
	}
}
