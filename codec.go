package xid

import "fmt"

// =============================================================================
// base32-hex 编解码
// =============================================================================

const (
	// rawLen ID 二进制长度（字节）
	rawLen = 12
	// encodedLen ID 文本长度（字符）
	encodedLen = 20

	// encoding base32-hex 字母表：每个符号承载 5 个比特，高位在前。
	// 96 比特编码为 20 个符号（100 个比特位）：前 19 个符号承载
	// 95 个比特，末位符号只承载末字节的最低位，其余 4 个比特位
	// 恒为 0（合法的末位符号只有 '0' 和 'g'）。
	encoding = "0123456789abcdefghijklmnopqrstuv"
)

// dec 解码查找表。合法字符映射到 0-31，其余字节为 0xFF。
var dec [256]byte

func init() {
	for i := range dec {
		dec[i] = 0xFF
	}
	for i := 0; i < len(encoding); i++ {
		dec[encoding[i]] = byte(i)
	}
}

// encode 将 12 字节编码到 dst 的前 20 字节。
//
// 设计决策: 固定展开的位移代替通用 base32 库。布局是编译期常量，
// 展开后无循环、无查表之外的分支，这是文本编码热路径的主要收益来源。
func encode(dst *[encodedLen]byte, id *[rawLen]byte) {
	dst[19] = encoding[(id[11]<<4)&0x1F]
	dst[18] = encoding[(id[11]>>1)&0x1F]
	dst[17] = encoding[(id[10]<<2|id[11]>>6)&0x1F]
	dst[16] = encoding[id[10]>>3]
	dst[15] = encoding[id[9]&0x1F]
	dst[14] = encoding[(id[8]<<3|id[9]>>5)&0x1F]
	dst[13] = encoding[(id[8]>>2)&0x1F]
	dst[12] = encoding[(id[7]<<1|id[8]>>7)&0x1F]
	dst[11] = encoding[(id[6]<<4|id[7]>>4)&0x1F]
	dst[10] = encoding[(id[6]>>1)&0x1F]
	dst[9] = encoding[(id[5]<<2|id[6]>>6)&0x1F]
	dst[8] = encoding[id[5]>>3]
	dst[7] = encoding[id[4]&0x1F]
	dst[6] = encoding[(id[3]<<3|id[4]>>5)&0x1F]
	dst[5] = encoding[(id[3]>>2)&0x1F]
	dst[4] = encoding[(id[2]<<1|id[3]>>7)&0x1F]
	dst[3] = encoding[(id[1]<<4|id[2]>>4)&0x1F]
	dst[2] = encoding[(id[1]>>1)&0x1F]
	dst[1] = encoding[(id[0]<<2|id[1]>>6)&0x1F]
	dst[0] = encoding[id[0]>>3]
}

// decode 将 20 个字符解码为 12 字节。
//
// 逐字符查表还原比特流，随后校验末位符号：由还原出的末字节重新推导
// 第 20 个符号并与输入比对，不一致则拒绝（见 [ErrChecksumMismatch]）。
func decode(id *[rawLen]byte, src []byte) error {
	if len(src) != encodedLen {
		return fmt.Errorf("%w: got %d characters, want %d", ErrInvalidLength, len(src), encodedLen)
	}
	for i, c := range src {
		if dec[c] == 0xFF {
			return fmt.Errorf("%w: %q at position %d", ErrInvalidCharacter, c, i)
		}
	}

	id[11] = dec[src[17]]<<6 | dec[src[18]]<<1 | dec[src[19]]>>4
	id[10] = dec[src[16]]<<3 | dec[src[17]]>>2
	id[9] = dec[src[14]]<<5 | dec[src[15]]
	id[8] = dec[src[12]]<<7 | dec[src[13]]<<2 | dec[src[14]]>>3
	id[7] = dec[src[11]]<<4 | dec[src[12]]>>1
	id[6] = dec[src[9]]<<6 | dec[src[10]]<<1 | dec[src[11]]>>4
	id[5] = dec[src[8]]<<3 | dec[src[9]]>>2
	id[4] = dec[src[6]]<<5 | dec[src[7]]
	id[3] = dec[src[4]]<<7 | dec[src[5]]<<2 | dec[src[6]]>>3
	id[2] = dec[src[3]]<<4 | dec[src[4]]>>1
	id[1] = dec[src[1]]<<6 | dec[src[2]]<<1 | dec[src[3]]>>4
	id[0] = dec[src[0]]<<3 | dec[src[1]]>>2

	// 末位符号一致性校验：末位符号只有最高比特位参与解码，
	// 其余 4 位非零的输入（字母表内的 30 个符号）无法往返还原，
	// 必须拒绝而不是静默规范化。
	if encoding[(id[11]<<4)&0x1F] != src[19] {
		return fmt.Errorf("%w: got %q, want %q", ErrChecksumMismatch, src[19], encoding[(id[11]<<4)&0x1F])
	}
	return nil
}
