package auth

import "crypto/cipher"

// cfb8 is cipher feedback mode with an 8 bit segment size. Every byte costs a
// full block encryption of the shift register.
type cfb8 struct {
	block   cipher.Block
	reg     []byte
	out     []byte
	decrypt bool
}

func newCFB8(block cipher.Block, iv []byte, decrypt bool) cipher.Stream {
	if len(iv) != block.BlockSize() {
		panic("cfb8: IV length must equal block size")
	}
	reg := make([]byte, len(iv))
	copy(reg, iv)
	return &cfb8{
		block:   block,
		reg:     reg,
		out:     make([]byte, block.BlockSize()),
		decrypt: decrypt,
	}
}

func NewCFB8Encrypter(block cipher.Block, iv []byte) cipher.Stream {
	return newCFB8(block, iv, false)
}

func NewCFB8Decrypter(block cipher.Block, iv []byte) cipher.Stream {
	return newCFB8(block, iv, true)
}

func (x *cfb8) XORKeyStream(dst, src []byte) {
	if len(dst) < len(src) {
		panic("cfb8: output smaller than input")
	}
	last := len(x.reg) - 1
	for i, b := range src {
		x.block.Encrypt(x.out, x.reg)
		c := b ^ x.out[0]
		dst[i] = c
		if x.decrypt {
			c = b
		}
		copy(x.reg, x.reg[1:])
		x.reg[last] = c
	}
}
