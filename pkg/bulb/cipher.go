package bulb

// DefaultKey seeds the running key for every Encrypt or Decrypt call that
// does not supply its own.
const DefaultKey byte = 0xAB

// Encrypt obfuscates buf in place with the running-key XOR stream and returns
// it. Each output byte becomes the key for the next position.
func Encrypt(buf []byte, key byte) []byte {
	for i, b := range buf {
		c := b ^ key
		buf[i] = c
		key = c
	}
	return buf
}

// Decrypt reverses Encrypt in place and returns buf. The key for the next
// position is the ciphertext byte that was just consumed, not its plaintext.
func Decrypt(buf []byte, key byte) []byte {
	for i, c := range buf {
		buf[i] = c ^ key
		key = c
	}
	return buf
}
