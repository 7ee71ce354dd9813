package bulb

import (
	"bytes"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEncryptKnownPrefix(t *testing.T) {
	out := Encrypt([]byte(`{"system":{"get_sysinfo":{}}}`), DefaultKey)
	assert.Equal(t, []byte{0xd0, 0xf2, 0x81, 0xf8}, out[:4])
}

func TestEncryptTwoBytes(t *testing.T) {
	// '{' ^ 0xab = 0xd0, then '}' ^ 0xd0 = 0xad
	assert.Equal(t, []byte{0xd0, 0xad}, Encrypt([]byte("{}"), DefaultKey))
	assert.Equal(t, []byte("{}"), Decrypt([]byte{0xd0, 0xad}, DefaultKey))
}

func TestCipherEmptyAndSingleByte(t *testing.T) {
	assert.Empty(t, Encrypt([]byte{}, DefaultKey))
	assert.Empty(t, Decrypt(nil, DefaultKey))

	assert.Equal(t, []byte{0x01 ^ 0xab}, Encrypt([]byte{0x01}, DefaultKey))
	assert.Equal(t, []byte{0x01}, Decrypt([]byte{0x01 ^ 0xab}, DefaultKey))
}

func TestCipherRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	for key := 0; key < 256; key++ {
		for _, n := range []int{0, 1, 2, 17, 512} {
			orig := make([]byte, n)
			for i := range orig {
				orig[i] = byte(rng.IntN(256))
			}
			buf := append([]byte(nil), orig...)
			got := Decrypt(Encrypt(buf, byte(key)), byte(key))
			if !bytes.Equal(orig, got) {
				t.Fatalf("round trip failed for key %#x length %d", key, n)
			}
		}
	}
}

func TestEncryptDeterministic(t *testing.T) {
	a := Encrypt([]byte("transition_light_state"), 0x42)
	b := Encrypt([]byte("transition_light_state"), 0x42)
	assert.Equal(t, a, b)

	c := Encrypt([]byte("transition_light_state"), 0x43)
	assert.NotEqual(t, a, c)
}

func TestCipherWorksInPlace(t *testing.T) {
	buf := []byte("abc")
	out := Encrypt(buf, DefaultKey)
	assert.Same(t, &buf[0], &out[0])
}

func TestClientCipherUsesDefaultKey(t *testing.T) {
	c := NewClient(Endpoint{IP: "127.0.0.1"}, discardLogger())
	assert.Equal(t, Encrypt([]byte("hello"), DefaultKey), c.Encrypt([]byte("hello")))
	assert.Equal(t, []byte("hello"), c.Decrypt(c.Encrypt([]byte("hello"))))
}
