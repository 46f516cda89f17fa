package fair

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"strconv"
)

// KeySize is the secret key length in bytes.
const KeySize = 32

// Generator owns one round of the commit-reveal protocol: a fresh secret key
// and at most one value drawn in [0, max). The commitment binds the house to
// the value before the counterparty acts; revealing the key afterwards lets
// the counterparty recompute the MAC and confirm nothing changed.
//
// Sequencing is the caller's responsibility: Key must not be surfaced to the
// counterparty until the commitment has been observed and their input locked
// in. A generator is single-use; abandoning it discards the key for good.
type Generator struct {
	key       [KeySize]byte
	max       int
	value     int
	generated bool
	rand      io.Reader
}

// NewGenerator allocates a generator for values in [0, max) with a key drawn
// from crypto/rand.
func NewGenerator(max int) (*Generator, error) {
	return NewGeneratorWithRand(max, rand.Reader)
}

// NewGeneratorWithRand is NewGenerator with an explicit entropy source,
// for deterministic tests.
func NewGeneratorWithRand(max int, r io.Reader) (*Generator, error) {
	if max <= 0 {
		return nil, ErrInvalidRange
	}

	g := &Generator{max: max, rand: r}
	if _, err := io.ReadFull(r, g.key[:]); err != nil {
		return nil, fmt.Errorf("fair: generate key: %w", err)
	}
	return g, nil
}

// Generate draws the round's value and returns it together with its
// commitment, the hex HMAC-SHA256 of the value's decimal form under the
// secret key. Calling Generate twice fails with ErrAlreadyGenerated: a key
// must never authenticate more than one value.
func (g *Generator) Generate() (int, string, error) {
	if g.generated {
		return 0, "", ErrAlreadyGenerated
	}

	v, err := Sample(g.rand, g.max)
	if err != nil {
		return 0, "", err
	}

	g.value = v
	g.generated = true
	return v, commitment(g.key[:], v), nil
}

// Key reveals the secret key as hex. The key exists from construction, so
// calling Key before Generate is allowed, but revealing it before the
// counterparty has seen the commitment voids the fairness guarantee.
func (g *Generator) Key() string {
	return hex.EncodeToString(g.key[:])
}

// Verify checks a revealed round from the counterparty's side: it recomputes
// the MAC of value under the revealed key and compares it to the published
// commitment in constant time. False means the house tampered with the value
// after committing, or the reveal is garbage.
func Verify(commitment, keyHex string, value int) bool {
	key, err := hex.DecodeString(keyHex)
	if err != nil {
		return false
	}

	want, err := hex.DecodeString(commitment)
	if err != nil {
		return false
	}

	mac := hmac.New(sha256.New, key)
	mac.Write([]byte(strconv.Itoa(value)))
	return hmac.Equal(mac.Sum(nil), want)
}

func commitment(key []byte, value int) string {
	mac := hmac.New(sha256.New, key)
	mac.Write([]byte(strconv.Itoa(value)))
	return hex.EncodeToString(mac.Sum(nil))
}
