package agentdesk

import (
	"fmt"
	"math/rand"
	"sync/atomic"
)

// IDGenerator produces record identifiers. Implementations are injected
// through StoreOptions so tests can assert deterministic IDs.
type IDGenerator interface {
	NewID() string
}

const (
	idAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"
	idLength   = 9
)

// RandomIDGenerator produces short base-36 strings from a non-cryptographic
// source. Uniqueness is probabilistic only; collision odds are accepted as
// negligible for expected record counts.
type RandomIDGenerator struct{}

func NewRandomIDGenerator() *RandomIDGenerator {
	return &RandomIDGenerator{}
}

func (g *RandomIDGenerator) NewID() string {
	buf := make([]byte, idLength)
	for i := range buf {
		buf[i] = idAlphabet[rand.Intn(len(idAlphabet))]
	}
	return string(buf)
}

// SequenceIDGenerator yields "<prefix>-1", "<prefix>-2", ... and exists for
// deterministic tests.
type SequenceIDGenerator struct {
	prefix  string
	counter uint64
}

func NewSequenceIDGenerator(prefix string) *SequenceIDGenerator {
	if prefix == "" {
		prefix = "id"
	}
	return &SequenceIDGenerator{prefix: prefix}
}

func (g *SequenceIDGenerator) NewID() string {
	n := atomic.AddUint64(&g.counter, 1)
	return fmt.Sprintf("%s-%d", g.prefix, n)
}
