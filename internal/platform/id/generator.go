package id

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"
)

// Generator creates opaque IDs for log and response correlation.
type Generator interface {
	NewID() (string, error)
}

// RandomGenerator builds IDs of the form <prefix><UTC timestamp>-<random hex>,
// so IDs of one prefix sort by creation time to the second.
type RandomGenerator struct {
	prefix string
	now    func() time.Time
}

func NewRandomGenerator(prefix string) *RandomGenerator {
	return &RandomGenerator{prefix: prefix, now: time.Now}
}

func (g *RandomGenerator) NewID() (string, error) {
	buf := make([]byte, 6)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}

	return g.prefix + g.now().UTC().Format("20060102T150405") + "-" + hex.EncodeToString(buf), nil
}
