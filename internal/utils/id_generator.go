package utils

import (
	"strconv"
	"sync/atomic"

	"github.com/google/uuid"
)

// IdGenerator produces identifiers for new entities. Implementations must never
// return the same value twice.
type IdGenerator interface {
	NewId() string
}

type UuidGenerator struct{}

func (UuidGenerator) NewId() string {
	return uuid.NewString()
}

// SequenceGenerator returns Prefix followed by a monotonically increasing counter.
// Deterministic, meant for tests and demo data.
type SequenceGenerator struct {
	Prefix string
	last   atomic.Int64
}

func NewSequenceGenerator(prefix string) *SequenceGenerator {
	return &SequenceGenerator{Prefix: prefix}
}

func (s *SequenceGenerator) NewId() string {
	return s.Prefix + strconv.FormatInt(s.last.Add(1), 10)
}
