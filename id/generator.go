// Package id mints the opaque handles that identify callable entities.
package id

import (
	"strconv"
	"sync/atomic"
)

// Generator generates unique identity handles.
type Generator interface {
	Generate() string
}

// NewGenerator returns the generator that mints function identities. Handles
// are unique within one process and carry no meaning beyond equality.
func NewGenerator() Generator {
	return &sequentialGenerator{}
}

type sequentialGenerator struct {
	nextID uint64
}

func (g *sequentialGenerator) Generate() string {
	idNumber := atomic.AddUint64(&g.nextID, 1)

	return strconv.FormatUint(idNumber, 10)
}
