package utils

import (
	uuid "github.com/google/uuid"
)

// IDGenerator produces globally unique identifiers for generate requests.
type IDGenerator interface {
	Generate() string
}

type UUIDGenerator struct{}

// NewUUIDGenerator returns a generator of random (version 4) UUIDs.
func NewUUIDGenerator() UUIDGenerator {
	return UUIDGenerator{}
}

func (UUIDGenerator) Generate() string {
	return uuid.New().String()
}
