package service

import "github.com/google/uuid"

// UUIDGenerator defines the interface for generating unique identifiers
type UUIDGenerator interface {
	NewUUID() string
}

// DefaultUUIDGenerator generates random UUIDs
type DefaultUUIDGenerator struct{}

func (g *DefaultUUIDGenerator) NewUUID() string {
	return uuid.NewString()
}
