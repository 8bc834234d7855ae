// Package db provides the offering version stores that resolve whether an
// offering already has a published version.
package db

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrVersionExists is returned when the same organization, name and version
// is recorded twice.
var ErrVersionExists = errors.New("offering version already recorded")

// OfferingVersion is a published offering version
type OfferingVersion struct {
	ID           uuid.UUID `json:"id"`
	Organization string    `json:"organization"`
	Name         string    `json:"name"`
	Version      string    `json:"version"`
	Hash         string    `json:"hash"`
	Open         bool      `json:"open"`
	RecordedAt   time.Time `json:"recorded_at"`
}

// NewOfferingVersion builds a version record for document.
func NewOfferingVersion(organization, name, version string, open bool, document []byte) OfferingVersion {
	return OfferingVersion{
		ID:           uuid.New(),
		Organization: organization,
		Name:         name,
		Version:      version,
		Hash:         HashDocument(document),
		Open:         open,
		RecordedAt:   time.Now().UTC(),
	}
}

// HashDocument returns the hex sha256 of an offering document.
func HashDocument(document []byte) string {
	h := sha256.Sum256(document)
	return hex.EncodeToString(h[:])
}

// VersionLookup resolves and records offering versions keyed on
// organization and name.
type VersionLookup interface {
	HasPriorVersion(ctx context.Context, organization, name string) (bool, error)
	RecordVersion(ctx context.Context, v OfferingVersion) error
}

// MemoryStore is a VersionLookup held in process memory.
type MemoryStore struct {
	mu       sync.RWMutex
	versions map[string][]OfferingVersion
}

// NewMemoryStore creates an empty in-memory version store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{versions: make(map[string][]OfferingVersion)}
}

func (s *MemoryStore) HasPriorVersion(ctx context.Context, organization, name string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.versions[key(organization, name)]) > 0, nil
}

func (s *MemoryStore) RecordVersion(ctx context.Context, v OfferingVersion) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	k := key(v.Organization, v.Name)

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.versions[k] {
		if existing.Version == v.Version {
			return ErrVersionExists
		}
	}
	s.versions[k] = append(s.versions[k], v)
	return nil
}

// Versions returns the recorded versions of an offering in insertion order.
func (s *MemoryStore) Versions(organization, name string) []OfferingVersion {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]OfferingVersion, len(s.versions[key(organization, name)]))
	copy(out, s.versions[key(organization, name)])
	return out
}

// NormalizeName is the form organization and offering names are keyed on.
func NormalizeName(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func key(organization, name string) string {
	return NormalizeName(organization) + "\x00" + NormalizeName(name)
}
