/*
SPDX-License-Identifier: Apache-2.0
*/

package registry

import (
	"fmt"
	"sync"
)

// Memory is an in-process AssetRegistry.
type Memory struct {
	mu     sync.RWMutex
	owners map[string]string
}

// NewMemory returns an empty registry.
func NewMemory() *Memory {
	return &Memory{owners: make(map[string]string)}
}

// Register mints assetID to owner.
func (m *Memory) Register(assetID, owner string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.owners[assetID]; exists {
		return fmt.Errorf("%w: %s", ErrAssetExists, assetID)
	}
	m.owners[assetID] = owner
	return nil
}

// OwnerOf implements AssetRegistry.
func (m *Memory) OwnerOf(assetID string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	owner, exists := m.owners[assetID]
	if !exists {
		return "", fmt.Errorf("%w: %s", ErrAssetNotFound, assetID)
	}
	return owner, nil
}

// Transfer implements AssetRegistry.
func (m *Memory) Transfer(from, to, assetID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	owner, exists := m.owners[assetID]
	if !exists {
		return fmt.Errorf("%w: %s", ErrAssetNotFound, assetID)
	}
	if owner != from {
		return fmt.Errorf("%w: %s", ErrNotAssetOwner, assetID)
	}
	m.owners[assetID] = to
	return nil
}
