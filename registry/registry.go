/*
SPDX-License-Identifier: Apache-2.0
*/

// Package registry is the auction house's view of an asset registry: the
// external collaborator that owns deeds, tokens and certificates, answers
// ownership queries and moves assets between identities.
package registry

import "errors"

var (
	// ErrAssetNotFound is returned when an asset was never registered.
	ErrAssetNotFound = errors.New("asset does not exist")
	// ErrNotAssetOwner is returned when a transfer names a sender that does not own the asset.
	ErrNotAssetOwner = errors.New("sender is not the owner of the asset")
	// ErrAssetExists is returned when registering an asset twice.
	ErrAssetExists = errors.New("asset already exists")
	// ErrReadOnly is returned when a transfer is sent to a registry that cannot commit it.
	ErrReadOnly = errors.New("registry is read-only from this channel")
)

// AssetRegistry is the subset of a registry the auction house relies on.
// Implementations either apply a transfer completely or leave ownership unchanged.
type AssetRegistry interface {
	// OwnerOf returns the current owner of assetID, or ErrAssetNotFound.
	OwnerOf(assetID string) (string, error)
	// Transfer moves assetID from one identity to another.
	Transfer(from, to, assetID string) error
}
