// Copyright 2026 The Easel Authors
// SPDX-License-Identifier: Apache-2.0

package session

import "github.com/zeebo/blake3"

// snapshotDomainKey is the 32-byte key for BLAKE3 keyed hashing of
// snapshot payloads. Domain separation keeps snapshot hashes from
// colliding with any future hash use over the same bytes. The byte
// values are the ASCII encoding of the domain name, zero-padded to 32
// bytes, which makes the key inspectable in hex dumps without
// sacrificing any cryptographic property.
var snapshotDomainKey = [32]byte{
	'e', 'a', 's', 'e', 'l', '.', 's', 'e', 's', 's', 'i', 'o', 'n', '.',
	's', 'n', 'a', 'p', 's', 'h', 'o', 't', 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
}

// snapshotHash computes the keyed BLAKE3 digest of an encoded payload.
// Hashes are always computed on the uncompressed CBOR bytes so dedup
// is independent of the compression policy.
func snapshotHash(data []byte) [32]byte {
	hasher, err := blake3.NewKeyed(snapshotDomainKey[:])
	if err != nil {
		// NewKeyed fails only for a wrong key length, which the
		// fixed-size array rules out.
		panic("session: BLAKE3 keyed hash initialization failed: " + err.Error())
	}
	hasher.Write(data)
	var hash [32]byte
	copy(hash[:], hasher.Sum(nil))
	return hash
}
