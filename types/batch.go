package types

import (
	"encoding/binary"
	"sort"

	"github.com/narwhalchain/primary/crypto"
)

// Batch is an authored bundle of transmissions plus references to the
// certificates of the previous round. It is immutable once
// constructed: BatchId is a digest over the author, round, transmission
// ids, previous certificate ids, and timestamp (not over the
// transmission payloads or AuthorSignature), and NewBatch is the only
// constructor.
type Batch struct {
	BatchId                crypto.Digest
	Author                 crypto.Address
	Round                  uint64
	Transmissions          map[TransmissionId]Transmission
	PreviousCertificateIds []crypto.Digest
	Timestamp              int64
	AuthorSignature        crypto.Signature
}

// NewBatch builds and signs a Batch over (author, round, transmission
// ids, previousCertificateIds, timestamp). previousCertificateIds is copied
// and sorted so BatchId is independent of caller iteration order.
func NewBatch(
	author *crypto.Account,
	round uint64,
	transmissions map[TransmissionId]Transmission,
	previousCertificateIds []crypto.Digest,
	timestamp int64,
) (Batch, error) {
	parents := append([]crypto.Digest(nil), previousCertificateIds...)
	sort.Slice(parents, func(i, j int) bool {
		return lessDigest(parents[i], parents[j])
	})

	id := computeBatchId(author.Address(), round, transmissions, parents, timestamp)
	sig, err := author.Sign(id)
	if err != nil {
		return Batch{}, err
	}
	return Batch{
		BatchId:                id,
		Author:                 author.Address(),
		Round:                  round,
		Transmissions:          transmissions,
		PreviousCertificateIds: parents,
		Timestamp:              timestamp,
		AuthorSignature:        sig,
	}, nil
}

func lessDigest(a, b crypto.Digest) bool {
	for i := range a {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return false
}

// computeBatchId derives the batch's content digest. Transmission ids
// are sorted first so the digest does not depend on map iteration
// order, which Go deliberately randomizes on every run.
func computeBatchId(
	author crypto.Address,
	round uint64,
	transmissions map[TransmissionId]Transmission,
	parents []crypto.Digest,
	timestamp int64,
) crypto.Digest {
	ids := make([]TransmissionId, 0, len(transmissions))
	for id := range transmissions {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		if ids[i].Kind != ids[j].Kind {
			return ids[i].Kind < ids[j].Kind
		}
		return lessDigest(ids[i].Digest, ids[j].Digest)
	})

	var buf []byte
	buf = append(buf, author[:]...)
	buf = binary.LittleEndian.AppendUint64(buf, round)
	for _, id := range ids {
		buf = append(buf, byte(id.Kind))
		buf = append(buf, id.Digest[:]...)
	}
	for _, p := range parents {
		buf = append(buf, p[:]...)
	}
	buf = binary.LittleEndian.AppendUint64(buf, uint64(timestamp))
	return crypto.HashToDigest(buf)
}
