package types

import "github.com/narwhalchain/primary/crypto"

// Certificate is the portion of a sealed batch published to peers: the
// batch plus the quorum of signatures that sealed it.
type Certificate struct {
	Batch      Batch
	Signatures []SignerSignature
}

// SignerSignature pairs a committee address with its signature over a
// batch id, the shape carried by BatchSignature events and stored in
// the ProposalCell.
type SignerSignature struct {
	Signer    crypto.Address
	Signature crypto.Signature
}

// SealedBatch wraps a Certificate for local storage.
type SealedBatch struct {
	Certificate Certificate
}

// Seal combines a batch with its collected signatures into a
// Certificate and wraps it as a SealedBatch for local storage. It does
// not itself check quorum (that is the sealer's job), but by
// construction the certificate's batch id can never diverge from the
// sealed batch's.
func Seal(batch Batch, signatures []SignerSignature) SealedBatch {
	sigs := append([]SignerSignature(nil), signatures...)
	return SealedBatch{
		Certificate: Certificate{
			Batch:      batch,
			Signatures: sigs,
		},
	}
}

// BatchId returns the batch id of the certificate backing this sealed
// batch, kept equal to the proposed batch's id by construction.
func (s SealedBatch) BatchId() crypto.Digest { return s.Certificate.Batch.BatchId }
