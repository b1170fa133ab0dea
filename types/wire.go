package types

import (
	"fmt"

	"github.com/narwhalchain/primary/crypto"
)

// The wire* types below are hand-written protobuf messages for Batch
// and Certificate: plain structs tagged with "protobuf" struct tags,
// satisfying the legacy proto.Message interface (Reset/String/
// ProtoMessage) that github.com/golang/protobuf's proto.Marshal and
// proto.Unmarshal accept without a .proto-generated descriptor, the
// same shape protoc-gen-go emitted before the API v2 rewrite. There is
// no wire/proto concept of a Go map, so the transmission set travels
// as a repeated wireTransmissionEntry instead.

type wireTransmissionEntry struct {
	Kind   uint32 `protobuf:"varint,1,opt,name=kind,proto3"`
	Digest []byte `protobuf:"bytes,2,opt,name=digest,proto3"`
	Data   []byte `protobuf:"bytes,3,opt,name=data,proto3"`
}

func (m *wireTransmissionEntry) Reset()         { *m = wireTransmissionEntry{} }
func (m *wireTransmissionEntry) String() string { return fmt.Sprintf("%+v", *m) }
func (m *wireTransmissionEntry) ProtoMessage()  {}

type wireBatch struct {
	BatchId                []byte                   `protobuf:"bytes,1,opt,name=batch_id,proto3"`
	Author                 []byte                   `protobuf:"bytes,2,opt,name=author,proto3"`
	Round                  uint64                   `protobuf:"varint,3,opt,name=round,proto3"`
	Transmissions          []*wireTransmissionEntry `protobuf:"bytes,4,rep,name=transmissions,proto3"`
	PreviousCertificateIds [][]byte                 `protobuf:"bytes,5,rep,name=previous_certificate_ids,proto3"`
	Timestamp              int64                    `protobuf:"varint,6,opt,name=timestamp,proto3"`
	AuthorSignature        []byte                   `protobuf:"bytes,7,opt,name=author_signature,proto3"`
}

func (m *wireBatch) Reset()         { *m = wireBatch{} }
func (m *wireBatch) String() string { return fmt.Sprintf("%+v", *m) }
func (m *wireBatch) ProtoMessage()  {}

type wireSignerSignature struct {
	Signer    []byte `protobuf:"bytes,1,opt,name=signer,proto3"`
	Signature []byte `protobuf:"bytes,2,opt,name=signature,proto3"`
}

func (m *wireSignerSignature) Reset()         { *m = wireSignerSignature{} }
func (m *wireSignerSignature) String() string { return fmt.Sprintf("%+v", *m) }
func (m *wireSignerSignature) ProtoMessage()  {}

type wireCertificate struct {
	Batch      *wireBatch             `protobuf:"bytes,1,opt,name=batch,proto3"`
	Signatures []*wireSignerSignature `protobuf:"bytes,2,rep,name=signatures,proto3"`
}

func (m *wireCertificate) Reset()         { *m = wireCertificate{} }
func (m *wireCertificate) String() string { return fmt.Sprintf("%+v", *m) }
func (m *wireCertificate) ProtoMessage()  {}

func toWireBatch(b Batch) *wireBatch {
	entries := make([]*wireTransmissionEntry, 0, len(b.Transmissions))
	for id, t := range b.Transmissions {
		entries = append(entries, &wireTransmissionEntry{
			Kind:   uint32(id.Kind),
			Digest: id.Digest.Bytes(),
			Data:   t.Data,
		})
	}
	parents := make([][]byte, len(b.PreviousCertificateIds))
	for i, p := range b.PreviousCertificateIds {
		parents[i] = p.Bytes()
	}
	return &wireBatch{
		BatchId:                b.BatchId.Bytes(),
		Author:                 b.Author[:],
		Round:                  b.Round,
		Transmissions:          entries,
		PreviousCertificateIds: parents,
		Timestamp:              b.Timestamp,
		AuthorSignature:        []byte(b.AuthorSignature),
	}
}

func fromWireBatch(w *wireBatch) (Batch, error) {
	batchID, err := digestFromBytes(w.BatchId)
	if err != nil {
		return Batch{}, fmt.Errorf("batch_id: %w", err)
	}
	author, err := addressFromBytes(w.Author)
	if err != nil {
		return Batch{}, fmt.Errorf("author: %w", err)
	}
	transmissions := make(map[TransmissionId]Transmission, len(w.Transmissions))
	for _, e := range w.Transmissions {
		digest, err := digestFromBytes(e.Digest)
		if err != nil {
			return Batch{}, fmt.Errorf("transmission digest: %w", err)
		}
		id := TransmissionId{Kind: TransmissionKind(e.Kind), Digest: digest}
		transmissions[id] = Transmission{Kind: id.Kind, Data: e.Data}
	}
	parents := make([]crypto.Digest, len(w.PreviousCertificateIds))
	for i, p := range w.PreviousCertificateIds {
		d, err := digestFromBytes(p)
		if err != nil {
			return Batch{}, fmt.Errorf("previous_certificate_id: %w", err)
		}
		parents[i] = d
	}
	return Batch{
		BatchId:                batchID,
		Author:                 author,
		Round:                  w.Round,
		Transmissions:          transmissions,
		PreviousCertificateIds: parents,
		Timestamp:              w.Timestamp,
		AuthorSignature:        crypto.Signature(w.AuthorSignature),
	}, nil
}

func toWireCertificate(c Certificate) *wireCertificate {
	sigs := make([]*wireSignerSignature, len(c.Signatures))
	for i, s := range c.Signatures {
		sigs[i] = &wireSignerSignature{
			Signer:    s.Signer[:],
			Signature: []byte(s.Signature),
		}
	}
	return &wireCertificate{
		Batch:      toWireBatch(c.Batch),
		Signatures: sigs,
	}
}

func fromWireCertificate(w *wireCertificate) (Certificate, error) {
	if w.Batch == nil {
		return Certificate{}, fmt.Errorf("certificate: missing batch")
	}
	batch, err := fromWireBatch(w.Batch)
	if err != nil {
		return Certificate{}, err
	}
	sigs := make([]SignerSignature, len(w.Signatures))
	for i, s := range w.Signatures {
		addr, err := addressFromBytes(s.Signer)
		if err != nil {
			return Certificate{}, fmt.Errorf("signer: %w", err)
		}
		sigs[i] = SignerSignature{Signer: addr, Signature: crypto.Signature(s.Signature)}
	}
	return Certificate{Batch: batch, Signatures: sigs}, nil
}

func digestFromBytes(b []byte) (crypto.Digest, error) {
	var d crypto.Digest
	if len(b) != len(d) {
		return d, fmt.Errorf("expected %d bytes, got %d", len(d), len(b))
	}
	copy(d[:], b)
	return d, nil
}

func addressFromBytes(b []byte) (crypto.Address, error) {
	var a crypto.Address
	if len(b) != len(a) {
		return a, fmt.Errorf("expected %d bytes, got %d", len(a), len(b))
	}
	copy(a[:], b)
	return a, nil
}
