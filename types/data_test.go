package types

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDataRoundTripThroughWire(t *testing.T) {
	author := newTestAccount(t, 9)
	batch, err := NewBatch(author, 7, nil, nil, 42)
	require.NoError(t, err)

	wire, err := Encode(batch)
	require.NoError(t, err)

	got, err := FromBytes[Batch](wire).Get()
	require.NoError(t, err)
	require.Equal(t, batch.BatchId, got.BatchId)
	require.Equal(t, batch.Round, got.Round)
}

func TestDataFromValueSkipsDecoding(t *testing.T) {
	author := newTestAccount(t, 11)
	batch, err := NewBatch(author, 1, nil, nil, 1)
	require.NoError(t, err)

	d := FromValue(batch)
	got, err := d.Get()
	require.NoError(t, err)
	require.Equal(t, batch.BatchId, got.BatchId)
}

func TestDataGetIsIdempotent(t *testing.T) {
	author := newTestAccount(t, 12)
	batch, err := NewBatch(author, 1, nil, nil, 1)
	require.NoError(t, err)

	wire, err := Encode(batch)
	require.NoError(t, err)

	d := FromBytes[Batch](wire)
	first, err := d.Get()
	require.NoError(t, err)
	second, err := d.Get()
	require.NoError(t, err)
	require.Equal(t, first.BatchId, second.BatchId)
}

func TestDataGetSurfacesCorruptWire(t *testing.T) {
	d := FromBytes[Batch]([]byte("not a valid snappy/protobuf frame"))
	_, err := d.Get()
	require.Error(t, err)
}
