package worker

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/narwhalchain/primary/crypto"
	"github.com/narwhalchain/primary/types"
)

func newUnconfirmed(payload string) (types.TransmissionId, types.Transmission) {
	id := types.NewTransactionId(crypto.HashToDigest([]byte(payload)))
	return id, types.Transmission{Kind: types.KindTransaction, Data: []byte(payload)}
}

func TestWorkerProcessAndDrain(t *testing.T) {
	w, err := New(0, nil)
	require.NoError(t, err)

	id1, tx1 := newUnconfirmed("tx1")
	id2, tx2 := newUnconfirmed("tx2")

	require.NoError(t, w.ProcessUnconfirmedTransaction(id1, tx1))
	require.NoError(t, w.ProcessUnconfirmedTransaction(id2, tx2))

	drained := w.Drain()
	require.Len(t, drained, 2)
	require.Equal(t, tx1, drained[id1])
	require.Equal(t, tx2, drained[id2])

	require.Empty(t, w.Drain())
}

func TestWorkerRejectsEmptyPayload(t *testing.T) {
	w, err := New(0, nil)
	require.NoError(t, err)

	id, _ := newUnconfirmed("x")
	err = w.ProcessUnconfirmedTransaction(id, types.Transmission{Kind: types.KindTransaction})
	require.ErrorIs(t, err, errEmptyTransmission)
}

func TestWorkerDrainAfterConcurrentInserts(t *testing.T) {
	w, err := New(0, nil)
	require.NoError(t, err)

	const n = 200
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		i := i
		go func() {
			defer wg.Done()
			id, tx := newUnconfirmed(string(rune('a' + i%26)))
			_ = w.ProcessUnconfirmedTransaction(id, tx)
		}()
	}
	wg.Wait()

	drained := w.Drain()
	require.LessOrEqual(t, len(drained), n)
	require.Empty(t, w.Drain())
}

func TestWorkerShutDownIsIdempotentAndUnblocksRun(t *testing.T) {
	w, err := New(0, nil)
	require.NoError(t, err)

	done := make(chan struct{})
	go func() {
		w.Run(context.Background())
		close(done)
	}()

	w.ShutDown()
	w.ShutDown()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after ShutDown")
	}
}
