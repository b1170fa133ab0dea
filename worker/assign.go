package worker

import (
	"encoding/binary"
	"errors"

	"github.com/narwhalchain/primary/types"
)

// ErrNoWorkers is returned by Assign when there are no workers to
// route to.
var ErrNoWorkers = errors.New("worker: no workers configured")

// MaxWorkers is the compile-time upper bound on shard count: a worker
// id must fit in a byte.
const MaxWorkers = 255

// Assign deterministically routes a TransmissionId to one of n worker
// shards: H(t) mod n, where H is the first 8 bytes of the id's digest
// interpreted as an unsigned little-endian integer. Assign only needs
// to be stable within a single validator process: different
// validators may run a different n, and that's fine since worker
// choice is a purely local concern.
func Assign(id types.TransmissionId, n int) (int, error) {
	if n <= 0 {
		return 0, ErrNoWorkers
	}
	h := binary.LittleEndian.Uint64(id.Digest[:8])
	return int(h % uint64(n)), nil
}
