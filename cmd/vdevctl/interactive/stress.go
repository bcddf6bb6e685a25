package interactive

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/vdevs/vdevs-go/pkg/registry"
	"github.com/vdevs/vdevs-go/pkg/vdev"
)

// stressChunk is the transfer size of one stress iteration.
const stressChunk = 16

// StressResult summarises a stress run.
type StressResult struct {
	Node       string
	Workers    int
	Iterations int
	Reads      int64
	Writes     int64
	Bytes      int64
	Elapsed    time.Duration
}

func (r StressResult) String() string {
	return fmt.Sprintf("%s: %d workers x %d iterations, %d reads, %d writes, %d bytes in %s",
		r.Node, r.Workers, r.Iterations, r.Reads, r.Writes, r.Bytes, r.Elapsed.Round(time.Microsecond))
}

// Stress opens one session per worker on device id and has each worker
// alternate writes and reads for the given number of iterations. The
// session mode follows the device permission.
func Stress(ctx context.Context, reg *registry.Registry, id, workers, iterations int) (StressResult, error) {
	inst, err := reg.Lookup(id)
	if err != nil {
		return StressResult{}, err
	}
	mode := modeFor(inst.Permission())
	capacity := int64(inst.Capacity())

	var reads, writes, transferred atomic.Int64
	start := time.Now()

	g, ctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		w := w
		pattern := bytes.Repeat([]byte{byte('a' + w%26)}, stressChunk)
		g.Go(func() error {
			s, err := reg.Open(id, mode)
			if err != nil {
				return err
			}
			defer s.Close()

			for i := 0; i < iterations; i++ {
				if err := ctx.Err(); err != nil {
					return err
				}
				off := (int64(w*iterations+i) * stressChunk) % capacity
				if _, err := s.Seek(off, io.SeekStart); err != nil {
					return err
				}
				if mode.CanWrite() {
					n, err := s.Write(pattern)
					if err != nil {
						return err
					}
					writes.Add(1)
					transferred.Add(int64(n))
				}
				if mode.CanRead() {
					if _, err := s.Seek(off, io.SeekStart); err != nil {
						return err
					}
					data, err := s.Read(stressChunk)
					if err != nil {
						return err
					}
					reads.Add(1)
					transferred.Add(int64(len(data)))
				}
			}
			return nil
		})
	}

	err = g.Wait()
	return StressResult{
		Node:       inst.Node(),
		Workers:    workers,
		Iterations: iterations,
		Reads:      reads.Load(),
		Writes:     writes.Load(),
		Bytes:      transferred.Load(),
		Elapsed:    time.Since(start),
	}, err
}

func modeFor(p vdev.Permission) vdev.AccessMode {
	switch p {
	case vdev.PermReadOnly:
		return vdev.ModeRead
	case vdev.PermWriteOnly:
		return vdev.ModeWrite
	default:
		return vdev.ModeReadWrite
	}
}
