package store

import (
	"context"
	"encoding/hex"

	"choir-attendance/internal/scoring"

	"github.com/fxamacker/cbor/v2"
	"github.com/zeebo/blake3"
	"golang.org/x/sync/errgroup"
)

var encMode cbor.EncMode

func init() {
	var err error
	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("store: CBOR encoder initialization failed: " + err.Error())
	}
}

// LoadSnapshot reads members and events concurrently.
func (s *Store) LoadSnapshot(ctx context.Context) (scoring.Snapshot, error) {
	var snap scoring.Snapshot
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		ms, err := s.Members.List(gctx)
		snap.Members = ms
		return err
	})
	g.Go(func() error {
		es, err := s.Events.List(gctx)
		snap.Events = es
		return err
	})
	if err := g.Wait(); err != nil {
		return scoring.Snapshot{}, err
	}
	return snap, nil
}

// Version is the hex BLAKE3 digest of the snapshot's deterministic CBOR
// encoding. Equal snapshots share a version.
func Version(snap scoring.Snapshot) string {
	data, err := encMode.Marshal(snap)
	if err != nil {
		// Snapshots hold only plain structs; an encoding failure is a programming error.
		panic("store: snapshot encoding failed: " + err.Error())
	}
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:])
}
