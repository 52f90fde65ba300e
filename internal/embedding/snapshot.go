package embedding

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"time"
)

// ErrDimensionMismatch marks a cache artifact whose vector dimension no
// longer matches the active model. It is never tolerated silently: the
// store always regenerates on it.
var ErrDimensionMismatch = errors.New("embedding cache dimension mismatch")

// Snapshot is an immutable vector matrix for one entity type, aligned
// 1:1 with IDs: Matrix[i] is the L2-normalized vector of IDs[i]. A
// snapshot is valid only for the exact (model, dataset version) pair
// that produced it.
type Snapshot struct {
	EntityType     string      `json:"entity_type"`
	ModelID        string      `json:"model_id"`
	Fingerprint    string      `json:"fingerprint"`
	DatasetVersion string      `json:"dataset_version"`
	Dim            int         `json:"dim"`
	IDs            []string    `json:"ids"`
	Matrix         [][]float32 `json:"matrix"`
	CreatedAt      time.Time   `json:"created_at"`
}

// Row returns the vector for the i-th entity.
func (s *Snapshot) Row(i int) []float32 {
	return s.Matrix[i]
}

func (s *Snapshot) Len() int {
	return len(s.IDs)
}

// LoadSnapshot reads a persisted cache artifact. The on-disk format is
// plain JSON, so an artifact written on one machine loads on any other.
func LoadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read cache file: %w", err)
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("failed to decode cache file %s: %w", path, err)
	}

	if len(snap.IDs) != len(snap.Matrix) {
		return nil, fmt.Errorf("corrupt cache file %s: %d ids for %d rows", path, len(snap.IDs), len(snap.Matrix))
	}
	for _, row := range snap.Matrix {
		if len(row) != snap.Dim {
			return nil, fmt.Errorf("%w: row has dimension %d, header says %d", ErrDimensionMismatch, len(row), snap.Dim)
		}
	}

	return &snap, nil
}

// Save persists the snapshot atomically: the artifact is written to a
// temp file and renamed into place, so readers never observe a partial
// cache. Existing artifacts are never overwritten in place; a model or
// dataset change produces a new file name.
func (s *Snapshot) Save(path string) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to encode cache: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write cache file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to finalize cache file: %w", err)
	}

	return nil
}

// Normalize scales v to unit length in place and returns it. Zero
// vectors are returned unchanged.
func Normalize(v []float32) []float32 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	if sum == 0 {
		return v
	}
	norm := float32(math.Sqrt(sum))
	for i := range v {
		v[i] /= norm
	}
	return v
}
