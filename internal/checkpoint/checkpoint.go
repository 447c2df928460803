package checkpoint

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"reflect"
	"sort"
	"time"

	"github.com/fxamacker/cbor/v2"

	"github.com/born-ml/gradtape/internal/autodiff"
	"github.com/born-ml/gradtape/internal/differentiable"
)

var encMode = func() cbor.EncMode {
	opts := cbor.CoreDetEncOptions()
	opts.Time = cbor.TimeRFC3339Nano
	em, err := opts.EncMode()
	if err != nil {
		panic(err)
	}
	return em
}()

// Checkpoint is the decoded content of a checkpoint file.
type Checkpoint struct {
	Type      string
	CreatedAt time.Time
	Meta      Meta
	Leaves    map[string]float64
	Optimizer map[string][]float64
}

// Options controls Save.
type Options struct {
	Meta      Meta
	Optimizer map[string][]float64 // Optimizer buffers, e.g. optim.SGD.StateDict()
}

// Save writes value's differentiable leaves to w.
func Save[T any](w io.Writer, value T, opts Options) error {
	s, err := differentiable.For[T]()
	if err != nil {
		return err
	}
	v := reflect.ValueOf(&value).Elem()
	paths := s.Paths(v)
	leaves := make(map[string]float64, len(paths))
	for i, x := range s.Extract(v) {
		leaves[paths[i]] = x.Value()
	}

	data, err := encMode.Marshal(payload{
		Type:      s.Type().String(),
		CreatedAt: time.Now().UTC(),
		Meta:      opts.Meta,
		Leaves:    leaves,
		Optimizer: opts.Optimizer,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}
	if len(data) > MaxPayloadSize {
		return fmt.Errorf("%w: %d bytes", ErrPayloadTooLarge, len(data))
	}

	header := make([]byte, HeaderSize)
	copy(header, MagicBytes)
	binary.LittleEndian.PutUint32(header[4:], FormatVersion)
	binary.LittleEndian.PutUint64(header[8:], uint64(len(data)))
	sum := ComputeChecksum(data)
	copy(header[16:], sum[:])

	if _, err := w.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write payload: %w", err)
	}
	return nil
}

// Read decodes a checkpoint without applying it.
func Read(r io.Reader) (*Checkpoint, error) {
	header := make([]byte, HeaderSize)
	if _, err := io.ReadFull(r, header); err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	if string(header[:4]) != MagicBytes {
		return nil, fmt.Errorf("%w: %q", ErrInvalidMagic, header[:4])
	}
	if version := binary.LittleEndian.Uint32(header[4:]); version != FormatVersion {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, version)
	}
	size := binary.LittleEndian.Uint64(header[8:])
	if size > MaxPayloadSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrPayloadTooLarge, size)
	}
	var stored [32]byte
	copy(stored[:], header[16:])

	data := make([]byte, size)
	if _, err := io.ReadFull(r, data); err != nil {
		return nil, fmt.Errorf("failed to read payload: %w", err)
	}
	if err := ValidateChecksum(ComputeChecksum(data), stored); err != nil {
		return nil, err
	}

	var p payload
	if err := cbor.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to decode payload: %w", err)
	}
	return &Checkpoint{
		Type:      p.Type,
		CreatedAt: p.CreatedAt,
		Meta:      p.Meta,
		Leaves:    p.Leaves,
		Optimizer: p.Optimizer,
	}, nil
}

// Load reads a checkpoint from r into *dst. Every leaf of *dst must be
// present in the checkpoint and the checkpoint must hold no other leaves;
// slices in *dst must already have the saved length. Non-differentiable
// fields of *dst are kept.
func Load[T any](r io.Reader, dst *T) (*Checkpoint, error) {
	cp, err := Read(r)
	if err != nil {
		return nil, err
	}
	if err := Apply(cp, dst); err != nil {
		return nil, err
	}
	return cp, nil
}

// Apply writes the checkpoint's leaves into *dst.
func Apply[T any](cp *Checkpoint, dst *T) error {
	s, err := differentiable.For[T]()
	if err != nil {
		return err
	}
	if cp.Type != s.Type().String() {
		return fmt.Errorf("%w: file has %s, target is %s", ErrTypeMismatch, cp.Type, s.Type())
	}

	v := reflect.ValueOf(dst).Elem()
	paths := s.Paths(v)
	seen := make(map[string]bool, len(paths))
	for _, p := range paths {
		if _, ok := cp.Leaves[p]; !ok {
			return &ValidationError{Type: "missing_leaf", Leaf: p, Details: "not present in checkpoint"}
		}
		seen[p] = true
	}
	if len(seen) != len(cp.Leaves) {
		extra := make([]string, 0, len(cp.Leaves)-len(seen))
		for p := range cp.Leaves {
			if !seen[p] {
				extra = append(extra, p)
			}
		}
		sort.Strings(extra)
		return &ValidationError{Type: "unexpected_leaf", Leaf: extra[0],
			Details: fmt.Sprintf("%d leaves not present in target", len(extra))}
	}

	v.Set(s.Bind(v, func(i int, _ autodiff.Var) autodiff.Var {
		return autodiff.Const(cp.Leaves[paths[i]])
	}))
	return nil
}

// SaveFile writes a checkpoint to path.
func SaveFile[T any](path string, value T, opts Options) error {
	var buf bytes.Buffer
	if err := Save(&buf, value, opts); err != nil {
		return err
	}
	//nolint:gosec // G306: checkpoints are not secrets
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write checkpoint: %w", err)
	}
	return nil
}

// LoadFile reads a checkpoint from path into *dst.
func LoadFile[T any](path string, dst *T) (*Checkpoint, error) {
	//nolint:gosec // G304: file path comes from user input, which is expected for checkpoint loading
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open checkpoint: %w", err)
	}
	defer f.Close()
	return Load(f, dst)
}
