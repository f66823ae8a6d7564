package persistence

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/hupe1980/poseact/blobstore"
	"github.com/hupe1980/poseact/codec"
	"github.com/hupe1980/poseact/support"
)

var (
	// ErrNotFound is returned when no support set is saved under a name.
	ErrNotFound = errors.New("support set not found")

	// ErrInvalidName is returned for empty names or names containing "..".
	ErrInvalidName = errors.New("invalid support set name")
)

// Source provides the exemplars to save.
type Source interface {
	Exemplars() []support.Exemplar
}

// Target accepts a restored support set.
type Target interface {
	Restore(ctx context.Context, exs []support.Exemplar) error
}

// ManagerOptions configures the persistence manager.
type ManagerOptions struct {
	// Codec serializes snapshots. Loading uses the codec named in the header.
	Codec codec.Codec

	// Compression is applied to new snapshots.
	Compression Compression

	// Logger receives save and load events. Nil disables logging.
	Logger *slog.Logger

	// Now returns the snapshot timestamp. Defaults to time.Now.
	Now func() time.Time
}

// Manager saves and loads support sets in a blob store.
// The Manager is safe for concurrent use.
type Manager struct {
	store blobstore.BlobStore
	opts  ManagerOptions
}

// NewManager creates a new persistence manager on top of store.
func NewManager(store blobstore.BlobStore, optFns ...func(o *ManagerOptions)) *Manager {
	opts := ManagerOptions{
		Codec:       codec.Default,
		Compression: CompressionNone,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Codec == nil {
		opts.Codec = codec.Default
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Manager{store: store, opts: opts}
}

func blobName(name string) (string, error) {
	if name == "" || strings.Contains(name, "..") {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return name + Ext, nil
}

// Save writes the exemplars of src under name, replacing any previous set.
func (m *Manager) Save(ctx context.Context, name string, src Source) error {
	return m.Write(ctx, name, &Snapshot{
		CreatedAt: m.opts.Now().UTC(),
		Exemplars: src.Exemplars(),
	})
}

// Write stores snap under name.
func (m *Manager) Write(ctx context.Context, name string, snap *Snapshot) error {
	key, err := blobName(name)
	if err != nil {
		return err
	}

	data, err := Encode(snap, m.opts.Codec, m.opts.Compression)
	if err != nil {
		return fmt.Errorf("persistence: encode %q: %w", name, err)
	}

	if err := m.store.Put(ctx, key, data); err != nil {
		m.opts.Logger.ErrorContext(ctx, "support set save failed", "name", name, "error", err)
		return fmt.Errorf("persistence: save %q: %w", name, err)
	}

	m.opts.Logger.InfoContext(ctx, "support set saved",
		"name", name,
		"exemplars", len(snap.Exemplars),
		"bytes", len(data),
		"codec", m.opts.Codec.Name(),
		"compression", m.opts.Compression.String(),
	)
	return nil
}

// Read returns the snapshot saved under name.
func (m *Manager) Read(ctx context.Context, name string) (*Snapshot, error) {
	key, err := blobName(name)
	if err != nil {
		return nil, err
	}

	data, err := m.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, blobstore.ErrNotFound) {
			return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
		}
		return nil, fmt.Errorf("persistence: load %q: %w", name, err)
	}

	snap, _, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("persistence: decode %q: %w", name, err)
	}
	return snap, nil
}

// Load reads the support set saved under name and restores it into dst.
func (m *Manager) Load(ctx context.Context, name string, dst Target) (*Snapshot, error) {
	snap, err := m.Read(ctx, name)
	if err != nil {
		return nil, err
	}
	if err := dst.Restore(ctx, snap.Exemplars); err != nil {
		return nil, fmt.Errorf("persistence: restore %q: %w", name, err)
	}

	m.opts.Logger.InfoContext(ctx, "support set loaded",
		"name", name,
		"exemplars", len(snap.Exemplars),
		"created_at", snap.CreatedAt,
	)
	return snap, nil
}

// List returns the names of all saved support sets.
func (m *Manager) List(ctx context.Context) ([]string, error) {
	keys, err := m.store.List(ctx, "")
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(keys))
	for _, k := range keys {
		if name, ok := strings.CutSuffix(k, Ext); ok {
			names = append(names, name)
		}
	}
	return names, nil
}

// Delete removes the support set saved under name.
func (m *Manager) Delete(ctx context.Context, name string) error {
	key, err := blobName(name)
	if err != nil {
		return err
	}
	return m.store.Delete(ctx, key)
}
