// Package filerepo reads roster dumps written by the game bridge. A dump is a
// JSON document with the same shape as the snapshot ingest payload.
package filerepo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"petlens/internal/app/ports"
	"petlens/internal/domain/garden"
	"petlens/internal/domain/pet"
)

type Dump struct {
	Pets  []pet.Snapshot `json:"pets"`
	Crops []garden.Crop  `json:"crops"`
}

var (
	_ ports.PetSnapshotSource = Source{}
	_ ports.GardenSource      = Source{}
)

// Source serves one dump file under Root. The file is re-read on every call so
// a bridge can overwrite it between refreshes.
type Source struct {
	Root string
	Name string
}

var ErrInvalidDumpPath = errors.New("invalid dump filepath")

func (s Source) Load(_ context.Context) (Dump, error) {
	path, err := secureJoin(s.Root, s.Name)
	if err != nil {
		return Dump{}, err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return Dump{}, fmt.Errorf("read dump: %w", err)
	}
	var d Dump
	if err := json.Unmarshal(b, &d); err != nil {
		return Dump{}, fmt.Errorf("decode dump %s: %w", s.Name, err)
	}
	return d, nil
}

func (s Source) ListActive(ctx context.Context) ([]pet.Snapshot, error) {
	d, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	if d.Pets == nil {
		return []pet.Snapshot{}, nil
	}
	return d.Pets, nil
}

func (s Source) GetByID(ctx context.Context, petID string) (pet.Snapshot, error) {
	d, err := s.Load(ctx)
	if err != nil {
		return pet.Snapshot{}, err
	}
	for _, p := range d.Pets {
		if p.ID == petID {
			return p, nil
		}
	}
	return pet.Snapshot{}, ports.ErrNotFound
}

func (s Source) ListCrops(ctx context.Context) ([]garden.Crop, error) {
	d, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	return d.Crops, nil
}

func secureJoin(root, rel string) (string, error) {
	rel = strings.TrimSpace(rel)
	if rel == "" {
		return "", ErrInvalidDumpPath
	}
	if filepath.IsAbs(rel) {
		return "", ErrInvalidDumpPath
	}
	rootAbs, err := filepath.Abs(root)
	if err != nil {
		return "", err
	}
	target := filepath.Clean(filepath.Join(rootAbs, rel))
	prefix := rootAbs + string(filepath.Separator)
	if target != rootAbs && !strings.HasPrefix(target, prefix) {
		return "", ErrInvalidDumpPath
	}
	return target, nil
}

// FromPath splits a user-supplied path into a Source rooted at its directory.
func FromPath(path string) Source {
	return Source{Root: filepath.Dir(path), Name: filepath.Base(path)}
}
