// Package prescription maps prescription ids to the image files they were scanned into.
package prescription

import (
	"context"
	"errors"
	"fmt"
)

// ErrNotFound is returned when no image is registered for an id.
var ErrNotFound = errors.New("prescription image not found")

// ImageResolver looks up the image path of a prescription.
type ImageResolver interface {
	Resolve(ctx context.Context, id int) (string, error)
}

// StaticResolver serves lookups from a fixed table.
type StaticResolver struct {
	paths map[int]string
}

// NewStaticResolver copies paths so later changes to the map do not leak in.
func NewStaticResolver(paths map[int]string) *StaticResolver {
	copied := make(map[int]string, len(paths))
	for id, path := range paths {
		copied[id] = path
	}
	return &StaticResolver{paths: copied}
}

func (r *StaticResolver) Resolve(_ context.Context, id int) (string, error) {
	path, ok := r.paths[id]
	if !ok || path == "" {
		return "", fmt.Errorf("%w: id %d", ErrNotFound, id)
	}
	return path, nil
}

var _ ImageResolver = (*StaticResolver)(nil)
