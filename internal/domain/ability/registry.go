package ability

import (
	"fmt"
	"slices"
	"sort"

	"github.com/agnivade/levenshtein"
)

// Registry is a read-only ability table keyed by normalized id, name and alias.
// It is safe for concurrent use once built.
type Registry struct {
	defs  []Definition
	byKey map[string]int
}

// Define builds a registry from a fixed list of entries.
func Define(entries []Definition) (*Registry, error) {
	r := &Registry{
		defs:  make([]Definition, 0, len(entries)),
		byKey: make(map[string]int, len(entries)*3),
	}
	for _, def := range entries {
		if err := def.validate(); err != nil {
			return nil, err
		}
		idx := len(r.defs)
		for _, key := range def.keys() {
			if prev, ok := r.byKey[key]; ok && prev != idx {
				return nil, fmt.Errorf("ability %s: key %q already used by %s", def.ID, key, r.defs[prev].ID)
			}
			r.byKey[key] = idx
		}
		def.Aliases = slices.Clip(append([]string(nil), def.Aliases...))
		r.defs = append(r.defs, def)
	}
	return r, nil
}

func (d Definition) keys() []string {
	out := make([]string, 0, len(d.Aliases)+2)
	for _, raw := range append([]string{d.ID, d.Name}, d.Aliases...) {
		if k := normalize(raw); k != "" {
			out = append(out, k)
		}
	}
	return out
}

// Resolve finds a definition by id, display name or alias, ignoring case and
// surrounding whitespace. The bool is false for unknown identifiers.
func (r *Registry) Resolve(raw string) (Definition, bool) {
	if r == nil {
		return Definition{}, false
	}
	idx, ok := r.byKey[normalize(raw)]
	if !ok {
		return Definition{}, false
	}
	return r.defs[idx], true
}

// Suggest returns up to max ability ids whose keys are closest to raw by edit
// distance. Used to annotate unknown identifiers; never affects Resolve.
func (r *Registry) Suggest(raw string, max int) []string {
	if r == nil || max <= 0 {
		return nil
	}
	in := normalize(raw)
	if in == "" {
		return nil
	}
	limit := len(in) / 3
	if limit < 2 {
		limit = 2
	}

	best := map[int]int{}
	for key, idx := range r.byKey {
		d := levenshtein.ComputeDistance(in, key)
		if d > limit {
			continue
		}
		if prev, ok := best[idx]; !ok || d < prev {
			best[idx] = d
		}
	}

	type scored struct {
		id   string
		dist int
	}
	cands := make([]scored, 0, len(best))
	for idx, d := range best {
		cands = append(cands, scored{id: r.defs[idx].ID, dist: d})
	}
	sort.Slice(cands, func(i, j int) bool {
		if cands[i].dist != cands[j].dist {
			return cands[i].dist < cands[j].dist
		}
		return cands[i].id < cands[j].id
	})
	if len(cands) > max {
		cands = cands[:max]
	}
	out := make([]string, len(cands))
	for i, c := range cands {
		out[i] = c.id
	}
	return out
}

// All returns the definitions in registration order.
func (r *Registry) All() []Definition {
	if r == nil {
		return nil
	}
	out := make([]Definition, len(r.defs))
	copy(out, r.defs)
	return out
}

func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.defs)
}
