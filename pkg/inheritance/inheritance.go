// Package inheritance resolves parent/child relationships across the class
// set discovered in one scan. Relationships are name references, never
// pointers: a parent may be defined outside the scanned set, duplicated,
// or form a cycle, and all three must degrade gracefully.
package inheritance

import "sort"

// Class is the minimal view of a discovered class the resolver needs.
type Class struct {
	Name   string
	Parent string
}

// Resolver computes inheritance depth and parent→children maps over one
// discovery pass. Build a fresh Resolver per pass; levels from a previous
// run are never reused.
type Resolver struct {
	parents map[string]string
}

// NewResolver indexes the class set by name. When a name appears more than
// once the first occurrence wins.
func NewResolver(classes []Class) *Resolver {
	parents := make(map[string]string, len(classes))
	for _, c := range classes {
		if c.Name == "" {
			continue
		}
		if _, dup := parents[c.Name]; dup {
			continue
		}
		parents[c.Name] = c.Parent
	}
	return &Resolver{parents: parents}
}

// Level returns the number of ancestors of name that are themselves present
// in the discovered set. An ancestor outside the set terminates the walk:
// its own depth is unknowable, so it counts as a level-0 root. Any cycle on
// the ancestor chain (including self-parenting) yields level 0 rather than
// recursing forever.
func (r *Resolver) Level(name string) int {
	level, cyclic := r.walk(name, make(map[string]bool))
	if cyclic {
		return 0
	}
	return level
}

func (r *Resolver) walk(name string, visited map[string]bool) (int, bool) {
	visited[name] = true

	parent, known := r.parents[name]
	if !known || parent == "" {
		return 0, false
	}
	if _, parentKnown := r.parents[parent]; !parentKnown {
		return 0, false
	}
	if visited[parent] {
		return 0, true
	}
	level, cyclic := r.walk(parent, visited)
	if cyclic {
		return 0, true
	}
	return level + 1, false
}

// Levels returns the inheritance level of every class in the set.
func (r *Resolver) Levels() map[string]int {
	levels := make(map[string]int, len(r.parents))
	for name := range r.parents {
		levels[name] = r.Level(name)
	}
	return levels
}

// Children builds the parent→children map in one linear pass. Only parents
// present in the discovered set appear as keys; child lists are sorted for
// deterministic reporting.
func (r *Resolver) Children() map[string][]string {
	children := make(map[string][]string)
	for name, parent := range r.parents {
		if parent == "" {
			continue
		}
		if _, known := r.parents[parent]; !known {
			continue
		}
		children[parent] = append(children[parent], name)
	}
	for _, kids := range children {
		sort.Strings(kids)
	}
	return children
}

// BaseClasses returns every class whose parent is absent or not itself
// present in the discovered set, sorted by name.
func (r *Resolver) BaseClasses() []string {
	var bases []string
	for name, parent := range r.parents {
		if parent == "" {
			bases = append(bases, name)
			continue
		}
		if _, known := r.parents[parent]; !known {
			bases = append(bases, name)
		}
	}
	sort.Strings(bases)
	return bases
}
