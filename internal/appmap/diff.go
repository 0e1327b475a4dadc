package appmap

// Change describes how a window's map moved between two generations.
type Change struct {
	Added   []string `yaml:"added,omitempty" json:"added,omitempty"`
	Removed []string `yaml:"removed,omitempty" json:"removed,omitempty"`
	Moved   []string `yaml:"moved,omitempty" json:"moved,omitempty"`
}

// Empty reports whether the two generations hold the same descriptors at
// the same addresses.
func (c Change) Empty() bool {
	return len(c.Added) == 0 && len(c.Removed) == 0 && len(c.Moved) == 0
}

// Compare matches descriptors by key. A key present in both generations
// whose parent or child index differs is reported as moved. Added and
// moved keys follow the walk order of curr, removed keys that of prev.
func Compare(prev, curr *Map) Change {
	var c Change
	if prev == nil && curr == nil {
		return c
	}
	if prev == nil {
		c.Added = curr.Keys()
		return c
	}
	if curr == nil {
		c.Removed = prev.Keys()
		return c
	}
	for _, k := range curr.order {
		old, ok := prev.entries[k]
		if !ok {
			c.Added = append(c.Added, k)
			continue
		}
		now := curr.entries[k]
		if old.Parent != now.Parent || old.ChildIndex != now.ChildIndex {
			c.Moved = append(c.Moved, k)
		}
	}
	for _, k := range prev.order {
		if _, ok := curr.entries[k]; !ok {
			c.Removed = append(c.Removed, k)
		}
	}
	return c
}
