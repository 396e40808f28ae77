package doctree

// Group holds the entries of one package in source order.
type Group struct {
	Key       string
	Types     []Type
	Functions []Function
}

// Len returns the number of top-level entries in the group.
func (g *Group) Len() int {
	return len(g.Types) + len(g.Functions)
}

// Tree is a document partitioned by group key.
type Tree struct {
	Groups []*Group // First-seen order
	index  map[string]*Group
}

// GroupDocument partitions doc by package in a single pass. Types are visited
// before functions; within each group the source order is kept.
func GroupDocument(doc Document) *Tree {
	t := &Tree{index: make(map[string]*Group)}

	for _, typ := range doc.Types {
		if Excluded(typ.Package) {
			continue
		}
		g := t.bucket(GroupKey(typ.Package))
		g.Types = append(g.Types, typ)
	}

	for _, fn := range doc.Functions {
		if Excluded(fn.Package) {
			continue
		}
		g := t.bucket(GroupKey(fn.Package))
		g.Functions = append(g.Functions, fn)
	}

	return t
}

func (t *Tree) bucket(key string) *Group {
	if g, ok := t.index[key]; ok {
		return g
	}
	g := &Group{Key: key}
	t.index[key] = g
	t.Groups = append(t.Groups, g)
	return g
}

// Lookup returns the group for key.
func (t *Tree) Lookup(key string) (*Group, bool) {
	g, ok := t.index[key]
	return g, ok
}

// Keys returns the group keys in first-seen order.
func (t *Tree) Keys() []string {
	keys := make([]string, 0, len(t.Groups))
	for _, g := range t.Groups {
		keys = append(keys, g.Key)
	}
	return keys
}

// Len returns the number of entries across all groups.
func (t *Tree) Len() int {
	n := 0
	for _, g := range t.Groups {
		n += g.Len()
	}
	return n
}
