package frontmatter

// Field is one key/value pair of a front-matter block.
type Field struct {
	Key   string
	Value any
}

// Fields is an insertion-ordered front-matter mapping.  Setting an existing key replaces its
// value in place, keeping the original position.
type Fields struct {
	list  []Field
	index map[string]int
}

// NewFields returns an empty ordered mapping.
func NewFields() *Fields {
	return &Fields{index: map[string]int{}}
}

// Set inserts or replaces key.
func (f *Fields) Set(key string, value any) {
	if i, ok := f.index[key]; ok {
		f.list[i].Value = value
		return
	}
	f.index[key] = len(f.list)
	f.list = append(f.list, Field{Key: key, Value: value})
}

// Has reports whether key was set.
func (f *Fields) Has(key string) bool {
	_, ok := f.index[key]
	return ok
}

// Get returns the value for key.
func (f *Fields) Get(key string) (any, bool) {
	i, ok := f.index[key]
	if !ok {
		return nil, false
	}
	return f.list[i].Value, true
}

// Len is the number of keys.
func (f *Fields) Len() int {
	return len(f.list)
}

// Keys returns the keys in insertion order.
func (f *Fields) Keys() []string {
	keys := make([]string, 0, len(f.list))
	for _, field := range f.list {
		keys = append(keys, field.Key)
	}
	return keys
}

// All returns a copy of the ordered pairs.
func (f *Fields) All() []Field {
	out := make([]Field, len(f.list))
	copy(out, f.list)
	return out
}

// Without returns a copy minus the given keys.
func (f *Fields) Without(keys ...string) *Fields {
	skip := make(map[string]bool, len(keys))
	for _, k := range keys {
		skip[k] = true
	}
	out := NewFields()
	for _, field := range f.list {
		if skip[field.Key] {
			continue
		}
		out.Set(field.Key, field.Value)
	}
	return out
}
