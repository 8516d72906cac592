package kind

import "fmt"

// GridBuilder accumulates grid structure incrementally. The zero value is
// ready to use; errors are deferred to ToGrid so call sites can chain adds.
type GridBuilder struct {
	meta Dict
	cols []Col
	rows []Dict
	err  error
}

// SetMeta replaces the grid-level metadata.
func (b *GridBuilder) SetMeta(meta Dict) *GridBuilder {
	b.meta = meta
	return b
}

// AddCol appends a column with metadata.
func (b *GridBuilder) AddCol(name string, meta Dict) *GridBuilder {
	if b.err == nil && !IsTagName(name) {
		b.err = fmt.Errorf("%w: column name %q", ErrGrid, name)
	}
	if b.err == nil {
		for _, c := range b.cols {
			if c.Name == name {
				b.err = fmt.Errorf("%w: duplicate column %q", ErrGrid, name)
				break
			}
		}
	}
	b.cols = append(b.cols, Col{Name: name, Meta: meta})
	return b
}

// AddColNames appends columns with no metadata.
func (b *GridBuilder) AddColNames(names ...string) *GridBuilder {
	for _, name := range names {
		b.AddCol(name, nil)
	}
	return b
}

// SetColMeta replaces the metadata of an existing column.
func (b *GridBuilder) SetColMeta(name string, meta Dict) *GridBuilder {
	for i := range b.cols {
		if b.cols[i].Name == name {
			b.cols[i].Meta = meta
			return b
		}
	}
	if b.err == nil {
		b.err = fmt.Errorf("%w: no column %q", ErrGrid, name)
	}
	return b
}

// AddRow appends a row.
func (b *GridBuilder) AddRow(row Dict) *GridBuilder {
	b.rows = append(b.rows, row)
	return b
}

// NumCols returns the number of columns added so far.
func (b *GridBuilder) NumCols() int { return len(b.cols) }

// ColNames returns the column names in order.
func (b *GridBuilder) ColNames() []string {
	names := make([]string, len(b.cols))
	for i, c := range b.cols {
		names[i] = c.Name
	}
	return names
}

// ToGrid finalizes the builder, reporting the first accumulated error.
func (b *GridBuilder) ToGrid() (*Grid, error) {
	if b.err != nil {
		return nil, b.err
	}
	meta := b.meta
	if meta == nil {
		meta = Dict{"ver": Str("3.0")}
	}
	return NewGrid(meta, b.cols, b.rows)
}
