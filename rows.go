package flatjson

import "strconv"

// JsonArrayEntries is a view over one row of a flattened top-level array: the
// row's entries plus its array index. Rows can be filtered and inspected
// without re-parsing.
type JsonArrayEntries struct {
	entries FlatJsonValue
	index   int
}

// NewJsonArrayEntries builds a row view from entries belonging to the row at
// the given array index.
func NewJsonArrayEntries(entries FlatJsonValue, index int) JsonArrayEntries {
	return JsonArrayEntries{entries: entries, index: index}
}

// Entries returns the row's flattened entries.
func (j JsonArrayEntries) Entries() FlatJsonValue {
	return j.entries
}

// Index returns the row's position in the top-level array.
func (j JsonArrayEntries) Index() int {
	return j.index
}

// FindNodeAt returns the row entry with exactly this pointer.
func (j JsonArrayEntries) FindNodeAt(pointer string) (Entry, bool) {
	return j.entries.FindNodeAt(pointer)
}

// ArrayRows slices a flattened top-level array into one JsonArrayEntries per
// element, in array order. Rows are views sharing the result's backing slice.
// Returns nil when the result is not a flattened top-level array.
func ArrayRows(result *ParseResult) []JsonArrayEntries {
	var rows []JsonArrayEntries
	cur := -1
	start := 0
	for i, e := range result.JSON {
		idx, ok := leadingIndex(e.Key.Pointer)
		if !ok {
			return nil
		}
		if idx != cur {
			if cur >= 0 {
				rows = append(rows, JsonArrayEntries{entries: result.JSON[start:i], index: cur})
			}
			cur = idx
			start = i
		}
	}
	if cur >= 0 {
		rows = append(rows, JsonArrayEntries{entries: result.JSON[start:], index: cur})
	}
	return rows
}

// leadingIndex parses the first pointer segment as an array index.
func leadingIndex(pointer string) (int, bool) {
	if len(pointer) < 2 || pointer[0] != '/' {
		return 0, false
	}
	n := 0
	i := 1
	for ; i < len(pointer) && pointer[i] != '/'; i++ {
		c := pointer[i]
		if c < '0' || c > '9' {
			return 0, false
		}
		n = n*10 + int(c-'0')
	}
	if i == 1 {
		return 0, false
	}
	return n, true
}

// FilterNonNullColumn keeps only rows where every listed column pointer is
// present and non-null. For each row and column suffix, the pointer
// prefix + "/" + row index + column is looked up in the row; absence and an
// explicit null are treated identically and drop the row. This is a linear
// convenience scan, not a query engine, and it never errors.
func FilterNonNullColumn(rows []JsonArrayEntries, prefix string, nonNullColumns []string) []JsonArrayEntries {
	res := make([]JsonArrayEntries, 0, len(rows))
	for _, row := range rows {
		keep := true
		for _, col := range nonNullColumns {
			target := prefix + "/" + strconv.Itoa(row.index) + col
			e, ok := row.FindNodeAt(target)
			if !ok || e.Value == nil {
				keep = false
				break
			}
		}
		if keep {
			res = append(res, row)
		}
	}
	return res
}
