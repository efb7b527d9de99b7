package inspect

import (
	"bytes"
	"encoding/csv"
	"strconv"
)

// EntriesCSV renders the tree below entry as one row per node with a dotted path.
// Anonymous nodes are addressed by their position, e.g. "[0]".
func EntriesCSV(entry Entry, withHeader bool) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)

	if withHeader {
		_ = w.Write([]string{"path", "kind", "value", "target"})
	}

	var walk func(prefix string, e Entry)
	walk = func(prefix string, e Entry) {
		for i, child := range e.Children {
			segment := child.Name
			if segment == "" {
				segment = "[" + strconv.Itoa(i) + "]"
			}

			path := segment
			if prefix != "" {
				path = prefix + "." + segment
			}

			_ = w.Write([]string{path, child.Kind, child.Value, child.Target})

			walk(path, child)
		}
	}

	walk("", entry)

	w.Flush()

	return buf.Bytes(), w.Error()
}
