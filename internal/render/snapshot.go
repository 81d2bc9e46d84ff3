package render

import (
	"bytes"
	"fmt"

	"github.com/roach88/relalg/internal/table"
	"github.com/roach88/relalg/internal/value"
)

// Snapshot returns a canonical JSON document describing t:
//
//	{
//	  "attributes": ["title","year"],
//	  "domains": ["Text","Integer"],
//	  "key": ["title","year"],
//	  "name": "Movie0",
//	  "tuples": [
//	    ["Star_Wars",1977]
//	  ]
//	}
//
// Keys are sorted, strings are NFC normalized and HTML characters are not
// escaped, so equal tables always produce identical bytes. Tuples appear
// in store order, one per line.
func Snapshot(t *table.Table) ([]byte, error) {
	domains := t.Domains()
	domainNames := make([]string, len(domains))
	for i, d := range domains {
		domainNames[i] = d.String()
	}

	var buf bytes.Buffer
	buf.WriteString("{\n")
	for _, f := range []struct {
		key   string
		names []string
	}{
		{"attributes", t.Attributes()},
		{"domains", domainNames},
		{"key", t.Key()},
	} {
		buf.WriteString(`  "` + f.key + `": `)
		if err := writeNames(&buf, f.names); err != nil {
			return nil, err
		}
		buf.WriteString(",\n")
	}

	name, err := value.MarshalValue(value.Text(t.Name()))
	if err != nil {
		return nil, fmt.Errorf("snapshot %s: %w", t.Name(), err)
	}
	buf.WriteString(`  "name": `)
	buf.Write(name)
	buf.WriteString(",\n")

	tuples := t.Tuples()
	if len(tuples) == 0 {
		buf.WriteString("  \"tuples\": []\n}\n")
		return buf.Bytes(), nil
	}
	buf.WriteString("  \"tuples\": [\n")
	for i, tup := range tuples {
		data, err := value.MarshalTuple(tup)
		if err != nil {
			return nil, fmt.Errorf("snapshot %s: tuple %d: %w", t.Name(), i, err)
		}
		buf.WriteString("    ")
		buf.Write(data)
		if i < len(tuples)-1 {
			buf.WriteByte(',')
		}
		buf.WriteByte('\n')
	}
	buf.WriteString("  ]\n}\n")
	return buf.Bytes(), nil
}

func writeNames(buf *bytes.Buffer, names []string) error {
	buf.WriteByte('[')
	for i, n := range names {
		if i > 0 {
			buf.WriteByte(',')
		}
		data, err := value.MarshalValue(value.Text(n))
		if err != nil {
			return err
		}
		buf.Write(data)
	}
	buf.WriteByte(']')
	return nil
}
