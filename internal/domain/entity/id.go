package entity

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ID identificador opaco asignado por la API. Se acepta tanto número como
// string en JSON y se reenvía siempre como texto en las URLs.
type ID string

func (id ID) String() string { return string(id) }

// UnmarshalJSON acepta 42 o "42".
func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("id: %w", err)
	}
	*id = ID(n.String())
	return nil
}
