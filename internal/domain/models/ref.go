// internal/domain/models/ref.go
package models

import (
	"bytes"
	"encoding/json"
)

// Ref is a foreign key that the backend sometimes sends as a bare id
// string and sometimes as the populated document ({"_id": ..., ...}).
// Either way only the id is kept.
type Ref string

func (r *Ref) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		*r = ""
		return nil
	}
	if b[0] == '{' {
		var doc struct {
			ID string `json:"_id"`
		}
		if err := json.Unmarshal(b, &doc); err != nil {
			return err
		}
		*r = Ref(doc.ID)
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	*r = Ref(s)
	return nil
}

func (r Ref) String() string { return string(r) }
