package page

import (
	"encoding/json"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Document is the ordered list of sections that defines a store's public
// page. Order is render order. A document with no sections is valid and
// renders only the floating chat button.
//
// The wire shape is {"sections":[{"id","type","props"}...]} and must
// round-trip exactly, including prop keys this code does not understand.
type Document struct {
	Sections []Section `json:"sections" bson:"sections"`
}

// Clone returns a deep copy of the document. Section property bags are
// copied one level deep plus any nested maps/slices, so mutating a clone
// never leaks into the original. Template application relies on this.
func (d Document) Clone() Document {
	out := Document{Sections: make([]Section, len(d.Sections))}
	for i, s := range d.Sections {
		out.Sections[i] = Section{
			ID:    s.ID,
			Type:  s.Type,
			Props: cloneValue(s.Props).(map[string]any),
		}
	}
	return out
}

// cloneValue deep-copies the values a property bag can hold. Bags decoded
// from BSON carry primitive.A/D/M instead of the plain JSON shapes; those
// clone to plain maps and slices so a cloned document never aliases the
// original's nested data.
func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		m := make(map[string]any, len(t))
		for k, el := range t {
			m[k] = cloneValue(el)
		}
		return m
	case primitive.M:
		m := make(map[string]any, len(t))
		for k, el := range t {
			m[k] = cloneValue(el)
		}
		return m
	case primitive.D:
		m := make(map[string]any, len(t))
		for _, e := range t {
			m[e.Key] = cloneValue(e.Value)
		}
		return m
	case []any:
		l := make([]any, len(t))
		for i, el := range t {
			l[i] = cloneValue(el)
		}
		return l
	case primitive.A:
		l := make([]any, len(t))
		for i, el := range t {
			l[i] = cloneValue(el)
		}
		return l
	case nil:
		return map[string]any{}
	default:
		return t
	}
}

// Decode parses a JSON page document permissively: unknown prop fields are
// kept, missing props become empty bags. Validation is separate so legacy
// data can still be decoded for rendering.
func Decode(data []byte) (Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return Document{}, fmt.Errorf("decode page document: %w", err)
	}
	for i := range doc.Sections {
		if doc.Sections[i].Props == nil {
			doc.Sections[i].Props = map[string]any{}
		}
	}
	return doc, nil
}

// Encode serializes the document to its wire shape.
func (d Document) Encode() ([]byte, error) {
	return json.Marshal(d)
}

// Validate enforces the save-boundary invariants: every section has a
// known type and a non-empty id unique within the document. Rendering a
// stored document never calls this; unknown types are skipped there.
func (d Document) Validate() error {
	seen := make(map[string]struct{}, len(d.Sections))
	for i, s := range d.Sections {
		if s.ID == "" {
			return fmt.Errorf("section %d: missing id", i)
		}
		if _, dup := seen[s.ID]; dup {
			return fmt.Errorf("section %d: duplicate id %q", i, s.ID)
		}
		seen[s.ID] = struct{}{}
		if !IsValidType(s.Type) {
			return fmt.Errorf("section %d: unknown type %q", i, s.Type)
		}
	}
	return nil
}

// indexOf returns the position of the section with the given id, or -1.
func (d Document) indexOf(id string) int {
	for i, s := range d.Sections {
		if s.ID == id {
			return i
		}
	}
	return -1
}
