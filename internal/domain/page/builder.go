package page

// Builder operations. Each is a pure function over a document: the input
// is never mutated, a new document is returned, and ids that don't exist
// are absorbed as no-ops rather than surfaced as errors. That keeps the
// editing loop total; there is nothing for a caller to handle.

// Add appends a new section of the given type with a fresh id and an empty
// property bag. The renderer fills defaults, so an empty bag is complete.
func Add(d Document, t SectionType) Document {
	out := d.Clone()
	out.Sections = append(out.Sections, Section{
		ID:    NewSectionID(),
		Type:  t,
		Props: map[string]any{},
	})
	return out
}

// Remove filters out the section with the given id. Unknown id: no-op.
func Remove(d Document, id string) Document {
	if d.indexOf(id) == -1 {
		return d.Clone()
	}
	out := Document{Sections: make([]Section, 0, len(d.Sections)-1)}
	for _, s := range d.Clone().Sections {
		if s.ID != id {
			out.Sections = append(out.Sections, s)
		}
	}
	return out
}

// Reorder moves the section fromID to the position currently held by
// toID, shifting the others (list-splice move). No-op when either id is
// unknown or fromID == toID.
func Reorder(d Document, fromID, toID string) Document {
	out := d.Clone()
	from := out.indexOf(fromID)
	to := out.indexOf(toID)
	if from == -1 || to == -1 || from == to {
		return out
	}
	moved := out.Sections[from]
	rest := append(out.Sections[:from:from], out.Sections[from+1:]...)
	sections := make([]Section, 0, len(d.Sections))
	sections = append(sections, rest[:to]...)
	sections = append(sections, moved)
	sections = append(sections, rest[to:]...)
	out.Sections = sections
	return out
}

// UpdateProps shallow-merges patch into the named section's property bag,
// replacing the bag reference. Nested values from patch overwrite whole;
// there is no deep merge. Unknown id: no-op.
func UpdateProps(d Document, id string, patch map[string]any) Document {
	out := d.Clone()
	i := out.indexOf(id)
	if i == -1 {
		return out
	}
	bag := make(map[string]any, len(out.Sections[i].Props)+len(patch))
	for k, v := range out.Sections[i].Props {
		bag[k] = v
	}
	for k, v := range patch {
		bag[k] = cloneValue(v)
	}
	out.Sections[i].Props = bag
	return out
}
