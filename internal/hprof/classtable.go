package hprof

// classTable tracks every ClassDump seen so far and memoizes each class's
// complete, ordered instance-field layout (its own fields plus every
// superclass's, most-derived first) so that instance dumps — which carry no
// field names or types of their own — can be decoded as they arrive. This
// generalizes the teacher's buildCompleteFieldLayout, which recomputed the
// walk on every instance; memoizing per class object ID is a performance
// adaptation, not a change to the resolution semantics.
type classTable struct {
	classes map[ID]*ClassDump
	layouts map[ID][]InstanceField
}

func newClassTable() *classTable {
	return &classTable{
		classes: make(map[ID]*ClassDump),
		layouts: make(map[ID][]InstanceField),
	}
}

// addClass records a newly-parsed ClassDump, invalidating any memoized
// layout for it (a stream should only define a class once, but a redefine
// should not serve a stale cache).
func (t *classTable) addClass(c *ClassDump) {
	t.classes[c.ClassObjectID] = c
	delete(t.layouts, c.ClassObjectID)
}

// fieldLayout returns the complete, ordered instance-field list for the
// class identified by classID: that class's own InstanceFields first, then
// each superclass's in turn, walking SuperClassObjectID to 0. A field name
// already seen in a more-derived class shadows the superclass's field of
// the same name, matching the JVM's own field-shadowing rules.
//
// Returns FormatError(MissingClassDump) if classID, or any class in its
// superclass chain, was never seen via addClass — this can only happen if
// a heap dump references a class whose ClassDump sub-record precedes it in
// a way this decoder has not yet processed, which violates the format's
// invariant that class dumps precede the instances that reference them.
func (t *classTable) fieldLayout(classID ID) ([]InstanceField, error) {
	if cached, ok := t.layouts[classID]; ok {
		return cached, nil
	}

	var layout []InstanceField
	seen := make(map[ID]bool) // field name ID -> already placed

	current := classID
	for current != 0 {
		class, ok := t.classes[current]
		if !ok {
			return nil, newFormatError(MissingClassDump, 0, "class 0x%x not dumped before use", uint64(current))
		}
		for _, f := range class.InstanceFields {
			if seen[f.NameID] {
				continue
			}
			seen[f.NameID] = true
			layout = append(layout, f)
		}
		current = class.SuperClassObjectID
	}

	t.layouts[classID] = layout
	return layout, nil
}
