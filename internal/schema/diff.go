package schema

// Change describes a single difference between two schema snapshots.
type Change struct {
	Path     string
	Kind     string // "added", "removed", "retyped"
	OldType  FieldType
	NewType  FieldType
}

// Diff compares two schema snapshots, e.g. before/after a table migration,
// and reports which paths were added, removed, or retyped.
func Diff(before, after *Schema) []Change {
	var changes []Change
	for path, oldType := range before.fields {
		newType, ok := after.fields[path]
		switch {
		case !ok:
			changes = append(changes, Change{Path: path, Kind: "removed", OldType: oldType})
		case newType != oldType:
			changes = append(changes, Change{Path: path, Kind: "retyped", OldType: oldType, NewType: newType})
		}
	}
	for path, newType := range after.fields {
		if _, ok := before.fields[path]; !ok {
			changes = append(changes, Change{Path: path, Kind: "added", NewType: newType})
		}
	}
	return changes
}
