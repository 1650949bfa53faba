package graph

// ============================================================================
// Parent-level Graph Types
// ============================================================================

// Edge connects the parents of the two entities of one dataset row
type Edge struct {
	Source string `json:"source" yaml:"source"`
	Target string `json:"target" yaml:"target"`
}

// View is the parent-level network: every distinct parent once, and one
// edge per row
type View struct {
	Nodes []string `json:"nodes" yaml:"nodes"`
	Edges []Edge   `json:"edges" yaml:"edges"`
}

// childSeparator joins an entity name and its type into a child node id
const childSeparator = "/"

// ChildID builds the "name/type" identity of a child node
func ChildID(name, entityType string) string {
	return name + childSeparator + entityType
}
