package domain

// BuildTargetIdentifier is the opaque, client-visible name of a build target.
type BuildTargetIdentifier struct {
	URI string `json:"uri"`
}

// String returns the identifier URI.
func (id BuildTargetIdentifier) String() string {
	return id.URI
}

// BuildTarget is a resolved BuildTargetIdentifier.
// It expands to one or more concrete targets through its addresses.
type BuildTarget struct {
	ID          BuildTargetIdentifier
	DisplayName string
	Addresses   []InternedString
}

// Target is a concrete node of the build graph.
// It uses InternedString for fields that are frequently repeated across targets.
type Target struct {
	Address      InternedString
	Kind         InternedString
	Sources      []InternedString
	Dependencies []InternedString
	Attributes   map[string]string
}
