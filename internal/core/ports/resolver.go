package ports

// InputResolver defines the interface for resolving input files.
//
//go:generate mockgen -destination=mocks/mock_resolver.go -package=mocks -source=resolver.go
type InputResolver interface {
	// ResolveInputs resolves the given input patterns to a list of concrete file paths relative to root.
	ResolveInputs(inputs []string, root string) ([]string, error)
}
