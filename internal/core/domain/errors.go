package domain

import "go.trai.ch/zerr"

var (
	// ErrNoTargetsSpecified is returned when no targets are specified for the compile command.
	ErrNoTargetsSpecified = zerr.New("no targets specified")

	// ErrTargetNotFound is returned when an identifier or address does not name a known target.
	ErrTargetNotFound = zerr.New("target not found")

	// ErrTargetResolutionFailed is returned when a build target identifier cannot be resolved.
	// It aborts the whole compile request.
	ErrTargetResolutionFailed = zerr.New("failed to resolve build target")

	// ErrTargetExpansionFailed is returned when a build target cannot be expanded into concrete targets.
	ErrTargetExpansionFailed = zerr.New("failed to expand build target")

	// ErrBackendInvocationFailed is reported when a backend compile handler returns an error.
	ErrBackendInvocationFailed = zerr.New("backend invocation failed")

	// ErrMergeConflict is returned when two output trees claim the same path with different content.
	ErrMergeConflict = zerr.New("output tree merge conflict")

	// ErrInvalidTreePath is returned when an output tree entry path is absolute or escapes the tree root.
	ErrInvalidTreePath = zerr.New("invalid output tree path")

	// ErrTreeWriteFailed is returned when an output tree cannot be materialized into the workspace.
	ErrTreeWriteFailed = zerr.New("failed to write output tree")

	// ErrNotificationDeliveryFailed is returned by notifiers that could not deliver an event.
	// It never affects the compile outcome.
	ErrNotificationDeliveryFailed = zerr.New("failed to deliver notification")

	// ErrCompileFailed is returned when a compile request finishes with ERROR status.
	ErrCompileFailed = zerr.New("compile failed")

	// ErrDuplicateBackend is returned when two backends are registered under the same name.
	ErrDuplicateBackend = zerr.New("duplicate backend")

	// ErrUnknownBackend is returned when a backend name is not registered.
	ErrUnknownBackend = zerr.New("unknown backend")

	// ErrBlobNotFound is returned when a digest is not present in the content store.
	ErrBlobNotFound = zerr.New("blob not found in content store")

	// ErrBlobWriteFailed is returned when a blob cannot be written to the content store.
	ErrBlobWriteFailed = zerr.New("failed to write blob")

	// ErrBlobReadFailed is returned when a blob cannot be read from the content store.
	ErrBlobReadFailed = zerr.New("failed to read blob")

	// ErrConfigReadFailed is returned when the config file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read config file")

	// ErrConfigParseFailed is returned when the config file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse config file")

	// ErrConfigNotFound is returned when no config file is found in the directory tree.
	ErrConfigNotFound = zerr.New("could not find bsp.yaml")

	// ErrMissingVersion is returned when the config file does not declare a version.
	ErrMissingVersion = zerr.New("missing config version")

	// ErrInvalidBackend is returned when a backend definition lacks kinds or a command.
	ErrInvalidBackend = zerr.New("invalid backend definition")

	// ErrInvalidTarget is returned when a target definition is malformed.
	ErrInvalidTarget = zerr.New("invalid target definition")

	// ErrInvalidOutputPath is returned when the configured output prefix is not workspace relative.
	ErrInvalidOutputPath = zerr.New("invalid output path")

	// ErrInputNotFound is returned when a declared source pattern matches nothing.
	ErrInputNotFound = zerr.New("input not found")

	// ErrCommandFailed is returned when a backend command cannot be started.
	ErrCommandFailed = zerr.New("command failed")
)
