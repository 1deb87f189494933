package domain

import "path/filepath"

const (
	// BspDirName is the name of the internal workspace directory.
	BspDirName = ".bsp"

	// CASDirName is the name of the content addressable store directory.
	CASDirName = "cas"

	// OutputDirName is the name of the directory compile outputs are materialized into.
	OutputDirName = "out"

	// ConfigFileName is the name of the workspace configuration file.
	ConfigFileName = "bsp.yaml"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644

	// ExecFilePerm is the permission for executable files (rwxr-xr-x).
	ExecFilePerm = 0o755
)

// DefaultCASPath returns the default path for the content addressable store.
func DefaultCASPath() string {
	return filepath.Join(BspDirName, CASDirName)
}

// DefaultOutputPath returns the default workspace prefix compile outputs are written under.
func DefaultOutputPath() string {
	return filepath.Join(BspDirName, OutputDirName)
}
