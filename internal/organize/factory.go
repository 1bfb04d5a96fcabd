package organize

import "romselect/internal/config"

// InstallerFactory is a function that creates an Installer
// This allows for dependency injection in tests
type InstallerFactory func(archiver Archiver, cfg *config.Config) Installer

// DefaultInstallerFactory creates a real install engine
var DefaultInstallerFactory InstallerFactory = func(archiver Archiver, cfg *config.Config) Installer {
	return New(archiver, cfg)
}

// CurrentInstallerFactory is the currently active factory
// This can be swapped in tests
var CurrentInstallerFactory = DefaultInstallerFactory

// SetInstallerFactory sets a custom installer factory for dependency injection
func SetInstallerFactory(factory InstallerFactory) {
	CurrentInstallerFactory = factory
}

// ResetInstallerFactory resets to the default installer factory
func ResetInstallerFactory() {
	CurrentInstallerFactory = DefaultInstallerFactory
}
