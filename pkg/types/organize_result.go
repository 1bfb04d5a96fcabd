package types

// InstallResult holds the outcome of installing one archive entry into the
// rom library
type InstallResult struct {
	Entry         Entry    `json:"entry"`
	ExtractedPath string   `json:"extracted_path"`
	ArchivePath   string   `json:"archive_path"`
	LibraryPath   string   `json:"library_path"`
	Backups       []string `json:"backups,omitempty"`
}
