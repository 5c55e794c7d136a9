package entities

// FolderConfig describes a user-selected folder the auto-importer scans.
// The list is persisted as JSON under a single settings key and is treated
// as read-only by the scan pipeline.
type FolderConfig struct {
	URI         string `json:"uri"`
	DisplayName string `json:"display_name,omitempty"`
	AccessGrant string `json:"access_grant,omitempty"`
}

// Name returns the display name, falling back to the URI.
func (f FolderConfig) Name() string {
	if f.DisplayName != "" {
		return f.DisplayName
	}
	return f.URI
}
