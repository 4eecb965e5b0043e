package nexus

// Repository is one entry of the repository-listing endpoint.
type Repository struct {
	Name   string `json:"name"`
	Format string `json:"format"`
	Type   string `json:"type"`
	URL    string `json:"url"`
	Online bool   `json:"online"`
}

// Asset is a single stored file as reported by the source API. The
// flat search endpoint returns assets directly; the components
// endpoint nests them under a component.
type Asset struct {
	ID          string            `json:"id"`
	Repository  string            `json:"repository"`
	Format      string            `json:"format"`
	Path        string            `json:"path"`
	DownloadURL string            `json:"downloadUrl"`
	FileSize    int64             `json:"fileSize"`
	ContentType string            `json:"contentType"`
	Checksum    map[string]string `json:"checksum"`
	Maven2      *MavenAttributes  `json:"maven2,omitempty"`
}

// MavenAttributes carries the structured coordinate metadata attached
// to maven2-format assets.
type MavenAttributes struct {
	GroupID    string `json:"groupId"`
	ArtifactID string `json:"artifactId"`
	Version    string `json:"version"`
	Extension  string `json:"extension,omitempty"`
	Classifier string `json:"classifier,omitempty"`
}

// Component groups the assets of one logical artifact version.
type Component struct {
	ID         string  `json:"id"`
	Repository string  `json:"repository"`
	Format     string  `json:"format"`
	Group      string  `json:"group"`
	Name       string  `json:"name"`
	Version    string  `json:"version"`
	Assets     []Asset `json:"assets"`
}

// AssetPage is one page of the flat asset search endpoint.
type AssetPage struct {
	Items             []Asset `json:"items"`
	ContinuationToken string  `json:"continuationToken"`
}

// ComponentPage is one page of the components or component search
// endpoints.
type ComponentPage struct {
	Items             []Component `json:"items"`
	ContinuationToken string      `json:"continuationToken"`
}

// SearchFilter narrows a component search to one coordinate. Empty
// fields are omitted from the query.
type SearchFilter struct {
	Group   string
	Name    string
	Version string
}
