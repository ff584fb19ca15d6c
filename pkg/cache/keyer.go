package cache

// GraphKeyOpts are the build options that change a graph for the same input.
type GraphKeyOpts struct {
	TopN int `json:"top_n"`
}

// ArtifactKeyOpts are the rendering options that change an artifact for the
// same graph.
type ArtifactKeyOpts struct {
	Format   string `json:"format"`
	Detailed bool   `json:"detailed,omitempty"`
	Title    string `json:"title,omitempty"`
}

// Keyer derives cache keys.
type Keyer interface {
	// GraphKey keys a built graph by the hash of its input records.
	GraphKey(recordsHash string, opts GraphKeyOpts) string
	// ArtifactKey keys a rendered artifact by the hash of its graph.
	ArtifactKey(graphHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer hashes key components with SHA-256.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// GraphKey implements Keyer.
func (DefaultKeyer) GraphKey(recordsHash string, opts GraphKeyOpts) string {
	return derivedKey("graph", recordsHash, opts)
}

// ArtifactKey implements Keyer.
func (DefaultKeyer) ArtifactKey(graphHash string, opts ArtifactKeyOpts) string {
	return derivedKey("artifact", graphHash, opts)
}
