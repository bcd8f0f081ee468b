package cache

// PlanKeyOpts carries the planner options that affect a plan's identity.
type PlanKeyOpts struct {
	Cell     string `json:"cell"`
	TopLayer int    `json:"top_layer"`
}

// ArtifactKeyOpts carries the render options that affect an artifact's
// identity.
type ArtifactKeyOpts struct {
	Format string `json:"format"`
	Scale  int    `json:"scale"`
}

// Keyer generates cache keys for the pipeline stages.
type Keyer interface {
	// TechKey generates a key for a parsed technology document.
	TechKey(techHash string) string

	// PlanKey generates a key for a planning result.
	PlanKey(techHash string, opts PlanKeyOpts) string

	// ArtifactKey generates a key for a rendered artifact.
	ArtifactKey(planHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer hashes key components with SHA-256 under a per-stage
// prefix.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// TechKey generates a key for a parsed technology document.
func (k *DefaultKeyer) TechKey(techHash string) string {
	return hashKey("tech", techHash)
}

// PlanKey generates a key for a planning result.
func (k *DefaultKeyer) PlanKey(techHash string, opts PlanKeyOpts) string {
	return hashKey("plan", techHash, opts)
}

// ArtifactKey generates a key for a rendered artifact.
func (k *DefaultKeyer) ArtifactKey(planHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", planHash, opts)
}
