// Package analysis derives a deterministic factual summary of a repository
// from its file paths alone.
package analysis

// RepoAnalysis is the heuristic summary handed to the documentation
// synthesizer. Every slice is non-nil so the JSON form never carries null.
type RepoAnalysis struct {
	ProjectName      string     `json:"projectName"`
	ShortDescription string     `json:"shortDescription"`
	Flow             []string   `json:"flow"`
	Functions        []Function `json:"functions"`
	TechStack        TechStack  `json:"techStack"`
	SetupHints       []string   `json:"setupHints"`
}

// Function ties a file path to the responsibility its name suggests.
type Function struct {
	Name           string `json:"name"`
	Responsibility string `json:"responsibility"`
}

// TechStack groups detected technologies by category.
type TechStack struct {
	Frontend []string `json:"frontend"`
	Backend  []string `json:"backend"`
	Database []string `json:"database"`
	Tooling  []string `json:"tooling"`
}

// Empty reports whether no technology was detected in any category.
func (t TechStack) Empty() bool {
	return len(t.Frontend) == 0 && len(t.Backend) == 0 && len(t.Database) == 0 && len(t.Tooling) == 0
}
