// Package docs defines the structured documentation produced by the model,
// the JSON Schema it must satisfy, and the decoding of raw model output.
package docs

// GeneratedDocumentation is the schema-validated documentation for one
// repository snapshot.
type GeneratedDocumentation struct {
	Overview  string     `json:"overview" jsonschema:"description=Short factual overview of the project"`
	Flow      []string   `json:"flow" jsonschema:"description=Ordered runtime flow steps"`
	Functions []Function `json:"functions" jsonschema:"description=Notable files and their responsibilities"`
	TechStack TechStack  `json:"techStack" jsonschema:"description=Detected technologies grouped by category"`
	Setup     []string   `json:"setup" jsonschema:"description=Ordered setup steps"`
}

// Function is one documented file or unit.
type Function struct {
	Name           string `json:"name" jsonschema:"description=File path or unit name"`
	Responsibility string `json:"responsibility" jsonschema:"description=What the unit is responsible for"`
}

// TechStack lists technologies per category.
type TechStack struct {
	Frontend []string `json:"frontend"`
	Backend  []string `json:"backend"`
	Database []string `json:"database"`
	Tooling  []string `json:"tooling"`
}
