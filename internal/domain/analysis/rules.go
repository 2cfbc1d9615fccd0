package analysis

import "strings"

// matcher reports whether a lower-cased path carries a marker.
type matcher func(path string) bool

func contains(markers ...string) matcher {
	return func(p string) bool {
		for _, m := range markers {
			if strings.Contains(p, m) {
				return true
			}
		}
		return false
	}
}

func suffix(exts ...string) matcher {
	return func(p string) bool {
		for _, e := range exts {
			if strings.HasSuffix(p, e) {
				return true
			}
		}
		return false
	}
}

func prefix(prefixes ...string) matcher {
	return func(p string) bool {
		for _, pre := range prefixes {
			if strings.HasPrefix(p, pre) {
				return true
			}
		}
		return false
	}
}

func anyOf(ms ...matcher) matcher {
	return func(p string) bool {
		for _, m := range ms {
			if m(p) {
				return true
			}
		}
		return false
	}
}

// Shared markers.
var (
	apiRoute   = anyOf(contains("/api/"), prefix("api/"))
	cacheUtil  = contains("redis", "cache")
	uiComp     = contains("component")
	middleware = contains("middleware")
	dataStore  = anyOf(contains("prisma", "mongo", "postgres", "supabase", "sqlite"), suffix(".sql"))
)

// stackRule adds Tag to a tech-stack category when any path matches.
type stackRule struct {
	Match matcher
	Tag   string
}

var frontendRules = []stackRule{
	{Match: contains("next.config"), Tag: "Next.js"},
	{Match: suffix(".tsx", ".jsx"), Tag: "React"},
	{Match: contains("nuxt.config"), Tag: "Nuxt"},
	{Match: suffix(".vue"), Tag: "Vue"},
	{Match: suffix(".svelte"), Tag: "Svelte"},
	{Match: contains("angular.json"), Tag: "Angular"},
}

var backendRules = []stackRule{
	{Match: contains("pages/api/", "app/api/"), Tag: "Next.js API Routes"},
	{Match: contains("go.mod"), Tag: "Go"},
	{Match: contains("requirements.txt", "pyproject.toml"), Tag: "Python"},
	{Match: contains("cargo.toml"), Tag: "Rust"},
	{Match: contains("pom.xml", "build.gradle"), Tag: "Java"},
	{Match: contains("gemfile"), Tag: "Ruby"},
	{Match: contains("composer.json"), Tag: "PHP"},
	{Match: suffix("server.js", "server.ts"), Tag: "Node.js"},
}

var databaseRules = []stackRule{
	{Match: contains("redis"), Tag: "Redis"},
	{Match: contains("prisma"), Tag: "Prisma"},
	{Match: contains("mongo"), Tag: "MongoDB"},
	{Match: contains("postgres"), Tag: "PostgreSQL"},
	{Match: contains("supabase"), Tag: "Supabase"},
	{Match: suffix(".sql"), Tag: "SQL"},
	{Match: contains("sqlite"), Tag: "SQLite"},
}

var toolingRules = []stackRule{
	{Match: contains("eslint"), Tag: "ESLint"},
	{Match: contains("tailwind"), Tag: "Tailwind CSS"},
	{Match: contains("prettier"), Tag: "Prettier"},
	{Match: contains("dockerfile"), Tag: "Docker"},
	{Match: contains(".github/workflows/"), Tag: "GitHub Actions"},
	{Match: contains("jest.config"), Tag: "Jest"},
	{Match: contains("vite.config"), Tag: "Vite"},
	{Match: contains("tsconfig.json"), Tag: "TypeScript"},
	{Match: contains("rate-limit", "ratelimit"), Tag: "Rate limiting"},
}

// fileRule tags a single path with a responsibility.
type fileRule struct {
	Match          matcher
	Responsibility string
}

var fileRules = []fileRule{
	{Match: apiRoute, Responsibility: "API route handler"},
	{Match: cacheUtil, Responsibility: "Caching or request-tracking utility"},
	{Match: uiComp, Responsibility: "Reusable UI component"},
	{Match: middleware, Responsibility: "Request middleware"},
	{Match: contains("/hooks/"), Responsibility: "UI state hook"},
}

// flowRule contributes Step when any path matches.
type flowRule struct {
	Match matcher
	Step  string
}

// NoFlowDetected is the sole flow entry when no flow marker matches.
const NoFlowDetected = "No clear runtime flow detected"

var flowRules = []flowRule{
	{Match: apiRoute, Step: "Client sends request to API endpoint"},
	{Match: middleware, Step: "Middleware inspects the request before it reaches a handler"},
	{Match: contains("redis"), Step: "Request metadata is checked or stored in Redis"},
	{Match: dataStore, Step: "Handler reads or writes persistent data"},
	{Match: contains("generate-excel"), Step: "Server generates Excel file and returns it as response"},
}

// setupRule contributes Hint when any path matches.
type setupRule struct {
	Match matcher
	Hint  string
}

// EnvSetupHint is always the last setup hint.
const EnvSetupHint = "Configure required environment variables"

var setupRules = []setupRule{
	{Match: contains("package.json"), Hint: "Install dependencies using npm or yarn"},
	{Match: contains("next.config"), Hint: "Run development server using npm run dev"},
	{Match: contains("go.mod"), Hint: "Download Go modules using go mod download"},
	{Match: contains("requirements.txt"), Hint: "Install Python dependencies using pip install -r requirements.txt"},
	{Match: contains("docker-compose"), Hint: "Start backing services using docker compose up"},
}
