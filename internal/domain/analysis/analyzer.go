package analysis

import (
	"fmt"
	"strings"

	"github.com/Strob0t/repodoc/internal/domain/repo"
)

// Analyze maps a snapshot to its RepoAnalysis. It never fails and performs no
// I/O: the same path list always produces the same analysis. A nil snapshot
// is analyzed as an empty one.
func Analyze(snap *repo.Snapshot) *RepoAnalysis {
	if snap == nil {
		snap = &repo.Snapshot{}
	}
	paths := snap.Paths()
	lower := make([]string, len(paths))
	for i, p := range paths {
		lower[i] = strings.ToLower(p)
	}

	a := &RepoAnalysis{
		ProjectName: snap.Name,
		TechStack: TechStack{
			Frontend: detectStack(frontendRules, lower),
			Backend:  detectStack(backendRules, lower),
			Database: detectStack(databaseRules, lower),
			Tooling:  detectStack(toolingRules, lower),
		},
		Functions:  detectFunctions(paths, lower),
		Flow:       detectFlow(lower),
		SetupHints: detectSetup(lower),
	}
	a.ShortDescription = describe(a)
	return a
}

func anyPath(m matcher, lower []string) bool {
	for _, p := range lower {
		if m(p) {
			return true
		}
	}
	return false
}

func detectStack(rules []stackRule, lower []string) []string {
	tags := make([]string, 0, len(rules))
	seen := make(map[string]bool, len(rules))
	for _, r := range rules {
		if seen[r.Tag] || !anyPath(r.Match, lower) {
			continue
		}
		seen[r.Tag] = true
		tags = append(tags, r.Tag)
	}
	return tags
}

func detectFunctions(paths, lower []string) []Function {
	fns := make([]Function, 0)
	for i, p := range lower {
		for _, r := range fileRules {
			if r.Match(p) {
				fns = append(fns, Function{Name: paths[i], Responsibility: r.Responsibility})
			}
		}
	}
	return fns
}

func detectFlow(lower []string) []string {
	steps := make([]string, 0, len(flowRules))
	for _, r := range flowRules {
		if anyPath(r.Match, lower) {
			steps = append(steps, r.Step)
		}
	}
	if len(steps) == 0 {
		return []string{NoFlowDetected}
	}
	return steps
}

func detectSetup(lower []string) []string {
	hints := make([]string, 0, len(setupRules)+1)
	for _, r := range setupRules {
		if anyPath(r.Match, lower) {
			hints = append(hints, r.Hint)
		}
	}
	return append(hints, EnvSetupHint)
}

// describe builds a one-paragraph summary from the detected stack and flow.
func describe(a *RepoAnalysis) string {
	ts := a.TechStack
	name := a.ProjectName
	if name == "" {
		name = "The repository"
	}
	hasFlow := len(a.Flow) > 0 && a.Flow[0] != NoFlowDetected
	if ts.Empty() && !hasFlow {
		return fmt.Sprintf("%s has no recognizable framework or runtime markers in its file tree.", name)
	}

	var b strings.Builder
	primary := append(append([]string{}, ts.Frontend...), ts.Backend...)
	if len(primary) > 0 {
		fmt.Fprintf(&b, "%s is a %s project", name, strings.Join(primary, ", "))
	} else {
		fmt.Fprintf(&b, "%s is a project", name)
	}
	if len(ts.Database) > 0 {
		fmt.Fprintf(&b, " backed by %s", strings.Join(ts.Database, ", "))
	}
	b.WriteString(".")
	if len(ts.Tooling) > 0 {
		fmt.Fprintf(&b, " Tooling includes %s.", strings.Join(ts.Tooling, ", "))
	}
	if hasFlow {
		fmt.Fprintf(&b, " %d runtime flow step(s) were detected from its file layout.", len(a.Flow))
	}
	return b.String()
}
