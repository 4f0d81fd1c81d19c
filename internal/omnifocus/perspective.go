package omnifocus

import (
	"sort"
	"strings"
	"time"
)

// The host does not expose rule introspection for every perspective kind,
// so perspective contents are reconstructed here: the evaluator walks the
// decoded task tree and applies the selection and ordering rules of the
// named perspective. Built-in perspectives have a rule strategy each.
// Everything else falls back to all tasks in tree order, unfiltered, with
// RulesApplied set to false so callers can tell the two modes apart.

// PerspectiveResult carries a perspective's tasks and whether real rule
// evaluation or the fallback path produced them.
type PerspectiveResult struct {
	Perspective  Perspective `json:"perspective"`
	Tasks        []Task      `json:"tasks"`
	RulesApplied bool        `json:"rules_applied"`
}

// perspectiveRule reconstructs one perspective kind's filter and sort
// over the flattened task tree.
type perspectiveRule func(dump *DatabaseDump, now time.Time) []Task

// perspectiveRules is the strategy table, keyed by built-in perspective
// name. Names are matched case-sensitively.
var perspectiveRules = map[string]perspectiveRule{
	"Inbox":     ruleInbox,
	"Flagged":   ruleFlagged,
	"Forecast":  ruleForecast,
	"Projects":  ruleProjects,
	"Tags":      ruleTags,
	"Completed": ruleCompleted,
}

// ResolvePerspective finds name in the live perspective list,
// case-sensitively. Renamed or deleted perspectives are detected on every
// call because the list is never cached.
func ResolvePerspective(op, name string, perspectives []Perspective) (Perspective, error) {
	for _, p := range perspectives {
		if p.Name == name {
			return p, nil
		}
	}
	return Perspective{}, newError(KindNotFound, op, "perspective not found: %q", name)
}

// EvaluatePerspective applies the named perspective's rules to the task
// tree in dump. now anchors the date-relative rules (Forecast).
func EvaluatePerspective(p Perspective, dump *DatabaseDump, now time.Time) PerspectiveResult {
	if rule, ok := perspectiveRules[p.Name]; ok && p.BuiltIn {
		return PerspectiveResult{
			Perspective:  p,
			Tasks:        rule(dump, now),
			RulesApplied: true,
		}
	}
	// Rule introspection unavailable: fall back to the whole tree in
	// tree order.
	return PerspectiveResult{
		Perspective:  p,
		Tasks:        FlattenTree(dump),
		RulesApplied: false,
	}
}

// FlattenTree returns every task in the dump in tree order: inbox first,
// then each project's tree, depth first, children after their parent.
func FlattenTree(dump *DatabaseDump) []Task {
	var out []Task
	for _, t := range dump.Inbox {
		out = flattenInto(out, t, "")
	}
	for _, p := range dump.Projects {
		for _, t := range p.Tasks {
			out = flattenInto(out, t, p.Name)
		}
	}
	return out
}

func flattenInto(out []Task, t Task, project string) []Task {
	flat := t
	flat.Children = nil
	if flat.Project == "" {
		flat.Project = project
	}
	out = append(out, flat)
	for _, child := range t.Children {
		out = flattenInto(out, child, project)
	}
	return out
}

func ruleInbox(dump *DatabaseDump, _ time.Time) []Task {
	var out []Task
	for _, t := range dump.Inbox {
		out = flattenInto(out, t, "")
	}
	return out
}

func ruleFlagged(dump *DatabaseDump, _ time.Time) []Task {
	var out []Task
	for _, t := range FlattenTree(dump) {
		if t.Flagged && !t.Completed {
			out = append(out, t)
		}
	}
	return out
}

func ruleForecast(dump *DatabaseDump, now time.Time) []Task {
	horizon := now.Add(7 * 24 * time.Hour)
	var out []Task
	for _, t := range FlattenTree(dump) {
		if t.Completed {
			continue
		}
		if t.Flagged || (t.Due != nil && !t.Due.After(horizon)) {
			out = append(out, t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return timeLess(out[i].Due, out[j].Due)
	})
	return out
}

func ruleProjects(dump *DatabaseDump, _ time.Time) []Task {
	var out []Task
	for _, p := range dump.Projects {
		for _, t := range p.Tasks {
			out = flattenInto(out, t, p.Name)
		}
	}
	filtered := out[:0]
	for _, t := range out {
		if !t.Completed {
			filtered = append(filtered, t)
		}
	}
	return filtered
}

func ruleTags(dump *DatabaseDump, _ time.Time) []Task {
	var out []Task
	for _, t := range FlattenTree(dump) {
		if len(t.Tags) > 0 && !t.Completed {
			out = append(out, t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return strings.ToLower(out[i].Tags[0]) < strings.ToLower(out[j].Tags[0])
	})
	return out
}

func ruleCompleted(dump *DatabaseDump, _ time.Time) []Task {
	var out []Task
	for _, t := range FlattenTree(dump) {
		if t.Completed {
			out = append(out, t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		// Most recently completed first; tasks without a completion
		// date sink to the end.
		a, b := out[i].CompletionDate, out[j].CompletionDate
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return a.After(*b)
		}
	})
	return out
}
