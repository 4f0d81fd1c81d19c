package omnifocus

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// The script builders are pure functions: they render a validated request
// into a self-contained OmniJS script string. Every interpolated value
// passes through jsString, which produces a JSON string literal with all
// quotes, backslashes and control characters escaped.
// Inputs that cannot be represented (invalid UTF-8) are rejected with an
// encoding error before any script text is produced.

// jsString renders s as a double-quoted JavaScript string literal.
func jsString(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}

// jsStringArray renders ss as a JavaScript array literal of strings.
func jsStringArray(ss []string) string {
	if len(ss) == 0 {
		return "[]"
	}
	b, _ := json.Marshal(ss)
	return string(b)
}

// jsBool renders b as a JavaScript boolean literal.
func jsBool(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

// checkEncodable rejects values that cannot be safely embedded as script
// string literals.
func checkEncodable(op string, values ...string) error {
	for _, v := range values {
		if !utf8.ValidString(v) {
			return newError(KindEncoding, op, "value %q is not valid UTF-8", v)
		}
	}
	return nil
}

// jxaEscaper escapes OmniJS source for embedding in a JXA template
// literal: backslashes, backticks and interpolation markers.
var jxaEscaper = strings.NewReplacer(`\`, `\\`, "`", "\\`", "${", "\\${")

// WrapJXA wraps an OmniJS script in the JXA shim that delivers it to the
// OmniFocus automation runtime. Every script returns a JSON string; the
// shim's final expression, which osascript prints, is that string.
func WrapJXA(omnijs string) string {
	return "const app = Application('OmniFocus');\n" +
		"app.evaluateJavascript(`" + jxaEscaper.Replace(omnijs) + "`);\n"
}

// iife wraps a script body in the standard try/catch IIFE. The body must
// return a JSON string; faults are reported through the error envelope the
// decoder understands.
func iife(body string) string {
	return "(() => {\n" +
		"  try {\n" +
		body +
		"\n  } catch (err) {\n" +
		"    return JSON.stringify({ error: err.toString() });\n" +
		"  }\n" +
		"})()"
}

// jsMapTask is the shared task projection used by flat queries. Field
// names match the JSON tags on Task.
const jsMapTask = `    const mapTask = t => ({
      id: t.id.primaryKey,
      name: t.name,
      note: t.note || "",
      completed: t.completed,
      flagged: t.flagged,
      project: t.containingProject ? t.containingProject.name : null,
      tags: t.tags.map(tag => tag.name),
      due: t.effectiveDueDate ? t.effectiveDueDate.toISOString() : null,
      defer: t.effectiveDeferDate ? t.effectiveDeferDate.toISOString() : null
    });`

// parseAbsoluteDate parses the date formats accepted for structured
// assignment. Fuzzy dates ("tomorrow", "2d") exist only in the transport
// grammar, where the host parses them.
func parseAbsoluteDate(op, s string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, newError(KindValidation, op,
		"date %q is not an absolute date (RFC3339 or YYYY-MM-DD); relative dates are only supported in transport text", s)
}

// BuildAddTask renders a task-creation script. The transport-text path is
// preferred; inputs the grammar cannot carry (names with grammar
// characters, defer without due) fall back to structured creation.
func BuildAddTask(in TaskInput) (string, error) {
	const op = "add_task"
	if err := in.Validate(); err != nil {
		return "", err
	}
	if err := checkEncodable(op, in.Name, in.Note, in.Project, in.DueDate, in.DeferDate, in.Context); err != nil {
		return "", err
	}
	if err := checkEncodable(op, in.Tags...); err != nil {
		return "", err
	}

	text, err := EncodeTransportText(in)
	if err == nil && !(in.DeferDate != "" && in.DueDate == "") {
		return buildAddTaskTransport(text, in.Note), nil
	}
	if err != nil && !IsKind(err, KindEncoding) {
		return "", err
	}
	// Side channel: grammar-unsafe values and defer-only dates are
	// assigned structurally after creation instead of being encoded.
	return buildAddTaskStructured(in)
}

func buildAddTaskTransport(transportText, note string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "    const tasks = Task.byParsingTransportText(%s);\n", jsString(transportText))
	b.WriteString("    if (!tasks || tasks.length === 0) {\n")
	b.WriteString("      return JSON.stringify({ error: \"failed to create task from transport text\" });\n")
	b.WriteString("    }\n")
	b.WriteString("    const task = tasks[0];\n")
	if note != "" {
		fmt.Fprintf(&b, "    task.note = %s;\n", jsString(note))
	}
	b.WriteString("    return JSON.stringify({ id: task.id.primaryKey, name: task.name });")
	return iife(b.String())
}

func buildAddTaskStructured(in TaskInput) (string, error) {
	const op = "add_task"

	var b strings.Builder
	fmt.Fprintf(&b, "    const task = new Task(%s);\n", jsString(in.Name))
	if in.Note != "" {
		fmt.Fprintf(&b, "    task.note = %s;\n", jsString(in.Note))
	}
	if in.Flagged {
		b.WriteString("    task.flagged = true;\n")
	}
	if in.Project != "" {
		fmt.Fprintf(&b, "    const projName = %s;\n", jsString(in.Project))
		b.WriteString("    const proj = flattenedProjects.byName[projName] || new Project(projName);\n")
		b.WriteString("    moveTasks([task], proj);\n")
	}
	tags := in.Tags
	if in.Context != "" {
		tags = append(append([]string{}, tags...), in.Context)
	}
	if len(tags) > 0 {
		fmt.Fprintf(&b, "    %s.forEach(name => {\n", jsStringArray(tags))
		b.WriteString("      const tag = flattenedTags.byName[name] || new Tag(name);\n")
		b.WriteString("      task.addTag(tag);\n")
		b.WriteString("    });\n")
	}
	if in.DeferDate != "" {
		t, err := parseAbsoluteDate(op, in.DeferDate)
		if err != nil {
			return "", err
		}
		fmt.Fprintf(&b, "    task.deferDate = new Date(%s);\n", jsString(t.Format(time.RFC3339)))
	}
	if in.DueDate != "" {
		t, err := parseAbsoluteDate(op, in.DueDate)
		if err != nil {
			return "", err
		}
		fmt.Fprintf(&b, "    task.dueDate = new Date(%s);\n", jsString(t.Format(time.RFC3339)))
	}
	b.WriteString("    return JSON.stringify({ id: task.id.primaryKey, name: task.name });")
	return iife(b.String()), nil
}

// BuildAddProject renders a project-creation script.
func BuildAddProject(in ProjectInput) (string, error) {
	const op = "add_project"
	if err := in.Validate(); err != nil {
		return "", err
	}
	if err := checkEncodable(op, in.Name, in.Folder, in.ReviewInterval, in.CompletionRule); err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString("    let parent = null;\n")
	if in.Folder != "" {
		fmt.Fprintf(&b, "    const folderName = %s;\n", jsString(in.Folder))
		b.WriteString("    parent = flattenedFolders.byName[folderName] || new Folder(folderName);\n")
	}
	fmt.Fprintf(&b, "    const project = new Project(%s, parent);\n", jsString(in.Name))
	if in.Sequential {
		b.WriteString("    project.sequential = true;\n")
	}
	if in.ReviewInterval != "" {
		secs, err := parseReviewIntervalSeconds(op, in.ReviewInterval)
		if err != nil {
			return "", err
		}
		fmt.Fprintf(&b, "    project.reviewInterval = %d;\n", secs)
	}
	if in.CompletionRule == "last-action" {
		b.WriteString("    project.completedByChildren = true;\n")
	}
	b.WriteString("    return JSON.stringify({ id: project.id.primaryKey, name: project.name });")
	return iife(b.String()), nil
}

// parseReviewIntervalSeconds converts intervals like "1 week", "2 days" or
// "3 months" into seconds, the unit the host stores.
func parseReviewIntervalSeconds(op, interval string) (int64, error) {
	n := int64(0)
	for _, r := range interval {
		if r < '0' || r > '9' {
			break
		}
		n = n*10 + int64(r-'0')
	}
	if n == 0 {
		n = 1
	}
	const day = 24 * 60 * 60
	switch {
	case strings.Contains(interval, "week"):
		return n * 7 * day, nil
	case strings.Contains(interval, "day"):
		return n * day, nil
	case strings.Contains(interval, "month"):
		return n * 30 * day, nil
	}
	return 0, newError(KindValidation, op,
		"review interval %q must name days, weeks or months", interval)
}

// BuildInboxTasks renders the inbox query.
func BuildInboxTasks() string {
	return iife(jsMapTask + `
    const inboxTasks = inbox.flattenedTasks || inbox.tasks || [];
    return JSON.stringify(inboxTasks.map(mapTask));`)
}

// BuildFlaggedTasks renders the flagged-and-incomplete query.
func BuildFlaggedTasks() string {
	return iife(jsMapTask + `
    const tasks = flattenedTasks.filter(t => t.flagged && !t.completed);
    return JSON.stringify(tasks.map(mapTask));`)
}

// BuildForecastTasks renders the forecast query: incomplete tasks that are
// flagged or due within the next week.
func BuildForecastTasks() string {
	return iife(jsMapTask + `
    const weekFromNow = new Date(Date.now() + 7 * 24 * 60 * 60 * 1000);
    const tasks = flattenedTasks.filter(t => {
      if (t.completed) return false;
      if (t.flagged) return true;
      return t.effectiveDueDate !== null && t.effectiveDueDate <= weekFromNow;
    });
    return JSON.stringify(tasks.map(t => Object.assign(mapTask(t), {
      type: t.flagged ? "flagged" : "due"
    })));`)
}

// BuildCompletedToday renders the completed-today query.
func BuildCompletedToday() string {
	return iife(jsMapTask + `
    const today = new Date();
    today.setHours(0, 0, 0, 0);
    const tomorrow = new Date(today);
    tomorrow.setDate(tomorrow.getDate() + 1);
    const tasks = flattenedTasks.filter(t =>
      t.completed && t.completionDate >= today && t.completionDate < tomorrow);
    return JSON.stringify(tasks.map(t => Object.assign(mapTask(t), {
      completion_date: t.completionDate.toISOString()
    })));`)
}

// BuildTaskByID renders a single-task lookup with full details.
func BuildTaskByID(taskID string) (string, error) {
	const op = "get_task_by_id"
	if taskID == "" {
		return "", newError(KindValidation, op, "task id must not be empty")
	}
	if err := checkEncodable(op, taskID); err != nil {
		return "", err
	}
	body := jsMapTask + fmt.Sprintf(`
    const task = Task.byIdentifier(%s);
    if (!task) {
      return JSON.stringify({ error: "task not found: " + %s });
    }
    return JSON.stringify(Object.assign(mapTask(task), {
      estimated_minutes: task.estimatedMinutes || 0,
      completion_date: task.completionDate ? task.completionDate.toISOString() : null
    }));`, jsString(taskID), jsString(taskID))
	return iife(body), nil
}

// BuildTasksByTag renders the query for incomplete tasks carrying a tag.
// An unknown tag yields an empty list, not an error.
func BuildTasksByTag(tagName string) (string, error) {
	const op = "get_tasks_by_tag"
	if tagName == "" {
		return "", newError(KindValidation, op, "tag name must not be empty")
	}
	if err := checkEncodable(op, tagName); err != nil {
		return "", err
	}
	body := jsMapTask + fmt.Sprintf(`
    const tag = flattenedTags.byName[%s];
    if (!tag) {
      return JSON.stringify([]);
    }
    const tasks = tag.tasks.filter(t => !t.completed);
    return JSON.stringify(tasks.map(mapTask));`, jsString(tagName))
	return iife(body), nil
}

// BuildAllTasks renders a flat dump of every task in the database. The
// in-memory filter engine runs over its decoded output.
func BuildAllTasks() string {
	return iife(jsMapTask + `
    return JSON.stringify(flattenedTasks.map(mapTask));`)
}

// BuildEditTask renders a partial task update.
func BuildEditTask(taskID string, edit TaskEdit) (string, error) {
	const op = "edit_task"
	if taskID == "" {
		return "", newError(KindValidation, op, "task id must not be empty")
	}
	if edit.Empty() {
		return "", newError(KindValidation, op, "edit contains no changes")
	}
	if err := checkEncodable(op, taskID); err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "    const task = Task.byIdentifier(%s);\n", jsString(taskID))
	fmt.Fprintf(&b, "    if (!task) {\n      return JSON.stringify({ error: \"task not found: \" + %s });\n    }\n", jsString(taskID))

	if edit.Name != nil {
		if err := checkEncodable(op, *edit.Name); err != nil {
			return "", err
		}
		fmt.Fprintf(&b, "    task.name = %s;\n", jsString(*edit.Name))
	}
	if edit.Note != nil {
		if err := checkEncodable(op, *edit.Note); err != nil {
			return "", err
		}
		fmt.Fprintf(&b, "    task.note = %s;\n", jsString(*edit.Note))
	}
	if edit.Flagged != nil {
		fmt.Fprintf(&b, "    task.flagged = %s;\n", jsBool(*edit.Flagged))
	}
	if edit.Completed != nil {
		if *edit.Completed {
			b.WriteString("    task.markComplete();\n")
		} else {
			b.WriteString("    task.markIncomplete();\n")
		}
	}
	if edit.DueDate != nil {
		if err := writeDateAssignment(&b, op, "dueDate", *edit.DueDate); err != nil {
			return "", err
		}
	}
	if edit.DeferDate != nil {
		if err := writeDateAssignment(&b, op, "deferDate", *edit.DeferDate); err != nil {
			return "", err
		}
	}
	if edit.Project != nil {
		if err := checkEncodable(op, *edit.Project); err != nil {
			return "", err
		}
		if *edit.Project == "" {
			b.WriteString("    moveTasks([task], inbox.ending);\n")
		} else {
			fmt.Fprintf(&b, "    const proj = flattenedProjects.byName[%s];\n", jsString(*edit.Project))
			fmt.Fprintf(&b, "    if (!proj) {\n      return JSON.stringify({ error: \"project not found: \" + %s });\n    }\n", jsString(*edit.Project))
			b.WriteString("    moveTasks([task], proj);\n")
		}
	}
	if edit.ReplaceTags {
		if err := checkEncodable(op, edit.Tags...); err != nil {
			return "", err
		}
		b.WriteString("    task.clearTags();\n")
		fmt.Fprintf(&b, "    %s.forEach(name => {\n", jsStringArray(edit.Tags))
		b.WriteString("      const tag = flattenedTags.byName[name] || new Tag(name);\n")
		b.WriteString("      task.addTag(tag);\n")
		b.WriteString("    });\n")
	}

	b.WriteString("    return JSON.stringify({ id: task.id.primaryKey, name: task.name });")
	return iife(b.String()), nil
}

func writeDateAssignment(b *strings.Builder, op, field, value string) error {
	if value == "" {
		fmt.Fprintf(b, "    task.%s = null;\n", field)
		return nil
	}
	t, err := parseAbsoluteDate(op, value)
	if err != nil {
		return err
	}
	fmt.Fprintf(b, "    task.%s = new Date(%s);\n", field, jsString(t.Format(time.RFC3339)))
	return nil
}

// projectStatusJS maps wire status names onto host status constants.
var projectStatusJS = map[string]string{
	ProjectStatusActive:  "Project.Status.Active",
	ProjectStatusOnHold:  "Project.Status.OnHold",
	ProjectStatusDone:    "Project.Status.Done",
	ProjectStatusDropped: "Project.Status.Dropped",
}

// BuildEditProject renders a partial project update.
func BuildEditProject(projectID string, edit ProjectEdit) (string, error) {
	const op = "edit_project"
	if projectID == "" {
		return "", newError(KindValidation, op, "project id must not be empty")
	}
	if edit.Empty() {
		return "", newError(KindValidation, op, "edit contains no changes")
	}
	if err := checkEncodable(op, projectID); err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "    const project = Project.byIdentifier(%s);\n", jsString(projectID))
	fmt.Fprintf(&b, "    if (!project) {\n      return JSON.stringify({ error: \"project not found: \" + %s });\n    }\n", jsString(projectID))

	if edit.Name != nil {
		if err := checkEncodable(op, *edit.Name); err != nil {
			return "", err
		}
		fmt.Fprintf(&b, "    project.name = %s;\n", jsString(*edit.Name))
	}
	if edit.Status != nil {
		statusJS, ok := projectStatusJS[strings.ToLower(*edit.Status)]
		if !ok {
			return "", newError(KindValidation, op, "unknown project status %q", *edit.Status)
		}
		fmt.Fprintf(&b, "    project.status = %s;\n", statusJS)
	}
	if edit.Sequential != nil {
		fmt.Fprintf(&b, "    project.sequential = %s;\n", jsBool(*edit.Sequential))
	}
	if edit.CompletionRule != nil {
		fmt.Fprintf(&b, "    project.completedByChildren = %s;\n", jsBool(*edit.CompletionRule == "last-action"))
	}
	if edit.ReviewInterval != nil {
		secs, err := parseReviewIntervalSeconds(op, *edit.ReviewInterval)
		if err != nil {
			return "", err
		}
		fmt.Fprintf(&b, "    project.reviewInterval = %d;\n", secs)
	}

	b.WriteString("    return JSON.stringify({ id: project.id.primaryKey, name: project.name });")
	return iife(b.String()), nil
}

// BuildRemoveTask renders task deletion. Deletion is irreversible.
func BuildRemoveTask(taskID string) (string, error) {
	const op = "remove_task"
	if taskID == "" {
		return "", newError(KindValidation, op, "task id must not be empty")
	}
	if err := checkEncodable(op, taskID); err != nil {
		return "", err
	}
	body := fmt.Sprintf(`    const task = Task.byIdentifier(%s);
    if (!task) {
      return JSON.stringify({ error: "task not found: " + %s });
    }
    const name = task.name;
    deleteObject(task);
    return JSON.stringify({ id: %s, name: name });`,
		jsString(taskID), jsString(taskID), jsString(taskID))
	return iife(body), nil
}

// BuildRemoveProject renders project deletion.
func BuildRemoveProject(projectID string) (string, error) {
	const op = "remove_project"
	if projectID == "" {
		return "", newError(KindValidation, op, "project id must not be empty")
	}
	if err := checkEncodable(op, projectID); err != nil {
		return "", err
	}
	body := fmt.Sprintf(`    const project = Project.byIdentifier(%s);
    if (!project) {
      return JSON.stringify({ error: "project not found: " + %s });
    }
    const name = project.name;
    deleteObject(project);
    return JSON.stringify({ id: %s, name: name });`,
		jsString(projectID), jsString(projectID), jsString(projectID))
	return iife(body), nil
}

// BuildCompleteTask renders task completion by identifier.
func BuildCompleteTask(taskID string) (string, error) {
	const op = "complete_task"
	if taskID == "" {
		return "", newError(KindValidation, op, "task id must not be empty")
	}
	if err := checkEncodable(op, taskID); err != nil {
		return "", err
	}
	body := fmt.Sprintf(`    const task = Task.byIdentifier(%s);
    if (!task) {
      return JSON.stringify({ error: "task not found: " + %s });
    }
    task.markComplete();
    return JSON.stringify({ id: task.id.primaryKey, name: task.name });`,
		jsString(taskID), jsString(taskID))
	return iife(body), nil
}

// BuildListPerspectives renders the perspective list query.
func BuildListPerspectives() string {
	return iife(`    const builtIn = Perspective.BuiltIn.all.map(p => ({
      id: p.name,
      name: p.name,
      built_in: true
    }));
    const custom = Perspective.Custom.all.map(p => ({
      id: p.identifier,
      name: p.name,
      built_in: false
    }));
    return JSON.stringify(builtIn.concat(custom));`)
}

// BuildListProjects renders the project list query.
func BuildListProjects() string {
	return iife(`    const statusName = p => {
      if (p.status === Project.Status.OnHold) return "on-hold";
      if (p.status === Project.Status.Done) return "done";
      if (p.status === Project.Status.Dropped) return "dropped";
      return "active";
    };
    return JSON.stringify(flattenedProjects.map(p => ({
      id: p.id.primaryKey,
      name: p.name,
      status: statusName(p),
      folder: p.parentFolder ? p.parentFolder.name : null,
      sequential: p.sequential,
      task_count: p.flattenedTasks.length,
      remaining_count: p.flattenedTasks.filter(t => !t.completed).length,
      review_interval_days: p.reviewInterval ? p.reviewInterval / (24 * 60 * 60) : null
    })));`)
}

// BuildListTags renders the tag list query.
func BuildListTags() string {
	return iife(`    return JSON.stringify(flattenedTags.map(t => ({
      id: t.id.primaryKey,
      name: t.name,
      parent: t.parent ? t.parent.name : null,
      task_count: t.tasks.length,
      remaining_count: t.tasks.filter(task => !task.completed).length
    })));`)
}

// BuildDumpDatabase renders the structured database export: projects with
// their task trees, tags, inbox, and aggregate statistics. maxDepth bounds
// tree recursion.
func BuildDumpDatabase(includeCompleted bool, maxDepth int) (string, error) {
	const op = "dump_database"
	if maxDepth < 1 {
		return "", newError(KindValidation, op, "max depth must be at least 1, got %d", maxDepth)
	}
	body := fmt.Sprintf(`    const includeCompleted = %s;
    const maxDepth = %d;
    const statusName = p => {
      if (p.status === Project.Status.OnHold) return "on-hold";
      if (p.status === Project.Status.Done) return "done";
      if (p.status === Project.Status.Dropped) return "dropped";
      return "active";
    };
    function mapTree(task, depth) {
      if (depth >= maxDepth) return null;
      if (!includeCompleted && task.completed) return null;
      const children = task.children
        .map(child => mapTree(child, depth + 1))
        .filter(c => c !== null);
      return {
        id: task.id.primaryKey,
        name: task.name,
        note: task.note || "",
        completed: task.completed,
        flagged: task.flagged,
        tags: task.tags.map(t => t.name),
        due: task.dueDate ? task.dueDate.toISOString() : null,
        defer: task.deferDate ? task.deferDate.toISOString() : null,
        children: children
      };
    }
    const projectsData = flattenedProjects.map(p => ({
      id: p.id.primaryKey,
      name: p.name,
      status: statusName(p),
      sequential: p.sequential,
      folder: p.parentFolder ? p.parentFolder.name : null,
      tasks: p.task.children.map(t => mapTree(t, 0)).filter(t => t !== null)
    }));
    const tagsData = flattenedTags.map(t => ({
      id: t.id.primaryKey,
      name: t.name,
      parent: t.parent ? t.parent.name : null
    }));
    const inboxData = inbox.map(t => mapTree(t, 0)).filter(t => t !== null);
    return JSON.stringify({
      projects: projectsData,
      tags: tagsData,
      inbox: inboxData,
      stats: {
        total_projects: flattenedProjects.length,
        active_projects: flattenedProjects.filter(p => p.status === Project.Status.Active).length,
        total_tasks: flattenedTasks.length,
        remaining_tasks: flattenedTasks.filter(t => !t.completed).length,
        flagged_tasks: flattenedTasks.filter(t => !t.completed && t.flagged).length
      }
    });`, jsBool(includeCompleted), maxDepth)
	return iife(body), nil
}
