package omnifocus

import "strings"

// Transport text is the compact, order-sensitive grammar the host's native
// task parser accepts for one-line task creation:
//
//	NAME [::PROJECT] [@TAG]* [#DEFER] [#DUE] [!]
//
// Tokens are whitespace separated. A single date token is read by the host
// as the due date; with two, the first is defer and the second due. The
// order is a documented host quirk, not a choice: the encoder always emits
// defer before due. The grammar has no escaping, so values containing
// grammar-significant characters cannot be encoded at all; callers fall
// back to structured creation (BuildAddTaskStructured) instead.

// transportUnsafe reports whether s contains characters that are
// significant to the transport-text grammar and therefore cannot be
// represented in it.
func transportUnsafe(s string) bool {
	if strings.Contains(s, "::") {
		return true
	}
	if strings.ContainsAny(s, "@#!") {
		return true
	}
	// The grammar is a single line of space-separated tokens; any other
	// whitespace would change tokenization.
	for _, r := range s {
		if r == '\n' || r == '\r' || r == '\t' || r == '\v' || r == '\f' {
			return true
		}
	}
	return false
}

// EncodeTransportText renders a TaskInput as one line of transport text.
// The note is not part of the grammar and is assigned separately by the
// creation script. Returns an encoding error if any field contains
// grammar-significant characters.
func EncodeTransportText(in TaskInput) (string, error) {
	const op = "encode_transport_text"

	fields := []struct {
		label string
		value string
	}{
		{"name", in.Name},
		{"project", in.Project},
		{"defer date", in.DeferDate},
		{"due date", in.DueDate},
		{"context", in.Context},
	}
	for _, f := range fields {
		if transportUnsafe(f.value) {
			return "", newError(KindEncoding, op,
				"%s %q contains transport-text grammar characters", f.label, f.value)
		}
	}
	for _, tag := range in.Tags {
		if tag == "" {
			return "", newError(KindEncoding, op, "tag name must not be empty")
		}
		if transportUnsafe(tag) {
			return "", newError(KindEncoding, op,
				"tag %q contains transport-text grammar characters", tag)
		}
	}

	parts := []string{in.Name}
	if in.Project != "" {
		parts = append(parts, "::"+in.Project)
	}
	for _, tag := range in.Tags {
		parts = append(parts, "@"+tag)
	}
	if in.Context != "" {
		// Legacy contexts became tags in OmniFocus 3.
		parts = append(parts, "@"+in.Context)
	}
	// Defer always precedes due. With a single date token the host reads
	// it as due; a defer-only encoding therefore sets the due slot, which
	// is the host's documented behavior for one token.
	if in.DeferDate != "" {
		parts = append(parts, "#"+in.DeferDate)
	}
	if in.DueDate != "" {
		parts = append(parts, "#"+in.DueDate)
	}
	if in.Flagged {
		parts = append(parts, "!")
	}

	return strings.Join(parts, " "), nil
}

// ParseTransportText decodes a line of transport text back into a
// TaskInput. It implements the same grammar as the host parser: leading
// tokens form the name, "::" starts the project, "@" starts a tag, "#"
// starts a date, a trailing bare "!" sets the flag, and unmarked tokens
// continue the most recent value. One date token is due; two are defer
// then due.
func ParseTransportText(text string) TaskInput {
	var in TaskInput
	var dates []string

	// current points at the value the next unmarked token extends.
	appendWord := func(dst *string, word string) {
		if *dst == "" {
			*dst = word
		} else {
			*dst += " " + word
		}
	}
	current := &in.Name

	for _, tok := range strings.Fields(text) {
		switch {
		case tok == "!":
			in.Flagged = true
			current = nil
		case strings.HasPrefix(tok, "::"):
			in.Project = strings.TrimPrefix(tok, "::")
			current = &in.Project
		case strings.HasPrefix(tok, "@"):
			in.Tags = append(in.Tags, strings.TrimPrefix(tok, "@"))
			current = &in.Tags[len(in.Tags)-1]
		case strings.HasPrefix(tok, "#"):
			dates = append(dates, strings.TrimPrefix(tok, "#"))
			current = &dates[len(dates)-1]
		default:
			if current != nil {
				appendWord(current, tok)
			}
		}
	}

	switch len(dates) {
	case 0:
	case 1:
		in.DueDate = dates[0]
	default:
		in.DeferDate = dates[0]
		in.DueDate = dates[1]
	}

	return in
}
