package lint

// Result holds the messages of one check.
type Result struct {
	Warnings []string `json:"warnings,omitempty"`
	Errors   []string `json:"errors,omitempty"`
}

// HasErrors reports whether any error was found.
func (r Result) HasErrors() bool {
	return len(r.Errors) > 0
}

// Empty reports whether nothing was found.
func (r Result) Empty() bool {
	return len(r.Warnings) == 0 && len(r.Errors) == 0
}

type messenger interface {
	Warnings() []string
	Errors() []string
}

func (r *Result) add(m messenger) {
	r.Warnings = append(r.Warnings, m.Warnings()...)
	r.Errors = append(r.Errors, m.Errors()...)
}

// FileResult holds the messages for one workflow.
type FileResult struct {
	// Path is slash-separated and relative to the project root.
	Path string `json:"path"`
	// Library is set when the library rules were applied.
	Library  bool     `json:"library,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
	Errors   []string `json:"errors,omitempty"`
}

// Result returns the messages of the file.
func (f FileResult) Result() Result {
	return Result{Warnings: f.Warnings, Errors: f.Errors}
}

// Report is the outcome of a run.
type Report struct {
	// Root is the project directory.
	Root string `json:"root"`
	// Name is the project name, when the project has a manifest.
	Name    string       `json:"name,omitempty"`
	Files   []FileResult `json:"files"`
	Project Result       `json:"project"`
	// Offline is set when the project rules were skipped.
	Offline bool `json:"offline,omitempty"`
}

// HasErrors reports whether an error was found in any workflow or in the
// project. Warnings alone do not count.
func (r *Report) HasErrors() bool {
	if r.Project.HasErrors() {
		return true
	}

	for _, f := range r.Files {
		if len(f.Errors) > 0 {
			return true
		}
	}

	return false
}

// Totals returns the number of warnings and errors across the report.
func (r *Report) Totals() (warnings, errors int) {
	warnings, errors = len(r.Project.Warnings), len(r.Project.Errors)
	for _, f := range r.Files {
		warnings += len(f.Warnings)
		errors += len(f.Errors)
	}

	return warnings, errors
}

// FilesWithProblems returns the number of workflows with a warning or error.
func (r *Report) FilesWithProblems() int {
	n := 0
	for _, f := range r.Files {
		if !f.Result().Empty() {
			n++
		}
	}

	return n
}
