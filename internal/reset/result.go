package reset

// Result is the aggregate outcome of one reset run. Success is true iff no
// errors accumulated; every attempted step contributes at most one entry to
// exactly one of the two lists. Steps whose target is already absent
// contribute nothing, which is what makes a second run read as a near-empty
// report rather than a failure.
type Result struct {
	RunID        string   `json:"run_id"`
	Success      bool     `json:"success"`
	Errors       []string `json:"errors"`
	ClearedItems []string `json:"cleared_items"`
}

// report accumulates entries in execution order while the steps run.
type report struct {
	runID   string
	errors  []string
	cleared []string
}

func (r *report) fail(msg string) {
	r.errors = append(r.errors, msg)
}

func (r *report) clearedItem(label string) {
	r.cleared = append(r.cleared, label)
}

func (r *report) result() Result {
	errs := r.errors
	if errs == nil {
		errs = []string{}
	}
	cleared := r.cleared
	if cleared == nil {
		cleared = []string{}
	}
	return Result{
		RunID:        r.runID,
		Success:      len(errs) == 0,
		Errors:       errs,
		ClearedItems: cleared,
	}
}
