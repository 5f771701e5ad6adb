package provisioning

import (
	"fmt"
	"strings"
)

// StepStatus classifies the outcome of a deployment step.
type StepStatus string

const (
	// StepOK means the step created its resource.
	StepOK StepStatus = "ok"
	// StepExists means the resource already existed and was reused.
	StepExists StepStatus = "exists"
	// StepWarned means a best-effort step failed without aborting the
	// deployment.
	StepWarned StepStatus = "warned"
	// StepFailed means a required step failed and the deployment aborted.
	StepFailed StepStatus = "failed"
)

// StepResult records the outcome of a single deployment step.
type StepResult struct {
	Name   string
	Status StepStatus
	Detail string
}

// Report is the structured outcome of a deployment run: every step with
// its status, distinguishing "already complete" from "blocked". Warnings
// do not make the deployment a failure.
type Report struct {
	Steps []StepResult
}

// Add appends a step result.
func (r *Report) Add(name string, status StepStatus, detail string) {
	r.Steps = append(r.Steps, StepResult{Name: name, Status: status, Detail: detail})
}

// Failed reports whether any required step failed.
func (r *Report) Failed() bool {
	for _, s := range r.Steps {
		if s.Status == StepFailed {
			return true
		}
	}
	return false
}

// Warnings returns the best-effort steps that failed.
func (r *Report) Warnings() []StepResult {
	var warned []StepResult
	for _, s := range r.Steps {
		if s.Status == StepWarned {
			warned = append(warned, s)
		}
	}
	return warned
}

// String renders the report for console output.
func (r *Report) String() string {
	var b strings.Builder
	for _, s := range r.Steps {
		marker := "+"
		switch s.Status {
		case StepExists:
			marker = "="
		case StepWarned:
			marker = "!"
		case StepFailed:
			marker = "x"
		}
		fmt.Fprintf(&b, "%s %-24s %s", marker, s.Name, s.Status)
		if s.Detail != "" {
			fmt.Fprintf(&b, " (%s)", s.Detail)
		}
		b.WriteString("\n")
	}
	return b.String()
}
