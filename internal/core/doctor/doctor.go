// Package doctor runs health checks against the configuration and the task file.
package doctor

import (
	"context"
	"fmt"
)

// Status is the outcome of a single check item.
type Status string

const (
	StatusPass Status = "pass"
	StatusWarn Status = "warn"
	StatusFail Status = "fail"
)

// CheckItem is one line of a check result, such as a single task record.
// Fixable items are repaired by rewriting the task file in canonical form.
type CheckItem struct {
	Label   string `json:"label"`
	Status  Status `json:"status"`
	Detail  string `json:"detail,omitempty"`
	Fixable bool   `json:"fixable,omitempty"`
}

// Result groups the items reported by one check.
type Result struct {
	Name  string      `json:"name"`
	Items []CheckItem `json:"items"`
}

type Check interface {
	Name() string
	Run(ctx context.Context) Result
}

// RunAll runs checks in order.
func RunAll(ctx context.Context, checks []Check) []Result {
	results := make([]Result, 0, len(checks))
	for _, check := range checks {
		results = append(results, check.Run(ctx))
	}
	return results
}

// Tally counts check items by status. Fixable counts only warn and fail items
// marked fixable.
type Tally struct {
	Passed  int `json:"passed"`
	Warned  int `json:"warned"`
	Failed  int `json:"failed"`
	Fixable int `json:"fixable"`
}

// Summarize tallies every item across results.
func Summarize(results []Result) Tally {
	var t Tally
	for _, r := range results {
		for _, item := range r.Items {
			switch item.Status {
			case StatusPass:
				t.Passed++
			case StatusWarn:
				t.Warned++
			case StatusFail:
				t.Failed++
			}
			if item.Fixable && item.Status != StatusPass {
				t.Fixable++
			}
		}
	}
	return t
}

// Healthy reports whether no item failed. Warnings do not make the task file
// unusable.
func (t Tally) Healthy() bool {
	return t.Failed == 0
}

func (t Tally) String() string {
	return fmt.Sprintf("%d passed, %d warnings, %d failed", t.Passed, t.Warned, t.Failed)
}
