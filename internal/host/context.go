// Package host models the read-only context the treatment-planning host
// hands to the launcher: the open plan, its course and the patient.
package host

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// Context is the host context for one invocation.
// Every identifier is nullable; a nil pointer means the host did not supply it.
type Context struct {
	PlanSetup *PlanSetup `json:"PlanSetup"`
	Patient   *Patient   `json:"Patient"`
}

// PlanSetup is the currently open treatment plan.
type PlanSetup struct {
	ID     *string `json:"Id"`
	Course *Course `json:"Course"`
}

// Course is the parent course of a plan.
type Course struct {
	ID *string `json:"Id"`
}

// Patient is the patient the plan belongs to.
type Patient struct {
	ID *string `json:"Id"`
}

// New builds a Context from the three identifiers.
// Any argument may be nil.
func New(planID, courseID, patientID *string) *Context {
	return &Context{
		PlanSetup: &PlanSetup{
			ID:     planID,
			Course: &Course{ID: courseID},
		},
		Patient: &Patient{ID: patientID},
	}
}

// PlanID returns PlanSetup.Id, or nil when absent.
func (c *Context) PlanID() *string {
	if c == nil || c.PlanSetup == nil {
		return nil
	}
	return c.PlanSetup.ID
}

// CourseID returns PlanSetup.Course.Id. The course is reached through the
// plan, so a missing plan or course yields nil.
func (c *Context) CourseID() *string {
	if c == nil || c.PlanSetup == nil || c.PlanSetup.Course == nil {
		return nil
	}
	return c.PlanSetup.Course.ID
}

// PatientID returns Patient.Id, or nil when absent.
func (c *Context) PatientID() *string {
	if c == nil || c.Patient == nil {
		return nil
	}
	return c.Patient.ID
}

// Override returns a copy of c where every non-nil argument replaces the
// corresponding identifier. c itself is not modified.
func (c *Context) Override(planID, courseID, patientID *string) *Context {
	out := New(c.PlanID(), c.CourseID(), c.PatientID())
	if planID != nil {
		out.PlanSetup.ID = planID
	}
	if courseID != nil {
		out.PlanSetup.Course.ID = courseID
	}
	if patientID != nil {
		out.Patient.ID = patientID
	}
	return out
}

// Load decodes a host context JSON document.
func Load(r io.Reader) (*Context, error) {
	var c Context
	if err := json.NewDecoder(r).Decode(&c); err != nil {
		return nil, fmt.Errorf("decode host context: %w", err)
	}
	return &c, nil
}

// LoadFile reads a host context from path. "-" reads standard input.
func LoadFile(path string) (*Context, error) {
	if path == "-" {
		return Load(os.Stdin)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open host context: %w", err)
	}
	defer f.Close()

	return Load(f)
}

// String returns a pointer to s.
func String(s string) *string {
	return &s
}

// Value dereferences p, mapping nil to the empty string.
func Value(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
