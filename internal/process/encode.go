package process

// Flag names understood by the dashboard script, in the order they are sent.
const (
	FlagPlanID    = "plan-id"
	FlagCourseID  = "course-id"
	FlagPatientID = "patient-id"
)

// EncodeArg formats one flag as ` --<name> "<value>"`.
//
// A nil value is sent as an empty quoted string so the flag is always present.
// Quotes and backslashes inside value are not escaped: the dashboard parses
// this exact form.
func EncodeArg(name string, value *string) string {
	v := ""
	if value != nil {
		v = *value
	}
	return " --" + name + " \"" + v + "\""
}

// Flag is a named, possibly absent, command-line value.
type Flag struct {
	Name  string
	Value *string
}

// Fragment returns the encoded form of f.
func (f Flag) Fragment() string {
	return EncodeArg(f.Name, f.Value)
}

// value returns the flag value with absent mapped to "".
func (f Flag) value() string {
	if f.Value == nil {
		return ""
	}
	return *f.Value
}
