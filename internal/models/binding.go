package models

// StepKind identifies the role of a statement in a generated binding body
type StepKind int

const (
	StepConvertOwned StepKind = iota
	StepConvertToTemporary
	StepBorrowTemporary
	StepForwardCall
	StepConvertReturn
)

// String returns the string representation of the step kind
func (k StepKind) String() string {
	switch k {
	case StepConvertOwned:
		return "convert_owned"
	case StepConvertToTemporary:
		return "convert_to_temporary"
	case StepBorrowTemporary:
		return "borrow_temporary"
	case StepForwardCall:
		return "forward_call"
	case StepConvertReturn:
		return "convert_return"
	default:
		return "unknown"
	}
}

// BodyStep is one ordered statement of a generated binding body
type BodyStep struct {
	Kind  StepKind
	Index int    // original parameter position, -1 for call and return steps
	Bind  string // name introduced by a `let`, empty for tail expressions
	Expr  string // rendered Rust expression
}

// IsTail reports whether the step is the tail expression of the body
func (s BodyStep) IsTail() bool {
	return s.Bind == ""
}

// ExportedParameter is one parameter of the exported entry point
type ExportedParameter struct {
	Name string
	Type string
}

// MarshalledParameter records the decision taken for one original parameter
type MarshalledParameter struct {
	Index        int
	Name         string // synthetic name
	Ownership    Ownership
	ExportedType string
	CallArg      string // what the forwarding call receives
}

// GeneratedBinding is the synthesized JNI entry point for one native function
type GeneratedBinding struct {
	Symbol     string
	ModuleName string
	Function   string // identifier of the wrapped native function
	Lifetimes  []string
	Parameters []ExportedParameter // environment, class, then mapped parameters
	Marshalled []MarshalledParameter
	ReturnType string
	Body       []BodyStep
	Location   SourceLocation
}

// StepsFor returns the conversion steps emitted for one original parameter
func (b *GeneratedBinding) StepsFor(index int) []BodyStep {
	var steps []BodyStep
	for _, step := range b.Body {
		if step.Index == index {
			steps = append(steps, step)
		}
	}
	return steps
}

// GeneratedFile is the rendered output for one source file
type GeneratedFile struct {
	SourcePath string
	FilePath   string
	Content    string
	Bindings   []*GeneratedBinding
}
