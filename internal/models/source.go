package models

// AnnotatedItem is one #[jni] annotated declaration handed over by the front end.
// Err is set when the declaration could not be turned into a signature; the
// remaining items of the file are unaffected.
type AnnotatedItem struct {
	Signature FunctionSignature
	Options   BindingOptions
	Location  SourceLocation
	Raw       string // attribute text as written
	Err       error
}

// SourceFile holds every annotated item found in one Rust source file
type SourceFile struct {
	Path  string
	Items []AnnotatedItem
}

// Signatures returns the items that parsed successfully
func (f *SourceFile) Signatures() []AnnotatedItem {
	var ok []AnnotatedItem
	for _, item := range f.Items {
		if item.Err == nil {
			ok = append(ok, item)
		}
	}
	return ok
}

// Failures returns the items that failed to parse
func (f *SourceFile) Failures() []AnnotatedItem {
	var failed []AnnotatedItem
	for _, item := range f.Items {
		if item.Err != nil {
			failed = append(failed, item)
		}
	}
	return failed
}
