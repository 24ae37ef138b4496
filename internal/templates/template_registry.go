package templates

// TemplateRegistry provides a centralized way to access all templates
type TemplateRegistry struct {
	templates map[string]string
}

// NewTemplateRegistry creates a new template registry with all templates
func NewTemplateRegistry() *TemplateRegistry {
	registry := &TemplateRegistry{
		templates: make(map[string]string),
	}

	registry.registerBindingTemplates()

	return registry
}

// Get retrieves a template by name
func (tr *TemplateRegistry) Get(name string) (string, bool) {
	template, exists := tr.templates[name]
	return template, exists
}

// MustGet retrieves a template by name, panics if not found
func (tr *TemplateRegistry) MustGet(name string) string {
	template, exists := tr.templates[name]
	if !exists {
		panic("template not found: " + name)
	}
	return template
}

// Names returns the registered template names
func (tr *TemplateRegistry) Names() []string {
	names := make([]string, 0, len(tr.templates))
	for name := range tr.templates {
		names = append(names, name)
	}
	return names
}

// registerBindingTemplates registers the JNI binding templates
func (tr *TemplateRegistry) registerBindingTemplates() {
	tr.templates[BindingFileTemplateName] = `{{.Header}}
// source: {{.SourcePath}}
{{range .Bindings}}
{{template "` + BindingTemplateName + `" .}}
{{end}}`

	tr.templates[BindingTemplateName] = `/// JNI entry point for ` + "`{{.Function}}`" + ` ({{.Location}})
#[allow(non_snake_case, unused_imports, unused_variables)]
pub mod {{.ModuleName}} {
    use super::*;

    #[no_mangle]
    pub extern "system" fn {{.Symbol}}{{.Generics}}(
{{- range .Params}}
        {{.Name}}: {{.Type}},
{{- end}}
    ) -> {{.ReturnType}} {
        use {{.RuntimeCrate}}::{BorrowFromJvmValue, BorrowFromJvmValueImpl, FromJvmValue, IntoJvmValue};
{{- range .Statements}}
        {{.}}
{{- end}}
        {{.Tail}}
    }
}`
}
