// Package templates renders synthesized bindings as Rust source text.
package templates

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/toyz/jenny/internal/errors"
	"github.com/toyz/jenny/internal/models"
)

const (
	// GeneratedHeader marks every file written by the generator
	GeneratedHeader = "// Code generated by jenny. DO NOT EDIT."

	BindingFileTemplateName = "binding-file"
	BindingTemplateName     = "binding"
)

// FileData is the template input for one generated file
type FileData struct {
	Header     string
	SourcePath string
	Bindings   []BindingData
}

// BindingData is the template input for one exported entry point
type BindingData struct {
	Function     string
	Symbol       string
	ModuleName   string
	Generics     string
	Params       []models.ExportedParameter
	ReturnType   string
	Statements   []string
	Tail         string
	RuntimeCrate string
	Location     string
}

var defaultRegistry = NewTemplateRegistry()

// GenerateBindingFile renders all bindings of one source file. sourcePath is
// recorded in the header and should be relative to the crate for stable output.
func GenerateBindingFile(sourcePath, runtimeCrate string, bindings []*models.GeneratedBinding) (string, error) {
	data := FileData{
		Header:     GeneratedHeader,
		SourcePath: sourcePath,
	}
	for _, binding := range bindings {
		data.Bindings = append(data.Bindings, NewBindingData(binding, runtimeCrate))
	}

	content, err := executeTemplate(BindingFileTemplateName, data)
	if err != nil {
		return "", err
	}
	return tidy(content), nil
}

// GenerateBinding renders a single binding module
func GenerateBinding(binding *models.GeneratedBinding, runtimeCrate string) (string, error) {
	return executeTemplate(BindingTemplateName, NewBindingData(binding, runtimeCrate))
}

// NewBindingData flattens a binding into statements ready for the template
func NewBindingData(binding *models.GeneratedBinding, runtimeCrate string) BindingData {
	data := BindingData{
		Function:     binding.Function,
		Symbol:       binding.Symbol,
		ModuleName:   binding.ModuleName,
		Generics:     Generics(binding.Lifetimes),
		Params:       binding.Parameters,
		ReturnType:   binding.ReturnType,
		RuntimeCrate: runtimeCrate,
		Location:     binding.Location.String(),
	}
	for _, step := range binding.Body {
		if step.IsTail() {
			data.Tail = step.Expr
			continue
		}
		data.Statements = append(data.Statements, Statement(step))
	}
	return data
}

// executeTemplate executes a registered template with the given data
func executeTemplate(name string, data interface{}) (string, error) {
	funcMap := template.FuncMap{
		"join": strings.Join,
	}

	tmpl := template.New("jenny").Funcs(funcMap)
	for _, other := range defaultRegistry.Names() {
		if _, err := tmpl.New(other).Parse(defaultRegistry.MustGet(other)); err != nil {
			return "", errors.WrapTemplateError(other, "parse", err)
		}
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return "", errors.WrapTemplateError(name, "execute", err)
	}
	return buf.String(), nil
}

// ExecuteTemplate executes a named template with the given data (exported version)
func ExecuteTemplate(name string, data interface{}) (string, error) {
	if _, ok := defaultRegistry.Get(name); !ok {
		return "", errors.WrapTemplateError(name, "find", fmt.Errorf("template not registered"))
	}
	return executeTemplate(name, data)
}
