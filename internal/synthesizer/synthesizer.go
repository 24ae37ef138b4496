// Package synthesizer turns a native function signature into a JNI entry point.
//
// For every parameter it selects an owned or borrowed conversion, then builds
// a body that converts the incoming JVM values, forwards them to the native
// function and converts the result back. Synthesis is pure: the same inputs
// always produce a structurally identical binding.
package synthesizer

import (
	"fmt"
	"strings"

	"github.com/toyz/jenny/internal/errors"
	"github.com/toyz/jenny/internal/mangler"
	"github.com/toyz/jenny/internal/models"
)

const (
	// DefaultRuntimeCrate is the crate providing the JVM conversion traits
	DefaultRuntimeCrate = "jenny"

	// EnvLifetime is the lifetime of the JNI environment handle
	EnvLifetime = "'__jenny_env"

	// EnvParam and ClassParam are the two context parameters of every entry point
	EnvParam   = "__jenny_jni_env"
	ClassParam = "__jenny_jni_class"
)

// Tracer receives an optional trace of every synthesized binding
type Tracer interface {
	Debug(format string, args ...interface{})
}

// Config configures a Synthesizer
type Config struct {
	// DefaultPackage is the Java package for functions without a class override
	DefaultPackage string

	// RuntimeCrate is the path of the runtime crate, "jenny" when empty
	RuntimeCrate string

	// Tracer, when set, receives a rendering of each binding
	Tracer Tracer
}

// Synthesizer builds GeneratedBinding values. It keeps no per-call state and
// may be shared between goroutines.
type Synthesizer struct {
	mangler *mangler.Mangler
	runtime string
	tracer  Tracer
}

// NewSynthesizer creates a synthesizer with default settings
func NewSynthesizer() *Synthesizer {
	return NewSynthesizerWithConfig(Config{})
}

// NewSynthesizerWithConfig creates a synthesizer from config
func NewSynthesizerWithConfig(config Config) *Synthesizer {
	runtime := config.RuntimeCrate
	if runtime == "" {
		runtime = DefaultRuntimeCrate
	}
	return &Synthesizer{
		mangler: mangler.NewMangler(config.DefaultPackage),
		runtime: runtime,
		tracer:  config.Tracer,
	}
}

// RuntimeCrate returns the runtime crate path used in generated code
func (s *Synthesizer) RuntimeCrate() string {
	return s.runtime
}

// SyntheticName returns the positional name of the parameter at index
func SyntheticName(index int) string {
	return fmt.Sprintf("arg_%d", index)
}

// Synthesize builds the JNI entry point for sig. It fails without partial
// output when options are malformed, a parameter is a receiver or the
// identifier cannot appear in a symbol.
func (s *Synthesizer) Synthesize(sig models.FunctionSignature, opts models.BindingOptions) (*models.GeneratedBinding, error) {
	if err := opts.Validate(); err != nil {
		if bindingErr, ok := err.(*errors.BindingError); ok {
			return nil, bindingErr.WithFunction(sig.Identifier).WithLocation(sig.Location)
		}
		return nil, err
	}

	for i, param := range sig.Parameters {
		if param.IsReceiver() {
			return nil, errors.NewUnsupportedSelfParameterError(sig.Identifier, param.Receiver, i).
				WithLocation(sig.Location)
		}
	}

	// raw identifiers like r#type export under their plain name
	name := strings.TrimPrefix(sig.Identifier, "r#")
	if !(opts.HasClass() && opts.HasName()) && !models.IsJavaIdentifier(name) {
		return nil, errors.NewUnsupportedInputShapeError(fmt.Sprintf("function '%s'", sig.Identifier),
			"only ASCII identifiers can be mangled; set class and name explicitly").
			WithFunction(sig.Identifier).
			WithLocation(sig.Location)
	}

	symbol := s.mangler.Mangle(name, opts)

	binding := &models.GeneratedBinding{
		Symbol:     symbol,
		ModuleName: "mod_" + symbol,
		Function:   sig.Identifier,
		Lifetimes:  exportedLifetimes(sig.Lifetimes),
		Parameters: []models.ExportedParameter{
			{Name: EnvParam, Type: fmt.Sprintf("%s::JNIEnv<%s>", s.runtime, EnvLifetime)},
			{Name: ClassParam, Type: s.runtime + "::JClass"},
		},
		Location: sig.Location,
	}

	callArgs := make([]string, 0, len(sig.Parameters))
	for i, param := range sig.Parameters {
		marshalled, steps := s.marshalParameter(i, param)
		binding.Marshalled = append(binding.Marshalled, marshalled)
		binding.Parameters = append(binding.Parameters, models.ExportedParameter{
			Name: marshalled.Name,
			Type: marshalled.ExportedType,
		})
		binding.Body = append(binding.Body, steps...)
		callArgs = append(callArgs, marshalled.CallArg)
	}

	call := fmt.Sprintf("super::%s(%s)", sig.Identifier, strings.Join(callArgs, ", "))
	binding.ReturnType, binding.Body = s.marshalReturn(sig.Return, call, binding.Body)

	if s.tracer != nil {
		s.tracer.Debug("synthesized %s for %s:\n%s", binding.Symbol, sig.Identifier, Describe(binding))
	}

	return binding, nil
}

// marshalParameter applies the owned or borrowed conversion policy to one parameter
func (s *Synthesizer) marshalParameter(index int, param models.Parameter) (models.MarshalledParameter, []models.BodyStep) {
	name := SyntheticName(index)
	ownership := models.ClassifyOwnership(param.Type)

	if ownership.Kind == models.Borrowed {
		target := param.Type.Elem.String()
		view := name + "_ref"
		borrowTrait := s.trait(target, "BorrowFromJvmValue")
		return models.MarshalledParameter{
				Index:     index,
				Name:      name,
				Ownership: ownership,
				ExportedType: fmt.Sprintf("<<%s as %s::BorrowFromJvmValue<%s>>::Impl as %s::BorrowFromJvmValueImpl<%s>>::JvmValue",
					target, s.runtime, EnvLifetime, s.runtime, EnvLifetime),
				CallArg: view,
			}, []models.BodyStep{
				{
					Kind:  models.StepConvertToTemporary,
					Index: index,
					Bind:  name,
					Expr:  fmt.Sprintf("%s::jvm_type_into_tmp(&%s, %s)", borrowTrait, EnvParam, name),
				},
				{
					Kind:  models.StepBorrowTemporary,
					Index: index,
					Bind:  view,
					Expr:  fmt.Sprintf("%s::tmp_as_ref(&%s)", borrowTrait, name),
				},
			}
	}

	typ := param.Type.String()
	return models.MarshalledParameter{
			Index:        index,
			Name:         name,
			Ownership:    ownership,
			ExportedType: fmt.Sprintf("<%s as %s::FromJvmValue<%s>>::JvmValue", typ, s.runtime, EnvLifetime),
			CallArg:      name,
		}, []models.BodyStep{
			{
				Kind:  models.StepConvertOwned,
				Index: index,
				Bind:  name,
				Expr:  fmt.Sprintf("%s::from_jvm_type(&%s, %s)", s.trait(typ, "FromJvmValue"), EnvParam, name),
			},
		}
}

// marshalReturn appends the forwarding call and, when the function returns a
// value other than (), wraps it in the into-JVM conversion
func (s *Synthesizer) marshalReturn(ret *models.TypeDescriptor, call string, body []models.BodyStep) (string, []models.BodyStep) {
	if ret == nil || ret.IsUnit() {
		return "()", append(body, models.BodyStep{Kind: models.StepForwardCall, Index: -1, Expr: call})
	}

	typ := ret.String()
	result := "__jenny_result"
	body = append(body,
		models.BodyStep{Kind: models.StepForwardCall, Index: -1, Bind: result, Expr: call},
		models.BodyStep{
			Kind:  models.StepConvertReturn,
			Index: -1,
			Expr:  fmt.Sprintf("%s::into_jvm_type(%s, &%s)", s.trait(typ, "IntoJvmValue"), result, EnvParam),
		},
	)
	return fmt.Sprintf("<%s as %s::IntoJvmValue<%s>>::JvmValue", typ, s.runtime, EnvLifetime), body
}

// trait renders the fully qualified `<T as runtime::Trait<'__jenny_env>>` path
func (s *Synthesizer) trait(typ, trait string) string {
	return fmt.Sprintf("<%s as %s::%s<%s>>", typ, s.runtime, trait, EnvLifetime)
}

// exportedLifetimes places the environment lifetime ahead of the declared ones
func exportedLifetimes(declared []models.LifetimeParam) []string {
	lifetimes := make([]string, 0, len(declared)+1)
	lifetimes = append(lifetimes, EnvLifetime)
	for _, lt := range declared {
		lifetimes = append(lifetimes, lt.String())
	}
	return lifetimes
}

// Describe renders a compact, human readable view of a binding for traces
func Describe(b *models.GeneratedBinding) string {
	var out strings.Builder
	fmt.Fprintf(&out, "  symbol: %s\n", b.Symbol)
	for _, p := range b.Parameters {
		fmt.Fprintf(&out, "  param:  %s: %s\n", p.Name, p.Type)
	}
	fmt.Fprintf(&out, "  return: %s\n", b.ReturnType)
	for _, step := range b.Body {
		if step.IsTail() {
			fmt.Fprintf(&out, "  [%s] %s\n", step.Kind, step.Expr)
		} else {
			fmt.Fprintf(&out, "  [%s] let %s = %s\n", step.Kind, step.Bind, step.Expr)
		}
	}
	return out.String()
}
