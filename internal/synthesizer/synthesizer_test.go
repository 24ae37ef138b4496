package synthesizer

import (
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/toyz/jenny/internal/errors"
	"github.com/toyz/jenny/internal/models"
)

func signature(name string, ret *models.TypeDescriptor, params ...models.Parameter) models.FunctionSignature {
	return models.FunctionSignature{
		Identifier: name,
		Parameters: params,
		Return:     ret,
		Location:   models.SourceLocation{File: "src/lib.rs", Line: 12, Column: 1},
	}
}

type recordingTracer struct {
	lines []string
}

func (r *recordingTracer) Debug(format string, args ...interface{}) {
	r.lines = append(r.lines, fmt.Sprintf(format, args...))
}

func forwardCall(t *testing.T, binding *models.GeneratedBinding) models.BodyStep {
	t.Helper()
	for _, step := range binding.Body {
		if step.Kind == models.StepForwardCall {
			return step
		}
	}
	t.Fatalf("no forwarding call in %s", binding.Symbol)
	return models.BodyStep{}
}

func TestSynthesize_OwnedParameters(t *testing.T) {
	s := NewSynthesizer()
	sig := signature("add", models.PathType("i32"),
		models.NewParameter("a", models.PathType("i32")),
		models.NewParameter("b", models.PathType("i32")),
	)

	binding, err := s.Synthesize(sig, models.BindingOptions{})
	require.NoError(t, err)

	assert.Equal(t, "Java_rust_jenny_Add_add", binding.Symbol)
	assert.Equal(t, "mod_Java_rust_jenny_Add_add", binding.ModuleName)
	assert.Equal(t, []string{"'__jenny_env"}, binding.Lifetimes)

	require.Len(t, binding.Parameters, 4)
	assert.Equal(t, models.ExportedParameter{Name: "__jenny_jni_env", Type: "jenny::JNIEnv<'__jenny_env>"}, binding.Parameters[0])
	assert.Equal(t, models.ExportedParameter{Name: "__jenny_jni_class", Type: "jenny::JClass"}, binding.Parameters[1])
	assert.Equal(t, "arg_0", binding.Parameters[2].Name)
	assert.Equal(t, "<i32 as jenny::FromJvmValue<'__jenny_env>>::JvmValue", binding.Parameters[2].Type)
	assert.Equal(t, "arg_1", binding.Parameters[3].Name)

	assert.Equal(t, "<i32 as jenny::IntoJvmValue<'__jenny_env>>::JvmValue", binding.ReturnType)

	require.Len(t, binding.Body, 4)
	assert.Equal(t, models.BodyStep{
		Kind:  models.StepConvertOwned,
		Index: 0,
		Bind:  "arg_0",
		Expr:  "<i32 as jenny::FromJvmValue<'__jenny_env>>::from_jvm_type(&__jenny_jni_env, arg_0)",
	}, binding.Body[0])
	assert.Equal(t, models.StepConvertOwned, binding.Body[1].Kind)
	assert.Equal(t, 1, binding.Body[1].Index)

	call := forwardCall(t, binding)
	assert.Equal(t, "super::add(arg_0, arg_1)", call.Expr)
	assert.Equal(t, "__jenny_result", call.Bind)

	ret := binding.Body[3]
	assert.Equal(t, models.StepConvertReturn, ret.Kind)
	assert.True(t, ret.IsTail())
	assert.Equal(t, "<i32 as jenny::IntoJvmValue<'__jenny_env>>::into_jvm_type(__jenny_result, &__jenny_jni_env)", ret.Expr)
}

func TestSynthesize_BorrowedParameter(t *testing.T) {
	s := NewSynthesizer()
	sig := signature("greet", models.PathType("String"),
		models.NewParameter("count", models.PathType("u32")),
		models.NewParameter("name", models.RefType("'a", false, models.PathType("str"))),
	)
	sig.Lifetimes = []models.LifetimeParam{{Name: "'a"}}

	binding, err := s.Synthesize(sig, models.BindingOptions{Class: "com.example.Greeter"})
	require.NoError(t, err)

	assert.Equal(t, "Java_com_example_Greeter_greet", binding.Symbol)
	assert.Equal(t, []string{"'__jenny_env", "'a"}, binding.Lifetimes)
	assert.Equal(t,
		"<<str as jenny::BorrowFromJvmValue<'__jenny_env>>::Impl as jenny::BorrowFromJvmValueImpl<'__jenny_env>>::JvmValue",
		binding.Parameters[3].Type)

	steps := binding.StepsFor(1)
	require.Len(t, steps, 2, "borrowed parameters convert in two statements")
	assert.Equal(t, models.StepConvertToTemporary, steps[0].Kind)
	assert.Equal(t, "arg_1", steps[0].Bind)
	assert.Equal(t, "<str as jenny::BorrowFromJvmValue<'__jenny_env>>::jvm_type_into_tmp(&__jenny_jni_env, arg_1)", steps[0].Expr)
	assert.Equal(t, models.StepBorrowTemporary, steps[1].Kind)
	assert.Equal(t, "arg_1_ref", steps[1].Bind)
	assert.Equal(t, "<str as jenny::BorrowFromJvmValue<'__jenny_env>>::tmp_as_ref(&arg_1)", steps[1].Expr)

	assert.Len(t, binding.StepsFor(0), 1)

	call := forwardCall(t, binding)
	assert.Equal(t, "super::greet(arg_0, arg_1_ref)", call.Expr, "the call takes the borrowed view, not the temporary")

	require.Len(t, binding.Marshalled, 2)
	assert.Equal(t, models.Ownership{Kind: models.Borrowed, Lifetime: "'a"}, binding.Marshalled[1].Ownership)
	assert.Equal(t, "arg_1_ref", binding.Marshalled[1].CallArg)
}

func TestSynthesize_MutableBorrowUsesSameProjection(t *testing.T) {
	s := NewSynthesizer()
	sig := signature("fill", nil,
		models.NewParameter("buf", models.RefType("", true, &models.TypeDescriptor{
			Kind: models.TypeKindSlice,
			Elem: models.PathType("u8"),
		})),
	)

	binding, err := s.Synthesize(sig, models.BindingOptions{})
	require.NoError(t, err)

	assert.Equal(t, models.Borrowed, binding.Marshalled[0].Ownership.Kind)
	assert.Contains(t, binding.Parameters[2].Type, "<<[u8] as jenny::BorrowFromJvmValue")
	assert.Len(t, binding.StepsFor(0), 2)
}

func TestSynthesize_NoReturn(t *testing.T) {
	s := NewSynthesizer()
	sig := signature("log_line", nil, models.NewParameter("line", models.PathType("String")))

	binding, err := s.Synthesize(sig, models.BindingOptions{})
	require.NoError(t, err)

	assert.Equal(t, "()", binding.ReturnType)
	last := binding.Body[len(binding.Body)-1]
	assert.Equal(t, models.StepForwardCall, last.Kind)
	assert.True(t, last.IsTail())
	assert.Equal(t, "super::log_line(arg_0)", last.Expr)
	for _, step := range binding.Body {
		assert.NotEqual(t, models.StepConvertReturn, step.Kind)
	}
}

func TestSynthesize_ExplicitUnitReturn(t *testing.T) {
	binding, err := NewSynthesizer().Synthesize(signature("reset", models.UnitType()), models.BindingOptions{})
	require.NoError(t, err)

	assert.Equal(t, "()", binding.ReturnType)
	require.Len(t, binding.Body, 1)
	assert.True(t, binding.Body[0].IsTail())
	assert.Equal(t, "super::reset()", binding.Body[0].Expr)
}

func TestSynthesize_Identifiers(t *testing.T) {
	tests := []struct {
		name     string
		ident    string
		opts     models.BindingOptions
		expected string
		call     string
	}{
		{
			name:     "raw identifier",
			ident:    "r#type",
			expected: "Java_rust_jenny_Type_type",
			call:     "super::r#type()",
		},
		{
			name:     "non-ascii with both overrides",
			ident:    "grüße",
			opts:     models.BindingOptions{Class: "com.example.Greeter", Name: "greet"},
			expected: "Java_com_example_Greeter_greet",
			call:     "super::grüße()",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			binding, err := NewSynthesizer().Synthesize(signature(tt.ident, nil), tt.opts)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, binding.Symbol)
			assert.Equal(t, tt.call, forwardCall(t, binding).Expr)
		})
	}
}

func TestSynthesize_NonASCIIIdentifierRejected(t *testing.T) {
	for _, opts := range []models.BindingOptions{
		{},
		{Class: "com.example.Greeter"},
		{Name: "greet"},
	} {
		binding, err := NewSynthesizer().Synthesize(signature("ünï", nil), opts)
		require.Error(t, err)
		assert.Nil(t, binding)
		assert.True(t, errors.HasCode(err, errors.UnsupportedInputShapeCode), "got %v", err)
		assert.Contains(t, err.Error(), "src/lib.rs:12:1")
	}
}

func TestSynthesize_NoParameters(t *testing.T) {
	binding, err := NewSynthesizer().Synthesize(signature("now", models.PathType("i64")), models.BindingOptions{})
	require.NoError(t, err)

	assert.Len(t, binding.Parameters, 2)
	assert.Empty(t, binding.Marshalled)
	call := forwardCall(t, binding)
	assert.Equal(t, "super::now()", call.Expr)
}

func TestSynthesize_ParameterCountProperty(t *testing.T) {
	s := NewSynthesizer()
	for n := 0; n < 12; n++ {
		var params []models.Parameter
		for i := 0; i < n; i++ {
			typ := models.PathType("i64")
			if i%3 == 1 {
				typ = models.RefType("", false, models.PathType("str"))
			}
			params = append(params, models.NewParameter(fmt.Sprintf("p%d", i), typ))
		}

		binding, err := s.Synthesize(signature("f", nil, params...), models.BindingOptions{})
		require.NoError(t, err)
		assert.Len(t, binding.Parameters, 2+n)
		assert.Len(t, binding.Marshalled, n)

		seen := map[string]bool{}
		for i, m := range binding.Marshalled {
			assert.Equal(t, i, m.Index)
			assert.Equal(t, SyntheticName(i), m.Name)
			assert.False(t, seen[m.Name], "synthetic names are unique")
			seen[m.Name] = true
		}
	}
}

func TestSynthesize_SelfParameterRejected(t *testing.T) {
	receivers := []string{"self", "&self", "&mut self", "mut self"}

	for _, receiver := range receivers {
		t.Run(receiver, func(t *testing.T) {
			sig := signature("area", models.PathType("f64"),
				models.NewParameter("scale", models.PathType("f64")),
				models.NewReceiver(receiver),
			)

			binding, err := NewSynthesizer().Synthesize(sig, models.BindingOptions{})
			assert.Nil(t, binding, "no partial output")
			require.Error(t, err)
			assert.True(t, errors.HasCode(err, errors.UnsupportedSelfParameterCode))
			assert.Contains(t, err.Error(), receiver)
			assert.Contains(t, err.Error(), "src/lib.rs:12")
		})
	}
}

func TestSynthesize_MalformedOptions(t *testing.T) {
	tests := []models.BindingOptions{
		{Class: "com..Foo"},
		{Class: "com.example.Foo."},
		{Class: "com.ex-ample.Foo"},
		{Name: "1abc"},
		{Name: "with space"},
		{Name: "ünicode"},
	}

	for _, opts := range tests {
		t.Run(opts.Class+opts.Name, func(t *testing.T) {
			binding, err := NewSynthesizer().Synthesize(signature("f", nil), opts)
			assert.Nil(t, binding)
			assert.True(t, errors.HasCode(err, errors.MalformedOptionsCode), "got %v", err)
		})
	}
}

func TestSynthesize_Deterministic(t *testing.T) {
	sig := signature("concat", models.PathType("String"),
		models.NewParameter("a", models.RefType("'a", false, models.PathType("str"))),
		models.NewParameter("b", models.PathType("Vec<u8>")),
	)
	sig.Lifetimes = []models.LifetimeParam{{Name: "'a"}}
	opts := models.BindingOptions{Class: "x.Y", Name: "concat_all"}

	first, err := NewSynthesizer().Synthesize(sig, opts)
	require.NoError(t, err)
	second, err := NewSynthesizer().Synthesize(sig, opts)
	require.NoError(t, err)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("bindings differ (-first +second):\n%s", diff)
	}
}

func TestSynthesize_CustomRuntimeAndTracer(t *testing.T) {
	tracer := &recordingTracer{}
	s := NewSynthesizerWithConfig(Config{
		DefaultPackage: "org.native",
		RuntimeCrate:   "crate::jni_rt",
		Tracer:         tracer,
	})

	binding, err := s.Synthesize(signature("ping", nil), models.BindingOptions{})
	require.NoError(t, err)

	assert.Equal(t, "Java_org_native_Ping_ping", binding.Symbol)
	assert.Equal(t, "crate::jni_rt::JNIEnv<'__jenny_env>", binding.Parameters[0].Type)
	assert.Equal(t, "crate::jni_rt", s.RuntimeCrate())

	require.Len(t, tracer.lines, 1)
	assert.True(t, strings.Contains(tracer.lines[0], "Java_org_native_Ping_ping"))
	assert.Contains(t, tracer.lines[0], "[forward_call] super::ping()")
}

func TestSynthesize_CollidingSignaturesShareSymbol(t *testing.T) {
	s := NewSynthesizer()
	a, err := s.Synthesize(signature("foo", nil, models.NewParameter("x", models.PathType("i32"))), models.BindingOptions{})
	require.NoError(t, err)
	b, err := s.Synthesize(signature("foo", nil, models.NewParameter("x", models.PathType("i64"))), models.BindingOptions{})
	require.NoError(t, err)

	// synthesis alone cannot tell them apart; the symbol registry rejects the second
	assert.Equal(t, a.Symbol, b.Symbol)
}
