package symbol

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsOwnerName(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{
			name:  "plain package name",
			input: "llrt_utils",
			want:  true,
		},
		{
			name:  "dotted path",
			input: "serde_json",
			want:  true,
		},
		{
			name:  "legacy mangled form",
			input: "alloc..string..String",
			want:  false,
		},
		{
			name:  "contains space",
			input: "dyn core",
			want:  false,
		},
		{
			name:  "aggregate bucket",
			input: "[1848 Others]",
			want:  false,
		},
		{
			name:  "bracketed placeholder",
			input: "[Unknown]",
			want:  false,
		},
		{
			name:  "empty",
			input: "",
			want:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsOwnerName(tt.input))
		})
	}
}

func TestClassify_PlainPaths(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantOwner string
		wantPath  []string
	}{
		{
			name:      "three segment path",
			input:     "llrt_utils::clone::structured_clone",
			wantOwner: "llrt_utils",
			wantPath:  []string{"llrt_utils", "clone", "structured_clone"},
		},
		{
			name:      "closure marker stays atomic",
			input:     "app::run::{closure#0}",
			wantOwner: "app",
			wantPath:  []string{"app", "run", "{closure#0}"},
		},
		{
			name:      "vtable shim marker stays atomic",
			input:     "app::handler::{shim:vtable#0}",
			wantOwner: "app",
			wantPath:  []string{"app", "handler", "{shim:vtable#0}"},
		},
		{
			name:      "generic arguments inside a segment do not split",
			input:     "alloc::vec::Vec<core::option::Option<u8>>::push",
			wantOwner: "alloc",
			wantPath:  []string{"alloc", "vec", "Vec", "push"},
		},
		{
			name:      "trailing turbofish decoration is dropped",
			input:     "core::iter::collect::<>",
			wantOwner: "core",
			wantPath:  []string{"core", "iter", "collect"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Classify(tt.input)
			require.True(t, ok)
			assert.Equal(t, tt.wantOwner, got.Owner)
			assert.Equal(t, tt.wantPath, got.Segments)
		})
	}
}

func TestClassify_QualifiedForms(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantOwner string
		wantPath  []string
	}{
		{
			name:      "inherent method reference",
			input:     "<url::Url>::set_password",
			wantOwner: "url",
			wantPath:  []string{"url", "Url", "set_password"},
		},
		{
			name:      "trait implementation",
			input:     "<serde_json::Value as core::fmt::Debug>::fmt",
			wantOwner: "serde_json",
			wantPath:  []string{"serde_json", "Value", "fmt"},
		},
		{
			name:      "nested delegation keeps innermost type and outermost method",
			input:     "<u8 as <[_]>::to_vec_in::ConvertVec>::to_vec::<>",
			wantOwner: "std",
			wantPath:  []string{"std", "primitive", "u8", "to_vec"},
		},
		{
			name:      "double nested qualified type",
			input:     "<<T as A>::Assoc as B>::method",
			wantOwner: "T",
			wantPath:  []string{"T", "method"},
		},
		{
			name:      "unit type groups under primitives",
			input:     "<() as core::fmt::Debug>::fmt",
			wantOwner: "std",
			wantPath:  []string{"std", "primitive", "unit", "fmt"},
		},
		{
			name:      "tuple type groups under primitives",
			input:     "<(u32, u64) as core::cmp::Ord>::cmp",
			wantOwner: "std",
			wantPath:  []string{"std", "primitive", "tuple", "cmp"},
		},
		{
			name:      "slice type groups under primitives",
			input:     "<[u8] as core::fmt::Debug>::fmt",
			wantOwner: "std",
			wantPath:  []string{"std", "primitive", "slice", "fmt"},
		},
		{
			name:      "reference qualifier is stripped",
			input:     "<&str as core::fmt::Display>::fmt",
			wantOwner: "std",
			wantPath:  []string{"std", "primitive", "str", "fmt"},
		},
		{
			name:      "raw pointer qualifier is stripped",
			input:     "<*const u8 as core::fmt::Pointer>::fmt",
			wantOwner: "std",
			wantPath:  []string{"std", "primitive", "u8", "fmt"},
		},
		{
			name:      "generic decoration on the type is dropped",
			input:     "<alloc::vec::Vec<u8> as core::clone::Clone>::clone",
			wantOwner: "alloc",
			wantPath:  []string{"alloc", "vec", "Vec", "clone"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Classify(tt.input)
			require.True(t, ok, "expected %q to classify", tt.input)
			assert.Equal(t, tt.wantOwner, got.Owner)
			assert.Equal(t, tt.wantPath, got.Segments)
		})
	}
}

func TestClassify_Unclassified(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{
			name:  "aggregate bucket",
			input: "[1848 Others]",
		},
		{
			name:  "legacy mangled form with double dots",
			input: "_$LT$alloc..string..String$u20$as$u20$core..fmt..Write$GT$",
		},
		{
			name:  "single segment",
			input: "main",
		},
		{
			name:  "empty symbol",
			input: "",
		},
		{
			name:  "owner containing a space",
			input: "some thing::method",
		},
		{
			name:  "unbalanced qualified form",
			input: "<url::Url::set_password",
		},
		{
			name:  "placeholder owner",
			input: "[Unknown]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := Classify(tt.input)
			assert.False(t, ok, "expected %q to stay unclassified", tt.input)
		})
	}
}

func TestClassify_DeepNestingStaysBounded(t *testing.T) {
	// A pathological chain of nested qualified forms beyond the recursion
	// ceiling must fall back to unclassified instead of growing the stack.
	sym := ""
	for i := 0; i < maxQualifiedDepth+4; i++ {
		sym = "<" + sym + "T as A>::Assoc"
	}
	_, ok := Classify(sym)
	assert.False(t, ok)
}

func TestSplitSegments(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{
			name:  "plain separators",
			input: "a::b::c",
			want:  []string{"a", "b", "c"},
		},
		{
			name:  "separator inside braces does not split",
			input: "a::{shim:vtable#0}::b",
			want:  []string{"a", "{shim:vtable#0}", "b"},
		},
		{
			name:  "separator inside angle brackets does not split",
			input: "Vec<a::b>::push",
			want:  []string{"Vec<a::b>", "push"},
		},
		{
			name:  "single segment",
			input: "main",
			want:  []string{"main"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitSegments(tt.input))
		})
	}
}
