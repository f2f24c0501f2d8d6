// Copyright (c) The OpenTofu Authors
// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2023 HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package sassvalue

// Callable is implemented by whatever the evaluator (internal/evalctx)
// uses to represent a user-defined or built-in mixin/function body. This
// package only needs to hold a reference to one, not invoke it, so the
// interface is a single opaque marker plus a name for error messages and
// equality.
type Callable interface {
	CallableName() string
}

// FunctionRef is the `Function` value variant: a first-class reference
// to a callable function, as produced by `meta.get-function`.
type FunctionRef struct {
	Name string
	Impl Callable
}

func (*FunctionRef) isValue() {}
func (*FunctionRef) Kind() Kind { return KindFunction }
func (f *FunctionRef) String() string {
	return "get-function(" + quoteCSS(f.Name) + ")"
}

// MixinRef is the `Mixin` value variant: a first-class reference to a
// callable mixin, as produced by `meta.get-mixin`.
type MixinRef struct {
	Name string
	Impl Callable
}

func (*MixinRef) isValue() {}
func (*MixinRef) Kind() Kind { return KindMixin }
func (m *MixinRef) String() string {
	return "meta.get-mixin(" + quoteCSS(m.Name) + ")"
}

// ArgumentList is a List plus a trailing keyword map, produced by
// rest-argument passing. NewArgumentList receives both parts together
// and stores them as given; it does not reject a nil positional list
// paired with a populated keyword map.
type ArgumentList struct {
	List List
	Keywords Map
}

func (ArgumentList) isValue() {}
func (ArgumentList) Kind() Kind { return KindArgumentList }

func (a ArgumentList) String() string {
	return ToCSSString(a.List)
}

// NewArgumentList builds an ArgumentList from its positional elements
// and keyword map, defaulting the separator to comma as `...` rest
// arguments always produce.
func NewArgumentList(elements []Value, keywords Map) ArgumentList {
	return ArgumentList{
		List: List{Elements: elements, Separator: SeparatorComma},
		Keywords: keywords,
	}
}

// HasKeywords reports whether any keyword arguments were captured,
// which callers use to raise "no argument named $x" style errors when a
// rest argument list interacts with an unknown keyword consumer.
func (a ArgumentList) HasKeywords() bool { return a.Keywords.Len() > 0 }
