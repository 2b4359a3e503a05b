package goverload

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/goverload/goverload/signature"
)

// Class is an explicit declaration-time builder for a merged method
// namespace: repeated callable definitions under one name append to that
// name's registry instead of overwriting it.
//
// Classes form a single-parent chain that bound dispatch walks when no
// local candidate matches. The chain is fixed at construction.
type Class struct {
	name    string
	parent  *Class
	attrs   map[string]any
	methods map[string]*Registry
}

// NewClass creates a class with an optional parent.
func NewClass(name string, parent *Class) *Class {
	return &Class{
		name:    name,
		parent:  parent,
		attrs:   make(map[string]any),
		methods: make(map[string]*Registry),
	}
}

// Name returns the class name.
func (c *Class) Name() string { return c.name }

// Parent returns the next class up the chain, or nil.
func (c *Class) Parent() *Class { return c.parent }

// Define registers fn as one overload of the named method. The first
// definition under a name creates the registry; later definitions append
// to it, running the conflict detector. A nil sig is inferred from fn.
//
// Method signatures include the leading receiver parameter; bound dispatch
// fills it with the instance before the caller-supplied arguments.
func (c *Class) Define(name string, fn any, sig *signature.Signature, opts ...CandidateOption) ([]ConflictWarning, error) {
	if _, taken := c.attrs[name]; taken {
		return nil, &RegistrationError{
			Code:    ErrCodeNameTaken,
			Name:    name,
			Message: "name already holds a non-callable value",
		}
	}
	cand, err := NewCandidate(fn, sig, opts...)
	if err != nil {
		return nil, err
	}
	reg, ok := c.methods[name]
	if !ok {
		reg = NewRegistry(name, WithScope("class:"+c.name))
		c.methods[name] = reg
	}
	return reg.Register(cand), nil
}

// Set stores a value under a name. Callables are routed through Define
// with an inferred signature, so repeated callable assignments merge. A
// non-callable value under a name already holding an overload registry is
// an error; otherwise it is ordinary storage.
func (c *Class) Set(name string, v any) error {
	if rv := reflect.ValueOf(v); rv.IsValid() && rv.Kind() == reflect.Func {
		_, err := c.Define(name, v, nil)
		return err
	}
	if _, overloaded := c.methods[name]; overloaded {
		return &RegistrationError{
			Code:    ErrCodeNameTaken,
			Name:    name,
			Message: "name already holds an overload registry",
		}
	}
	c.attrs[name] = v
	return nil
}

// Attr looks up a plain attribute, walking the parent chain.
func (c *Class) Attr(name string) (any, bool) {
	for cl := c; cl != nil; cl = cl.parent {
		if v, ok := cl.attrs[name]; ok {
			return v, true
		}
	}
	return nil, false
}

// Method returns the local overload registry for name, if any.
func (c *Class) Method(name string) (*Registry, bool) {
	reg, ok := c.methods[name]
	return reg, ok
}

// nextHandler finds the first class at or below cl (walking parents) that
// defines name, as either an overload registry or a plain callable.
func nextHandler(cl *Class, name string) (owner *Class, reg *Registry, plain any, ok bool) {
	for ; cl != nil; cl = cl.parent {
		if r, found := cl.methods[name]; found {
			return cl, r, nil, true
		}
		if v, found := cl.attrs[name]; found {
			if rv := reflect.ValueOf(v); rv.IsValid() && rv.Kind() == reflect.Func {
				return cl, nil, v, true
			}
		}
	}
	return nil, nil, nil, false
}

// New creates an instance of the class. The receiver value is whatever
// state the caller wants method bodies to see as their leading argument.
func (c *Class) New(receiver any) *Instance {
	return &Instance{class: c, receiver: receiver}
}

// Instance pairs a receiver value with its class.
type Instance struct {
	class    *Class
	receiver any
}

// Class returns the instance's class.
func (i *Instance) Class() *Class { return i.class }

// Receiver returns the instance's receiver value.
func (i *Instance) Receiver() any { return i.receiver }

// Bind returns a fresh bound dispatcher for the named method. The
// dispatcher is a thin view over (instance, owning class, registry),
// constructed on every access and never cached.
func (i *Instance) Bind(name string) (*BoundDispatcher, error) {
	owner, reg, plain, ok := nextHandler(i.class, name)
	if !ok {
		return nil, NewUnknownNameError(name)
	}
	return &BoundDispatcher{instance: i, owner: owner, name: name, reg: reg, plain: plain}, nil
}

// Call dispatches a method call with positional arguments.
func (i *Instance) Call(name string, args ...any) (any, error) {
	return i.CallKW(name, args, nil)
}

// CallKW dispatches a method call with positional and keyword arguments.
func (i *Instance) CallKW(name string, args []any, kwargs map[string]any) (any, error) {
	d, err := i.Bind(name)
	if err != nil {
		return nil, err
	}
	return d.CallKW(args, kwargs)
}

// BoundDispatcher resolves method overloads for one instance. The
// selection algorithm is the free-function one, except the leading
// signature parameter is implicitly bound to the receiver and only the
// remaining parameters see the caller-supplied arguments.
//
// On local failure it delegates one step up the class chain, exactly as a
// superclass method call would resolve; an ancestor's own binding failure
// is converted to the no-matching-overload condition rather than leaking a
// different error kind.
type BoundDispatcher struct {
	instance *Instance
	owner    *Class
	name     string
	reg      *Registry // nil when the handler is a plain callable
	plain    any
}

// Call dispatches with positional arguments.
func (d *BoundDispatcher) Call(args ...any) (any, error) {
	return d.CallKW(args, nil)
}

// CallKW dispatches with positional and keyword arguments.
func (d *BoundDispatcher) CallKW(args []any, kwargs map[string]any) (any, error) {
	// A plain (non-overloaded) handler reached directly behaves like an
	// ordinary method call; its binding errors are the caller's problem.
	if d.reg == nil {
		return callPlain(d.plain, d.instance.receiver, args, kwargs)
	}

	full := append([]any{d.instance.receiver}, args...)
	if c, b, _, err := resolve(d.reg, full, kwargs); err == nil {
		return c.invoke(b)
	}

	// No local candidate matched; delegate to the next handler up the
	// chain.
	owner, reg, plain, ok := nextHandler(d.owner.parent, d.name)
	if !ok {
		return nil, NewNoMatchError(d.name, args, kwargs)
	}
	if reg != nil {
		next := &BoundDispatcher{instance: d.instance, owner: owner, name: d.name, reg: reg}
		return next.CallKW(args, kwargs)
	}
	res, err := callPlain(plain, d.instance.receiver, args, kwargs)
	if err != nil {
		var bm *bindMismatchError
		if errors.As(err, &bm) {
			// Ancestor signature errors never leak as a different
			// error kind.
			return nil, NewNoMatchError(d.name, args, kwargs)
		}
		return nil, err
	}
	return res, nil
}

// Explain reports the local registry's resolution trace for the bound
// arguments. The ancestor chain is not walked; the trace covers the local
// candidates only.
func (d *BoundDispatcher) Explain(args []any, kwargs map[string]any) *Trace {
	if d.reg == nil {
		return &Trace{Name: d.name, WinnerIndex: -1}
	}
	full := append([]any{d.instance.receiver}, args...)
	return NewFuncDispatcher(d.reg).Explain(full, kwargs)
}

// bindMismatchError marks a plain-callable invocation that failed on
// argument shape rather than in the body.
type bindMismatchError struct {
	msg string
}

func (e *bindMismatchError) Error() string { return e.msg }

// callPlain invokes a plain Go function with the receiver prepended.
// Argument shape problems come back as bindMismatchError; errors from the
// body propagate unchanged.
func callPlain(fn any, receiver any, args []any, kwargs map[string]any) (any, error) {
	if len(kwargs) > 0 {
		return nil, &bindMismatchError{msg: "plain callable accepts no keyword arguments"}
	}
	fv := reflect.ValueOf(fn)
	ft := fv.Type()

	full := append([]any{receiver}, args...)
	if ft.IsVariadic() {
		if len(full) < ft.NumIn()-1 {
			return nil, &bindMismatchError{msg: fmt.Sprintf("need at least %d argument(s), got %d", ft.NumIn()-1, len(full))}
		}
	} else if len(full) != ft.NumIn() {
		return nil, &bindMismatchError{msg: fmt.Sprintf("need %d argument(s), got %d", ft.NumIn(), len(full))}
	}

	in := make([]reflect.Value, len(full))
	for i, v := range full {
		var pt reflect.Type
		if ft.IsVariadic() && i >= ft.NumIn()-1 {
			pt = ft.In(ft.NumIn() - 1).Elem()
		} else {
			pt = ft.In(i)
		}
		if v == nil {
			in[i] = reflect.Zero(pt)
			continue
		}
		rv := reflect.ValueOf(v)
		if !rv.Type().AssignableTo(pt) {
			return nil, &bindMismatchError{msg: fmt.Sprintf("argument %d: %s is not assignable to %s", i, rv.Type(), pt)}
		}
		in[i] = rv
	}

	return splitResults(ft, fv.Call(in))
}
