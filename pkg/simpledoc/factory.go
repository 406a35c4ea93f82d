package simpledoc

import "reflect"

// TypeBinding pairs a registered type with a type-erased constructor for
// its handle. Bindings are produced by Bind.
type TypeBinding struct {
	Type reflect.Type

	newHandle func(*XMLContext) ContentHandle
}

// Bind creates the binding for C, capturing its reflected type and an
// XMLHandle constructor.
func Bind[C any]() TypeBinding {
	return TypeBinding{
		Type: reflect.TypeFor[C](),
		newHandle: func(xctx *XMLContext) ContentHandle {
			return newXMLHandle[C](xctx)
		},
	}
}

// HandleFactory produces handles for a fixed set of registered types. The
// registry is immutable after construction, and every handle built by one
// factory shares its single conversion context.
type HandleFactory interface {
	// IsHandled reports whether the factory can build a handle for t.
	IsHandled(t reflect.Type) bool

	// NewHandle returns a fresh handle for t, or nil when t was not
	// registered.
	NewHandle(t reflect.Type) ContentHandle

	// HandledTypes returns the registered types in registration order.
	HandledTypes() []reflect.Type
}

type xmlHandleFactory struct {
	xctx     *XMLContext
	types    []reflect.Type
	bindings map[reflect.Type]TypeBinding
}

// NewXMLFactory creates a factory with a fresh conversion context holding
// the given bindings. At least one binding is required.
func NewXMLFactory(bindings ...TypeBinding) (HandleFactory, error) {
	return NewXMLFactoryWithContext(NewXMLContext(), bindings...)
}

// NewXMLFactoryWithContext creates a factory over a pre-configured
// conversion context, registering the bindings into it. The context may
// already hold registrations from elsewhere; handles built by the factory
// share it either way.
func NewXMLFactoryWithContext(xctx *XMLContext, bindings ...TypeBinding) (HandleFactory, error) {
	if xctx == nil {
		return nil, ErrNilContext
	}
	if len(bindings) == 0 {
		return nil, ErrNoTypes
	}
	if err := xctx.Register(bindings...); err != nil {
		return nil, err
	}
	f := &xmlHandleFactory{
		xctx:     xctx,
		bindings: make(map[reflect.Type]TypeBinding, len(bindings)),
	}
	for _, b := range bindings {
		if _, ok := f.bindings[b.Type]; ok {
			continue
		}
		f.types = append(f.types, b.Type)
		f.bindings[b.Type] = b
	}
	return f, nil
}

func (f *xmlHandleFactory) IsHandled(t reflect.Type) bool {
	_, ok := f.bindings[t]
	return ok
}

func (f *xmlHandleFactory) NewHandle(t reflect.Type) ContentHandle {
	b, ok := f.bindings[t]
	if !ok {
		return nil
	}
	return b.newHandle(f.xctx)
}

func (f *xmlHandleFactory) HandledTypes() []reflect.Type {
	out := make([]reflect.Type, len(f.types))
	copy(out, f.types)
	return out
}

// HandleFor builds a typed handle for C through the factory's type-erased
// registry. The second return is false when C was not registered.
func HandleFor[C any](f HandleFactory) (*XMLHandle[C], bool) {
	h, ok := f.NewHandle(reflect.TypeFor[C]()).(*XMLHandle[C])
	return h, ok
}
