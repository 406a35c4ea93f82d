package simpledoc

import (
	"encoding/xml"
	"fmt"
	"reflect"
	"strings"
)

// XMLContext holds the set of types known to the XML converters together
// with each type's resolved root element name. A context is built once,
// registered with the types it will convert, and then shared read-only by
// every handle created over it. Registration must complete before handles
// begin converting.
type XMLContext struct {
	indent string
	types  []reflect.Type
	roots  map[reflect.Type]xml.Name
}

// NewXMLContext creates an empty conversion context producing two-space
// indented output.
func NewXMLContext() *XMLContext {
	return &XMLContext{
		indent: "  ",
		roots:  make(map[reflect.Type]xml.Name),
	}
}

// Register records the bindings' types in registration order and resolves
// their root element names. Registering a type twice is a no-op.
func (c *XMLContext) Register(bindings ...TypeBinding) error {
	if c == nil {
		return ErrNilContext
	}
	if len(bindings) == 0 {
		return ErrNoTypes
	}
	for _, b := range bindings {
		if b.Type == nil {
			return fmt.Errorf("%w: binding without a type", ErrNoTypes)
		}
		if _, ok := c.roots[b.Type]; ok {
			continue
		}
		c.types = append(c.types, b.Type)
		c.roots[b.Type] = resolveRootName(b.Type)
	}
	return nil
}

// IsBound reports whether t was registered with the context.
func (c *XMLContext) IsBound(t reflect.Type) bool {
	_, ok := c.roots[t]
	return ok
}

// BoundTypes returns the registered types in registration order.
func (c *XMLContext) BoundTypes() []reflect.Type {
	out := make([]reflect.Type, len(c.types))
	copy(out, c.types)
	return out
}

// RootName returns the root element name resolved for t.
func (c *XMLContext) RootName(t reflect.Type) (xml.Name, bool) {
	name, ok := c.roots[t]
	return name, ok
}

// NewMarshaller creates a marshaller bound to this context.
func (c *XMLContext) NewMarshaller() *Marshaller {
	return &Marshaller{ctx: c}
}

// NewUnmarshaller creates an unmarshaller bound to this context.
func (c *XMLContext) NewUnmarshaller() *Unmarshaller {
	return &Unmarshaller{ctx: c}
}

// resolveRootName mirrors encoding/xml root naming: an explicit XMLName
// field tag wins, otherwise the bare type name is used. Pointer types
// resolve through their element type.
func resolveRootName(t reflect.Type) xml.Name {
	elem := t
	for elem.Kind() == reflect.Pointer {
		elem = elem.Elem()
	}
	if elem.Kind() == reflect.Struct {
		if f, ok := elem.FieldByName("XMLName"); ok {
			if tag := f.Tag.Get("xml"); tag != "" {
				name := tag
				if i := strings.Index(name, ","); i >= 0 {
					name = name[:i]
				}
				if j := strings.LastIndex(name, " "); j >= 0 {
					return xml.Name{Space: name[:j], Local: name[j+1:]}
				}
				if name != "" {
					return xml.Name{Local: name}
				}
			}
		}
	}
	return xml.Name{Local: elem.Name()}
}
