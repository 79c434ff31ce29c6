package object

import (
	"github.com/puzpuzpuz/xsync/v3"
)

// Property is the value of one object field.
type Property interface {
	// TypeName is the type name recorded in field descriptors.
	TypeName() string
	// Decode reads the property from data and returns the number of bytes consumed.
	Decode(data []byte, ctx *Context) (int, error)
	// Encode appends the property to dst.
	Encode(dst []byte, ctx *Context) ([]byte, error)
	// IsSkippable reports whether the property carries no information
	// (it equals its default) and can be left out when encoding.
	IsSkippable() bool
	// IsUnknown reports whether the property only keeps opaque bytes.
	IsUnknown() bool
}

// PropertyFactory creates a fresh property holding its default value.
type PropertyFactory func() Property

// PropertyRegistry maps type names to property factories. It is safe for
// concurrent use.
type PropertyRegistry struct {
	factories *xsync.MapOf[string, PropertyFactory]
}

// NewPropertyRegistry creates an empty registry.
func NewPropertyRegistry() *PropertyRegistry {
	return &PropertyRegistry{factories: xsync.NewMapOf[string, PropertyFactory]()}
}

// Register sets the factory of typeName, replacing any previous one.
func (r *PropertyRegistry) Register(typeName string, f PropertyFactory) {
	r.factories.Store(typeName, f)
}

// Has reports whether typeName has a factory.
func (r *PropertyRegistry) Has(typeName string) bool {
	_, ok := r.factories.Load(typeName)
	return ok
}

// New creates a property of the given type. Types without a factory get an
// unknown-kind Blob that keeps the type name.
func (r *PropertyRegistry) New(typeName string) Property {
	if f, ok := r.factories.Load(typeName); ok {
		return f()
	}
	return NewBlob(typeName)
}

// Len returns the number of registered types.
func (r *PropertyRegistry) Len() int { return r.factories.Size() }
