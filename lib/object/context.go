package object

import (
	"github.com/ValentinKolb/csav/lib/namepool"
	"github.com/lni/dragonboat/v4/logger"
)

var plog = logger.GetLogger("object")

// Context carries everything one load or save pass shares between objects.
// A Context must not be used by two passes at the same time; the registries
// it points to may be shared.
type Context struct {
	// Names resolves the name and type indices of field descriptors.
	Names *namepool.Pool
	// Blueprints supplies the field schema of a class.
	Blueprints *BlueprintRegistry
	// Props creates properties by type name.
	Props *PropertyRegistry
	// Logger receives the diagnostics of this pass. Defaults to the package logger.
	Logger logger.ILogger
	// OnEvent, if set, is called for every object event.
	OnEvent Listener
}

// NewContext creates a context with empty registries, the scalar property
// types registered and a fresh name pool if names is nil.
func NewContext(names *namepool.Pool) *Context {
	if names == nil {
		names = namepool.New()
	}
	props := NewPropertyRegistry()
	RegisterScalars(props)
	return &Context{
		Names:      names,
		Blueprints: NewBlueprintRegistry(),
		Props:      props,
	}
}

func (c *Context) log() logger.ILogger {
	if c.Logger != nil {
		return c.Logger
	}
	return plog
}

func (c *Context) emit(o *Object, kind EventKind) {
	if c.OnEvent != nil {
		c.OnEvent(Event{Object: o, Kind: kind})
	}
}
