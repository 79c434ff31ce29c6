package object

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/ValentinKolb/csav/lib/common"
	"github.com/ValentinKolb/csav/lib/metrics"
	"github.com/ValentinKolb/csav/lib/packing"
)

// Field is a named property of an object.
type Field struct {
	Name string
	Prop Property
}

// Object is a runtime instance of a class. Its field set always comes from the
// class blueprint: decoding overwrites existing fields, it never adds new ones.
type Object struct {
	bp     *Blueprint
	fields []Field
}

// New creates an object of class with every field set to its default.
// Unknown classes get an empty blueprint.
func New(class string, ctx *Context) *Object {
	o := &Object{bp: ctx.Blueprints.GetOrMake(class)}
	o.Reset(ctx)
	return o
}

// ClassName returns the class of the object.
func (o *Object) ClassName() string { return o.bp.ClassName }

// Blueprint returns the schema the object was created from.
func (o *Object) Blueprint() *Blueprint { return o.bp }

// Fields returns the fields in blueprint order. The slice must not be modified.
func (o *Object) Fields() []Field { return o.fields }

// Prop returns the property of the named field, nil if there is none.
func (o *Object) Prop(name string) Property {
	if i := o.fieldIndex(name, 0); i >= 0 {
		return o.fields[i].Prop
	}
	return nil
}

// SetProp replaces the property of the named field. The new property must have
// the type the field already has.
func (o *Object) SetProp(name string, p Property, ctx *Context) error {
	i := o.fieldIndex(name, 0)
	if i < 0 {
		return common.SchemaMismatchf("%s has no field %s", o.ClassName(), name)
	}
	if p == nil {
		return common.NewError(common.ErrCInvalidOperation, "nil property")
	}
	if want := o.fields[i].Prop.TypeName(); p.TypeName() != want {
		return common.SchemaMismatchf("%s::%s is a %s, not a %s", o.ClassName(), name, want, p.TypeName())
	}
	o.fields[i].Prop = p
	ctx.emit(o, EventDataModified)
	return nil
}

// Reset discards the current field values and recreates the blueprint defaults.
func (o *Object) Reset(ctx *Context) {
	o.fields = make([]Field, len(o.bp.Fields))
	for i, f := range o.bp.Fields {
		o.fields[i] = Field{Name: f.Name, Prop: ctx.Props.New(f.TypeName)}
	}
}

// fieldIndex returns the index of the named field at or after from, -1 if none.
func (o *Object) fieldIndex(name string, from int) int {
	for i := from; i < len(o.fields); i++ {
		if o.fields[i].Name == name {
			return i
		}
	}
	return -1
}

// --------------------------------------------------------------------------
// Decoding
// --------------------------------------------------------------------------

// serialField is a resolved field descriptor.
type serialField struct {
	name     string
	typeName string
	offset   int
	size     int // -1 for the last field
}

// Decode reads the object from data:
//
//	[u16 field count][count x field descriptor][field payloads]
//
// Fields are reset to their defaults first. Every field but the last is
// decoded from its exact byte range; the last one gets the rest of data and,
// if eofIsEnd is set, must consume all of it. A field that fails to decode
// under its known type falls back to a Blob as long as its end is known.
//
// Decode returns the number of bytes the object occupies. On error the fields
// are left in an unspecified (usually defaulted) state.
func (o *Object) Decode(data []byte, ctx *Context, eofIsEnd bool) (int, error) {
	n, err := o.decode(data, ctx, eofIsEnd)
	if err != nil {
		metrics.ObjectDecodeFails.Inc()
		return 0, err
	}
	metrics.ObjectsDecoded.Inc()
	ctx.emit(o, EventDataModified)
	return n, nil
}

// DecodeBlob decodes an object that must occupy the whole of data.
func (o *Object) DecodeBlob(data []byte, ctx *Context) error {
	n, err := o.Decode(data, ctx, true)
	if err != nil {
		return err
	}
	if n != len(data) {
		return common.Corruptionf("%s: decoded %d of %d bytes", o.ClassName(), n, len(data))
	}
	return nil
}

func (o *Object) decode(data []byte, ctx *Context, eofIsEnd bool) (int, error) {
	log := ctx.log()
	class := o.ClassName()

	r := packing.NewReader(data)
	count, err := r.U16()
	if err != nil {
		return 0, common.WrapCorruption(err, "%s: field count", class)
	}
	if count == 0 {
		o.Reset(ctx)
		return r.Pos(), nil
	}

	descs, err := ReadFieldDescs(r, int(count))
	if err != nil {
		return 0, common.WrapCorruption(err, "%s: %d field descriptors", class, count)
	}
	serial, err := o.resolve(descs, r.Pos(), len(data), ctx)
	if err != nil {
		return 0, err
	}

	o.Reset(ctx)

	end := r.Pos()
	prev := 0
	for i, sf := range serial {
		idx := o.fieldIndex(sf.name, prev)
		if idx < 0 {
			if idx = o.fieldIndex(sf.name, 0); idx >= 0 {
				metrics.OutOfOrderFields.Inc()
				log.Infof("decoded (%d) out of order %s::%s (type: %s)", i, class, sf.name, sf.typeName)
			}
		} else {
			prev = idx
		}
		if idx < 0 {
			return 0, common.SchemaMismatchf("field %s::%s is missing from the blueprint", class, sf.name)
		}

		f := &o.fields[idx]
		if got := f.Prop.TypeName(); got != sf.typeName {
			return 0, common.SchemaMismatchf("field %s::%s has type %s, blueprint says %s", class, sf.name, sf.typeName, got)
		}

		last := i == len(serial)-1
		var region []byte
		knownEnd := eofIsEnd
		if last {
			region = data[sf.offset:]
		} else {
			region = data[sf.offset : sf.offset+sf.size : sf.offset+sf.size]
			knownEnd = true
		}

		n, err := decodeField(f, region, ctx, knownEnd)
		if err != nil {
			return 0, fmt.Errorf("%s::%s: %w", class, sf.name, err)
		}
		metrics.FieldsDecoded.Inc()
		log.Debugf("decoded (%d) %s::%s (type: %s) in %d bytes", i, class, sf.name, sf.typeName, n)

		if last {
			end = sf.offset + n
		}
	}

	log.Debugf("decoded object %s in %d bytes", class, end)
	return end, nil
}

// resolve checks the descriptors against the payload bounds and translates
// their indices through the name pool.
func (o *Object) resolve(descs []FieldDesc, dataStart, dataLen int, ctx *Context) ([]serialField, error) {
	class := o.ClassName()
	serial := make([]serialField, len(descs))
	prevOffset := 0

	for i, d := range descs {
		name, ok := ctx.Names.FromIdx(d.NameIdx)
		if !ok {
			return nil, common.Corruptionf("%s: field %d: name index %d out of range", class, i, d.NameIdx)
		}
		typeName, ok := ctx.Names.FromIdx(d.TypeIdx)
		if !ok {
			return nil, common.Corruptionf("%s: field %d: type index %d out of range", class, i, d.TypeIdx)
		}

		off := int(d.Offset)
		if off < dataStart {
			return nil, common.Corruptionf("%s: field %s: offset %d inside the descriptor block", class, name, off)
		}
		if off < prevOffset {
			return nil, common.Corruptionf("%s: field %s: offset %d before previous offset %d", class, name, off, prevOffset)
		}
		if off > dataLen {
			return nil, common.Corruptionf("%s: field %s: offset %d beyond object end %d", class, name, off, dataLen)
		}
		prevOffset = off

		serial[i] = serialField{name: name, typeName: typeName, offset: off, size: -1}
		if i > 0 {
			serial[i-1].size = off - serial[i-1].offset
		}
	}
	return serial, nil
}

// decodeField decodes one field from region. With a known end the property
// has to consume region exactly, otherwise it is replaced by a Blob.
func decodeField(f *Field, region []byte, ctx *Context, knownEnd bool) (int, error) {
	unknown := f.Prop.IsUnknown()
	if unknown && !knownEnd {
		return 0, common.Corruptionf("unknown type %s with unknown size", f.Prop.TypeName())
	}

	n, err := f.Prop.Decode(region, ctx)
	if err == nil {
		if !knownEnd || n == len(region) {
			return n, nil
		}
		err = fmt.Errorf("%s consumed %d of %d bytes", f.Prop.TypeName(), n, len(region))
	}

	if !unknown && knownEnd {
		metrics.FieldFallbacks.Inc()
		ctx.log().Warningf("field %s (%s) falls back to raw bytes: %v", f.Name, f.Prop.TypeName(), err)

		blob := NewBlob(f.Prop.TypeName())
		n, berr := blob.Decode(region, ctx)
		if berr == nil {
			f.Prop = blob
			return n, nil
		}
		err = berr
	}
	return 0, common.WrapCorruption(err, "decoding %s", f.Prop.TypeName())
}

// --------------------------------------------------------------------------
// Encoding
// --------------------------------------------------------------------------

// Encode appends the object to dst. Skippable fields are left out. On failure
// dst is returned truncated to its original length.
func (o *Object) Encode(dst []byte, ctx *Context) ([]byte, error) {
	start := len(dst)
	out, err := o.encode(dst, ctx)
	if err != nil {
		metrics.ObjectEncodeFails.Inc()
		ctx.log().Warningf("couldn't encode %s: %v", o.ClassName(), err)
		return dst[:start], err
	}
	metrics.ObjectsEncoded.Inc()
	return out, nil
}

func (o *Object) encode(dst []byte, ctx *Context) ([]byte, error) {
	log := ctx.log()
	class := o.ClassName()
	start := len(dst)

	retained := make([]*Field, 0, len(o.fields))
	for i := range o.fields {
		f := &o.fields[i]
		if f.Prop == nil {
			return nil, common.Encodef("%s::%s: null property", class, f.Name)
		}
		if f.Prop.IsSkippable() {
			continue
		}
		retained = append(retained, f)
	}
	if len(retained) > math.MaxUint16 {
		return nil, common.Encodef("%s: %d fields do not fit the field count", class, len(retained))
	}

	dst = binary.LittleEndian.AppendUint16(dst, uint16(len(retained)))
	if len(retained) == 0 {
		return dst, nil
	}

	// placeholder, patched once all offsets are known
	descPos := len(dst)
	dst = append(dst, make([]byte, len(retained)*FieldDescSize)...)

	descs := make([]FieldDesc, 0, len(retained))
	for _, f := range retained {
		off := len(dst) - start
		if uint64(off) > math.MaxUint32 {
			return nil, common.Encodef("%s::%s: offset %d does not fit in 32 bits", class, f.Name, off)
		}
		nameIdx, err := ctx.Names.ToIdx(f.Name)
		if err != nil {
			return nil, common.Encodef("%s::%s: %v", class, f.Name, err)
		}
		typeIdx, err := ctx.Names.ToIdx(f.Prop.TypeName())
		if err != nil {
			return nil, common.Encodef("%s::%s: %v", class, f.Name, err)
		}
		descs = append(descs, FieldDesc{NameIdx: nameIdx, TypeIdx: typeIdx, Offset: uint32(off)})

		if dst, err = f.Prop.Encode(dst, ctx); err != nil {
			return nil, &common.Error{Code: common.ErrCEncode, Msg: class + "::" + f.Name, Err: err}
		}
		log.Debugf("encoded %s::%s in %d bytes", class, f.Name, len(dst)-start-off)
	}

	putFieldDescs(dst[descPos:], descs)
	log.Debugf("encoded object %s in %d bytes", class, len(dst)-start)
	return dst, nil
}
