// Package classtest assembles class file bytes for tests. It knows the
// wire layout but nothing about the decoder's types.
package classtest

import (
	"encoding/binary"
	"math"
)

type Attr struct {
	NameIndex uint16
	Info      []byte
}

type Handler struct {
	StartPC, EndPC, HandlerPC, CatchType uint16
}

type member struct {
	flags      uint16
	name, desc uint16
	attrs      []Attr
}

// Builder accumulates a constant pool, members and attributes and
// serializes them in class file order.
type Builder struct {
	Minor, Major uint16
	Flags        uint16
	ThisClass    uint16
	SuperClass   uint16

	pool       [][]byte
	slots      int
	utf8       map[string]uint16
	classes    map[string]uint16
	interfaces []uint16
	fields     []member
	methods    []member
	attrs      []Attr
}

func New() *Builder {
	return &Builder{
		Major:   52,
		Flags:   0x0021,
		utf8:    make(map[string]uint16),
		classes: make(map[string]uint16),
	}
}

func U2(v uint16) []byte { return binary.BigEndian.AppendUint16(nil, v) }
func U4(v uint32) []byte { return binary.BigEndian.AppendUint32(nil, v) }

func Cat(parts ...[]byte) []byte {
	var out []byte
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

// Raw appends a pool entry with the given tag and payload and returns
// its logical index. wide entries take two slots.
func (b *Builder) Raw(tag byte, payload []byte, wide bool) uint16 {
	index := uint16(b.slots + 1)
	b.pool = append(b.pool, append([]byte{tag}, payload...))
	b.slots++
	if wide {
		b.slots++
	}
	return index
}

// RawUtf8 appends a Utf8 entry without any encoding step.
func (b *Builder) RawUtf8(data []byte) uint16 {
	return b.Raw(1, Cat(U2(uint16(len(data))), data), false)
}

// Utf8 returns the index of a Utf8 entry for s, adding it if needed.
// s is written as-is, so callers should stick to ASCII.
func (b *Builder) Utf8(s string) uint16 {
	if idx, ok := b.utf8[s]; ok {
		return idx
	}
	idx := b.RawUtf8([]byte(s))
	b.utf8[s] = idx
	return idx
}

func (b *Builder) Class(name string) uint16 {
	if idx, ok := b.classes[name]; ok {
		return idx
	}
	idx := b.Raw(7, U2(b.Utf8(name)), false)
	b.classes[name] = idx
	return idx
}

func (b *Builder) String(s string) uint16 {
	return b.Raw(8, U2(b.Utf8(s)), false)
}

func (b *Builder) Integer(v int32) uint16 {
	return b.Raw(3, U4(uint32(v)), false)
}

func (b *Builder) Float(v float32) uint16 {
	return b.Raw(4, U4(math.Float32bits(v)), false)
}

func (b *Builder) Long(v int64) uint16 {
	return b.Raw(5, binary.BigEndian.AppendUint64(nil, uint64(v)), true)
}

func (b *Builder) Double(v float64) uint16 {
	return b.Raw(6, binary.BigEndian.AppendUint64(nil, math.Float64bits(v)), true)
}

func (b *Builder) NameAndType(name, desc string) uint16 {
	return b.Raw(12, Cat(U2(b.Utf8(name)), U2(b.Utf8(desc))), false)
}

func (b *Builder) Fieldref(class, name, desc string) uint16 {
	return b.ref(9, class, name, desc)
}

func (b *Builder) Methodref(class, name, desc string) uint16 {
	return b.ref(10, class, name, desc)
}

func (b *Builder) InterfaceMethodref(class, name, desc string) uint16 {
	return b.ref(11, class, name, desc)
}

func (b *Builder) ref(tag byte, class, name, desc string) uint16 {
	classIndex := b.Class(class)
	natIndex := b.NameAndType(name, desc)
	return b.Raw(tag, Cat(U2(classIndex), U2(natIndex)), false)
}

// Attr names an attribute payload, allocating the name in the pool.
func (b *Builder) Attr(name string, info []byte) Attr {
	return Attr{NameIndex: b.Utf8(name), Info: info}
}

// Code encodes a Code attribute.
func (b *Builder) Code(maxStack, maxLocals uint16, code []byte, handlers []Handler, attrs ...Attr) Attr {
	info := Cat(U2(maxStack), U2(maxLocals), U4(uint32(len(code))), code, U2(uint16(len(handlers))))
	for _, h := range handlers {
		info = Cat(info, U2(h.StartPC), U2(h.EndPC), U2(h.HandlerPC), U2(h.CatchType))
	}
	info = append(info, AttrList(attrs...)...)
	return b.Attr("Code", info)
}

// AttrList encodes attributes_count followed by the attributes.
func AttrList(attrs ...Attr) []byte {
	out := U2(uint16(len(attrs)))
	for _, a := range attrs {
		out = Cat(out, U2(a.NameIndex), U4(uint32(len(a.Info))), a.Info)
	}
	return out
}

func (b *Builder) This(name string)  { b.ThisClass = b.Class(name) }
func (b *Builder) Super(name string) { b.SuperClass = b.Class(name) }

func (b *Builder) Interface(name string) {
	b.interfaces = append(b.interfaces, b.Class(name))
}

func (b *Builder) Field(flags uint16, name, desc string, attrs ...Attr) {
	b.fields = append(b.fields, member{flags: flags, name: b.Utf8(name), desc: b.Utf8(desc), attrs: attrs})
}

func (b *Builder) Method(flags uint16, name, desc string, attrs ...Attr) {
	b.methods = append(b.methods, member{flags: flags, name: b.Utf8(name), desc: b.Utf8(desc), attrs: attrs})
}

// Attribute adds a class-level attribute.
func (b *Builder) Attribute(a Attr) {
	b.attrs = append(b.attrs, a)
}

// Bytes serializes the class file.
func (b *Builder) Bytes() []byte {
	out := Cat(U4(0xCAFEBABE), U2(b.Minor), U2(b.Major), U2(uint16(b.slots+1)))
	for _, entry := range b.pool {
		out = append(out, entry...)
	}
	out = Cat(out, U2(b.Flags), U2(b.ThisClass), U2(b.SuperClass), U2(uint16(len(b.interfaces))))
	for _, idx := range b.interfaces {
		out = append(out, U2(idx)...)
	}
	out = append(out, members(b.fields)...)
	out = append(out, members(b.methods)...)
	return append(out, AttrList(b.attrs...)...)
}

func members(ms []member) []byte {
	out := U2(uint16(len(ms)))
	for _, m := range ms {
		out = Cat(out, U2(m.flags), U2(m.name), U2(m.desc), AttrList(m.attrs...))
	}
	return out
}
