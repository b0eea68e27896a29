package classfile

import (
	"fmt"
	"math"

	"go.uber.org/zap"
)

// ConstantPoolEntry is one constant pool slot. The set of implementations
// is closed; switch on the concrete type.
type ConstantPoolEntry interface {
	Tag() ConstantTag
	isConstant()
}

type ConstantUtf8Info struct {
	Value string
}

type ConstantIntegerInfo struct {
	Value int32
}

type ConstantFloatInfo struct {
	Value float32
}

type ConstantLongInfo struct {
	Value int64
}

type ConstantDoubleInfo struct {
	Value float64
}

type ConstantClassInfo struct {
	NameIndex uint16
}

type ConstantStringInfo struct {
	StringIndex uint16
}

type ConstantFieldrefInfo struct {
	ClassIndex       uint16
	NameAndTypeIndex uint16
}

type ConstantMethodrefInfo struct {
	ClassIndex       uint16
	NameAndTypeIndex uint16
}

type ConstantInterfaceMethodrefInfo struct {
	ClassIndex       uint16
	NameAndTypeIndex uint16
}

type ConstantNameAndTypeInfo struct {
	NameIndex       uint16
	DescriptorIndex uint16
}

type ConstantMethodHandleInfo struct {
	ReferenceKind  MethodHandleKind
	ReferenceIndex uint16
}

type ConstantMethodTypeInfo struct {
	DescriptorIndex uint16
}

type ConstantDynamicInfo struct {
	BootstrapMethodAttrIndex uint16
	NameAndTypeIndex         uint16
}

type ConstantInvokeDynamicInfo struct {
	BootstrapMethodAttrIndex uint16
	NameAndTypeIndex         uint16
}

type ConstantModuleInfo struct {
	NameIndex uint16
}

type ConstantPackageInfo struct {
	NameIndex uint16
}

// ConstantUnusableInfo occupies the logical slot after a Long or Double.
type ConstantUnusableInfo struct{}

func (*ConstantUtf8Info) Tag() ConstantTag               { return ConstantUtf8 }
func (*ConstantIntegerInfo) Tag() ConstantTag            { return ConstantInteger }
func (*ConstantFloatInfo) Tag() ConstantTag              { return ConstantFloat }
func (*ConstantLongInfo) Tag() ConstantTag               { return ConstantLong }
func (*ConstantDoubleInfo) Tag() ConstantTag             { return ConstantDouble }
func (*ConstantClassInfo) Tag() ConstantTag              { return ConstantClass }
func (*ConstantStringInfo) Tag() ConstantTag             { return ConstantString }
func (*ConstantFieldrefInfo) Tag() ConstantTag           { return ConstantFieldref }
func (*ConstantMethodrefInfo) Tag() ConstantTag          { return ConstantMethodref }
func (*ConstantInterfaceMethodrefInfo) Tag() ConstantTag { return ConstantInterfaceMethodref }
func (*ConstantNameAndTypeInfo) Tag() ConstantTag        { return ConstantNameAndType }
func (*ConstantMethodHandleInfo) Tag() ConstantTag       { return ConstantMethodHandle }
func (*ConstantMethodTypeInfo) Tag() ConstantTag         { return ConstantMethodType }
func (*ConstantDynamicInfo) Tag() ConstantTag            { return ConstantDynamic }
func (*ConstantInvokeDynamicInfo) Tag() ConstantTag      { return ConstantInvokeDynamic }
func (*ConstantModuleInfo) Tag() ConstantTag             { return ConstantModule }
func (*ConstantPackageInfo) Tag() ConstantTag            { return ConstantPackage }
func (*ConstantUnusableInfo) Tag() ConstantTag           { return ConstantUnusable }

func (*ConstantUtf8Info) isConstant()               {}
func (*ConstantIntegerInfo) isConstant()            {}
func (*ConstantFloatInfo) isConstant()              {}
func (*ConstantLongInfo) isConstant()               {}
func (*ConstantDoubleInfo) isConstant()             {}
func (*ConstantClassInfo) isConstant()              {}
func (*ConstantStringInfo) isConstant()             {}
func (*ConstantFieldrefInfo) isConstant()           {}
func (*ConstantMethodrefInfo) isConstant()          {}
func (*ConstantInterfaceMethodrefInfo) isConstant() {}
func (*ConstantNameAndTypeInfo) isConstant()        {}
func (*ConstantMethodHandleInfo) isConstant()       {}
func (*ConstantMethodTypeInfo) isConstant()         {}
func (*ConstantDynamicInfo) isConstant()            {}
func (*ConstantInvokeDynamicInfo) isConstant()      {}
func (*ConstantModuleInfo) isConstant()             {}
func (*ConstantPackageInfo) isConstant()            {}
func (*ConstantUnusableInfo) isConstant()           {}

// ConstantPool holds one element per logical slot: element i is
// logical index i+1. The slot after each Long or Double holds a
// *ConstantUnusableInfo.
type ConstantPool []ConstantPoolEntry

// Entry returns the entry at a logical index. Index 0, out-of-range
// indices and unusable slots report false.
func (cp ConstantPool) Entry(index uint16) (ConstantPoolEntry, bool) {
	if index == 0 || int(index) > len(cp) {
		return nil, false
	}
	e := cp[index-1]
	if _, unusable := e.(*ConstantUnusableInfo); unusable || e == nil {
		return nil, false
	}
	return e, true
}

// Usable reports whether index refers to a real entry.
func (cp ConstantPool) Usable(index uint16) bool {
	_, ok := cp.Entry(index)
	return ok
}

// PhysicalCount returns the number of entries actually present in the
// file, not counting the unusable slots.
func (cp ConstantPool) PhysicalCount() int {
	n := 0
	for _, e := range cp {
		if _, unusable := e.(*ConstantUnusableInfo); !unusable {
			n++
		}
	}
	return n
}

func entryAs[T ConstantPoolEntry](cp ConstantPool, index uint16) (T, bool) {
	var zero T
	e, ok := cp.Entry(index)
	if !ok {
		return zero, false
	}
	t, ok := e.(T)
	return t, ok
}

func (cp ConstantPool) GetUtf8(index uint16) string {
	if entry, ok := entryAs[*ConstantUtf8Info](cp, index); ok {
		return entry.Value
	}
	return ""
}

func (cp ConstantPool) GetClassName(index uint16) string {
	if entry, ok := entryAs[*ConstantClassInfo](cp, index); ok {
		return cp.GetUtf8(entry.NameIndex)
	}
	return ""
}

func (cp ConstantPool) GetNameAndType(index uint16) (name, descriptor string) {
	if entry, ok := entryAs[*ConstantNameAndTypeInfo](cp, index); ok {
		return cp.GetUtf8(entry.NameIndex), cp.GetUtf8(entry.DescriptorIndex)
	}
	return "", ""
}

func (cp ConstantPool) GetString(index uint16) string {
	if entry, ok := entryAs[*ConstantStringInfo](cp, index); ok {
		return cp.GetUtf8(entry.StringIndex)
	}
	return ""
}

func (cp ConstantPool) GetModuleName(index uint16) string {
	if entry, ok := entryAs[*ConstantModuleInfo](cp, index); ok {
		return cp.GetUtf8(entry.NameIndex)
	}
	return ""
}

func (cp ConstantPool) GetPackageName(index uint16) string {
	if entry, ok := entryAs[*ConstantPackageInfo](cp, index); ok {
		return cp.GetUtf8(entry.NameIndex)
	}
	return ""
}

// MemberRef resolves a Fieldref, Methodref or InterfaceMethodref.
func (cp ConstantPool) MemberRef(index uint16) (className, name, descriptor string, ok bool) {
	e, ok := cp.Entry(index)
	if !ok {
		return "", "", "", false
	}
	var classIndex, natIndex uint16
	switch ref := e.(type) {
	case *ConstantFieldrefInfo:
		classIndex, natIndex = ref.ClassIndex, ref.NameAndTypeIndex
	case *ConstantMethodrefInfo:
		classIndex, natIndex = ref.ClassIndex, ref.NameAndTypeIndex
	case *ConstantInterfaceMethodrefInfo:
		classIndex, natIndex = ref.ClassIndex, ref.NameAndTypeIndex
	default:
		return "", "", "", false
	}
	name, descriptor = cp.GetNameAndType(natIndex)
	return cp.GetClassName(classIndex), name, descriptor, true
}

// Describe renders an entry the way javap's constant pool listing does.
func (cp ConstantPool) Describe(index uint16) string {
	e, ok := cp.Entry(index)
	if !ok {
		return ""
	}
	switch c := e.(type) {
	case *ConstantUtf8Info:
		return c.Value
	case *ConstantIntegerInfo:
		return fmt.Sprintf("%d", c.Value)
	case *ConstantFloatInfo:
		return fmt.Sprintf("%gf", c.Value)
	case *ConstantLongInfo:
		return fmt.Sprintf("%dl", c.Value)
	case *ConstantDoubleInfo:
		return fmt.Sprintf("%gd", c.Value)
	case *ConstantClassInfo:
		return cp.GetUtf8(c.NameIndex)
	case *ConstantStringInfo:
		return cp.GetUtf8(c.StringIndex)
	case *ConstantFieldrefInfo, *ConstantMethodrefInfo, *ConstantInterfaceMethodrefInfo:
		class, name, desc, _ := cp.MemberRef(index)
		return class + "." + name + ":" + desc
	case *ConstantNameAndTypeInfo:
		name, desc := cp.GetNameAndType(index)
		return name + ":" + desc
	case *ConstantMethodHandleInfo:
		return c.ReferenceKind.String() + " " + cp.Describe(c.ReferenceIndex)
	case *ConstantMethodTypeInfo:
		return cp.GetUtf8(c.DescriptorIndex)
	case *ConstantDynamicInfo:
		name, desc := cp.GetNameAndType(c.NameAndTypeIndex)
		return fmt.Sprintf("#%d:%s:%s", c.BootstrapMethodAttrIndex, name, desc)
	case *ConstantInvokeDynamicInfo:
		name, desc := cp.GetNameAndType(c.NameAndTypeIndex)
		return fmt.Sprintf("#%d:%s:%s", c.BootstrapMethodAttrIndex, name, desc)
	case *ConstantModuleInfo:
		return cp.GetUtf8(c.NameIndex)
	case *ConstantPackageInfo:
		return cp.GetUtf8(c.NameIndex)
	}
	return ""
}

// readConstantPool decodes count-1 logical slots. The cursor must be
// positioned right after constant_pool_count.
func readConstantPool(c *Cursor, count uint16) (ConstantPool, error) {
	if count == 0 {
		return ConstantPool{}, nil
	}
	slots := int(count) - 1
	cp := make(ConstantPool, 0, slots)
	for remaining := slots; remaining > 0; {
		index := len(cp) + 1
		entry, err := readConstantPoolEntry(c)
		if err != nil {
			return nil, fmt.Errorf("failed to read constant pool entry %d: %w", index, err)
		}
		cp = append(cp, entry)
		remaining--

		switch entry.(type) {
		case *ConstantLongInfo, *ConstantDoubleInfo:
			if remaining > 0 {
				cp = append(cp, &ConstantUnusableInfo{})
				remaining--
			}
		}
	}
	Logger().Debug("decoded constant pool",
		zap.Int("slots", len(cp)),
		zap.Int("entries", cp.PhysicalCount()))
	return cp, nil
}

func readConstantPoolEntry(c *Cursor) (ConstantPoolEntry, error) {
	start := c.Position()
	rawTag, err := c.ReadU8()
	if err != nil {
		return nil, err
	}

	switch tag := ConstantTag(rawTag); tag {
	case ConstantUtf8:
		length, err := c.ReadU16()
		if err != nil {
			return nil, err
		}
		dataStart := c.Position()
		data, err := c.ReadBytes(int(length))
		if err != nil {
			return nil, err
		}
		value, bad, err := decodeModifiedUtf8(data)
		if err != nil {
			return nil, &DecodeError{Kind: KindMalformedUtf8, Offset: dataStart + bad, Tag: rawTag}
		}
		return &ConstantUtf8Info{Value: value}, nil

	case ConstantInteger:
		v, err := c.ReadU32()
		if err != nil {
			return nil, err
		}
		return &ConstantIntegerInfo{Value: int32(v)}, nil

	case ConstantFloat:
		v, err := c.ReadU32()
		if err != nil {
			return nil, err
		}
		return &ConstantFloatInfo{Value: math.Float32frombits(v)}, nil

	case ConstantLong, ConstantDouble:
		high, err := c.ReadU32()
		if err != nil {
			return nil, err
		}
		low, err := c.ReadU32()
		if err != nil {
			return nil, err
		}
		bits := uint64(high)<<32 | uint64(low)
		if tag == ConstantLong {
			return &ConstantLongInfo{Value: int64(bits)}, nil
		}
		return &ConstantDoubleInfo{Value: math.Float64frombits(bits)}, nil

	case ConstantClass:
		nameIndex, err := c.ReadU16()
		if err != nil {
			return nil, err
		}
		return &ConstantClassInfo{NameIndex: nameIndex}, nil

	case ConstantString:
		stringIndex, err := c.ReadU16()
		if err != nil {
			return nil, err
		}
		return &ConstantStringInfo{StringIndex: stringIndex}, nil

	case ConstantMethodType:
		descriptorIndex, err := c.ReadU16()
		if err != nil {
			return nil, err
		}
		return &ConstantMethodTypeInfo{DescriptorIndex: descriptorIndex}, nil

	case ConstantModule:
		nameIndex, err := c.ReadU16()
		if err != nil {
			return nil, err
		}
		return &ConstantModuleInfo{NameIndex: nameIndex}, nil

	case ConstantPackage:
		nameIndex, err := c.ReadU16()
		if err != nil {
			return nil, err
		}
		return &ConstantPackageInfo{NameIndex: nameIndex}, nil

	case ConstantMethodHandle:
		kind, err := c.ReadU8()
		if err != nil {
			return nil, err
		}
		refIndex, err := c.ReadU16()
		if err != nil {
			return nil, err
		}
		return &ConstantMethodHandleInfo{
			ReferenceKind:  MethodHandleKind(kind),
			ReferenceIndex: refIndex,
		}, nil

	case ConstantFieldref, ConstantMethodref, ConstantInterfaceMethodref,
		ConstantNameAndType, ConstantDynamic, ConstantInvokeDynamic:
		a, err := c.ReadU16()
		if err != nil {
			return nil, err
		}
		b, err := c.ReadU16()
		if err != nil {
			return nil, err
		}
		switch tag {
		case ConstantFieldref:
			return &ConstantFieldrefInfo{ClassIndex: a, NameAndTypeIndex: b}, nil
		case ConstantMethodref:
			return &ConstantMethodrefInfo{ClassIndex: a, NameAndTypeIndex: b}, nil
		case ConstantInterfaceMethodref:
			return &ConstantInterfaceMethodrefInfo{ClassIndex: a, NameAndTypeIndex: b}, nil
		case ConstantNameAndType:
			return &ConstantNameAndTypeInfo{NameIndex: a, DescriptorIndex: b}, nil
		case ConstantDynamic:
			return &ConstantDynamicInfo{BootstrapMethodAttrIndex: a, NameAndTypeIndex: b}, nil
		default:
			return &ConstantInvokeDynamicInfo{BootstrapMethodAttrIndex: a, NameAndTypeIndex: b}, nil
		}

	default:
		return nil, &DecodeError{Kind: KindUnknownConstantTag, Tag: rawTag, Offset: start}
	}
}
