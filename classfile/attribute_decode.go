package classfile

import (
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// rawAttribute is an attribute as it appears on the wire, before its
// name has been looked up in the constant pool.
type rawAttribute struct {
	nameIndex uint16
	info      []byte
}

// readRawAttributes reads count (name_index, attribute_length, info)
// triples. It never consults the constant pool.
func readRawAttributes(c *Cursor, count uint16) ([]rawAttribute, error) {
	raws := make([]rawAttribute, 0, count)
	for i := 0; i < int(count); i++ {
		nameIndex, err := c.ReadU16()
		if err != nil {
			return nil, fmt.Errorf("failed to read attribute %d: %w", i, err)
		}
		length, err := c.ReadU32()
		if err != nil {
			return nil, fmt.Errorf("failed to read attribute %d: %w", i, err)
		}
		info, err := c.ReadBytes(int(length))
		if err != nil {
			return nil, fmt.Errorf("failed to read attribute %d payload: %w", i, err)
		}
		raws = append(raws, rawAttribute{nameIndex: nameIndex, info: info})
	}
	return raws, nil
}

// resolveAttributes upgrades raw attributes whose names are recognized
// into typed bodies.
func resolveAttributes(raws []rawAttribute, cp ConstantPool, depth int) ([]AttributeInfo, error) {
	attrs := make([]AttributeInfo, len(raws))
	for i, raw := range raws {
		attr, err := resolveAttribute(raw, cp, depth)
		if err != nil {
			return nil, fmt.Errorf("failed to decode attribute %d (%s): %w", i, attr.Name, err)
		}
		attrs[i] = attr
	}
	return attrs, nil
}

func resolveAttribute(raw rawAttribute, cp ConstantPool, depth int) (AttributeInfo, error) {
	attr := AttributeInfo{
		NameIndex: raw.nameIndex,
		Name:      cp.GetUtf8(raw.nameIndex),
		Info:      raw.info,
	}

	decode, ok := attributeDecoderFor(attr.Name)
	if !ok {
		Logger().Debug("keeping attribute opaque",
			zap.String("name", attr.Name),
			zap.Uint16("name_index", raw.nameIndex),
			zap.Int("length", len(raw.info)))
		return attr, nil
	}

	c := NewCursor(raw.info)
	c.depth = depth
	parsed, err := decode(c, cp)
	if err != nil {
		var de *DecodeError
		if errors.As(err, &de) {
			switch de.Kind {
			case KindUnexpectedEOF:
				return attr, lengthMismatch(attr.Name, len(raw.info), de.Offset+de.Declared)
			case KindMalformedAttribute:
				if de.Name == "" {
					de.Name = attr.Name
				}
			}
		}
		return attr, err
	}
	if c.Remaining() != 0 {
		return attr, lengthMismatch(attr.Name, len(raw.info), c.Position())
	}

	attr.Parsed = parsed
	return attr, nil
}

// readAttributeList reads attributes_count followed by that many
// attributes, resolving each against cp.
func readAttributeList(c *Cursor, cp ConstantPool) ([]AttributeInfo, error) {
	if err := c.descend(); err != nil {
		return nil, err
	}
	defer c.ascend()

	count, err := c.ReadU16()
	if err != nil {
		return nil, fmt.Errorf("failed to read attributes count: %w", err)
	}
	raws, err := readRawAttributes(c, count)
	if err != nil {
		return nil, err
	}
	return resolveAttributes(raws, cp, c.depth)
}

type attributeDecoder func(c *Cursor, cp ConstantPool) (Attribute, error)

// attributeDecoderFor maps an attribute name to its payload decoder.
func attributeDecoderFor(name string) (attributeDecoder, bool) {
	switch name {
	case "Code":
		return decodeCode, true
	case "ConstantValue":
		return decodeConstantValue, true
	case "SourceFile":
		return decodeSourceFile, true
	case "Signature":
		return decodeSignature, true
	case "Exceptions":
		return decodeExceptions, true
	case "LineNumberTable":
		return decodeLineNumberTable, true
	case "LocalVariableTable":
		return decodeLocalVariableTable, true
	case "LocalVariableTypeTable":
		return decodeLocalVariableTypeTable, true
	case "InnerClasses":
		return decodeInnerClasses, true
	case "EnclosingMethod":
		return decodeEnclosingMethod, true
	case "Synthetic":
		return decodeSynthetic, true
	case "Deprecated":
		return decodeDeprecated, true
	case "SourceDebugExtension":
		return decodeSourceDebugExtension, true
	case "BootstrapMethods":
		return decodeBootstrapMethods, true
	case "MethodParameters":
		return decodeMethodParameters, true
	case "NestHost":
		return decodeNestHost, true
	case "NestMembers":
		return decodeNestMembers, true
	case "PermittedSubclasses":
		return decodePermittedSubclasses, true
	case "Record":
		return decodeRecord, true
	case "StackMapTable":
		return decodeStackMapTable, true
	case "RuntimeVisibleAnnotations":
		return decodeRuntimeVisibleAnnotations, true
	case "RuntimeInvisibleAnnotations":
		return decodeRuntimeInvisibleAnnotations, true
	case "RuntimeVisibleParameterAnnotations":
		return decodeRuntimeVisibleParameterAnnotations, true
	case "RuntimeInvisibleParameterAnnotations":
		return decodeRuntimeInvisibleParameterAnnotations, true
	case "RuntimeVisibleTypeAnnotations":
		return decodeRuntimeVisibleTypeAnnotations, true
	case "RuntimeInvisibleTypeAnnotations":
		return decodeRuntimeInvisibleTypeAnnotations, true
	case "AnnotationDefault":
		return decodeAnnotationDefault, true
	case "Module":
		return decodeModule, true
	case "ModulePackages":
		return decodeModulePackages, true
	case "ModuleMainClass":
		return decodeModuleMainClass, true
	}
	return nil, false
}

// maxNestingDepth bounds element value and attribute list recursion.
const maxNestingDepth = 256

func (c *Cursor) descend() error {
	if c.depth >= maxNestingDepth {
		return malformed(c, fmt.Sprintf("nesting deeper than %d levels", maxNestingDepth))
	}
	c.depth++
	return nil
}

func (c *Cursor) ascend() { c.depth-- }

func malformed(c *Cursor, detail string) *DecodeError {
	return &DecodeError{Kind: KindMalformedAttribute, Offset: c.Position(), Detail: detail}
}

func readTable[T any](c *Cursor, count int, read func(*Cursor) (T, error)) ([]T, error) {
	out := make([]T, 0, count)
	for i := 0; i < count; i++ {
		v, err := read(c)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// readU16Table reads a u2 count followed by that many u2 values.
func readU16Table(c *Cursor) ([]uint16, error) {
	n, err := c.ReadU16()
	if err != nil {
		return nil, err
	}
	return c.ReadU16Array(int(n))
}

func decodeCode(c *Cursor, cp ConstantPool) (Attribute, error) {
	code := &CodeAttribute{}
	var err error
	if code.MaxStack, err = c.ReadU16(); err != nil {
		return nil, err
	}
	if code.MaxLocals, err = c.ReadU16(); err != nil {
		return nil, err
	}
	codeLength, err := c.ReadU32()
	if err != nil {
		return nil, err
	}
	if code.Code, err = c.ReadBytes(int(codeLength)); err != nil {
		return nil, err
	}

	tableLength, err := c.ReadU16()
	if err != nil {
		return nil, err
	}
	code.ExceptionTable, err = readTable(c, int(tableLength), func(c *Cursor) (ExceptionTableEntry, error) {
		v, err := c.ReadU16Array(4)
		if err != nil {
			return ExceptionTableEntry{}, err
		}
		return ExceptionTableEntry{StartPC: v[0], EndPC: v[1], HandlerPC: v[2], CatchType: v[3]}, nil
	})
	if err != nil {
		return nil, err
	}

	if code.Attributes, err = readAttributeList(c, cp); err != nil {
		return nil, err
	}
	return code, nil
}

func decodeConstantValue(c *Cursor, _ ConstantPool) (Attribute, error) {
	idx, err := c.ReadU16()
	if err != nil {
		return nil, err
	}
	return &ConstantValueAttribute{ConstantValueIndex: idx}, nil
}

func decodeSourceFile(c *Cursor, _ ConstantPool) (Attribute, error) {
	idx, err := c.ReadU16()
	if err != nil {
		return nil, err
	}
	return &SourceFileAttribute{SourceFileIndex: idx}, nil
}

func decodeSignature(c *Cursor, _ ConstantPool) (Attribute, error) {
	idx, err := c.ReadU16()
	if err != nil {
		return nil, err
	}
	return &SignatureAttribute{SignatureIndex: idx}, nil
}

func decodeExceptions(c *Cursor, _ ConstantPool) (Attribute, error) {
	table, err := readU16Table(c)
	if err != nil {
		return nil, err
	}
	return &ExceptionsAttribute{ExceptionIndexTable: table}, nil
}

func decodeLineNumberTable(c *Cursor, _ ConstantPool) (Attribute, error) {
	n, err := c.ReadU16()
	if err != nil {
		return nil, err
	}
	table, err := readTable(c, int(n), func(c *Cursor) (LineNumberEntry, error) {
		v, err := c.ReadU16Array(2)
		if err != nil {
			return LineNumberEntry{}, err
		}
		return LineNumberEntry{StartPC: v[0], LineNumber: v[1]}, nil
	})
	if err != nil {
		return nil, err
	}
	return &LineNumberTableAttribute{LineNumberTable: table}, nil
}

func decodeLocalVariableTable(c *Cursor, _ ConstantPool) (Attribute, error) {
	n, err := c.ReadU16()
	if err != nil {
		return nil, err
	}
	table, err := readTable(c, int(n), func(c *Cursor) (LocalVariableEntry, error) {
		v, err := c.ReadU16Array(5)
		if err != nil {
			return LocalVariableEntry{}, err
		}
		return LocalVariableEntry{StartPC: v[0], Length: v[1], NameIndex: v[2], DescriptorIndex: v[3], Index: v[4]}, nil
	})
	if err != nil {
		return nil, err
	}
	return &LocalVariableTableAttribute{LocalVariableTable: table}, nil
}

func decodeLocalVariableTypeTable(c *Cursor, _ ConstantPool) (Attribute, error) {
	n, err := c.ReadU16()
	if err != nil {
		return nil, err
	}
	table, err := readTable(c, int(n), func(c *Cursor) (LocalVariableTypeEntry, error) {
		v, err := c.ReadU16Array(5)
		if err != nil {
			return LocalVariableTypeEntry{}, err
		}
		return LocalVariableTypeEntry{StartPC: v[0], Length: v[1], NameIndex: v[2], SignatureIndex: v[3], Index: v[4]}, nil
	})
	if err != nil {
		return nil, err
	}
	return &LocalVariableTypeTableAttribute{LocalVariableTypeTable: table}, nil
}

func decodeInnerClasses(c *Cursor, _ ConstantPool) (Attribute, error) {
	n, err := c.ReadU16()
	if err != nil {
		return nil, err
	}
	classes, err := readTable(c, int(n), func(c *Cursor) (InnerClassEntry, error) {
		v, err := c.ReadU16Array(4)
		if err != nil {
			return InnerClassEntry{}, err
		}
		return InnerClassEntry{
			InnerClassInfoIndex:   v[0],
			OuterClassInfoIndex:   v[1],
			InnerNameIndex:        v[2],
			InnerClassAccessFlags: AccessFlags(v[3]),
		}, nil
	})
	if err != nil {
		return nil, err
	}
	return &InnerClassesAttribute{Classes: classes}, nil
}

func decodeEnclosingMethod(c *Cursor, _ ConstantPool) (Attribute, error) {
	v, err := c.ReadU16Array(2)
	if err != nil {
		return nil, err
	}
	return &EnclosingMethodAttribute{ClassIndex: v[0], MethodIndex: v[1]}, nil
}

func decodeSynthetic(*Cursor, ConstantPool) (Attribute, error) {
	return &SyntheticAttribute{}, nil
}

func decodeDeprecated(*Cursor, ConstantPool) (Attribute, error) {
	return &DeprecatedAttribute{}, nil
}

func decodeSourceDebugExtension(c *Cursor, _ ConstantPool) (Attribute, error) {
	data, err := c.ReadBytes(c.Remaining())
	if err != nil {
		return nil, err
	}
	return &SourceDebugExtensionAttribute{DebugExtension: data}, nil
}

func decodeBootstrapMethods(c *Cursor, _ ConstantPool) (Attribute, error) {
	n, err := c.ReadU16()
	if err != nil {
		return nil, err
	}
	methods, err := readTable(c, int(n), func(c *Cursor) (BootstrapMethod, error) {
		ref, err := c.ReadU16()
		if err != nil {
			return BootstrapMethod{}, err
		}
		args, err := readU16Table(c)
		if err != nil {
			return BootstrapMethod{}, err
		}
		return BootstrapMethod{BootstrapMethodRef: ref, BootstrapArguments: args}, nil
	})
	if err != nil {
		return nil, err
	}
	return &BootstrapMethodsAttribute{BootstrapMethods: methods}, nil
}

func decodeMethodParameters(c *Cursor, _ ConstantPool) (Attribute, error) {
	n, err := c.ReadU8()
	if err != nil {
		return nil, err
	}
	params, err := readTable(c, int(n), func(c *Cursor) (MethodParameter, error) {
		v, err := c.ReadU16Array(2)
		if err != nil {
			return MethodParameter{}, err
		}
		return MethodParameter{NameIndex: v[0], AccessFlags: AccessFlags(v[1])}, nil
	})
	if err != nil {
		return nil, err
	}
	return &MethodParametersAttribute{Parameters: params}, nil
}

func decodeNestHost(c *Cursor, _ ConstantPool) (Attribute, error) {
	idx, err := c.ReadU16()
	if err != nil {
		return nil, err
	}
	return &NestHostAttribute{HostClassIndex: idx}, nil
}

func decodeNestMembers(c *Cursor, _ ConstantPool) (Attribute, error) {
	classes, err := readU16Table(c)
	if err != nil {
		return nil, err
	}
	return &NestMembersAttribute{Classes: classes}, nil
}

func decodePermittedSubclasses(c *Cursor, _ ConstantPool) (Attribute, error) {
	classes, err := readU16Table(c)
	if err != nil {
		return nil, err
	}
	return &PermittedSubclassesAttribute{Classes: classes}, nil
}

func decodeRecord(c *Cursor, cp ConstantPool) (Attribute, error) {
	n, err := c.ReadU16()
	if err != nil {
		return nil, err
	}
	components, err := readTable(c, int(n), func(c *Cursor) (RecordComponentInfo, error) {
		v, err := c.ReadU16Array(2)
		if err != nil {
			return RecordComponentInfo{}, err
		}
		attrs, err := readAttributeList(c, cp)
		if err != nil {
			return RecordComponentInfo{}, err
		}
		return RecordComponentInfo{NameIndex: v[0], DescriptorIndex: v[1], Attributes: attrs}, nil
	})
	if err != nil {
		return nil, err
	}
	return &RecordAttribute{Components: components}, nil
}

func decodeStackMapTable(c *Cursor, _ ConstantPool) (Attribute, error) {
	n, err := c.ReadU16()
	if err != nil {
		return nil, err
	}
	frames, err := readTable(c, int(n), readStackMapFrame)
	if err != nil {
		return nil, err
	}
	return &StackMapTableAttribute{Entries: frames}, nil
}

func readStackMapFrame(c *Cursor) (StackMapFrame, error) {
	frameType, err := c.ReadU8()
	if err != nil {
		return StackMapFrame{}, err
	}
	frame := StackMapFrame{FrameType: frameType}

	switch {
	case frameType <= 63:
		frame.Kind = FrameSame
		frame.OffsetDelta = uint16(frameType)
		return frame, nil
	case frameType <= 127:
		frame.Kind = FrameSameLocals1StackItem
		frame.OffsetDelta = uint16(frameType - 64)
		frame.Stack, err = readTable(c, 1, readVerificationTypeInfo)
		return frame, err
	case frameType <= 246:
		return frame, malformed(c, fmt.Sprintf("reserved stack map frame type %d", frameType))
	}

	if frame.OffsetDelta, err = c.ReadU16(); err != nil {
		return frame, err
	}

	switch {
	case frameType == 247:
		frame.Kind = FrameSameLocals1StackItemExtended
		frame.Stack, err = readTable(c, 1, readVerificationTypeInfo)
	case frameType <= 250:
		frame.Kind = FrameChop
	case frameType == 251:
		frame.Kind = FrameSameExtended
	case frameType <= 254:
		frame.Kind = FrameAppend
		frame.Locals, err = readTable(c, int(frameType)-251, readVerificationTypeInfo)
	default:
		frame.Kind = FrameFull
		var n uint16
		if n, err = c.ReadU16(); err != nil {
			return frame, err
		}
		if frame.Locals, err = readTable(c, int(n), readVerificationTypeInfo); err != nil {
			return frame, err
		}
		if n, err = c.ReadU16(); err != nil {
			return frame, err
		}
		frame.Stack, err = readTable(c, int(n), readVerificationTypeInfo)
	}
	return frame, err
}

func readVerificationTypeInfo(c *Cursor) (VerificationTypeInfo, error) {
	tag, err := c.ReadU8()
	if err != nil {
		return VerificationTypeInfo{}, err
	}
	info := VerificationTypeInfo{Tag: VerificationTag(tag)}
	switch info.Tag {
	case ItemTop, ItemInteger, ItemFloat, ItemDouble, ItemLong, ItemNull, ItemUninitializedThis:
	case ItemObject:
		info.CPoolIndex, err = c.ReadU16()
	case ItemUninitialized:
		info.Offset, err = c.ReadU16()
	default:
		return info, malformed(c, fmt.Sprintf("unknown verification type tag %d", tag))
	}
	return info, err
}

func readAnnotation(c *Cursor) (Annotation, error) {
	typeIndex, err := c.ReadU16()
	if err != nil {
		return Annotation{}, err
	}
	pairs, err := readElementValuePairs(c)
	if err != nil {
		return Annotation{}, err
	}
	return Annotation{TypeIndex: typeIndex, ElementValuePairs: pairs}, nil
}

func readElementValuePairs(c *Cursor) ([]ElementValuePair, error) {
	n, err := c.ReadU16()
	if err != nil {
		return nil, err
	}
	return readTable(c, int(n), func(c *Cursor) (ElementValuePair, error) {
		nameIndex, err := c.ReadU16()
		if err != nil {
			return ElementValuePair{}, err
		}
		value, err := readElementValue(c)
		if err != nil {
			return ElementValuePair{}, err
		}
		return ElementValuePair{ElementNameIndex: nameIndex, Value: value}, nil
	})
}

func readElementValue(c *Cursor) (ElementValue, error) {
	if err := c.descend(); err != nil {
		return ElementValue{}, err
	}
	defer c.ascend()

	tag, err := c.ReadU8()
	if err != nil {
		return ElementValue{}, err
	}
	ev := ElementValue{Tag: tag}

	switch tag {
	case 'B', 'C', 'D', 'F', 'I', 'J', 'S', 'Z', 's':
		ev.ConstValueIndex, err = c.ReadU16()
	case 'e':
		var v []uint16
		if v, err = c.ReadU16Array(2); err == nil {
			ev.EnumConst = &EnumConstValue{TypeNameIndex: v[0], ConstNameIndex: v[1]}
		}
	case 'c':
		ev.ClassInfoIndex, err = c.ReadU16()
	case '@':
		var ann Annotation
		if ann, err = readAnnotation(c); err == nil {
			ev.Annotation = &ann
		}
	case '[':
		var n uint16
		if n, err = c.ReadU16(); err == nil {
			ev.Values, err = readTable(c, int(n), readElementValue)
		}
	default:
		return ev, malformed(c, fmt.Sprintf("unknown element value tag %q", tag))
	}
	return ev, err
}

func readAnnotations(c *Cursor) ([]Annotation, error) {
	n, err := c.ReadU16()
	if err != nil {
		return nil, err
	}
	return readTable(c, int(n), readAnnotation)
}

func readParameterAnnotations(c *Cursor) ([][]Annotation, error) {
	n, err := c.ReadU8()
	if err != nil {
		return nil, err
	}
	return readTable(c, int(n), readAnnotations)
}

func decodeRuntimeVisibleAnnotations(c *Cursor, _ ConstantPool) (Attribute, error) {
	anns, err := readAnnotations(c)
	if err != nil {
		return nil, err
	}
	return &RuntimeVisibleAnnotationsAttribute{Annotations: anns}, nil
}

func decodeRuntimeInvisibleAnnotations(c *Cursor, _ ConstantPool) (Attribute, error) {
	anns, err := readAnnotations(c)
	if err != nil {
		return nil, err
	}
	return &RuntimeInvisibleAnnotationsAttribute{Annotations: anns}, nil
}

func decodeRuntimeVisibleParameterAnnotations(c *Cursor, _ ConstantPool) (Attribute, error) {
	params, err := readParameterAnnotations(c)
	if err != nil {
		return nil, err
	}
	return &RuntimeVisibleParameterAnnotationsAttribute{ParameterAnnotations: params}, nil
}

func decodeRuntimeInvisibleParameterAnnotations(c *Cursor, _ ConstantPool) (Attribute, error) {
	params, err := readParameterAnnotations(c)
	if err != nil {
		return nil, err
	}
	return &RuntimeInvisibleParameterAnnotationsAttribute{ParameterAnnotations: params}, nil
}

func readTypeAnnotation(c *Cursor) (TypeAnnotation, error) {
	targetType, err := c.ReadU8()
	if err != nil {
		return TypeAnnotation{}, err
	}
	ta := TypeAnnotation{TargetType: targetType}
	ti := &ta.TargetInfo

	switch targetType {
	case 0x00, 0x01:
		ti.TypeParameterIndex, err = c.ReadU8()
	case 0x10:
		ti.SupertypeIndex, err = c.ReadU16()
	case 0x11, 0x12:
		if ti.TypeParameterIndex, err = c.ReadU8(); err == nil {
			ti.BoundIndex, err = c.ReadU8()
		}
	case 0x13, 0x14, 0x15:
	case 0x16:
		ti.FormalParameterIndex, err = c.ReadU8()
	case 0x17:
		ti.ThrowsTypeIndex, err = c.ReadU16()
	case 0x40, 0x41:
		var n uint16
		if n, err = c.ReadU16(); err == nil {
			ti.LocalVarTable, err = readTable(c, int(n), func(c *Cursor) (LocalVarTarget, error) {
				v, err := c.ReadU16Array(3)
				if err != nil {
					return LocalVarTarget{}, err
				}
				return LocalVarTarget{StartPC: v[0], Length: v[1], Index: v[2]}, nil
			})
		}
	case 0x42:
		ti.ExceptionTableIndex, err = c.ReadU16()
	case 0x43, 0x44, 0x45, 0x46:
		ti.Offset, err = c.ReadU16()
	case 0x47, 0x48, 0x49, 0x4A, 0x4B:
		if ti.Offset, err = c.ReadU16(); err == nil {
			ti.TypeArgumentIndex, err = c.ReadU8()
		}
	default:
		return ta, malformed(c, fmt.Sprintf("unknown type annotation target 0x%02x", targetType))
	}
	if err != nil {
		return ta, err
	}

	pathLength, err := c.ReadU8()
	if err != nil {
		return ta, err
	}
	ta.TargetPath, err = readTable(c, int(pathLength), func(c *Cursor) (TypePathEntry, error) {
		kind, err := c.ReadU8()
		if err != nil {
			return TypePathEntry{}, err
		}
		arg, err := c.ReadU8()
		if err != nil {
			return TypePathEntry{}, err
		}
		return TypePathEntry{TypePathKind: kind, TypeArgumentIndex: arg}, nil
	})
	if err != nil {
		return ta, err
	}

	if ta.TypeIndex, err = c.ReadU16(); err != nil {
		return ta, err
	}
	ta.ElementValuePairs, err = readElementValuePairs(c)
	return ta, err
}

func readTypeAnnotations(c *Cursor) ([]TypeAnnotation, error) {
	n, err := c.ReadU16()
	if err != nil {
		return nil, err
	}
	return readTable(c, int(n), readTypeAnnotation)
}

func decodeRuntimeVisibleTypeAnnotations(c *Cursor, _ ConstantPool) (Attribute, error) {
	anns, err := readTypeAnnotations(c)
	if err != nil {
		return nil, err
	}
	return &RuntimeVisibleTypeAnnotationsAttribute{Annotations: anns}, nil
}

func decodeRuntimeInvisibleTypeAnnotations(c *Cursor, _ ConstantPool) (Attribute, error) {
	anns, err := readTypeAnnotations(c)
	if err != nil {
		return nil, err
	}
	return &RuntimeInvisibleTypeAnnotationsAttribute{Annotations: anns}, nil
}

func decodeAnnotationDefault(c *Cursor, _ ConstantPool) (Attribute, error) {
	value, err := readElementValue(c)
	if err != nil {
		return nil, err
	}
	return &AnnotationDefaultAttribute{DefaultValue: value}, nil
}

func decodeModule(c *Cursor, _ ConstantPool) (Attribute, error) {
	head, err := c.ReadU16Array(3)
	if err != nil {
		return nil, err
	}
	m := &ModuleAttribute{
		ModuleNameIndex:    head[0],
		ModuleFlags:        AccessFlags(head[1]),
		ModuleVersionIndex: head[2],
	}

	n, err := c.ReadU16()
	if err != nil {
		return nil, err
	}
	m.Requires, err = readTable(c, int(n), func(c *Cursor) (ModuleRequires, error) {
		v, err := c.ReadU16Array(3)
		if err != nil {
			return ModuleRequires{}, err
		}
		return ModuleRequires{RequiresIndex: v[0], RequiresFlags: AccessFlags(v[1]), RequiresVersionIndex: v[2]}, nil
	})
	if err != nil {
		return nil, err
	}

	if n, err = c.ReadU16(); err != nil {
		return nil, err
	}
	m.Exports, err = readTable(c, int(n), func(c *Cursor) (ModuleExports, error) {
		v, err := c.ReadU16Array(2)
		if err != nil {
			return ModuleExports{}, err
		}
		to, err := readU16Table(c)
		if err != nil {
			return ModuleExports{}, err
		}
		return ModuleExports{ExportsIndex: v[0], ExportsFlags: AccessFlags(v[1]), ExportsToIndex: to}, nil
	})
	if err != nil {
		return nil, err
	}

	if n, err = c.ReadU16(); err != nil {
		return nil, err
	}
	m.Opens, err = readTable(c, int(n), func(c *Cursor) (ModuleOpens, error) {
		v, err := c.ReadU16Array(2)
		if err != nil {
			return ModuleOpens{}, err
		}
		to, err := readU16Table(c)
		if err != nil {
			return ModuleOpens{}, err
		}
		return ModuleOpens{OpensIndex: v[0], OpensFlags: AccessFlags(v[1]), OpensToIndex: to}, nil
	})
	if err != nil {
		return nil, err
	}

	if m.Uses, err = readU16Table(c); err != nil {
		return nil, err
	}

	if n, err = c.ReadU16(); err != nil {
		return nil, err
	}
	m.Provides, err = readTable(c, int(n), func(c *Cursor) (ModuleProvides, error) {
		idx, err := c.ReadU16()
		if err != nil {
			return ModuleProvides{}, err
		}
		with, err := readU16Table(c)
		if err != nil {
			return ModuleProvides{}, err
		}
		return ModuleProvides{ProvidesIndex: idx, ProvidesWithIndex: with}, nil
	})
	if err != nil {
		return nil, err
	}
	return m, nil
}

func decodeModulePackages(c *Cursor, _ ConstantPool) (Attribute, error) {
	packages, err := readU16Table(c)
	if err != nil {
		return nil, err
	}
	return &ModulePackagesAttribute{PackageIndex: packages}, nil
}

func decodeModuleMainClass(c *Cursor, _ ConstantPool) (Attribute, error) {
	idx, err := c.ReadU16()
	if err != nil {
		return nil, err
	}
	return &ModuleMainClassAttribute{MainClassIndex: idx}, nil
}
