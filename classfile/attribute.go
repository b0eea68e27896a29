package classfile

// AttributeInfo is one entry of an attribute list. Info always holds the
// raw payload. Parsed is set when the attribute name is recognized and nil
// when the payload is kept opaque.
type AttributeInfo struct {
	NameIndex uint16
	Name      string
	Info      []byte
	Parsed    Attribute
}

// Length returns the declared attribute_length.
func (a *AttributeInfo) Length() uint32 {
	return uint32(len(a.Info))
}

func (a *AttributeInfo) IsRecognized() bool {
	return a.Parsed != nil
}

// Attribute is implemented by every recognized attribute body.
type Attribute interface {
	AttributeName() string
	isAttribute()
}

// AttributeAs returns the parsed body of a if it has type T.
func AttributeAs[T Attribute](a *AttributeInfo) (T, bool) {
	var zero T
	if a == nil || a.Parsed == nil {
		return zero, false
	}
	t, ok := a.Parsed.(T)
	return t, ok
}

func findAttribute(attrs []AttributeInfo, name string) *AttributeInfo {
	for i := range attrs {
		if attrs[i].Name == name {
			return &attrs[i]
		}
	}
	return nil
}

type CodeAttribute struct {
	MaxStack       uint16
	MaxLocals      uint16
	Code           []byte
	ExceptionTable []ExceptionTableEntry
	Attributes     []AttributeInfo
}

// GetAttribute returns the first nested attribute with the given name.
func (c *CodeAttribute) GetAttribute(name string) *AttributeInfo {
	return findAttribute(c.Attributes, name)
}

type ExceptionTableEntry struct {
	StartPC   uint16
	EndPC     uint16
	HandlerPC uint16
	CatchType uint16
}

type ConstantValueAttribute struct {
	ConstantValueIndex uint16
}

type SourceFileAttribute struct {
	SourceFileIndex uint16
}

type SignatureAttribute struct {
	SignatureIndex uint16
}

type ExceptionsAttribute struct {
	ExceptionIndexTable []uint16
}

type LineNumberTableAttribute struct {
	LineNumberTable []LineNumberEntry
}

type LineNumberEntry struct {
	StartPC    uint16
	LineNumber uint16
}

type LocalVariableTableAttribute struct {
	LocalVariableTable []LocalVariableEntry
}

type LocalVariableEntry struct {
	StartPC         uint16
	Length          uint16
	NameIndex       uint16
	DescriptorIndex uint16
	Index           uint16
}

type LocalVariableTypeTableAttribute struct {
	LocalVariableTypeTable []LocalVariableTypeEntry
}

type LocalVariableTypeEntry struct {
	StartPC        uint16
	Length         uint16
	NameIndex      uint16
	SignatureIndex uint16
	Index          uint16
}

type InnerClassesAttribute struct {
	Classes []InnerClassEntry
}

type InnerClassEntry struct {
	InnerClassInfoIndex   uint16
	OuterClassInfoIndex   uint16
	InnerNameIndex        uint16
	InnerClassAccessFlags AccessFlags
}

type EnclosingMethodAttribute struct {
	ClassIndex  uint16
	MethodIndex uint16
}

type SyntheticAttribute struct{}

type DeprecatedAttribute struct{}

type SourceDebugExtensionAttribute struct {
	DebugExtension []byte
}

type BootstrapMethodsAttribute struct {
	BootstrapMethods []BootstrapMethod
}

type BootstrapMethod struct {
	BootstrapMethodRef uint16
	BootstrapArguments []uint16
}

type MethodParametersAttribute struct {
	Parameters []MethodParameter
}

type MethodParameter struct {
	NameIndex   uint16
	AccessFlags AccessFlags
}

type NestHostAttribute struct {
	HostClassIndex uint16
}

type NestMembersAttribute struct {
	Classes []uint16
}

type PermittedSubclassesAttribute struct {
	Classes []uint16
}

type RecordAttribute struct {
	Components []RecordComponentInfo
}

type RecordComponentInfo struct {
	NameIndex       uint16
	DescriptorIndex uint16
	Attributes      []AttributeInfo
}

type StackMapTableAttribute struct {
	Entries []StackMapFrame
}

// FrameKind names the stack_map_frame union member selected by FrameType.
type FrameKind string

const (
	FrameSame                         FrameKind = "same_frame"
	FrameSameLocals1StackItem         FrameKind = "same_locals_1_stack_item_frame"
	FrameSameLocals1StackItemExtended FrameKind = "same_locals_1_stack_item_frame_extended"
	FrameChop                         FrameKind = "chop_frame"
	FrameSameExtended                 FrameKind = "same_frame_extended"
	FrameAppend                       FrameKind = "append_frame"
	FrameFull                         FrameKind = "full_frame"
)

type StackMapFrame struct {
	FrameType   uint8
	Kind        FrameKind
	OffsetDelta uint16
	Locals      []VerificationTypeInfo
	Stack       []VerificationTypeInfo
}

type VerificationTag uint8

const (
	ItemTop               VerificationTag = 0
	ItemInteger           VerificationTag = 1
	ItemFloat             VerificationTag = 2
	ItemDouble            VerificationTag = 3
	ItemLong              VerificationTag = 4
	ItemNull              VerificationTag = 5
	ItemUninitializedThis VerificationTag = 6
	ItemObject            VerificationTag = 7
	ItemUninitialized     VerificationTag = 8
)

// VerificationTypeInfo carries CPoolIndex for ItemObject and Offset for
// ItemUninitialized.
type VerificationTypeInfo struct {
	Tag        VerificationTag
	CPoolIndex uint16
	Offset     uint16
}

type Annotation struct {
	TypeIndex         uint16
	ElementValuePairs []ElementValuePair
}

type ElementValuePair struct {
	ElementNameIndex uint16
	Value            ElementValue
}

// ElementValue is the element_value union. Tag selects which field is
// meaningful: ConstValueIndex for B C D F I J S Z s, EnumConst for e,
// ClassInfoIndex for c, Annotation for @ and Values for [.
type ElementValue struct {
	Tag             byte
	ConstValueIndex uint16
	EnumConst       *EnumConstValue
	ClassInfoIndex  uint16
	Annotation      *Annotation
	Values          []ElementValue
}

type EnumConstValue struct {
	TypeNameIndex  uint16
	ConstNameIndex uint16
}

type RuntimeVisibleAnnotationsAttribute struct {
	Annotations []Annotation
}

type RuntimeInvisibleAnnotationsAttribute struct {
	Annotations []Annotation
}

type RuntimeVisibleParameterAnnotationsAttribute struct {
	ParameterAnnotations [][]Annotation
}

type RuntimeInvisibleParameterAnnotationsAttribute struct {
	ParameterAnnotations [][]Annotation
}

type TypeAnnotation struct {
	TargetType        uint8
	TargetInfo        TargetInfo
	TargetPath        []TypePathEntry
	TypeIndex         uint16
	ElementValuePairs []ElementValuePair
}

// TargetInfo is the target_info union; TargetType of the enclosing
// TypeAnnotation decides which fields are set.
type TargetInfo struct {
	TypeParameterIndex   uint8
	SupertypeIndex       uint16
	BoundIndex           uint8
	FormalParameterIndex uint8
	ThrowsTypeIndex      uint16
	LocalVarTable        []LocalVarTarget
	ExceptionTableIndex  uint16
	Offset               uint16
	TypeArgumentIndex    uint8
}

type LocalVarTarget struct {
	StartPC uint16
	Length  uint16
	Index   uint16
}

type TypePathEntry struct {
	TypePathKind      uint8
	TypeArgumentIndex uint8
}

type RuntimeVisibleTypeAnnotationsAttribute struct {
	Annotations []TypeAnnotation
}

type RuntimeInvisibleTypeAnnotationsAttribute struct {
	Annotations []TypeAnnotation
}

type AnnotationDefaultAttribute struct {
	DefaultValue ElementValue
}

type ModuleAttribute struct {
	ModuleNameIndex    uint16
	ModuleFlags        AccessFlags
	ModuleVersionIndex uint16
	Requires           []ModuleRequires
	Exports            []ModuleExports
	Opens              []ModuleOpens
	Uses               []uint16
	Provides           []ModuleProvides
}

type ModuleRequires struct {
	RequiresIndex        uint16
	RequiresFlags        AccessFlags
	RequiresVersionIndex uint16
}

type ModuleExports struct {
	ExportsIndex   uint16
	ExportsFlags   AccessFlags
	ExportsToIndex []uint16
}

type ModuleOpens struct {
	OpensIndex   uint16
	OpensFlags   AccessFlags
	OpensToIndex []uint16
}

type ModuleProvides struct {
	ProvidesIndex     uint16
	ProvidesWithIndex []uint16
}

type ModulePackagesAttribute struct {
	PackageIndex []uint16
}

type ModuleMainClassAttribute struct {
	MainClassIndex uint16
}

func (*CodeAttribute) AttributeName() string                 { return "Code" }
func (*ConstantValueAttribute) AttributeName() string        { return "ConstantValue" }
func (*SourceFileAttribute) AttributeName() string           { return "SourceFile" }
func (*SignatureAttribute) AttributeName() string            { return "Signature" }
func (*ExceptionsAttribute) AttributeName() string           { return "Exceptions" }
func (*LineNumberTableAttribute) AttributeName() string      { return "LineNumberTable" }
func (*LocalVariableTableAttribute) AttributeName() string   { return "LocalVariableTable" }
func (*InnerClassesAttribute) AttributeName() string         { return "InnerClasses" }
func (*EnclosingMethodAttribute) AttributeName() string      { return "EnclosingMethod" }
func (*SyntheticAttribute) AttributeName() string            { return "Synthetic" }
func (*DeprecatedAttribute) AttributeName() string           { return "Deprecated" }
func (*BootstrapMethodsAttribute) AttributeName() string     { return "BootstrapMethods" }
func (*MethodParametersAttribute) AttributeName() string     { return "MethodParameters" }
func (*NestHostAttribute) AttributeName() string             { return "NestHost" }
func (*NestMembersAttribute) AttributeName() string          { return "NestMembers" }
func (*PermittedSubclassesAttribute) AttributeName() string  { return "PermittedSubclasses" }
func (*RecordAttribute) AttributeName() string               { return "Record" }
func (*StackMapTableAttribute) AttributeName() string        { return "StackMapTable" }
func (*AnnotationDefaultAttribute) AttributeName() string    { return "AnnotationDefault" }
func (*ModuleAttribute) AttributeName() string               { return "Module" }
func (*ModulePackagesAttribute) AttributeName() string       { return "ModulePackages" }
func (*ModuleMainClassAttribute) AttributeName() string      { return "ModuleMainClass" }
func (*SourceDebugExtensionAttribute) AttributeName() string { return "SourceDebugExtension" }
func (*LocalVariableTypeTableAttribute) AttributeName() string {
	return "LocalVariableTypeTable"
}
func (*RuntimeVisibleAnnotationsAttribute) AttributeName() string {
	return "RuntimeVisibleAnnotations"
}
func (*RuntimeInvisibleAnnotationsAttribute) AttributeName() string {
	return "RuntimeInvisibleAnnotations"
}
func (*RuntimeVisibleParameterAnnotationsAttribute) AttributeName() string {
	return "RuntimeVisibleParameterAnnotations"
}
func (*RuntimeInvisibleParameterAnnotationsAttribute) AttributeName() string {
	return "RuntimeInvisibleParameterAnnotations"
}
func (*RuntimeVisibleTypeAnnotationsAttribute) AttributeName() string {
	return "RuntimeVisibleTypeAnnotations"
}
func (*RuntimeInvisibleTypeAnnotationsAttribute) AttributeName() string {
	return "RuntimeInvisibleTypeAnnotations"
}

func (*CodeAttribute) isAttribute()                                 {}
func (*ConstantValueAttribute) isAttribute()                        {}
func (*SourceFileAttribute) isAttribute()                           {}
func (*SignatureAttribute) isAttribute()                            {}
func (*ExceptionsAttribute) isAttribute()                           {}
func (*LineNumberTableAttribute) isAttribute()                      {}
func (*LocalVariableTableAttribute) isAttribute()                   {}
func (*LocalVariableTypeTableAttribute) isAttribute()               {}
func (*InnerClassesAttribute) isAttribute()                         {}
func (*EnclosingMethodAttribute) isAttribute()                      {}
func (*SyntheticAttribute) isAttribute()                            {}
func (*DeprecatedAttribute) isAttribute()                           {}
func (*SourceDebugExtensionAttribute) isAttribute()                 {}
func (*BootstrapMethodsAttribute) isAttribute()                     {}
func (*MethodParametersAttribute) isAttribute()                     {}
func (*NestHostAttribute) isAttribute()                             {}
func (*NestMembersAttribute) isAttribute()                          {}
func (*PermittedSubclassesAttribute) isAttribute()                  {}
func (*RecordAttribute) isAttribute()                               {}
func (*StackMapTableAttribute) isAttribute()                        {}
func (*RuntimeVisibleAnnotationsAttribute) isAttribute()            {}
func (*RuntimeInvisibleAnnotationsAttribute) isAttribute()          {}
func (*RuntimeVisibleParameterAnnotationsAttribute) isAttribute()   {}
func (*RuntimeInvisibleParameterAnnotationsAttribute) isAttribute() {}
func (*RuntimeVisibleTypeAnnotationsAttribute) isAttribute()        {}
func (*RuntimeInvisibleTypeAnnotationsAttribute) isAttribute()      {}
func (*AnnotationDefaultAttribute) isAttribute()                    {}
func (*ModuleAttribute) isAttribute()                               {}
func (*ModulePackagesAttribute) isAttribute()                       {}
func (*ModuleMainClassAttribute) isAttribute()                      {}

func (a *AttributeInfo) AsCode() *CodeAttribute {
	code, _ := AttributeAs[*CodeAttribute](a)
	return code
}

func (a *AttributeInfo) AsConstantValue() *ConstantValueAttribute {
	cv, _ := AttributeAs[*ConstantValueAttribute](a)
	return cv
}

func (a *AttributeInfo) AsSourceFile() *SourceFileAttribute {
	sf, _ := AttributeAs[*SourceFileAttribute](a)
	return sf
}

func (a *AttributeInfo) AsLineNumberTable() *LineNumberTableAttribute {
	lnt, _ := AttributeAs[*LineNumberTableAttribute](a)
	return lnt
}

func (a *AttributeInfo) AsExceptions() *ExceptionsAttribute {
	ex, _ := AttributeAs[*ExceptionsAttribute](a)
	return ex
}

func (a *AttributeInfo) AsBootstrapMethods() *BootstrapMethodsAttribute {
	bm, _ := AttributeAs[*BootstrapMethodsAttribute](a)
	return bm
}
