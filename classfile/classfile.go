package classfile

import (
	"fmt"
	"slices"
)

// ClassFile is the decoded form of a .class file. It is never mutated
// after Decode returns.
type ClassFile struct {
	Magic        uint32
	MinorVersion uint16
	MajorVersion uint16
	ConstantPool ConstantPool
	AccessFlags  AccessFlags
	ThisClass    uint16
	SuperClass   uint16
	Interfaces   []uint16
	Fields       []FieldInfo
	Methods      []MethodInfo
	Attributes   []AttributeInfo
}

func (cf *ClassFile) ClassName() string {
	return cf.ConstantPool.GetClassName(cf.ThisClass)
}

// SuperClassName is empty for java/lang/Object and module-info.
func (cf *ClassFile) SuperClassName() string {
	return cf.ConstantPool.GetClassName(cf.SuperClass)
}

func (cf *ClassFile) InterfaceNames() []string {
	names := make([]string, len(cf.Interfaces))
	for i, idx := range cf.Interfaces {
		names[i] = cf.ConstantPool.GetClassName(idx)
	}
	return names
}

// Version returns the class file version as major.minor.
func (cf *ClassFile) Version() string {
	return fmt.Sprintf("%d.%d", cf.MajorVersion, cf.MinorVersion)
}

func (cf *ClassFile) IsClass() bool {
	return !cf.AccessFlags.IsInterface() && !cf.AccessFlags.IsModule()
}

// IsInterface is false for annotation types, which are interfaces too.
func (cf *ClassFile) IsInterface() bool {
	return cf.AccessFlags.IsInterface() && !cf.AccessFlags.IsAnnotation()
}

func (cf *ClassFile) IsAnnotation() bool { return cf.AccessFlags.IsAnnotation() }
func (cf *ClassFile) IsEnum() bool       { return cf.AccessFlags.IsEnum() }
func (cf *ClassFile) IsModule() bool     { return cf.AccessFlags.IsModule() }

func (cf *ClassFile) GetField(name string) *FieldInfo {
	i := slices.IndexFunc(cf.Fields, func(f FieldInfo) bool {
		return f.Name(cf.ConstantPool) == name
	})
	if i < 0 {
		return nil
	}
	return &cf.Fields[i]
}

// GetMethod returns the first method with the given name. An empty
// descriptor matches any overload.
func (cf *ClassFile) GetMethod(name, descriptor string) *MethodInfo {
	i := slices.IndexFunc(cf.Methods, func(m MethodInfo) bool {
		return m.Name(cf.ConstantPool) == name &&
			(descriptor == "" || m.Descriptor(cf.ConstantPool) == descriptor)
	})
	if i < 0 {
		return nil
	}
	return &cf.Methods[i]
}

// GetMethods returns every overload with the given name, in file order.
func (cf *ClassFile) GetMethods(name string) []*MethodInfo {
	var methods []*MethodInfo
	for i := range cf.Methods {
		if cf.Methods[i].Name(cf.ConstantPool) == name {
			methods = append(methods, &cf.Methods[i])
		}
	}
	return methods
}

func (cf *ClassFile) GetAttribute(name string) *AttributeInfo {
	return findAttribute(cf.Attributes, name)
}

// SourceFile returns the name recorded in the SourceFile attribute, if any.
func (cf *ClassFile) SourceFile() string {
	if sf := cf.GetAttribute("SourceFile").AsSourceFile(); sf != nil {
		return cf.ConstantPool.GetUtf8(sf.SourceFileIndex)
	}
	return ""
}
