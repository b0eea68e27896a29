package classfile

type FieldInfo struct {
	Member
}

func (f *FieldInfo) ParsedDescriptor(cp ConstantPool) *FieldType {
	ft, err := ParseFieldDescriptor(f.Descriptor(cp))
	if err != nil {
		return nil
	}
	return ft
}

// ConstantValue returns the ConstantValue attribute of a static final
// field, or nil.
func (f *FieldInfo) ConstantValue() *ConstantValueAttribute {
	return f.GetAttribute("ConstantValue").AsConstantValue()
}
