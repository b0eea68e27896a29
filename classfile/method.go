package classfile

type MethodInfo struct {
	Member
}

func (m *MethodInfo) GetCodeAttribute() *CodeAttribute {
	return m.GetAttribute("Code").AsCode()
}

// Exceptions returns the class indices of the declared throws clause.
func (m *MethodInfo) Exceptions() []uint16 {
	if attr := m.GetAttribute("Exceptions").AsExceptions(); attr != nil {
		return attr.ExceptionIndexTable
	}
	return nil
}

func (m *MethodInfo) IsConstructor(cp ConstantPool) bool {
	return m.Name(cp) == "<init>"
}

func (m *MethodInfo) IsStaticInitializer(cp ConstantPool) bool {
	return m.Name(cp) == "<clinit>"
}

func (m *MethodInfo) ParsedDescriptor(cp ConstantPool) *MethodDescriptor {
	md, err := ParseMethodDescriptor(m.Descriptor(cp))
	if err != nil {
		return nil
	}
	return md
}
