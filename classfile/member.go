package classfile

import "fmt"

// Member is the part of field_info and method_info they share. The
// embedded AccessFlags gives members their IsPublic, IsStatic, ...
// predicates; which of the overlapping bits apply depends on whether
// the member is a field or a method.
type Member struct {
	AccessFlags
	NameIndex       uint16
	DescriptorIndex uint16
	Attributes      []AttributeInfo
}

func (m *Member) Name(cp ConstantPool) string {
	return cp.GetUtf8(m.NameIndex)
}

func (m *Member) Descriptor(cp ConstantPool) string {
	return cp.GetUtf8(m.DescriptorIndex)
}

// GetAttribute returns the first attribute with the given name.
func (m *Member) GetAttribute(name string) *AttributeInfo {
	return findAttribute(m.Attributes, name)
}

// readMembers decodes a fields or methods table in file order.
func readMembers[T any](c *Cursor, cp ConstantPool, kind string, wrap func(Member) T) ([]T, error) {
	count, err := c.ReadU16()
	if err != nil {
		return nil, fmt.Errorf("failed to read %ss count: %w", kind, err)
	}

	members := make([]T, 0, count)
	for i := 0; i < int(count); i++ {
		head, err := c.ReadU16Array(3)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s %d: %w", kind, i, err)
		}
		attrs, err := readAttributeList(c, cp)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s %d (%s): %w", kind, i, cp.GetUtf8(head[1]), err)
		}
		members = append(members, wrap(Member{
			AccessFlags:     AccessFlags(head[0]),
			NameIndex:       head[1],
			DescriptorIndex: head[2],
			Attributes:      attrs,
		}))
	}
	return members, nil
}
