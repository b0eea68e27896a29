// Package format renders decoded class files for people and tools.
package format

import (
	"encoding"
	"fmt"
	"strings"

	"github.com/dhamidi/jvmdecode/bytecode"
	"github.com/dhamidi/jvmdecode/classfile"
)

type Encoder interface {
	encoding.TextMarshaler
	Encode(class *classfile.ClassFile) error
}

// instructionComment describes the constant pool operand of in, the
// way javap annotates instructions.
func instructionComment(cp classfile.ConstantPool, in *bytecode.Instruction) string {
	idx, ok := in.ConstantIndex()
	if !ok {
		return ""
	}
	e, ok := cp.Entry(idx)
	if !ok {
		return ""
	}
	return e.Tag().String() + " " + cp.Describe(idx)
}

// attributeSummary renders the single value of simple attributes.
func attributeSummary(cp classfile.ConstantPool, a *classfile.AttributeInfo) string {
	switch attr := a.Parsed.(type) {
	case *classfile.SourceFileAttribute:
		return cp.GetUtf8(attr.SourceFileIndex)
	case *classfile.SignatureAttribute:
		return cp.GetUtf8(attr.SignatureIndex)
	case *classfile.ConstantValueAttribute:
		return cp.Describe(attr.ConstantValueIndex)
	case *classfile.NestHostAttribute:
		return cp.GetClassName(attr.HostClassIndex)
	case *classfile.ExceptionsAttribute:
		return classNames(cp, attr.ExceptionIndexTable)
	case *classfile.NestMembersAttribute:
		return classNames(cp, attr.Classes)
	case *classfile.PermittedSubclassesAttribute:
		return classNames(cp, attr.Classes)
	}
	return ""
}

func classNames(cp classfile.ConstantPool, indices []uint16) string {
	names := make([]string, len(indices))
	for i, idx := range indices {
		names[i] = cp.GetClassName(idx)
	}
	return strings.Join(names, ",")
}

func memberName(cf *classfile.ClassFile, name, desc string) string {
	return fmt.Sprintf("%s.%s:%s", cf.ClassName(), name, desc)
}

func classKind(cf *classfile.ClassFile) string {
	switch {
	case cf.IsAnnotation():
		return "annotation"
	case cf.IsEnum():
		return "enum"
	case cf.IsInterface():
		return "interface"
	case cf.IsModule():
		return "module"
	case cf.GetAttribute("Record") != nil:
		return "record"
	default:
		return "class"
	}
}
