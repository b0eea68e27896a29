package format

import (
	"fmt"
	"io"
	"strings"

	"github.com/dhamidi/jvmdecode/bytecode"
	"github.com/dhamidi/jvmdecode/classfile"
)

// LineEncoder writes one tab-separated record per line: the class
// header, pool entries, members and attributes. When Code is set, each
// Code attribute is followed by its instructions, with constant pool
// operands described in a trailing column as javap does.
type LineEncoder struct {
	w     io.Writer
	class *classfile.ClassFile
	Code  bool
}

func NewLineEncoder(w io.Writer) *LineEncoder {
	return &LineEncoder{w: w}
}

func (e *LineEncoder) Encode(class *classfile.ClassFile) error {
	e.class = class
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *LineEncoder) MarshalText() ([]byte, error) {
	var sb strings.Builder
	c := e.class
	cp := c.ConstantPool

	fmt.Fprintf(&sb, "%s\t%s\t%s\t%s\n", classKind(c), c.ClassName(),
		orDash(c.AccessFlags.Names(classfile.ClassFlags)), c.Version())
	if super := c.SuperClassName(); super != "" {
		fmt.Fprintf(&sb, "super\t%s\n", super)
	}
	for _, name := range c.InterfaceNames() {
		fmt.Fprintf(&sb, "interface\t%s\n", name)
	}

	for i := range cp {
		idx := uint16(i + 1)
		entry, ok := cp.Entry(idx)
		if !ok {
			continue
		}
		fmt.Fprintf(&sb, "const\t#%d\t%s\t%s\n", idx, entry.Tag(), cp.Describe(idx))
	}

	for i := range c.Fields {
		f := &c.Fields[i]
		fmt.Fprintf(&sb, "field\t%s\t%s\t%s\n",
			f.Name(cp),
			f.Descriptor(cp),
			orDash(f.AccessFlags.Names(classfile.FieldFlags)),
		)
		if err := e.writeAttributes(&sb, f.Name(cp), f.Attributes); err != nil {
			return nil, err
		}
	}

	for i := range c.Methods {
		m := &c.Methods[i]
		fmt.Fprintf(&sb, "method\t%s\t%s\t%s\n",
			m.Name(cp),
			m.Descriptor(cp),
			orDash(m.AccessFlags.Names(classfile.MethodFlags)),
		)
		owner := m.Name(cp) + ":" + m.Descriptor(cp)
		if err := e.writeAttributes(&sb, owner, m.Attributes); err != nil {
			return nil, fmt.Errorf("failed to encode %s: %w", memberName(c, m.Name(cp), m.Descriptor(cp)), err)
		}
	}

	if err := e.writeAttributes(&sb, c.ClassName(), c.Attributes); err != nil {
		return nil, err
	}
	return []byte(sb.String()), nil
}

func (e *LineEncoder) writeAttributes(sb *strings.Builder, owner string, attrs []classfile.AttributeInfo) error {
	cp := e.class.ConstantPool
	for i := range attrs {
		a := &attrs[i]
		value := attributeSummary(cp, a)
		if value == "" {
			value = "-"
		}
		if !a.IsRecognized() {
			value = "opaque"
		}
		fmt.Fprintf(sb, "attr\t%s\t%s\t%d\t%s\n", owner, a.Name, a.Length(), value)

		code := a.AsCode()
		if code == nil {
			continue
		}
		fmt.Fprintf(sb, "code\t%s\tstack=%d\tlocals=%d\tlength=%d\n", owner, code.MaxStack, code.MaxLocals, len(code.Code))
		for _, h := range code.ExceptionTable {
			catch := "any"
			if h.CatchType != 0 {
				catch = cp.GetClassName(h.CatchType)
			}
			fmt.Fprintf(sb, "handler\t%s\t%d\t%d\t%d\t%s\n", owner, h.StartPC, h.EndPC, h.HandlerPC, catch)
		}
		if e.Code {
			if err := e.writeInstructions(sb, owner, code.Code); err != nil {
				return err
			}
		}
		if err := e.writeAttributes(sb, owner, code.Attributes); err != nil {
			return err
		}
	}
	return nil
}

func (e *LineEncoder) writeInstructions(sb *strings.Builder, owner string, code []byte) error {
	insts, err := bytecode.Disassemble(code)
	if err != nil {
		return err
	}
	for i := range insts {
		comment := instructionComment(e.class.ConstantPool, &insts[i])
		if comment == "" {
			comment = "-"
		}
		fmt.Fprintf(sb, "insn\t%s\t%d\t%s\t%s\n", owner, insts[i].Offset, insts[i].String(), comment)
	}
	return nil
}

func orDash(parts []string) string {
	if len(parts) == 0 {
		return "-"
	}
	return strings.Join(parts, ",")
}
