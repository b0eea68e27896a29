package format

import (
	"fmt"
	"io"
	"strings"

	"github.com/dhamidi/jvmdecode/bytecode"
	"github.com/dhamidi/jvmdecode/classfile"
)

// DisasmEncoder writes a javap -c style listing of every method with
// code. Method and Descriptor, when set, restrict the listing.
type DisasmEncoder struct {
	w          io.Writer
	class      *classfile.ClassFile
	Method     string
	Descriptor string
}

func NewDisasmEncoder(w io.Writer) *DisasmEncoder {
	return &DisasmEncoder{w: w}
}

func (e *DisasmEncoder) Encode(class *classfile.ClassFile) error {
	e.class = class
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *DisasmEncoder) MarshalText() ([]byte, error) {
	var sb strings.Builder
	c := e.class
	cp := c.ConstantPool

	matched := 0
	for i := range c.Methods {
		m := &c.Methods[i]
		name, desc := m.Name(cp), m.Descriptor(cp)
		if e.Method != "" && name != e.Method {
			continue
		}
		if e.Descriptor != "" && desc != e.Descriptor {
			continue
		}
		matched++

		code := m.GetCodeAttribute()
		if code == nil {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteString("\n")
		}
		if err := e.writeMethod(&sb, memberName(c, name, desc), code); err != nil {
			return nil, err
		}
	}

	if matched == 0 && e.Method != "" {
		return nil, fmt.Errorf("method %s%s not found in %s", e.Method, e.Descriptor, c.ClassName())
	}
	return []byte(sb.String()), nil
}

func (e *DisasmEncoder) writeMethod(sb *strings.Builder, name string, code *classfile.CodeAttribute) error {
	insts, err := bytecode.Disassemble(code.Code)
	if err != nil {
		return fmt.Errorf("failed to disassemble %s: %w", name, err)
	}
	cp := e.class.ConstantPool

	fmt.Fprintf(sb, "%s\n", name)
	fmt.Fprintf(sb, "  stack=%d, locals=%d\n", code.MaxStack, code.MaxLocals)
	for i := range insts {
		fmt.Fprintf(sb, "%6d: %s", insts[i].Offset, insts[i].String())
		if comment := instructionComment(cp, &insts[i]); comment != "" {
			fmt.Fprintf(sb, " // %s", comment)
		}
		sb.WriteString("\n")
	}

	if len(code.ExceptionTable) > 0 {
		sb.WriteString("  Exception table:\n")
		sb.WriteString("     from    to  target type\n")
		for _, h := range code.ExceptionTable {
			catch := "any"
			if h.CatchType != 0 {
				catch = cp.GetClassName(h.CatchType)
			}
			fmt.Fprintf(sb, "    %5d %5d %5d   %s\n", h.StartPC, h.EndPC, h.HandlerPC, catch)
		}
	}
	return nil
}
