// Package bytecode decodes JVM method bytecode into instructions.
package bytecode

import (
	"errors"
	"fmt"

	"github.com/dhamidi/jvmdecode/classfile"
	"go.uber.org/zap"
)

// Disassemble decodes a Code attribute's code array into instructions,
// in offset order. It fails on the first malformed instruction.
func Disassemble(code []byte) ([]Instruction, error) {
	c := classfile.NewCursor(code)
	var insts []Instruction
	for c.Remaining() > 0 {
		inst, err := decodeInstruction(c)
		if err != nil {
			return nil, err
		}
		insts = append(insts, inst)
	}
	Logger().Debug("disassembled code",
		zap.Int("bytes", len(code)),
		zap.Int("instructions", len(insts)))
	return insts, nil
}

func decodeInstruction(c *classfile.Cursor) (Instruction, error) {
	start := c.Position()
	op, err := c.ReadU8()
	if err != nil {
		return Instruction{}, err
	}

	info := &opcodeTable[op]
	if !info.defined() {
		return Instruction{}, &classfile.DecodeError{Kind: classfile.KindUnknownOpcode, Opcode: op, Offset: start}
	}

	inst := Instruction{Offset: start, Opcode: op, Mnemonic: info.mnemonic}
	if info.variable {
		err = decodeVariable(c, &inst)
	} else {
		inst.Operands, err = readOperands(c, info.operands)
	}
	if err != nil {
		var de *classfile.DecodeError
		if errors.As(err, &de) && de.Kind == classfile.KindUnexpectedEOF {
			return Instruction{}, &classfile.DecodeError{
				Kind:   classfile.KindTruncatedInstruction,
				Opcode: op,
				Offset: start,
				Detail: fmt.Sprintf("%s needs %d more bytes", info.mnemonic, de.Declared-de.Consumed),
			}
		}
		return Instruction{}, err
	}
	return inst, nil
}

func readOperand(c *classfile.Cursor, spec operandSpec) (Operand, error) {
	op := Operand{Type: spec.typ, Role: spec.role}
	var raw uint32
	switch spec.typ.Width() {
	case 1:
		v, err := c.ReadU8()
		if err != nil {
			return op, err
		}
		raw = uint32(v)
	case 2:
		v, err := c.ReadU16()
		if err != nil {
			return op, err
		}
		raw = uint32(v)
	case 4:
		v, err := c.ReadU32()
		if err != nil {
			return op, err
		}
		raw = v
	}
	op.Value = int64(raw)
	if spec.typ.Signed() {
		shift := 32 - 8*spec.typ.Width()
		op.Value = int64(int32(raw<<shift) >> shift)
	}
	return op, nil
}

func readOperands(c *classfile.Cursor, specs []operandSpec) ([]Operand, error) {
	if len(specs) == 0 {
		return nil, nil
	}
	ops := make([]Operand, 0, len(specs))
	for _, spec := range specs {
		op, err := readOperand(c, spec)
		if err != nil {
			return nil, err
		}
		ops = append(ops, op)
	}
	return ops, nil
}

// decodeVariable handles the opcodes whose length depends on their
// position or on a modified opcode.
func decodeVariable(c *classfile.Cursor, inst *Instruction) error {
	switch inst.Opcode {
	case OpWide:
		return decodeWide(c, inst)
	case OpTableswitch:
		return decodeTableswitch(c, inst)
	case OpLookupswitch:
		return decodeLookupswitch(c, inst)
	}
	return fmt.Errorf("no decoder for variable-length opcode 0x%02x", inst.Opcode)
}

// decodeWide reads the modified opcode and its widened operands into
// inst, which then describes the modified instruction.
func decodeWide(c *classfile.Cursor, inst *Instruction) error {
	offset := c.Position()
	op, err := c.ReadU8()
	if err != nil {
		return err
	}

	var specs []operandSpec
	switch {
	case op == OpIinc:
		specs = []operandSpec{{U2, RoleLocal}, {S2, RoleImmediate}}
	case wideLocalOpcodes[op]:
		specs = []operandSpec{{U2, RoleLocal}}
	default:
		return &classfile.DecodeError{Kind: classfile.KindIllegalWide, Opcode: op, Offset: offset}
	}

	inst.Wide = true
	inst.Opcode = op
	inst.Mnemonic = opcodeTable[op].mnemonic
	inst.Operands, err = readOperands(c, specs)
	return err
}

// skipPadding skips to the next multiple of four measured from the
// start of the code array.
func skipPadding(c *classfile.Cursor, inst *Instruction) error {
	inst.Padding = (4 - c.Position()%4) % 4
	return c.Skip(inst.Padding)
}

// need reports a truncation up front so a corrupt count cannot drive a
// huge allocation.
func need(c *classfile.Cursor, n int64) error {
	if n > int64(c.Remaining()) {
		return &classfile.DecodeError{
			Kind:     classfile.KindUnexpectedEOF,
			Offset:   c.Position(),
			Declared: int(min(n, int64(c.Len()+1))),
			Consumed: c.Remaining(),
		}
	}
	return nil
}

func decodeTableswitch(c *classfile.Cursor, inst *Instruction) error {
	if err := skipPadding(c, inst); err != nil {
		return err
	}
	head, err := readOperands(c, []operandSpec{{S4, RoleBranch}, {S4, RoleKey}, {S4, RoleKey}})
	if err != nil {
		return err
	}
	low, high := head[1].Value, head[2].Value
	if high < low {
		return &classfile.DecodeError{
			Kind:   classfile.KindInvalidSwitch,
			Offset: inst.Offset,
			Detail: fmt.Sprintf("tableswitch high %d < low %d", high, low),
		}
	}

	n := high - low + 1
	if err := need(c, 4*n); err != nil {
		return err
	}
	inst.Operands = make([]Operand, 0, 3+n)
	inst.Operands = append(inst.Operands, head...)
	for i := int64(0); i < n; i++ {
		op, err := readOperand(c, operandSpec{S4, RoleBranch})
		if err != nil {
			return err
		}
		inst.Operands = append(inst.Operands, op)
	}
	return nil
}

func decodeLookupswitch(c *classfile.Cursor, inst *Instruction) error {
	if err := skipPadding(c, inst); err != nil {
		return err
	}
	head, err := readOperands(c, []operandSpec{{S4, RoleBranch}, {S4, RoleCount}})
	if err != nil {
		return err
	}
	npairs := head[1].Value
	if npairs < 0 {
		return &classfile.DecodeError{
			Kind:   classfile.KindInvalidSwitch,
			Offset: inst.Offset,
			Detail: fmt.Sprintf("lookupswitch npairs %d", npairs),
		}
	}

	if err := need(c, 8*npairs); err != nil {
		return err
	}
	inst.Operands = make([]Operand, 0, 2+2*npairs)
	inst.Operands = append(inst.Operands, head...)
	for i := int64(0); i < npairs; i++ {
		pair, err := readOperands(c, []operandSpec{{S4, RoleKey}, {S4, RoleBranch}})
		if err != nil {
			return err
		}
		inst.Operands = append(inst.Operands, pair...)
	}
	return nil
}
