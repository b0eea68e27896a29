package bytecode

import (
	"fmt"
	"strings"
)

// Operand is one decoded operand. Value holds the sign-extended value
// for signed types and the zero-extended value otherwise.
type Operand struct {
	Type  OperandType
	Role  Role
	Value int64
}

// Instruction is one logical instruction. For a wide-modified
// instruction, Opcode and Mnemonic are those of the modified opcode
// and Wide is set. Branch operands are relative to Offset.
type Instruction struct {
	Offset   int
	Opcode   byte
	Mnemonic string
	Wide     bool
	Padding  int // alignment bytes skipped by tableswitch and lookupswitch
	Operands []Operand
}

// Size returns the number of code bytes the instruction occupies.
func (in *Instruction) Size() int {
	n := 1 + in.Padding
	if in.Wide {
		n++
	}
	for _, op := range in.Operands {
		n += op.Type.Width()
	}
	return n
}

// Next returns the offset of the following instruction.
func (in *Instruction) Next() int {
	return in.Offset + in.Size()
}

var arrayTypeNames = map[int64]string{
	4: "boolean", 5: "char", 6: "float", 7: "double",
	8: "byte", 9: "short", 10: "int", 11: "long",
}

func (in *Instruction) IsConditional() bool {
	return (in.Opcode >= 0x99 && in.Opcode <= 0xa6) || in.Opcode == OpIfnull || in.Opcode == OpIfnonnull
}

func (in *Instruction) IsSwitch() bool {
	return in.Opcode == OpTableswitch || in.Opcode == OpLookupswitch
}

func (in *Instruction) IsJump() bool {
	return in.Opcode == OpGoto || in.Opcode == OpGotoW
}

func (in *Instruction) IsSubroutineCall() bool {
	return in.Opcode == OpJsr || in.Opcode == OpJsrW
}

// IsBranch reports whether the instruction carries branch offsets.
func (in *Instruction) IsBranch() bool {
	return in.IsConditional() || in.IsJump() || in.IsSwitch() || in.IsSubroutineCall()
}

// IsTerminal reports whether control leaves the method or subroutine:
// the return family, athrow and ret.
func (in *Instruction) IsTerminal() bool {
	return (in.Opcode >= OpIreturn && in.Opcode <= OpReturn) || in.Opcode == OpAthrow || in.Opcode == OpRet
}

// FallsThrough reports whether execution may continue at Next.
func (in *Instruction) FallsThrough() bool {
	return !in.IsTerminal() && !in.IsJump() && !in.IsSwitch()
}

func (in *Instruction) IsInvoke() bool {
	return in.Opcode >= OpInvokevirtual && in.Opcode <= OpInvokedynamic
}

// BranchTargets returns the absolute code offsets of every branch
// operand, in operand order. For switches the default target comes
// first.
func (in *Instruction) BranchTargets() []int {
	var targets []int
	for _, op := range in.Operands {
		if op.Role == RoleBranch {
			targets = append(targets, in.Offset+int(op.Value))
		}
	}
	return targets
}

// ConstantIndex returns the first constant pool operand.
func (in *Instruction) ConstantIndex() (uint16, bool) {
	for _, op := range in.Operands {
		if op.Role == RoleConstant {
			return uint16(op.Value), true
		}
	}
	return 0, false
}

// SwitchCase is one arm of a tableswitch or lookupswitch.
type SwitchCase struct {
	Key    int32
	Target int
}

// SwitchCases returns the non-default arms of a switch with absolute
// targets, and the default target.
func (in *Instruction) SwitchCases() (cases []SwitchCase, def int, ok bool) {
	if !in.IsSwitch() || len(in.Operands) < 3 {
		return nil, 0, false
	}
	def = in.Offset + int(in.Operands[0].Value)

	if in.Opcode == OpTableswitch {
		low := int32(in.Operands[1].Value)
		for i, op := range in.Operands[3:] {
			cases = append(cases, SwitchCase{Key: low + int32(i), Target: in.Offset + int(op.Value)})
		}
		return cases, def, true
	}

	pairs := in.Operands[2:]
	for i := 0; i+1 < len(pairs); i += 2 {
		cases = append(cases, SwitchCase{Key: int32(pairs[i].Value), Target: in.Offset + int(pairs[i+1].Value)})
	}
	return cases, def, true
}

// String renders the instruction the way javap prints it, without
// constant pool comments: constant operands as #index and branch
// operands as absolute offsets.
func (in *Instruction) String() string {
	var b strings.Builder
	if in.Wide {
		b.WriteString("wide ")
	}
	b.WriteString(in.Mnemonic)

	if cases, def, ok := in.SwitchCases(); ok {
		b.WriteString(" {")
		for _, c := range cases {
			fmt.Fprintf(&b, " %d: %d;", c.Key, c.Target)
		}
		fmt.Fprintf(&b, " default: %d }", def)
		return b.String()
	}

	var parts []string
	for _, op := range in.Operands {
		switch op.Role {
		case RoleZero:
			continue
		case RoleConstant:
			parts = append(parts, fmt.Sprintf("#%d", op.Value))
		case RoleBranch:
			parts = append(parts, fmt.Sprintf("%d", in.Offset+int(op.Value)))
		case RoleArrayType:
			if name, ok := arrayTypeNames[op.Value]; ok {
				parts = append(parts, name)
			} else {
				parts = append(parts, fmt.Sprintf("%d", op.Value))
			}
		default:
			parts = append(parts, fmt.Sprintf("%d", op.Value))
		}
	}
	if len(parts) > 0 {
		b.WriteString(" ")
		b.WriteString(strings.Join(parts, ", "))
	}
	return b.String()
}
