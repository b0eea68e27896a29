package bytecode

import (
	"encoding/binary"
	"errors"
	"fmt"
	"testing"

	"github.com/dhamidi/jvmdecode/classfile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func s4(vs ...int32) []byte {
	var out []byte
	for _, v := range vs {
		out = binary.BigEndian.AppendUint32(out, uint32(v))
	}
	return out
}

func cat(parts ...[]byte) []byte {
	var out []byte
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

func requireKind(t *testing.T, err error, kind classfile.ErrorKind) *classfile.DecodeError {
	t.Helper()
	var de *classfile.DecodeError
	require.True(t, errors.As(err, &de), "error %v is not a DecodeError", err)
	require.Equal(t, kind, de.Kind, "error: %v", err)
	return de
}

func TestDisassembleFixedWidth(t *testing.T) {
	tests := []struct {
		name     string
		code     []byte
		mnemonic string
		operands []Operand
	}{
		{"bipush", []byte{0x10, 0x05}, "bipush", []Operand{{S1, RoleImmediate, 5}}},
		{"negative bipush", []byte{0x10, 0xfb}, "bipush", []Operand{{S1, RoleImmediate, -5}}},
		{"sipush", []byte{0x11, 0x80, 0x00}, "sipush", []Operand{{S2, RoleImmediate, -32768}}},
		{"iconst_m1", []byte{0x02}, "iconst_m1", nil},
		{"ldc", []byte{0x12, 0xff}, "ldc", []Operand{{U1, RoleConstant, 255}}},
		{"ldc_w", []byte{0x13, 0xff, 0xff}, "ldc_w", []Operand{{U2, RoleConstant, 65535}}},
		{"iload", []byte{0x15, 0x03}, "iload", []Operand{{U1, RoleLocal, 3}}},
		{"iinc", []byte{0x84, 0x02, 0xff}, "iinc", []Operand{{U1, RoleLocal, 2}, {S1, RoleImmediate, -1}}},
		{"goto", []byte{0xa7, 0xff, 0xfd}, "goto", []Operand{{S2, RoleBranch, -3}}},
		{"goto_w", []byte{0xc8, 0x00, 0x01, 0x00, 0x00}, "goto_w", []Operand{{S4, RoleBranch, 65536}}},
		{"backward goto_w", []byte{0xc8, 0xff, 0xff, 0xff, 0xf0}, "goto_w", []Operand{{S4, RoleBranch, -16}}},
		{"sipush max", []byte{0x11, 0x7f, 0xff}, "sipush", []Operand{{S2, RoleImmediate, 32767}}},
		{"invokeinterface", []byte{0xb9, 0x00, 0x05, 0x02, 0x00}, "invokeinterface",
			[]Operand{{U2, RoleConstant, 5}, {U1, RoleCount, 2}, {U1, RoleZero, 0}}},
		{"invokedynamic", []byte{0xba, 0x00, 0x07, 0x00, 0x00}, "invokedynamic",
			[]Operand{{U2, RoleConstant, 7}, {U1, RoleZero, 0}, {U1, RoleZero, 0}}},
		{"multianewarray", []byte{0xc5, 0x00, 0x09, 0x03}, "multianewarray",
			[]Operand{{U2, RoleConstant, 9}, {U1, RoleCount, 3}}},
		{"newarray", []byte{0xbc, 0x0a}, "newarray", []Operand{{U1, RoleArrayType, 10}}},
		{"breakpoint", []byte{0xca}, "breakpoint", nil},
		{"impdep2", []byte{0xff}, "impdep2", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			insts, err := Disassemble(tt.code)
			require.NoError(t, err)
			require.Len(t, insts, 1)
			assert.Equal(t, tt.mnemonic, insts[0].Mnemonic)
			assert.Equal(t, tt.operands, insts[0].Operands)
			assert.Equal(t, len(tt.code), insts[0].Size())
			assert.Equal(t, 0, insts[0].Offset)
		})
	}
}

func TestVariableLengthOpcodes(t *testing.T) {
	var variable []byte
	for op := 0; op < 256; op++ {
		if opcodeTable[op].variable {
			variable = append(variable, byte(op))
		}
	}
	assert.Equal(t, []byte{OpTableswitch, OpLookupswitch, OpWide}, variable)
}

func TestOperandTypes(t *testing.T) {
	tests := []struct {
		typ    OperandType
		width  int
		signed bool
	}{
		{U1, 1, false},
		{S1, 1, true},
		{U2, 2, false},
		{S2, 2, true},
		{S4, 4, true},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.width, tt.typ.Width(), tt.typ.String())
		assert.Equal(t, tt.signed, tt.typ.Signed(), tt.typ.String())
	}
	assert.Equal(t, "invalid", OperandType(0).String())
}

func TestEveryFixedOpcodeRoundTrips(t *testing.T) {
	for op := 0; op < 256; op++ {
		info := &opcodeTable[op]
		if !info.defined() || info.variable {
			continue
		}
		code := []byte{byte(op)}
		for _, spec := range info.operands {
			code = append(code, make([]byte, spec.typ.Width())...)
		}

		insts, err := Disassemble(code)
		require.NoError(t, err, "opcode 0x%02x", op)
		require.Len(t, insts, 1, "opcode 0x%02x", op)
		assert.Equal(t, info.mnemonic, insts[0].Mnemonic)
		assert.Equal(t, len(code), insts[0].Size(), "opcode 0x%02x", op)
	}
}

func TestOffsetsAdvance(t *testing.T) {
	// aload_0; invokespecial #1; iconst_1; istore_1; return
	insts, err := Disassemble([]byte{0x2a, 0xb7, 0x00, 0x01, 0x04, 0x3c, 0xb1})
	require.NoError(t, err)

	var offsets []int
	var mnemonics []string
	for _, in := range insts {
		offsets = append(offsets, in.Offset)
		mnemonics = append(mnemonics, in.Mnemonic)
	}
	assert.Equal(t, []int{0, 1, 4, 5, 6}, offsets)
	assert.Equal(t, []string{"aload_0", "invokespecial", "iconst_1", "istore_1", "return"}, mnemonics)
}

func TestUnknownOpcode(t *testing.T) {
	for _, op := range []byte{0xcb, 0xe0, 0xfd} {
		_, err := Disassemble([]byte{0x00, op})
		de := requireKind(t, err, classfile.KindUnknownOpcode)
		assert.Equal(t, op, de.Opcode)
		assert.Equal(t, 1, de.Offset)
		assert.True(t, errors.Is(err, classfile.ErrUnknownOpcode))
	}
}

func TestWide(t *testing.T) {
	t.Run("iinc widens both operands", func(t *testing.T) {
		insts, err := Disassemble([]byte{0xc4, 0x84, 0x01, 0x2c, 0xff, 0x38})
		require.NoError(t, err)
		require.Len(t, insts, 1)
		in := insts[0]
		assert.True(t, in.Wide)
		assert.Equal(t, "iinc", in.Mnemonic)
		assert.Equal(t, OpIinc, in.Opcode)
		assert.Equal(t, []Operand{{U2, RoleLocal, 300}, {S2, RoleImmediate, -200}}, in.Operands)
		assert.Equal(t, 6, in.Size())
		assert.Equal(t, "wide iinc 300, -200", in.String())
	})

	t.Run("load widens index", func(t *testing.T) {
		insts, err := Disassemble([]byte{0xc4, 0x19, 0x01, 0x00, 0xb0})
		require.NoError(t, err)
		require.Len(t, insts, 2)
		assert.Equal(t, "aload", insts[0].Mnemonic)
		assert.Equal(t, []Operand{{U2, RoleLocal, 256}}, insts[0].Operands)
		assert.Equal(t, 4, insts[1].Offset)
	})

	t.Run("ret", func(t *testing.T) {
		insts, err := Disassemble([]byte{0xc4, 0xa9, 0x00, 0x01})
		require.NoError(t, err)
		assert.Equal(t, "ret", insts[0].Mnemonic)
	})

	t.Run("illegal target", func(t *testing.T) {
		_, err := Disassemble([]byte{0xc4, 0x00})
		de := requireKind(t, err, classfile.KindIllegalWide)
		assert.Equal(t, byte(0x00), de.Opcode)
		assert.Equal(t, 1, de.Offset)
	})

	t.Run("truncated", func(t *testing.T) {
		for _, code := range [][]byte{{0xc4}, {0xc4, 0x84, 0x00, 0x01, 0x00}, {0xc4, 0x15, 0x00}} {
			_, err := Disassemble(code)
			requireKind(t, err, classfile.KindTruncatedInstruction)
		}
	})
}

func TestTableswitchPadding(t *testing.T) {
	for start := 0; start < 4; start++ {
		t.Run(fmt.Sprintf("offset %d", start), func(t *testing.T) {
			// start nops, then tableswitch low=1 high=2
			code := make([]byte, start)
			code = append(code, 0xaa)
			padding := (4 - (start+1)%4) % 4
			code = append(code, make([]byte, padding)...)
			code = append(code, s4(20, 1, 2, 16, 18)...)
			code = append(code, 0xb1)

			insts, err := Disassemble(code)
			require.NoError(t, err)
			require.Len(t, insts, start+2)

			sw := insts[start]
			assert.Equal(t, start, sw.Offset)
			assert.Equal(t, padding, sw.Padding)
			assert.Equal(t, 1+padding+20, sw.Size())
			assert.Equal(t, []int{start + 20, start + 16, start + 18}, sw.BranchTargets())

			cases, def, ok := sw.SwitchCases()
			require.True(t, ok)
			assert.Equal(t, start+20, def)
			assert.Equal(t, []SwitchCase{{1, start + 16}, {2, start + 18}}, cases)
			assert.Equal(t, "return", insts[start+1].Mnemonic)
		})
	}
}

func TestLookupswitch(t *testing.T) {
	// nop at 0, lookupswitch at 1 with two pad bytes
	code := cat([]byte{0x00, 0xab, 0x00, 0x00}, s4(30, 2, -1, 10, 100, 20))
	insts, err := Disassemble(code)
	require.NoError(t, err)
	require.Len(t, insts, 2)

	sw := insts[1]
	assert.Equal(t, 2, sw.Padding)
	assert.Equal(t, len(code)-1, sw.Size())
	cases, def, ok := sw.SwitchCases()
	require.True(t, ok)
	assert.Equal(t, 31, def)
	assert.Equal(t, []SwitchCase{{-1, 11}, {100, 21}}, cases)
	assert.Equal(t, "lookupswitch { -1: 11; 100: 21; default: 31 }", sw.String())
	assert.True(t, sw.IsBranch())
	assert.False(t, sw.FallsThrough())
}

func TestInvalidSwitch(t *testing.T) {
	_, err := Disassemble(cat([]byte{0xaa, 0, 0, 0}, s4(0, 5, 4)))
	requireKind(t, err, classfile.KindInvalidSwitch)

	_, err = Disassemble(cat([]byte{0xab, 0, 0, 0}, s4(0, -1)))
	requireKind(t, err, classfile.KindInvalidSwitch)
}

func TestTruncatedInstruction(t *testing.T) {
	tests := []struct {
		name   string
		code   []byte
		offset int
	}{
		{"sipush", []byte{0x11, 0x00}, 0},
		{"invokevirtual", []byte{0x00, 0xb6, 0x00}, 1},
		{"padding", []byte{0xaa, 0x00}, 0},
		{"table header", cat([]byte{0xaa, 0, 0, 0}, s4(0, 0)), 0},
		{"huge table", cat([]byte{0xaa, 0, 0, 0}, s4(0, 0, 0x7fffffff)), 0},
		{"huge lookup", cat([]byte{0xab, 0, 0, 0}, s4(0, 0x7fffffff)), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Disassemble(tt.code)
			de := requireKind(t, err, classfile.KindTruncatedInstruction)
			assert.Equal(t, tt.offset, de.Offset)
			assert.True(t, errors.Is(err, classfile.ErrTruncatedInstruction))
		})
	}
}

func TestEveryPrefixTruncates(t *testing.T) {
	code := cat(
		[]byte{0x10, 0x05, 0xc4, 0x84, 0x00, 0x01, 0x00, 0x02},
		[]byte{0xaa, 0, 0, 0}, s4(16, 0, 0, 16),
		[]byte{0xb1},
	)
	_, err := Disassemble(code)
	require.NoError(t, err)

	boundaries := map[int]bool{2: true, 8: true, 28: true}
	for n := 1; n < len(code); n++ {
		_, err := Disassemble(code[:n])
		if boundaries[n] {
			assert.NoError(t, err, "prefix %d ends on an instruction boundary", n)
			continue
		}
		requireKind(t, err, classfile.KindTruncatedInstruction)
	}
}

func TestEmptyCode(t *testing.T) {
	insts, err := Disassemble(nil)
	require.NoError(t, err)
	assert.Empty(t, insts)
}
