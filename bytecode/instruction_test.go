package bytecode

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInstructionString(t *testing.T) {
	tests := []struct {
		code []byte
		want string
	}{
		{[]byte{0x10, 0x05}, "bipush 5"},
		{[]byte{0xb6, 0x00, 0x0c}, "invokevirtual #12"},
		{[]byte{0xb9, 0x00, 0x05, 0x02, 0x00}, "invokeinterface #5, 2"},
		{[]byte{0xbc, 0x0a}, "newarray int"},
		{[]byte{0x84, 0x01, 0x01}, "iinc 1, 1"},
		{[]byte{0x00, 0x00, 0x00, 0xa7, 0x00, 0x05}, "goto 8"},
		{[]byte{0xb1}, "return"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			insts, err := Disassemble(tt.code)
			require.NoError(t, err)
			assert.Equal(t, tt.want, insts[len(insts)-1].String())
		})
	}
}

func TestInstructionClassification(t *testing.T) {
	tests := []struct {
		name         string
		code         []byte
		branch       bool
		conditional  bool
		terminal     bool
		fallsThrough bool
		invoke       bool
	}{
		{"ifeq", []byte{0x99, 0x00, 0x03}, true, true, false, true, false},
		{"ifnonnull", []byte{0xc7, 0x00, 0x03}, true, true, false, true, false},
		{"goto", []byte{0xa7, 0x00, 0x03}, true, false, false, false, false},
		{"jsr", []byte{0xa8, 0x00, 0x03}, true, false, false, true, false},
		{"ireturn", []byte{0xac}, false, false, true, false, false},
		{"athrow", []byte{0xbf}, false, false, true, false, false},
		{"ret", []byte{0xa9, 0x01}, false, false, true, false, false},
		{"invokestatic", []byte{0xb8, 0x00, 0x01}, false, false, false, true, true},
		{"iadd", []byte{0x60}, false, false, false, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			insts, err := Disassemble(tt.code)
			require.NoError(t, err)
			in := insts[0]
			assert.Equal(t, tt.branch, in.IsBranch(), "IsBranch")
			assert.Equal(t, tt.conditional, in.IsConditional(), "IsConditional")
			assert.Equal(t, tt.terminal, in.IsTerminal(), "IsTerminal")
			assert.Equal(t, tt.fallsThrough, in.FallsThrough(), "FallsThrough")
			assert.Equal(t, tt.invoke, in.IsInvoke(), "IsInvoke")
		})
	}
}

func TestBranchTargetsAreAbsolute(t *testing.T) {
	// nop; nop; if_icmplt -2
	insts, err := Disassemble([]byte{0x00, 0x00, 0xa1, 0xff, 0xfe})
	require.NoError(t, err)
	assert.Equal(t, []int{0}, insts[2].BranchTargets())
	assert.Equal(t, 5, insts[2].Next())
}

func TestConstantIndex(t *testing.T) {
	insts, err := Disassemble([]byte{0x14, 0x01, 0x02, 0x60})
	require.NoError(t, err)

	idx, ok := insts[0].ConstantIndex()
	assert.True(t, ok)
	assert.Equal(t, uint16(0x0102), idx)

	_, ok = insts[1].ConstantIndex()
	assert.False(t, ok)
}

func TestMnemonic(t *testing.T) {
	name, ok := Mnemonic(0x02)
	assert.True(t, ok)
	assert.Equal(t, "iconst_m1", name)

	_, ok = Mnemonic(0xcb)
	assert.False(t, ok)

	defined := 0
	for op := 0; op < 256; op++ {
		if _, ok := Mnemonic(byte(op)); ok {
			defined++
		}
	}
	assert.Equal(t, 205, defined)
}
