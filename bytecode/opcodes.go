package bytecode

// OperandType is the wire encoding of an operand.
type OperandType uint8

const (
	U1 OperandType = iota + 1
	S1
	U2
	S2
	S4
)

var operandTypeNames = [...]string{U1: "u1", S1: "s1", U2: "u2", S2: "s2", S4: "s4"}

func (t OperandType) String() string {
	if int(t) < len(operandTypeNames) && operandTypeNames[t] != "" {
		return operandTypeNames[t]
	}
	return "invalid"
}

// Width returns the encoded size in bytes.
func (t OperandType) Width() int {
	switch t {
	case U1, S1:
		return 1
	case U2, S2:
		return 2
	case S4:
		return 4
	}
	return 0
}

// Signed reports whether the operand is sign-extended when read.
func (t OperandType) Signed() bool {
	return t == S1 || t == S2 || t == S4
}

// Role says how an operand's value is interpreted.
type Role uint8

const (
	RoleImmediate Role = iota
	RoleLocal
	RoleConstant
	RoleBranch
	RoleCount
	RoleZero
	RoleArrayType
	RoleKey
)

var roleNames = [...]string{
	RoleImmediate: "immediate",
	RoleLocal:     "local",
	RoleConstant:  "constant",
	RoleBranch:    "branch",
	RoleCount:     "count",
	RoleZero:      "zero",
	RoleArrayType: "atype",
	RoleKey:       "key",
}

func (r Role) String() string {
	if int(r) < len(roleNames) {
		return roleNames[r]
	}
	return "unknown"
}

type operandSpec struct {
	typ  OperandType
	role Role
}

type opcodeInfo struct {
	mnemonic string
	operands []operandSpec
	variable bool
}

func (o *opcodeInfo) defined() bool {
	return o.mnemonic != ""
}

const (
	OpIinc            byte = 0x84
	OpGoto            byte = 0xa7
	OpJsr             byte = 0xa8
	OpRet             byte = 0xa9
	OpTableswitch     byte = 0xaa
	OpLookupswitch    byte = 0xab
	OpIreturn         byte = 0xac
	OpReturn          byte = 0xb1
	OpInvokevirtual   byte = 0xb6
	OpInvokespecial   byte = 0xb7
	OpInvokestatic    byte = 0xb8
	OpInvokeinterface byte = 0xb9
	OpInvokedynamic   byte = 0xba
	OpAthrow          byte = 0xbf
	OpWide            byte = 0xc4
	OpIfnull          byte = 0xc6
	OpIfnonnull       byte = 0xc7
	OpGotoW           byte = 0xc8
	OpJsrW            byte = 0xc9
)

// opcodeTable is indexed by opcode byte. Entries with an empty mnemonic
// are not part of the instruction set. Variable entries are decoded by
// dedicated logic in the disassembler.
var opcodeTable = [256]opcodeInfo{
	0x00: {mnemonic: "nop"},
	0x01: {mnemonic: "aconst_null"},
	0x02: {mnemonic: "iconst_m1"},
	0x03: {mnemonic: "iconst_0"},
	0x04: {mnemonic: "iconst_1"},
	0x05: {mnemonic: "iconst_2"},
	0x06: {mnemonic: "iconst_3"},
	0x07: {mnemonic: "iconst_4"},
	0x08: {mnemonic: "iconst_5"},
	0x09: {mnemonic: "lconst_0"},
	0x0a: {mnemonic: "lconst_1"},
	0x0b: {mnemonic: "fconst_0"},
	0x0c: {mnemonic: "fconst_1"},
	0x0d: {mnemonic: "fconst_2"},
	0x0e: {mnemonic: "dconst_0"},
	0x0f: {mnemonic: "dconst_1"},
	0x10: {mnemonic: "bipush", operands: []operandSpec{{S1, RoleImmediate}}},
	0x11: {mnemonic: "sipush", operands: []operandSpec{{S2, RoleImmediate}}},
	0x12: {mnemonic: "ldc", operands: []operandSpec{{U1, RoleConstant}}},
	0x13: {mnemonic: "ldc_w", operands: []operandSpec{{U2, RoleConstant}}},
	0x14: {mnemonic: "ldc2_w", operands: []operandSpec{{U2, RoleConstant}}},
	0x15: {mnemonic: "iload", operands: []operandSpec{{U1, RoleLocal}}},
	0x16: {mnemonic: "lload", operands: []operandSpec{{U1, RoleLocal}}},
	0x17: {mnemonic: "fload", operands: []operandSpec{{U1, RoleLocal}}},
	0x18: {mnemonic: "dload", operands: []operandSpec{{U1, RoleLocal}}},
	0x19: {mnemonic: "aload", operands: []operandSpec{{U1, RoleLocal}}},
	0x1a: {mnemonic: "iload_0"},
	0x1b: {mnemonic: "iload_1"},
	0x1c: {mnemonic: "iload_2"},
	0x1d: {mnemonic: "iload_3"},
	0x1e: {mnemonic: "lload_0"},
	0x1f: {mnemonic: "lload_1"},
	0x20: {mnemonic: "lload_2"},
	0x21: {mnemonic: "lload_3"},
	0x22: {mnemonic: "fload_0"},
	0x23: {mnemonic: "fload_1"},
	0x24: {mnemonic: "fload_2"},
	0x25: {mnemonic: "fload_3"},
	0x26: {mnemonic: "dload_0"},
	0x27: {mnemonic: "dload_1"},
	0x28: {mnemonic: "dload_2"},
	0x29: {mnemonic: "dload_3"},
	0x2a: {mnemonic: "aload_0"},
	0x2b: {mnemonic: "aload_1"},
	0x2c: {mnemonic: "aload_2"},
	0x2d: {mnemonic: "aload_3"},
	0x2e: {mnemonic: "iaload"},
	0x2f: {mnemonic: "laload"},
	0x30: {mnemonic: "faload"},
	0x31: {mnemonic: "daload"},
	0x32: {mnemonic: "aaload"},
	0x33: {mnemonic: "baload"},
	0x34: {mnemonic: "caload"},
	0x35: {mnemonic: "saload"},
	0x36: {mnemonic: "istore", operands: []operandSpec{{U1, RoleLocal}}},
	0x37: {mnemonic: "lstore", operands: []operandSpec{{U1, RoleLocal}}},
	0x38: {mnemonic: "fstore", operands: []operandSpec{{U1, RoleLocal}}},
	0x39: {mnemonic: "dstore", operands: []operandSpec{{U1, RoleLocal}}},
	0x3a: {mnemonic: "astore", operands: []operandSpec{{U1, RoleLocal}}},
	0x3b: {mnemonic: "istore_0"},
	0x3c: {mnemonic: "istore_1"},
	0x3d: {mnemonic: "istore_2"},
	0x3e: {mnemonic: "istore_3"},
	0x3f: {mnemonic: "lstore_0"},
	0x40: {mnemonic: "lstore_1"},
	0x41: {mnemonic: "lstore_2"},
	0x42: {mnemonic: "lstore_3"},
	0x43: {mnemonic: "fstore_0"},
	0x44: {mnemonic: "fstore_1"},
	0x45: {mnemonic: "fstore_2"},
	0x46: {mnemonic: "fstore_3"},
	0x47: {mnemonic: "dstore_0"},
	0x48: {mnemonic: "dstore_1"},
	0x49: {mnemonic: "dstore_2"},
	0x4a: {mnemonic: "dstore_3"},
	0x4b: {mnemonic: "astore_0"},
	0x4c: {mnemonic: "astore_1"},
	0x4d: {mnemonic: "astore_2"},
	0x4e: {mnemonic: "astore_3"},
	0x4f: {mnemonic: "iastore"},
	0x50: {mnemonic: "lastore"},
	0x51: {mnemonic: "fastore"},
	0x52: {mnemonic: "dastore"},
	0x53: {mnemonic: "aastore"},
	0x54: {mnemonic: "bastore"},
	0x55: {mnemonic: "castore"},
	0x56: {mnemonic: "sastore"},
	0x57: {mnemonic: "pop"},
	0x58: {mnemonic: "pop2"},
	0x59: {mnemonic: "dup"},
	0x5a: {mnemonic: "dup_x1"},
	0x5b: {mnemonic: "dup_x2"},
	0x5c: {mnemonic: "dup2"},
	0x5d: {mnemonic: "dup2_x1"},
	0x5e: {mnemonic: "dup2_x2"},
	0x5f: {mnemonic: "swap"},
	0x60: {mnemonic: "iadd"},
	0x61: {mnemonic: "ladd"},
	0x62: {mnemonic: "fadd"},
	0x63: {mnemonic: "dadd"},
	0x64: {mnemonic: "isub"},
	0x65: {mnemonic: "lsub"},
	0x66: {mnemonic: "fsub"},
	0x67: {mnemonic: "dsub"},
	0x68: {mnemonic: "imul"},
	0x69: {mnemonic: "lmul"},
	0x6a: {mnemonic: "fmul"},
	0x6b: {mnemonic: "dmul"},
	0x6c: {mnemonic: "idiv"},
	0x6d: {mnemonic: "ldiv"},
	0x6e: {mnemonic: "fdiv"},
	0x6f: {mnemonic: "ddiv"},
	0x70: {mnemonic: "irem"},
	0x71: {mnemonic: "lrem"},
	0x72: {mnemonic: "frem"},
	0x73: {mnemonic: "drem"},
	0x74: {mnemonic: "ineg"},
	0x75: {mnemonic: "lneg"},
	0x76: {mnemonic: "fneg"},
	0x77: {mnemonic: "dneg"},
	0x78: {mnemonic: "ishl"},
	0x79: {mnemonic: "lshl"},
	0x7a: {mnemonic: "ishr"},
	0x7b: {mnemonic: "lshr"},
	0x7c: {mnemonic: "iushr"},
	0x7d: {mnemonic: "lushr"},
	0x7e: {mnemonic: "iand"},
	0x7f: {mnemonic: "land"},
	0x80: {mnemonic: "ior"},
	0x81: {mnemonic: "lor"},
	0x82: {mnemonic: "ixor"},
	0x83: {mnemonic: "lxor"},
	0x84: {mnemonic: "iinc", operands: []operandSpec{{U1, RoleLocal}, {S1, RoleImmediate}}},
	0x85: {mnemonic: "i2l"},
	0x86: {mnemonic: "i2f"},
	0x87: {mnemonic: "i2d"},
	0x88: {mnemonic: "l2i"},
	0x89: {mnemonic: "l2f"},
	0x8a: {mnemonic: "l2d"},
	0x8b: {mnemonic: "f2i"},
	0x8c: {mnemonic: "f2l"},
	0x8d: {mnemonic: "f2d"},
	0x8e: {mnemonic: "d2i"},
	0x8f: {mnemonic: "d2l"},
	0x90: {mnemonic: "d2f"},
	0x91: {mnemonic: "i2b"},
	0x92: {mnemonic: "i2c"},
	0x93: {mnemonic: "i2s"},
	0x94: {mnemonic: "lcmp"},
	0x95: {mnemonic: "fcmpl"},
	0x96: {mnemonic: "fcmpg"},
	0x97: {mnemonic: "dcmpl"},
	0x98: {mnemonic: "dcmpg"},
	0x99: {mnemonic: "ifeq", operands: []operandSpec{{S2, RoleBranch}}},
	0x9a: {mnemonic: "ifne", operands: []operandSpec{{S2, RoleBranch}}},
	0x9b: {mnemonic: "iflt", operands: []operandSpec{{S2, RoleBranch}}},
	0x9c: {mnemonic: "ifge", operands: []operandSpec{{S2, RoleBranch}}},
	0x9d: {mnemonic: "ifgt", operands: []operandSpec{{S2, RoleBranch}}},
	0x9e: {mnemonic: "ifle", operands: []operandSpec{{S2, RoleBranch}}},
	0x9f: {mnemonic: "if_icmpeq", operands: []operandSpec{{S2, RoleBranch}}},
	0xa0: {mnemonic: "if_icmpne", operands: []operandSpec{{S2, RoleBranch}}},
	0xa1: {mnemonic: "if_icmplt", operands: []operandSpec{{S2, RoleBranch}}},
	0xa2: {mnemonic: "if_icmpge", operands: []operandSpec{{S2, RoleBranch}}},
	0xa3: {mnemonic: "if_icmpgt", operands: []operandSpec{{S2, RoleBranch}}},
	0xa4: {mnemonic: "if_icmple", operands: []operandSpec{{S2, RoleBranch}}},
	0xa5: {mnemonic: "if_acmpeq", operands: []operandSpec{{S2, RoleBranch}}},
	0xa6: {mnemonic: "if_acmpne", operands: []operandSpec{{S2, RoleBranch}}},
	0xa7: {mnemonic: "goto", operands: []operandSpec{{S2, RoleBranch}}},
	0xa8: {mnemonic: "jsr", operands: []operandSpec{{S2, RoleBranch}}},
	0xa9: {mnemonic: "ret", operands: []operandSpec{{U1, RoleLocal}}},
	0xaa: {mnemonic: "tableswitch", variable: true},
	0xab: {mnemonic: "lookupswitch", variable: true},
	0xac: {mnemonic: "ireturn"},
	0xad: {mnemonic: "lreturn"},
	0xae: {mnemonic: "freturn"},
	0xaf: {mnemonic: "dreturn"},
	0xb0: {mnemonic: "areturn"},
	0xb1: {mnemonic: "return"},
	0xb2: {mnemonic: "getstatic", operands: []operandSpec{{U2, RoleConstant}}},
	0xb3: {mnemonic: "putstatic", operands: []operandSpec{{U2, RoleConstant}}},
	0xb4: {mnemonic: "getfield", operands: []operandSpec{{U2, RoleConstant}}},
	0xb5: {mnemonic: "putfield", operands: []operandSpec{{U2, RoleConstant}}},
	0xb6: {mnemonic: "invokevirtual", operands: []operandSpec{{U2, RoleConstant}}},
	0xb7: {mnemonic: "invokespecial", operands: []operandSpec{{U2, RoleConstant}}},
	0xb8: {mnemonic: "invokestatic", operands: []operandSpec{{U2, RoleConstant}}},
	0xb9: {mnemonic: "invokeinterface", operands: []operandSpec{{U2, RoleConstant}, {U1, RoleCount}, {U1, RoleZero}}},
	0xba: {mnemonic: "invokedynamic", operands: []operandSpec{{U2, RoleConstant}, {U1, RoleZero}, {U1, RoleZero}}},
	0xbb: {mnemonic: "new", operands: []operandSpec{{U2, RoleConstant}}},
	0xbc: {mnemonic: "newarray", operands: []operandSpec{{U1, RoleArrayType}}},
	0xbd: {mnemonic: "anewarray", operands: []operandSpec{{U2, RoleConstant}}},
	0xbe: {mnemonic: "arraylength"},
	0xbf: {mnemonic: "athrow"},
	0xc0: {mnemonic: "checkcast", operands: []operandSpec{{U2, RoleConstant}}},
	0xc1: {mnemonic: "instanceof", operands: []operandSpec{{U2, RoleConstant}}},
	0xc2: {mnemonic: "monitorenter"},
	0xc3: {mnemonic: "monitorexit"},
	0xc4: {mnemonic: "wide", variable: true},
	0xc5: {mnemonic: "multianewarray", operands: []operandSpec{{U2, RoleConstant}, {U1, RoleCount}}},
	0xc6: {mnemonic: "ifnull", operands: []operandSpec{{S2, RoleBranch}}},
	0xc7: {mnemonic: "ifnonnull", operands: []operandSpec{{S2, RoleBranch}}},
	0xc8: {mnemonic: "goto_w", operands: []operandSpec{{S4, RoleBranch}}},
	0xc9: {mnemonic: "jsr_w", operands: []operandSpec{{S4, RoleBranch}}},
	0xca: {mnemonic: "breakpoint"},
	0xfe: {mnemonic: "impdep1"},
	0xff: {mnemonic: "impdep2"},
}

// Mnemonic returns the mnemonic for op and whether op is defined.
func Mnemonic(op byte) (string, bool) {
	info := &opcodeTable[op]
	return info.mnemonic, info.defined()
}

// wideLocalOpcodes are the opcodes wide may modify besides iinc.
var wideLocalOpcodes = map[byte]bool{
	0x15: true, 0x16: true, 0x17: true, 0x18: true, 0x19: true, // loads
	0x36: true, 0x37: true, 0x38: true, 0x39: true, 0x3a: true, // stores
	OpRet: true,
}
