package classfile

import (
	"fmt"
	"strings"
)

// ErrorKind categorizes a decode failure.
type ErrorKind string

const (
	KindUnexpectedEOF           ErrorKind = "unexpected_eof"
	KindBadMagic                ErrorKind = "bad_magic"
	KindUnknownConstantTag      ErrorKind = "unknown_constant_tag"
	KindMalformedUtf8           ErrorKind = "malformed_utf8"
	KindAttributeLengthMismatch ErrorKind = "attribute_length_mismatch"
	KindUnknownOpcode           ErrorKind = "unknown_opcode"
	KindTruncatedInstruction    ErrorKind = "truncated_instruction"
	KindIllegalWide             ErrorKind = "illegal_wide"
	KindInvalidSwitch           ErrorKind = "invalid_switch"
	KindMalformedAttribute      ErrorKind = "malformed_attribute"
)

// DecodeError is returned for every malformed input. Only the fields
// relevant to Kind are set.
type DecodeError struct {
	Kind     ErrorKind
	Offset   int
	Tag      uint8
	Opcode   uint8
	Magic    uint32
	Name     string
	Declared int
	Consumed int
	Detail   string
}

func (e *DecodeError) Error() string {
	var b strings.Builder
	b.WriteString(string(e.Kind))

	switch e.Kind {
	case KindUnexpectedEOF:
		fmt.Fprintf(&b, " at offset %d: need %d bytes, have %d", e.Offset, e.Declared, e.Consumed)
	case KindBadMagic:
		fmt.Fprintf(&b, ": 0x%X (expected 0x%X)", e.Magic, uint32(Magic))
	case KindUnknownConstantTag:
		fmt.Fprintf(&b, ": tag %d at offset %d", e.Tag, e.Offset)
	case KindMalformedUtf8:
		fmt.Fprintf(&b, " at offset %d", e.Offset)
	case KindAttributeLengthMismatch:
		fmt.Fprintf(&b, ": %s declared %d bytes, consumed %d", e.Name, e.Declared, e.Consumed)
	case KindUnknownOpcode, KindIllegalWide:
		fmt.Fprintf(&b, ": 0x%02x at offset %d", e.Opcode, e.Offset)
	case KindMalformedAttribute:
		fmt.Fprintf(&b, ": %s at payload offset %d", e.Name, e.Offset)
	case KindTruncatedInstruction, KindInvalidSwitch:
		fmt.Fprintf(&b, " at offset %d", e.Offset)
	}

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}
	return b.String()
}

// Is reports whether target is a DecodeError of the same kind.
func (e *DecodeError) Is(target error) bool {
	if t, ok := target.(*DecodeError); ok {
		return e.Kind == t.Kind
	}
	return false
}

// Sentinels for errors.Is.
var (
	ErrUnexpectedEOF           = &DecodeError{Kind: KindUnexpectedEOF}
	ErrBadMagic                = &DecodeError{Kind: KindBadMagic}
	ErrUnknownConstantTag      = &DecodeError{Kind: KindUnknownConstantTag}
	ErrMalformedUtf8           = &DecodeError{Kind: KindMalformedUtf8}
	ErrAttributeLengthMismatch = &DecodeError{Kind: KindAttributeLengthMismatch}
	ErrUnknownOpcode           = &DecodeError{Kind: KindUnknownOpcode}
	ErrTruncatedInstruction    = &DecodeError{Kind: KindTruncatedInstruction}
	ErrIllegalWide             = &DecodeError{Kind: KindIllegalWide}
	ErrInvalidSwitch           = &DecodeError{Kind: KindInvalidSwitch}
	ErrMalformedAttribute      = &DecodeError{Kind: KindMalformedAttribute}
)

func lengthMismatch(name string, declared, consumed int) *DecodeError {
	return &DecodeError{
		Kind:     KindAttributeLengthMismatch,
		Name:     name,
		Declared: declared,
		Consumed: consumed,
	}
}
