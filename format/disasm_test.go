package format

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"github.com/dhamidi/jvmdecode/classfile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDisasmEncoder(t *testing.T) {
	s := decodeSample(t)
	var buf bytes.Buffer
	require.NoError(t, NewDisasmEncoder(&buf).Encode(s.class))

	want := fmt.Sprintf(`demo/Greeter.<init>:()V
  stack=1, locals=1
     0: aload_0
     1: invokespecial #%d // Methodref java/lang/Object.<init>:()V
     4: return
  Exception table:
     from    to  target type
        0     4     4   any
`, s.objectInit)
	assert.Equal(t, want, buf.String())
}

func TestDisasmEncoderFilters(t *testing.T) {
	s := decodeSample(t)

	enc := NewDisasmEncoder(nil)
	enc.class = s.class
	enc.Method = "run"
	text, err := enc.MarshalText()
	require.NoError(t, err)
	assert.Empty(t, text, "abstract methods have nothing to list")

	enc.Method = "missing"
	_, err = enc.MarshalText()
	assert.EqualError(t, err, "method missing not found in demo/Greeter")

	enc.Method = "<init>"
	enc.Descriptor = "(I)V"
	_, err = enc.MarshalText()
	assert.EqualError(t, err, "method <init>(I)V not found in demo/Greeter")
}

func TestDisasmEncoderReportsBadCode(t *testing.T) {
	err := NewDisasmEncoder(&bytes.Buffer{}).Encode(brokenClass(t))
	require.Error(t, err)
	assert.True(t, errors.Is(err, classfile.ErrUnknownOpcode))
	assert.Contains(t, err.Error(), "failed to disassemble demo/Bad.broken:()V")
}
