package classfile

import (
	"strings"
	"testing"
)

func TestParseFieldDescriptor(t *testing.T) {
	tests := []struct {
		desc  string
		want  FieldType
		str   string
		slots int
	}{
		{"I", FieldType{BaseType: "int"}, "int", 1},
		{"J", FieldType{BaseType: "long"}, "long", 2},
		{"Ljava/lang/String;", FieldType{ClassName: "java/lang/String"}, "java.lang.String", 1},
		{"[D", FieldType{BaseType: "double", ArrayDepth: 1}, "double[]", 1},
		{"[[Ljava/lang/Object;", FieldType{ClassName: "java/lang/Object", ArrayDepth: 2}, "java.lang.Object[][]", 1},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			ft, err := ParseFieldDescriptor(tt.desc)
			if err != nil {
				t.Fatalf("ParseFieldDescriptor(%q) error = %v", tt.desc, err)
			}
			if *ft != tt.want {
				t.Errorf("ParseFieldDescriptor(%q) = %+v, want %+v", tt.desc, *ft, tt.want)
			}
			if got := ft.String(); got != tt.str {
				t.Errorf("String() = %q, want %q", got, tt.str)
			}
			if got := ft.Slots(); got != tt.slots {
				t.Errorf("Slots() = %d, want %d", got, tt.slots)
			}
			if got, want := ft.IsPrimitive(), tt.want.BaseType != "" && tt.want.ArrayDepth == 0; got != want {
				t.Errorf("IsPrimitive() = %v, want %v", got, want)
			}
			if got := ft.IsArray(); got != (tt.want.ArrayDepth > 0) {
				t.Errorf("IsArray() = %v", got)
			}
		})
	}
}

func TestParseMethodDescriptor(t *testing.T) {
	tests := []struct {
		desc  string
		str   string
		slots int
	}{
		{"()V", "() void", 0},
		{"()I", "() int", 0},
		{"(II)I", "(int, int) int", 2},
		{"(JD[J)V", "(long, double, long[]) void", 5},
		{"(IDLjava/lang/Thread;)Ljava/lang/Object;", "(int, double, java.lang.Thread) java.lang.Object", 4},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			md, err := ParseMethodDescriptor(tt.desc)
			if err != nil {
				t.Fatalf("ParseMethodDescriptor(%q) error = %v", tt.desc, err)
			}
			if got := md.String(); got != tt.str {
				t.Errorf("String() = %q, want %q", got, tt.str)
			}
			if got := md.ParameterSlots(); got != tt.slots {
				t.Errorf("ParameterSlots() = %d, want %d", got, tt.slots)
			}
		})
	}
}

func TestParseDescriptorErrors(t *testing.T) {
	fieldTests := []struct {
		desc string
		want string
	}{
		{"", "missing type"},
		{"V", `unexpected 'V'`},
		{"Ljava/lang/String", "unterminated class name"},
		{"L;", "empty class name"},
		{"II", "trailing characters"},
		{"[", "missing type"},
		{strings.Repeat("[", 256) + "I", "256 array dimensions"},
	}
	for _, tt := range fieldTests {
		if _, err := ParseFieldDescriptor(tt.desc); err == nil || !strings.Contains(err.Error(), tt.want) {
			t.Errorf("ParseFieldDescriptor(%q) error = %v, want %q", tt.desc, err, tt.want)
		}
	}

	methodTests := []struct {
		desc string
		want string
	}{
		{"V", "missing '('"},
		{"(I", "missing ')'"},
		{"(I)", "missing type"},
		{"(V)V", `unexpected 'V'`},
		{"()VV", "trailing characters"},
	}
	for _, tt := range methodTests {
		if _, err := ParseMethodDescriptor(tt.desc); err == nil || !strings.Contains(err.Error(), tt.want) {
			t.Errorf("ParseMethodDescriptor(%q) error = %v, want %q", tt.desc, err, tt.want)
		}
	}
}
