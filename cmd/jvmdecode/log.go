package main

import (
	"fmt"

	"github.com/dhamidi/jvmdecode/bytecode"
	"github.com/dhamidi/jvmdecode/classfile"
	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"
	"go.uber.org/zap"
)

var log = commonlog.GetLogger("jvmdecode")

// configureLogging sets up CLI logging for the given -v count. From two
// upwards the decoder packages log their internals too.
func configureLogging(verbose int) error {
	commonlog.Configure(verbose, nil)
	if verbose < 2 {
		classfile.SetLogger(nil)
		bytecode.SetLogger(nil)
		return nil
	}

	l, err := zap.NewDevelopment()
	if err != nil {
		return fmt.Errorf("failed to create decoder logger: %w", err)
	}
	classfile.SetLogger(l.Named("classfile"))
	bytecode.SetLogger(l.Named("bytecode"))
	return nil
}
