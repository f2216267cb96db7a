// This file is part of exprvm.
//
// Copyright 2026 The exprvm Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package vm

import (
	"fmt"
	"io"

	"github.com/pkg/errors"

	"exprvm/bytecode"
)

// errTrackingWriter wraps an io.Writer and records the first write
// error without aborting execution; once an error is recorded, later
// writes are skipped and return that error.
// Adapted from the teacher's ngi.ErrWriter.
type errTrackingWriter struct {
	w   io.Writer
	Err error
}

func newErrTrackingWriter(w io.Writer) *errTrackingWriter {
	return &errTrackingWriter{w: w}
}

func (w *errTrackingWriter) Write(p []byte) (int, error) {
	if w.Err != nil {
		return 0, w.Err
	}
	n, err := w.w.Write(p)
	if err != nil {
		w.Err = errors.Wrap(err, "trace write failed")
	}
	return n, w.Err
}

// writeTrace emits one trace line: ip, sp, the decoded opcode, and
// the live stack slice. Failures are swallowed by errTrackingWriter.
func writeTrace(w *errTrackingWriter, ip, sp int, op bytecode.Op, stack []int32) {
	fmt.Fprintf(w, "ip=%d sp=%d op=%s stack=%v\n", ip, sp, op, stack)
}

// TraceError returns the first trace write error encountered, if any.
func (i *Instance) TraceError() error {
	if i.trace == nil {
		return nil
	}
	return i.trace.Err
}
