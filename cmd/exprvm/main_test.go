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

package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func runSource(t *testing.T, src string, extraArgs ...string) (stdout, stderr string, code int) {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "prog.lang")
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}

	outR, outW, _ := os.Pipe()
	errR, errW, _ := os.Pipe()
	args := append(append([]string{}, extraArgs...), path)
	code = run(args, outW, errW)
	outW.Close()
	errW.Close()

	outBuf := make([]byte, 1<<16)
	n, _ := outR.Read(outBuf)
	errBuf := make([]byte, 1<<16)
	m, _ := errR.Read(errBuf)
	return string(outBuf[:n]), string(errBuf[:m]), code
}

func TestDriverEndToEndScenarios(t *testing.T) {
	cases := []struct {
		src  string
		want string
	}{
		{"5 + 3", "8"},
		{"(5 + 3) * 2", "16"},
		{"2 ** 3", "8"},
		{"10 % 3", "1"},
		{"5 >= 5", "1"},
		{"define (x 10 define (y 5 x + y))", "15"},
		{"if (5 > 3 100 200)", "100"},
		{"define (x 5 define (sum 0 define (dummy while (x > 0 define (sum (sum + x) define (x (x - 1) sum))) sum)))", "15"},
		{"define (n 8 if ((n % 2) == 1 1 0))", "0"},
	}
	for _, c := range cases {
		stdout, stderr, code := runSource(t, c.src, "-quiet")
		if code != exitOK {
			t.Fatalf("src %q: exit code %d, stderr %q", c.src, code, stderr)
		}
		if strings.TrimSpace(stdout) != c.want {
			t.Fatalf("src %q: got %q, want %q", c.src, strings.TrimSpace(stdout), c.want)
		}
	}
}

func TestDriverDivisionByZeroIsRuntimeError(t *testing.T) {
	_, stderr, code := runSource(t, "10 / 0", "-quiet")
	if code != exitRuntimeError {
		t.Fatalf("got exit code %d, want %d", code, exitRuntimeError)
	}
	if !strings.Contains(stderr, "runtime error") {
		t.Fatalf("stderr = %q, want it to mention a runtime error", stderr)
	}
}

func TestDriverLexErrorExitCode(t *testing.T) {
	_, _, code := runSource(t, "1 + $", "-quiet")
	if code != exitLexError {
		t.Fatalf("got exit code %d, want %d", code, exitLexError)
	}
}

func TestDriverParseErrorExitCode(t *testing.T) {
	_, _, code := runSource(t, "1 2", "-quiet")
	if code != exitParseError {
		t.Fatalf("got exit code %d, want %d", code, exitParseError)
	}
}

func TestDriverTraceFileWritten(t *testing.T) {
	dir := t.TempDir()
	tracePath := filepath.Join(dir, "trace.log")
	_, _, code := runSource(t, "1 + 2", "-quiet", "-trace", tracePath)
	if code != exitOK {
		t.Fatalf("exit code = %d, want %d", code, exitOK)
	}
	data, err := os.ReadFile(tracePath)
	if err != nil {
		t.Fatalf("reading trace file: %v", err)
	}
	if len(data) == 0 {
		t.Fatal("trace file is empty")
	}
}

func TestDriverDiagnosticDump(t *testing.T) {
	stdout, _, code := runSource(t, "1 + 2")
	if code != exitOK {
		t.Fatalf("exit code = %d", code)
	}
	if !strings.Contains(stdout, "AST:") || !strings.Contains(stdout, "BYTECODE:") {
		t.Fatalf("stdout = %q, want AST and BYTECODE sections", stdout)
	}
}
