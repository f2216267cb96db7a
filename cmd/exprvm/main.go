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

// Command exprvm reads a source file, runs it through the lexer,
// parser, compiler and VM in sequence, and prints the result.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/pkg/errors"

	"exprvm/ast"
	"exprvm/compiler"
	"exprvm/lexer"
	"exprvm/parser"
	"exprvm/vm"
)

// Exit codes, one per pipeline phase that can fail.
const (
	exitOK = iota
	exitUsage
	exitReadError
	exitLexError
	exitParseError
	exitCompileError
	exitRuntimeError
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr *os.File) int {
	fs := flag.NewFlagSet("exprvm", flag.ContinueOnError)
	fs.SetOutput(stderr)
	tracePath := fs.String("trace", "", "write an instruction trace to this path")
	quiet := fs.Bool("quiet", false, "suppress the AST/bytecode diagnostic dump")
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(stderr, "usage: exprvm [-trace path] [-quiet] <source-file>")
		return exitUsage
	}
	path := fs.Arg(0)

	src, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintln(stderr, errors.Wrapf(err, "reading %s", path))
		return exitReadError
	}

	toks, err := lexer.Tokenize(string(src))
	if err != nil {
		fmt.Fprintln(stderr, "lex error:", err)
		return exitLexError
	}

	expr, err := parser.Parse(toks)
	if err != nil {
		fmt.Fprintln(stderr, "parse error:", err)
		return exitParseError
	}

	if !*quiet {
		fmt.Fprintln(stdout, "AST:")
		fmt.Fprint(stdout, ast.Dump(expr))
	}

	prog, err := compiler.Compile(expr)
	if err != nil {
		fmt.Fprintln(stderr, "compile error:", err)
		return exitCompileError
	}

	if !*quiet {
		fmt.Fprintln(stdout, "BYTECODE:")
		fmt.Fprint(stdout, compiler.Disassemble(prog))
	}

	var opts []vm.Option
	var traceFile *os.File
	if *tracePath != "" {
		traceFile, err = os.Create(*tracePath)
		if err != nil {
			fmt.Fprintln(stderr, errors.Wrapf(err, "opening trace file %s", *tracePath))
			return exitReadError
		}
		defer traceFile.Close()
		opts = append(opts, vm.WithTrace(traceFile))
	}

	instance := vm.New(prog, opts...)
	runErr := instance.Run()
	if traceFile != nil {
		traceFile.Sync()
	}
	if runErr != nil {
		fmt.Fprintln(stderr, "runtime error:", runErr)
		return exitRuntimeError
	}

	if v, ok := instance.Result(); ok {
		fmt.Fprintln(stdout, v)
	} else {
		fmt.Fprintln(stdout, "<no result>")
	}
	return exitOK
}
