// Command emitbc-dump prints the structure of one or more finalized
// code objects: their prelude fields, line-number table, and
// (optionally) a disassembly of the bytecode stream and an
// independent stack-balance check. It plays the same role as the
// teacher's cmd/wasm-dump for WebAssembly modules.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/dyncompile/emitbc/decode"
	"github.com/dyncompile/emitbc/emitter"
	"github.com/dyncompile/emitbc/lntab"
	"github.com/dyncompile/emitbc/verify"
)

func init() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: emitbc-dump [options] file1.bc [file2.bc [...]]

ex:
 $> emitbc-dump -d ./fn.bc

options:
`,
		)
		flag.PrintDefaults()
		os.Exit(1)
	}
}

var (
	flagVerbose    = flag.Bool("v", false, "enable/disable verbose mode")
	flagHeaders    = flag.Bool("h", false, "print the prelude")
	flagDis        = flag.Bool("d", false, "disassemble the bytecode stream")
	flagLines      = flag.Bool("l", false, "print the decoded line-number table")
	flagVerify     = flag.Bool("c", false, "independently check stack balance and jump ranges")
	flagNumArgs    = flag.Int("args", 0, "number of leading arguments in the prelude's name table")
	flagCacheBytes = flag.Bool("cache", false, "assume CacheMapLookupInBytecode was enabled when encoding")
)

func main() {
	log.SetPrefix("emitbc-dump: ")
	log.SetFlags(0)

	flag.Parse()

	if flag.NArg() < 1 {
		flag.Usage()
	}
	if !*flagHeaders && !*flagDis && !*flagLines && !*flagVerify {
		flag.Usage()
		log.Printf("at least one of -d, -h, -l, or -c must be given")
		os.Exit(1)
	}

	emitter.SetDebugMode(*flagVerbose)

	for i, fname := range flag.Args() {
		if i > 0 {
			fmt.Println()
		}
		process(fname)
	}
}

func process(fname string) {
	code, err := os.ReadFile(fname)
	if err != nil {
		log.Fatalf("could not read %q: %v", fname, err)
	}

	prelude, off, err := decode.DecodePrelude(code)
	if err != nil {
		log.Fatalf("%s: decoding prelude: %v", fname, err)
	}
	argNames, off, err := decode.DecodeArgNames(code, off, *flagNumArgs)
	if err != nil {
		log.Fatalf("%s: decoding argument names: %v", fname, err)
	}
	nstate, excStackSize, cells, lineTableOff, err := decode.DecodeRest(code, off)
	if err != nil {
		log.Fatalf("%s: decoding prelude tail: %v", fname, err)
	}

	if *flagHeaders {
		fmt.Printf("%s:\n", fname)
		fmt.Printf("  code_info_size: %d\n", prelude.CodeInfoSize)
		fmt.Printf("  simple_name:    %d\n", prelude.SimpleName)
		fmt.Printf("  source_file:    %d\n", prelude.SourceFile)
		fmt.Printf("  arg_names:      %v\n", argNames)
		fmt.Printf("  n_state:        %d\n", nstate)
		fmt.Printf("  exc_stack_size: %d\n", excStackSize)
		fmt.Printf("  cell_locals:    %v\n", cells)
	}

	if *flagLines {
		checkpoints := lntab.Decode(code[lineTableOff:prelude.CodeInfoSize], 0)
		fmt.Println("line table:")
		for _, c := range checkpoints {
			fmt.Printf("  offset=%-6d line=%d\n", c.Offset, c.Line)
		}
	}

	bytecode := code[prelude.CodeInfoSize:]
	opts := decode.Options{CacheMapLookupInBytecode: *flagCacheBytes}
	instrs, err := decode.Decode(bytecode, opts)
	if err != nil {
		log.Fatalf("%s: decoding bytecode: %v", fname, err)
	}

	if *flagDis {
		fmt.Println("bytecode:")
		for _, in := range instrs {
			fmt.Printf("  %6d  %-28s %v\n", in.Offset, in.Op, in.Operands)
		}
	}

	if *flagVerify {
		res, err := verify.Walk(instrs, len(bytecode))
		if err != nil {
			log.Fatalf("%s: verify: %v", fname, err)
		}
		fmt.Printf("verify: %d instructions, max depth %d, end depth %d\n", res.NumInstrs, res.MaxDepth, res.EndDepth)
	}
}
