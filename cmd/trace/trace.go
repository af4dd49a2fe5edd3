package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/timewinder-dev/phpvm/interp"
	"github.com/timewinder-dev/phpvm/stdlib"
	"github.com/timewinder-dev/phpvm/vm"
)

var (
	file  = flag.String("file", "", "Source file")
	quiet = flag.Bool("quiet", false, "Only print frame state, not program output")
)

func main() {
	flag.Parse()
	if *file == "" {
		log.Fatal("--file is required")
	}
	g := stdlib.NewGlobals()
	prog, err := vm.CompilePath(*file, g)
	if err != nil {
		log.Fatalf("couldn't compile: %s", err)
	}
	trace(prog, g)
}

func trace(prog *vm.Program, g *vm.Globals) {
	m := interp.New(prog, g)
	if *quiet {
		m.Stdout = io.Discard
	} else {
		m.Stdout = os.Stdout
	}
	for {
		fmt.Println("*******")
		prettyPrint(m)
		done, err := m.Step()
		if err != nil {
			log.Fatalln("Got err:", err)
		}
		if done {
			fmt.Println("Finished")
			break
		}
	}
}

func prettyPrint(m *interp.Machine) {
	frames := m.Frames()
	f := frames[len(frames)-1]
	fmt.Printf("Frame: %s (depth %d, staging %d)\n", f, len(frames), len(m.Staging()))
	fmt.Printf("Stack: %s\n", interp.FormatStack(f.Stack))
	fmt.Printf("Variables: %s\n", interp.FormatVariables(f.Variables))
	inst, ok := m.Next()
	if !ok {
		fmt.Println("End of instructions")
	} else {
		fmt.Printf("NextOp: %s\n", inst)
	}
}
