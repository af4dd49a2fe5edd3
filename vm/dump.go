package vm

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Dump writes the structural, type-tagged form of v, one entry per line:
//
//	array(2) {
//	  [0]=>
//	  int(1)
//	  ["name"]=>
//	  string(3) "abc"
//	}
func Dump(w io.Writer, v Value) error {
	var b strings.Builder
	dump(&b, v, 0)
	_, err := io.WriteString(w, b.String())
	return err
}

func dump(b *strings.Builder, v Value, depth int) {
	indent := strings.Repeat("  ", depth)
	b.WriteString(indent)
	switch x := v.(type) {
	case StrValue:
		fmt.Fprintf(b, "string(%d) \"%s\"\n", len(x), string(x))
	case IntValue:
		fmt.Fprintf(b, "int(%s)\n", x.String())
	case FloatValue:
		fmt.Fprintf(b, "float(%s)\n", x.String())
	case BoolValue:
		fmt.Fprintf(b, "bool(%t)\n", bool(x))
	case NullValue:
		b.WriteString("NULL\n")
	case *ArrayValue:
		fmt.Fprintf(b, "array(%d) {\n", x.Len())
		x.Each(func(k string, item Value) {
			b.WriteString(indent + "  ")
			if isIntKey(k) {
				fmt.Fprintf(b, "[%s]=>\n", k)
			} else {
				fmt.Fprintf(b, "[%q]=>\n", k)
			}
			dump(b, item, depth+1)
		})
		b.WriteString(indent + "}\n")
	default:
		fmt.Fprintf(b, "%T\n", v)
	}
}

func isIntKey(k string) bool {
	i, err := strconv.ParseInt(k, 10, 64)
	return err == nil && strconv.FormatInt(i, 10) == k
}
