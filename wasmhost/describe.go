package wasmhost

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/tetratelabs/wazero/api"
)

// Describe writes a WIT interface for the host functions followed by their
// core WebAssembly import signatures.
func (h *Host) Describe(w io.Writer) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "interface %s {\n", ModuleName)
	for i := range h.funcs {
		f := &h.funcs[i]
		fmt.Fprintf(bw, "  /// %s\n", f.Doc)
		fmt.Fprintf(bw, "  %s: func(%s)%s;\n", f.Name, witParams(f), witResults(f))
	}
	fmt.Fprintln(bw, "}")
	fmt.Fprintln(bw)

	for i := range h.funcs {
		f := &h.funcs[i]
		fmt.Fprintf(bw, "(import %q %q (func%s%s))\n",
			ModuleName, f.Name, coreList("param", f.ParamTypes()), coreList("result", f.ResultTypes()))
	}
	return bw.Flush()
}

func witParams(f *FuncDef) string {
	parts := make([]string, len(f.Params))
	for i, p := range f.Params {
		parts[i] = p.Name + ": " + witName(p.Type)
	}
	return strings.Join(parts, ", ")
}

func witResults(f *FuncDef) string {
	if len(f.Results) == 0 {
		return ""
	}
	return " -> " + witName(f.Results[0])
}

func coreList(kind string, types []api.ValueType) string {
	if len(types) == 0 {
		return ""
	}
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = api.ValueTypeName(t)
	}
	return " (" + kind + " " + strings.Join(names, " ") + ")"
}
