package wasmhost

import (
	"github.com/tetratelabs/wazero/api"
	"go.bytecodealliance.org/wit"
)

// Param is a named function parameter.
type Param struct {
	Type wit.Type
	Name string
}

// FuncDef describes one exported host function.
type FuncDef struct {
	Handler api.GoModuleFunc
	Name    string
	Doc     string
	Params  []Param
	Results []wit.Type
}

// ParamTypes returns the core WebAssembly parameter types.
func (f *FuncDef) ParamTypes() []api.ValueType {
	types := make([]api.ValueType, len(f.Params))
	for i, p := range f.Params {
		types[i] = coreType(p.Type)
	}
	return types
}

// ResultTypes returns the core WebAssembly result types.
func (f *FuncDef) ResultTypes() []api.ValueType {
	types := make([]api.ValueType, len(f.Results))
	for i, t := range f.Results {
		types[i] = coreType(t)
	}
	return types
}

// ParamNames returns the parameter names in order.
func (f *FuncDef) ParamNames() []string {
	names := make([]string, len(f.Params))
	for i, p := range f.Params {
		names[i] = p.Name
	}
	return names
}

// coreType flattens a primitive WIT type to its core value type.
func coreType(t wit.Type) api.ValueType {
	switch t.(type) {
	case wit.U64, wit.S64:
		return api.ValueTypeI64
	case wit.F32:
		return api.ValueTypeF32
	case wit.F64:
		return api.ValueTypeF64
	default:
		return api.ValueTypeI32
	}
}

// witName renders a primitive WIT type name.
func witName(t wit.Type) string {
	switch t.(type) {
	case wit.Bool:
		return "bool"
	case wit.U8:
		return "u8"
	case wit.U16:
		return "u16"
	case wit.U32:
		return "u32"
	case wit.U64:
		return "u64"
	case wit.S32:
		return "s32"
	case wit.S64:
		return "s64"
	case wit.F32:
		return "f32"
	case wit.F64:
		return "f64"
	default:
		return "unknown"
	}
}

func param(name string, t wit.Type) Param {
	return Param{Name: name, Type: t}
}

func (h *Host) buildFuncs() []FuncDef {
	return []FuncDef{
		{
			Name:    "arena-create",
			Doc:     "Creates an empty arena. Returns 0 once the host is closed.",
			Results: []wit.Type{wit.U32{}},
			Handler: h.arenaCreate,
		},
		{
			Name:    "arena-tell",
			Doc:     "Returns chain << 32 | offset, or all ones for an unknown handle.",
			Params:  []Param{param("arena", wit.U32{})},
			Results: []wit.Type{wit.U64{}},
			Handler: h.arenaTell,
		},
		{
			Name:    "arena-truncate",
			Doc:     "Rolls the arena back to a position from arena-tell.",
			Params:  []Param{param("arena", wit.U32{}), param("pos", wit.U64{})},
			Results: []wit.Type{wit.S32{}},
			Handler: h.arenaTruncate,
		},
		{
			Name:    "arena-clear",
			Doc:     "Drops all data but keeps the first chunk.",
			Params:  []Param{param("arena", wit.U32{})},
			Results: []wit.Type{wit.S32{}},
			Handler: h.arenaClear,
		},
		{
			Name:    "arena-destroy",
			Doc:     "Releases the arena and invalidates its handle.",
			Params:  []Param{param("arena", wit.U32{})},
			Results: []wit.Type{wit.S32{}},
			Handler: h.arenaDestroy,
		},
		{
			Name: "encode",
			Doc:  "Encodes count code units of width bytes to UTF-8 and copies the result to out-ptr. Returns status << 32 | value.",
			Params: []Param{
				param("arena", wit.U32{}),
				param("width", wit.U32{}),
				param("in-ptr", wit.U32{}),
				param("count", wit.U32{}),
				param("out-ptr", wit.U32{}),
				param("out-cap", wit.U32{}),
			},
			Results: []wit.Type{wit.U64{}},
			Handler: h.encode,
		},
		{
			Name: "decimal-to-bigendian",
			Doc:  "Writes up to 32 big-endian two's complement bytes to out-ptr. Returns the length, or -1.",
			Params: []Param{
				param("limbs-ptr", wit.U32{}),
				param("limbs-len", wit.U32{}),
				param("radix", wit.U64{}),
				param("exp", wit.U32{}),
				param("negative", wit.Bool{}),
				param("out-ptr", wit.U32{}),
			},
			Results: []wit.Type{wit.S32{}},
			Handler: h.decimalToBigEndian,
		},
		{
			Name:    "senders-established",
			Doc:     "Records a new connection. Returns warn << 32 | slot.",
			Results: []wit.Type{wit.U64{}},
			Handler: h.sendersEstablished,
		},
		{
			Name:    "senders-closed",
			Doc:     "Releases a connection slot.",
			Params:  []Param{param("slot", wit.U32{})},
			Handler: h.sendersClosed,
		},
	}
}
