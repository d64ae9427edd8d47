// Package wasmhost exports the abi surface to WebAssembly guests as a wazero
// host module.
//
// Guests see plain core functions under the "utf8arena" module name. Arena
// handles are u32 values, results that carry a status and a value are packed
// into one u64, and encoded bytes are copied into a guest-provided buffer
// while the arena keeps its own copy for later checkpoint and rollback.
//
//	r := wazero.NewRuntime(ctx)
//	host := wasmhost.New(abi.New(abi.DefaultOptions()))
//	if _, err := host.Instantiate(ctx, r); err != nil {
//	    return err
//	}
//	// guest modules importing "utf8arena" can now be instantiated
package wasmhost

import (
	"context"
	"encoding/binary"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"
	"golang.org/x/sys/cpu"

	"github.com/wippyai/utf8arena"
	"github.com/wippyai/utf8arena/abi"
	"github.com/wippyai/utf8arena/arena"
	"github.com/wippyai/utf8arena/decimal"
	"github.com/wippyai/utf8arena/errors"
	"github.com/wippyai/utf8arena/resource"
)

// ModuleName is the import module name guests use.
const ModuleName = "utf8arena"

// Host binds an abi.Surface to WebAssembly host functions.
type Host struct {
	surface *abi.Surface
	funcs   []FuncDef
}

// New creates a Host over surface.
func New(surface *abi.Surface) *Host {
	h := &Host{surface: surface}
	h.funcs = h.buildFuncs()
	return h
}

// Surface returns the underlying surface.
func (h *Host) Surface() *abi.Surface {
	return h.surface
}

// Functions returns the exported function definitions.
func (h *Host) Functions() []FuncDef {
	return h.funcs
}

// Instantiate registers the host module in r.
func (h *Host) Instantiate(ctx context.Context, r wazero.Runtime) (api.Module, error) {
	builder := r.NewHostModuleBuilder(ModuleName)
	for i := range h.funcs {
		f := &h.funcs[i]
		builder.NewFunctionBuilder().
			WithGoModuleFunction(f.Handler, f.ParamTypes(), f.ResultTypes()).
			WithParameterNames(f.ParamNames()...).
			Export(f.Name)
	}

	mod, err := builder.Instantiate(ctx)
	if err != nil {
		return nil, errors.Instantiation(err)
	}
	Logger().Debug("host module instantiated",
		zap.String("module", ModuleName),
		zap.Int("functions", len(h.funcs)))
	return mod, nil
}

func (h *Host) arenaCreate(_ context.Context, _ api.Module, stack []uint64) {
	stack[0] = api.EncodeU32(uint32(h.surface.ArenaCreate()))
}

func (h *Host) arenaTell(_ context.Context, _ api.Module, stack []uint64) {
	pos, err := h.surface.ArenaTell(resource.Handle(api.DecodeU32(stack[0])))
	if err != nil {
		Logger().Debug("arena-tell failed", zap.Error(err))
		stack[0] = BadTell
		return
	}
	stack[0] = uint64(uint32(pos.Chain))<<32 | uint64(uint32(pos.Offset))
}

func (h *Host) arenaTruncate(_ context.Context, _ api.Module, stack []uint64) {
	handle := resource.Handle(api.DecodeU32(stack[0]))
	pos := arena.Position{Chain: int(stack[1] >> 32), Offset: int(uint32(stack[1]))}
	stack[0] = statusResult(h.surface.ArenaTruncate(handle, pos), "arena-truncate")
}

func (h *Host) arenaClear(_ context.Context, _ api.Module, stack []uint64) {
	err := h.surface.ArenaClear(resource.Handle(api.DecodeU32(stack[0])))
	stack[0] = statusResult(err, "arena-clear")
}

func (h *Host) arenaDestroy(_ context.Context, _ api.Module, stack []uint64) {
	err := h.surface.ArenaDestroy(resource.Handle(api.DecodeU32(stack[0])))
	stack[0] = statusResult(err, "arena-destroy")
}

func (h *Host) encode(_ context.Context, mod api.Module, stack []uint64) {
	handle := resource.Handle(api.DecodeU32(stack[0]))
	width := api.DecodeU32(stack[1])
	inPtr := api.DecodeU32(stack[2])
	count := api.DecodeU32(stack[3])
	outPtr := api.DecodeU32(stack[4])
	outCap := api.DecodeU32(stack[5])

	before, err := h.surface.ArenaTell(handle)
	if err != nil {
		stack[0] = pack(statusOf(err), 0)
		return
	}

	// unsupported widths read nothing and fail in the surface
	var unit uint64
	if width <= 4 && utf8arena.Width(width).Valid() {
		unit = uint64(width)
	}
	input, err := readGuest(mod, inPtr, uint64(count)*unit)
	if err != nil {
		Logger().Warn("encode: input outside guest memory", zap.Error(err))
		stack[0] = pack(StatusMemoryFault, 0)
		return
	}

	if bigEndianHost && unit > 1 {
		input = swapUnits(input, int(unit))
	}

	res := h.surface.Encode(handle, width, input, int(count))
	if !res.OK {
		Logger().Debug("encode failed", zap.Error(res.Err))
		stack[0] = pack(statusOf(res.Err), res.BadCodeUnit)
		return
	}

	if uint64(len(res.Output)) > uint64(outCap) {
		_ = h.surface.ArenaTruncate(handle, before)
		stack[0] = pack(StatusOutputTooSmall, uint32(len(res.Output)))
		return
	}
	if len(res.Output) > 0 && !mod.Memory().Write(outPtr, res.Output) {
		_ = h.surface.ArenaTruncate(handle, before)
		Logger().Warn("encode: output outside guest memory",
			zap.Uint32("out_ptr", outPtr),
			zap.Int("len", len(res.Output)))
		stack[0] = pack(StatusMemoryFault, 0)
		return
	}
	stack[0] = pack(StatusOK, uint32(len(res.Output)))
}

func (h *Host) decimalToBigEndian(_ context.Context, mod api.Module, stack []uint64) {
	limbsPtr := api.DecodeU32(stack[0])
	limbsLen := api.DecodeU32(stack[1])
	radix := stack[2]
	exp := api.DecodeU32(stack[3])
	negative := api.DecodeU32(stack[4]) != 0
	outPtr := api.DecodeU32(stack[5])

	raw, err := readGuest(mod, limbsPtr, uint64(limbsLen)*8)
	if err == nil {
		var out []byte
		out, err = readGuest(mod, outPtr, decimal.Size)
		if err == nil {
			limbs := make([]uint64, limbsLen)
			for i := range limbs {
				limbs[i] = binary.LittleEndian.Uint64(raw[8*i:])
			}
			var n int
			// out is a view of guest memory
			if n, err = h.surface.DecimalToBigEndian(limbs, radix, exp, negative, out); err == nil {
				stack[0] = api.EncodeI32(int32(n))
				return
			}
		}
	}
	Logger().Debug("decimal-to-bigendian failed", zap.Error(err))
	stack[0] = api.EncodeI32(-1)
}

func (h *Host) sendersEstablished(_ context.Context, _ api.Module, stack []uint64) {
	slot, warn := h.surface.TrackEstablished()
	var flag uint32
	if warn {
		flag = 1
	}
	stack[0] = pack(flag, slot)
}

func (h *Host) sendersClosed(_ context.Context, _ api.Module, stack []uint64) {
	h.surface.TrackClosed(api.DecodeU32(stack[0]))
}

var bigEndianHost = cpu.IsBigEndian

// swapUnits copies little-endian guest units into host byte order.
func swapUnits(in []byte, unit int) []byte {
	out := make([]byte, len(in))
	for i := 0; i+unit <= len(in); i += unit {
		for j := range unit {
			out[i+j] = in[i+unit-1-j]
		}
	}
	return out
}

// readGuest returns a view of length bytes of the caller's memory.
func readGuest(mod api.Module, offset uint32, length uint64) ([]byte, error) {
	if length == 0 {
		return nil, nil
	}
	mem := mod.Memory()
	if mem == nil {
		return nil, errors.New(errors.PhaseHost, errors.KindOutOfBounds).
			Detail("caller exports no memory").Build()
	}
	if length > uint64(mem.Size()) {
		return nil, errors.OutOfBounds(errors.PhaseHost, uint64(offset), length, uint64(mem.Size()))
	}
	buf, ok := mem.Read(offset, uint32(length))
	if !ok {
		return nil, errors.OutOfBounds(errors.PhaseHost, uint64(offset), length, uint64(mem.Size()))
	}
	return buf, nil
}

func statusResult(err error, fn string) uint64 {
	if err == nil {
		return api.EncodeI32(StatusOK)
	}
	Logger().Debug(fn+" failed", zap.Error(err))
	return api.EncodeI32(int32(statusOf(err)))
}
