package transcoder

import (
	"bytes"
	"encoding/binary"
	stderrors "errors"
	"testing"
	"unicode/utf8"
	"unsafe"

	"github.com/wippyai/utf8arena"
	"github.com/wippyai/utf8arena/arena"
	"github.com/wippyai/utf8arena/errors"
)

func TestUCS1(t *testing.T) {
	tests := []struct {
		name string
		in   []byte
		want string
	}{
		{"empty", nil, ""},
		{"ascii", []byte("hello"), "hello"},
		{"latin1_tail", []byte("10\xb5"), "10µ"},
		{"all_high", []byte{0x80, 0xff}, "\u0080ÿ"},
		{"long_ascii_then_high", []byte("abcdefghijklmnop\xe9"), "abcdefghijklmnopé"},
		{"nul", []byte{0, 'a', 0}, "\x00a\x00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := arena.New()
			got := UCS1(a, tt.in)
			if string(got) != tt.want {
				t.Errorf("UCS1(%q) = %q, want %q", tt.in, got, tt.want)
			}
			if cap(got) != len(got) {
				t.Errorf("view cap = %d, want %d", cap(got), len(got))
			}
		})
	}
}

func TestUCS1_Exhaustive(t *testing.T) {
	in := make([]byte, 256)
	for i := range in {
		in[i] = byte(i)
	}
	got := UCS1(arena.New(), in)

	var want []byte
	for i := range 256 {
		want = utf8.AppendRune(want, rune(i))
	}
	if !bytes.Equal(got, want) {
		t.Errorf("UCS1(0..255) mismatch:\n got %x\nwant %x", got, want)
	}
}

func TestUCS2(t *testing.T) {
	tests := []struct {
		name    string
		in      []uint16
		want    string
		wantLen int
	}{
		{"empty", nil, "", 0},
		{"latin1_range", []uint16{0xf0, 0xe3, 0xb5, 0xb6}, "ðãµ¶", 8},
		{"two_byte", []uint16{0x100, 0x69c}, "\u0100\u069c", 4},
		{"three_byte", []uint16{0x569c, 0xa4c2}, "\u569c\ua4c2", 6},
		{"bmp_edges", []uint16{0x7f, 0x80, 0x7ff, 0x800, 0xd7ff, 0xe000, 0xffff}, "\u007f\u0080\u07ff\u0800\ud7ff\ue000\uffff", 17},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := UCS2(arena.New(), tt.in)
			if err != nil {
				t.Fatalf("UCS2 failed: %v", err)
			}
			if string(got) != tt.want {
				t.Errorf("UCS2 = %q, want %q", got, tt.want)
			}
			if len(got) != tt.wantLen {
				t.Errorf("len = %d, want %d", len(got), tt.wantLen)
			}
		})
	}
}

func TestUCS4(t *testing.T) {
	tests := []struct {
		name string
		in   []uint32
		want []byte
	}{
		{"empty", nil, []byte{}},
		{"pile_of_poo", []uint32{0x1f4a9}, []byte{0xF0, 0x9F, 0x92, 0xA9}},
		{"astral_pair", []uint32{0x1f4a9, 0x1f99e}, []byte("\U0001f4a9\U0001f99e")},
		{"cjk", []uint32{0x569c}, []byte{0xE5, 0x9A, 0x9C}},
		{"max", []uint32{0x10ffff}, []byte{0xF4, 0x8F, 0xBF, 0xBF}},
		{"mixed", []uint32{'a', 0xe9, 0x20ac, 0x1f600}, []byte("aé€\U0001f600")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := UCS4(arena.New(), tt.in)
			if err != nil {
				t.Fatalf("UCS4 failed: %v", err)
			}
			if !bytes.Equal(got, tt.want) {
				t.Errorf("UCS4 = %x, want %x", got, tt.want)
			}
		})
	}
}

func TestInvalidCodeUnits(t *testing.T) {
	tests := []struct {
		name      string
		encode    func(a *arena.Arena) ([]byte, error)
		wantIndex int
		wantUnit  uint32
	}{
		{"ucs2_high_surrogate", func(a *arena.Arena) ([]byte, error) {
			return UCS2(a, []uint16{'a', 0xd800, 'b'})
		}, 1, 0xd800},
		{"ucs2_low_surrogate", func(a *arena.Arena) ([]byte, error) {
			return UCS2(a, []uint16{0xdfff})
		}, 0, 0xdfff},
		{"ucs2_surrogate_pair_not_combined", func(a *arena.Arena) ([]byte, error) {
			return UCS2(a, []uint16{0xd83d, 0xdca9})
		}, 0, 0xd83d},
		{"ucs4_beyond_max", func(a *arena.Arena) ([]byte, error) {
			return UCS4(a, []uint32{0x61, 0x110000})
		}, 1, 0x110000},
		{"ucs4_surrogate", func(a *arena.Arena) ([]byte, error) {
			return UCS4(a, []uint32{0xdc00})
		}, 0, 0xdc00},
		{"ucs4_top_bit", func(a *arena.Arena) ([]byte, error) {
			return UCS4(a, []uint32{0x20ac, 0xffffffff})
		}, 1, 0xffffffff},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := arena.New()
			got, err := tt.encode(a)
			if err == nil {
				t.Fatalf("expected error, got %q", got)
			}
			if got != nil {
				t.Errorf("expected nil view on error, got %q", got)
			}

			var e *errors.Error
			if !stderrors.As(err, &e) {
				t.Fatalf("error type = %T, want *errors.Error", err)
			}
			if e.Kind != errors.KindInvalidCodeUnit {
				t.Errorf("Kind = %s, want %s", e.Kind, errors.KindInvalidCodeUnit)
			}
			if e.Index != tt.wantIndex {
				t.Errorf("Index = %d, want %d", e.Index, tt.wantIndex)
			}
			unit, ok := errors.CodeUnit(err)
			if !ok || unit != tt.wantUnit {
				t.Errorf("CodeUnit = 0x%X, %v; want 0x%X", unit, ok, tt.wantUnit)
			}
			if a.Tell() != (arena.Position{}) {
				t.Errorf("Tell after failure = %+v, want empty", a.Tell())
			}
		})
	}
}

func TestRollbackPreservesEarlierViews(t *testing.T) {
	a := arena.New()
	first, err := UCS2(a, []uint16{'o', 'k', 0xe9})
	if err != nil {
		t.Fatal(err)
	}
	before := a.Tell()

	if _, err := UCS4(a, []uint32{0x1f600, 0xd800}); err == nil {
		t.Fatal("expected error")
	}
	if a.Tell() != before {
		t.Errorf("Tell = %+v, want %+v", a.Tell(), before)
	}
	if string(first) != "oké" {
		t.Errorf("earlier view changed to %q", first)
	}

	next, err := UCS4(a, []uint32{'!'})
	if err != nil {
		t.Fatal(err)
	}
	if string(next) != "!" || string(first) != "oké" {
		t.Errorf("views = %q, %q", first, next)
	}
}

func TestRollbackAtEveryPosition(t *testing.T) {
	base := []uint32{'a', 0xe9, 0x20ac, 0x1f600, 'z', 0x569c}
	for pos := 0; pos <= len(base); pos++ {
		in := make([]uint32, 0, len(base)+1)
		in = append(in, base[:pos]...)
		in = append(in, 0x110000)
		in = append(in, base[pos:]...)

		a := arena.New()
		UCS1(a, []byte("prefix"))
		before := a.Tell()

		_, err := UCS4(a, in)
		e, ok := err.(*errors.Error)
		if !ok {
			t.Fatalf("pos %d: error = %v", pos, err)
		}
		if e.Index != pos {
			t.Errorf("pos %d: Index = %d", pos, e.Index)
		}
		if a.Tell() != before {
			t.Errorf("pos %d: Tell = %+v, want %+v", pos, a.Tell(), before)
		}
	}
}

func TestRollbackDropsNewChunk(t *testing.T) {
	a := arena.New()
	c := a.ReserveTail(arena.MinChunkLen - 2)
	c.Commit(copy(c.Spare(), bytes.Repeat([]byte{'x'}, arena.MinChunkLen-2)))
	before := a.Tell()

	// needs 3*4 bytes, more than the 2 left in the first chunk
	if _, err := UCS2(a, []uint16{'a', 'b', 'c', 0xd800}); err == nil {
		t.Fatal("expected error")
	}
	if a.Len() != 1 {
		t.Errorf("Len = %d, want 1", a.Len())
	}
	if a.Tell() != before {
		t.Errorf("Tell = %+v, want %+v", a.Tell(), before)
	}

	// the dropped chunk is reused
	if _, err := UCS2(a, []uint16{'a', 'b', 'c', 'd'}); err != nil {
		t.Fatal(err)
	}
	if s := a.Stats(); s.Allocations != 2 || s.Reuses != 1 {
		t.Errorf("Allocations = %d, Reuses = %d; want 2, 1", s.Allocations, s.Reuses)
	}
}

func TestUCS1ReservesWorstCase(t *testing.T) {
	a := arena.New()
	UCS1(a, bytes.Repeat([]byte{'a'}, 600))
	if c := a.Chunk(0).Cap(); c != 1200 {
		t.Errorf("first chunk cap = %d, want 1200", c)
	}

	// 600 bytes of spare remain; 301 ASCII bytes reserve 602
	UCS1(a, bytes.Repeat([]byte{'b'}, 301))
	if pos := a.Tell(); pos != (arena.Position{Chain: 2, Offset: 301}) {
		t.Errorf("Tell = %+v, want {2 301}", pos)
	}

	// 300 fit exactly
	a.Clear()
	UCS1(a, bytes.Repeat([]byte{'c'}, 600))
	UCS1(a, bytes.Repeat([]byte{'d'}, 300))
	if pos := a.Tell(); pos != (arena.Position{Chain: 1, Offset: 900}) {
		t.Errorf("Tell = %+v, want {1 900}", pos)
	}
}

func TestFastPathMatchesGeneral(t *testing.T) {
	inputs := [][]byte{
		[]byte("plain ascii longer than one word"),
		[]byte("\xff\xfe\xfd"),
		[]byte("12345678\x80"),
		[]byte("1234567\x80abcdefgh"),
		[]byte("abcdefgh12345678\xc0"),
	}

	for _, in := range inputs {
		units := make([]uint16, len(in))
		for i, b := range in {
			units[i] = uint16(b)
		}
		fast := UCS1(arena.New(), in)
		general, err := UCS2(arena.New(), units)
		if err != nil {
			t.Fatal(err)
		}
		if !bytes.Equal(fast, general) {
			t.Errorf("input %q: UCS1 = %x, UCS2 = %x", in, fast, general)
		}
	}
}

func TestAsciiPrefix(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"", 0},
		{"abc", 3},
		{"\x80", 0},
		{"abcdefgh", 8},
		{"abcdefg\x80", 7},
		{"abcdefgh\x80", 8},
		{"abcdefghijklmnopq\xff", 17},
	}

	for _, tt := range tests {
		if got := asciiPrefix([]byte(tt.in)); got != tt.want {
			t.Errorf("asciiPrefix(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestAliasASCII(t *testing.T) {
	enc := NewEncoder(Options{AliasASCII: true})

	t.Run("ascii_aliases_input", func(t *testing.T) {
		a := arena.New()
		in := []byte("zero copy")
		got := enc.UCS1(a, in)
		if unsafe.SliceData(got) != unsafe.SliceData(in) {
			t.Error("expected view of input")
		}
		if a.Len() != 0 {
			t.Errorf("arena used: %d chunks", a.Len())
		}
		if cap(got) != len(in) {
			t.Errorf("cap = %d, want %d", cap(got), len(in))
		}
	})

	t.Run("non_ascii_copies", func(t *testing.T) {
		a := arena.New()
		got := enc.UCS1(a, []byte("caf\xe9"))
		if string(got) != "café" {
			t.Errorf("got %q", got)
		}
		if a.Len() != 1 {
			t.Errorf("Len = %d, want 1", a.Len())
		}
	})

	t.Run("default_copies", func(t *testing.T) {
		a := arena.New()
		in := []byte("copy")
		got := UCS1(a, in)
		if unsafe.SliceData(got) == unsafe.SliceData(in) {
			t.Error("default encoder aliased input")
		}
	})
}

func TestEncode(t *testing.T) {
	u16 := func(units ...uint16) []byte {
		raw := make([]byte, 2*len(units))
		for i, u := range units {
			binary.NativeEndian.PutUint16(raw[2*i:], u)
		}
		return raw
	}
	u32 := func(units ...uint32) []byte {
		raw := make([]byte, 4*len(units))
		for i, u := range units {
			binary.NativeEndian.PutUint32(raw[4*i:], u)
		}
		return raw
	}

	tests := []struct {
		name     string
		width    utf8arena.Width
		raw      []byte
		want     string
		wantKind errors.Kind
	}{
		{"ucs1", utf8arena.Width1, []byte("10\xb5"), "10µ", ""},
		{"ucs2", utf8arena.Width2, u16(0x569c, 0xa4c2), "\u569c\ua4c2", ""},
		{"ucs4", utf8arena.Width4, u32(0x1f4a9, 0x1f99e), "\U0001f4a9\U0001f99e", ""},
		{"empty_ucs4", utf8arena.Width4, nil, "", ""},
		{"width_3", 3, []byte{1, 2, 3}, "", errors.KindUnsupportedWidth},
		{"width_0", 0, nil, "", errors.KindUnsupportedWidth},
		{"width_8", 8, make([]byte, 8), "", errors.KindUnsupportedWidth},
		{"odd_ucs2", utf8arena.Width2, []byte{'a', 0, 'b'}, "", errors.KindInvalidInput},
		{"short_ucs4", utf8arena.Width4, []byte{'a', 0}, "", errors.KindInvalidInput},
		{"surrogate", utf8arena.Width2, u16('a', 0xdbff), "", errors.KindInvalidCodeUnit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := arena.New()
			got, err := Encode(a, tt.width, tt.raw)
			if tt.wantKind != "" {
				var e *errors.Error
				if !stderrors.As(err, &e) || e.Kind != tt.wantKind {
					t.Fatalf("error = %v, want kind %s", err, tt.wantKind)
				}
				if a.Tell() != (arena.Position{}) {
					t.Errorf("arena touched: %+v", a.Tell())
				}
				return
			}
			if err != nil {
				t.Fatalf("Encode failed: %v", err)
			}
			if string(got) != tt.want {
				t.Errorf("Encode = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestEncode_Misaligned(t *testing.T) {
	backing := make([]byte, 1+4*3)
	raw := backing[1:]
	for i, u := range []uint32{0x1f600, 'x', 0xe9} {
		binary.NativeEndian.PutUint32(raw[4*i:], u)
	}

	got, err := Encode(arena.New(), utf8arena.Width4, raw)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "\U0001f600xé" {
		t.Errorf("got %q", got)
	}

	got, err = Encode(arena.New(), utf8arena.Width2, backing[1:5])
	if err != nil {
		t.Fatal(err)
	}
	if want := string([]rune{rune(binary.NativeEndian.Uint16(backing[1:])), rune(binary.NativeEndian.Uint16(backing[3:]))}); string(got) != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestViewsStableAcrossGrowth(t *testing.T) {
	a := arena.New()
	var views [][]byte
	var wants []string

	for i := range 200 {
		units := make([]uint32, 20)
		for j := range units {
			units[j] = uint32(0x4e00 + i*20 + j)
		}
		v, err := UCS4(a, units)
		if err != nil {
			t.Fatal(err)
		}
		views = append(views, v)
		wants = append(wants, string(v))
	}

	if a.Len() < 2 {
		t.Fatalf("expected growth, Len = %d", a.Len())
	}
	for i, v := range views {
		if string(v) != wants[i] {
			t.Fatalf("view %d changed", i)
		}
	}
}

func TestLargeInputGetsOwnChunk(t *testing.T) {
	a := arena.New()
	in := make([]uint16, 2000)
	for i := range in {
		in[i] = 0x3042
	}
	got, err := UCS2(a, in)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 6000 {
		t.Errorf("len = %d, want 6000", len(got))
	}
	if c := a.Chunk(0).Cap(); c != 6000 {
		t.Errorf("chunk cap = %d, want 6000", c)
	}
	if !utf8.Valid(got) {
		t.Error("output is not valid UTF-8")
	}
}

func TestTotality(t *testing.T) {
	a := arena.New()
	var units []uint32
	for v := uint32(0); v <= 0x10ffff; v += 0x3f {
		units = append(units, v)
	}

	for _, v := range units {
		before := a.Tell()
		got, err := UCS4(a, []uint32{v})
		isSurrogate := v >= 0xd800 && v <= 0xdfff
		switch {
		case isSurrogate && err == nil:
			t.Fatalf("0x%X: expected error", v)
		case isSurrogate:
			if a.Tell() != before {
				t.Fatalf("0x%X: arena not restored", v)
			}
		case err != nil:
			t.Fatalf("0x%X: %v", v, err)
		default:
			r, size := utf8.DecodeRune(got)
			if uint32(r) != v || size != len(got) {
				t.Fatalf("0x%X: round trip gave 0x%X (%d of %d bytes)", v, r, size, len(got))
			}
		}
		if !isSurrogate && v <= 0xffff {
			got2, err := UCS2(a, []uint16{uint16(v)})
			if err != nil || string(got2) != string(got) {
				t.Fatalf("0x%X: UCS2 = %q, %v; UCS4 = %q", v, got2, err, got)
			}
		}
	}
}

func TestEncoderOptions(t *testing.T) {
	if DefaultOptions().AliasASCII {
		t.Error("AliasASCII should default to false")
	}
	if !NewEncoder(Options{AliasASCII: true}).Options().AliasASCII {
		t.Error("Options not retained")
	}
}

func TestCheckBudget(t *testing.T) {
	if err := checkBudget(10, utf8arena.Width4); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	huge := int(^uint(0)>>1)/2 + 1
	err := checkBudget(huge, utf8arena.Width4)
	if !stderrors.Is(err, &errors.Error{Phase: errors.PhaseEncode, Kind: errors.KindOverflow}) {
		t.Errorf("error = %v, want overflow", err)
	}
}
