// (c) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package contractvm

// Helpers that assemble small wasm binaries for tests.

const (
	valI32 = 0x7f

	opUnreachable = 0x00
	opEnd         = 0x0b
	opCall        = 0x10
	opLocalGet    = 0x20
	opI32Const    = 0x41
	opI32Add      = 0x6a

	sectionType     = 1
	sectionImport   = 2
	sectionFunction = 3
	sectionExport   = 7
	sectionCode     = 10

	externFunc = 0x00
)

type testFuncType struct {
	params  []byte
	results []byte
}

type testImport struct {
	module string
	name   string
	typ    uint32
}

type testFunc struct {
	export string
	typ    uint32
	body   []byte
}

type testModule struct {
	types   []testFuncType
	imports []testImport
	funcs   []testFunc
}

func uleb(n uint32) []byte {
	var out []byte
	for {
		b := byte(n & 0x7f)
		n >>= 7
		if n != 0 {
			out = append(out, b|0x80)
			continue
		}
		return append(out, b)
	}
}

func sleb(n int32) []byte {
	var out []byte
	for {
		b := byte(n & 0x7f)
		n >>= 7
		if (n == 0 && b&0x40 == 0) || (n == -1 && b&0x40 != 0) {
			return append(out, b)
		}
		out = append(out, b|0x80)
	}
}

func vec(items ...[]byte) []byte {
	out := uleb(uint32(len(items)))
	for _, item := range items {
		out = append(out, item...)
	}
	return out
}

func name(s string) []byte {
	return append(uleb(uint32(len(s))), s...)
}

func section(id byte, payload []byte) []byte {
	out := append([]byte{id}, uleb(uint32(len(payload)))...)
	return append(out, payload...)
}

func i32Const(n int32) []byte {
	return append([]byte{opI32Const}, sleb(n)...)
}

func call(idx uint32) []byte {
	return append([]byte{opCall}, uleb(idx)...)
}

func instrs(parts ...[]byte) []byte {
	var out []byte
	for _, part := range parts {
		out = append(out, part...)
	}
	return append(out, opEnd)
}

func (m testModule) bytes() []byte {
	out := []byte{0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00}

	if len(m.types) > 0 {
		types := make([][]byte, len(m.types))
		for i, t := range m.types {
			types[i] = append(append([]byte{0x60}, vec(splitBytes(t.params)...)...), vec(splitBytes(t.results)...)...)
		}
		out = append(out, section(sectionType, vec(types...))...)
	}
	if len(m.imports) > 0 {
		imports := make([][]byte, len(m.imports))
		for i, imp := range m.imports {
			entry := append(name(imp.module), name(imp.name)...)
			entry = append(entry, externFunc)
			imports[i] = append(entry, uleb(imp.typ)...)
		}
		out = append(out, section(sectionImport, vec(imports...))...)
	}
	if len(m.funcs) > 0 {
		funcs := make([][]byte, len(m.funcs))
		var exports [][]byte
		codes := make([][]byte, len(m.funcs))
		for i, fn := range m.funcs {
			funcs[i] = uleb(fn.typ)
			idx := uint32(len(m.imports) + i)
			if fn.export != "" {
				entry := append(name(fn.export), externFunc)
				exports = append(exports, append(entry, uleb(idx)...))
			}
			// no locals
			body := append([]byte{0x00}, fn.body...)
			codes[i] = append(uleb(uint32(len(body))), body...)
		}
		out = append(out, section(sectionFunction, vec(funcs...))...)
		if len(exports) > 0 {
			out = append(out, section(sectionExport, vec(exports...))...)
		}
		out = append(out, section(sectionCode, vec(codes...))...)
	}
	return out
}

// splitBytes turns a value type list into vec items.
func splitBytes(b []byte) [][]byte {
	items := make([][]byte, len(b))
	for i := range b {
		items[i] = []byte{b[i]}
	}
	return items
}

var (
	typeGet     = testFuncType{params: []byte{valI32}, results: []byte{valI32}}
	typeSet     = testFuncType{params: []byte{valI32, valI32}}
	typeReturns = testFuncType{results: []byte{valI32}}
	typeVoid    = testFuncType{}
)

const (
	getFunc = 0
	setFunc = 1
)

// emptyModule is the smallest valid wasm binary.
func emptyModule() []byte {
	return testModule{}.bytes()
}

// counterModule imports both storage functions and exports:
//
//	increment()       storage[1] += 1, returns the new value
//	write_pair()      storage[1] = 1, storage[2] = 2
//	noop()
//	boom()            traps
//	write_then_trap() storage[5] = 9, then traps
//	takes_arg(i32)    returns its argument
func counterModule() []byte {
	return testModule{
		types: []testFuncType{typeGet, typeSet, typeReturns, typeVoid},
		imports: []testImport{
			{module: hostModuleName, name: storageGetName, typ: 0},
			{module: hostModuleName, name: storageSetName, typ: 1},
		},
		funcs: []testFunc{
			{export: "increment", typ: 2, body: instrs(
				i32Const(1),
				i32Const(1), call(getFunc),
				i32Const(1), []byte{opI32Add},
				call(setFunc),
				i32Const(1), call(getFunc),
			)},
			{export: "write_pair", typ: 3, body: instrs(
				i32Const(1), i32Const(1), call(setFunc),
				i32Const(2), i32Const(2), call(setFunc),
			)},
			{export: "noop", typ: 3, body: instrs()},
			{export: "boom", typ: 3, body: instrs([]byte{opUnreachable})},
			{export: "write_then_trap", typ: 3, body: instrs(
				i32Const(5), i32Const(9), call(setFunc),
				[]byte{opUnreachable},
			)},
			{export: "takes_arg", typ: 0, body: instrs([]byte{opLocalGet, 0x00})},
		},
	}.bytes()
}

// unlinkableModule imports a host function the VM doesn't provide.
func unlinkableModule() []byte {
	return testModule{
		types:   []testFuncType{typeVoid},
		imports: []testImport{{module: hostModuleName, name: "missing", typ: 0}},
		funcs:   []testFunc{{export: "run", typ: 0, body: instrs()}},
	}.bytes()
}

// pureModule has an export and no imports.
func pureModule() []byte {
	return testModule{
		types: []testFuncType{typeReturns},
		funcs: []testFunc{{export: "answer", typ: 0, body: instrs(i32Const(42))}},
	}.bytes()
}

// corruptModule carries the wasm magic followed by bytes that don't parse.
func corruptModule() []byte {
	return []byte{0x00, 0x61, 0x73, 0x6d, 0xff, 0xff, 0xff, 0xff}
}

// startExportModule exports a "_start" that writes storage[1] = 7 and a
// "read" that returns storage[1].
func startExportModule() []byte {
	return testModule{
		types: []testFuncType{typeGet, typeSet, typeReturns, typeVoid},
		imports: []testImport{
			{module: hostModuleName, name: storageGetName, typ: 0},
			{module: hostModuleName, name: storageSetName, typ: 1},
		},
		funcs: []testFunc{
			{export: "_start", typ: 3, body: instrs(i32Const(1), i32Const(7), call(setFunc))},
			{export: "read", typ: 2, body: instrs(i32Const(1), call(getFunc))},
		},
	}.bytes()
}

// trappingStartModule has no imports and a "_start" that traps.
func trappingStartModule() []byte {
	return testModule{
		types: []testFuncType{typeVoid, typeReturns},
		funcs: []testFunc{
			{export: "_start", typ: 0, body: instrs([]byte{opUnreachable})},
			{export: "answer", typ: 1, body: instrs(i32Const(42))},
		},
	}.bytes()
}
