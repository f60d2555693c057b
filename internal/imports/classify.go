// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package imports

// builtins never need an import: primitive scalars, the unit type, path
// keywords and the names the standard prelude brings into scope.
var builtins = map[string]bool{
	"i8": true, "i16": true, "i32": true, "i64": true, "i128": true, "isize": true,
	"u8": true, "u16": true, "u32": true, "u64": true, "u128": true, "usize": true,
	"f32": true, "f64": true, "bool": true, "char": true, "str": true, "()": true,

	"Self": true, "self": true, "super": true, "crate": true,

	"String": true, "Vec": true, "Option": true, "Result": true, "Box": true,
	"Some": true, "None": true, "Ok": true, "Err": true,
	"Clone": true, "Copy": true, "Send": true, "Sync": true, "Sized": true, "Unpin": true,
	"Drop": true, "Fn": true, "FnMut": true, "FnOnce": true,
	"Debug": true, "Hash": true,
	"Default": true, "Eq": true, "PartialEq": true, "Ord": true, "PartialOrd": true,
	"From": true, "Into": true, "AsRef": true, "AsMut": true, "ToOwned": true, "ToString": true,
	"Iterator": true, "IntoIterator": true, "Extend": true,
	"DoubleEndedIterator": true, "ExactSizeIterator": true,
	"println": true, "print": true, "eprintln": true, "eprint": true, "format": true,
	"vec": true, "panic": true, "assert": true, "assert_eq": true, "assert_ne": true,
	"debug_assert": true, "debug_assert_eq": true, "write": true, "writeln": true,
	"unreachable": true, "unimplemented": true, "todo": true, "matches": true,
	"dbg": true, "concat": true, "stringify": true, "include_str": true, "include_bytes": true,
	"env": true, "file": true, "line": true, "column": true, "cfg": true, "compile_error": true,
	"thread_local": true, "format_args": true,
}

// containers are grouped into one std::collections import.
var containers = map[string]bool{
	"HashMap":    true,
	"HashSet":    true,
	"BTreeMap":   true,
	"BTreeSet":   true,
	"VecDeque":   true,
	"BinaryHeap": true,
	"LinkedList": true,
}

// IsBuiltin reports whether name never needs an import.
func IsBuiltin(name string) bool {
	return builtins[name]
}

// IsContainer reports whether name is a std::collections type.
func IsContainer(name string) bool {
	return containers[name]
}
