package analyzer

// C/C++ runtime names that name-based analysis ignores entirely: calls
// to these never count as dependencies, and references to these types
// never count as external structures. The lists cover libc, common
// libm, and the STL vocabulary types.

var stdFunctions = makeSet([]string{
	// stdio
	"printf", "fprintf", "sprintf", "snprintf", "vprintf", "vsnprintf",
	"scanf", "fscanf", "sscanf",
	"fopen", "fclose", "fread", "fwrite", "fgets", "fputs", "fseek",
	"ftell", "fflush", "feof", "ferror", "puts", "putchar", "getchar",
	// stdlib
	"malloc", "calloc", "realloc", "free",
	"atoi", "atol", "atof", "strtol", "strtoul", "strtod",
	"rand", "srand", "qsort", "bsearch",
	"exit", "abort", "atexit", "getenv", "system",
	// string.h
	"memcpy", "memmove", "memset", "memcmp", "memchr",
	"strcpy", "strncpy", "strcat", "strncat",
	"strcmp", "strncmp", "strcasecmp", "strlen", "strchr", "strrchr",
	"strstr", "strtok", "strdup", "strerror",
	// math.h
	"sqrt", "pow", "exp", "log", "log10", "fabs", "abs",
	"floor", "ceil", "round", "fmod",
	"sin", "cos", "tan", "asin", "acos", "atan", "atan2",
	// misc
	"assert", "time", "clock", "isdigit", "isalpha", "isspace",
	"tolower", "toupper",
	// C++ basics reachable without qualification
	"move", "forward", "swap", "make_shared", "make_unique",
	"static_cast", "dynamic_cast", "reinterpret_cast", "const_cast",
	"sizeof",
})

var stdTypes = makeSet([]string{
	// STL vocabulary
	"string", "wstring", "vector", "list", "deque", "array",
	"map", "multimap", "set", "multiset",
	"unordered_map", "unordered_set", "pair", "tuple", "optional",
	"shared_ptr", "unique_ptr", "weak_ptr", "function",
	"mutex", "thread", "atomic", "queue", "stack",
	"istream", "ostream", "ifstream", "ofstream", "stringstream",
	// stdint and friends
	"int8_t", "int16_t", "int32_t", "int64_t",
	"uint8_t", "uint16_t", "uint32_t", "uint64_t",
	"intptr_t", "uintptr_t", "size_t", "ssize_t", "ptrdiff_t",
	"wchar_t", "char16_t", "char32_t",
	"FILE", "va_list", "time_t", "clock_t", "off_t",
	"bool", "BOOL", "BYTE", "WORD", "DWORD",
})

// IsStdFunction reports whether a callee name belongs to the runtime
// denylist.
func IsStdFunction(name string) bool {
	return stdFunctions[name]
}

// IsStdType reports whether a type name belongs to the runtime denylist.
func IsStdType(name string) bool {
	return stdTypes[name]
}

func makeSet(items []string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, item := range items {
		set[item] = true
	}
	return set
}
