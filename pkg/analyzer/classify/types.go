package classify

// Category buckets an external callee for mock planning.
type Category string

const (
	// CategoryBusiness is the default: a real dependency worth mocking.
	CategoryBusiness Category = "business"
	// CategoryStandardLibrary matches runtime-style names.
	CategoryStandardLibrary Category = "standardLibrary"
	// CategoryLoggingUtility matches logging and diagnostic helpers.
	CategoryLoggingUtility Category = "loggingUtility"
	// CategoryMacros matches macro-looking names.
	CategoryMacros Category = "macros"
)

// Classification partitions a set of external names into the four
// categories. Every input name lands in exactly one bucket.
type Classification struct {
	Business        []string `json:"business"`
	StandardLibrary []string `json:"standard_library"`
	LoggingUtility  []string `json:"logging_utility"`
	Macros          []string `json:"macros"`
}

// Total returns the number of classified names.
func (c *Classification) Total() int {
	return len(c.Business) + len(c.StandardLibrary) + len(c.LoggingUtility) + len(c.Macros)
}

// Rules holds the glob pattern lists. Pattern lists are configurable;
// the precedence between them is fixed.
type Rules struct {
	StandardLibrary  []string `koanf:"standard_library" json:"standard_library"`
	LoggingUtility   []string `koanf:"logging_utility" json:"logging_utility"`
	MacroPatterns    []string `koanf:"macro_patterns" json:"macro_patterns"`
	CustomExclusions []string `koanf:"custom_exclusions" json:"custom_exclusions"`
}

// DefaultRules returns the stock pattern lists.
func DefaultRules() Rules {
	return Rules{
		StandardLibrary: []string{
			"std::*", "mem*", "str*", "malloc*", "calloc*", "realloc*",
			"free", "printf*", "sprintf*", "snprintf*", "scanf*",
			"fopen*", "fclose*", "fread*", "fwrite*",
		},
		LoggingUtility: []string{
			"*LOG*", "*log*", "*PRINT*", "*Print*",
			"*ASSERT*", "*CHECK*", "*TRACE*", "*DEBUG*", "*dump*",
		},
		MacroPatterns:    nil,
		CustomExclusions: nil,
	}
}
