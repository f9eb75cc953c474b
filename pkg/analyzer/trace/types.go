package trace

// Sentinels for callees that are not defined in the traced file.
const (
	ExternalFilePath  = "<external>"
	ExternalSignature = "<external function>"
)

// DefaultMaxDepth bounds trace recursion.
const DefaultMaxDepth = 10

// CallNode is one node of a call tree. A function that appears at
// several call sites gets a distinct node per site, each carrying its
// own line number.
type CallNode struct {
	FunctionName string `json:"function_name"`
	FilePath     string `json:"file_path"`
	Signature    string `json:"signature"`
	// LineNumber is where the callee is defined; zero for external
	// leaves, whose definitions are unknown.
	LineNumber     uint32      `json:"line_number,omitempty"`
	CalledFromLine uint32      `json:"called_from_line,omitempty"`
	IsRecursive    bool        `json:"is_recursive,omitempty"`
	Children       []*CallNode `json:"children,omitempty"`
}

// IsExternal reports whether the node is an external leaf.
func (n *CallNode) IsExternal() bool {
	return n.FilePath == ExternalFilePath
}

// Depth returns the maximum depth of the tree rooted at n, counting n
// as depth 1.
func (n *CallNode) Depth() int {
	max := 0
	for _, c := range n.Children {
		if d := c.Depth(); d > max {
			max = d
		}
	}
	return max + 1
}

// Count returns the total number of nodes in the tree.
func (n *CallNode) Count() int {
	total := 1
	for _, c := range n.Children {
		total += c.Count()
	}
	return total
}

// Dependencies is the flattened transitive dependency set of one root
// function. The root itself appears in neither list.
type Dependencies struct {
	Internal []string `json:"internal"`
	External []string `json:"external"`
}
