package boundary

// Exposure classifies how a function is visible outside its file.
type Exposure string

const (
	// ExposureAPI means the function is declared in a header and is the
	// file's intended interface.
	ExposureAPI Exposure = "API"
	// ExposureInternal means the function is static: file-private.
	ExposureInternal Exposure = "INTERNAL"
	// ExposureExported means the function has external linkage but no
	// header declaration was found for it.
	ExposureExported Exposure = "EXPORTED"
)

// EntryPoint is one function with its resolved exposure.
type EntryPoint struct {
	Name       string   `json:"name"`
	Signature  string   `json:"signature"`
	Line       uint32   `json:"line"`
	Exposure   Exposure `json:"exposure"`
	HeaderPath string   `json:"header_path,omitempty"`
}

// Boundary partitions everything a file touches into what it defines
// and what it depends on. Runtime names (libc, STL) appear in neither
// partition.
type Boundary struct {
	Path string `json:"path"`

	// EntryPoints lists every defined function in source order.
	EntryPoints []EntryPoint `json:"entry_points"`

	// Functions called by this file, split by where they are defined.
	InternalCalls []string `json:"internal_calls"`
	ExternalCalls []string `json:"external_calls"`

	// Types referenced by this file, split the same way.
	InternalTypes []string `json:"internal_types"`
	ExternalTypes []string `json:"external_types"`
}

// APIFunctions returns the names of entry points with API exposure.
func (b *Boundary) APIFunctions() []string {
	var out []string
	for _, ep := range b.EntryPoints {
		if ep.Exposure == ExposureAPI {
			out = append(out, ep.Name)
		}
	}
	return out
}
