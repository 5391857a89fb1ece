package entity

// Lookup kinds: the four small enumerations classifying a receipt.
// The data itself is externally owned reference data.
const (
	LookupCategory = "category"
	LookupKind     = "kind"
	LookupType     = "type"
	LookupName     = "name"
)

// LookupEntry is one row of a classification enumeration.
type LookupEntry struct {
	ID   int64
	Name string
}
