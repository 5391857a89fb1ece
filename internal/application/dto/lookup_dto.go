package dto

// LookupEntryResponse is one enumeration row.
type LookupEntryResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// LookupsResponse bundles the four receipt classification enumerations.
type LookupsResponse struct {
	Categories []LookupEntryResponse `json:"categories"`
	Kinds      []LookupEntryResponse `json:"kinds"`
	Types      []LookupEntryResponse `json:"types"`
	Names      []LookupEntryResponse `json:"names"`
}
