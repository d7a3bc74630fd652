package entities

// RawFacility is the canonical pre-derivation shape of an upstream facility
// record. The API boundary fills it from either the CMS field set or the
// review/enrichment field set; pointer and string fields stay empty when the
// upstream record does not carry them.
type RawFacility struct {
	ID string

	// CMS field set
	ProviderName      string
	LegalBusinessName string
	Street            string
	City              string
	State             string
	Zip               string
	Phone             string
	CertifiedBeds     *float64
	AverageResidents  *float64
	OwnershipType     string
	OverallRating     string
	HealthInspection  string
	StaffingRating    string
	QualityMeasure    string

	// review/enrichment field set
	ReviewName   string
	ReviewRating *float64
	ReviewCount  int
	Photo        string
	Pros         []string
	Cons         []string

	Latitude  *float64
	Longitude *float64
}

// SearchResponse is a decoded facility query response
type SearchResponse struct {
	Facilities   []RawFacility
	CenterCoords *Coordinates
}
