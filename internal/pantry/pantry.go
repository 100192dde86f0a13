package pantry

// Entry is a single on-hand pantry item reported by the household service.
type Entry struct {
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit"`
}
