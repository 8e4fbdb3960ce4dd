package models

// Requests and responses for the correlation HTTP endpoints. Defined in
// domain for consistency and reuse.

// CorrelationRequest accepts either free text ("13.823.084/0001-05,
// 09636393000107") or an explicit list. Both may be set; entries are
// merged in order. A client that wants to watch the run live supplies
// its own RunID and subscribes to /ws/progress with it before posting;
// without one the server generates an id, but by the time the response
// discloses it the run is already over.
type CorrelationRequest struct {
	RunID       string   `json:"run_id" validate:"omitempty,uuid"`
	Identifiers string   `json:"identifiers"`
	List        []string `json:"list" validate:"omitempty,max=10,dive,min=1"`
}

// FundReturnsRequest selects a single fund history.
type FundReturnsRequest struct {
	CNPJ string `param:"cnpj" validate:"required"`
}

// FundLabel maps a normalized identifier to its presentation labels.
type FundLabel struct {
	Identifier  string `json:"identifier"`
	CNPJ        string `json:"cnpj"` // pretty-printed form
	DisplayName string `json:"display_name"`
}

// MatrixPayload is the wire form of a CorrelationMatrix.
type MatrixPayload struct {
	Identifiers []string    `json:"identifiers"`
	Labels      []string    `json:"labels"`
	Rows        [][]float64 `json:"rows"`
	JoinedDates int         `json:"joined_dates"`
}

// CorrelationResponse carries everything the presentation layer needs:
// the matrix, labels, per-fund stats and the error ledger.
type CorrelationResponse struct {
	RunID  string         `json:"run_id"`
	Labels []FundLabel    `json:"labels"`
	Stats  []FundStats    `json:"stats"`
	Errors []ErrorRecord  `json:"errors"`
	Matrix *MatrixPayload `json:"matrix,omitempty"`
}

// ReturnPoint is one dated return observation on the wire.
type ReturnPoint struct {
	Date  string  `json:"date"`
	Value float64 `json:"value"`
}

// FundReturnsResponse is the single-fund series payload.
type FundReturnsResponse struct {
	Identifier  string        `json:"identifier"`
	CNPJ        string        `json:"cnpj"`
	DisplayName string        `json:"display_name"`
	Points      []ReturnPoint `json:"points"`
}
