package models

// Repair/generic order statuses (stato)
const (
	RepairStatusAttesa      = "IN ATTESA"
	RepairStatusLavorazione = "IN LAVORAZIONE"
	RepairStatusPronto      = "PRONTO"
	RepairStatusConsegnato  = "CONSEGNATO"
)

var RepairStatuses = []string{
	RepairStatusAttesa,
	RepairStatusLavorazione,
	RepairStatusPronto,
	RepairStatusConsegnato,
}

// IsValidRepairStatus reports whether s is a known repair stato value
func IsValidRepairStatus(s string) bool {
	for _, v := range RepairStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// RepairNote is one entry of the append-only note log
type RepairNote struct {
	Testo     string `json:"testo"`
	Timestamp string `json:"timestamp"` // DD/MM/YYYY HH:MM
}

// Repair is a repair or miscellaneous order (collection "riparazioni").
// RifVaschetta is optional; InGaranzia forces Importo to 0.
type Repair struct {
	ID           string       `json:"id"`
	Data         string       `json:"data"` // DD/MM/YYYY
	Cliente      string       `json:"cliente"`
	Descrizione  string       `json:"descrizione"`
	Stato        string       `json:"stato"`
	RifVaschetta string       `json:"rif_vaschetta,omitempty"`
	Importo      float64      `json:"importo"`
	InGaranzia   bool         `json:"in_garanzia"`
	Note         []RepairNote `json:"note,omitempty"`
}

// Open reports whether the repair has not been delivered yet
func (r *Repair) Open() bool {
	return r.Stato != RepairStatusConsegnato
}

// CreateRepairRequest represents the request body for the repair intake form
type CreateRepairRequest struct {
	Cliente      string  `json:"cliente"`
	Descrizione  string  `json:"descrizione"`
	Stato        string  `json:"stato"`
	RifVaschetta string  `json:"rif_vaschetta"`
	Importo      float64 `json:"importo"`
	InGaranzia   bool    `json:"in_garanzia"`
}
