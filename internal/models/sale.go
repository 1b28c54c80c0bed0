package models

// Sale order statuses (stato_ordine). CONSEGNATO is terminal: delivered
// orders are excluded from every "open order" lookup and are the only ones
// eligible for archival.
const (
	SaleStatusInCorso    = "ORDINE IN CORSO"
	SaleStatusControllo  = "CONTROLLO TECNICO"
	SaleStatusPronto     = "PRONTO"
	SaleStatusGaranzia   = "SOSTITUZIONE IN GARANZIA"
	SaleStatusConsegnato = "CONSEGNATO"
)

// SaleStatuses lists every status in display order
var SaleStatuses = []string{
	SaleStatusInCorso,
	SaleStatusControllo,
	SaleStatusPronto,
	SaleStatusGaranzia,
	SaleStatusConsegnato,
}

// AllowedTransitions maps each status to the statuses it may move to.
// The current policy permits any-to-any; keeping it as data means a
// tightened workflow is a table edit, not a rewrite.
var AllowedTransitions = map[string][]string{
	SaleStatusInCorso:    SaleStatuses,
	SaleStatusControllo:  SaleStatuses,
	SaleStatusPronto:     SaleStatuses,
	SaleStatusGaranzia:   SaleStatuses,
	SaleStatusConsegnato: SaleStatuses,
}

// IsValidSaleStatus reports whether s is a known stato_ordine value
func IsValidSaleStatus(s string) bool {
	for _, v := range SaleStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// Lens type and lens order enums
const (
	LensMonofocale  = "Monofocale"
	LensMultifocale = "Multifocale"
	LensOffice      = "Office"

	OrdinePrimo   = "Primo"
	OrdineSecondo = "Secondo"
)

// Treatment tags. TreatmentUtilizzoSOS is the warranty-use tag driven by the
// two independent report toggles (only / exclude).
const (
	TreatmentTransition  = "Transition"
	TreatmentLuceBlu     = "Luce Blu"
	TreatmentSunRX       = "Sun RX"
	TreatmentSOS         = "SOS"
	TreatmentUtilizzoSOS = "Utilizzo SOS"
)

// Sale is a lens order (collection "vendite").
// RifVaschetta is the 3-digit lab tray code and is NOT unique: open-order
// lookups must filter out CONSEGNATO records to disambiguate.
// NumeroOrdine is the 5-digit business key, pre-checked unique among active
// orders at write time (the store itself enforces nothing).
type Sale struct {
	ID           string   `json:"id"`
	Data         string   `json:"data"` // DD/MM/YYYY
	Cliente      string   `json:"cliente"`
	Venditore    string   `json:"venditore"`
	TipoLente    string   `json:"tipo_lente"`
	OrdineLente  string   `json:"ordine_lente"`
	RifVaschetta string   `json:"rif_vaschetta"`
	NumeroOrdine string   `json:"numero_ordine"`
	Importo      float64  `json:"importo"`
	StatoOrdine  string   `json:"stato_ordine"`
	Trattamenti  []string `json:"trattamenti"`
}

// HasTreatment reports whether the sale carries the given treatment tag
func (s *Sale) HasTreatment(tag string) bool {
	for _, t := range s.Trattamenti {
		if t == tag {
			return true
		}
	}
	return false
}

// Open reports whether the order is still in the lab (not delivered)
func (s *Sale) Open() bool {
	return s.StatoOrdine != SaleStatusConsegnato
}

// CreateSaleRequest represents the request body for the sale intake form
type CreateSaleRequest struct {
	Cliente      string   `json:"cliente"`
	Venditore    string   `json:"venditore"`
	TipoLente    string   `json:"tipo_lente"`
	OrdineLente  string   `json:"ordine_lente"`
	RifVaschetta string   `json:"rif_vaschetta"`
	NumeroOrdine string   `json:"numero_ordine"`
	Importo      float64  `json:"importo"`
	StatoOrdine  string   `json:"stato_ordine"`
	Trattamenti  []string `json:"trattamenti"`
}
