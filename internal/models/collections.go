package models

// Store collection names. Each is a user-scoped, schemaless document
// collection; the backend is the only writer.
const (
	CollectionVendite     = "vendite"
	CollectionRiparazioni = "riparazioni"
	CollectionVenditori   = "venditori"
	CollectionEmails      = "emailAmministrazioni"
	CollectionDatiMensili = "datiMensili"
	CollectionLac         = "lac"
)

// AllCollections lists every collection, in backup-export order
var AllCollections = []string{
	CollectionVendite,
	CollectionRiparazioni,
	CollectionVenditori,
	CollectionEmails,
	CollectionDatiMensili,
	CollectionLac,
}
