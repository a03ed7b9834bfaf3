package constants

// Column names of the offers dataset. Kept in Portuguese: they are the
// headers analysts see in the workbook and the columns historical
// snapshots were written with.
const (
	ColFileName   = "Nome do Arquivo"
	ColAirline    = "Companhia Aérea"
	ColTime1      = "Horário1"
	ColTime2      = "Horário2"
	ColTime3      = "Horário3"
	ColFlightType = "Tipo de Voo"
	ColFlightDate = "Data do Voo"
	ColSearchDate = "Data/Hora da Busca"
	ColVendor     = "Agência/Companhia"
	ColPrice      = "Preço"
	ColRoute      = "TRECHO"
	ColADVP       = "ADVP"
	ColRanking    = "Ranking"
)

// OfferIDCols are the identity columns, in the fixed order they are
// concatenated for the identity key. Ranking is excluded: it is
// recomputed per batch, not extracted.
var OfferIDCols = []string{
	ColFileName, ColAirline, ColTime1, ColTime2, ColTime3,
	ColFlightType, ColFlightDate, ColSearchDate, ColVendor,
	ColPrice, ColRoute, ColADVP,
}

// OfferCols are the full offer columns as written to new snapshots.
var OfferCols = append(append([]string{}, OfferIDCols...), ColRanking)

// Column names of the error (audit) dataset.
const (
	ColError   = "Erro"
	ColSnippet = "Trecho"
	ColPage    = "Pagina"
	ColCycleID = "Ciclo"
)

// ErrorCols are the audit dataset columns.
var ErrorCols = []string{ColFileName, ColError, ColSnippet, ColPage, ColCycleID}

// Workbook sheet names.
const (
	SheetOffers = "OFERTAS"
	SheetErrors = "ERRO_MONITORAMENTO"
)
