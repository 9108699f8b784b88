package models

// RawTransaction represents a single row of the stocks table (or the source
// CSV) before any numeric parsing. All fields are kept as raw strings; the
// Stock Price column in particular often carries currency symbols, commas or
// placeholder text like "n/a".
type RawTransaction struct {
	AccountID     string `json:"account_id"`
	StockName     string `json:"stock_name"`
	NumShares     string `json:"number_of_shares"`
	StockPrice    string `json:"stock_price"`
	DatePurchased string `json:"date_purchased"`
}

// Transaction is one parsed row of account activity for a single stock.
// Shares is signed: positive is a buy, negative is a sell. UnitPrice is only
// meaningful for buys; HasUnitPrice is false when the price column was empty
// or unparseable (sells normally have no price in this model).
type Transaction struct {
	StockTicker  string
	Shares       float64
	UnitPrice    float64
	HasUnitPrice bool
	PurchaseDate string // MM/DD/YY, as supplied
}

// Lot represents a surviving (partially or wholly unconsumed) purchase block.
// Quantity is mutated by FIFO sale matching; price and date are fixed at
// creation.
type Lot struct {
	Quantity     float64
	PricePerUnit float64
	PurchaseDate string // MM/DD/YY
}

// LotResult is the harvest assessment of one surviving lot.
type LotResult struct {
	Quantity          float64
	PricePerUnit      float64
	PurchaseDate      string
	PotentialGainLoss float64
	ExcludedDueToDate bool
}

// HarvestEvaluation aggregates the per-lot results for one stock.
// RecommendHarvest is "yes" when at least one lot shows a loss and is past the
// long-term holding boundary; it is not based on the aggregate sum.
type HarvestEvaluation struct {
	LotResults             []LotResult
	TotalPotentialGainLoss float64
	RecommendHarvest       string
}

// ReportRow is one flat record of the account report, one per surviving lot.
// The JSON field names are the export contract consumed by the API and the
// interactive printer.
type ReportRow struct {
	AccountID            string  `json:"account_id"`
	StockTicker          string  `json:"stock_ticker"`
	NumberOfSharesOnHand float64 `json:"number_of_shares_on_hand"`
	PurchaseDate         string  `json:"purchase_date"`
	PurchasePrice        float64 `json:"purchase_price"`
	CurrentStockPrice    float64 `json:"current_stock_price"`
	PotentialLossGain    float64 `json:"potential_loss_gain"`
	ExcludedDueToDate    string  `json:"excluded_due_to_purchase_date"`
	RecommendForHarvest  string  `json:"recommend_for_tax_loss_harvesting"`
}
