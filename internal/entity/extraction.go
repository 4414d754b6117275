package entity

import (
	"time"

	"github.com/google/uuid"
)

// Merchant identifies the store that issued the receipt.
type Merchant struct {
	Name    *string `json:"name"`
	Branch  *string `json:"branch"`
	Address *string `json:"address"`
	Phone   *string `json:"phone"`
	TaxID   *string `json:"tax_id"`
}

// Transaction carries the receipt-level transaction identifiers.
type Transaction struct {
	Date          *string `json:"date"` // ISO-8601 (YYYY-MM-DD) when the model could normalize it
	Time          *string `json:"time"`
	InvoiceNumber *string `json:"invoice_number"`
	OrderNumber   *string `json:"order_number"`
	Terminal      *string `json:"terminal"`
}

// Item is one purchased line item. Order follows extraction order.
type Item struct {
	Name       string   `json:"name"`
	Quantity   *float64 `json:"quantity"`
	UnitPrice  *float64 `json:"unit_price"`
	TotalPrice *float64 `json:"total_price"`
}

// Totals are the monetary summary fields of a receipt. Money fields are
// either a finite number or null, never a string.
type Totals struct {
	Subtotal     *float64 `json:"subtotal"`
	Tax          *float64 `json:"tax"`
	VATAmount    *float64 `json:"vat_amount"`
	VATableSales *float64 `json:"vatable_sales"`
	Total        *float64 `json:"total"`
	Currency     string   `json:"currency"`
}

// Payment describes how the receipt was settled.
type Payment struct {
	Method            *string `json:"method"`
	CardLast4         *string `json:"card_last4"`
	AuthorizationCode *string `json:"authorization_code"`
	ReferenceNumber   *string `json:"reference_number"`
	Status            *string `json:"status"`
}

// Extraction is the canonical structured result of one receipt scan.
// It is built fresh per request and not mutated after being handed to
// the response/persistence layer.
type Extraction struct {
	Merchant    Merchant    `json:"merchant"`
	Transaction Transaction `json:"transaction"`
	Items       []Item      `json:"items"`
	Totals      Totals      `json:"totals"`
	Payment     Payment     `json:"payment"`
	Lines       []string    `json:"lines"`
	FullText    string      `json:"full_text"`
}

// OCRResult is the persisted record: the full extraction plus ownership
// and provenance. Identity is assigned by the repository, not the extractor.
type OCRResult struct {
	ID         uuid.UUID  `json:"id"`
	UserID     *string    `json:"user_id,omitempty"`
	Extraction Extraction `json:"extraction"`
	RawText    string     `json:"raw_text"`
	ImagePath  string     `json:"image_path"`
	CreatedAt  time.Time  `json:"created_at"`
}
