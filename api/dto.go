/*
dto.go - Request and response types for the HTTP API

NAMING CONVENTION:
  - *Request:  request body types from clients
  - *Response: response wrappers returned to clients

VALIDATION:
  Request structs carry go-playground/validator tags; handlers run the
  shared validator before touching any state, so caller-input errors are
  rejected with a descriptive message and no mutation.
*/
package api

import (
	"encoding/json"

	"github.com/frostline/inventory-engine/ledger"
)

// UploadResponse reports the outcome of a file-upload request.
type UploadResponse struct {
	Success      bool     `json:"success"`
	Processed    int      `json:"processed"`
	CurrentItems int      `json:"current_items"`
	Warnings     []string `json:"warnings,omitempty"`
}

// SalesUploadResponse reports the outcome of a sales upload.
type SalesUploadResponse struct {
	Success    bool               `json:"success"`
	Processed  int                `json:"processed"`
	Deductions []ledger.Deduction `json:"deductions"`
	Warnings   []string           `json:"warnings,omitempty"`
}

// StartingInventoryResponse reports the outcome of a starting-inventory upload.
type StartingInventoryResponse struct {
	Success    bool                 `json:"success"`
	Processed  int                  `json:"processed"`
	ItemsAdded []ledger.AppliedItem `json:"items_added"`
	Warnings   []string             `json:"warnings,omitempty"`
}

// InventoryResponse is the full inventory listing with history counts.
type InventoryResponse struct {
	Inventory    []ledger.InventoryItem `json:"inventory"`
	TotalItems   int                    `json:"total_items"`
	InvoiceCount int                    `json:"invoice_count"`
	SalesCount   int                    `json:"sales_count"`
}

// HistoryResponse lists the processing history, oldest first.
type HistoryResponse struct {
	Invoices []ledger.InvoiceRecord `json:"invoices"`
	Sales    []ledger.SalesRecord   `json:"sales"`
}

// UpdateInventoryRequest is a manual quantity overwrite. Quantity is a
// json.Number so both `"quantity": 4.5` and `"quantity": "4.5"` are
// accepted; anything unparseable is rejected before any state change.
type UpdateInventoryRequest struct {
	ItemNumber string      `json:"item_number" validate:"required"`
	Quantity   json.Number `json:"quantity" validate:"required"`
}

// UpdateInventoryResponse reports a manual quantity overwrite.
type UpdateInventoryResponse struct {
	Success     bool   `json:"success"`
	ItemNumber  string `json:"item_number"`
	Description string `json:"description"`
	OldQuantity string `json:"old_quantity"`
	NewQuantity string `json:"new_quantity"`
	Warning     string `json:"warning,omitempty"`
}

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Error string `json:"error"`
}
