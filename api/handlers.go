/*
handlers.go - HTTP handlers for the inventory reconciliation service

PURPOSE:
  Thin shell over the reconciliation engine. Handlers parse uploads,
  route them by declared file type, delegate to the engine, and shape
  JSON responses. No inventory semantics live here.

ENDPOINTS:
  POST /api/upload                     Multi-file upload (invoice PDFs, CSVs)
  POST /api/upload_sales               Single POS sales export (CSV/XLSX)
  POST /api/upload_starting_inventory  Single inventory count export
  GET  /api/inventory                  Current inventory listing
  POST /api/inventory/update           Manual quantity overwrite
  GET  /api/history                    Invoice and sales history
  POST /api/reset                      Clear all state (irreversible)

ERROR HANDLING:
  - 400: validation failures, unsupported file kinds, bad quantities
  - 404: manual update on an item with no ledger entry
  - 500: persistence failures (the mutation itself stands; the response
         carries a warning rather than discarding the result)

SEE ALSO:
  - dto.go:    request/response shapes
  - server.go: router and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/frostline/inventory-engine/extract"
	"github.com/frostline/inventory-engine/ingest"
	"github.com/frostline/inventory-engine/ledger"
)

// Handler holds the shell's dependencies.
type Handler struct {
	Engine    *ledger.Engine
	Extractor *extract.Extractor
	Logger    *logrus.Logger

	MaxUploadBytes int64

	validate *validator.Validate
}

// NewHandler wires a handler around the engine and extractor.
func NewHandler(engine *ledger.Engine, extractor *extract.Extractor, logger *logrus.Logger) *Handler {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Handler{
		Engine:         engine,
		Extractor:      extractor,
		Logger:         logger,
		MaxUploadBytes: 16 << 20,
		validate:       validator.New(),
	}
}

// =============================================================================
// UPLOADS
// =============================================================================

// Upload handles the multi-file endpoint: any mix of invoice PDFs and
// CSV/XLSX exports, routed by the file_type form field
// (invoice | sales | starting_inventory).
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(h.MaxUploadBytes); err != nil {
		respondError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	files := r.MultipartForm.File["files[]"]
	if len(files) == 0 {
		respondError(w, http.StatusBadRequest, "no files uploaded")
		return
	}
	fileType := r.FormValue("file_type")
	if fileType == "" {
		fileType = "invoice"
	}

	var resp UploadResponse
	for _, fh := range files {
		processed, warn := h.processFile(r, fh, fileType)
		if processed {
			resp.Processed++
		}
		if warn != "" {
			resp.Warnings = append(resp.Warnings, warn)
		}
	}

	resp.Success = true
	resp.CurrentItems, _, _ = h.Engine.Counts()
	respondJSON(w, http.StatusOK, resp)
}

// processFile routes one uploaded file. Returns whether it resulted in an
// applied batch, plus a human-readable warning when it did not.
func (h *Handler) processFile(r *http.Request, fh *multipart.FileHeader, fileType string) (bool, string) {
	name := fh.Filename
	lower := strings.ToLower(name)

	data, err := readUpload(fh)
	if err != nil {
		h.Logger.WithError(err).WithField("filename", name).Warn("failed to read upload")
		return false, name + ": unreadable upload"
	}

	switch {
	case strings.HasSuffix(lower, ".pdf"), strings.HasSuffix(lower, ".txt"):
		if fileType != "invoice" {
			return false, name + ": only invoice uploads may be PDF or text"
		}
		text := string(data)
		if strings.HasSuffix(lower, ".pdf") {
			text, err = ingest.PDFText(data)
			if err != nil {
				h.Logger.WithError(err).WithField("filename", name).Warn("pdf text extraction failed")
				return false, name + ": could not extract text"
			}
		}
		inv := h.Extractor.Extract(text)
		if len(inv.Items) == 0 {
			return false, name + ": no line items recognized"
		}
		res, err := h.Engine.ApplyInvoice(r.Context(), inv, name)
		return res.Record != nil, saveWarning(name, err)

	case strings.HasSuffix(lower, ".csv"), strings.HasSuffix(lower, ".xlsx"):
		rows, err := ingest.ReadRows(name, strings.NewReader(string(data)))
		if err != nil {
			return false, name + ": " + err.Error()
		}
		switch fileType {
		case "sales":
			res, err := h.Engine.ApplySales(r.Context(), rows, name)
			return res.Processed > 0, saveWarning(name, err)
		case "starting_inventory":
			res, err := h.Engine.ApplyStartingInventory(r.Context(), rows)
			return res.Processed > 0, saveWarning(name, err)
		default:
			return false, name + ": csv uploads need file_type sales or starting_inventory"
		}

	default:
		return false, name + ": unsupported file kind"
	}
}

// UploadSales handles a single POS sales export.
func (h *Handler) UploadSales(w http.ResponseWriter, r *http.Request) {
	rows, name, ok := h.singleTabularUpload(w, r)
	if !ok {
		return
	}
	res, err := h.Engine.ApplySales(r.Context(), rows, name)
	resp := SalesUploadResponse{
		Success:    true,
		Processed:  res.Processed,
		Deductions: res.Deductions,
	}
	for _, p := range res.MissingRecipes {
		resp.Warnings = append(resp.Warnings, "no recipe for "+p)
	}
	if warn := saveWarning(name, err); warn != "" {
		resp.Warnings = append(resp.Warnings, warn)
	}
	respondJSON(w, http.StatusOK, resp)
}

// UploadStartingInventory handles a single inventory count export.
// Starting inventory replaces matching ledger entries outright.
func (h *Handler) UploadStartingInventory(w http.ResponseWriter, r *http.Request) {
	rows, name, ok := h.singleTabularUpload(w, r)
	if !ok {
		return
	}
	res, err := h.Engine.ApplyStartingInventory(r.Context(), rows)
	resp := StartingInventoryResponse{
		Success:    true,
		Processed:  res.Processed,
		ItemsAdded: res.Items,
	}
	for _, code := range res.Skipped {
		resp.Warnings = append(resp.Warnings, code+" not in conversion table")
	}
	if warn := saveWarning(name, err); warn != "" {
		resp.Warnings = append(resp.Warnings, warn)
	}
	respondJSON(w, http.StatusOK, resp)
}

// singleTabularUpload reads the "file" form field as CSV or XLSX rows.
func (h *Handler) singleTabularUpload(w http.ResponseWriter, r *http.Request) ([]ingest.Row, string, bool) {
	if err := r.ParseMultipartForm(h.MaxUploadBytes); err != nil {
		respondError(w, http.StatusBadRequest, "invalid multipart form")
		return nil, "", false
	}
	f, fh, err := r.FormFile("file")
	if err != nil {
		respondError(w, http.StatusBadRequest, "no file uploaded")
		return nil, "", false
	}
	defer f.Close()

	rows, err := ingest.ReadRows(fh.Filename, f)
	if err != nil {
		if errors.Is(err, ingest.ErrUnsupportedFile) {
			respondError(w, http.StatusBadRequest, "only CSV and XLSX files are supported")
		} else {
			respondError(w, http.StatusBadRequest, err.Error())
		}
		return nil, "", false
	}
	return rows, fh.Filename, true
}

// =============================================================================
// INVENTORY READS AND MUTATIONS
// =============================================================================

// GetInventory lists the current inventory, sorted by description.
func (h *Handler) GetInventory(w http.ResponseWriter, r *http.Request) {
	items := h.Engine.ListInventory()
	_, invoices, sales := h.Engine.Counts()
	respondJSON(w, http.StatusOK, InventoryResponse{
		Inventory:    items,
		TotalItems:   len(items),
		InvoiceCount: invoices,
		SalesCount:   sales,
	})
}

// GetHistory lists both processing histories.
func (h *Handler) GetHistory(w http.ResponseWriter, r *http.Request) {
	invoices, sales := h.Engine.History()
	respondJSON(w, http.StatusOK, HistoryResponse{Invoices: invoices, Sales: sales})
}

// UpdateInventory overwrites one item's quantity. The item must already
// have a ledger entry.
func (h *Handler) UpdateInventory(w http.ResponseWriter, r *http.Request) {
	var req UpdateInventoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		respondError(w, http.StatusBadRequest, "missing item_number or quantity")
		return
	}
	quantity, err := decimal.NewFromString(req.Quantity.String())
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid quantity format")
		return
	}

	old, entry, err := h.Engine.SetQuantity(r.Context(), req.ItemNumber, quantity)
	if errors.Is(err, ledger.ErrItemNotFound) {
		respondError(w, http.StatusNotFound, "item not found in inventory")
		return
	}
	if err != nil && !errors.Is(err, ledger.ErrSnapshotSave) {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	resp := UpdateInventoryResponse{
		Success:     true,
		ItemNumber:  req.ItemNumber,
		Description: entry.Description,
		OldQuantity: old.String(),
		NewQuantity: quantity.String(),
	}
	if err != nil {
		resp.Warning = "quantity updated but snapshot save failed"
	}
	respondJSON(w, http.StatusOK, resp)
}

// Reset clears the ledger and both histories. Irreversible.
func (h *Handler) Reset(w http.ResponseWriter, r *http.Request) {
	err := h.Engine.Reset(r.Context())
	if err != nil && !errors.Is(err, ledger.ErrSnapshotSave) {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	resp := map[string]any{"success": true}
	if err != nil {
		resp["warning"] = "state cleared but snapshot save failed"
	}
	respondJSON(w, http.StatusOK, resp)
}

// =============================================================================
// HELPERS
// =============================================================================

func readUpload(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

// saveWarning turns a persistence failure into an upload warning. The
// batch itself applied; only durability is degraded.
func saveWarning(name string, err error) string {
	if err == nil {
		return ""
	}
	return name + ": applied, but snapshot save failed"
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, ErrorResponse{Error: message})
}
