package importer

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	assetDomain "gitlab.apk-group.net/itops/backend/asset-inventory/internal/asset/domain"
	"gitlab.apk-group.net/itops/backend/asset-inventory/internal/importer/domain"
)

// SourceAdapter knows the canonical shape of one external source's export and
// applies its source-specific heuristics to a raw row. Adapters run before
// caller-supplied column mappings and their output is never overwritten.
type SourceAdapter interface {
	Source() domain.SourceSystem
	// Snapshot reports whether the source emits complete inventory listings,
	// enabling absence-based retirement.
	Snapshot() bool
	Apply(row map[string]string, draft *domain.AssetDraft)
}

func builtinAdapters() map[domain.SourceSystem]SourceAdapter {
	adapters := map[domain.SourceSystem]SourceAdapter{}
	for _, a := range []SourceAdapter{
		&endpointAdapter{},
		&carrierAdapter{},
		&templateAdapter{},
		&invoiceAdapter{},
	} {
		adapters[a.Source()] = a
	}
	return adapters
}

// pick returns the first non-empty value among the given column aliases.
func pick(row map[string]string, columns ...string) string {
	for _, c := range columns {
		if v := strings.TrimSpace(row[c]); v != "" {
			return v
		}
	}
	return ""
}

// --- endpoint management export ---

type endpointAdapter struct{}

func (a *endpointAdapter) Source() domain.SourceSystem { return domain.SourceEndpoint }
func (a *endpointAdapter) Snapshot() bool              { return true }

func (a *endpointAdapter) Apply(row map[string]string, draft *domain.AssetDraft) {
	draft.SerialNumber = pick(row, "SerialNumber", "Serial Number", "Serial")
	draft.Make = pick(row, "Manufacturer", "Make")
	draft.Model = pick(row, "Model")
	draft.Type = assetDomain.TypeLaptop

	if user := pick(row, "PrimaryUser", "Primary User UPN", "UserPrincipalName"); user != "" {
		// UPNs carry the directory account before the at sign.
		draft.AssignedTo, _, _ = strings.Cut(user, "@")
	}

	if name := pick(row, "DeviceName", "Device Name"); name != "" {
		draft.Specifications["device_name"] = name
	}
	if os := pick(row, "OS", "Operating System"); os != "" {
		draft.Specifications["os"] = os
	}
	if osv := pick(row, "OSVersion", "OS Version"); osv != "" {
		draft.Specifications["os_version"] = osv
	}
	if mem := pick(row, "PhysicalMemoryBytes", "Total Physical Memory", "Memory"); mem != "" {
		draft.Specifications["memory"] = simplifyMemory(mem)
	}
	if vol := pick(row, "Volumes", "TotalStorage", "Storage"); vol != "" {
		if label := storageLabel(vol); label != "" {
			draft.Specifications["storage"] = label
		}
	}
	if seen := pick(row, "LastCheckIn", "Last Check-In"); seen != "" {
		draft.Specifications["last_check_in"] = seen
	}
}

// --- carrier / telecom export ---

type carrierAdapter struct{}

func (a *carrierAdapter) Source() domain.SourceSystem { return domain.SourceCarrier }
func (a *carrierAdapter) Snapshot() bool              { return true }

func (a *carrierAdapter) Apply(row map[string]string, draft *domain.AssetDraft) {
	draft.SerialNumber = pick(row, "SerialNumber", "Serial Number")
	draft.Type = assetDomain.TypePhone

	if name := pick(row, "DeviceName", "Device Name", "Equipment"); name != "" {
		make_, model, storage := parseDeviceName(name)
		draft.Make = make_
		draft.Model = model
		if storage != "" {
			draft.Specifications["storage"] = storage
		}
		if looksLikeTablet(name) {
			draft.Type = assetDomain.TypeTablet
		}
	}

	if imei := pick(row, "IMEI"); imei != "" {
		draft.Specifications["imei"] = imei
	}
	if number := pick(row, "PhoneNumber", "Phone Number", "MDN"); number != "" {
		draft.Specifications["phone_number"] = number
	}
	if plan := pick(row, "Plan", "RatePlan"); plan != "" {
		draft.Specifications["plan"] = plan
	}

	// Carrier exports name the account holder, not a directory account.
	draft.AssignedTo = pick(row, "AccountHolder", "User Name", "UserName")
}

// --- spreadsheet bulk-entry template ---

type templateAdapter struct{}

func (a *templateAdapter) Source() domain.SourceSystem { return domain.SourceTemplate }
func (a *templateAdapter) Snapshot() bool              { return false }

func (a *templateAdapter) Apply(row map[string]string, draft *domain.AssetDraft) {
	draft.AssetTag = pick(row, "Asset Tag", "AssetTag", "Tag")
	draft.SerialNumber = pick(row, "Serial Number", "SerialNumber", "Serial")
	draft.Make = pick(row, "Make", "Manufacturer")
	draft.Model = pick(row, "Model")
	draft.Condition = strings.ToLower(pick(row, "Condition"))
	draft.AssignedTo = pick(row, "Assigned To", "AssignedTo")
	draft.LocationLabel = pick(row, "Location", "Office")

	if t := pick(row, "Type", "Asset Type"); t != "" {
		draft.Type = strings.ToUpper(t)
	}
	if status := strings.ToLower(pick(row, "Status")); status != "" {
		draft.Status = assetDomain.AssetStatus(status)
	}
	if date := pick(row, "Purchase Date", "PurchaseDate"); date != "" {
		draft.Specifications["purchase_date"] = date
	}
	if notes := pick(row, "Notes"); notes != "" {
		draft.Specifications["notes"] = notes
	}
}

// --- invoice extraction ---

type invoiceAdapter struct{}

func (a *invoiceAdapter) Source() domain.SourceSystem { return domain.SourceInvoice }
func (a *invoiceAdapter) Snapshot() bool              { return false }

func (a *invoiceAdapter) Apply(row map[string]string, draft *domain.AssetDraft) {
	draft.SerialNumber = pick(row, "Serial", "SerialNumber", "Serial Number")
	draft.Make = pick(row, "Make", "Vendor", "Manufacturer")
	draft.Model = pick(row, "Model", "Description")
	draft.Type = guessTypeFromModel(draft.Model)

	if price := pick(row, "UnitPrice", "Unit Price", "Price"); price != "" {
		draft.Specifications["unit_price"] = price
	}
	if date := pick(row, "PurchaseDate", "Purchase Date", "InvoiceDate"); date != "" {
		draft.Specifications["purchase_date"] = date
	}
	if inv := pick(row, "InvoiceNumber", "Invoice Number"); inv != "" {
		draft.Specifications["invoice_number"] = inv
	}
	if order := pick(row, "OrderNumber", "Order Number", "PO"); order != "" {
		draft.Specifications["order_number"] = order
	}
}

// --- heuristics ---

var marketingMemoryGB = []int{2, 4, 6, 8, 12, 16, 24, 32, 48, 64, 96, 128}

// simplifyMemory turns a raw byte count into the nearest common marketing
// size. Values that already read as sizes pass through unchanged.
func simplifyMemory(raw string) string {
	bytes, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || bytes <= 0 {
		return strings.TrimSpace(raw)
	}

	gb := float64(bytes) / (1 << 30)
	best := marketingMemoryGB[0]
	for _, c := range marketingMemoryGB {
		if diff(gb, c) < diff(gb, best) {
			best = c
		}
	}
	return fmt.Sprintf("%dGB", best)
}

var marketingStorage = []struct {
	gb    float64
	label string
}{
	{64, "64GB"}, {128, "128GB"}, {256, "256GB"}, {512, "512GB"},
	{1024, "1TB"}, {2048, "2TB"}, {4096, "4TB"},
}

var storageSizeRe = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*(GB|TB)`)

// storageLabel reduces a combined volumes description to a single rounded
// storage-size label using the first volume it can read. Accepts either a
// raw byte count or an embedded "<n> GB"/"<n> TB" size.
func storageLabel(raw string) string {
	v := strings.TrimSpace(raw)

	if bytes, err := strconv.ParseInt(v, 10, 64); err == nil && bytes > 0 {
		return nearestStorage(float64(bytes) / (1 << 30))
	}

	m := storageSizeRe.FindStringSubmatch(strings.ToUpper(v))
	if m == nil {
		return ""
	}
	size, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return ""
	}
	if m[2] == "TB" {
		size *= 1024
	}
	return nearestStorage(size)
}

func nearestStorage(gb float64) string {
	best := marketingStorage[0]
	for _, c := range marketingStorage {
		if diff(gb, int(c.gb)) < diff(gb, int(best.gb)) {
			best = c
		}
	}
	return best.label
}

func diff(v float64, candidate int) float64 {
	d := v - float64(candidate)
	if d < 0 {
		return -d
	}
	return d
}

var deviceStorageRe = regexp.MustCompile(`^\d+(GB|TB)$`)

var deviceColorWords = map[string]bool{
	"BLACK": true, "WHITE": true, "BLUE": true, "RED": true, "GREEN": true,
	"GOLD": true, "SILVER": true, "GRAY": true, "GREY": true, "GRAPHITE": true,
	"PURPLE": true, "PINK": true, "TITANIUM": true, "NATURAL": true,
	"MIDNIGHT": true, "STARLIGHT": true,
}

// parseDeviceName splits a carrier free-text device name into make, model and
// storage: "SAMSUNG GALAXY S23 256GB BLACK" yields Samsung / Galaxy S23 / 256GB.
func parseDeviceName(name string) (make_, model, storage string) {
	fields := strings.Fields(strings.ToUpper(strings.TrimSpace(name)))
	if len(fields) == 0 {
		return "", "", ""
	}

	var kept []string
	for _, f := range fields {
		switch {
		case deviceStorageRe.MatchString(f):
			storage = f
		case deviceColorWords[f]:
			// drop color words
		default:
			kept = append(kept, f)
		}
	}
	if len(kept) == 0 {
		return "", "", storage
	}

	make_ = titleWord(kept[0])
	modelWords := make([]string, 0, len(kept)-1)
	for _, w := range kept[1:] {
		modelWords = append(modelWords, titleWord(w))
	}
	model = strings.Join(modelWords, " ")
	return make_, model, storage
}

func titleWord(w string) string {
	if w == "" {
		return w
	}
	lower := strings.ToLower(w)
	return strings.ToUpper(lower[:1]) + lower[1:]
}

func looksLikeTablet(name string) bool {
	upper := strings.ToUpper(name)
	return strings.Contains(upper, "IPAD") || strings.Contains(upper, " TAB")
}

func guessTypeFromModel(model string) string {
	upper := strings.ToUpper(model)
	switch {
	case strings.Contains(upper, "MONITOR") || strings.Contains(upper, "DISPLAY"):
		return assetDomain.TypeMonitor
	case strings.Contains(upper, "PHONE"):
		return assetDomain.TypePhone
	case strings.Contains(upper, "IPAD") || strings.Contains(upper, "TABLET"):
		return assetDomain.TypeTablet
	case strings.Contains(upper, "DESKTOP") || strings.Contains(upper, "TOWER"):
		return assetDomain.TypeDesktop
	case upper == "":
		return assetDomain.TypeAccessory
	default:
		return assetDomain.TypeLaptop
	}
}
