package order

import (
	"strings"
	"time"
)

const (
	StatusPending   = "pending"
	StatusPreparing = "preparing"
	StatusReady     = "ready"
	StatusServed    = "served"
	StatusPaid      = "paid"
	StatusCancelled = "cancelled"
)

var Statuses = []string{StatusPending, StatusPreparing, StatusReady, StatusServed, StatusPaid, StatusCancelled}

const (
	DiningDineIn   = "Dine in"
	DiningTakeAway = "Take Away"
	DiningDelivery = "Delivery"
)

const (
	PaymentCash   = "Cash"
	PaymentCard   = "Card"
	PaymentQRCode = "QR Code"
)

var PaymentMethods = []string{PaymentCash, PaymentCard, PaymentQRCode}

const (
	PaymentStatusPending = "pending"
	PaymentStatusPaid    = "paid"
)

type Order struct {
	ID            string      `json:"id"`
	TableNumber   string      `json:"tableNumber"`
	CustomerName  string      `json:"customerName,omitempty"`
	Items         []OrderItem `json:"items"`
	Status        string      `json:"status"`
	DiningMode    string      `json:"diningMode"`
	Subtotal      float64     `json:"subtotal"`
	Tax           float64     `json:"tax"`
	Total         float64     `json:"total"`
	PaymentMethod string      `json:"paymentMethod,omitempty"`
	PaymentStatus string      `json:"paymentStatus"`
	StaffID       string      `json:"staffId"`
	CreatedAt     time.Time   `json:"createdAt"`
	UpdatedAt     time.Time   `json:"updatedAt"`
}

// OrderItem is a line snapshot; later menu edits do not change it.
type OrderItem struct {
	MenuItemID string  `json:"menuItemId,omitempty"`
	Title      string  `json:"title"`
	Price      float64 `json:"price"`
	Quantity   int     `json:"quantity"`
	Notes      string  `json:"notes,omitempty"`
}

func (o *Order) IsDineIn() bool {
	return o.DiningMode == DiningDineIn
}

func (o *Order) holdsTable() bool {
	return o.IsDineIn() && o.TableNumber != ""
}

// ParseDiningMode accepts the display names and their compact forms
// ("DineIn", "take_away"). Empty defaults to dine in.
func ParseDiningMode(s string) (string, bool) {
	switch compact(s) {
	case "", "dinein":
		return DiningDineIn, true
	case "takeaway":
		return DiningTakeAway, true
	case "delivery":
		return DiningDelivery, true
	}
	return "", false
}

func ParsePaymentMethod(s string) (string, bool) {
	switch compact(s) {
	case "cash":
		return PaymentCash, true
	case "card":
		return PaymentCard, true
	case "qrcode", "qr":
		return PaymentQRCode, true
	}
	return "", false
}

func ValidStatus(s string) bool {
	for _, status := range Statuses {
		if status == s {
			return true
		}
	}
	return false
}

func compact(s string) string {
	r := strings.NewReplacer(" ", "", "_", "", "-", "")
	return strings.ToLower(r.Replace(strings.TrimSpace(s)))
}
