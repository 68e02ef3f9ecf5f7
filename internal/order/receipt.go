package order

import "time"

type Receipt struct {
	OrderID       string    `json:"orderId"`
	Subtotal      float64   `json:"subtotal"`
	Tax           float64   `json:"tax"`
	Total         float64   `json:"total"`
	PaymentMethod string    `json:"paymentMethod"`
	Timestamp     time.Time `json:"timestamp"`
}

func NewReceipt(o *Order, at time.Time) Receipt {
	return Receipt{
		OrderID:       o.ID,
		Subtotal:      o.Subtotal,
		Tax:           o.Tax,
		Total:         o.Total,
		PaymentMethod: o.PaymentMethod,
		Timestamp:     at,
	}
}
