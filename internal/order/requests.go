package order

type PlaceOrderRequest struct {
	TableNumber  string        `json:"tableNumber" validate:"max=16"`
	CustomerName string        `json:"customerName,omitempty" validate:"max=80"`
	DiningMode   string        `json:"diningMode"`
	StaffID      string        `json:"staffId" validate:"max=64"`
	Items        []LineRequest `json:"items"`
}

// LineRequest is one cart line. Title and price may be omitted when the line
// names a menu item the catalog can resolve.
type LineRequest struct {
	MenuItemID string   `json:"menuItemId,omitempty"`
	Title      string   `json:"title,omitempty"`
	Price      *float64 `json:"price,omitempty"`
	Quantity   int      `json:"quantity"`
	Notes      string   `json:"notes,omitempty"`
}

type StatusUpdateRequest struct {
	Status string `json:"status" validate:"required"`
}

type PaymentRequest struct {
	PaymentMethod string `json:"paymentMethod" validate:"required"`
}

// PlaceOrderResult carries the stored order plus any table warnings.
type PlaceOrderResult struct {
	Order    *Order   `json:"order"`
	Warnings []string `json:"warnings,omitempty"`
}

// KitchenQueue is the kitchen display projection.
type KitchenQueue struct {
	Pending   []Order `json:"pending"`
	Preparing []Order `json:"preparing"`
}
