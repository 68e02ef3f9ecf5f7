package report

import (
	"context"
	"sort"
	"time"

	"github.com/appetiteclub/pos/internal/order"
	"github.com/aquamarinepk/aqm"
	"github.com/shopspring/decimal"
)

const (
	PeriodDay   = "day"
	PeriodWeek  = "week"
	PeriodMonth = "month"
)

const topItemsLimit = 5

// OrderLister is the read side of the order engine.
type OrderLister interface {
	ListOrders(ctx context.Context, status string) ([]order.Order, error)
}

type ItemSales struct {
	ID       string  `json:"id"`
	Title    string  `json:"title"`
	Quantity int     `json:"quantity"`
	Revenue  float64 `json:"revenue"`
}

type Sales struct {
	Period         string             `json:"period"`
	From           time.Time          `json:"from"`
	To             time.Time          `json:"to"`
	OrderCount     int                `json:"orderCount"`
	TotalSales     float64            `json:"totalSales"`
	TotalTax       float64            `json:"totalTax"`
	PaymentMethods map[string]float64 `json:"paymentMethods"`
	DiningModes    map[string]float64 `json:"diningModes"`
	TopItems       []ItemSales        `json:"topItems"`
}

// Window maps a period name to its look-back duration. Unknown periods fall
// back to a day.
func Window(period string) (string, time.Duration) {
	switch period {
	case PeriodWeek:
		return PeriodWeek, 7 * 24 * time.Hour
	case PeriodMonth:
		return PeriodMonth, 30 * 24 * time.Hour
	default:
		return PeriodDay, 24 * time.Hour
	}
}

// Build aggregates the paid orders created inside the period ending at now.
func Build(orders []order.Order, period string, now time.Time) Sales {
	period, window := Window(period)
	from := now.Add(-window)

	s := Sales{
		Period:         period,
		From:           from,
		To:             now,
		PaymentMethods: map[string]float64{},
		DiningModes:    map[string]float64{},
		TopItems:       []ItemSales{},
	}

	var (
		sales, tax decimal.Decimal
		methods    = map[string]decimal.Decimal{}
		modes      = map[string]decimal.Decimal{}
		revenue    = map[string]decimal.Decimal{}
		items      = map[string]*ItemSales{}
	)
	for _, o := range orders {
		if o.PaymentStatus != order.PaymentStatusPaid || o.CreatedAt.Before(from) {
			continue
		}

		total := decimal.NewFromFloat(o.Total)
		s.OrderCount++
		sales = sales.Add(total)
		tax = tax.Add(decimal.NewFromFloat(o.Tax))

		method := o.PaymentMethod
		if method == "" {
			method = "Unknown"
		}
		methods[method] = methods[method].Add(total)
		modes[o.DiningMode] = modes[o.DiningMode].Add(total)

		for _, line := range o.Items {
			key := line.MenuItemID
			if key == "" {
				key = line.Title
			}
			agg, ok := items[key]
			if !ok {
				agg = &ItemSales{ID: key, Title: line.Title}
				items[key] = agg
			}
			agg.Quantity += line.Quantity
			revenue[key] = revenue[key].Add(order.LineAmount(line))
		}
	}

	s.TotalSales = cents(sales)
	s.TotalTax = cents(tax)
	for k, v := range methods {
		s.PaymentMethods[k] = cents(v)
	}
	for k, v := range modes {
		s.DiningModes[k] = cents(v)
	}

	for key, agg := range items {
		agg.Revenue = cents(revenue[key])
		s.TopItems = append(s.TopItems, *agg)
	}
	sort.Slice(s.TopItems, func(i, j int) bool {
		if s.TopItems[i].Revenue != s.TopItems[j].Revenue {
			return s.TopItems[i].Revenue > s.TopItems[j].Revenue
		}
		return s.TopItems[i].ID < s.TopItems[j].ID
	})
	if len(s.TopItems) > topItemsLimit {
		s.TopItems = s.TopItems[:topItemsLimit]
	}

	return s
}

func cents(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}

type Service struct {
	orders OrderLister
	logger aqm.Logger
	now    func() time.Time
}

func NewService(orders OrderLister, logger aqm.Logger) *Service {
	if logger == nil {
		logger = aqm.NewNoopLogger()
	}
	return &Service{
		orders: orders,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (s *Service) Sales(ctx context.Context, period string) (Sales, error) {
	orders, err := s.orders.ListOrders(ctx, order.StatusPaid)
	if err != nil {
		return Sales{}, err
	}
	return Build(orders, period, s.now()), nil
}
