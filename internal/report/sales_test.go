package report

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/appetiteclub/pos/internal/apperr"
	"github.com/appetiteclub/pos/internal/order"
	"github.com/aquamarinepk/aqm"
	"github.com/go-chi/chi/v5"
	"github.com/xuri/excelize/v2"
)

var now = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func paidOrder(id string, age time.Duration, method, mode string, items ...order.OrderItem) order.Order {
	totals := order.ComputeTotals(items)
	return order.Order{
		ID:            id,
		Items:         items,
		Status:        order.StatusPaid,
		DiningMode:    mode,
		Subtotal:      totals.Subtotal,
		Tax:           totals.Tax,
		Total:         totals.Total,
		PaymentMethod: method,
		PaymentStatus: order.PaymentStatusPaid,
		CreatedAt:     now.Add(-age),
	}
}

func line(id string, price float64, qty int) order.OrderItem {
	return order.OrderItem{MenuItemID: id, Title: "Item " + id, Price: price, Quantity: qty}
}

func TestWindow(t *testing.T) {
	tests := []struct {
		in     string
		period string
		window time.Duration
	}{
		{"day", PeriodDay, 24 * time.Hour},
		{"week", PeriodWeek, 7 * 24 * time.Hour},
		{"month", PeriodMonth, 30 * 24 * time.Hour},
		{"", PeriodDay, 24 * time.Hour},
		{"year", PeriodDay, 24 * time.Hour},
	}

	for _, tt := range tests {
		period, window := Window(tt.in)
		if period != tt.period || window != tt.window {
			t.Errorf("Window(%q) = %s, %v, want %s, %v", tt.in, period, window, tt.period, tt.window)
		}
	}
}

func TestBuild(t *testing.T) {
	orders := []order.Order{
		paidOrder("o1", time.Hour, order.PaymentCash, order.DiningDineIn, line("a", 10, 2)),
		paidOrder("o2", 2*time.Hour, order.PaymentCard, order.DiningTakeAway, line("b", 5, 1), line("a", 10, 1)),
		paidOrder("o3", 3*24*time.Hour, order.PaymentCash, order.DiningDineIn, line("c", 100, 1)),
		{ID: "o4", Status: order.StatusPending, PaymentStatus: order.PaymentStatusPending, Total: 50, CreatedAt: now},
	}

	t.Run("day", func(t *testing.T) {
		s := Build(orders, "day", now)

		if s.OrderCount != 2 {
			t.Fatalf("orderCount = %d, want 2", s.OrderCount)
		}
		// o1 total 21, o2 total 15.75
		if s.TotalSales != 36.75 {
			t.Errorf("totalSales = %v, want 36.75", s.TotalSales)
		}
		if s.TotalTax != 1.75 {
			t.Errorf("totalTax = %v, want 1.75", s.TotalTax)
		}
		if s.PaymentMethods[order.PaymentCash] != 21 || s.PaymentMethods[order.PaymentCard] != 15.75 {
			t.Errorf("paymentMethods = %v", s.PaymentMethods)
		}
		if s.DiningModes[order.DiningDineIn] != 21 || s.DiningModes[order.DiningTakeAway] != 15.75 {
			t.Errorf("diningModes = %v", s.DiningModes)
		}
		if len(s.TopItems) != 2 {
			t.Fatalf("topItems = %d, want 2", len(s.TopItems))
		}
		if top := s.TopItems[0]; top.ID != "a" || top.Quantity != 3 || top.Revenue != 30 {
			t.Errorf("top item = %+v", top)
		}
	})

	t.Run("week", func(t *testing.T) {
		s := Build(orders, "week", now)

		if s.OrderCount != 3 {
			t.Fatalf("orderCount = %d, want 3", s.OrderCount)
		}
		if s.TopItems[0].ID != "c" {
			t.Errorf("top item = %s, want c", s.TopItems[0].ID)
		}
	})

	t.Run("empty", func(t *testing.T) {
		s := Build(nil, "month", now)

		if s.OrderCount != 0 || s.TotalSales != 0 || len(s.TopItems) != 0 {
			t.Errorf("unexpected report %+v", s)
		}
		if !s.From.Equal(now.Add(-30 * 24 * time.Hour)) {
			t.Errorf("from = %v", s.From)
		}
	})

	t.Run("unknownPaymentMethod", func(t *testing.T) {
		s := Build([]order.Order{paidOrder("o5", time.Minute, "", order.DiningDelivery, line("a", 1, 1))}, "day", now)

		if s.PaymentMethods["Unknown"] != 1.05 {
			t.Errorf("paymentMethods = %v", s.PaymentMethods)
		}
	})
}

func TestBuildTopItemsLimit(t *testing.T) {
	var items []order.OrderItem
	for _, id := range []string{"f", "e", "d", "c", "b", "a", "g"} {
		items = append(items, line(id, 2, 1))
	}
	items = append(items, line("z", 3, 1))

	s := Build([]order.Order{paidOrder("o1", time.Minute, order.PaymentCash, order.DiningDineIn, items...)}, "day", now)

	want := []string{"z", "a", "b", "c", "d"}
	if len(s.TopItems) != len(want) {
		t.Fatalf("topItems = %d, want %d", len(s.TopItems), len(want))
	}
	for i, id := range want {
		if s.TopItems[i].ID != id {
			t.Errorf("topItems[%d] = %s, want %s", i, s.TopItems[i].ID, id)
		}
	}
}

func TestExportXLSX(t *testing.T) {
	s := Build([]order.Order{
		paidOrder("o1", time.Hour, order.PaymentCash, order.DiningDineIn, line("a", 10, 2)),
	}, "day", now)

	var buf bytes.Buffer
	if err := ExportXLSX(s, &buf); err != nil {
		t.Fatalf("ExportXLSX() error = %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("cannot open exported workbook: %v", err)
	}
	defer f.Close()

	orders, err := f.GetCellValue(summarySheet, "B4")
	if err != nil {
		t.Fatalf("GetCellValue() error = %v", err)
	}
	if orders != "1" {
		t.Errorf("order count cell = %q, want 1", orders)
	}

	title, err := f.GetCellValue(topItemsSheet, "B2")
	if err != nil {
		t.Fatalf("GetCellValue() error = %v", err)
	}
	if title != "Item a" {
		t.Errorf("top item title = %q, want Item a", title)
	}
}

type mockLister struct {
	orders []order.Order
	err    error
	status string
}

func (m *mockLister) ListOrders(ctx context.Context, status string) ([]order.Order, error) {
	m.status = status
	return m.orders, m.err
}

func TestServiceSales(t *testing.T) {
	lister := &mockLister{orders: []order.Order{
		paidOrder("o1", time.Hour, order.PaymentCash, order.DiningDineIn, line("a", 10, 1)),
	}}
	svc := NewService(lister, nil)
	svc.now = func() time.Time { return now }

	s, err := svc.Sales(context.Background(), "day")
	if err != nil {
		t.Fatalf("Sales() error = %v", err)
	}
	if lister.status != order.StatusPaid {
		t.Errorf("listed status = %q, want paid", lister.status)
	}
	if s.OrderCount != 1 {
		t.Errorf("orderCount = %d, want 1", s.OrderCount)
	}

	lister.err = apperr.Store("get orders", errors.New("down"))
	if _, err := svc.Sales(context.Background(), "day"); !errors.Is(err, apperr.ErrStore) {
		t.Errorf("Sales() error = %v, want store error", err)
	}
}

func TestHandler(t *testing.T) {
	lister := &mockLister{orders: []order.Order{
		paidOrder("o1", time.Hour, order.PaymentCash, order.DiningDineIn, line("a", 10, 1)),
	}}
	svc := NewService(lister, nil)
	svc.now = func() time.Time { return now }

	r := chi.NewRouter()
	NewHandler(svc, aqm.NewConfig(), nil).RegisterRoutes(r)

	tests := []struct {
		name        string
		path        string
		fail        bool
		wantStatus  int
		contentType string
	}{
		{name: "sales", path: "/reports/sales?period=week", wantStatus: http.StatusOK},
		{name: "export", path: "/reports/sales.xlsx", wantStatus: http.StatusOK, contentType: xlsxContentType},
		{name: "storeFailure", path: "/reports/sales", fail: true, wantStatus: http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lister.err = nil
			if tt.fail {
				lister.err = apperr.Store("get orders", errors.New("down"))
			}

			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.contentType != "" && rec.Header().Get("Content-Type") != tt.contentType {
				t.Errorf("content type = %q", rec.Header().Get("Content-Type"))
			}
		})
	}
}

func TestBuildSumsInCents(t *testing.T) {
	var orders []order.Order
	for i := 0; i < 10; i++ {
		orders = append(orders, paidOrder("o", time.Minute, order.PaymentCash, order.DiningDineIn, line("a", 0.10, 1)))
	}

	s := Build(orders, "day", now)

	if s.TotalSales != 1.10 || s.TotalTax != 0.10 {
		t.Errorf("totals = %v / %v, want 1.10 / 0.10", s.TotalSales, s.TotalTax)
	}
	if s.TopItems[0].Revenue != 1.00 {
		t.Errorf("item revenue = %v, want 1.00", s.TopItems[0].Revenue)
	}
}
