package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/tauheed2233/Grocery-Inventory-Management-System/api/responses"
	"github.com/tauheed2233/Grocery-Inventory-Management-System/api/validators"
	"github.com/tauheed2233/Grocery-Inventory-Management-System/internal/alerts"
	"github.com/tauheed2233/Grocery-Inventory-Management-System/internal/reports"
	"github.com/tauheed2233/Grocery-Inventory-Management-System/pkg/db/models"
	"github.com/tauheed2233/Grocery-Inventory-Management-System/pkg/enums"
	"github.com/tauheed2233/Grocery-Inventory-Management-System/pkg/logger"
	"github.com/tauheed2233/Grocery-Inventory-Management-System/pkg/money"
)

const (
	defaultAlertLimit = 100
	maxAlertLimit     = 500
)

// AlertLister reads stored alerts; nil status lists all of them.
type AlertLister interface {
	List(ctx context.Context, status *enums.AlertStatus) ([]models.StockAlert, error)
}

// SuggestionSource proposes restock quantities for alerting products.
type SuggestionSource interface {
	Suggestions(ctx context.Context) ([]alerts.Suggestion, error)
}

type summaryResponse struct {
	ActiveProducts int    `json:"active_products"`
	Units          int    `json:"units"`
	LowStock       int    `json:"low_stock"`
	OutOfStock     int    `json:"out_of_stock"`
	Overstocked    int    `json:"overstocked"`
	OpenOrders     int    `json:"open_orders"`
	OpenOrderValue string `json:"open_order_value"`
	RetailValue    string `json:"retail_value"`
	CostValue      string `json:"cost_value"`
	Margin         string `json:"margin"`
}

type alertResponse struct {
	ID             string     `json:"id"`
	ProductID      string     `json:"product_id"`
	Level          string     `json:"level"`
	Status         string     `json:"status"`
	Quantity       int        `json:"quantity"`
	Threshold      int        `json:"threshold"`
	Message        string     `json:"message"`
	CreatedAt      time.Time  `json:"created_at"`
	AcknowledgedAt *time.Time `json:"acknowledged_at,omitempty"`
	ResolvedAt     *time.Time `json:"resolved_at,omitempty"`
}

type suggestionResponse struct {
	ProductID         string `json:"product_id"`
	SKU               string `json:"sku"`
	SupplierID        string `json:"supplier_id"`
	Level             string `json:"level"`
	Urgency           string `json:"urgency"`
	Quantity          int    `json:"quantity"`
	Shortage          int    `json:"shortage"`
	SuggestedQuantity int    `json:"suggested_quantity"`
	EstimatedCost     string `json:"estimated_cost"`
}

func InventorySummary(svc reports.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, err := svc.Summary(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, summaryResponse{
			ActiveProducts: s.ActiveProducts,
			Units:          s.Units,
			LowStock:       s.LowStock,
			OutOfStock:     s.OutOfStock,
			Overstocked:    s.Overstocked,
			OpenOrders:     s.OpenOrders,
			OpenOrderValue: money.FromCents(s.OpenOrderCents).StringFixed(2),
			RetailValue:    money.FromCents(s.Valuation.RetailCents).StringFixed(2),
			CostValue:      money.FromCents(s.Valuation.CostCents).StringFixed(2),
			Margin:         s.Valuation.Margin.StringFixed(4),
		})
	}
}

// ListAlerts accepts optional ?status= and ?limit= filters.
func ListAlerts(svc AlertLister, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		filter, err := validators.ParseAlertStatus(r, "status")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		limit, err := validators.ParseQueryInt(r, "limit", defaultAlertLimit, 1, maxAlertLimit)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		rows, err := svc.List(ctx, filter)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		if len(rows) > limit {
			rows = rows[:limit]
		}
		out := make([]alertResponse, 0, len(rows))
		for _, a := range rows {
			out = append(out, alertResponse{
				ID:             a.ID.String(),
				ProductID:      a.ProductID.String(),
				Level:          string(a.Level),
				Status:         string(a.Status),
				Quantity:       a.Quantity,
				Threshold:      a.Threshold,
				Message:        a.Message,
				CreatedAt:      a.CreatedAt,
				AcknowledgedAt: a.AcknowledgedAt,
				ResolvedAt:     a.ResolvedAt,
			})
		}
		responses.WriteSuccess(w, out)
	}
}

func ListSuggestions(svc SuggestionSource, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		suggestions, err := svc.Suggestions(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		out := make([]suggestionResponse, 0, len(suggestions))
		for _, s := range suggestions {
			out = append(out, suggestionResponse{
				ProductID:         s.Product.ID.String(),
				SKU:               s.Product.SKU,
				SupplierID:        s.SupplierID.String(),
				Level:             string(s.Level),
				Urgency:           string(s.Urgency),
				Quantity:          s.Product.Quantity,
				Shortage:          s.Shortage,
				SuggestedQuantity: s.SuggestedQuantity,
				EstimatedCost:     money.FromCents(s.EstimatedCostCents).StringFixed(2),
			})
		}
		responses.WriteSuccess(w, out)
	}
}
