package cron

import (
	"context"
	"fmt"

	"github.com/tauheed2233/Grocery-Inventory-Management-System/internal/restock"
	"github.com/tauheed2233/Grocery-Inventory-Management-System/pkg/logger"
)

const AutoDraftJobName = "restock_auto_draft"

type autoDrafter interface {
	AutoDraft(ctx context.Context) (*restock.AutoDraftResult, error)
}

type autoDraftJob struct {
	logg    *logger.Logger
	restock autoDrafter
}

// NewAutoDraftJob builds the job that drafts restock orders for alerting products.
func NewAutoDraftJob(logg *logger.Logger, drafter autoDrafter) (Job, error) {
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	if drafter == nil {
		return nil, fmt.Errorf("restock service required")
	}
	return &autoDraftJob{logg: logg, restock: drafter}, nil
}

func (j *autoDraftJob) Name() string { return AutoDraftJobName }

func (j *autoDraftJob) Run(ctx context.Context) error {
	result, err := j.restock.AutoDraft(ctx)
	if result != nil {
		for _, order := range result.Orders {
			orderCtx := j.logg.WithFields(j.logg.WithOrderID(ctx, order.ID.String()), map[string]any{
				"order_number": order.OrderNumber,
				"items":        len(order.Items),
			})
			j.logg.Info(orderCtx, "restock draft created")
		}
		if len(result.Skipped) > 0 {
			j.logg.Debug(j.logg.WithField(ctx, "skipped", len(result.Skipped)), "products skipped by auto draft")
		}
	}
	return err
}
