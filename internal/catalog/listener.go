package catalog

import (
	"context"

	"github.com/prudentjag/inventory-pos/domain"
)

// InvalidationListener drops the cached catalog once a payment lands; the
// backend has decremented stock by then and cached views are stale.
type InvalidationListener struct {
	svc    *Service
	unitID int64
}

func NewInvalidationListener(svc *Service, unitID int64) *InvalidationListener {
	return &InvalidationListener{svc: svc, unitID: unitID}
}

func (l *InvalidationListener) PaymentConfirmed(_ context.Context, _ domain.Sale) {
	l.svc.Invalidate(l.unitID)
}

func (l *InvalidationListener) PaymentFailed(context.Context, domain.Sale) {}

func (l *InvalidationListener) PaymentUnresolved(context.Context, domain.Sale) {}
