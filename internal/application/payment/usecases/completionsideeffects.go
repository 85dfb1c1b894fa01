package usecases

import (
	"context"

	"lastbite/internal/domain/payment"
	"lastbite/internal/domain/reservation"
	"lastbite/internal/shared/logger"
)

// SettlementFolder folds a completed payment into its monthly settlement.
type SettlementFolder interface {
	Execute(ctx context.Context, paymentID uint) error
}

// completionSideEffects runs phase two of payment completion: reservation
// creation and the settlement fold. Both are best effort; a failure never
// rolls back the completed payment, it only leaves a retry marker that the
// scheduler picks up.
type completionSideEffects struct {
	paymentRepo     payment.Repository
	reservationRepo reservation.Repository
	folder          SettlementFolder
	logger          logger.Interface
}

func newCompletionSideEffects(
	paymentRepo payment.Repository,
	reservationRepo reservation.Repository,
	folder SettlementFolder,
	logger logger.Interface,
) *completionSideEffects {
	return &completionSideEffects{
		paymentRepo:     paymentRepo,
		reservationRepo: reservationRepo,
		folder:          folder,
		logger:          logger,
	}
}

// Run executes both side effects and returns the reservation ID when one
// exists. It never returns an error.
func (s *completionSideEffects) Run(ctx context.Context, p *payment.Payment) *uint {
	reservationID := s.ensureReservation(ctx, p)
	s.ensureSettlementFold(ctx, p)
	return reservationID
}

func (s *completionSideEffects) ensureReservation(ctx context.Context, p *payment.Payment) *uint {
	if p.ReservationID() != nil {
		return p.ReservationID()
	}

	rsv, err := reservation.NewReservation(p.ID(), p.OfferID(), p.BuyerID(), p.Metadata().PickupAt)
	if err == nil {
		err = s.reservationRepo.Create(ctx, rsv)
	}
	if err != nil {
		s.logger.Errorw("reservation creation failed, marking for retry",
			"error", err, "payment_id", p.ID())
		p.MarkReservationPending()
		if updErr := s.paymentRepo.Update(ctx, p); updErr != nil {
			s.logger.Errorw("failed to persist reservation retry marker",
				"error", updErr, "payment_id", p.ID())
		}
		return nil
	}

	if err := p.AttachReservation(rsv.ID()); err != nil {
		s.logger.Errorw("failed to attach reservation", "error", err, "payment_id", p.ID())
		return p.ReservationID()
	}
	if err := s.paymentRepo.Update(ctx, p); err != nil {
		s.logger.Errorw("failed to persist reservation link", "error", err, "payment_id", p.ID())
	}
	return p.ReservationID()
}

func (s *completionSideEffects) ensureSettlementFold(ctx context.Context, p *payment.Payment) {
	if p.SettlementID() != nil {
		return
	}

	if err := s.folder.Execute(ctx, p.ID()); err != nil {
		s.logger.Errorw("settlement fold failed, marking for retry",
			"error", err, "payment_id", p.ID())
		p.MarkSettlementPending()
		if updErr := s.paymentRepo.Update(ctx, p); updErr != nil {
			s.logger.Errorw("failed to persist settlement retry marker",
				"error", updErr, "payment_id", p.ID())
		}
	}
}
