package genesis

import (
	"fmt"

	"github.com/isrealmodric1-hub/Tokenized-Mutual-Aid-for-Volunteer-Care-Hours/core/events"
	"github.com/isrealmodric1-hub/Tokenized-Mutual-Aid-for-Volunteer-Care-Hours/core/state"
	"github.com/isrealmodric1-hub/Tokenized-Mutual-Aid-for-Volunteer-Care-Hours/native/bank"
	"github.com/isrealmodric1-hub/Tokenized-Mutual-Aid-for-Volunteer-Care-Hours/native/booking"
	"github.com/isrealmodric1-hub/Tokenized-Mutual-Aid-for-Volunteer-Care-Hours/native/catalog"
	"github.com/isrealmodric1-hub/Tokenized-Mutual-Aid-for-Volunteer-Care-Hours/native/reputation"
	"github.com/isrealmodric1-hub/Tokenized-Mutual-Aid-for-Volunteer-Care-Hours/native/verification"
)

// Apply writes the genesis state through manager. Seeding is deterministic:
// allocations are minted in address order and listings keep file order.
func (s *Spec) Apply(manager *state.Manager, emitter events.Emitter) error {
	if s == nil {
		return fmt.Errorf("genesis: spec must not be nil")
	}
	if manager == nil {
		return fmt.Errorf("genesis: state manager must not be nil")
	}
	if err := s.Validate(); err != nil {
		return err
	}

	if err := manager.SetModuleAdmin(booking.ModuleName, s.bookingAdmin); err != nil {
		return fmt.Errorf("genesis: booking admin: %w", err)
	}
	if err := manager.SetModuleAdmin(verification.ModuleName, s.verificationAdmin); err != nil {
		return fmt.Errorf("genesis: verification admin: %w", err)
	}

	ledger := bank.NewLedger()
	ledger.SetState(manager)
	ledger.SetEmitter(emitter)
	for _, alloc := range s.alloc {
		if err := ledger.Mint(alloc.account, alloc.amount); err != nil {
			return fmt.Errorf("genesis: mint: %w", err)
		}
	}

	profiles := reputation.NewLedger(manager)
	profiles.SetEmitter(emitter)
	for _, account := range s.profiles {
		if _, err := profiles.Register(account); err != nil {
			return fmt.Errorf("genesis: register profile: %w", err)
		}
	}

	listings := catalog.NewEngine()
	listings.SetState(manager)
	listings.SetEmitter(emitter)
	for i, offer := range s.Offers {
		if _, err := listings.CreateOffer(offer.owner, offer.Title, offer.Hours); err != nil {
			return fmt.Errorf("genesis: offer %d: %w", i, err)
		}
	}
	for i, request := range s.Requests {
		if _, err := listings.CreateRequest(request.owner, request.Title, request.Hours); err != nil {
			return fmt.Errorf("genesis: request %d: %w", i, err)
		}
	}
	return nil
}
