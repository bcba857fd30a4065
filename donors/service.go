// ABOUTME: Donor service binding the aggregator to the contact store
// ABOUTME: Each donation change is persisted together with the refreshed giving level
package donors

import (
	"context"

	"github.com/harperreed/donorbase/contacts"
	"github.com/harperreed/donorbase/models"
)

type Service struct {
	contacts *contacts.Service
	agg      *Aggregator
}

// NewService shares the contact service's clock and logger with a new aggregator.
func NewService(cs *contacts.Service) *Service {
	agg := NewAggregator(cs.Logger())
	agg.Now = cs.Now
	return &Service{contacts: cs, agg: agg}
}

func (s *Service) Aggregator() *Aggregator {
	return s.agg
}

// RecordDonation adds a donation and reclassifies the donor in one write.
func (s *Service) RecordDonation(ctx context.Context, contactID string, d models.Donation) (models.Contact, error) {
	return s.mutateOne(ctx, contactID, func(list []models.Contact) ([]models.Contact, error) {
		next, err := s.agg.AddDonation(list, contactID, d)
		if err != nil {
			return nil, err
		}
		return s.agg.UpdateGivingLevel(next, contactID)
	})
}

func (s *Service) AcknowledgeDonation(ctx context.Context, contactID, donationID string) (models.Contact, error) {
	return s.mutateOne(ctx, contactID, func(list []models.Contact) ([]models.Contact, error) {
		return s.agg.AcknowledgeDonation(list, contactID, donationID)
	})
}

// RemoveDonation deletes a ledger entry and reclassifies the donor.
func (s *Service) RemoveDonation(ctx context.Context, contactID, donationID string) (models.Contact, error) {
	return s.mutateOne(ctx, contactID, func(list []models.Contact) ([]models.Contact, error) {
		next, err := s.agg.RemoveDonation(list, contactID, donationID)
		if err != nil {
			return nil, err
		}
		return s.agg.UpdateGivingLevel(next, contactID)
	})
}

func (s *Service) UpdateGivingLevel(ctx context.Context, contactID string) (models.Contact, error) {
	return s.mutateOne(ctx, contactID, func(list []models.Contact) ([]models.Contact, error) {
		return s.agg.UpdateGivingLevel(list, contactID)
	})
}

// UpdateAllGivingLevels reclassifies every donor and returns how many were touched.
func (s *Service) UpdateAllGivingLevels(ctx context.Context) (int, error) {
	next, err := s.contacts.Mutate(ctx, s.agg.UpdateAllGivingLevels)
	if err != nil {
		return 0, err
	}
	return len(Profiles(next)), nil
}

// Profiles returns every donor with a populated donor block.
func (s *Service) Profiles(ctx context.Context) ([]models.Contact, error) {
	list, err := s.contacts.List(ctx)
	if err != nil {
		return nil, err
	}
	return Profiles(list), nil
}

func (s *Service) Analytics(ctx context.Context) (Analytics, error) {
	profiles, err := s.Profiles(ctx)
	if err != nil {
		return Analytics{}, err
	}
	return Rollup(profiles, s.contacts.Now()), nil
}

func (s *Service) mutateOne(ctx context.Context, contactID string, op contacts.Operation) (models.Contact, error) {
	next, err := s.contacts.Mutate(ctx, op)
	if err != nil {
		return models.Contact{}, err
	}
	return contacts.Get(next, contactID)
}
