package usecase

import (
	"fmt"
	"log"
	"time"

	crmdomain "salescrm-backend/internal/crm/domain"
	"salescrm-backend/internal/crm/repository"
	mailboxdomain "salescrm-backend/internal/mailbox/domain"
)

const (
	dealNotesBodyLimit    = 1000
	activityBodyLimit     = 500
	followUpReminderDelay = 24 * time.Hour
)

// Projector turns an inbound message into CRM entities. Ordering contract:
// contact resolution before deal resolution (the deal needs a contact id),
// activity logging after both.
type Projector struct {
	contactRepo  repository.ContactRepository
	dealRepo     repository.DealRepository
	activityRepo repository.ActivityRepository
}

// NewProjector creates a new instance of Projector
func NewProjector(contactRepo repository.ContactRepository, dealRepo repository.DealRepository, activityRepo repository.ActivityRepository) *Projector {
	return &Projector{
		contactRepo:  contactRepo,
		dealRepo:     dealRepo,
		activityRepo: activityRepo,
	}
}

// ResolveContact finds a contact by email (case-insensitive) or creates one
// tagged with its inbound-email origin.
func (p *Projector) ResolveContact(msg *mailboxdomain.InboundMessage) (*crmdomain.Contact, error) {
	contact, err := p.contactRepo.FindByEmail(msg.FromEmail)
	if err != nil {
		return nil, err
	}
	if contact != nil {
		return contact, nil
	}

	contact = &crmdomain.Contact{
		Email:  msg.FromEmail,
		Name:   msg.FromName,
		Source: crmdomain.LeadSourceInboundEmail,
		Notes:  fmt.Sprintf("Auto-created from inbound email: %q", msg.Subject),
	}
	if err := p.contactRepo.Create(contact); err != nil {
		return nil, err
	}

	log.Printf("[CRM] Created contact %s (%s)", contact.Name, contact.Email)
	return contact, nil
}

// ResolveOrCreateDeal returns the contact's existing deal when one exists;
// subsequent messages from a known contact never spawn a second deal.
func (p *Projector) ResolveOrCreateDeal(contact *crmdomain.Contact, account *mailboxdomain.MailboxAccount, msg *mailboxdomain.InboundMessage) (*crmdomain.Deal, error) {
	deal, err := p.dealRepo.FindFirstByContact(contact.ID)
	if err != nil {
		return nil, err
	}
	if deal != nil {
		return deal, nil
	}

	followUp := msg.ReceivedAt.Add(followUpReminderDelay)
	deal = &crmdomain.Deal{
		ContactID:      contact.ID,
		AccountID:      account.ID,
		Title:          fmt.Sprintf("%s (%s)", contact.Name, contact.Email),
		Stage:          crmdomain.StageNew,
		Probability:    crmdomain.DefaultProbability,
		LeadSource:     crmdomain.LeadSourceInboundEmail,
		Notes:          fmt.Sprintf("Received via %s.\n\n%s", account.Name, truncate(msg.Body, dealNotesBodyLimit)),
		NextFollowUpAt: &followUp,
	}
	if err := p.dealRepo.Create(deal); err != nil {
		return nil, err
	}

	log.Printf("[CRM] Created deal %q for contact %s", deal.Title, contact.Email)
	return deal, nil
}

// LogActivity appends one audit entry for the inbound message.
func (p *Projector) LogActivity(deal *crmdomain.Deal, contact *crmdomain.Contact, msg *mailboxdomain.InboundMessage) error {
	activity := &crmdomain.Activity{
		DealID:      deal.ID,
		ContactID:   contact.ID,
		Type:        crmdomain.ActivityTypeEmailReceived,
		Subject:     msg.Subject,
		Body:        truncate(msg.Body, activityBodyLimit),
		Outcome:     crmdomain.ActivityOutcomeCompleted,
		CompletedAt: msg.ReceivedAt,
	}
	return p.activityRepo.Create(activity)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
