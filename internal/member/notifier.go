package member

import (
	"context"
	"time"

	"gymbill/internal/gym"
	"gymbill/internal/logger"

	"github.com/jmoiron/sqlx"
)

// ExpirySender queues the membership-expiring notification. Satisfied by
// email.Service.
type ExpirySender interface {
	SendMembershipExpiring(ctx context.Context, to, memberName string, endDate time.Time) error
}

// ExpiryNotifier sweeps every gym once a day and queues one reminder email
// per member whose membership ends within ExpiringSoonWindow.
type ExpiryNotifier struct {
	gyms     gym.Repository
	members  Repository
	sender   ExpirySender
	interval time.Duration
}

func NewExpiryNotifier(db *sqlx.DB, sender ExpirySender) *ExpiryNotifier {
	return &ExpiryNotifier{
		gyms:     gym.NewRepository(db),
		members:  NewRepository(db),
		sender:   sender,
		interval: 24 * time.Hour,
	}
}

func (n *ExpiryNotifier) Start(ctx context.Context) {
	logger.Info("Membership expiry notifier started")

	ticker := time.NewTicker(n.interval)
	defer ticker.Stop()

	n.notifyExpiring(ctx, time.Now())
	for {
		select {
		case <-ctx.Done():
			logger.Info("Membership expiry notifier stopped")
			return
		case <-ticker.C:
			n.notifyExpiring(ctx, time.Now())
		}
	}
}

// notifyExpiring runs one sweep and returns the number of emails queued.
// A failing gym or member is logged and skipped so one tenant's problem
// does not block the others.
func (n *ExpiryNotifier) notifyExpiring(ctx context.Context, now time.Time) int {
	gyms, err := n.gyms.GetAllGyms(ctx)
	if err != nil {
		logger.Errorf("Failed to load gyms for expiry sweep: %v", err)
		return 0
	}

	sent := 0
	for _, g := range gyms {
		expiring, err := n.members.ListExpiring(ctx, g.ID, now, ExpiringSoonWindow)
		if err != nil {
			logger.Errorf("Failed to list expiring members for gym %d: %v", g.ID, err)
			continue
		}
		for _, m := range expiring {
			if m.MembershipEndDate == nil {
				continue
			}
			if err := n.sender.SendMembershipExpiring(ctx, m.Email, m.Name, *m.MembershipEndDate); err != nil {
				logger.Errorf("Failed to queue expiry email for member %d: %v", m.ID, err)
				continue
			}
			sent++
		}
	}

	if sent > 0 {
		logger.Infof("Queued %d membership expiry emails", sent)
	}
	return sent
}
