package service

import (
	"alcyxob/trainer-desk/internal/billing"
	"alcyxob/trainer-desk/internal/calendar"
	"alcyxob/trainer-desk/internal/domain"
	"alcyxob/trainer-desk/internal/notify"
	"alcyxob/trainer-desk/internal/observability"
	"alcyxob/trainer-desk/internal/repository"
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

const reminderRunTimeout = 5 * time.Minute

// DuesDigest lists the clients a trainer should follow up with.
type DuesDigest struct {
	Unpaid   []billing.PendingClient
	Expiring []ExpiringClient
}

// ExpiringClient is a paid client whose cycle ends soon.
type ExpiringClient struct {
	Name          string
	ExpiresOn     time.Time
	DaysRemaining int
}

// Empty reports whether there is nothing to send.
func (d DuesDigest) Empty() bool {
	return len(d.Unpaid) == 0 && len(d.Expiring) == 0
}

// ReminderService emails each trainer a digest of outstanding dues.
type ReminderService struct {
	userRepo     repository.UserRepository
	clientRepo   repository.ClientRepository
	paymentRepo  repository.PaymentRepository
	mailer       notify.Mailer
	expiringDays int
	now          Clock
	log          *logrus.Logger
}

// NewReminderService creates the dues reminder job.
func NewReminderService(
	userRepo repository.UserRepository,
	clientRepo repository.ClientRepository,
	paymentRepo repository.PaymentRepository,
	mailer notify.Mailer,
	expiringDays int,
	now Clock,
	log *logrus.Logger,
) *ReminderService {
	return &ReminderService{
		userRepo:     userRepo,
		clientRepo:   clientRepo,
		paymentRepo:  paymentRepo,
		mailer:       mailer,
		expiringDays: expiringDays,
		now:          now,
		log:          log,
	}
}

// Schedule registers the job on a new cron scheduler running in the
// trainer's timezone. The caller starts and stops it.
func (s *ReminderService) Schedule(spec string) (*cron.Cron, error) {
	c := cron.New(cron.WithLocation(s.now().Location()))
	_, err := c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), reminderRunTimeout)
		defer cancel()
		if _, err := s.RunOnce(ctx); err != nil {
			s.log.WithError(err).Error("Dues reminder run failed")
		}
	})
	if err != nil {
		return nil, fmt.Errorf("reminder schedule %q: %w", spec, err)
	}
	return c, nil
}

// RunOnce sends one digest per trainer with something outstanding and
// returns how many were sent. A failed send is logged and the run continues.
func (s *ReminderService) RunOnce(ctx context.Context) (int, error) {
	now := s.now()
	users, err := s.userRepo.List(ctx)
	if err != nil {
		observability.RecordReminderRun("failed", time.Time{})
		return 0, err
	}

	sent := 0
	for _, user := range users {
		digest, err := s.digestFor(ctx, user, now)
		if err != nil {
			s.log.WithError(err).WithField("userId", user.ID.Hex()).Error("Failed to build dues digest")
			continue
		}
		if digest.Empty() {
			continue
		}
		msg := notify.Message{
			To:      user.Email,
			Subject: fmt.Sprintf("Dues summary for %s", calendar.FormatDate(now)),
			Body:    RenderDigest(user.Name, digest),
		}
		if err := s.mailer.Send(ctx, msg); err != nil {
			s.log.WithError(err).WithField("userId", user.ID.Hex()).Warn("Failed to send dues digest")
			continue
		}
		sent++
	}

	observability.RecordReminderRun("ok", now)
	s.log.WithFields(logrus.Fields{"trainers": len(users), "sent": sent}).Info("Dues reminder run finished")
	return sent, nil
}

func (s *ReminderService) digestFor(ctx context.Context, user domain.User, now time.Time) (DuesDigest, error) {
	ledgers, err := loadLedgers(ctx, s.clientRepo, s.paymentRepo, user.ID)
	if err != nil {
		return DuesDigest{}, err
	}
	summary, err := billing.Summarize(ledgers, now)
	if err != nil {
		return DuesDigest{}, err
	}

	digest := DuesDigest{Unpaid: summary.Pending}
	for _, ledger := range ledgers {
		if !ledger.Client.IsActive {
			continue
		}
		info, err := billing.CurrentStatus(ledger.Client, ledger.Payments, now)
		if err != nil {
			return DuesDigest{}, err
		}
		if info.Status != billing.StatusPaid || info.DaysRemaining == nil {
			continue
		}
		if *info.DaysRemaining <= s.expiringDays {
			digest.Expiring = append(digest.Expiring, ExpiringClient{
				Name:          ledger.Client.Name,
				ExpiresOn:     info.Cycle.End,
				DaysRemaining: *info.DaysRemaining,
			})
		}
	}
	sort.Slice(digest.Expiring, func(i, j int) bool {
		a, b := digest.Expiring[i], digest.Expiring[j]
		if a.DaysRemaining != b.DaysRemaining {
			return a.DaysRemaining < b.DaysRemaining
		}
		return a.Name < b.Name
	})
	return digest, nil
}

// RenderDigest formats a digest as a plain-text email body.
func RenderDigest(trainerName string, d DuesDigest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Hi %s,\n\n", trainerName)
	if len(d.Unpaid) > 0 {
		b.WriteString("Not fully paid this cycle:\n")
		for _, p := range d.Unpaid {
			fmt.Fprintf(&b, "  - %s: %s of %s paid, %s due (cycle %s to %s)\n",
				p.Name, p.TotalPaid.StringFixed(2), p.MonthlyFee.StringFixed(2), p.RemainingBalance.StringFixed(2),
				calendar.FormatDate(p.Cycle.Start), calendar.FormatDate(p.Cycle.End))
		}
		b.WriteString("\n")
	}
	if len(d.Expiring) > 0 {
		b.WriteString("Paid cycles ending soon:\n")
		for _, e := range d.Expiring {
			fmt.Fprintf(&b, "  - %s: ends %s (%d days left)\n", e.Name, calendar.FormatDate(e.ExpiresOn), e.DaysRemaining)
		}
		b.WriteString("\n")
	}
	b.WriteString("Trainer Desk")
	return b.String()
}
