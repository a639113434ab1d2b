package cronjob

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"golang.org/x/time/rate"

	"github.com/skyphotography/wedding-portal-backend/internal/domain"
	"github.com/skyphotography/wedding-portal-backend/internal/notify"
	"github.com/skyphotography/wedding-portal-backend/internal/platform/logger"
)

// Store is the slice of the persistence gateway the dispatcher reads and writes.
type Store interface {
	DueScheduledEmails(ctx context.Context, now time.Time) ([]domain.ScheduledEmail, error)
	MarkScheduledEmailSent(ctx context.Context, id string, sentAt time.Time) error
	GetEmailTemplate(ctx context.Context, id string) (*domain.EmailTemplate, error)
	GetClient(ctx context.Context, id string) (*domain.Client, error)
}

type Options struct {
	Spec          string
	RatePerSecond int
	Branding      notify.Branding
}

// Dispatcher sends scheduled emails once they fall due.
type Dispatcher struct {
	store   Store
	mailer  notify.Mailer
	limiter *rate.Limiter
	brand   notify.Branding
	spec    string
	now     func() time.Time
	cron    *cron.Cron
	log     *logger.Logger

	// recipients already mailed per scheduled email id, kept until the email is marked sent
	mu        sync.Mutex
	delivered map[string]map[string]struct{}
}

func NewDispatcher(store Store, mailer notify.Mailer, opts Options) *Dispatcher {
	if opts.Spec == "" {
		opts.Spec = "0 * * * * *"
	}
	if opts.RatePerSecond <= 0 {
		opts.RatePerSecond = 5
	}
	return &Dispatcher{
		store:   store,
		mailer:  mailer,
		limiter: rate.NewLimiter(rate.Limit(opts.RatePerSecond), opts.RatePerSecond),
		brand:   opts.Branding,
		spec:    opts.Spec,
		now:     time.Now,
		log:     logger.Background("email-dispatcher"),

		delivered: make(map[string]map[string]struct{}),
	}
}

// Start registers the dispatch job and starts the cron runner.
func (d *Dispatcher) Start() error {
	c := cron.New(cron.WithSeconds())
	_, err := c.AddFunc(d.spec, func() {
		if _, err := d.RunOnce(context.Background()); err != nil {
			d.log.LogError("dispatch", err)
		}
	})
	if err != nil {
		return fmt.Errorf("register dispatch job %q: %w", d.spec, err)
	}
	d.cron = c
	c.Start()
	d.log.LogInfof("start", "spec=%q", d.spec)
	return nil
}

// Stop waits for a running dispatch to finish.
func (d *Dispatcher) Stop() {
	if d.cron == nil {
		return
	}
	<-d.cron.Stop().Done()
}

// RunOnce sends every due email and returns how many were marked sent.
// An email with a transient recipient failure stays scheduled and the next run
// mails only the recipients not yet reached. Recipients that no longer exist are
// skipped for good.
func (d *Dispatcher) RunOnce(ctx context.Context) (int, error) {
	now := d.now()
	due, err := d.store.DueScheduledEmails(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("load due emails: %w", err)
	}

	sent := 0
	for _, email := range due {
		if err := d.deliver(ctx, email); err != nil {
			d.log.LogErrorf("dispatch", "email_id=%s error=%v", email.ID, err)
			continue
		}
		if err := d.store.MarkScheduledEmailSent(ctx, email.ID, d.now()); err != nil {
			d.log.LogErrorf("dispatch", "email_id=%s mark sent: %v", email.ID, err)
			continue
		}
		d.forget(email.ID)
		sent++
	}
	if len(due) > 0 {
		d.log.LogInfof("dispatch", "due=%d sent=%d", len(due), sent)
	}
	return sent, nil
}

func (d *Dispatcher) deliver(ctx context.Context, email domain.ScheduledEmail) error {
	tmpl, err := d.store.GetEmailTemplate(ctx, email.TemplateID)
	if err != nil {
		return fmt.Errorf("template %s: %w", email.TemplateID, err)
	}

	var failed int
	for _, clientID := range email.ClientIDs {
		if d.wasDelivered(email.ID, clientID) {
			continue
		}
		client, err := d.store.GetClient(ctx, clientID)
		if domain.IsNotFound(err) {
			d.log.LogWarnf("dispatch", "email_id=%s client_id=%s no longer exists, skipped", email.ID, clientID)
			continue
		}
		if err != nil {
			d.log.LogWarnf("dispatch", "email_id=%s client_id=%s lookup failed: %v", email.ID, clientID, err)
			failed++
			continue
		}

		data := domain.FieldMap{}
		if client.Form != nil {
			data = client.Form.FormData
		}
		msg := notify.Message{
			To:      client.Email,
			Subject: notify.Merge(tmpl.Subject, data, d.brand),
			Body:    notify.Merge(tmpl.Template, data, d.brand),
		}

		if err := d.limiter.Wait(ctx); err != nil {
			return err
		}
		if err := d.mailer.Send(ctx, msg); err != nil {
			d.log.LogWarnf("dispatch", "email_id=%s client_id=%s send failed: %v", email.ID, clientID, err)
			failed++
			continue
		}
		d.markDelivered(email.ID, clientID)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d recipients failed", failed, len(email.ClientIDs))
	}
	return nil
}

func (d *Dispatcher) wasDelivered(emailID, clientID string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, ok := d.delivered[emailID][clientID]
	return ok
}

func (d *Dispatcher) markDelivered(emailID, clientID string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.delivered[emailID] == nil {
		d.delivered[emailID] = make(map[string]struct{})
	}
	d.delivered[emailID][clientID] = struct{}{}
}

func (d *Dispatcher) forget(emailID string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.delivered, emailID)
}
