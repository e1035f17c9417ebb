package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"gatherly/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeEventRepo is an in-memory EventRepository for tests.
type fakeEventRepo struct {
	byID   map[string]*domain.Event
	nextID int
	err    error // if set, Create returns this error
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{
		byID:   make(map[string]*domain.Event),
		nextID: 1,
	}
}

func (f *fakeEventRepo) Create(ctx context.Context, e *domain.Event) error {
	if f.err != nil {
		return f.err
	}
	e.ID = fmt.Sprintf("ev-%d", f.nextID)
	f.nextID++
	f.byID[e.ID] = e
	return nil
}

func (f *fakeEventRepo) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	if e, ok := f.byID[id]; ok {
		return e, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeEventRepo) ListVisible(ctx context.Context, userID string) ([]*domain.Event, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []*domain.Event
	for _, e := range f.byID {
		switch {
		case e.Privacy == domain.PrivacyPublic:
			out = append(out, e)
		case userID != "" && (e.Privacy == domain.PrivacySemiPrivate || e.HostID == userID):
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeEventRepo) Update(ctx context.Context, eventID string, title, description, location *string, date *time.Time, capacity *int, privacy *string) (*domain.Event, error) {
	e, ok := f.byID[eventID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if title != nil {
		e.Title = *title
	}
	if description != nil {
		e.Description = *description
	}
	if location != nil {
		e.Location = *location
	}
	if date != nil {
		e.Date = *date
	}
	if capacity != nil {
		e.Capacity = capacity
	}
	if privacy != nil {
		e.Privacy = *privacy
	}
	return e, nil
}

func (f *fakeEventRepo) Delete(ctx context.Context, id string) error {
	if _, ok := f.byID[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

func (f *fakeEventRepo) ListByDateBetween(ctx context.Context, from, to time.Time) ([]*domain.Event, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []*domain.Event
	for _, e := range f.byID {
		if e.Date.After(from) && !e.Date.After(to) {
			out = append(out, e)
		}
	}
	return out, nil
}

// fakeRSVPRepo is an in-memory RSVPRepository for tests.
type fakeRSVPRepo struct {
	byID      map[string]*domain.RSVP
	nextID    int
	createErr error
	getErr    error
	listErr   error
	updateErr error
}

func newFakeRSVPRepo() *fakeRSVPRepo {
	return &fakeRSVPRepo{
		byID:   make(map[string]*domain.RSVP),
		nextID: 1,
	}
}

func (f *fakeRSVPRepo) Create(ctx context.Context, r *domain.RSVP) error {
	if f.createErr != nil {
		return f.createErr
	}
	for _, existing := range f.byID {
		if existing.EventID == r.EventID && existing.UserID == r.UserID {
			return domain.ErrConflict
		}
	}
	r.ID = fmt.Sprintf("rsvp-%d", f.nextID)
	f.nextID++
	f.byID[r.ID] = r
	return nil
}

func (f *fakeRSVPRepo) GetByID(ctx context.Context, id string) (*domain.RSVP, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	if r, ok := f.byID[id]; ok {
		return r, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeRSVPRepo) GetByEventAndUser(ctx context.Context, eventID, userID string) (*domain.RSVP, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	for _, r := range f.byID {
		if r.EventID == eventID && r.UserID == userID {
			return r, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeRSVPRepo) ListByEventID(ctx context.Context, eventID string) ([]*domain.RSVP, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []*domain.RSVP
	for _, r := range f.byID {
		if r.EventID == eventID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeRSVPRepo) ListApprovedByEventID(ctx context.Context, eventID string) ([]*domain.RSVP, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []*domain.RSVP
	for _, r := range f.byID {
		if r.EventID == eventID && r.IsApproved {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeRSVPRepo) ListApprovedYesByEventID(ctx context.Context, eventID string) ([]*domain.RSVP, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []*domain.RSVP
	for _, r := range f.byID {
		if r.EventID == eventID && r.IsApproved && r.Status == domain.RSVPStatusYes {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeRSVPRepo) CountYesWeighted(ctx context.Context, eventID string) (int, error) {
	if f.listErr != nil {
		return 0, f.listErr
	}
	total := 0
	for _, r := range f.byID {
		if r.EventID == eventID && r.Status == domain.RSVPStatusYes {
			total += r.PlusOnes + 1
		}
	}
	return total, nil
}

func (f *fakeRSVPRepo) Update(ctx context.Context, rsvpID string, status *string, plusOnes *int) (*domain.RSVP, error) {
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	r, ok := f.byID[rsvpID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if status != nil {
		r.Status = *status
	}
	if plusOnes != nil {
		r.PlusOnes = *plusOnes
	}
	return r, nil
}

func (f *fakeRSVPRepo) SetApproved(ctx context.Context, rsvpID string, approved bool) (*domain.RSVP, error) {
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	r, ok := f.byID[rsvpID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	r.IsApproved = approved
	return r, nil
}

// fakePaymentRepo is an in-memory PaymentRepository for tests.
type fakePaymentRepo struct {
	byID      map[string]*domain.Payment
	nextID    int
	createErr error
	lookupErr error
}

func newFakePaymentRepo() *fakePaymentRepo {
	return &fakePaymentRepo{
		byID:   make(map[string]*domain.Payment),
		nextID: 1,
	}
}

func (f *fakePaymentRepo) Create(ctx context.Context, p *domain.Payment) error {
	if f.createErr != nil {
		return f.createErr
	}
	// Mirrors the partial unique index on confirmed payments.
	if p.ManuallyConfirmed {
		for _, other := range f.byID {
			if other.EventID == p.EventID && other.UserID == p.UserID && other.ManuallyConfirmed {
				return domain.ErrConflict
			}
		}
	}
	p.ID = fmt.Sprintf("pay-%d", f.nextID)
	f.nextID++
	f.byID[p.ID] = p
	return nil
}

func (f *fakePaymentRepo) GetByID(ctx context.Context, id string) (*domain.Payment, error) {
	if p, ok := f.byID[id]; ok {
		return p, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakePaymentRepo) GetByEventAndUserWithStatuses(ctx context.Context, eventID, userID string, statuses []string) (*domain.Payment, error) {
	if f.lookupErr != nil {
		return nil, f.lookupErr
	}
	for _, p := range f.byID {
		if p.EventID != eventID || p.UserID != userID {
			continue
		}
		for _, s := range statuses {
			if p.Status == s {
				return p, nil
			}
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakePaymentRepo) GetLinkRecord(ctx context.Context, eventID, hostID string) (*domain.Payment, error) {
	for _, p := range f.byID {
		if p.EventID == eventID && p.UserID == hostID && p.PaymentLink != nil {
			return p, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakePaymentRepo) MarkConfirmed(ctx context.Context, paymentID, confirmedBy string, notes *string) (*domain.Payment, error) {
	p, ok := f.byID[paymentID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	p.Status = domain.PaymentStatusPaid
	p.ManuallyConfirmed = true
	p.ConfirmedBy = &confirmedBy
	p.ConfirmationNotes = notes
	return p, nil
}

func (f *fakePaymentRepo) UpdateStatus(ctx context.Context, paymentID, status string, notes *string) (*domain.Payment, error) {
	p, ok := f.byID[paymentID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	p.Status = status
	if notes != nil {
		p.ConfirmationNotes = notes
	}
	return p, nil
}

func (f *fakePaymentRepo) CountConfirmed(ctx context.Context, eventID string) (int, error) {
	count := 0
	for _, p := range f.byID {
		if p.EventID == eventID && p.Status == domain.PaymentStatusPaid && p.ManuallyConfirmed {
			count++
		}
	}
	return count, nil
}

func (f *fakePaymentRepo) CountByEventAndStatus(ctx context.Context, eventID, status string) (int, error) {
	count := 0
	for _, p := range f.byID {
		if p.EventID == eventID && p.Status == status {
			count++
		}
	}
	return count, nil
}

func (f *fakePaymentRepo) HasPaid(ctx context.Context, eventID, userID string) (bool, error) {
	for _, p := range f.byID {
		if p.EventID == eventID && p.UserID == userID && p.Status == domain.PaymentStatusPaid {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakePaymentRepo) HasAnyForEvent(ctx context.Context, eventID, userID string) (bool, error) {
	for _, p := range f.byID {
		if p.EventID == eventID && p.UserID == userID {
			return true, nil
		}
	}
	return false, nil
}

// fakeNotificationRepo is an in-memory NotificationRepository for tests.
type fakeNotificationRepo struct {
	rows      []*domain.Notification
	nextID    int
	createErr error
	listErr   error
}

func newFakeNotificationRepo() *fakeNotificationRepo {
	return &fakeNotificationRepo{nextID: 1}
}

func (f *fakeNotificationRepo) Create(ctx context.Context, n *domain.Notification) error {
	if f.createErr != nil {
		return f.createErr
	}
	n.ID = fmt.Sprintf("notif-%d", f.nextID)
	n.CreatedAt = time.Now()
	f.nextID++
	f.rows = append(f.rows, n)
	return nil
}

func (f *fakeNotificationRepo) ListByUserID(ctx context.Context, userID string, params domain.PaginationParams) ([]*domain.Notification, int, error) {
	if f.listErr != nil {
		return nil, 0, f.listErr
	}
	var out []*domain.Notification
	for _, n := range f.rows {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out, len(out), nil
}

func (f *fakeNotificationRepo) MarkRead(ctx context.Context, userID string, ids []string) (int, error) {
	count := 0
	for _, n := range f.rows {
		for _, id := range ids {
			if n.ID == id && n.UserID == userID && !n.IsRead {
				n.IsRead = true
				count++
			}
		}
	}
	return count, nil
}

func (f *fakeNotificationRepo) MarkAllRead(ctx context.Context, userID string) (int, error) {
	count := 0
	for _, n := range f.rows {
		if n.UserID == userID && !n.IsRead {
			n.IsRead = true
			count++
		}
	}
	return count, nil
}

func (f *fakeNotificationRepo) CountUnread(ctx context.Context, userID string) (int, error) {
	count := 0
	for _, n := range f.rows {
		if n.UserID == userID && !n.IsRead {
			count++
		}
	}
	return count, nil
}

// forUser returns the stored notifications for userID, creation order.
func (f *fakeNotificationRepo) forUser(userID string) []*domain.Notification {
	var out []*domain.Notification
	for _, n := range f.rows {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out
}

// fakeUserRepo is an in-memory UserRepository for tests.
type fakeUserRepo struct {
	byID      map[string]*domain.User
	nextID    int
	createErr error
	getErr    error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		byID:   make(map[string]*domain.User),
		nextID: 1,
	}
}

func (f *fakeUserRepo) Create(ctx context.Context, u *domain.User) error {
	if f.createErr != nil {
		return f.createErr
	}
	for _, existing := range f.byID {
		if existing.Email == u.Email {
			return domain.ErrDuplicateEmail
		}
	}
	u.ID = fmt.Sprintf("user-%d", f.nextID)
	f.nextID++
	f.byID[u.ID] = u
	return nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	for _, u := range f.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	if u, ok := f.byID[id]; ok {
		return u, nil
	}
	return nil, domain.ErrUserNotFound
}

// add stores a user under a fixed ID.
func (f *fakeUserRepo) add(u *domain.User) {
	f.byID[u.ID] = u
}

// notifierCall records one fan-out invocation.
type notifierCall struct {
	method   string
	eventID  string
	userID   string
	approved bool
}

// fakeNotifier records fan-out calls instead of persisting notifications.
type fakeNotifier struct {
	calls []notifierCall
	err   error
}

func (f *fakeNotifier) RSVPCreated(ctx context.Context, event *domain.Event, rsvp *domain.RSVP, guest *domain.User) error {
	f.calls = append(f.calls, notifierCall{method: "RSVPCreated", eventID: event.ID, userID: guest.ID})
	return f.err
}

func (f *fakeNotifier) RSVPUpdated(ctx context.Context, event *domain.Event, rsvp *domain.RSVP, guest *domain.User) error {
	f.calls = append(f.calls, notifierCall{method: "RSVPUpdated", eventID: event.ID, userID: guest.ID})
	return f.err
}

func (f *fakeNotifier) RSVPApproval(ctx context.Context, event *domain.Event, rsvp *domain.RSVP, approved bool) error {
	f.calls = append(f.calls, notifierCall{method: "RSVPApproval", eventID: event.ID, userID: rsvp.UserID, approved: approved})
	return f.err
}

func (f *fakeNotifier) EventReminder(ctx context.Context, event *domain.Event, userID string) error {
	f.calls = append(f.calls, notifierCall{method: "EventReminder", eventID: event.ID, userID: userID})
	return f.err
}

func (f *fakeNotifier) callsTo(method string) []notifierCall {
	var out []notifierCall
	for _, c := range f.calls {
		if c.method == method {
			out = append(out, c)
		}
	}
	return out
}

// fakeClock returns a fixed instant.
type fakeClock struct {
	now time.Time
}

func (f *fakeClock) Now() time.Time { return f.now }

// fakeEmailService records host-message emails.
type fakeEmailService struct {
	sent []*domain.HostMessageEmailData
	err  error
}

func (f *fakeEmailService) SendHostMessage(ctx context.Context, data *domain.HostMessageEmailData) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, data)
	return nil
}

// fakePasswordHasher implements domain.PasswordHasher for tests.
type fakePasswordHasher struct {
	saltErr error
}

func (f *fakePasswordHasher) GenerateSalt() (string, error) {
	if f.saltErr != nil {
		return "", f.saltErr
	}
	return "salt", nil
}

func (f *fakePasswordHasher) Hash(salt, password string) (string, error) {
	return "hash-" + salt + "-" + password, nil
}

func (f *fakePasswordHasher) Compare(hash, salt, password string) error {
	if hash != "hash-"+salt+"-"+password {
		return fmt.Errorf("mismatch")
	}
	return nil
}

// fakeTokenIssuer implements domain.TokenIssuer for tests.
type fakeTokenIssuer struct {
	err error
}

func (f *fakeTokenIssuer) Issue(userID, email string, expiry time.Duration) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return "token-" + userID, nil
}
