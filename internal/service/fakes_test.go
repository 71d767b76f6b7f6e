package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/MacDavicK/TriptiBunglow-Website/internal/model"
	"github.com/MacDavicK/TriptiBunglow-Website/internal/queue"
	"github.com/MacDavicK/TriptiBunglow-Website/internal/repository"
)

// The fakes below mirror the MySQL repositories closely enough for the
// business rules to be exercised without a database.  The ledger fake
// reproduces the properties that matter: atomic claims, the
// one-live-row-per-(property, day) rule, expiry purging and NULL-owner
// blackouts.  All fakes share an ops slice so tests can assert the
// order of compensation writes.

type fakeHold struct {
	id         uint64
	propertyID uint64
	day        time.Time
	bookingID  *uint64 // nil for blackouts
	expiresAt  *time.Time
}

type fakeLedger struct {
	mu     sync.Mutex
	now    func() time.Time
	holds  map[string]*fakeHold // "pid|YYYY-MM-DD"
	nextID uint64
	ops    *[]string

	failClaim error
}

func holdKey(pid uint64, day time.Time) string {
	return fmt.Sprintf("%d|%s", pid, day.UTC().Format("2006-01-02"))
}

func (l *fakeLedger) Claim(_ context.Context, propertyIDs []uint64, days []time.Time, bookingID uint64, expiresAt time.Time) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.failClaim != nil {
		return l.failClaim
	}
	now := l.now()
	for k, h := range l.holds {
		if h.expiresAt != nil && !h.expiresAt.After(now) {
			delete(l.holds, k)
		}
	}
	for _, pid := range propertyIDs {
		for _, d := range days {
			if _, taken := l.holds[holdKey(pid, d)]; taken {
				return repository.ErrDatesUnavailable
			}
		}
	}
	exp := expiresAt
	for _, pid := range propertyIDs {
		for _, d := range days {
			l.nextID++
			l.holds[holdKey(pid, d)] = &fakeHold{id: l.nextID, propertyID: pid, day: d, bookingID: &bookingID, expiresAt: &exp}
		}
	}
	return nil
}

func (l *fakeLedger) Release(_ context.Context, bookingID uint64) (int64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	*l.ops = append(*l.ops, fmt.Sprintf("ledger.release:%d", bookingID))
	var n int64
	for k, h := range l.holds {
		if h.bookingID != nil && *h.bookingID == bookingID {
			delete(l.holds, k)
			n++
		}
	}
	return n, nil
}

func (l *fakeLedger) OccupiedDays(_ context.Context, propertyID uint64, from, to time.Time) (map[string]bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.now()
	occupied := make(map[string]bool)
	for d := from; d.Before(to); d = d.AddDate(0, 0, 1) {
		h, ok := l.holds[holdKey(propertyID, d)]
		if !ok {
			continue
		}
		if h.expiresAt == nil || h.expiresAt.After(now) {
			occupied[d.UTC().Format("2006-01-02")] = true
		}
	}
	return occupied, nil
}

func (l *fakeLedger) Block(_ context.Context, propertyID uint64, days []time.Time) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.now()
	for k, h := range l.holds {
		if h.propertyID == propertyID && h.expiresAt != nil && !h.expiresAt.After(now) {
			delete(l.holds, k)
		}
	}
	for _, d := range days {
		if _, taken := l.holds[holdKey(propertyID, d)]; taken {
			return 0, repository.ErrDatesUnavailable
		}
	}
	for _, d := range days {
		l.nextID++
		l.holds[holdKey(propertyID, d)] = &fakeHold{id: l.nextID, propertyID: propertyID, day: d}
	}
	return len(days), nil
}

func (l *fakeLedger) Unblock(_ context.Context, holdID uint64) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	for k, h := range l.holds {
		if h.id == holdID && h.bookingID == nil {
			delete(l.holds, k)
			return nil
		}
	}
	return repository.ErrBlockedDateNotFound
}

func (l *fakeLedger) ListBlocked(_ context.Context, propertyID uint64) ([]model.DateHold, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	blocked := make([]model.DateHold, 0)
	for _, h := range l.holds {
		if h.bookingID != nil {
			continue
		}
		if propertyID != 0 && h.propertyID != propertyID {
			continue
		}
		blocked = append(blocked, model.DateHold{ID: h.id, PropertyID: h.propertyID, Day: h.day})
	}
	return blocked, nil
}

type fakeBookingStore struct {
	mu       sync.Mutex
	bookings map[uint64]model.Booking
	nextID   uint64
	ops      *[]string

	failCreate error
	failDelete error
}

func (s *fakeBookingStore) Create(_ context.Context, b *model.Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failCreate != nil {
		return s.failCreate
	}
	s.nextID++
	b.ID = s.nextID
	s.bookings[b.ID] = *b
	return nil
}

func (s *fakeBookingStore) Delete(_ context.Context, id uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	*s.ops = append(*s.ops, fmt.Sprintf("booking.delete:%d", id))
	if s.failDelete != nil {
		return s.failDelete
	}
	delete(s.bookings, id)
	return nil
}

func (s *fakeBookingStore) GetByID(_ context.Context, id uint64) (*model.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bookings[id]
	if !ok {
		return nil, repository.ErrBookingNotFound
	}
	return &b, nil
}

func (s *fakeBookingStore) GetByRef(_ context.Context, ref string) (*model.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, b := range s.bookings {
		if b.BookingRef == ref {
			b := b
			return &b, nil
		}
	}
	return nil, repository.ErrBookingNotFound
}

func (s *fakeBookingStore) Update(_ context.Context, b *model.Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.bookings[b.ID]; !ok {
		return repository.ErrBookingNotFound
	}
	s.bookings[b.ID] = *b
	return nil
}

func (s *fakeBookingStore) List(_ context.Context, f repository.BookingFilter) ([]model.Booking, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Booking, 0)
	for _, b := range s.bookings {
		if f.Status != "" && b.Status != f.Status {
			continue
		}
		out = append(out, b)
	}
	return out, len(out), nil
}

func (s *fakeBookingStore) OverlappingRanges(_ context.Context, propertyID uint64, from, to time.Time, statuses []model.BookingStatus) ([]repository.DateRange, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	wanted := make(map[model.BookingStatus]bool)
	for _, st := range statuses {
		wanted[st] = true
	}
	ranges := make([]repository.DateRange, 0)
	for _, b := range s.bookings {
		if !wanted[b.Status] {
			continue
		}
		owns := false
		for _, pid := range b.PropertyIDs {
			if pid == propertyID {
				owns = true
			}
		}
		if owns && b.CheckIn.Before(to) && b.CheckOut.After(from) {
			ranges = append(ranges, repository.DateRange{CheckIn: b.CheckIn, CheckOut: b.CheckOut})
		}
	}
	return ranges, nil
}

func (s *fakeBookingStore) GetStats(_ context.Context, _ time.Time) (*repository.Stats, error) {
	return &repository.Stats{}, nil
}

type fakeCustomerStore struct {
	mu        sync.Mutex
	customers map[uint64]model.Customer
	nextID    uint64
	ops       *[]string

	failCreate error
	failDelete error
}

func (s *fakeCustomerStore) Create(_ context.Context, c *model.Customer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failCreate != nil {
		return s.failCreate
	}
	s.nextID++
	c.ID = s.nextID
	s.customers[c.ID] = *c
	return nil
}

func (s *fakeCustomerStore) Delete(_ context.Context, id uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	*s.ops = append(*s.ops, fmt.Sprintf("customer.delete:%d", id))
	if s.failDelete != nil {
		return s.failDelete
	}
	delete(s.customers, id)
	return nil
}

func (s *fakeCustomerStore) GetByID(_ context.Context, id uint64) (*model.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.customers[id]
	if !ok {
		return nil, repository.ErrCustomerNotFound
	}
	return &c, nil
}

func (s *fakeCustomerStore) UpdateContact(_ context.Context, id uint64, name, email, phone, address string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.customers[id]
	if !ok {
		return repository.ErrCustomerNotFound
	}
	c.Name, c.Email, c.Phone, c.Address = name, email, phone, address
	s.customers[id] = c
	return nil
}

func (s *fakeCustomerStore) Anonymize(_ context.Context, id uint64, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.customers[id]
	if !ok {
		return repository.ErrCustomerNotFound
	}
	c.Name = "REDACTED"
	c.Email = fmt.Sprintf("redacted-%d@removed.invalid", id)
	c.Phone, c.Address = "", ""
	c.IDType, c.IDNumber, c.IDDocumentURL = nil, nil, nil
	c.DataRetentionExpiresAt = now
	s.customers[id] = c
	return nil
}

type fakeConsentStore struct {
	mu       sync.Mutex
	consents map[uint64]model.ConsentRecord
	nextID   uint64
	ops      *[]string

	failCreate error
}

func (s *fakeConsentStore) Create(_ context.Context, c *model.ConsentRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failCreate != nil {
		return s.failCreate
	}
	s.nextID++
	c.ID = s.nextID
	s.consents[c.ID] = *c
	return nil
}

func (s *fakeConsentStore) Delete(_ context.Context, id uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	*s.ops = append(*s.ops, fmt.Sprintf("consent.delete:%d", id))
	delete(s.consents, id)
	return nil
}

func (s *fakeConsentStore) GetByID(_ context.Context, id uint64) (*model.ConsentRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.consents[id]
	if !ok {
		return nil, fmt.Errorf("consent %d not found", id)
	}
	return &c, nil
}

type fakePropertyStore struct {
	props map[uint64]model.Property
}

func (s *fakePropertyStore) ActiveByIDs(_ context.Context, ids []uint64) ([]model.Property, error) {
	out := make([]model.Property, 0, len(ids))
	for _, id := range ids {
		p, ok := s.props[id]
		if !ok || !p.IsActive {
			return nil, repository.ErrPropertyNotFound
		}
		out = append(out, p)
	}
	return out, nil
}

func (s *fakePropertyStore) GetByID(_ context.Context, id uint64) (*model.Property, error) {
	p, ok := s.props[id]
	if !ok {
		return nil, repository.ErrPropertyNotFound
	}
	return &p, nil
}

type fakeDamageStore struct {
	mu      sync.Mutex
	reports map[uint64]model.DamageReport // by booking id
	nextID  uint64
}

func (s *fakeDamageStore) Create(_ context.Context, d *model.DamageReport) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.reports[d.BookingID]; exists {
		return repository.ErrDamageReportExists
	}
	s.nextID++
	d.ID = s.nextID
	s.reports[d.BookingID] = *d
	return nil
}

func (s *fakeDamageStore) GetByBookingID(_ context.Context, bookingID uint64) (*model.DamageReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.reports[bookingID]
	if !ok {
		return nil, nil
	}
	return &d, nil
}

type fakeAudit struct {
	mu      sync.Mutex
	entries []model.AuditLog
}

func (a *fakeAudit) Record(_ context.Context, entry model.AuditLog) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.entries = append(a.entries, entry)
}

func (a *fakeAudit) actions() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]string, 0, len(a.entries))
	for _, e := range a.entries {
		out = append(out, e.Action)
	}
	return out
}

type fakeNotifier struct {
	mu        sync.Mutex
	confirmed []queue.BookingConfirmedEvent
	alerts    []queue.AdminAlertEvent
}

func (n *fakeNotifier) BookingConfirmed(_ context.Context, ev queue.BookingConfirmedEvent) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.confirmed = append(n.confirmed, ev)
	return nil
}

func (n *fakeNotifier) AdminAlert(_ context.Context, ev queue.AdminAlertEvent) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.alerts = append(n.alerts, ev)
	return nil
}

// fixture wires a BookingService over the fakes with a controllable
// clock and deterministic booking references.
type fixture struct {
	ledger    *fakeLedger
	bookings  *fakeBookingStore
	customers *fakeCustomerStore
	consents  *fakeConsentStore
	props     *fakePropertyStore
	damage    *fakeDamageStore
	audit     *fakeAudit
	notifier  *fakeNotifier
	svc       *BookingService
	avail     *AvailabilityService

	clock time.Time
	ops   []string
}

func newFixture() *fixture {
	f := &fixture{
		clock: time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC),
	}
	now := func() time.Time { return f.clock }
	f.ledger = &fakeLedger{now: now, holds: map[string]*fakeHold{}, ops: &f.ops}
	f.bookings = &fakeBookingStore{bookings: map[uint64]model.Booking{}, ops: &f.ops}
	f.customers = &fakeCustomerStore{customers: map[uint64]model.Customer{}, ops: &f.ops}
	f.consents = &fakeConsentStore{consents: map[uint64]model.ConsentRecord{}, ops: &f.ops}
	f.props = &fakePropertyStore{props: map[uint64]model.Property{
		1: {ID: 1, Name: "Hillside Bungalow", Slug: "hillside", RatePerNight: 2500000, SecurityDeposit: 500000, MaxGuests: 8, IsActive: true},
		2: {ID: 2, Name: "Lakeview Bungalow", Slug: "lakeview", RatePerNight: 3000000, SecurityDeposit: 700000, MaxGuests: 6, IsActive: true},
	}}
	f.damage = &fakeDamageStore{reports: map[uint64]model.DamageReport{}}
	f.audit = &fakeAudit{}
	f.notifier = &fakeNotifier{}

	f.svc = NewBookingService(f.ledger, f.bookings, f.customers, f.consents,
		f.props, f.damage, f.audit, f.notifier, NoCalendar{}, 48*time.Hour)
	f.svc.now = now
	refSeq := 0
	f.svc.newRef = func() string {
		refSeq++
		return fmt.Sprintf("BK-TEST%04d", refSeq)
	}

	f.avail = NewAvailabilityService(f.ledger, f.bookings, f.props)
	f.avail.now = now
	return f
}

func (f *fixture) createRequest(propertyIDs []uint64, checkIn, checkOut time.Time, typ model.BookingType) CreateBookingRequest {
	return CreateBookingRequest{
		PropertyIDs:       propertyIDs,
		CheckIn:           checkIn,
		CheckOut:          checkOut,
		BookingType:       typ,
		GuestCount:        4,
		ReasonForRent:     "family vacation",
		Name:              "Asha Verma",
		Email:             "asha@example.com",
		Phone:             "+91 98765 43210",
		Address:           "12 MG Road, Pune",
		Nationality:       model.NationalityIndian,
		ConsentVersion:    "v2",
		PurposesConsented: []string{"booking", "communication"},
		ConsentText:       "I consent to the processing of my data for this booking.",
		IPAddress:         "203.0.113.9",
		UserAgent:         "test-agent",
		TermsVersion:      "2026-01",
	}
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
