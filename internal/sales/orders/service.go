package orders

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Kathiriniyan/SukanFood-sub001/internal/catalog"
	"github.com/Kathiriniyan/SukanFood-sub001/internal/sales/ledger"
	"github.com/Kathiriniyan/SukanFood-sub001/internal/shared"
)

// Catalog is the reference data the order service reads.
type Catalog interface {
	ledger.Catalog
	Customer(ctx context.Context, code string) (catalog.Customer, error)
}

// Enqueuer hands submitted orders to the background archive.
type Enqueuer interface {
	EnqueueArchive(ctx context.Context, snap Snapshot) error
}

// Recorder receives lifecycle events and user notices for metrics.
type Recorder interface {
	DraftEvent(event string)
	Notice(kind string)
}

type noopRecorder struct{}

func (noopRecorder) DraftEvent(string) {}
func (noopRecorder) Notice(string)     {}

// ServiceConfig tunes the order service.
type ServiceConfig struct {
	DefaultTaxLabel string
	Now             func() time.Time
	NewOrderID      func(now time.Time) string
	LedgerOptions   []ledger.Option
}

// Service owns the open order drafts. Each draft is serialised by its own lock,
// so a mutation and the tax recompute it triggers never interleave with another request.
type Service struct {
	catalog  Catalog
	store    Store
	enqueuer Enqueuer
	recorder Recorder
	logger   *slog.Logger
	cfg      ServiceConfig

	mu     sync.RWMutex
	drafts map[string]*draft
}

// NewService constructs the order service. enqueuer and recorder may be nil.
func NewService(cat Catalog, store Store, enqueuer Enqueuer, recorder Recorder, logger *slog.Logger, cfg ServiceConfig) *Service {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.NewOrderID == nil {
		cfg.NewOrderID = defaultOrderID
	}
	if cfg.DefaultTaxLabel == "" {
		cfg.DefaultTaxLabel = "Tax"
	}
	if recorder == nil {
		recorder = noopRecorder{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		catalog:  cat,
		store:    store,
		enqueuer: enqueuer,
		recorder: recorder,
		logger:   logger,
		cfg:      cfg,
		drafts:   make(map[string]*draft),
	}
}

func defaultOrderID(now time.Time) string {
	return fmt.Sprintf("SO-%s-%s", now.Format("20060102"), strings.ToUpper(uuid.NewString()[:8]))
}

// ============================================================================
// DRAFT LIFECYCLE
// ============================================================================

// Open starts an empty draft.
func (s *Service) Open(ctx context.Context, header HeaderPatch) (View, error) {
	now := s.cfg.Now()
	d := &draft{
		orderID:     s.cfg.NewOrderID(now),
		orderDate:   dateOnly(now),
		ledger:      ledger.New(s.catalog, s.cfg.LedgerOptions...),
		status:      StatusDraft,
		openedAt:    now,
		snapshotted: now,
	}
	if err := s.applyHeader(ctx, d, header); err != nil {
		return View{}, s.notice(err)
	}

	s.mu.Lock()
	if _, exists := s.drafts[d.orderID]; exists {
		s.mu.Unlock()
		return View{}, fmt.Errorf("orders: duplicate order id %s", d.orderID)
	}
	s.drafts[d.orderID] = d
	s.mu.Unlock()

	s.recorder.DraftEvent("opened")
	s.logger.Info("order draft opened", slog.String("order_id", d.orderID))
	return d.view(), nil
}

// Get returns the current view of an open draft.
func (s *Service) Get(ctx context.Context, orderID string) (View, error) {
	d, err := s.lookup(orderID)
	if err != nil {
		return View{}, err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.view(), nil
}

// Discard drops an open draft without saving. Stored snapshots are kept.
func (s *Service) Discard(ctx context.Context, orderID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.drafts[orderID]; !ok {
		return notFoundErr("order %s is not open", orderID)
	}
	delete(s.drafts, orderID)
	s.recorder.DraftEvent("discarded")
	return nil
}

// Purge closes an order and deletes its stored snapshot, so it can no longer be
// resumed. Submitted orders belong to the archive and are refused.
func (s *Service) Purge(ctx context.Context, orderID string) error {
	s.mu.RLock()
	d, open := s.drafts[orderID]
	s.mu.RUnlock()

	if open {
		d.mu.Lock()
		defer d.mu.Unlock()
		if d.submitted {
			return s.notice(stateErr("order %s has been submitted and cannot be purged", orderID))
		}
	} else {
		snap, err := s.store.Load(ctx, orderID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return s.notice(err)
			}
			return fmt.Errorf("%w: load order %s: %v", shared.ErrPersistence, orderID, err)
		}
		if snap.Status.Submitted {
			return s.notice(stateErr("order %s has been submitted and cannot be purged", orderID))
		}
	}

	if err := s.store.Delete(ctx, orderID); err != nil {
		s.recorder.Notice("persistence")
		s.logger.Error("delete order snapshot", slog.String("order_id", orderID), slog.Any("error", err))
		return fmt.Errorf("%w: delete order %s: %v", shared.ErrPersistence, orderID, err)
	}

	s.mu.Lock()
	delete(s.drafts, orderID)
	s.mu.Unlock()

	s.recorder.DraftEvent("purged")
	s.logger.Info("order purged", slog.String("order_id", orderID))
	return nil
}

// UpdateHeader changes the customer context, dates or notes.
func (s *Service) UpdateHeader(ctx context.Context, orderID string, patch HeaderPatch) (View, error) {
	return s.mutate(orderID, func(d *draft) error {
		return s.applyHeader(ctx, d, patch)
	})
}

// Save validates the draft and writes its snapshot. A storage failure leaves the draft unsaved.
func (s *Service) Save(ctx context.Context, orderID string) (View, error) {
	d, err := s.lookup(orderID)
	if err != nil {
		return View{}, err
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.status.Editable() {
		return View{}, s.notice(stateErr("order %s is %s and cannot be saved", orderID, d.status))
	}
	if err := d.validateForSave(); err != nil {
		return View{}, s.notice(err)
	}

	now := s.cfg.Now()
	if err := s.persist(ctx, d, StatusSaved, now); err != nil {
		return View{}, err
	}
	d.status = StatusSaved
	d.dirty = false
	d.savedAt = &now

	s.recorder.DraftEvent("saved")
	s.logger.Info("order draft saved", slog.String("order_id", orderID))
	return d.view(), nil
}

// Submit moves a saved, unchanged draft to SUBMITTED and queues it for archiving.
func (s *Service) Submit(ctx context.Context, orderID string) (View, error) {
	d, err := s.lookup(orderID)
	if err != nil {
		return View{}, err
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	switch d.status {
	case StatusSaved:
	case StatusDraft:
		return View{}, s.notice(stateErr("save the order before submitting"))
	default:
		return View{}, s.notice(stateErr("order %s is already %s", orderID, d.status))
	}

	now := s.cfg.Now()
	if err := s.persist(ctx, d, StatusSubmitted, now); err != nil {
		return View{}, err
	}
	d.status = StatusSubmitted
	d.submitted = true

	if s.enqueuer != nil {
		if err := s.enqueuer.EnqueueArchive(ctx, d.snapshot(StatusSubmitted, now)); err != nil {
			s.logger.Warn("enqueue order archive", slog.String("order_id", orderID), slog.Any("error", err))
		}
	}

	s.recorder.DraftEvent("submitted")
	s.logger.Info("order submitted", slog.String("order_id", orderID))
	return d.view(), nil
}

// MarkPicked records that a submitted order has been picked.
func (s *Service) MarkPicked(ctx context.Context, orderID string) (View, error) {
	return s.transition(ctx, orderID, StatusPicked, func(d *draft) error {
		if d.status != StatusSubmitted {
			return stateErr("only submitted orders can be picked, order %s is %s", orderID, d.status)
		}
		return nil
	})
}

// Cancel cancels an order that has not been picked.
func (s *Service) Cancel(ctx context.Context, orderID string) (View, error) {
	return s.transition(ctx, orderID, StatusCancelled, func(d *draft) error {
		switch d.status {
		case StatusPicked:
			return stateErr("order %s has been picked and can no longer be cancelled", orderID)
		case StatusCancelled:
			return stateErr("order %s is already cancelled", orderID)
		}
		return nil
	})
}

// Resume reopens a stored order, restoring lines with their saved modes.
func (s *Service) Resume(ctx context.Context, orderID string) (View, error) {
	s.mu.RLock()
	existing, open := s.drafts[orderID]
	s.mu.RUnlock()
	if open {
		existing.mu.Lock()
		defer existing.mu.Unlock()
		return existing.view(), nil
	}

	snap, err := s.store.Load(ctx, orderID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return View{}, s.notice(err)
		}
		return View{}, fmt.Errorf("%w: load order %s: %v", shared.ErrPersistence, orderID, err)
	}

	l, err := ledger.Restore(s.catalog, snap.Items, snap.Taxes.Rows, s.cfg.LedgerOptions...)
	if err != nil {
		return View{}, fmt.Errorf("restore order %s: %w", orderID, err)
	}
	savedAt := snap.CreatedAt
	d := &draft{
		orderID:     snap.OrderID,
		customer:    snap.Customer,
		orderDate:   snap.OrderDate,
		expiryDate:  snap.ExpiryDate,
		notes:       snap.Notes,
		ledger:      l,
		status:      snap.Status.State,
		submitted:   snap.Status.Submitted,
		openedAt:    s.cfg.Now(),
		savedAt:     &savedAt,
		snapshotted: snap.CreatedAt,
	}
	if d.status == "" {
		d.status = StatusSaved
	}

	s.mu.Lock()
	if current, raced := s.drafts[orderID]; raced {
		s.mu.Unlock()
		current.mu.Lock()
		defer current.mu.Unlock()
		return current.view(), nil
	}
	s.drafts[orderID] = d
	s.mu.Unlock()

	s.recorder.DraftEvent("resumed")
	return d.view(), nil
}

// ============================================================================
// LINES & TAXES
// ============================================================================

// AddLine appends a product line.
func (s *Service) AddLine(ctx context.Context, orderID string, req AddLineRequest) (View, error) {
	return s.mutate(orderID, func(d *draft) error {
		_, err := d.ledger.AddLine(req.ProductCode, req.Quantity, req.Amount)
		return err
	})
}

// EditLine patches a committed line.
func (s *Service) EditLine(ctx context.Context, orderID, lineID string, req EditLineRequest) (View, error) {
	return s.mutate(orderID, func(d *draft) error {
		_, err := d.ledger.EditLine(lineID, ledger.LinePatch{
			ProductCode: req.ProductCode,
			Quantity:    req.Quantity,
			Amount:      req.Amount,
		})
		return err
	})
}

// RemoveLine deletes a line.
func (s *Service) RemoveLine(ctx context.Context, orderID, lineID string) (View, error) {
	return s.mutate(orderID, func(d *draft) error {
		return d.ledger.RemoveLine(lineID)
	})
}

// AddTaxRow appends a tax or charge row. A blank label gets the configured default.
func (s *Service) AddTaxRow(ctx context.Context, orderID string, req AddTaxRequest) (View, error) {
	return s.mutate(orderID, func(d *draft) error {
		label := strings.TrimSpace(req.Label)
		if label == "" {
			label = s.cfg.DefaultTaxLabel
		}
		_, err := d.ledger.AddTaxRow(ledger.TaxInput{
			Kind:   ledger.TaxKind(req.Kind),
			Label:  label,
			Rate:   req.Rate,
			Amount: req.Amount,
		})
		return err
	})
}

// EditTaxRow patches a tax row.
func (s *Service) EditTaxRow(ctx context.Context, orderID, taxID string, req EditTaxRequest) (View, error) {
	return s.mutate(orderID, func(d *draft) error {
		patch := ledger.TaxPatch{Label: req.Label, Rate: req.Rate, Amount: req.Amount}
		if req.Kind != nil {
			kind := ledger.TaxKind(*req.Kind)
			patch.Kind = &kind
		}
		_, err := d.ledger.EditTaxRow(taxID, patch)
		return err
	})
}

// RemoveTaxRow deletes a tax row.
func (s *Service) RemoveTaxRow(ctx context.Context, orderID, taxID string) (View, error) {
	return s.mutate(orderID, func(d *draft) error {
		return d.ledger.RemoveTaxRow(taxID)
	})
}

// Snapshot returns the current state of an open draft in stored form, saved or not.
func (s *Service) Snapshot(ctx context.Context, orderID string) (Snapshot, error) {
	d, err := s.lookup(orderID)
	if err != nil {
		return Snapshot{}, err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.snapshot(d.status, s.cfg.Now()), nil
}

// ============================================================================
// HELPERS
// ============================================================================

func (s *Service) lookup(orderID string) (*draft, error) {
	s.mu.RLock()
	d, ok := s.drafts[orderID]
	s.mu.RUnlock()
	if !ok {
		return nil, s.notice(notFoundErr("order %s is not open", orderID))
	}
	return d, nil
}

// mutate runs fn under the draft lock. fn must leave the draft untouched when it fails.
func (s *Service) mutate(orderID string, fn func(d *draft) error) (View, error) {
	d, err := s.lookup(orderID)
	if err != nil {
		return View{}, err
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.ensureEditable(); err != nil {
		return View{}, s.notice(err)
	}
	if err := fn(d); err != nil {
		return View{}, s.notice(err)
	}
	d.touch()
	return d.view(), nil
}

func (s *Service) transition(ctx context.Context, orderID string, to Status, check func(d *draft) error) (View, error) {
	d, err := s.lookup(orderID)
	if err != nil {
		return View{}, err
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := check(d); err != nil {
		return View{}, s.notice(err)
	}
	now := s.cfg.Now()
	if d.savedAt != nil {
		if err := s.persist(ctx, d, to, now); err != nil {
			return View{}, err
		}
	}
	d.status = to
	d.dirty = false

	s.recorder.DraftEvent(strings.ToLower(string(to)))
	s.logger.Info("order status changed", slog.String("order_id", orderID), slog.String("status", string(to)))
	return d.view(), nil
}

// persist writes the snapshot the draft would have in state to. Callers update the draft only on success.
func (s *Service) persist(ctx context.Context, d *draft, to Status, now time.Time) error {
	snap := d.snapshot(to, now)
	if err := s.store.Save(ctx, snap); err != nil {
		s.recorder.Notice("persistence")
		s.logger.Error("persist order snapshot", slog.String("order_id", d.orderID), slog.Any("error", err))
		return fmt.Errorf("%w: save order %s: %v", shared.ErrPersistence, d.orderID, err)
	}
	d.snapshotted = now
	return nil
}

func (s *Service) applyHeader(ctx context.Context, d *draft, patch HeaderPatch) error {
	customer := d.customer
	if patch.CustomerCode != nil {
		ref, err := s.resolveCustomer(ctx, *patch.CustomerCode, patch.AddressID)
		if err != nil {
			return err
		}
		customer = ref
	} else if patch.AddressID != nil {
		if customer == nil {
			return validationErr("select a customer before choosing an address")
		}
		ref, err := s.resolveCustomer(ctx, customer.Code, patch.AddressID)
		if err != nil {
			return err
		}
		customer = ref
	}

	orderDate := d.orderDate
	if patch.OrderDate != nil {
		orderDate = dateOnly(*patch.OrderDate)
	}
	expiry := d.expiryDate
	if patch.ExpiryDate != nil {
		e := dateOnly(*patch.ExpiryDate)
		expiry = &e
	}
	if err := validateDates(orderDate, expiry); err != nil {
		return err
	}

	d.customer = customer
	d.orderDate = orderDate
	d.expiryDate = expiry
	if patch.Notes != nil {
		d.notes = *patch.Notes
	}
	return nil
}

func (s *Service) resolveCustomer(ctx context.Context, code string, addressID *string) (*CustomerRef, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, nil
	}
	c, err := s.catalog.Customer(ctx, code)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, validationErr("unknown customer %s", code)
		}
		return nil, fmt.Errorf("lookup customer: %w", err)
	}
	if !c.IsActive {
		return nil, validationErr("customer %s is inactive", c.Code)
	}
	ref := &CustomerRef{Code: c.Code, Name: c.Name}

	var addr catalog.Address
	switch {
	case addressID != nil && *addressID != "":
		a, ok := c.Address(*addressID)
		if !ok {
			return nil, validationErr("address %s does not belong to customer %s", *addressID, c.Code)
		}
		addr = a
	case len(c.Addresses) > 0:
		addr = c.Addresses[0]
	}
	if addr.ID != "" {
		ref.AddressID = addr.ID
		ref.Address = strings.Join(nonEmpty(addr.Line1, addr.City, addr.Country), ", ")
	}
	return ref, nil
}

// notice counts recoverable errors before handing them back.
func (s *Service) notice(err error) error {
	switch {
	case errors.Is(err, shared.ErrValidation):
		s.recorder.Notice("validation")
	case errors.Is(err, shared.ErrInvalidState):
		s.recorder.Notice("state")
	case errors.Is(err, shared.ErrNotFound):
		s.recorder.Notice("not_found")
	}
	return err
}

func nonEmpty(parts ...string) []string {
	out := parts[:0:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func validationErr(format string, args ...any) error {
	return fmt.Errorf("%w: %s", shared.ErrValidation, fmt.Sprintf(format, args...))
}

func stateErr(format string, args ...any) error {
	return fmt.Errorf("%w: %s", shared.ErrInvalidState, fmt.Sprintf(format, args...))
}

func notFoundErr(format string, args ...any) error {
	return fmt.Errorf("%w: %s", shared.ErrNotFound, fmt.Sprintf(format, args...))
}
