package customer

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/goliatone/go-formstate/pkg/binder"
	"github.com/goliatone/go-formstate/pkg/debounce"
	"github.com/goliatone/go-formstate/pkg/form"
	"github.com/goliatone/go-formstate/pkg/pricing"
	"github.com/goliatone/go-formstate/pkg/render"
)

// ErrClosed is returned by session methods called after Close.
var ErrClosed = errors.New("customer: session closed")

// Session is the single owner of a customer form tree. It wires the phone
// binder and the debounced email message, and serialises every mutation
// behind one lock.
type Session struct {
	mu     sync.Mutex
	cfg    config
	logger *slog.Logger

	root      *form.Group
	phone     *binder.Binder
	emailSub  *form.Subscription
	debouncer *debounce.Debouncer[any]

	message string
	closed  bool
}

// New builds a session around a fresh customer form.
func New(opts ...Option) *Session {
	cfg := defaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	logger := cfg.logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	s := &Session{
		cfg:    cfg,
		logger: logger.With("component", "customer"),
		root:   NewForm(),
	}

	s.phone = binder.Bind(
		s.root.Get(FieldNotification),
		s.root.Get(FieldPhone),
		binder.RequiredWhen(NotifyText),
		binder.WithName(FieldPhone),
		binder.WithLogger(s.logger),
		binder.OnApply(s.bindApplied),
	)

	s.debouncer = debounce.New(cfg.clock, cfg.window, s.refreshMessage)
	s.emailSub = s.root.Get(PathEmail).Subscribe(func(value any) {
		s.debouncer.Trigger(value)
	})
	return s
}

// Root exposes the form tree. Callers must not mutate it while other
// goroutines use the session.
func (s *Session) Root() *form.Group { return s.root }

// Window returns the email debounce window.
func (s *Session) Window() time.Duration { return s.debouncer.Window() }

// SetValue writes v to the control at path, marking it dirty as user input
// would. The value is stored exactly as given.
func (s *Session) SetValue(path string, v any) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	err := s.setLocked(path, v)
	s.mu.Unlock()

	if err != nil {
		return err
	}
	s.changed(path, v)
	return nil
}

func (s *Session) setLocked(path string, v any) error {
	c := s.root.Get(path)
	if c == nil {
		return &form.UnknownControlError{Path: path}
	}
	if err := form.SetValue(c, v); err != nil {
		return fmt.Errorf("customer: set %s: %w", path, err)
	}
	s.logger.Debug("value changed", "path", path, "status", c.Status())
	return nil
}

// Touch marks the control at path as touched, the way leaving an input does.
func (s *Session) Touch(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	c := s.root.Get(path)
	if c == nil {
		return &form.UnknownControlError{Path: path}
	}
	c.MarkAsTouched()
	return nil
}

// Patch writes the named values and leaves every other control alone.
// Unknown names are reported while known names are still applied.
func (s *Session) Patch(values map[string]any) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	err := s.root.Patch(values)
	applied := make(map[string]any, len(values))
	for name, value := range values {
		if s.root.Contains(name) {
			applied[name] = value
		}
	}
	s.logger.Debug("values patched", "names", len(applied), "status", s.root.Status())
	s.mu.Unlock()

	for name, value := range applied {
		s.changed(name, value)
	}
	if err != nil {
		return fmt.Errorf("customer: patch: %w", err)
	}
	return nil
}

// AddAddress appends an empty address and returns its index.
func (s *Session) AddAddress() (int, error) {
	return s.Append(FieldAddresses)
}

// Append adds a new entry to the array at path and returns its index.
func (s *Session) Append(path string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return 0, ErrClosed
	}
	array, ok := s.root.Get(path).(*form.Array)
	if !ok {
		return 0, &form.UnknownControlError{Path: path}
	}
	if _, err := array.Append(); err != nil {
		return 0, fmt.Errorf("customer: append %s: %w", path, err)
	}
	s.logger.Debug("entry appended", "path", path, "count", array.Len())
	return array.Len() - 1, nil
}

// RemoveAddress drops the address at index i.
func (s *Session) RemoveAddress(i int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	if err := s.root.Array(FieldAddresses).RemoveAt(i); err != nil {
		return fmt.Errorf("customer: remove address: %w", err)
	}
	return nil
}

// ReplaceAddresses swaps the whole address array for a new one holding
// items. Previous entries are disposed.
func (s *Session) ReplaceAddresses(items []map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	return s.replaceLocked(items)
}

func (s *Session) replaceLocked(items []map[string]any) error {
	entries := make([]*form.Group, 0, len(items))
	for i, item := range items {
		entry := NewAddress()
		if err := entry.Patch(item); err != nil {
			return fmt.Errorf("customer: address %d: %w", i, err)
		}
		entries = append(entries, entry)
	}
	if err := s.root.SetControl(FieldAddresses, form.NewArray(NewAddress, entries...)); err != nil {
		return fmt.Errorf("customer: replace addresses: %w", err)
	}
	s.logger.Debug("addresses replaced", "count", len(entries))
	return nil
}

// PopulateTestData fills the form with the sample customer and replaces the
// addresses with a single work address.
func (s *Session) PopulateTestData() error {
	values, addresses := TestData()
	if err := s.Patch(values); err != nil {
		return err
	}
	return s.ReplaceAddresses(addresses)
}

// Reset returns the session to its starting state: every field holds its
// initial value, a single empty address remains and no control is touched or
// dirty.
func (s *Session) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	if err := s.root.Array(FieldAddresses).Replace([]*form.Group{NewAddress()}); err != nil {
		return fmt.Errorf("customer: reset addresses: %w", err)
	}
	form.Walk(s.root, func(_ string, c form.Control) bool {
		if field, ok := c.(*form.Field); ok {
			field.Reset()
		}
		return true
	})
	s.message = ""
	s.logger.Debug("session reset", "status", s.root.Status())
	return nil
}

// SetPhase selects or clears a pricing phase.
func (s *Session) SetPhase(p pricing.Phase, on bool) error {
	if !p.Valid() {
		return fmt.Errorf("customer: phase %d: %w", int(p), form.ErrNotFound)
	}
	return s.SetValue(p.String(), on)
}

// ToggleCard flips the expansion flag of card n. It is view state, so the
// form stays pristine.
func (s *Session) ToggleCard(n int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false, ErrClosed
	}
	card := s.root.Field(CardName(n))
	if card == nil {
		return false, &form.UnknownControlError{Path: CardName(n)}
	}
	expanded, _ := card.Value().(bool)
	card.SetValue(!expanded, form.KeepPristine())
	return !expanded, nil
}

// EmailMessage returns the email message computed by the last debounced
// refresh.
func (s *Session) EmailMessage() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.message
}

// Flush refreshes the email message now instead of waiting for the window.
func (s *Session) Flush() {
	s.mu.Lock()
	closed := s.closed
	s.mu.Unlock()
	if closed {
		return
	}
	s.debouncer.Flush()
}

// Snapshot returns the read model of the whole tree.
func (s *Session) Snapshot() form.NodeSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return form.Snapshot(s.root)
}

// Status reports the root validity.
func (s *Session) Status() form.Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.root.Status()
}

// Valid reports whether the whole form is valid.
func (s *Session) Valid() bool {
	return s.Status() == form.StatusValid
}

// Save reads the tree and prices the selected phases. The tree is not
// modified, and the total is recomputed from zero on every call.
func (s *Session) Save() (Submission, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return Submission{}, ErrClosed
	}
	sel := pricing.SelectionFrom(s.root)
	sub := Submission{
		Value:     s.root.Values(),
		Total:     pricing.Total(sel, s.cfg.prices),
		Breakdown: pricing.Breakdown(sel, s.cfg.prices),
		Status:    s.root.Status(),
	}
	s.logger.Info("customer saved",
		"total", sub.Total,
		"phases", len(sub.Breakdown),
		"status", sub.Status,
	)
	s.mu.Unlock()

	for _, h := range s.cfg.hooks {
		if h.OnSave != nil {
			h.OnSave(sub)
		}
	}
	return sub, nil
}

// Close tears the session down: the debounce timer is stopped, pending
// messages are dropped, the binder stops listening and the tree is disposed.
// Close is idempotent.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	s.debouncer.Stop()
	s.emailSub.Unsubscribe()
	s.phone.Close()
	s.root.Dispose()
	s.logger.Debug("session closed")
}

// Closed reports whether Close was called.
func (s *Session) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

func (s *Session) refreshMessage(any) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.message = emailMessage(s.root.Get(PathEmail), s.cfg.messages)
	message := s.message
	s.logger.Debug("email message refreshed", "message", message)
	s.mu.Unlock()

	for _, h := range s.cfg.hooks {
		if h.OnMessage != nil {
			h.OnMessage(message)
		}
	}
}

// emailMessage joins the texts of the control's failures once the user has
// interacted with it.
func emailMessage(c form.Control, table render.Translator) string {
	if c == nil || !(c.Touched() || c.Dirty()) {
		return ""
	}
	keys := c.ErrorKeys()
	if len(keys) == 0 {
		return ""
	}
	return strings.Join(render.Messages(keys, table), " ")
}

func (s *Session) changed(path string, value any) {
	for _, h := range s.cfg.hooks {
		if h.OnChange != nil {
			h.OnChange(path, value)
		}
	}
}

func (s *Session) bindApplied(name string, attached int) {
	for _, h := range s.cfg.hooks {
		if h.OnBind != nil {
			h.OnBind(name, attached)
		}
	}
}
