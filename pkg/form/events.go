package form

// Subscription ties a value-change callback to a control. It stays active
// until Unsubscribe is called or the control is disposed.
type Subscription struct {
	owner  *control
	fn     func(value any)
	closed bool
}

// Subscribe registers fn to receive the control's value after every
// mutation. Callbacks run synchronously in registration order.
func (c *control) Subscribe(fn func(value any)) *Subscription {
	sub := &Subscription{owner: c, fn: fn}
	if fn == nil {
		sub.closed = true
		return sub
	}
	c.subs = append(c.subs, sub)
	return sub
}

// Unsubscribe stops delivery. Safe to call more than once and from inside
// the callback itself.
func (s *Subscription) Unsubscribe() {
	if s == nil || s.closed {
		return
	}
	s.closed = true
	if s.owner == nil {
		return
	}
	subs := s.owner.subs
	for i, candidate := range subs {
		if candidate == s {
			s.owner.subs = append(subs[:i:i], subs[i+1:]...)
			break
		}
	}
}

// Active reports whether the subscription still receives values.
func (s *Subscription) Active() bool {
	return s != nil && !s.closed
}

func (c *control) emit(value any) {
	if len(c.subs) == 0 {
		return
	}
	snapshot := append([]*Subscription(nil), c.subs...)
	for _, sub := range snapshot {
		if sub.closed {
			continue
		}
		sub.fn(value)
	}
}
