package observable

// channelSend is the atomic operation carrying one fire-and-forget value.
type channelSend[T any] struct {
	value T
}

// ChannelReceived is broadcast for every value sent through a [Channel].
type ChannelReceived[T any] struct {
	Value T
}

// Channel is a stateless fire-and-forget primitive: every [Channel.Send] is
// serialized through the Subject and broadcast to all bindings, with nothing
// retained afterwards.
type Channel[T any] struct {
	subject *Subject
}

// NewChannel creates a fire-and-forget channel.
func NewChannel[T any](opts ...SubjectOption) (*Channel[T], error) {
	s, err := NewSubject(opts...)
	if err != nil {
		return nil, err
	}
	c := &Channel[T]{subject: s}
	if err := HandleOperation(s, c.applySend); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Channel[T]) applySend(op channelSend[T]) {
	_ = Broadcast(c.subject, ChannelReceived[T]{Value: op.value})
}

// Send requests value be broadcast to all bindings.
func (c *Channel[T]) Send(value T) error {
	return Perform(c.subject, channelSend[T]{value: value})
}

// Bind attaches a new [ChannelBinding] to the channel.
func (c *Channel[T]) Bind() (*ChannelBinding[T], error) {
	b, err := NewBinding(c.subject)
	if err != nil {
		return nil, err
	}
	return &ChannelBinding[T]{Binding: b}, nil
}

// ClearBindings detaches all bindings from the channel.
func (c *Channel[T]) ClearBindings() error {
	return c.subject.ClearBindings()
}

// Dispose disposes the underlying Subject. Idempotent.
func (c *Channel[T]) Dispose() {
	c.subject.Dispose()
}

// ChannelBinding registers callbacks against a [Channel].
type ChannelBinding[T any] struct {
	*Binding
}

// OnReceived invokes fn for every sent value.
func (b *ChannelBinding[T]) OnReceived(fn func(ChannelReceived[T]), predicates ...func(ChannelReceived[T]) bool) error {
	return AddCallback(b.Binding, fn, predicates...)
}
