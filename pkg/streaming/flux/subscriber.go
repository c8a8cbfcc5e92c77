package flux

// Subscriber receives the signals of one subscription: zero or more OnNext
// calls followed by at most one OnError or OnComplete. Calls are never
// concurrent with each other.
type Subscriber[T any] interface {
	OnNext(value T)
	OnError(err error)
	OnComplete()
}

// Callbacks adapts plain functions to Subscriber. Nil fields are ignored.
type Callbacks[T any] struct {
	Next     func(T)
	Error    func(error)
	Complete func()
}

func (c Callbacks[T]) OnNext(value T) {
	if c.Next != nil {
		c.Next(value)
	}
}

func (c Callbacks[T]) OnError(err error) {
	if c.Error != nil {
		c.Error(err)
	}
}

func (c Callbacks[T]) OnComplete() {
	if c.Complete != nil {
		c.Complete()
	}
}
