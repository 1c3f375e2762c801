package client

// Notifier receives user-visible notices emitted by the synchronizer.
// The rendering surface (toast, status line) is the caller's concern.
type Notifier interface {
	Success(message string)
	Error(message string)
}

// NotifierFuncs adapts two functions to the Notifier interface. Nil
// functions drop their notices.
type NotifierFuncs struct {
	OnSuccess func(message string)
	OnError   func(message string)
}

func (n NotifierFuncs) Success(message string) {
	if n.OnSuccess != nil {
		n.OnSuccess(message)
	}
}

func (n NotifierFuncs) Error(message string) {
	if n.OnError != nil {
		n.OnError(message)
	}
}
