package gen

// MessageDownPID is put into the mailbox of every process that was
// monitoring the terminated one.
type MessageDownPID struct {
	PID    PID
	Reason error
}

// MessageStop is a cooperative stop request. The runtime attaches no
// behavior to it - the receiver decides when, and whether, to act on it.
type MessageStop struct {
	From PID
}

// MessageCall is the envelope of a synchronous request made with core.Call.
type MessageCall struct {
	From    PID
	Request any
}

// MessageReply is the envelope of the response to a MessageCall. Replies
// carry the responder's PID so the caller's mailbox can demultiplex any
// number of outstanding requests.
type MessageReply struct {
	From     PID
	Response any
}
