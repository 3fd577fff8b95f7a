package chat

// messageRing is a fixed-capacity circular buffer of messages. Appends
// beyond capacity evict the oldest entry in O(1); iteration yields
// oldest-to-newest.
type messageRing struct {
	buf   []Message
	head  int
	count int
}

func newMessageRing(capacity int) *messageRing {
	if capacity < 1 {
		capacity = 1
	}
	return &messageRing{buf: make([]Message, capacity)}
}

// Append adds msg, returning the evicted message and true if the ring
// was full.
func (r *messageRing) Append(msg Message) (Message, bool) {
	if r.count < len(r.buf) {
		r.buf[(r.head+r.count)%len(r.buf)] = msg
		r.count++
		return Message{}, false
	}
	evicted := r.buf[r.head]
	r.buf[r.head] = msg
	r.head = (r.head + 1) % len(r.buf)
	return evicted, true
}

func (r *messageRing) Len() int { return r.count }

// Last returns up to n messages oldest-to-newest, ending at the most
// recent entry.
func (r *messageRing) Last(n int) []Message {
	if n > r.count {
		n = r.count
	}
	if n <= 0 {
		return nil
	}
	out := make([]Message, 0, n)
	start := r.count - n
	for i := start; i < r.count; i++ {
		out = append(out, r.buf[(r.head+i)%len(r.buf)])
	}
	return out
}
