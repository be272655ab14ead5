package physics

// entryQueue is a FIFO ring of trajectory entries that grows by doubling.
type entryQueue struct {
	buf   []TrajectoryEntry
	head  int
	count int
}

func (q *entryQueue) len() int { return q.count }

func (q *entryQueue) push(e TrajectoryEntry) {
	if q.count == len(q.buf) {
		q.grow()
	}
	q.buf[(q.head+q.count)%len(q.buf)] = e
	q.count++
}

func (q *entryQueue) popFront() {
	if q.count == 0 {
		return
	}
	q.buf[q.head] = TrajectoryEntry{}
	q.head = (q.head + 1) % len(q.buf)
	q.count--
}

func (q *entryQueue) front() TrajectoryEntry { return q.buf[q.head] }

func (q *entryQueue) back() TrajectoryEntry {
	return q.buf[(q.head+q.count-1)%len(q.buf)]
}

func (q *entryQueue) snapshot() []TrajectoryEntry {
	out := make([]TrajectoryEntry, q.count)
	for i := range out {
		out[i] = q.buf[(q.head+i)%len(q.buf)]
	}
	return out
}

func (q *entryQueue) grow() {
	n := len(q.buf) * 2
	if n == 0 {
		n = 16
	}
	buf := make([]TrajectoryEntry, n)
	copy(buf, q.snapshot())
	q.buf = buf
	q.head = 0
}
