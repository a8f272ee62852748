package store

import (
	"sync"
	"time"

	"choir-attendance/internal/clock"
)

type Kind string

const (
	KindMember Kind = "member"
	KindEvent  Kind = "event"
	KindTeam   Kind = "team"
)

type Op string

const (
	OpCreate Op = "create"
	OpUpdate Op = "update"
	OpDelete Op = "delete"
)

// Change announces a committed write.
type Change struct {
	Kind Kind      `json:"kind"`
	Op   Op        `json:"op"`
	ID   string    `json:"id"`
	At   time.Time `json:"at"`
}

const subscriberBuffer = 16

// Broker fans changes out to subscribers. Publish never blocks: a subscriber
// whose buffer is full misses the change.
type Broker struct {
	clk  clock.Clock
	mu   sync.Mutex
	next int
	subs map[int]chan Change
}

func NewBroker(clk clock.Clock) *Broker {
	if clk == nil {
		clk = clock.Real()
	}
	return &Broker{clk: clk, subs: make(map[int]chan Change)}
}

func (b *Broker) Subscribe() (<-chan Change, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := b.next
	b.next++
	ch := make(chan Change, subscriberBuffer)
	b.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, id)
			b.mu.Unlock()
			close(ch)
		})
	}
}

func (b *Broker) Publish(kind Kind, op Op, id string) {
	c := Change{Kind: kind, Op: op, ID: id, At: b.clk.Now()}
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, ch := range b.subs {
		select {
		case ch <- c:
		default:
		}
	}
}
