package courtside

const (
	BOUNCE EventType = iota
	SCORE
	DESPAWN
	SPAWN
)

type EventType uint8

// Event interface - all events implement this
type Event interface {
	Type() EventType
}

// BounceEvent is sent when a ball starts touching a surface. Other is set
// when the surface is another entity.
type BounceEvent struct {
	Ball    Handle
	Surface Surface
	Other   Handle
	// Speed is the approach speed along the contact normal, for audio.
	Speed float64
}

func (e BounceEvent) Type() EventType { return BOUNCE }

// ScoreEvent is sent when a ball drops into the hoop.
type ScoreEvent struct {
	Ball  Handle
	Speed float64
}

func (e ScoreEvent) Type() EventType { return SCORE }

type DespawnEvent struct {
	Handle Handle
	Kind   Kind
}

func (e DespawnEvent) Type() EventType { return DESPAWN }

type SpawnEvent struct {
	Handle Handle
	Kind   Kind
}

func (e SpawnEvent) Type() EventType { return SPAWN }

type pairKey struct {
	ball    Handle
	surface Surface
	other   Handle
}

// makePairKey creates a normalized pair key; ball pairs are ordered so that
// either ball reports the same key.
func makePairKey(ball Handle, surface Surface, other Handle) pairKey {
	if surface == SurfaceBall && other.Index < ball.Index {
		ball, other = other, ball
	}
	return pairKey{ball: ball, surface: surface, other: other}
}

// EventListener - callback for events
type EventListener func(event Event)

// Events manager
type Events struct {
	// Listeners by event type
	listeners map[EventType][]EventListener

	// Event buffer to send at flush
	buffer []Event

	// Contact tracking so that only new contacts become events. current
	// keeps insertion order for a deterministic flush.
	previousActivePairs map[pairKey]bool
	currentActivePairs  map[pairKey]float64
	currentOrder        []pairKey
}

func NewEvents() Events {
	return Events{
		listeners:           make(map[EventType][]EventListener),
		buffer:              make([]Event, 0, 256),
		previousActivePairs: make(map[pairKey]bool),
		currentActivePairs:  make(map[pairKey]float64),
	}
}

// Subscribe adds a listener for an event type
func (e *Events) Subscribe(eventType EventType, listener EventListener) {
	e.listeners[eventType] = append(e.listeners[eventType], listener)
}

// recordContact is called during a step for every contact of a ball. The
// fastest approach in the step is kept.
func (e *Events) recordContact(ball Handle, surface Surface, other Handle, speed float64) {
	pair := makePairKey(ball, surface, other)
	previous, seen := e.currentActivePairs[pair]
	if !seen {
		e.currentOrder = append(e.currentOrder, pair)
	}
	if !seen || speed > previous {
		e.currentActivePairs[pair] = speed
	}
}

// active reports whether the pair was in contact at the end of the last
// step.
func (e *Events) active(ball Handle, surface Surface, other Handle) bool {
	return e.previousActivePairs[makePairKey(ball, surface, other)]
}

func (e *Events) emitSpawn(h Handle, kind Kind) {
	e.buffer = append(e.buffer, SpawnEvent{Handle: h, Kind: kind})
}

// emitDespawn buffers the event and forgets every contact of h.
func (e *Events) emitDespawn(h Handle, kind Kind) {
	e.buffer = append(e.buffer, DespawnEvent{Handle: h, Kind: kind})

	for pair := range e.previousActivePairs {
		if pair.ball == h || pair.other == h {
			delete(e.previousActivePairs, pair)
		}
	}
	n := 0
	for _, pair := range e.currentOrder {
		if pair.ball == h || pair.other == h {
			delete(e.currentActivePairs, pair)
			continue
		}
		e.currentOrder[n] = pair
		n++
	}
	e.currentOrder = e.currentOrder[:n]
}

// processContactEvents turns contacts that were not active in the previous
// step into BOUNCE and SCORE events.
func (e *Events) processContactEvents() {
	for _, pair := range e.currentOrder {
		if e.previousActivePairs[pair] {
			continue
		}

		speed := e.currentActivePairs[pair]
		if pair.surface == SurfaceHoop {
			e.buffer = append(e.buffer, ScoreEvent{Ball: pair.ball, Speed: speed})
		} else {
			e.buffer = append(e.buffer, BounceEvent{
				Ball:    pair.ball,
				Surface: pair.surface,
				Other:   pair.other,
				Speed:   speed,
			})
		}
	}

	// Swap for next step and clear current
	clear(e.previousActivePairs)
	for _, pair := range e.currentOrder {
		e.previousActivePairs[pair] = true
	}
	clear(e.currentActivePairs)
	e.currentOrder = e.currentOrder[:0]
}

// flush sends all buffered events and clears the buffer
func (e *Events) flush() {
	e.processContactEvents()

	for _, event := range e.buffer {
		if listeners, ok := e.listeners[event.Type()]; ok {
			for _, listener := range listeners {
				listener(event)
			}
		}
	}
	e.buffer = e.buffer[:0]
}
