// Copyright 2019 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package engine

// Broker broadcasts phase-transition events from a single publisher (the
// engine's state machine) to multiple subscribers (a CLI logging phase
// changes at -v=1, say), so the engine itself never depends on a
// logging package directly.
// https://stackoverflow.com/questions/36417199/how-to-broadcast-message-using-channel
type Broker struct {
	stopCh    chan struct{}
	publishCh chan Event
	subCh     chan chan Event
	unsubCh   chan chan Event
}

// NewBroker constructs a Broker; call Start in its own goroutine before
// publishing or subscribing.
func NewBroker() *Broker {
	return &Broker{
		stopCh:    make(chan struct{}),
		publishCh: make(chan Event, 1),
		subCh:     make(chan chan Event, 1),
		unsubCh:   make(chan chan Event, 1),
	}
}

// Start runs the broker's dispatch loop until Stop is called. Meant to
// run in its own goroutine.
func (b *Broker) Start() {
	subs := map[chan Event]struct{}{}
	for {
		select {
		case <-b.stopCh:
			return
		case msgCh := <-b.subCh:
			subs[msgCh] = struct{}{}
		case msgCh := <-b.unsubCh:
			delete(subs, msgCh)
		case msg := <-b.publishCh:
			for msgCh := range subs {
				// msgCh is buffered, use non-blocking send to protect the broker:
				select {
				case msgCh <- msg:
				default:
				}
			}
		}
	}
}

// Stop terminates the broker's dispatch loop.
func (b *Broker) Stop() {
	close(b.stopCh)
}

// Subscribe registers a new listener and returns its event channel.
func (b *Broker) Subscribe() chan Event {
	msgCh := make(chan Event, 8)
	b.subCh <- msgCh
	return msgCh
}

// Unsubscribe removes a listener previously returned by Subscribe.
func (b *Broker) Unsubscribe(msgCh chan Event) {
	b.unsubCh <- msgCh
}

// Publish broadcasts an event to every current subscriber.
func (b *Broker) Publish(msg Event) {
	b.publishCh <- msg
}
