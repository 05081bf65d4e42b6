/*
Package events provides an in-memory event broker for configuration
change notifications.

The management controller publishes an event for every accepted operation
and the file watcher publishes one for every reload. Subscribers such as
the CLI watch command or tests read them from buffered channels.

# Architecture

	┌──────────────────── EVENT BROKER ────────────────────────┐
	│                                                            │
	│  Controller ──┐                                            │
	│               ├──► eventCh (buffer: 100)                   │
	│  Watcher ─────┘         │                                  │
	│                         ▼                                  │
	│                  broadcast loop                            │
	│                         │                                  │
	│          ┌──────────────┼──────────────┐                   │
	│          ▼              ▼              ▼                   │
	│     subscriber     subscriber     subscriber               │
	│     (buffer: 50)   (buffer: 50)   (buffer: 50)             │
	└────────────────────────────────────────────────────────────┘

# Event Types

	config.added       config.updated      config.removed
	ssl.added          ssl.removed
	metric.added       metric.removed      provider.created
	file.reloaded      file.invalid

Every event carries a random UUID so subscribers can correlate log lines
with notifications.

# Usage

	broker := events.NewBroker()
	broker.Start()
	defer broker.Stop()

	sub := broker.Subscribe()
	defer broker.Unsubscribe(sub)

	for ev := range sub {
		fmt.Println(ev.Type, ev.Metadata["address"])
	}

# Delivery

Publish blocks only while the broker queue is full. Delivery to a
subscriber whose buffer is full is skipped, so a slow reader loses events
rather than stalling the controller.
*/
package events
