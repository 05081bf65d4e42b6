/*
Package watch reloads a subsystem file when it changes on disk.

The watcher observes the directory holding the file rather than the file
itself, so editors that save by writing a temporary file and renaming it
over the original still trigger a reload.

# Reload Cycle

	┌──────────────────────── WATCH ─────────────────────────┐
	│                                                        │
	│   fsnotify (directory) ──► event for the file?         │
	│                                 │ yes                  │
	│                                 ▼                      │
	│                        debounce timer (reset)          │
	│                                 │ quiet                │
	│                                 ▼                      │
	│                          codec.Parse(file)             │
	│                     ┌───────────┴───────────┐          │
	│                     ▼ ok                    ▼ error    │
	│              Handler(doc)            health: unhealthy │
	│              health: healthy         file.invalid      │
	│              file.reloaded                             │
	│                     └───────────┬───────────┘          │
	│                                 ▼                      │
	│                   reloads_total{outcome}               │
	└────────────────────────────────────────────────────────┘

Create, write, remove and rename events all count. A burst of events
inside the debounce interval causes one reload.

# Usage

	w := watch.New(path, 300*time.Millisecond, func(doc *codec.Document) {
		ctrl.Load(doc.Tree)
	}, broker)
	if err := w.Start(); err != nil {
		return err
	}
	defer w.Stop()

Start parses the file once before returning. An invalid initial file is
reported the same way as a failed reload and the watcher keeps running,
so fixing the file on disk recovers without a restart. Reload can also be
called directly.

The broker is optional. When nil no events are published.
*/
package watch
