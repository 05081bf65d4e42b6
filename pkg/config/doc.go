/*
Package config loads settings of the modcluster tools from an optional
YAML file and MODCLUSTER_* environment variables.

# Sources

	┌──────────────────────── CONFIG ────────────────────────┐
	│                                                        │
	│   defaults ──► settings file ──► MODCLUSTER_* env      │
	│                (--config)                              │
	│                      lowest ─────────► highest         │
	│                                  │                     │
	│                                  ▼                     │
	│                      Settings ──► Validate             │
	└────────────────────────────────────────────────────────┘

Environment names are the upper-cased key path joined by underscores:
transform.target is MODCLUSTER_TRANSFORM_TARGET and watch.debounce_ms is
MODCLUSTER_WATCH_DEBOUNCE_MS.

# Settings

	log:
	  level: info           # debug, info, warn or error
	  json: false
	transform:
	  target: 1.0.0         # version older cluster members run
	output:
	  indent: "    "
	watch:
	  debounce_ms: 300
	metrics:
	  addr: ":9090"

# Validation

Load fails when the file cannot be read or a value is out of range. All
validation errors are reported together:

	s, err := config.Load(path)
	if err != nil {
		return err
	}
	target, _ := s.TargetVersion()
*/
package config
