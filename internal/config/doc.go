// Package config loads, normalizes, and validates collator configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// COLLATOR_MODEL_DIR. The Config type centralizes every knob the collation
// pipeline, batch driver, and CLI need: where model outputs live, where records
// go, how each component file is named and laid out, and which optional
// components are switched off by default.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
