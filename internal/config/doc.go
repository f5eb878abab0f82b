// Package config provides configuration structures and utilities for nobelstats.
// It defines where the dataset is read from, where charts and reports are
// written, how CSV columns are mapped, and which outputs are enabled.
package config
