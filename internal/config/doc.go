// Package config provides configuration structures and utilities for frontaudit.
// It defines where source files are read from, which files are audited,
// where reports are written, and in which format.
package config
