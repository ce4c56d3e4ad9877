// Package main provides the entry point for the Accelerator Admin application.
// It runs a server-rendered administrative web interface built on the Fiber
// framework, backed by a relational store through gorm. Platform-wide and
// per-user settings are kept as sparse typed overrides on top of code-defined
// defaults and managed through the settings overlay engine in internal/settings.
package main
