// Package model contains the in-memory representation of workflow
// configuration and runtime state used by markflow.
//
// Workflow definitions (places, transitions, initial places), the metadata
// the manager keeps next to them (place configs, global actions) and the
// marking of a subject are all plain values defined here so that the engine,
// the marking stores and the manager can share them without import cycles.
// The element sub-package provides a ready to use subject implementation.
package model
