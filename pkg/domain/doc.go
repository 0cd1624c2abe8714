/*
Package domain contains the core domain models of the fomod installer engine.

It defines the typed representation of a parsed module configuration and the
mutable selection state a wizard session carries. This package is kept pure and
free of I/O, following Hexagonal Architecture principles.

# Key Entities

  - Document: the immutable module configuration (Steps, unconditional Installs).
  - Step / Group / Option: wizard pages, their option clusters and the choices.
  - Dependency: a tagged boolean expression over flags and file states.
  - Install: a source to destination mapping ordered by a textual priority.
  - SelectionState: which options are selected, per step and group.
  - Snapshot: the persisted form of a session.
*/
package domain
