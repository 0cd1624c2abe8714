/*
Package ports defines the driven ports (interfaces) of the fomod engine.

These interfaces decouple the evaluation core from external implementations,
allowing the engine to work with various parsers, file sources and session stores.

# Key Interfaces

  - DocumentParser: Turns ModuleConfig.xml / info.xml into domain types.
  - FileOracle: Reports Missing / Inactive / Active for file dependencies.
  - SessionStore: Persists and loads session Snapshots.
  - DistributedLocker: Provides distributed locking for concurrent session access.
*/
package ports
