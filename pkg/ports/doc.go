/*
Package ports defines the driven ports (interfaces) around the execution engine.

The engine itself never touches storage. These interfaces let the batch
runner, the HTTP server and the MCP server find machine descriptions and keep
run results without depending on a particular backend.

# Key Interfaces

  - MachineLoader: retrieves raw machine descriptions by name (memory, filesystem).
  - RunResultStore: persists finished runs (memory, Redis).
*/
package ports
