/*
Package domain contains the core models shared by every layer of the machine engine.

It defines the vocabulary of a single-tape deterministic Turing machine: symbols,
head moves, state roles, execution policies and the terminal verdict of a run.
This package is kept pure and free of external dependencies like I/O or
persistence, following Hexagonal Architecture principles.

# Key Entities

  - Symbol: A tape value. Blank ("_") is reserved and always legal on tape.
  - Move: Head movement of a transition (Left or Right).
  - Role: The role of a state (start, accept, reject or ordinary).
  - Verdict: The terminal classification of a run, returned as data.
  - Result: Verdict plus final tape snapshot and step count.
  - Snapshot: A per-step view of a run, used by tracing.
*/
package domain
