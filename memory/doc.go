// Package memory gives the assistant persistent, semantically
// searchable memory around a rolling in-process conversation buffer.
//
// Architecture:
//   - Store: vector storage backend with two collections, conversation
//     turns and user facts (chromem-go, embedded and persistent)
//   - Embedder: text-to-vector conversion (ONNX all-MiniLM-L6-v2,
//     Ollama, or a mock for tests; a ristretto-backed cache decorator
//     keeps repeat embeddings cheap)
//   - Manager: owns the buffer and implements the retrieval policy,
//     the fact-extraction trigger, compaction, and session saves
//
// Per turn, the chat loop calls ContextForResponse before the model
// call and AddMessage for each completed message after it. Store and
// embedder faults are isolated from that hot path: the conversation
// keeps going with recency-only context while long-term recall is
// down. Session saves are the one operation that surfaces errors.
//
// A Manager serves a single session and is not safe for concurrent
// use; run one Manager per session.
package memory
