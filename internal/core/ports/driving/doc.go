// Package driving provides interfaces consumed by delivery mechanisms
// (primary/inbound ports). The CLI and future RAG layers call these;
// services under internal/core/services implement them.
package driving
