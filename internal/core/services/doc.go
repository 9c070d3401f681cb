// Package services implements the driving port interfaces.
// Services contain the core pipeline logic and orchestrate calls to
// driven ports (adapters): collect, normalise, chunk, embed, index on
// the write path; embed, search, hydrate on the read path.
package services
