// Package services implements the driving port interfaces.
// Services contain the answering pipeline's business logic and
// orchestrate calls to driven ports (adapters).
//
// Services hold no provider or storage specifics; those live behind
// the driven ports.
package services
