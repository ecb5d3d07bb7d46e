// Package models defines the data exchanged with the management server and
// persisted in the local store.
package models
