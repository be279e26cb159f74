// Package ports defines interfaces between the core and its adapters.
// Implementations live in adapters/.
package ports

// IDGenerator generates unique identifiers, such as dispatch pass IDs.
type IDGenerator interface {
	New() string
}
