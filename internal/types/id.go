// README: Opaque identifiers shared by all modules.
package types

import "github.com/google/uuid"

// ID is a collection-scoped opaque document identifier.
type ID string

func NewID() ID {
	return ID(uuid.NewString())
}

func (id ID) String() string {
	return string(id)
}
