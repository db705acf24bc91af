package timebill

import "github.com/solobill/timebill/id"

// ID is the identifier type for all timebill entities.
type ID = id.ID

// Prefix identifies the entity type encoded in a TypeID.
type Prefix = id.Prefix
