// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package model defines the inner most layer of the Clean Architecture
// containing the business-level models, also called entities or domain.
// This layer may not depend on outter layers, while all other layers
// may depend on it.
// By the way, it is acceptable to annotate structs in this package with
// multiple frameworks dependent tags (e.g., as required by the JSON
// and validation libraries) since adding more tags does not complicate
// definition of a struct, but can prevent unnecessary duplication.
// Database specific structs are kept in the adapter layer though,
// so the persisted layout may evolve independently.
package model

// ID is the numeric identity of all persisted entities.
// Zero is never assigned by the database and so it represents an
// absent or not yet persisted entity.
type ID = int64

// Normalizer is implemented by entities which need to canonicalize
// their fields and verify their cross-field invariants before being
// persisted. Single field constraints are expressed by the `binding`
// struct tags and are checked by the adapter layer, but Normalize is
// the last line of defence and is called by the use cases layer right
// before every create or update operation.
type Normalizer interface {
	Normalize() error
}
