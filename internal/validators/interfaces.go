// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package validators checks request payloads before they reach the store.
//
// A [Validator] validates a value as a whole or, when field names are given,
// only those fields. Services receive validators by injection and translate
// their sentinel errors into HTTP 400 responses.
package validators

import "context"

// Validator validates the provided input and optionally restricts
// validation to specific named fields.
type Validator interface {
	Validate(context.Context, any, ...string) error
}
