package idgen

import "github.com/google/uuid"

// NewFunc produces globally unique identifiers. Stub in tests for
// deterministic ids.
var NewFunc = func() string { return uuid.New().String() }

func New() string { return NewFunc() }
