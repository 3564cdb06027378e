package usecase

import "fmt"

// ErrPersistence indicates an infrastructure/repository failure inside a use case
var ErrPersistence = fmt.Errorf("meeting use case persistence error")

// maxWriteAttempts bounds how often a use case re-reads and retries a
// conditional room write after losing a race.
const maxWriteAttempts = 3
