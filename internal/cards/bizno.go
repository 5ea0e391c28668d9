// Copyright (c) 2026 Cardbase. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package cards

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/Sy2force/cardbase/internal/platform/apperr"
)

// # Business Number Allocation

const (
	// BusinessNumberMin is the inclusive lower bound of the public number range.
	BusinessNumberMin = 100000

	// BusinessNumberMax is the inclusive upper bound of the public number range.
	BusinessNumberMax = 999999

	// maxAllocationAttempts bounds both the allocator's internal pre-check
	// retries and the caller's allocate-and-insert retries on conflict.
	maxAllocationAttempts = 10
)

// BusinessNumberChecker is the narrow store view the allocator needs.
type BusinessNumberChecker interface {
	ExistsByBusinessNumber(context context.Context, number int) (bool, error)
}

// BusinessNumberAllocator draws collision-free 6-digit public identifiers.
//
// # Contract
//
// The existence pre-check reduces collision probability to near-zero in
// practice but is NOT the source of truth: two concurrent allocators can
// both pass the check for the same value before either inserts. The store's
// unique constraint on businessnumber is authoritative; the insert caller
// must treat a 409 Conflict as "retry allocation-and-insert as a unit",
// bounded by the same attempt budget.
type BusinessNumberAllocator struct {
	checker BusinessNumberChecker

	// randInt draws a uniform integer in [min, max]. Injected for
	// deterministic tests.
	randInt func(min, max int) int
}

// NewBusinessNumberAllocator constructs an allocator backed by the given checker.
func NewBusinessNumberAllocator(checker BusinessNumberChecker) *BusinessNumberAllocator {
	return &BusinessNumberAllocator{
		checker: checker,
		randInt: func(min, max int) int {
			return min + rand.Intn(max-min+1)
		},
	}
}

/*
Allocate draws a business number believed to be free.

Description: Draws uniformly random integers in [100000, 999999] and checks
each against the store, up to the attempt budget. With ~900k values and a
directory far smaller than that, exhaustion indicates either near-saturation
or a store problem; either way the caller may retry the whole creation.

Parameters:
  - context: context.Context

Returns:
  - int: A business number free at check time
  - error: AllocationExhausted after the attempt budget, or store failures
*/
func (allocator *BusinessNumberAllocator) Allocate(context context.Context) (int, error) {
	for attempt := 0; attempt < maxAllocationAttempts; attempt++ {
		candidate := allocator.randInt(BusinessNumberMin, BusinessNumberMax)

		taken, err := allocator.checker.ExistsByBusinessNumber(context, candidate)
		if err != nil {
			return 0, fmt.Errorf("card_allocator_existence_check_failed: %w", err)
		}

		if !taken {
			return candidate, nil
		}
	}

	return 0, apperr.AllocationExhausted()
}
