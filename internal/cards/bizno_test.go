// Copyright (c) 2026 Cardbase. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package cards_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sy2force/cardbase/internal/cards"
	"github.com/Sy2force/cardbase/internal/platform/apperr"
)

// fakeChecker scripts ExistsByBusinessNumber: the first `takenCalls`
// invocations report the candidate as taken, the rest as free.
type fakeChecker struct {
	takenCalls int
	err        error
	calls      int
}

func (checker *fakeChecker) ExistsByBusinessNumber(_ context.Context, _ int) (bool, error) {
	checker.calls++
	if checker.err != nil {
		return false, checker.err
	}
	return checker.calls <= checker.takenCalls, nil
}

/*
TestAllocator_FirstDraw verifies that a free number is returned on the first
attempt and lies inside the public 6-digit range.
*/
func TestAllocator_FirstDraw(t *testing.T) {
	checker := &fakeChecker{}
	allocator := cards.NewBusinessNumberAllocator(checker)

	number, err := allocator.Allocate(context.Background())
	require.NoError(t, err)

	assert.GreaterOrEqual(t, number, cards.BusinessNumberMin)
	assert.LessOrEqual(t, number, cards.BusinessNumberMax)
	assert.Equal(t, 1, checker.calls)
}

/*
TestAllocator_RetriesAfterCollision verifies that taken candidates are
discarded and a later free draw succeeds within the attempt budget.
*/
func TestAllocator_RetriesAfterCollision(t *testing.T) {
	checker := &fakeChecker{takenCalls: 3}
	allocator := cards.NewBusinessNumberAllocator(checker)

	number, err := allocator.Allocate(context.Background())
	require.NoError(t, err)

	assert.GreaterOrEqual(t, number, cards.BusinessNumberMin)
	assert.LessOrEqual(t, number, cards.BusinessNumberMax)
	assert.Equal(t, 4, checker.calls)
}

/*
TestAllocator_Exhaustion verifies that a saturated number space fails with
the allocation-exhausted conflict after exactly the attempt budget.
*/
func TestAllocator_Exhaustion(t *testing.T) {
	checker := &fakeChecker{takenCalls: 1000}
	allocator := cards.NewBusinessNumberAllocator(checker)

	_, err := allocator.Allocate(context.Background())
	require.Error(t, err)

	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "ALLOCATION_EXHAUSTED", ae.Code)
	assert.Equal(t, 10, checker.calls)
}

/*
TestAllocator_CheckerFailure verifies that store errors abort allocation
immediately instead of burning the attempt budget.
*/
func TestAllocator_CheckerFailure(t *testing.T) {
	checker := &fakeChecker{err: errors.New("connection reset")}
	allocator := cards.NewBusinessNumberAllocator(checker)

	_, err := allocator.Allocate(context.Background())
	require.Error(t, err)

	assert.Equal(t, 1, checker.calls)
	assert.Nil(t, apperr.As(err))
}
