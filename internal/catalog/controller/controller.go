// Copyright (c) 2026 Mediashelf. All rights reserved.
// Author: dev@mediashelf.app

/*
Package controller holds the integrity primitives shared by every entity
controller.

Two policies live here and nowhere else:

  - Existence preconditions: "does my foreign reference resolve" checks,
    evaluated concurrently and converted into a caller-supplied error that
    names the business intent instead of the storage mechanics.
  - Cascade-or-refuse deletion: a non-forced delete of a container is
    refused while dependents exist; a forced delete fans out concurrently
    and sums the removed counts.

There is no rollback: a branch that fails after siblings completed leaves
their work in place, and the first error wins. That mirrors running without
multi-record transactions and is part of the documented contract.
*/
package controller

import (
	"context"
	"sync"

	"github.com/mediashelf/mediashelf/internal/platform/apperr"
)

// Check is one existence probe. It reports whether the referenced record
// was found; storage failures are returned as-is.
type Check func(ctx context.Context) (bool, error)

// Found adapts a lookup result into a passing or failing [Check].
func Found[T any](entity *T, err error) Check {
	return func(context.Context) (bool, error) {
		return entity != nil, err
	}
}

// RequireAll runs every check concurrently and joins them. Storage errors
// propagate unchanged; any check that reports "not found" fails the whole
// precondition with failWith, so the caller's error describes what it was
// trying to do rather than which read came back empty.
func RequireAll(ctx context.Context, failWith error, checks ...Check) error {
	if len(checks) == 0 {
		return nil
	}

	var (
		waitGroup sync.WaitGroup
		mu        sync.Mutex
		firstErr  error
		missing   bool
	)

	for _, check := range checks {
		waitGroup.Add(1)
		go func(check Check) {
			defer waitGroup.Done()

			found, err := check(ctx)

			mu.Lock()
			defer mu.Unlock()
			if err != nil && firstErr == nil {
				firstErr = err
			}
			if err == nil && !found {
				missing = true
			}
		}(check)
	}

	waitGroup.Wait()

	if firstErr != nil {
		return firstErr
	}
	if missing {
		return failWith
	}
	return nil
}

// Step is one independent precondition producing its own typed error.
// Unlike [Check], the step decides what failure means; [Parallel] only
// coordinates.
type Step func(ctx context.Context) error

// Parallel runs every step concurrently and joins them. When several steps
// fail, the error of the earliest-declared step wins, so failures are
// deterministic regardless of scheduling.
func Parallel(ctx context.Context, steps ...Step) error {
	if len(steps) == 0 {
		return nil
	}

	errs := make([]error, len(steps))
	var waitGroup sync.WaitGroup

	for i, step := range steps {
		waitGroup.Add(1)
		go func(i int, step Step) {
			defer waitGroup.Done()
			errs[i] = step(ctx)
		}(i, step)
	}

	waitGroup.Wait()

	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

// DeleteFn is one branch of a cascade, returning how many records it removed.
type DeleteFn func(ctx context.Context) (int64, error)

// CascadeDelete implements the safe-vs-forced delete policy. Without force
// it counts the dependents and refuses with DELETE_NOT_EMPTY when any exist.
// With force (or no dependents) every delete branch runs concurrently; the
// counts are summed and the first failure is returned. Branches that already
// completed are not undone.
func CascadeDelete(ctx context.Context, force bool, notEmptyMessage string, countDependents func(ctx context.Context) (int64, error), deletes ...DeleteFn) (int64, error) {
	if !force && countDependents != nil {
		dependents, err := countDependents(ctx)
		if err != nil {
			return 0, err
		}
		if dependents > 0 {
			return 0, apperr.DeleteNotEmpty(notEmptyMessage)
		}
	}

	var (
		waitGroup sync.WaitGroup
		mu        sync.Mutex
		firstErr  error
		total     int64
	)

	for _, deleteFn := range deletes {
		waitGroup.Add(1)
		go func(deleteFn DeleteFn) {
			defer waitGroup.Done()

			count, err := deleteFn(ctx)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if firstErr == nil {
					firstErr = err
				}
				return
			}
			total += count
		}(deleteFn)
	}

	waitGroup.Wait()

	if firstErr != nil {
		return total, firstErr
	}
	return total, nil
}
