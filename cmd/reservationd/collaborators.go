package main

import (
	"context"
	"errors"
)

var errCollaboratorDetached = errors.New("the catalog and account services are not connected to this process")

// detachedCollaborators stands in for the account, reputation and catalog services, which the
// commands of this binary never consult. Sweeping, migrating and reading touch only the event store.
type detachedCollaborators struct{}

func (detachedCollaborators) IsActive(context.Context, string) (bool, error) {
	return false, errCollaboratorDetached
}

func (detachedCollaborators) TrustScore(context.Context, string) (float64, error) {
	return 0, errCollaboratorDetached
}

func (detachedCollaborators) IsBorrowable(context.Context, string) (bool, error) {
	return false, errCollaboratorDetached
}

func (detachedCollaborators) OwnerOf(context.Context, string) (string, bool, error) {
	return "", false, errCollaboratorDetached
}

func (detachedCollaborators) MarkBorrowed(context.Context, string) error {
	return errCollaboratorDetached
}

func (detachedCollaborators) MarkAvailable(context.Context, string) error {
	return errCollaboratorDetached
}
