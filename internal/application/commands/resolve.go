package commands

import (
	"fmt"
	"strings"

	"scaffale/internal/application"
	"scaffale/internal/domain"
)

// ResolveLocation finds a location by ID, by full breadcrumb or by name.
// A name shared by several locations is rejected as ambiguous.
func ResolveLocation(inv *application.Inventory, ref string) (domain.StorageLocation, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return domain.StorageLocation{}, application.ValidateRequired("locationID", ref)
	}
	if loc, ok := inv.Tree().Get(ref); ok {
		return loc, nil
	}

	var byName []domain.StorageLocation
	for _, loc := range inv.Tree().Snapshot() {
		if strings.EqualFold(inv.Tracker().PathOf(loc.ID), ref) {
			return loc, nil
		}
		if strings.EqualFold(loc.Name, ref) {
			byName = append(byName, loc)
		}
	}

	switch len(byName) {
	case 0:
		return domain.StorageLocation{}, domain.NewLocationError(domain.LocationNotFound, ref, "")
	case 1:
		return byName[0], nil
	default:
		paths := make([]string, 0, len(byName))
		for _, loc := range byName {
			paths = append(paths, inv.Tracker().PathOf(loc.ID))
		}
		return domain.StorageLocation{}, &application.ValidationError{
			Field:   "locationID",
			Message: fmt.Sprintf("%q matches %d locations: %s", ref, len(byName), strings.Join(paths, "; ")),
		}
	}
}

// ResolveLocationID is ResolveLocation returning only the ID. An empty
// reference resolves to "".
func ResolveLocationID(inv *application.Inventory, ref string) (string, error) {
	if strings.TrimSpace(ref) == "" {
		return "", nil
	}
	loc, err := ResolveLocation(inv, ref)
	if err != nil {
		return "", err
	}
	return loc.ID, nil
}
