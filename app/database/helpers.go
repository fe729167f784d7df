package database

import (
	"database/sql"

	"maia-sss/app/models"
)

// displayName flattens a joined user's name fields into "First Last",
// falling back to email when both are blank. Returns nil when the join
// produced no row (NULL email).
func displayName(first, last, email sql.NullString) *string {
	if !email.Valid {
		return nil
	}
	name := ""
	if first.Valid {
		name = first.String
	}
	if last.Valid && last.String != "" {
		if name != "" {
			name += " "
		}
		name += last.String
	}
	if name == "" {
		name = email.String
	}
	return &name
}

// userRef builds the embedded user projection from a LEFT JOIN, returning
// nil when the join matched nothing.
func userRef(id, email, first, last, position sql.NullString) *models.UserRef {
	if !id.Valid {
		return nil
	}
	return &models.UserRef{
		ID:          id.String,
		Email:       email.String,
		FirstName:   nullToPtr(first),
		LastName:    nullToPtr(last),
		SSSPosition: nullToPtr(position),
	}
}

func nullToPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}
