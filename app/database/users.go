package database

import (
	"database/sql"
	"fmt"
	"strings"

	"maia-sss/app/models"
)

const userColumns = `id, email, first_name, last_name, role, school_id, sss_position, google_id, department, phone, created_at, updated_at`

func scanUser(row *sql.Row) (*models.User, error) {
	user := &models.User{}
	var role *string
	err := row.Scan(
		&user.ID, &user.Email, &user.FirstName, &user.LastName, &role,
		&user.SchoolID, &user.SSSPosition, &user.GoogleID, &user.Department,
		&user.Phone, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if role != nil {
		r := models.UserRole(*role)
		user.Role = &r
	}
	return user, nil
}

func GetUserByID(db *sql.DB, userID string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(db.QueryRow(query, userID))
}

func GetUserByEmail(db *sql.DB, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return scanUser(db.QueryRow(query, email))
}

// GetUserRole looks up the caller's role record. sql.ErrNoRows means the
// profile row itself is missing, which handlers report as 404, not to be
// confused with a missing target resource.
func GetUserRole(db *sql.DB, userID string) (*models.UserRole, error) {
	var role *string
	err := db.QueryRow(`SELECT role FROM users WHERE id = $1`, userID).Scan(&role)
	if err != nil {
		return nil, err
	}
	if role == nil {
		return nil, nil
	}
	r := models.UserRole(*role)
	return &r, nil
}

// CreateUserProfile provisions a profile row on first OAuth login.
// The role is left NULL until onboarding.
func CreateUserProfile(db *sql.DB, email, googleID string, firstName, lastName *string) (*models.User, error) {
	query := `INSERT INTO users (email, google_id, first_name, last_name, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, NOW(), NOW())
			  RETURNING ` + userColumns
	return scanUser(db.QueryRow(query, email, googleID, firstName, lastName))
}

// UpdateUserProfile applies the given column values to a user row and
// returns the updated row. Callers are responsible for allowlisting keys.
func UpdateUserProfile(db *sql.DB, userID string, fields map[string]interface{}) (*models.User, error) {
	setClauses := make([]string, 0, len(fields)+1)
	args := make([]interface{}, 0, len(fields)+1)
	i := 1
	for column, value := range fields {
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", column, i))
		args = append(args, value)
		i++
	}
	setClauses = append(setClauses, "updated_at = NOW()")
	args = append(args, userID)

	query := fmt.Sprintf(`UPDATE users SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(setClauses, ", "), i, userColumns)
	return scanUser(db.QueryRow(query, args...))
}

// GetUsers lists user profiles, optionally restricted to one role,
// ordered by name. Used for staff and teacher pickers.
func GetUsers(db *sql.DB, role string) ([]models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users`
	var args []interface{}
	if role != "" {
		query += ` WHERE role = $1`
		args = append(args, role)
	}
	query += ` ORDER BY first_name, last_name, email`

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		user := models.User{}
		var r *string
		if err := rows.Scan(
			&user.ID, &user.Email, &user.FirstName, &user.LastName, &r,
			&user.SchoolID, &user.SSSPosition, &user.GoogleID, &user.Department,
			&user.Phone, &user.CreatedAt, &user.UpdatedAt,
		); err != nil {
			return nil, err
		}
		if r != nil {
			ur := models.UserRole(*r)
			user.Role = &ur
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

// UserExists reports whether a user row exists.
func UserExists(db *sql.DB, userID string) (bool, error) {
	var id string
	err := db.QueryRow(`SELECT id FROM users WHERE id = $1`, userID).Scan(&id)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
