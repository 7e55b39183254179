package queries

import (
	"database/sql"
	"errors"
	"log"

	"github.com/davedra/peerhabit-backend/app/models"
	"github.com/google/uuid"
)

type UserQueries struct {
	DB *sql.DB
}

func (q *UserQueries) GetUserByID(id uuid.UUID) (models.User, error) {
	user := models.User{}

	query := `SELECT uid, username, email, timezone, password_hash, created_at, updated_at FROM users WHERE uid = $1`
	err := q.DB.QueryRow(query, id).Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.Timezone,
		&user.PasswordHash,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return user, errors.New("user not found")
		}
		log.Printf("event=user_get_failed user=%s error=%v", id, err)
		return user, errors.New("unable to get user, DB error")
	}

	return user, nil
}

func (q *UserQueries) GetUserByEmail(email string) (models.User, error) {
	user := models.User{}

	query := `SELECT uid, username, email, timezone, password_hash, created_at, updated_at FROM users WHERE email = $1`
	err := q.DB.QueryRow(query, email).Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.Timezone,
		&user.PasswordHash,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return user, errors.New("user not found")
		}
		log.Printf("event=user_get_failed email=%s error=%v", email, err)
		return user, errors.New("unable to get user, DB error")
	}

	return user, nil
}

func (q *UserQueries) CreateUser(u *models.User) error {
	query := `INSERT INTO users (uid, username, email, timezone, password_hash, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := q.DB.Exec(query,
		u.ID,
		u.Username,
		u.Email,
		u.Timezone,
		u.PasswordHash,
		u.CreatedAt,
		u.UpdatedAt,
	)
	if err != nil {
		log.Printf("event=user_create_failed email=%s error=%v", u.Email, err)
		return errors.New("unable to create user, DB error")
	}
	return nil
}
