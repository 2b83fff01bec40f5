package repository

import (
	"database/sql"
	"fmt"

	"courtwatch/internal/db"
	"courtwatch/internal/entities"
)

// SubscriberRepository manages the notification recipient list.
type SubscriberRepository struct {
	DB *sql.DB
}

func NewSubscriberRepository(database *sql.DB) *SubscriberRepository {
	return &SubscriberRepository{DB: database}
}

func (r *SubscriberRepository) List() ([]entities.Subscriber, error) {
	rows, err := r.DB.Query(`SELECT id, email, created_at FROM subscribers ORDER BY email`)
	if err != nil {
		return nil, fmt.Errorf("error querying subscribers: %w", err)
	}
	defer rows.Close()

	var subscribers []entities.Subscriber
	for rows.Next() {
		var row db.Subscriber
		if err := rows.Scan(&row.ID, &row.Email, &row.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning subscriber: %w", err)
		}
		subscribers = append(subscribers, entities.Subscriber(row))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error after iterating subscribers: %w", err)
	}
	return subscribers, nil
}

func (r *SubscriberRepository) Add(email string) (*entities.Subscriber, error) {
	sub := &entities.Subscriber{Email: email}
	query := `
		INSERT INTO subscribers (email)
		VALUES ($1)
		ON CONFLICT (email) DO UPDATE SET email = EXCLUDED.email
		RETURNING id, created_at`
	if err := r.DB.QueryRow(query, email).Scan(&sub.ID, &sub.CreatedAt); err != nil {
		return nil, fmt.Errorf("error inserting subscriber: %w", err)
	}
	return sub, nil
}

func (r *SubscriberRepository) Remove(email string) error {
	result, err := r.DB.Exec(`DELETE FROM subscribers WHERE email = $1`, email)
	if err != nil {
		return fmt.Errorf("error deleting subscriber: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("subscriber %s not found", email)
	}
	return nil
}
