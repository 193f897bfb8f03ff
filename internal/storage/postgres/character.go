package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cory-johannsen/delve/internal/game/character"
	"github.com/cory-johannsen/delve/internal/game/ruleset"
)

// ErrCharacterNotFound is returned when a character lookup yields no results.
var ErrCharacterNotFound = errors.New("character not found")

// ErrCharacterNameTaken is returned when creating a character with a name already used by the account.
var ErrCharacterNameTaken = errors.New("character name already taken")

// CharacterRepository provides character persistence operations.
type CharacterRepository struct {
	db *pgxpool.Pool
}

// NewCharacterRepository creates a CharacterRepository backed by the given pool.
//
// Precondition: db must be a valid, open connection pool.
func NewCharacterRepository(db *pgxpool.Pool) *CharacterRepository {
	return &CharacterRepository{db: db}
}

const characterColumns = `id, account_id, name, class, level,
	       strength, wisdom, charisma, dexterity, luck,
	       max_health, created_at, updated_at`

func scanCharacter(row pgx.Row) (*character.Character, error) {
	var c character.Character
	var class string
	err := row.Scan(
		&c.ID, &c.AccountID, &c.Name, &class, &c.Level,
		&c.Stats.Strength, &c.Stats.Wisdom, &c.Stats.Charisma,
		&c.Stats.Dexterity, &c.Stats.Luck,
		&c.MaxHealth, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	c.Class = ruleset.Class(class)
	return &c, nil
}

// Create inserts a new character and returns it with ID and timestamps set.
//
// Precondition: c.AccountID must reference an existing account; c.Name must be non-empty.
// Postcondition: Returns the created character with ID set, or ErrCharacterNameTaken on duplicate.
func (r *CharacterRepository) Create(ctx context.Context, c *character.Character) (*character.Character, error) {
	row := r.db.QueryRow(ctx, `
		INSERT INTO characters
			(account_id, name, class, level,
			 strength, wisdom, charisma, dexterity, luck,
			 max_health)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		RETURNING `+characterColumns,
		c.AccountID, c.Name, string(c.Class), c.Level,
		c.Stats.Strength, c.Stats.Wisdom, c.Stats.Charisma,
		c.Stats.Dexterity, c.Stats.Luck,
		c.MaxHealth,
	)
	out, err := scanCharacter(row)
	if err != nil {
		if isDuplicateKeyError(err) {
			return nil, ErrCharacterNameTaken
		}
		return nil, fmt.Errorf("inserting character: %w", err)
	}
	return out, nil
}

// GetByID retrieves a character by its primary key.
//
// Precondition: id must be a valid UUID string.
// Postcondition: Returns the Character or ErrCharacterNotFound.
func (r *CharacterRepository) GetByID(ctx context.Context, id string) (*character.Character, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+characterColumns+` FROM characters WHERE id = $1`, id)
	c, err := scanCharacter(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCharacterNotFound
		}
		return nil, fmt.Errorf("querying character: %w", err)
	}
	return c, nil
}

// GetParty retrieves the characters for all given IDs, preserving the input
// order.
//
// Precondition: ids must be non-empty.
// Postcondition: Returns ErrCharacterNotFound if any ID is missing.
func (r *CharacterRepository) GetParty(ctx context.Context, ids []string) ([]*character.Character, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+characterColumns+` FROM characters WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, fmt.Errorf("querying party: %w", err)
	}
	defer rows.Close()

	byID := make(map[string]*character.Character, len(ids))
	for rows.Next() {
		c, err := scanCharacter(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning character row: %w", err)
		}
		byID[c.ID] = c
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	party := make([]*character.Character, 0, len(ids))
	for _, id := range ids {
		c, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("party member %s: %w", id, ErrCharacterNotFound)
		}
		party = append(party, c)
	}
	return party, nil
}

// ListByAccount returns all characters for the given account ID, ordered by created_at.
//
// Precondition: accountID must be > 0.
// Postcondition: Returns a slice (may be empty) or a non-nil error.
func (r *CharacterRepository) ListByAccount(ctx context.Context, accountID int64) ([]*character.Character, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+characterColumns+` FROM characters
		 WHERE account_id = $1 ORDER BY created_at ASC`,
		accountID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing characters: %w", err)
	}
	defer rows.Close()

	chars := make([]*character.Character, 0)
	for rows.Next() {
		c, err := scanCharacter(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning character row: %w", err)
		}
		chars = append(chars, c)
	}
	return chars, rows.Err()
}

// SaveProgress persists level, stats, and max health after a completed run's
// rewards are applied.
//
// Precondition: c.ID must reference an existing character.
// Postcondition: Returns nil on success, ErrCharacterNotFound if no row updated.
func (r *CharacterRepository) SaveProgress(ctx context.Context, c *character.Character) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE characters
		SET level = $2,
		    strength = $3, wisdom = $4, charisma = $5, dexterity = $6, luck = $7,
		    max_health = $8, updated_at = NOW()
		WHERE id = $1`,
		c.ID, c.Level,
		c.Stats.Strength, c.Stats.Wisdom, c.Stats.Charisma,
		c.Stats.Dexterity, c.Stats.Luck,
		c.MaxHealth,
	)
	if err != nil {
		return fmt.Errorf("saving character progress: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrCharacterNotFound
	}
	return nil
}
