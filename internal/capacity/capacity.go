// Package capacity enforces the registration cap per category.
//
// Callers only get an atomic increment-if-below-cap; there is no way to read
// a count and write it back, so concurrent registrations near the cap cannot
// push a counter past it.
package capacity

import (
	"context"
	"errors"
	"fmt"

	"github.com/spellbe/portal-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Category string

const (
	Students   Category = "students"
	Volunteers Category = "volunteers"
)

// LimitReachedMessage is the detail clients match on to close the form.
const LimitReachedMessage = "Registration limit reached"

var (
	ErrLimitReached    = errors.New("registration limit reached")
	ErrUnknownCategory = errors.New("unknown registration category")
)

// Counts is the body of GET /api/registrations/count.
type Counts struct {
	Students               int64 `json:"students"`
	Volunteers             int64 `json:"volunteers"`
	StudentsLimitReached   bool  `json:"students_limit_reached"`
	VolunteersLimitReached bool  `json:"volunteers_limit_reached"`
}

// LimitReached reports the flag for c.
func (c Counts) LimitReached(cat Category) bool {
	switch cat {
	case Students:
		return c.StudentsLimitReached
	case Volunteers:
		return c.VolunteersLimitReached
	}
	return false
}

type Gate struct {
	db   *gorm.DB
	caps map[Category]int64
}

func NewGate(db *gorm.DB, studentCap, volunteerCap int64) *Gate {
	return &Gate{
		db: db,
		caps: map[Category]int64{
			Students:   studentCap,
			Volunteers: volunteerCap,
		},
	}
}

// Cap returns the configured maximum for cat.
func (g *Gate) Cap(cat Category) (int64, error) {
	limit, ok := g.caps[cat]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownCategory, cat)
	}
	return limit, nil
}

// Seed creates a zero counter for every category that has none.
func (g *Gate) Seed(ctx context.Context) error {
	for cat := range g.caps {
		counter := models.Counter{Category: string(cat)}
		err := g.db.WithContext(ctx).
			Clauses(clause.OnConflict{DoNothing: true}).
			Create(&counter).Error
		if err != nil {
			return fmt.Errorf("seed %s counter: %w", cat, err)
		}
	}
	return nil
}

// Counts returns the current totals and whether each category is full.
func (g *Gate) Counts(ctx context.Context) (Counts, error) {
	var counters []models.Counter
	if err := g.db.WithContext(ctx).Find(&counters).Error; err != nil {
		return Counts{}, err
	}

	totals := make(map[Category]int64, len(counters))
	for _, c := range counters {
		totals[Category(c.Category)] = c.Total
	}

	return Counts{
		Students:               totals[Students],
		Volunteers:             totals[Volunteers],
		StudentsLimitReached:   totals[Students] >= g.caps[Students],
		VolunteersLimitReached: totals[Volunteers] >= g.caps[Volunteers],
	}, nil
}

// IncrementIfBelowCap adds one to cat's counter in a single conditional
// UPDATE and returns ErrLimitReached when the counter is already at the cap.
// Pass a transaction as tx to roll the increment back with the caller's
// other writes; nil uses the gate's own connection.
func (g *Gate) IncrementIfBelowCap(ctx context.Context, tx *gorm.DB, cat Category) error {
	limit, err := g.Cap(cat)
	if err != nil {
		return err
	}
	if tx == nil {
		tx = g.db
	}

	res := tx.WithContext(ctx).
		Model(&models.Counter{}).
		Where("category = ? AND total < ?", string(cat), limit).
		Update("total", gorm.Expr("total + ?", 1))
	if res.Error != nil {
		return fmt.Errorf("increment %s counter: %w", cat, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrLimitReached
	}
	return nil
}
