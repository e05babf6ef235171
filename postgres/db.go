package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/xy-planning-network/wayfarer"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// A DB builds queries over a *gorm.DB and reports their failures as wayfarer errors.
//
// Builder methods chain, each returning a new *DB.
// A finisher method runs the query built so far; it cannot be chained.
// A builder given bad input makes the next finisher return ErrNotValid without touching the database.
type DB struct {
	// Methods of *gorm.DB that do not start a new instance mutate it,
	// so every *DB built from another holds its own pointer.
	db *gorm.DB
}

// NewDB constructs a *DB from a *gorm.DB.
func NewDB(db *gorm.DB) *DB { return &DB{db: db} }

// DB returns the *gorm.DB underneath, for migrations and tests.
func (db *DB) DB() *gorm.DB { return db.db }

// Model names the table the query runs against after the type of model,
// pluralized and snake cased: Trip becomes trips.
// A TableName method on model overrides that.
func (db *DB) Model(model any) *DB { return &DB{db: db.db.Model(model)} }

// Order adds an ORDER BY clause, like "start_date DESC".
func (db *DB) Order(order string) *DB { return &DB{db: db.db.Order(order)} }

// Where adds a condition, ANDed with any before it.
// The query takes at most one arg; more, or a nil query, is ErrNotValid.
func (db *DB) Where(query any, args ...any) *DB {
	switch {
	case query == nil:
		return db.withErr(fmt.Errorf("%w: Where needs a query", wayfarer.ErrNotValid))
	case len(args) > 1:
		return db.withErr(fmt.Errorf("%w: Where supports one or none args", wayfarer.ErrNotValid))
	}

	return &DB{db: db.db.Where(query, args...)}
}

// WithContext runs the query under ctx.
func (db *DB) WithContext(ctx context.Context) *DB { return &DB{db: db.db.WithContext(ctx)} }

// Create inserts value as a new record, filling in its ID and timestamps.
//
// With Model naming the table, an Updates may stand in for the record.
// Anything but a non-nil pointer or slice returns ErrUnaddressable.
// A value with no table returns ErrMissingData.
func (db *DB) Create(value any) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %T must be a non-nil pointer or slice", wayfarer.ErrUnaddressable, value)
		}
	}()

	if db.db.Error != nil {
		return db.db.Error
	}

	if u, ok := value.(Updates); ok {
		if err := u.valid(); err != nil {
			return err
		}
		value = map[string]any(u)
	}

	res := db.db.Session(&gorm.Session{FullSaveAssociations: false}).Create(value)
	return translate(res.Error, fmt.Sprintf("creating %T", value))
}

// Delete soft deletes the records of value's table the query matches.
// Matching none returns ErrNotFound.
func (db *DB) Delete(value any) error {
	if db.db.Error != nil {
		return db.db.Error
	}

	res := db.db.Delete(value)
	return affected(res, fmt.Sprintf("deleting %T", value))
}

// Find scans every record the query matches into dest, a pointer to a slice.
//
// A dest the rows do not fit returns ErrNotValid.
// Matching none returns ErrNotFound.
func (db *DB) Find(dest any) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %T cannot be scanned into", wayfarer.ErrNotValid, dest)
		}
	}()

	if db.db.Error != nil {
		return db.db.Error
	}

	res := db.db.Find(dest)
	if res.Error != nil && errSQLScan.MatchString(res.Error.Error()) {
		return fmt.Errorf("%w: %T cannot be scanned into", wayfarer.ErrNotValid, dest)
	}

	return affected(res, fmt.Sprintf("finding %T", dest))
}

// First scans the first record the query matches, by primary key, into dest.
// Matching none returns ErrNotFound.
func (db *DB) First(dest any) error {
	if db.db.Error != nil {
		return db.db.Error
	}

	err := db.db.First(dest).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: no %T", wayfarer.ErrNotFound, dest)
	}

	return translate(err, fmt.Sprintf("finding %T", dest))
}

// Raw runs sql with values bound to its placeholders and scans the rows into dest.
func (db *DB) Raw(dest any, sql string, values ...any) error {
	if db.db.Error != nil {
		return db.db.Error
	}

	return translate(db.db.Raw(sql, values...).Scan(dest).Error, "scanning results")
}

// Update writes values to every record the query matches.
//
// An empty values returns ErrMissingData.
// Matching none returns ErrNotFound.
func (db *DB) Update(values Updates) error {
	if db.db.Error != nil {
		return db.db.Error
	}

	if err := values.valid(); err != nil {
		return err
	}

	res := db.db.Updates(map[string]any(values))
	return affected(res, "updating")
}

// withErr returns a *DB carrying err so the next finisher method returns it.
// db is left as it was.
func (db *DB) withErr(err error) *DB {
	gdb := db.db.Session(safeGORMSession)
	_ = gdb.AddError(err)
	return &DB{db: gdb}
}

// affected is translate, except that a statement changing or finding no rows is ErrNotFound.
func affected(res *gorm.DB, doing string) error {
	if res.Error == nil && res.RowsAffected == 0 {
		return fmt.Errorf("%w: %s matched no rows", wayfarer.ErrNotFound, doing)
	}

	return translate(res.Error, doing)
}

// translate maps an error from GORM or PostgreSQL onto the wayfarer error it means.
// Unrecognized errors are ErrUnexpected.
func translate(err error, doing string) error {
	if err == nil {
		return nil
	}

	msg := err.Error()
	switch {
	case errors.Is(err, schema.ErrUnsupportedDataType), errors.Is(err, gorm.ErrInvalidData):
		return fmt.Errorf("%w: %s: no table", wayfarer.ErrMissingData, doing)

	case errUniqViolation.MatchString(msg):
		return fmt.Errorf("%w: %s", wayfarer.ErrExists, err)

	case errFKViolation.MatchString(msg), errSQLSyntax.MatchString(msg):
		return fmt.Errorf("%w: %s", wayfarer.ErrNotValid, err)

	case errSQLUnaddressable.MatchString(msg):
		return fmt.Errorf("%w: %s", wayfarer.ErrUnaddressable, err)

	default:
		return fmt.Errorf("%w: failed %s: %s", wayfarer.ErrUnexpected, doing, err)
	}
}
