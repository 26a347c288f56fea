package repo

import (
	"errors"

	"github.com/crucial707/asset-tracker/internal/apperr"
	"github.com/lib/pq"
)

const (
	pqUniqueViolation          = "23505"
	pqForeignKeyViolation      = "23503"
	pqNumericOutOfRange        = "22003"
	pqCharacterNotInRepertoire = "22021"
)

// constraintFields maps unique constraints to the payload field they guard.
var constraintFields = map[string]string{
	"assets_asset_tag_lower_key": "assetTag",
	"users_email_lower_key":      "email",
}

// mapWriteError turns Postgres constraint violations into the shared error
// taxonomy and passes anything else through.
func mapWriteError(err error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return err
	}
	switch pqErr.Code {
	case pqUniqueViolation:
		field, ok := constraintFields[pqErr.Constraint]
		if !ok {
			field = "record"
		}
		return apperr.Duplicate(field)
	case pqForeignKeyViolation:
		// The only foreign key is assets.assigned_to -> users.id.
		return apperr.NotFound("user")
	case pqNumericOutOfRange:
		// purchase_cost is the only numeric column.
		return apperr.Invalid("purchaseCost", "out of range")
	case pqCharacterNotInRepertoire:
		return apperr.Invalid("record", "must be valid UTF-8 text")
	}
	return err
}
