package repository

import (
	"errors"

	"github.com/MikeMikeRx/my-crm-app-sub000/internal/billing"

	"gorm.io/gorm"
)

// translate maps storage-layer errors onto the billing error kinds so that
// services and handlers never depend on gorm error values. Requires the
// connection to be opened with TranslateError so unique-index violations
// surface as gorm.ErrDuplicatedKey.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return billing.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return billing.ErrConflict
	default:
		return err
	}
}
